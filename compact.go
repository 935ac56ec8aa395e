package thinvec

// Retain keeps the elements for which keep returns true, in order, and drops
// the rest. keep may modify the element it is given. If keep panics the
// element under test and everything after it are kept.
func (v *Vec[T]) Retain(keep func(*T) bool) {
	n := v.Len()
	if n == 0 {
		return
	}
	s := v.slots()[:n]
	processed, deleted := 0, 0

	defer func() {
		if deleted > 0 {
			copy(s[processed-deleted:], s[processed:])
			clear(s[n-deleted:])
		}
		v.setLen(n - deleted)
	}()

	var zero T
	for processed < n {
		p := &s[processed]
		if !keep(p) {
			x := *p
			*p = zero
			processed++
			deleted++
			dropOne(&x)
			continue
		}
		if deleted > 0 {
			s[processed-deleted] = *p
			*p = zero
		}
		processed++
	}
}

// DedupBy removes consecutive elements for which same(cur, prev) returns
// true, where prev is the last element kept. Removed elements are dropped.
// If same panics the unread elements are kept.
func (v *Vec[T]) DedupBy(same func(cur, prev *T) bool) {
	n := v.Len()
	if n <= 1 {
		return
	}
	s := v.slots()[:n]
	read, write := 1, 1

	defer func() {
		if read > write {
			copy(s[write:], s[read:])
			clear(s[write+n-read:])
		}
		v.setLen(write + n - read)
	}()

	var zero T
	for read < n {
		cur := &s[read]
		if same(cur, &s[write-1]) {
			x := *cur
			*cur = zero
			read++
			dropOne(&x)
			continue
		}
		if read != write {
			s[write] = *cur
			*cur = zero
		}
		read++
		write++
	}
}

// Dedup removes consecutive equal elements.
func Dedup[T comparable](v *Vec[T]) {
	v.DedupBy(func(cur, prev *T) bool { return *cur == *prev })
}

// DedupByKey removes consecutive elements that map to the same key.
func DedupByKey[T any, K comparable](v *Vec[T], key func(*T) K) {
	v.DedupBy(func(cur, prev *T) bool { return key(cur) == key(prev) })
}
