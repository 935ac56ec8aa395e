package layout

import "math/bits"

// addOverflowSafe adds a and b, returning ok = false when the sum wraps.
func addOverflowSafe(a, b uintptr) (uintptr, bool) {
	sum, carry := bits.Add(uint(a), uint(b), 0)
	return uintptr(sum), carry == 0
}

// mulOverflowSafe multiplies a and b, returning ok = false when the product wraps.
func mulOverflowSafe(a, b uintptr) (uintptr, bool) {
	hi, lo := bits.Mul(uint(a), uint(b))
	return uintptr(lo), hi == 0
}
