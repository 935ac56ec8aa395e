//go:build !linux && !darwin

package alloc

func systemMemory() uint64 {
	return 0
}
