//go:build darwin

package alloc

import "golang.org/x/sys/unix"

// systemMemory returns physical memory, or 0 when unknown. Swap on darwin
// grows on demand and is not counted.
func systemMemory() uint64 {
	n, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0
	}
	return n
}
