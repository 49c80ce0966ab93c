package bufferpool

import "unsafe"

// addressOf returns the numeric address of a slice's backing array, used
// only to compute the alignment padding in New.
func addressOf(buf []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
}
