package utils

import (
	"unsafe"
)

// BytesToT32 reinterprets a raw little-endian byte buffer as a slice of
// 4-byte values without copying. Used to read inference output tensors.
func BytesToT32[T int32 | float32](arr []byte) []T {
	if len(arr) == 0 {
		return nil
	}

	l := len(arr) / 4
	ptr := unsafe.Pointer(&arr[0])
	return (*[1 << 26]T)(ptr)[:l:l]
}
