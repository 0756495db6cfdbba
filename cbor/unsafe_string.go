package cbor

import "unsafe"

// UnsafeString returns a string sharing the underlying memory of b.
// Callers must guarantee the backing buffer stays immutable for the
// lifetime of the string.
func UnsafeString(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}
