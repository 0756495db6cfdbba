package cbor

import "unicode/utf8"

// isUTF8Valid validates UTF-8 for a byte slice. A variable so that
// SIMD-accelerated implementations can be swapped in via build tags.
var isUTF8Valid = func(b []byte) bool { return utf8.Valid(b) }
