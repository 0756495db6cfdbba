package cbor

import (
	"errors"
	"strconv"
)

var (
	// ErrShortBytes is returned when the slice being decoded is too
	// short to contain a complete data item (the unexpected-eof case).
	ErrShortBytes error = errShort{}

	// ErrMaxDepthExceeded is returned when container or tag nesting
	// exceeds the configured ceiling.
	ErrMaxDepthExceeded error = errors.New("cbor: max nesting depth exceeded")

	// ErrSourceError is returned when the input is structurally invalid
	// in a way that is not a truncation: a stray break byte, a reserved
	// additional-info code, or a non-text map key seen by the parser.
	ErrSourceError error = errors.New("cbor: invalid item in source")

	// ErrInvalidUTF8 is returned in strict mode when a text string does
	// not hold valid UTF-8.
	ErrInvalidUTF8 error = errors.New("cbor: invalid UTF-8 in text string")

	// ErrInvalidDecimal is returned when a tag 4 item is not a
	// two-element array of exponent and mantissa.
	ErrInvalidDecimal error = errors.New("cbor: invalid decimal fraction")
)

// Error is the interface satisfied by the structured errors that
// originate from this package.
type Error interface {
	error

	// Resumable reports whether decoding may continue past the failed
	// item. Structural errors are not resumable; type mismatches and
	// overflows leave the cursor untouched and are.
	Resumable() bool
}

// Resumable reports whether the error permits further decoding from
// the same buffer. Errors from outside the package default to false.
func Resumable(e error) bool {
	var ce Error
	if errors.As(e, &ce) {
		return ce.Resumable()
	}
	return false
}

type errShort struct{}

func (e errShort) Error() string   { return "cbor: too few bytes left to read item" }
func (e errShort) Resumable() bool { return false }

// IntOverflow is returned when a decoded integer does not fit the
// signed width requested by the caller.
type IntOverflow struct {
	Value         int64 // the offending value, clamped
	FailedBitsize int   // the bit size that could not hold it
}

// Error implements the error interface
func (i IntOverflow) Error() string {
	return "cbor: " + strconv.FormatInt(i.Value, 10) + " overflows int" + strconv.Itoa(i.FailedBitsize)
}

// Resumable is always 'true' for overflows
func (i IntOverflow) Resumable() bool { return true }

// UintOverflow is returned when a decoded unsigned integer does not
// fit the unsigned width requested by the caller.
type UintOverflow struct {
	Value         uint64 // value of the uint
	FailedBitsize int    // the bit size that could not hold it
}

// Error implements the error interface
func (u UintOverflow) Error() string {
	return "cbor: " + strconv.FormatUint(u.Value, 10) + " overflows uint" + strconv.Itoa(u.FailedBitsize)
}

// Resumable is always 'true' for overflows
func (u UintOverflow) Resumable() bool { return true }

// TypeError is returned when a typed reader is applied to an item of a
// different type. The cursor is left unmoved, so the caller may retry
// with the correct reader.
type TypeError struct {
	Method  Type // type expected by the reader
	Encoded Type // type actually present
}

// Error implements the error interface
func (t TypeError) Error() string {
	return "cbor: attempted to decode type " + strconv.Quote(t.Encoded.String()) +
		" with method for " + strconv.Quote(t.Method.String())
}

// Resumable returns 'true' for TypeErrors
func (t TypeError) Resumable() bool { return true }

// InvalidPrefixError is returned when an item's head byte is not one
// the reader accepts: a different major type, or, for the fixed-width
// float readers, a float of a different width. Reserved additional-info
// codes (28-30) are reported as ErrSourceError instead.
type InvalidPrefixError struct {
	Want uint8
	Got  uint8
}

// Error implements the error interface
func (i InvalidPrefixError) Error() string {
	return "cbor: expected major type " + strconv.Itoa(int(i.Want)) +
		" but got " + strconv.Itoa(int(i.Got))
}

// Resumable returns 'false' for InvalidPrefixErrors
func (i InvalidPrefixError) Resumable() bool { return false }

// badPrefix reports a major-type mismatch.
func badPrefix(gotMajor, wantMajor uint8) error {
	return InvalidPrefixError{Want: wantMajor, Got: gotMajor}
}
