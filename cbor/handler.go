package cbor

// TagKind annotates an event with the semantic tag that wrapped the
// item, folded down to the tags this decoder interprets. A tag event
// is never delivered on its own; its meaning rides on the wrapped
// item's event.
type TagKind uint8

// Tag kinds carried on handler events.
const (
	TagNone      TagKind = iota
	TagDateTime          // tag 0 on a text string
	TagEpochTime         // tag 1 on an integer or float
	TagDecimal           // tag 4, delivered as a rendered string
)

// String implements fmt.Stringer
func (k TagKind) String() string {
	switch k {
	case TagDateTime:
		return "date-time"
	case TagEpochTime:
		return "epoch-time"
	case TagDecimal:
		return "decimal"
	default:
		return "none"
	}
}

// Context reports the position of the event being delivered. For this
// binary parser the line is always 1 and the column is the byte
// offset of the parse cursor plus one.
//
// A Context passed to a Handler method is only valid for the duration
// of that call.
type Context interface {
	Line() int
	Column() int
}

// A Handler consumes the event stream produced by a Parser. Events
// arrive in document order; containers are bracketed by paired Begin
// and End calls at matching nesting depth, and each map key arrives as
// a Name event immediately before its value's event subtree.
//
// If a method returns an error the parse stops and that error is
// returned to the caller. Events already delivered are not rewound.
type Handler interface {
	// Uint64Value reports an unsigned integer. tag is TagEpochTime for
	// tag 1, otherwise TagNone.
	Uint64Value(v uint64, tag TagKind, ctx Context) error

	// Int64Value reports a negative integer (major type 1).
	Int64Value(v int64, tag TagKind, ctx Context) error

	// DoubleValue reports a float of any encoded precision, widened to
	// float64.
	DoubleValue(v float64, tag TagKind, ctx Context) error

	// BoolValue reports true or false.
	BoolValue(v bool, ctx Context) error

	// NullValue reports a null.
	NullValue(ctx Context) error

	// StringValue reports a text string. tag is TagDateTime for tag 0
	// and TagDecimal for a rendered decimal fraction. Unless
	// UnsafeStringDecode is set, the string is materialized and does
	// not alias the input buffer.
	StringValue(s string, tag TagKind, ctx Context) error

	// ByteStringValue reports a byte string that carried no bignum
	// tag. The slice may alias the input buffer and is only valid for
	// the duration of the call.
	ByteStringValue(v []byte, ctx Context) error

	// BignumValue reports a tag 2 (sign +1) or tag 3 (sign -1) bignum.
	// mag holds the big-endian magnitude; for sign -1 the value is
	// -1 - mag. The slice is only valid for the duration of the call.
	BignumValue(sign int, mag []byte, ctx Context) error

	// BeginArray opens an array of n elements.
	BeginArray(n int, ctx Context) error

	// BeginArrayIndefinite opens an array of unknown length.
	BeginArrayIndefinite(ctx Context) error

	// EndArray closes the most recently opened array.
	EndArray(ctx Context) error

	// BeginMap opens a map of n key/value pairs.
	BeginMap(n int, ctx Context) error

	// BeginMapIndefinite opens a map of unknown length.
	BeginMapIndefinite(ctx Context) error

	// EndMap closes the most recently opened map.
	EndMap(ctx Context) error

	// Name reports a map key. Keys are always text strings.
	Name(s string, ctx Context) error

	// Flush is called when nesting depth returns to zero after a
	// complete top-level item.
	Flush() error
}
