package cbor

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"math/big"
	"strconv"
)

// ToJSONBytes converts the next CBOR data item into JSON and returns
// the JSON bytes plus the remaining input. The conversion runs the
// event parser over the item with a JSON-writing Handler, so it
// exercises exactly the event stream any other handler would see:
// byte strings become base64 strings, bignums and decimal fractions
// become their decimal renderings, and non-finite floats become null.
func ToJSONBytes(b []byte) ([]byte, []byte, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)

	p := NewParser(b)
	w := &jsonWriter{buf: bb}
	if err := p.ParseSome(w); err != nil {
		return nil, b, err
	}
	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return out, p.rest(), nil
}

var _ Handler = (*jsonWriter)(nil)

// jsonWriter is the Handler behind ToJSONBytes. It tracks container
// nesting to place commas and colons.
type jsonWriter struct {
	buf   *ByteBuffer
	stack []jsonFrame
}

type jsonFrame struct {
	n         int  // members emitted so far
	afterName bool // a key was just written; suppress the next comma
}

func (w *jsonWriter) sep() {
	if len(w.stack) == 0 {
		return
	}
	top := &w.stack[len(w.stack)-1]
	if top.afterName {
		top.afterName = false
		return
	}
	if top.n > 0 {
		w.buf.WriteString(",")
	}
	top.n++
}

func (w *jsonWriter) Uint64Value(v uint64, _ TagKind, _ Context) error {
	w.sep()
	w.buf.WriteString(strconv.FormatUint(v, 10))
	return nil
}

func (w *jsonWriter) Int64Value(v int64, _ TagKind, _ Context) error {
	w.sep()
	w.buf.WriteString(strconv.FormatInt(v, 10))
	return nil
}

func (w *jsonWriter) DoubleValue(v float64, _ TagKind, _ Context) error {
	w.sep()
	if math.IsInf(v, 0) || math.IsNaN(v) {
		w.buf.WriteString("null")
		return nil
	}
	w.buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	return nil
}

func (w *jsonWriter) BoolValue(v bool, _ Context) error {
	w.sep()
	w.buf.WriteString(strconv.FormatBool(v))
	return nil
}

func (w *jsonWriter) NullValue(_ Context) error {
	w.sep()
	w.buf.WriteString("null")
	return nil
}

func (w *jsonWriter) StringValue(s string, _ TagKind, _ Context) error {
	w.sep()
	return w.writeQuoted(s)
}

func (w *jsonWriter) ByteStringValue(v []byte, _ Context) error {
	w.sep()
	w.buf.WriteString(`"`)
	enc := base64.StdEncoding
	d := w.buf.Extend(enc.EncodedLen(len(v)))
	enc.Encode(d, v)
	w.buf.WriteString(`"`)
	return nil
}

func (w *jsonWriter) BignumValue(sign int, mag []byte, _ Context) error {
	w.sep()
	z := new(big.Int).SetBytes(mag)
	if sign < 0 {
		z.Add(z, big.NewInt(1))
		z.Neg(z)
	}
	w.buf.WriteString(z.String())
	return nil
}

func (w *jsonWriter) BeginArray(_ int, _ Context) error { return w.begin(false) }
func (w *jsonWriter) BeginArrayIndefinite(_ Context) error { return w.begin(false) }

func (w *jsonWriter) EndArray(_ Context) error {
	w.stack = w.stack[:len(w.stack)-1]
	w.buf.WriteString("]")
	return nil
}

func (w *jsonWriter) BeginMap(_ int, _ Context) error { return w.begin(true) }
func (w *jsonWriter) BeginMapIndefinite(_ Context) error { return w.begin(true) }

func (w *jsonWriter) EndMap(_ Context) error {
	w.stack = w.stack[:len(w.stack)-1]
	w.buf.WriteString("}")
	return nil
}

func (w *jsonWriter) begin(isMap bool) error {
	w.sep()
	if isMap {
		w.buf.WriteString("{")
	} else {
		w.buf.WriteString("[")
	}
	w.stack = append(w.stack, jsonFrame{})
	return nil
}

func (w *jsonWriter) Name(s string, _ Context) error {
	top := &w.stack[len(w.stack)-1]
	if top.n > 0 {
		w.buf.WriteString(",")
	}
	if err := w.writeQuoted(s); err != nil {
		return err
	}
	w.buf.WriteString(":")
	top.n++
	top.afterName = true
	return nil
}

func (w *jsonWriter) Flush() error { return nil }

func (w *jsonWriter) writeQuoted(s string) error {
	js, err := json.Marshal(s)
	if err != nil {
		return err
	}
	w.buf.Write(js)
	return nil
}
