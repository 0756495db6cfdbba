package cbor

import "math/big"

// ValueView is a zero-copy window onto one encoded data item. It
// borrows the underlying document; its lifetime is bounded by the
// buffer it was created from. Views are cheap to copy.
type ValueView struct {
	item []byte // exactly the item's encoding
	base int    // byte offset of item[0] within the document
}

// View locates the first data item in b and returns a view of it.
func View(b []byte) (ValueView, error) {
	rest, err := Skip(b)
	if err != nil {
		return ValueView{}, err
	}
	return ValueView{item: b[:len(b)-len(rest)]}, nil
}

// Raw returns the item's encoded bytes without copying.
func (v ValueView) Raw() []byte { return v.item }

// Offset returns the item's byte offset within its document.
func (v ValueView) Offset() int { return v.base }

// Type classifies the viewed item.
func (v ValueView) Type() Type { return NextType(v.item) }

// Uint64 decodes the item as an unsigned integer.
func (v ValueView) Uint64() (uint64, error) {
	u, _, err := ReadUint64Bytes(v.item)
	return u, err
}

// Int64 decodes the item as an integer of major type 0 or 1.
func (v ValueView) Int64() (int64, error) {
	i, _, err := ReadInt64Bytes(v.item)
	return i, err
}

// Float64 decodes the item as a float of any encoded precision.
func (v ValueView) Float64() (float64, error) {
	f, _, err := ReadAnyFloatBytes(v.item)
	return f, err
}

// Bool decodes the item as a boolean.
func (v ValueView) Bool() (bool, error) {
	t, _, err := ReadBoolBytes(v.item)
	return t, err
}

// IsNull reports whether the item is a null.
func (v ValueView) IsNull() bool { return IsNil(v.item) }

// String materializes the item as a text string, concatenating an
// indefinite-length encoding.
func (v ValueView) String() (string, error) {
	s, _, err := ReadStringBytes(v.item)
	return s, err
}

// Bytes decodes the item as a byte string. The result aliases the
// document for definite-length items.
func (v ValueView) Bytes() ([]byte, error) {
	bs, _, err := ReadBytesBytes(v.item, nil)
	return bs, err
}

// BigInt decodes the item as a tag 2/3 bignum.
func (v ValueView) BigInt() (*big.Int, error) {
	z, _, err := ReadBigIntBytes(v.item)
	return z, err
}

// DecimalString decodes the item as a tag 4 decimal fraction and
// renders it.
func (v ValueView) DecimalString() (string, error) {
	s, _, err := ReadDecimalFractionStringBytes(v.item)
	return s, err
}

// Tag returns the item's semantic tag number and a view of the
// wrapped item.
func (v ValueView) Tag() (uint64, ValueView, error) {
	tag, o, err := ReadTagBytes(v.item)
	if err != nil {
		return 0, ValueView{}, err
	}
	inner := ValueView{item: o, base: v.base + (len(v.item) - len(o))}
	return tag, inner, nil
}

// Number decodes the item as a numeric union, preserving whether it
// was encoded as an unsigned integer, a negative integer or a float.
func (v ValueView) Number() (Number, error) {
	var n Number
	err := n.decode(v.item)
	return n, err
}

// Len returns the element count of an array item or the pair count of
// a map item, walking indefinite-length containers to count them.
func (v ValueView) Len() (int, error) {
	switch NextType(v.item) {
	case ArrayType:
		n, _, err := ReadArraySizeBytes(v.item)
		return n, err
	case MapType:
		n, _, err := ReadMapSizeBytes(v.item)
		return n, err
	default:
		return 0, TypeError{Method: ArrayType, Encoded: NextType(v.item)}
	}
}

// Array opens a forward iterator over the elements of an array item.
func (v ValueView) Array() (*ArrayIterator, error) {
	if NextType(v.item) != ArrayType {
		return nil, TypeError{Method: ArrayType, Encoded: NextType(v.item)}
	}
	n, indef, rest, err := ReadArrayStartBytes(v.item)
	if err != nil {
		return nil, err
	}
	it := &ArrayIterator{
		p:      rest,
		remain: int(n),
		base:   v.base + (len(v.item) - len(rest)),
	}
	if indef {
		it.remain = -1
	}
	return it, nil
}

// Map opens a forward iterator over the members of a map item.
func (v ValueView) Map() (*MapIterator, error) {
	if NextType(v.item) != MapType {
		return nil, TypeError{Method: MapType, Encoded: NextType(v.item)}
	}
	n, indef, rest, err := ReadMapStartBytes(v.item)
	if err != nil {
		return nil, err
	}
	it := &MapIterator{
		p:      rest,
		remain: int(n),
		base:   v.base + (len(v.item) - len(rest)),
	}
	if indef {
		it.remain = -1
	}
	return it, nil
}

// ArrayIterator steps over the elements of an array without decoding
// them: each advance is one walker call. The iterator borrows the
// same buffer as the view it came from.
//
//	it, _ := view.Array()
//	for it.Next() {
//	    elem := it.Value()
//	    ...
//	}
//	if it.Err() != nil { ... }
type ArrayIterator struct {
	p      []byte
	remain int // elements left; -1 until an indefinite form sees break
	base   int
	cur    ValueView
	err    error
}

// Next advances to the next element, reporting false at the end of
// the array or on a malformed element. Err distinguishes the two.
func (it *ArrayIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if it.remain == 0 {
		return false
	}
	if it.remain < 0 {
		if len(it.p) < 1 {
			it.err = ErrShortBytes
			return false
		}
		if it.p[0] == breakByte {
			it.remain = 0
			return false
		}
	}
	end, err := Skip(it.p)
	if err != nil {
		it.err = err
		return false
	}
	n := len(it.p) - len(end)
	it.cur = ValueView{item: it.p[:n], base: it.base}
	it.base += n
	it.p = end
	if it.remain > 0 {
		it.remain--
	}
	return true
}

// Value returns a view of the element most recently advanced to.
func (it *ArrayIterator) Value() ValueView { return it.cur }

// Err returns the error that stopped iteration, if any.
func (it *ArrayIterator) Err() error { return it.err }

// MemberView exposes one map entry: the key is decoded on demand as a
// text string, the value stays an undecoded view.
type MemberView struct {
	key ValueView
	val ValueView
}

// Key materializes the member's key.
func (m MemberView) Key() (string, error) {
	s, _, err := ReadStringBytes(m.key.item)
	return s, err
}

// KeyView returns the undecoded key item.
func (m MemberView) KeyView() ValueView { return m.key }

// Value returns the member's value view.
func (m MemberView) Value() ValueView { return m.val }

// MapIterator steps over the members of a map, walking twice per
// advance: once past the key and once past the value.
type MapIterator struct {
	p      []byte
	remain int // pairs left; -1 until an indefinite form sees break
	base   int
	cur    MemberView
	err    error
}

// Next advances to the next member, reporting false at the end of the
// map or on a malformed member.
func (it *MapIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if it.remain == 0 {
		return false
	}
	if it.remain < 0 {
		if len(it.p) < 1 {
			it.err = ErrShortBytes
			return false
		}
		if it.p[0] == breakByte {
			it.remain = 0
			return false
		}
	}
	keyEnd, err := Skip(it.p)
	if err != nil {
		it.err = err
		return false
	}
	valEnd, err := Skip(keyEnd)
	if err != nil {
		it.err = err
		return false
	}
	kn := len(it.p) - len(keyEnd)
	vn := len(keyEnd) - len(valEnd)
	it.cur = MemberView{
		key: ValueView{item: it.p[:kn], base: it.base},
		val: ValueView{item: keyEnd[:vn], base: it.base + kn},
	}
	it.base += kn + vn
	it.p = valEnd
	if it.remain > 0 {
		it.remain--
	}
	return true
}

// Member returns the entry most recently advanced to.
func (it *MapIterator) Member() MemberView { return it.cur }

// Err returns the error that stopped iteration, if any.
func (it *MapIterator) Err() error { return it.err }
