package cbor

// Parser translates one CBOR data item into Handler events. A Parser
// borrows its input buffer for its lifetime and owns only a cursor
// into it; distinct Parsers over the same buffer are independent.
//
// The zero value is ready for Update. Typical use:
//
//	p := cbor.NewParser(buf)
//	if err := p.Parse(handler); err != nil { ... }
//
// ParseSome is the incremental form: each call consumes exactly one
// top-level item and delivers its events, so a caller can interleave
// other work between items of a CBOR sequence.
type Parser struct {
	buf       []byte
	off       int
	depth     int
	maxDepth  int
	strictUTF bool
}

// NewParser constructs a Parser over one fully loaded buffer.
func NewParser(b []byte) *Parser {
	p := &Parser{}
	p.Update(b)
	return p
}

// Update installs a new input buffer and rewinds the cursor.
func (p *Parser) Update(b []byte) {
	p.buf = b
	p.off = 0
	p.depth = 0
}

// Reset clears the cursor and nesting state, keeping the buffer.
func (p *Parser) Reset() {
	p.off = 0
	p.depth = 0
}

// SetMaxDepth overrides the default nesting ceiling. Zero restores
// the default.
func (p *Parser) SetMaxDepth(n int) { p.maxDepth = n }

// SetStrictUTF8 makes the parser reject text strings that are not
// valid UTF-8, independent of the package-level decode flag.
func (p *Parser) SetStrictUTF8(strict bool) { p.strictUTF = strict }

// Done reports whether the buffer is fully consumed.
func (p *Parser) Done() bool { return p.off >= len(p.buf) }

// Line implements Context. Binary input has no line structure.
func (p *Parser) Line() int { return 1 }

// Column implements Context: the cursor's byte offset plus one.
func (p *Parser) Column() int { return p.off + 1 }

// Parse consumes every item remaining in the buffer and delivers its
// events to h, flushing after each top-level item.
func (p *Parser) Parse(h Handler) error {
	for !p.Done() {
		if err := p.ParseSome(h); err != nil {
			return err
		}
	}
	return nil
}

// ParseSome parses exactly one data item and delivers its events.
// On error the parse stops immediately; events already delivered
// stand, and the cursor is left where the failure was detected.
func (p *Parser) ParseSome(h Handler) error {
	if err := p.parseItem(h); err != nil {
		return err
	}
	if p.depth == 0 {
		return h.Flush()
	}
	return nil
}

func (p *Parser) limit() int {
	if p.maxDepth > 0 {
		return p.maxDepth
	}
	return maxNestingDepth
}

// rest returns the unconsumed tail of the buffer.
func (p *Parser) rest() []byte { return p.buf[p.off:] }

// advanceTo moves the cursor so that rest() == o.
func (p *Parser) advanceTo(o []byte) { p.off = len(p.buf) - len(o) }

func (p *Parser) parseItem(h Handler) error {
	b := p.rest()
	if len(b) < 1 {
		return ErrShortBytes
	}

	// Consume any run of tag heads. Only the innermost tag can bind to
	// the item that follows; outer tags are stripped like any other
	// unrecognized tag. Tag 4 diverts to the decimal path, which
	// consumes its whole array and collapses it to one string event.
	hasTag := false
	var tag uint64
	for getMajorType(b[0]) == majorTypeTag {
		t, o, err := ReadTagBytes(b)
		if err != nil {
			return err
		}
		if t == tagDecimalFrac {
			s, o2, err := ReadDecimalFractionStringBytes(b)
			if err != nil {
				return err
			}
			if err := h.StringValue(s, TagDecimal, p); err != nil {
				return err
			}
			p.advanceTo(o2)
			return nil
		}
		hasTag = true
		tag = t
		p.advanceTo(o)
		b = o
		if len(b) < 1 {
			return ErrShortBytes
		}
	}

	switch getMajorType(b[0]) {
	case majorTypeUint:
		v, o, err := ReadUint64Bytes(b)
		if err != nil {
			return err
		}
		p.advanceTo(o)
		return h.Uint64Value(v, scalarTagKind(hasTag, tag), p)

	case majorTypeNegInt:
		v, o, err := ReadInt64Bytes(b)
		if err != nil {
			return err
		}
		p.advanceTo(o)
		return h.Int64Value(v, scalarTagKind(hasTag, tag), p)

	case majorTypeBytes:
		v, o, err := ReadBytesBytes(b, nil)
		if err != nil {
			return err
		}
		p.advanceTo(o)
		if hasTag && tag == tagPosBignum {
			return h.BignumValue(1, v, p)
		}
		if hasTag && tag == tagNegBignum {
			return h.BignumValue(-1, v, p)
		}
		return h.ByteStringValue(v, p)

	case majorTypeText:
		s, o, err := p.readText(b)
		if err != nil {
			return err
		}
		p.advanceTo(o)
		kind := TagNone
		if hasTag && tag == tagDateTimeString {
			kind = TagDateTime
		}
		return h.StringValue(s, kind, p)

	case majorTypeArray:
		return p.parseArray(b, h)

	case majorTypeMap:
		return p.parseMap(b, h)

	case majorTypeSimple:
		return p.parseSimple(b, h, hasTag, tag)
	}

	// majorTypeTag is unreachable: every tag head was consumed above.
	return ErrSourceError
}

// scalarTagKind folds the one tag the integer and float paths
// understand. Unknown tags are stripped.
func scalarTagKind(hasTag bool, tag uint64) TagKind {
	if hasTag && tag == tagEpochDateTime {
		return TagEpochTime
	}
	return TagNone
}

func (p *Parser) readText(b []byte) (string, []byte, error) {
	s, o, err := ReadStringBytes(b)
	if err != nil {
		return "", b, err
	}
	if p.strictUTF && !ValidateUTF8OnDecode && !isUTF8Valid([]byte(s)) {
		return "", b, ErrInvalidUTF8
	}
	return s, o, nil
}

func (p *Parser) parseArray(b []byte, h Handler) error {
	if p.depth >= p.limit() {
		return ErrMaxDepthExceeded
	}
	n, indef, o, err := ReadArrayStartBytes(b)
	if err != nil {
		return err
	}
	p.advanceTo(o)

	p.depth++
	if indef {
		if err := h.BeginArrayIndefinite(p); err != nil {
			return err
		}
		for {
			rest, stop, err := ReadBreakBytes(p.rest())
			if err != nil {
				return err
			}
			if stop {
				p.advanceTo(rest)
				break
			}
			if err := p.parseItem(h); err != nil {
				return err
			}
		}
	} else {
		if err := h.BeginArray(int(n), p); err != nil {
			return err
		}
		for i := uint32(0); i < n; i++ {
			if err := p.parseItem(h); err != nil {
				return err
			}
		}
	}
	if err := h.EndArray(p); err != nil {
		return err
	}
	p.depth--
	return nil
}

func (p *Parser) parseMap(b []byte, h Handler) error {
	if p.depth >= p.limit() {
		return ErrMaxDepthExceeded
	}
	n, indef, o, err := ReadMapStartBytes(b)
	if err != nil {
		return err
	}
	p.advanceTo(o)

	p.depth++
	if indef {
		if err := h.BeginMapIndefinite(p); err != nil {
			return err
		}
		for {
			rest, stop, err := ReadBreakBytes(p.rest())
			if err != nil {
				return err
			}
			if stop {
				p.advanceTo(rest)
				break
			}
			if err := p.parseName(h); err != nil {
				return err
			}
			if err := p.parseItem(h); err != nil {
				return err
			}
		}
	} else {
		if err := h.BeginMap(int(n), p); err != nil {
			return err
		}
		for i := uint32(0); i < n; i++ {
			if err := p.parseName(h); err != nil {
				return err
			}
			if err := p.parseItem(h); err != nil {
				return err
			}
		}
	}
	if err := h.EndMap(p); err != nil {
		return err
	}
	p.depth--
	return nil
}

// parseName parses a map key. Keys are restricted to text strings;
// anything else is a source error. (CBOR itself permits arbitrary
// keys; the restriction keeps the event stream compatible with the
// JSON-family handlers this decoder feeds.)
func (p *Parser) parseName(h Handler) error {
	b := p.rest()
	if len(b) < 1 {
		return ErrShortBytes
	}
	if getMajorType(b[0]) != majorTypeText {
		return ErrSourceError
	}
	s, o, err := p.readText(b)
	if err != nil {
		return err
	}
	p.advanceTo(o)
	return h.Name(s, p)
}

func (p *Parser) parseSimple(b []byte, h Handler, hasTag bool, tag uint64) error {
	switch getAddInfo(b[0]) {
	case simpleFalse:
		p.off++
		return h.BoolValue(false, p)
	case simpleTrue:
		p.off++
		return h.BoolValue(true, p)
	case simpleNull:
		p.off++
		return h.NullValue(p)
	case simpleFloat16, simpleFloat32, simpleFloat64:
		v, o, err := ReadAnyFloatBytes(b)
		if err != nil {
			return err
		}
		p.advanceTo(o)
		return h.DoubleValue(v, scalarTagKind(hasTag, tag), p)
	case simpleBreak:
		// A break is only consumed inside an indefinite container.
		// At the end of the buffer it reads as a truncation, anywhere
		// else as a structural error.
		if p.off == len(p.buf)-1 {
			return ErrShortBytes
		}
		return ErrSourceError
	default:
		return ErrSourceError
	}
}
