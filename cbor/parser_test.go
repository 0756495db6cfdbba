package cbor

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

// event is one recorded handler call. Only the fields relevant to the
// event kind are set.
type event struct {
	Kind string
	Str  string
	U    uint64
	I    int64
	F    float64
	B    bool
	N    int
	Sign int
	Tag  string
}

// traceHandler records the event stream for comparison with cmp.Diff.
type traceHandler struct {
	events []event
	depth  int
	failOn string // return an error from the named event kind
}

var errHandlerStop = errors.New("handler stop")

func (h *traceHandler) add(e event) error {
	h.events = append(h.events, e)
	if h.failOn != "" && e.Kind == h.failOn {
		return errHandlerStop
	}
	return nil
}

func (h *traceHandler) Uint64Value(v uint64, tag TagKind, _ Context) error {
	return h.add(event{Kind: "uint64", U: v, Tag: tag.String()})
}
func (h *traceHandler) Int64Value(v int64, tag TagKind, _ Context) error {
	return h.add(event{Kind: "int64", I: v, Tag: tag.String()})
}
func (h *traceHandler) DoubleValue(v float64, tag TagKind, _ Context) error {
	return h.add(event{Kind: "double", F: v, Tag: tag.String()})
}
func (h *traceHandler) BoolValue(v bool, _ Context) error {
	return h.add(event{Kind: "bool", B: v})
}
func (h *traceHandler) NullValue(_ Context) error {
	return h.add(event{Kind: "null"})
}
func (h *traceHandler) StringValue(s string, tag TagKind, _ Context) error {
	return h.add(event{Kind: "string", Str: s, Tag: tag.String()})
}
func (h *traceHandler) ByteStringValue(v []byte, _ Context) error {
	return h.add(event{Kind: "bytes", Str: hex.EncodeToString(v)})
}
func (h *traceHandler) BignumValue(sign int, mag []byte, _ Context) error {
	return h.add(event{Kind: "bignum", Sign: sign, Str: hex.EncodeToString(mag)})
}
func (h *traceHandler) BeginArray(n int, _ Context) error {
	h.depth++
	return h.add(event{Kind: "begin_array", N: n})
}
func (h *traceHandler) BeginArrayIndefinite(_ Context) error {
	h.depth++
	return h.add(event{Kind: "begin_array_indef"})
}
func (h *traceHandler) EndArray(_ Context) error {
	h.depth--
	return h.add(event{Kind: "end_array"})
}
func (h *traceHandler) BeginMap(n int, _ Context) error {
	h.depth++
	return h.add(event{Kind: "begin_map", N: n})
}
func (h *traceHandler) BeginMapIndefinite(_ Context) error {
	h.depth++
	return h.add(event{Kind: "begin_map_indef"})
}
func (h *traceHandler) EndMap(_ Context) error {
	h.depth--
	return h.add(event{Kind: "end_map"})
}
func (h *traceHandler) Name(s string, _ Context) error {
	return h.add(event{Kind: "name", Str: s})
}
func (h *traceHandler) Flush() error {
	return h.add(event{Kind: "flush"})
}

func parseEvents(t *testing.T, b []byte) []event {
	t.Helper()
	h := &traceHandler{}
	p := NewParser(b)
	if err := p.Parse(h); err != nil {
		t.Fatalf("Parse(% x) error: %v", b, err)
	}
	if h.depth != 0 {
		t.Fatalf("unbalanced events: depth %d after parse", h.depth)
	}
	return h.events
}

func TestParseScalars(t *testing.T) {
	cases := []struct {
		hex  string
		want []event
	}{
		{"00", []event{{Kind: "uint64", U: 0, Tag: "none"}, {Kind: "flush"}}},
		{"17", []event{{Kind: "uint64", U: 23, Tag: "none"}, {Kind: "flush"}}},
		{"1818", []event{{Kind: "uint64", U: 24, Tag: "none"}, {Kind: "flush"}}},
		{"20", []event{{Kind: "int64", I: -1, Tag: "none"}, {Kind: "flush"}}},
		{"3863", []event{{Kind: "int64", I: -100, Tag: "none"}, {Kind: "flush"}}},
		{"f4", []event{{Kind: "bool", B: false}, {Kind: "flush"}}},
		{"f5", []event{{Kind: "bool", B: true}, {Kind: "flush"}}},
		{"f6", []event{{Kind: "null"}, {Kind: "flush"}}},
		{"fb3ff199999999999a", []event{{Kind: "double", F: 1.1, Tag: "none"}, {Kind: "flush"}}},
		{"f93c00", []event{{Kind: "double", F: 1.0, Tag: "none"}, {Kind: "flush"}}},
		{"6449455446", []event{{Kind: "string", Str: "IETF", Tag: "none"}, {Kind: "flush"}}},
		{"43010203", []event{{Kind: "bytes", Str: "010203"}, {Kind: "flush"}}},
	}
	for _, tc := range cases {
		got := parseEvents(t, mustHex(t, tc.hex))
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("events for %s (-want +got):\n%s", tc.hex, diff)
		}
	}
}

func TestParseArray(t *testing.T) {
	got := parseEvents(t, mustHex(t, "83010203"))
	want := []event{
		{Kind: "begin_array", N: 3},
		{Kind: "uint64", U: 1, Tag: "none"},
		{Kind: "uint64", U: 2, Tag: "none"},
		{Kind: "uint64", U: 3, Tag: "none"},
		{Kind: "end_array"},
		{Kind: "flush"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("array events (-want +got):\n%s", diff)
	}
}

func TestParseMap(t *testing.T) {
	// {"a":1, "b":2}
	got := parseEvents(t, mustHex(t, "a2616101616202"))
	want := []event{
		{Kind: "begin_map", N: 2},
		{Kind: "name", Str: "a"},
		{Kind: "uint64", U: 1, Tag: "none"},
		{Kind: "name", Str: "b"},
		{Kind: "uint64", U: 2, Tag: "none"},
		{Kind: "end_map"},
		{Kind: "flush"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("map events (-want +got):\n%s", diff)
	}
}

func TestParseNested(t *testing.T) {
	// {"a": 1, "b": [2, 3]}
	got := parseEvents(t, mustHex(t, "a26161016162820203"))
	want := []event{
		{Kind: "begin_map", N: 2},
		{Kind: "name", Str: "a"},
		{Kind: "uint64", U: 1, Tag: "none"},
		{Kind: "name", Str: "b"},
		{Kind: "begin_array", N: 2},
		{Kind: "uint64", U: 2, Tag: "none"},
		{Kind: "uint64", U: 3, Tag: "none"},
		{Kind: "end_array"},
		{Kind: "end_map"},
		{Kind: "flush"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("nested events (-want +got):\n%s", diff)
	}
}

func TestIndefiniteDefiniteEquivalence(t *testing.T) {
	// [1, [2, 3]] both ways; event streams must agree except for the
	// begin events carrying a length.
	def := parseEvents(t, mustHex(t, "8201820203"))
	indef := parseEvents(t, mustHex(t, "9f019f0203ffff"))

	norm := func(evs []event) []event {
		out := make([]event, 0, len(evs))
		for _, e := range evs {
			switch e.Kind {
			case "begin_array", "begin_array_indef":
				out = append(out, event{Kind: "begin_array"})
			case "begin_map", "begin_map_indef":
				out = append(out, event{Kind: "begin_map"})
			default:
				out = append(out, e)
			}
		}
		return out
	}
	if diff := cmp.Diff(norm(def), norm(indef)); diff != "" {
		t.Errorf("definite and indefinite streams differ (-def +indef):\n%s", diff)
	}
}

func TestParseIndefiniteMap(t *testing.T) {
	// {_ "a": 1, "b": [_ 2, 3]}
	got := parseEvents(t, mustHex(t, "bf61610161629f0203ffff"))
	want := []event{
		{Kind: "begin_map_indef"},
		{Kind: "name", Str: "a"},
		{Kind: "uint64", U: 1, Tag: "none"},
		{Kind: "name", Str: "b"},
		{Kind: "begin_array_indef"},
		{Kind: "uint64", U: 2, Tag: "none"},
		{Kind: "uint64", U: 3, Tag: "none"},
		{Kind: "end_array"},
		{Kind: "end_map"},
		{Kind: "flush"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("indefinite map events (-want +got):\n%s", diff)
	}
}

func TestParseTags(t *testing.T) {
	cases := []struct {
		name string
		hex  string
		want []event
	}{
		{
			"epoch time uint",
			"c11a514b67b0",
			[]event{{Kind: "uint64", U: 1363896240, Tag: "epoch-time"}, {Kind: "flush"}},
		},
		{
			"epoch time double",
			"c1fb41d452d9ec200000",
			[]event{{Kind: "double", F: 1363896240.5, Tag: "epoch-time"}, {Kind: "flush"}},
		},
		{
			"date-time string",
			"c074323031332d30332d32315432303a30343a30305a",
			[]event{{Kind: "string", Str: "2013-03-21T20:04:00Z", Tag: "date-time"}, {Kind: "flush"}},
		},
		{
			"positive bignum",
			"c249010000000000000000",
			[]event{{Kind: "bignum", Sign: 1, Str: "010000000000000000"}, {Kind: "flush"}},
		},
		{
			"negative bignum",
			"c349010000000000000000",
			[]event{{Kind: "bignum", Sign: -1, Str: "010000000000000000"}, {Kind: "flush"}},
		},
		{
			"decimal fraction",
			"c48221196ab3",
			[]event{{Kind: "string", Str: "273.15", Tag: "decimal"}, {Kind: "flush"}},
		},
		{
			"unknown tag stripped",
			"d82076687474703a2f2f7777772e6578616d706c652e636f6d",
			[]event{{Kind: "string", Str: "http://www.example.com", Tag: "none"}, {Kind: "flush"}},
		},
		{
			"nested unknown over bignum",
			"d820c249010000000000000000",
			[]event{{Kind: "bignum", Sign: 1, Str: "010000000000000000"}, {Kind: "flush"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseEvents(t, mustHex(t, tc.hex))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("events (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseIndefiniteStrings(t *testing.T) {
	// (_ "strea", "ming") and (_ h'0102', h'030405')
	got := parseEvents(t, mustHex(t, "7f657374726561646d696e67ff"))
	want := []event{{Kind: "string", Str: "streaming", Tag: "none"}, {Kind: "flush"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("indefinite text events (-want +got):\n%s", diff)
	}

	got = parseEvents(t, mustHex(t, "5f42010243030405ff"))
	want = []event{{Kind: "bytes", Str: "0102030405"}, {Kind: "flush"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("indefinite bytes events (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		hex  string
		want error
	}{
		{"truncated head", "18", ErrShortBytes},
		{"truncated array", "8301", ErrShortBytes},
		{"truncated string", "64494554", ErrShortBytes},
		{"stray break at end", "ff", ErrShortBytes},
		{"stray break inside", "8301ff03", ErrSourceError},
		{"reserved info", "1c", ErrSourceError},
		{"non-text map key", "a10102", ErrSourceError},
		{"unterminated indefinite array", "9f01", ErrShortBytes},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &traceHandler{}
			p := NewParser(mustHex(t, tc.hex))
			err := p.Parse(h)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Parse error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseSomeEmpty(t *testing.T) {
	p := NewParser(nil)
	if err := p.ParseSome(&traceHandler{}); !errors.Is(err, ErrShortBytes) {
		t.Fatalf("ParseSome on empty buffer = %v, want ErrShortBytes", err)
	}
}

func TestParseHandlerErrorStops(t *testing.T) {
	h := &traceHandler{failOn: "uint64"}
	p := NewParser(mustHex(t, "83010203"))
	if err := p.Parse(h); !errors.Is(err, errHandlerStop) {
		t.Fatalf("Parse error = %v, want handler error", err)
	}
	// begin_array then the failing uint64; nothing after
	if len(h.events) != 2 || h.events[1].Kind != "uint64" {
		t.Fatalf("events after handler error: %+v", h.events)
	}
}

func TestParseSomeSequence(t *testing.T) {
	// two top-level items in one buffer, one flush each
	p := NewParser(mustHex(t, "0102"))
	h := &traceHandler{}
	if err := p.ParseSome(h); err != nil {
		t.Fatalf("first ParseSome: %v", err)
	}
	if p.Done() {
		t.Fatal("Done after one of two items")
	}
	if err := p.ParseSome(h); err != nil {
		t.Fatalf("second ParseSome: %v", err)
	}
	if !p.Done() {
		t.Fatal("not Done after both items")
	}
	want := []event{
		{Kind: "uint64", U: 1, Tag: "none"}, {Kind: "flush"},
		{Kind: "uint64", U: 2, Tag: "none"}, {Kind: "flush"},
	}
	if diff := cmp.Diff(want, h.events); diff != "" {
		t.Errorf("sequence events (-want +got):\n%s", diff)
	}
}

func TestParserColumn(t *testing.T) {
	p := NewParser(mustHex(t, "83010203"))
	if p.Line() != 1 {
		t.Fatalf("Line = %d, want 1", p.Line())
	}
	if p.Column() != 1 {
		t.Fatalf("Column before parse = %d, want 1", p.Column())
	}
	if err := p.Parse(&traceHandler{}); err != nil {
		t.Fatal(err)
	}
	if p.Column() != 5 {
		t.Fatalf("Column after parse = %d, want 5", p.Column())
	}
}

func TestParserDepthLimit(t *testing.T) {
	// 64 nested arrays with a limit of 8
	b := make([]byte, 0, 65)
	for i := 0; i < 64; i++ {
		b = append(b, 0x81)
	}
	b = append(b, 0x00)
	p := NewParser(b)
	p.SetMaxDepth(8)
	if err := p.Parse(&traceHandler{}); !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("Parse error = %v, want ErrMaxDepthExceeded", err)
	}
}

func TestParserUpdateReset(t *testing.T) {
	p := NewParser(mustHex(t, "01"))
	if err := p.Parse(&traceHandler{}); err != nil {
		t.Fatal(err)
	}
	p.Update(mustHex(t, "02"))
	h := &traceHandler{}
	if err := p.Parse(h); err != nil {
		t.Fatal(err)
	}
	if h.events[0].U != 2 {
		t.Fatalf("after Update parsed %+v", h.events[0])
	}
	p.Reset()
	h2 := &traceHandler{}
	if err := p.Parse(h2); err != nil {
		t.Fatal(err)
	}
	if h2.events[0].U != 2 {
		t.Fatalf("after Reset parsed %+v", h2.events[0])
	}
}

func FuzzParse(f *testing.F) {
	f.Add(mustHexF("a26161016162820203"))
	f.Add(mustHexF("9f019f0203ffff"))
	f.Add(mustHexF("c48221196ab3"))
	f.Add([]byte{0xff, 0x00})
	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) == 0 {
			return
		}
		h := &traceHandler{}
		p := NewParser(data)
		if err := p.Parse(h); err != nil {
			return
		}
		// accepted input must produce balanced, flushed streams
		if h.depth != 0 {
			t.Fatalf("accepted input with unbalanced events: % x", data)
		}
		if n := len(h.events); n == 0 || h.events[n-1].Kind != "flush" {
			t.Fatalf("accepted input without trailing flush: % x", data)
		}
	})
}

func mustHexF(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
