package cbor

import (
	"errors"
	"math/big"
	"sort"
	"testing"
)

func TestReadDecimalFractionBytes(t *testing.T) {
	// 273.15 as tag 4 [-2, 27315]
	exp, mant, rest, err := ReadDecimalFractionBytes(mustHex(t, "c48221196ab3"))
	if err != nil {
		t.Fatalf("ReadDecimalFractionBytes: %v", err)
	}
	if exp != -2 || mant.Cmp(big.NewInt(27315)) != 0 || len(rest) != 0 {
		t.Fatalf("got exp=%d mant=%v", exp, mant)
	}
}

func TestDecimalFractionStrings(t *testing.T) {
	cases := []struct {
		name string
		hex  string
		want string
	}{
		{"point inside", "c48221196ab3", "273.15"},                     // [-2, 27315]
		{"point at front", "c48224196ab3", "0.27315"},                 // [-5, 27315]
		{"zero exponent", "c48200196ab3", "27315.0"},                   // [0, 27315]
		{"positive exponent", "c48202196ab3", "27315e2"},               // [2, 27315]
		{"negative mantissa", "c4822139042f", "-10.72"},                // [-2, -1072]
		{"point left of digits", "c48226196ab3", "0.27315e-2"},         // [-7, 27315]
		{"bignum mantissa", "c48221c249010000000000000000", "184467440737095516.16"}, // [-2, 2^64]
		{"negative bignum mantissa", "c48221c349010000000000000000", "-184467440737095516.17"},
		{"indefinite array form", "c49f21196ab3ff", "273.15"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, rest, err := ReadDecimalFractionStringBytes(mustHex(t, tc.hex))
			if err != nil {
				t.Fatalf("ReadDecimalFractionStringBytes: %v", err)
			}
			if s != tc.want || len(rest) != 0 {
				t.Fatalf("got %q, want %q", s, tc.want)
			}
		})
	}
}

func TestDecimalFractionMalformed(t *testing.T) {
	cases := []struct {
		name string
		hex  string
	}{
		{"not an array", "c401"},
		{"wrong arity", "c48101"},
		{"text exponent", "c482616101"},
		{"text mantissa", "c482216161"},
		{"indefinite missing break", "c49f21196ab3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := mustHex(t, tc.hex)
			_, rest, err := ReadDecimalFractionStringBytes(b)
			if err == nil {
				t.Fatal("expected error")
			}
			if len(rest) != len(b) {
				t.Fatal("cursor moved on malformed decimal")
			}
		})
	}

	if _, _, err := ReadDecimalFractionStringBytes(mustHex(t, "c48101")); !errors.Is(err, ErrInvalidDecimal) {
		t.Fatalf("wrong arity err = %v, want ErrInvalidDecimal", err)
	}
}

func TestFormatDecimalFraction(t *testing.T) {
	cases := []struct {
		exp  int64
		mant int64
		want string
	}{
		{-2, 27315, "273.15"},
		{-5, 27315, "0.27315"},
		{-6, 27315, "0.27315e-1"},
		{0, 5, "5.0"},
		{3, 5, "5e3"},
		{-1, -5, "-0.5"},
		{-2, -5, "-0.5e-1"},
		{-1, 0, "0.0"}, // one digit "0", point at front
	}
	for _, tc := range cases {
		got := FormatDecimalFraction(tc.exp, big.NewInt(tc.mant))
		if got != tc.want {
			t.Errorf("FormatDecimalFraction(%d, %d) = %q, want %q", tc.exp, tc.mant, got, tc.want)
		}
	}
}

// Rendered strings for same-exponent, same-digit-length, non-negative
// mantissas must sort the same way the mantissas do.
func TestDecimalFractionMonotonic(t *testing.T) {
	mants := []int64{10000, 12345, 20000, 27315, 99999}
	for _, exp := range []int64{-7, -5, -2, 0, 3} {
		rendered := make([]string, len(mants))
		for i, m := range mants {
			rendered[i] = FormatDecimalFraction(exp, big.NewInt(m))
		}
		if !sort.StringsAreSorted(rendered) {
			t.Errorf("exp %d: rendered strings not in mantissa order: %q", exp, rendered)
		}
	}
}
