package kvmap

import (
	"testing"
)

func TestRangeBounds(t *testing.T) {
	ns := x("0003 666f6f")
	tests := []struct {
		name         string
		min, max     *rawBound
		lower, upper string
	}{
		{"open", nil, nil, "0003666f6f", "0003666f70"},
		{"inclusive", &rawBound{x("6162"), false}, &rawBound{x("7a"), false}, "0003666f6f6162", "0003666f6f7a00"},
		{"exclusive", &rawBound{x("6162"), true}, &rawBound{x("7a"), true}, "0003666f6f616200", "0003666f6f7a"},
		{"max ff", nil, &rawBound{x("ff"), false}, "0003666f6f", "0003666f6fff00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lower, upper := rangeBounds(ns, tt.min, tt.max)
			deepEqual(t, hexstr(lower), tt.lower)
			deepEqual(t, hexstr(upper), tt.upper)
		})
	}
}

func TestPrefixRangeBounds(t *testing.T) {
	ns := x("0003 666f6f")
	tests := []struct {
		name         string
		min, max     *rawBound
		lower, upper string
	}{
		{"open", nil, nil, "0003666f6f", "0003666f70"},
		{"inclusive", &rawBound{x("0001 61"), false}, &rawBound{x("0001 62"), false}, "0003666f6f000161", "0003666f6f000163"},
		{"exclusive", &rawBound{x("0001 61"), true}, &rawBound{x("0001 62"), true}, "0003666f6f000162", "0003666f6f000162"},
		{"carry", &rawBound{x("0001 ff"), true}, nil, "0003666f6f000200", "0003666f70"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lower, upper := prefixRangeBounds(ns, tt.min, tt.max)
			deepEqual(t, hexstr(lower), tt.lower)
			deepEqual(t, hexstr(upper), tt.upper)
		})
	}
}

func TestBoundConstructors(t *testing.T) {
	var nb *Bound[U16]
	if nb.raw() != nil {
		t.Fatalf("nil Bound raw() = %v, wanted nil", nb.raw())
	}
	b := Exclusive(U16(0x0102)).raw()
	if !b.exclusive || hexstr(b.key) != "0102" {
		t.Fatalf("Exclusive(0x0102).raw() = %+v, wanted exclusive 0102", b)
	}
	b = Inclusive(MakePair(U8(1), U8(2))).raw()
	if b.exclusive || hexstr(b.key) != "00010102" {
		t.Fatalf("Inclusive(1, 2).raw() = %+v, wanted inclusive 00010102", b)
	}

	var np *PrefixBound
	if np.rawBound() != nil {
		t.Fatalf("nil PrefixBound rawBound() = %v, wanted nil", np.rawBound())
	}
	b = ExclusivePrefix(U8(1)).rawBound()
	if !b.exclusive || hexstr(b.key) != "000101" {
		t.Fatalf("ExclusivePrefix(1) = %+v, wanted exclusive 000101", b)
	}
	b = InclusivePrefix(MakePair(U8(1), U8(2))).rawBound()
	if b.exclusive || hexstr(b.key) != "000101000102" {
		t.Fatalf("InclusivePrefix(1, 2) = %+v, wanted inclusive 000101000102", b)
	}
}
