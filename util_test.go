package kvmap

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestIncrement(t *testing.T) {
	b := []byte{0x00, 0x00}
	if !inc(b) || b[0] != 0x00 || b[1] != 0x01 {
		t.Fatalf("inc = %x, wanted 0001", b)
	}
	b = []byte{0x01, 0xFF}
	if !inc(b) || b[0] != 0x02 || b[1] != 0x00 {
		t.Fatalf("inc = %x, wanted 0200", b)
	}
	if inc([]byte{0xFF}) {
		t.Fatalf("inc(FF) = true, wanted false")
	}

	if got := incrementLastByte(x("0003666f6f")); !bytes.Equal(got, x("0003666f70")) {
		t.Fatalf("incrementLastByte = %x, wanted 0003666f70", got)
	}
	if got := incrementLastByte(x("00ff")); !bytes.Equal(got, x("0100")) {
		t.Fatalf("incrementLastByte(00ff) = %x, wanted 0100", got)
	}
	if got := incrementLastByte(x("ffff")); got != nil {
		t.Fatalf("incrementLastByte(ffff) = %x, wanted nil", got)
	}
	if got := incrementLastByte(nil); got != nil {
		t.Fatalf("incrementLastByte(nil) = %x, wanted nil", got)
	}

	orig := x("0102")
	if got := extendOneByte(orig); !bytes.Equal(got, x("010200")) || len(orig) != 2 {
		t.Fatalf("extendOneByte = %x (orig %x), wanted 010200 (orig 0102)", got, orig)
	}
	if got := extendOneByte(nil); !bytes.Equal(got, x("00")) {
		t.Fatalf("extendOneByte(nil) = %x, wanted 00", got)
	}
}

func TestSegments(t *testing.T) {
	if got := appendSegment(nil, []byte("ab")); !bytes.Equal(got, x("0002 6162")) {
		t.Fatalf("appendSegment = %x, wanted 00026162", got)
	}
	if got := appendSegment(x("ff"), nil); !bytes.Equal(got, x("ff 0000")) {
		t.Fatalf("appendSegment(empty) = %x, wanted ff0000", got)
	}
	if got := concat(x("01"), x("02")); !bytes.Equal(got, x("0102")) {
		t.Fatalf("concat = %x, wanted 0102", got)
	}
	if got := cloneBytes(nil); got != nil {
		t.Fatalf("cloneBytes(nil) = %x, wanted nil", got)
	}
	if got := cloneBytes([]byte{}); got == nil || len(got) != 0 {
		t.Fatalf("cloneBytes(empty) = %#v, wanted non-nil empty", got)
	}
}

func TestHexHelpers(t *testing.T) {
	if got := hexstr(nil); got != "<nil>" {
		t.Fatalf("hexstr(nil) = %q, wanted <nil>", got)
	}
	if got := hexstr([]byte{}); got != "<empty>" {
		t.Fatalf("hexstr(empty) = %q, wanted <empty>", got)
	}
	if got := hexstr([]byte{0xAA, 0xBB}); got != "aabb" {
		t.Fatalf("hexstr = %q, wanted aabb", got)
	}
	a := hexAttr("k", []byte{0xAA})
	if a.Key != "k" || a.Value.Kind() != slog.KindString || a.Value.String() != "aa" {
		t.Fatalf("hexAttr returned unexpected attr: %+v", a)
	}
}

func TestMust(t *testing.T) {
	if got := must(42, nil); got != 42 {
		t.Fatalf("must = %d, wanted 42", got)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("ensure(err) did not panic")
		}
	}()
	ensure(ErrNotFound)
}
