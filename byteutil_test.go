package kvmap

import (
	"reflect"
	"testing"
)

func TestBytesBuilder_Basics(t *testing.T) {
	var bb bytesBuilder
	_, _ = bb.Write([]byte{1, 2, 3})
	_ = bb.WriteByte(4)
	_, _ = bb.WriteString("ab")
	if !reflect.DeepEqual(bb.Buf, []byte{1, 2, 3, 4, 'a', 'b'}) {
		t.Fatalf("bb.Buf = %x, wanted 010203046162", bb.Buf)
	}

	n, err := bb.Write(nil)
	if n != 0 || err != nil || len(bb.Buf) != 6 {
		t.Fatalf("Write(nil) = (%d, %v), len=%d; wanted (0, nil), len=6", n, err, len(bb.Buf))
	}
}

func TestByteUtil_AppendHelpers(t *testing.T) {
	src := []byte{0xAA, 0xBB, 0xCC}
	buf := appendRaw(nil, src)
	if !reflect.DeepEqual(buf, src) {
		t.Fatalf("appendRaw = %x, wanted %x", buf, src)
	}
	if cap(buf) < 16 {
		t.Fatalf("cap(appendRaw(nil)) = %d, wanted >= 16", cap(buf))
	}

	buf = ensureCapacity(buf, 100)
	if cap(buf) != 128 || !reflect.DeepEqual(buf, src) {
		t.Fatalf("ensureCapacity = (cap=%d, %x), wanted (cap=128, %x)", cap(buf), buf, src)
	}

	off, buf := grow(buf, 2)
	if off != 3 || len(buf) != 5 {
		t.Fatalf("grow = (off=%d, len=%d), wanted (3, 5)", off, len(buf))
	}
}
