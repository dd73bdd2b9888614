package kvmap

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log/slog"
)

const maxSegmentLen = 0xFFFF

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func ensure(err error) {
	if err != nil {
		panic(err)
	}
}

// inc increments data in place as a big-endian number, wrapping trailing 0xFF
// bytes to zero. Returns false if every byte is 0xFF (no successor).
func inc(data []byte) bool {
	n := len(data)
	for i := n - 1; i >= 0; i-- {
		if data[i] != 0xFF {
			for j := i; j < n; j++ {
				data[j]++
			}
			return true
		}
	}
	return false
}

// incrementLastByte returns a copy of b incremented by one with carry. This is
// the smallest byte string that sorts after every string prefixed by b.
// Returns nil when b is empty or entirely 0xFF, which callers treat as
// "no upper bound".
func incrementLastByte(b []byte) []byte {
	out := append([]byte(nil), b...)
	if !inc(out) {
		return nil
	}
	return out
}

// extendOneByte returns b followed by a zero byte: the smallest byte string
// that sorts strictly after b.
func extendOneByte(b []byte) []byte {
	out := make([]byte, len(b), len(b)+1)
	copy(out, b)
	return append(out, 0)
}

func concat(a, b []byte) []byte {
	out := make([]byte, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func appendLength(buf []byte, seg []byte) []byte {
	if len(seg) > maxSegmentLen {
		panic(fmt.Errorf("key segment too long: %d > %d", len(seg), maxSegmentLen))
	}
	return binary.BigEndian.AppendUint16(buf, uint16(len(seg)))
}

// appendSegment appends a length-prefixed segment.
func appendSegment(buf []byte, seg []byte) []byte {
	buf = appendLength(buf, seg)
	return append(buf, seg...)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}

func hexstr(b []byte) string {
	if b == nil {
		return "<nil>"
	}
	if len(b) == 0 {
		return "<empty>"
	}
	return hex.EncodeToString(b)
}

func hexAttr(key string, b []byte) slog.Attr {
	return slog.String(key, hexstr(b))
}
