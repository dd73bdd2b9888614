package kvmap

import (
	"encoding/binary"
	"errors"
	"unicode/utf8"
)

// Key is a typed storage key. RawKeys splits it into one byte segment per
// scalar component; KeyElems is the number of those segments and must not
// depend on the key's value.
type Key interface {
	RawKeys() [][]byte
	KeyElems() int
}

// KeyType is a Key that can decode itself. FromSlice is called on the zero
// value and parses the joined encoding produced by JoinedKey.
type KeyType[K any] interface {
	Key
	FromSlice(raw []byte) (K, error)
}

// JoinedKey encodes k as len(s1)|s1|...|len(sN-1)|sN-1|sN, with 16-bit
// big-endian lengths and the last segment unprefixed.
func JoinedKey(k Key) []byte {
	segs := k.RawKeys()
	var buf []byte
	for i, seg := range segs {
		if i < len(segs)-1 {
			buf = appendSegment(buf, seg)
		} else {
			buf = append(buf, seg...)
		}
	}
	if buf == nil {
		buf = []byte{}
	}
	return buf
}

// JoinedPrefix encodes k with every segment length-prefixed, the form used
// when k is a leading part of a longer key.
func JoinedPrefix(k Key) []byte {
	buf := []byte{}
	for _, seg := range k.RawKeys() {
		buf = appendSegment(buf, seg)
	}
	return buf
}

// splitFirstKey splits off the first n length-prefixed segments of raw. The
// returned first key keeps the length prefixes of all but its last segment,
// so it can be fed to the FromSlice of an n-element key.
func splitFirstKey(n int, raw []byte) ([]byte, []byte, error) {
	var first []byte
	off := 0
	for i := 0; i < n; i++ {
		if off+2 > len(raw) {
			return nil, nil, dataErrf(raw, off, nil, "truncated key: missing segment length")
		}
		lenBytes := raw[off : off+2]
		off += 2
		if i < n-1 {
			first = append(first, lenBytes...)
		}
		segLen := int(binary.BigEndian.Uint16(lenBytes))
		if off+segLen > len(raw) {
			return nil, nil, dataErrf(raw, off, nil, "truncated key: segment of %d bytes", segLen)
		}
		first = append(first, raw[off:off+segLen]...)
		off += segLen
	}
	return first, raw[off:], nil
}

// SplitNamespace splits a full storage key into its namespace and the
// encoded key that follows it.
func SplitNamespace(key []byte) (string, []byte, error) {
	ns, rest, err := splitFirstKey(1, key)
	if err != nil {
		return "", nil, err
	}
	return string(ns), rest, nil
}

// SplitKey is the inverse of JoinedKey for a key of n elements.
func SplitKey(raw []byte, n int) ([][]byte, error) {
	segs := make([][]byte, 0, n)
	for i := 0; i < n-1; i++ {
		seg, rest, err := splitFirstKey(1, raw)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
		raw = rest
	}
	return append(segs, raw), nil
}

func fixedLen(raw []byte, n int, typ string) error {
	if len(raw) != n {
		return dataErrf(raw, 0, nil, "invalid %s key: expected %d bytes, got %d", typ, n, len(raw))
	}
	return nil
}

type (
	U8  uint8
	U16 uint16
	U32 uint32
	U64 uint64
	I8  int8
	I16 int16
	I32 int32
	I64 int64

	// Str keys must be valid UTF-8 to decode.
	Str string

	Bytes []byte

	Bool bool
)

func (k U8) RawKeys() [][]byte { return [][]byte{{byte(k)}} }
func (k U8) KeyElems() int     { return 1 }

func (U8) FromSlice(raw []byte) (U8, error) {
	if err := fixedLen(raw, 1, "U8"); err != nil {
		return 0, err
	}
	return U8(raw[0]), nil
}

func (k U16) RawKeys() [][]byte { return [][]byte{binary.BigEndian.AppendUint16(nil, uint16(k))} }
func (k U16) KeyElems() int     { return 1 }

func (U16) FromSlice(raw []byte) (U16, error) {
	if err := fixedLen(raw, 2, "U16"); err != nil {
		return 0, err
	}
	return U16(binary.BigEndian.Uint16(raw)), nil
}

func (k U32) RawKeys() [][]byte { return [][]byte{binary.BigEndian.AppendUint32(nil, uint32(k))} }
func (k U32) KeyElems() int     { return 1 }

func (U32) FromSlice(raw []byte) (U32, error) {
	if err := fixedLen(raw, 4, "U32"); err != nil {
		return 0, err
	}
	return U32(binary.BigEndian.Uint32(raw)), nil
}

func (k U64) RawKeys() [][]byte { return [][]byte{binary.BigEndian.AppendUint64(nil, uint64(k))} }
func (k U64) KeyElems() int     { return 1 }

func (U64) FromSlice(raw []byte) (U64, error) {
	if err := fixedLen(raw, 8, "U64"); err != nil {
		return 0, err
	}
	return U64(binary.BigEndian.Uint64(raw)), nil
}

// Signed keys flip the sign bit so that negative numbers sort first.

func (k I8) RawKeys() [][]byte { return [][]byte{{uint8(k) ^ 0x80}} }
func (k I8) KeyElems() int     { return 1 }

func (I8) FromSlice(raw []byte) (I8, error) {
	if err := fixedLen(raw, 1, "I8"); err != nil {
		return 0, err
	}
	return I8(raw[0] ^ 0x80), nil
}

func (k I16) RawKeys() [][]byte {
	return [][]byte{binary.BigEndian.AppendUint16(nil, uint16(k)^0x8000)}
}
func (k I16) KeyElems() int { return 1 }

func (I16) FromSlice(raw []byte) (I16, error) {
	if err := fixedLen(raw, 2, "I16"); err != nil {
		return 0, err
	}
	return I16(binary.BigEndian.Uint16(raw) ^ 0x8000), nil
}

func (k I32) RawKeys() [][]byte {
	return [][]byte{binary.BigEndian.AppendUint32(nil, uint32(k)^0x8000_0000)}
}
func (k I32) KeyElems() int { return 1 }

func (I32) FromSlice(raw []byte) (I32, error) {
	if err := fixedLen(raw, 4, "I32"); err != nil {
		return 0, err
	}
	return I32(binary.BigEndian.Uint32(raw) ^ 0x8000_0000), nil
}

func (k I64) RawKeys() [][]byte {
	return [][]byte{binary.BigEndian.AppendUint64(nil, uint64(k)^0x8000_0000_0000_0000)}
}
func (k I64) KeyElems() int { return 1 }

func (I64) FromSlice(raw []byte) (I64, error) {
	if err := fixedLen(raw, 8, "I64"); err != nil {
		return 0, err
	}
	return I64(binary.BigEndian.Uint64(raw) ^ 0x8000_0000_0000_0000), nil
}

func (k Str) RawKeys() [][]byte { return [][]byte{[]byte(k)} }
func (k Str) KeyElems() int     { return 1 }

func (Str) FromSlice(raw []byte) (Str, error) {
	if !utf8.Valid(raw) {
		return "", dataErrf(raw, 0, nil, "invalid Str key: not valid UTF-8")
	}
	return Str(raw), nil
}

func (k Bytes) RawKeys() [][]byte { return [][]byte{[]byte(k)} }
func (k Bytes) KeyElems() int     { return 1 }

func (Bytes) FromSlice(raw []byte) (Bytes, error) {
	return Bytes(cloneBytes(raw)), nil
}

func (k Bool) RawKeys() [][]byte {
	if k {
		return [][]byte{{1}}
	}
	return [][]byte{{0}}
}
func (k Bool) KeyElems() int { return 1 }

func (Bool) FromSlice(raw []byte) (Bool, error) {
	if err := fixedLen(raw, 1, "Bool"); err != nil {
		return false, err
	}
	switch raw[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, dataErrf(raw, 0, nil, "invalid Bool key: %d", raw[0])
	}
}

// decodeKeyAt decodes raw, a key read from the entry stored at storageKey.
// Failures are reported as *KeyError wrapping an ErrDeserialize error.
func decodeKeyAt[K KeyType[K]](storageKey, raw []byte) (K, error) {
	var zero K
	k, err := zero.FromSlice(raw)
	if err != nil {
		if !errors.Is(err, ErrDeserialize) {
			err = dataErrf(raw, 0, err, "failed to decode %T key", zero)
		}
		return zero, keyErrf(namespaceOf(storageKey), storageKey, err, "")
	}
	return k, nil
}
