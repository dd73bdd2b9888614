package num

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Both Int and Dec serialize as their decimal string in JSON, text, msgpack
// and CBOR, so that values wider than 64 bits survive every codec.

func (i Int[W]) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

func (i *Int[W]) UnmarshalText(data []byte) error {
	v, err := ParseInt[W](string(data))
	if err != nil {
		return err
	}
	*i = v
	return nil
}

func (i Int[W]) MarshalJSON() ([]byte, error) { return json.Marshal(i.String()) }

func (i *Int[W]) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%s must be a JSON string: %w", intName[W](), err)
	}
	return i.UnmarshalText([]byte(s))
}

func (i Int[W]) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(i.String())
}

func (i *Int[W]) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	return i.UnmarshalText([]byte(s))
}

func (i Int[W]) MarshalCBOR() ([]byte, error) { return cbor.Marshal(i.String()) }

func (i *Int[W]) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	return i.UnmarshalText([]byte(s))
}

func (d Dec[W, S]) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Dec[W, S]) UnmarshalText(data []byte) error {
	v, err := ParseDec[W, S](string(data))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Dec[W, S]) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Dec[W, S]) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%s must be a JSON string: %w", decName[W, S](), err)
	}
	return d.UnmarshalText([]byte(s))
}

func (d Dec[W, S]) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(d.String())
}

func (d *Dec[W, S]) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

func (d Dec[W, S]) MarshalCBOR() ([]byte, error) { return cbor.Marshal(d.String()) }

func (d *Dec[W, S]) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// Storage keys use the fixed-width big-endian form of the value minus the
// width's minimum, which for signed widths is two's complement with the sign
// bit flipped. Byte order then matches numeric order.

func encodeKey(lim *limits, v *big.Int) []byte {
	u := new(big.Int).Sub(v, lim.min)
	return u.FillBytes(make([]byte, lim.byteLen()))
}

func decodeKey(lim *limits, raw []byte) (*big.Int, error) {
	if len(raw) != lim.byteLen() {
		return nil, parseErrf(lim.name, hex.EncodeToString(raw), nil, "expected %d key bytes, got %d", lim.byteLen(), len(raw))
	}
	u := new(big.Int).SetBytes(raw)
	return u.Add(u, lim.min), nil
}

func (i Int[W]) RawKeys() [][]byte { return [][]byte{encodeKey(limitsOf[W](), i.big())} }
func (i Int[W]) KeyElems() int     { return 1 }

func (Int[W]) FromSlice(raw []byte) (Int[W], error) {
	v, err := decodeKey(limitsOf[W](), raw)
	if err != nil {
		return Int[W]{}, err
	}
	return Int[W]{v}, nil
}

func (d Dec[W, S]) RawKeys() [][]byte { return d.inner.RawKeys() }
func (d Dec[W, S]) KeyElems() int     { return 1 }

func (Dec[W, S]) FromSlice(raw []byte) (Dec[W, S], error) {
	inner, err := Int[W]{}.FromSlice(raw)
	if err != nil {
		return Dec[W, S]{}, err
	}
	return Dec[W, S]{inner}, nil
}
