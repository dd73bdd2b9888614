package kvmap

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec converts values to and from their stored bytes. Decode must fail,
// not panic, on malformed input.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// MsgPack is the default codec. Map keys are sorted so that equal values
// always encode to equal bytes.
type MsgPack[T any] struct{}

func (MsgPack[T]) Encode(v T) ([]byte, error) {
	bb := bytesBuilder{}
	enc := msgpack.GetEncoder()
	enc.ResetDict(&bb, nil)
	enc.SetSortMapKeys(true)
	err := enc.Encode(v)
	msgpack.PutEncoder(enc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T using MsgPack: %w", v, err)
	}
	if bb.Buf == nil {
		bb.Buf = []byte{}
	}
	return bb.Buf, nil
}

func (MsgPack[T]) Decode(data []byte) (T, error) {
	var v T
	var r bytes.Reader
	r.Reset(data)
	dec := msgpack.GetDecoder()
	dec.ResetDict(&r, nil)
	err := dec.Decode(&v)
	msgpack.PutDecoder(dec)
	if err != nil {
		return v, dataErrf(data, 0, err, "failed to decode msgpack into %T", v)
	}
	if r.Len() != 0 {
		return v, dataErrf(data, len(data)-r.Len(), nil, "trailing bytes after msgpack %T", v)
	}
	return v, nil
}

type JSON[T any] struct{}

func (JSON[T]) Encode(v T) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T to JSON: %w", v, err)
	}
	return raw, nil
}

func (JSON[T]) Decode(data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	if err != nil {
		return v, dataErrf(data, 0, err, "failed to decode JSON into %T", v)
	}
	return v, nil
}

var cborEncMode = must(cbor.CoreDetEncOptions().EncMode())

// CBOR encodes with the core deterministic profile (RFC 8949 §4.2.1).
type CBOR[T any] struct{}

func (CBOR[T]) Encode(v T) ([]byte, error) {
	raw, err := cborEncMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T to CBOR: %w", v, err)
	}
	return raw, nil
}

func (CBOR[T]) Decode(data []byte) (T, error) {
	var v T
	err := cbor.Unmarshal(data, &v)
	if err != nil {
		return v, dataErrf(data, 0, err, "failed to decode CBOR into %T", v)
	}
	return v, nil
}

// Raw stores byte slices as-is.
type Raw struct{}

func (Raw) Encode(v []byte) ([]byte, error)    { return cloneBytes(v), nil }
func (Raw) Decode(data []byte) ([]byte, error) { return cloneBytes(data), nil }

// Empty is the value type of sets and multi-index entries; it is stored as
// zero bytes.
type Empty struct{}

type emptyCodec struct{}

func (emptyCodec) Encode(Empty) ([]byte, error) { return []byte{}, nil }

func (emptyCodec) Decode(data []byte) (Empty, error) {
	if len(data) != 0 {
		return Empty{}, dataErrf(data, 0, nil, "expected empty value")
	}
	return Empty{}, nil
}
