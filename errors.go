package kvmap

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by Load, Take and friends when the key is absent.
	ErrNotFound = errors.New("not found")

	// ErrDeserialize classifies failures to decode stored keys or values.
	ErrDeserialize = errors.New("deserialize")

	// ErrDuplicate is returned by UniqueIndex when the index key is already
	// owned by another primary key.
	ErrDuplicate = errors.New("duplicate index key")

	// ErrMutatedDuringScan is reported by an iterator whose storage was
	// written to while the scan was in progress.
	ErrMutatedDuringScan = errors.New("storage mutated during scan")

	// ErrReadOnly is returned when writing through a read-only transaction.
	ErrReadOnly = errors.New("read-only transaction")

	// ErrTxClosed is returned when using a storage handle after its
	// transaction has been committed or rolled back.
	ErrTxClosed = errors.New("transaction closed")
)

// DataError describes a key or value that could not be decoded.
type DataError struct {
	Data []byte
	Off  int
	Err  error
	Msg  string
}

func dataErrf(data []byte, off int, err error, format string, args ...any) error {
	return &DataError{data, off, err, fmt.Sprintf(format, args...)}
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Is(target error) bool {
	return target == ErrDeserialize
}

func (e *DataError) Error() string {
	const prefixLen = 64
	const suffixLen = 32
	n := len(e.Data)
	if n <= prefixLen+suffixLen {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v: (%d) %x", e.Msg, e.Err, n, e.Data)
		} else {
			return fmt.Sprintf("%s: (%d) %x", e.Msg, n, e.Data)
		}
	} else {
		p, s := e.Data[:prefixLen], e.Data[n-suffixLen:]
		if e.Err != nil {
			return fmt.Sprintf("%s: %v: (%d) %x...%x", e.Msg, e.Err, n, p, s)
		} else {
			return fmt.Sprintf("%s: (%d) %x...%x", e.Msg, n, p, s)
		}
	}
}

// KeyError attaches the collection namespace and raw key to an error.
type KeyError struct {
	Namespace string
	Key       []byte
	Msg       string
	Err       error
}

func keyErrf(namespace string, key []byte, err error, format string, args ...any) error {
	return &KeyError{namespace, key, fmt.Sprintf(format, args...), err}
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

func (e *KeyError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Namespace)
	if e.Key != nil {
		buf.WriteByte('/')
		buf.WriteString(hexstr(e.Key))
	}
	if e.Msg != "" {
		buf.WriteString(": ")
		buf.WriteString(e.Msg)
		if e.Err != nil {
			buf.WriteString(": ")
			buf.WriteString(e.Err.Error())
		}
	} else if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}

func notFound(key []byte) error {
	return keyErrf(namespaceOf(key), key, ErrNotFound, "")
}

// namespaceOf extracts the length-prefixed namespace from a full storage key
// for error messages, or returns "" if the key is not namespaced.
func namespaceOf(key []byte) string {
	if len(key) < 2 {
		return ""
	}
	n := int(key[0])<<8 | int(key[1])
	if 2+n > len(key) {
		return ""
	}
	return string(key[2 : 2+n])
}
