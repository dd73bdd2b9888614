package num

import (
	"errors"
	"fmt"
)

var (
	ErrOverflowAdd        = errors.New("addition overflow")
	ErrOverflowSub        = errors.New("subtraction overflow")
	ErrOverflowMul        = errors.New("multiplication overflow")
	ErrOverflowPow        = errors.New("power overflow")
	ErrOverflowConversion = errors.New("conversion overflow")
	ErrDivisionByZero     = errors.New("division by zero")
	ErrNegativeSqrt       = errors.New("square root of negative number")
	ErrSqrtFailed         = errors.New("square root failed")

	// ErrParse classifies every *ParseError.
	ErrParse = errors.New("parse error")
)

// MathError records the operation and operands of a failed checked
// operation. It unwraps to one of the Err* sentinels.
type MathError struct {
	Op   string
	Args []string
	Err  error
}

func mathErr(err error, op string, args ...fmt.Stringer) error {
	e := &MathError{Op: op, Err: err}
	for _, a := range args {
		e.Args = append(e.Args, a.String())
	}
	return e
}

func (e *MathError) Unwrap() error { return e.Err }

func (e *MathError) Error() string {
	switch len(e.Args) {
	case 0:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case 1:
		return fmt.Sprintf("%s(%s): %v", e.Op, e.Args[0], e.Err)
	default:
		return fmt.Sprintf("%s(%s, %s): %v", e.Op, e.Args[0], e.Args[1], e.Err)
	}
}

// ParseError is returned by ParseInt and ParseDec.
type ParseError struct {
	Type  string
	Input string
	Msg   string
	Err   error
}

func parseErrf(typ, input string, err error, format string, args ...any) error {
	return &ParseError{typ, input, fmt.Sprintf(format, args...), err}
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse %q into %s: %s: %v", e.Input, e.Type, e.Msg, e.Err)
	}
	return fmt.Sprintf("failed to parse %q into %s: %s", e.Input, e.Type, e.Msg)
}

type stringer string

func (s stringer) String() string { return string(s) }
