package num

import (
	"fmt"
	"math/big"
)

// Dec is a fixed-point decimal holding inner / 10^S, where inner is an
// Int[W]. Unsigned widths give the non-negative decimals. The zero value is 0.
type Dec[W Width, S Scale] struct {
	inner Int[W]
}

type (
	Udec128    = Dec[Bits128U, Places18]
	Udec128_6  = Dec[Bits128U, Places6]
	Udec128_24 = Dec[Bits128U, Places24]
	Udec256    = Dec[Bits256U, Places18]
	Dec128     = Dec[Bits128S, Places18]
	Dec128_6   = Dec[Bits128S, Places6]
	Dec256     = Dec[Bits256S, Places18]
)

func precision[S Scale]() *big.Int { return pow10(placesOf[S]()) }

func newDec[W Width, S Scale](r *big.Int, err error, op string, args ...fmt.Stringer) (Dec[W, S], error) {
	inner, e := wrap[W](r, err, op, args...)
	return Dec[W, S]{inner}, e
}

func scaled[W Width, S Scale](x *big.Int, places uint, op string) (Dec[W, S], error) {
	s := placesOf[S]()
	if places > s {
		panic(fmt.Sprintf("%s requires at least %d decimal places", op, places))
	}
	r := new(big.Int).Mul(x, pow10(s-places))
	return newDec[W, S](r, ErrOverflowConversion, op, stringer(x.String()))
}

// NewDec returns the decimal equal to the integer x.
func NewDec[W Width, S Scale](x int64) (Dec[W, S], error) {
	return scaled[W, S](big.NewInt(x), 0, "new")
}

// NewPercent returns x / 100.
func NewPercent[W Width, S Scale](x int64) (Dec[W, S], error) {
	return scaled[W, S](big.NewInt(x), 2, "new_percent")
}

// NewPermille returns x / 1000.
func NewPermille[W Width, S Scale](x int64) (Dec[W, S], error) {
	return scaled[W, S](big.NewInt(x), 3, "new_permille")
}

// NewBps returns x / 10000.
func NewBps[W Width, S Scale](x int64) (Dec[W, S], error) {
	return scaled[W, S](big.NewInt(x), 4, "new_bps")
}

// Raw wraps an already scaled integer.
func Raw[S Scale, W Width](inner Int[W]) Dec[W, S] {
	return Dec[W, S]{inner}
}

func MaxDec[W Width, S Scale]() Dec[W, S]  { return Dec[W, S]{MaxInt[W]()} }
func MinDec[W Width, S Scale]() Dec[W, S]  { return Dec[W, S]{MinInt[W]()} }
func ZeroDec[W Width, S Scale]() Dec[W, S] { return Dec[W, S]{} }
func OneDec[W Width, S Scale]() Dec[W, S]  { return Dec[W, S]{Int[W]{precision[S]()}} }

// CheckedFromAtomics interprets atomics as a number with decimalPlaces
// fractional digits. Extra digits beyond S are truncated.
func CheckedFromAtomics[W Width, S Scale](atomics Int[W], places uint) (Dec[W, S], error) {
	s := placesOf[S]()
	a := atomics.big()
	switch {
	case places < s:
		r := new(big.Int).Mul(a, pow10(s-places))
		return newDec[W, S](r, ErrOverflowConversion, "checked_from_atomics", atomics)
	case places > s:
		d := pow10(places - s)
		if !limitsOf[W]().fits(d) {
			return Dec[W, S]{}, nil
		}
		return Dec[W, S]{Int[W]{new(big.Int).Quo(a, d)}}, nil
	default:
		return Dec[W, S]{atomics}, nil
	}
}

func fromRatio[W Width, S Scale](num, den Int[W], mode rounding, op string) (Dec[W, S], error) {
	inner, err := num.multiplyRatio(Int[W]{precision[S]()}, den, mode, op)
	return Dec[W, S]{inner}, err
}

// CheckedFromRatio returns num/den truncated to S places.
func CheckedFromRatio[W Width, S Scale](num, den Int[W]) (Dec[W, S], error) {
	return fromRatio[W, S](num, den, roundTrunc, "checked_from_ratio")
}

func CheckedFromRatioFloor[W Width, S Scale](num, den Int[W]) (Dec[W, S], error) {
	return fromRatio[W, S](num, den, roundFloor, "checked_from_ratio_floor")
}

func CheckedFromRatioCeil[W Width, S Scale](num, den Int[W]) (Dec[W, S], error) {
	return fromRatio[W, S](num, den, roundCeil, "checked_from_ratio_ceil")
}

// Inner returns the scaled integer, also known as the numerator.
func (d Dec[W, S]) Inner() Int[W]     { return d.inner }
func (d Dec[W, S]) Numerator() Int[W] { return d.inner }

// Denominator returns 10^S. It panics if 10^S does not fit into W, which
// none of the named aliases do.
func (d Dec[W, S]) Denominator() Int[W] {
	return Must(IntFromBig[W](precision[S]()))
}

func (d Dec[W, S]) DecimalPlaces() uint { return placesOf[S]() }

func (d Dec[W, S]) Cmp(o Dec[W, S]) int { return d.inner.Cmp(o.inner) }
func (d Dec[W, S]) Eq(o Dec[W, S]) bool { return d.inner.Eq(o.inner) }
func (d Dec[W, S]) Sign() int           { return d.inner.Sign() }
func (d Dec[W, S]) IsZero() bool        { return d.inner.IsZero() }
func (d Dec[W, S]) IsNegative() bool    { return d.inner.IsNegative() }
func (d Dec[W, S]) IsPositive() bool    { return d.inner.IsPositive() }

func (d Dec[W, S]) CheckedAdd(o Dec[W, S]) (Dec[W, S], error) {
	r := new(big.Int).Add(d.inner.big(), o.inner.big())
	return newDec[W, S](r, ErrOverflowAdd, "checked_add", d, o)
}

func (d Dec[W, S]) CheckedSub(o Dec[W, S]) (Dec[W, S], error) {
	r := new(big.Int).Sub(d.inner.big(), o.inner.big())
	return newDec[W, S](r, ErrOverflowSub, "checked_sub", d, o)
}

// CheckedMul computes d*o / 10^S in a wider intermediate, truncating, and
// fails with ErrOverflowConversion when the result does not fit W.
func (d Dec[W, S]) CheckedMul(o Dec[W, S]) (Dec[W, S], error) {
	r := new(big.Int).Mul(d.inner.big(), o.inner.big())
	r.Quo(r, precision[S]())
	return newDec[W, S](r, ErrOverflowConversion, "checked_mul", d, o)
}

// CheckedDiv computes d * 10^S / o, truncating toward zero.
func (d Dec[W, S]) CheckedDiv(o Dec[W, S]) (Dec[W, S], error) {
	if o.IsZero() {
		return Dec[W, S]{}, mathErr(ErrDivisionByZero, "checked_div", d, o)
	}
	r := quoRound(new(big.Int).Mul(d.inner.big(), precision[S]()), o.inner.big(), roundTrunc)
	return newDec[W, S](r, ErrOverflowConversion, "checked_div", d, o)
}

func (d Dec[W, S]) CheckedRem(o Dec[W, S]) (Dec[W, S], error) {
	inner, err := d.inner.CheckedRem(o.inner)
	return Dec[W, S]{inner}, err
}

// CheckedPow raises d to exp by repeated squaring; 0^0 is 1. Any failure is
// reported as ErrOverflowPow.
func (d Dec[W, S]) CheckedPow(exp uint32) (Dec[W, S], error) {
	if exp == 0 {
		return OneDec[W, S](), nil
	}
	base, e := d, exp
	result := OneDec[W, S]()
	var err error
	for e > 1 {
		if e%2 == 1 {
			if result, err = result.CheckedMul(base); err != nil {
				return Dec[W, S]{}, mathErr(ErrOverflowPow, "checked_pow", d, stringer(fmt.Sprint(exp)))
			}
		}
		if base, err = base.CheckedMul(base); err != nil {
			return Dec[W, S]{}, mathErr(ErrOverflowPow, "checked_pow", d, stringer(fmt.Sprint(exp)))
		}
		e /= 2
	}
	if result, err = result.CheckedMul(base); err != nil {
		return Dec[W, S]{}, mathErr(ErrOverflowPow, "checked_pow", d, stringer(fmt.Sprint(exp)))
	}
	return result, nil
}

// CheckedSqrt computes the square root of inner * 100^i for the largest i in
// [0, S/2] for which that product still fits W, and rescales the result by
// 10^(S/2-i). Large inputs therefore lose fractional digits. A width too
// narrow to hold 100^i itself fails with ErrOverflowPow.
func (d Dec[W, S]) CheckedSqrt() (Dec[W, S], error) {
	if d.IsNegative() {
		return Dec[W, S]{}, mathErr(ErrNegativeSqrt, "checked_sqrt", d)
	}
	lim := limitsOf[W]()
	half := placesOf[S]() / 2
	x := d.inner.big()
	for i := int(half); i >= 0; i-- {
		scale := new(big.Int).Exp(bigHundred, big.NewInt(int64(i)), nil)
		if !lim.fits(scale) {
			return Dec[W, S]{}, mathErr(ErrOverflowPow, "checked_sqrt", d)
		}
		v := new(big.Int).Mul(x, scale)
		if !lim.fits(v) {
			continue
		}
		r := new(big.Int).Sqrt(v)
		r.Mul(r, pow10(half-uint(i)))
		return newDec[W, S](r, ErrOverflowConversion, "checked_sqrt", d)
	}
	return Dec[W, S]{}, mathErr(ErrSqrtFailed, "checked_sqrt", d)
}

// CheckedInv returns 1/d.
func (d Dec[W, S]) CheckedInv() (Dec[W, S], error) {
	if d.IsZero() {
		return Dec[W, S]{}, mathErr(ErrDivisionByZero, "checked_inv", d)
	}
	return OneDec[W, S]().CheckedDiv(d)
}

func (d Dec[W, S]) CheckedAbs() (Dec[W, S], error) {
	inner, err := d.inner.CheckedAbs()
	return Dec[W, S]{inner}, err
}

func (d Dec[W, S]) CheckedNeg() (Dec[W, S], error) {
	inner, err := d.inner.CheckedNeg()
	return Dec[W, S]{inner}, err
}

// CheckedFloor rounds toward negative infinity.
func (d Dec[W, S]) CheckedFloor() (Dec[W, S], error) {
	p := precision[S]()
	x := d.inner.big()
	rem := new(big.Int).Rem(x, p)
	switch rem.Sign() {
	case -1:
		r := new(big.Int).Sub(x, new(big.Int).Add(p, rem))
		return newDec[W, S](r, ErrOverflowSub, "checked_floor", d)
	case 1:
		return Dec[W, S]{Int[W]{new(big.Int).Sub(x, rem)}}, nil
	default:
		return d, nil
	}
}

// CheckedCeil rounds toward positive infinity.
func (d Dec[W, S]) CheckedCeil() (Dec[W, S], error) {
	p := precision[S]()
	x := d.inner.big()
	rem := new(big.Int).Rem(x, p)
	switch rem.Sign() {
	case -1:
		return Dec[W, S]{Int[W]{new(big.Int).Sub(x, rem)}}, nil
	case 1:
		r := new(big.Int).Add(x, new(big.Int).Sub(p, rem))
		return newDec[W, S](r, ErrOverflowAdd, "checked_ceil", d)
	default:
		return d, nil
	}
}

// IntoInt truncates toward zero.
func (d Dec[W, S]) IntoInt() Int[W] {
	return Int[W]{new(big.Int).Quo(d.inner.big(), precision[S]())}
}

func (d Dec[W, S]) IntoIntFloor() Int[W] {
	return Int[W]{quoRound(d.inner.big(), precision[S](), roundFloor)}
}

func (d Dec[W, S]) IntoIntCeil() Int[W] {
	return Int[W]{quoRound(d.inner.big(), precision[S](), roundCeil)}
}

func (d Dec[W, S]) SaturatingAdd(o Dec[W, S]) Dec[W, S] {
	r, err := d.CheckedAdd(o)
	if err != nil {
		if o.IsPositive() {
			return MaxDec[W, S]()
		}
		return MinDec[W, S]()
	}
	return r
}

func (d Dec[W, S]) SaturatingSub(o Dec[W, S]) Dec[W, S] {
	r, err := d.CheckedSub(o)
	if err != nil {
		if o.IsPositive() {
			return MinDec[W, S]()
		}
		return MaxDec[W, S]()
	}
	return r
}

// SaturatingMul clamps to MaxDec or MinDec according to the sign of the
// mathematical product.
func (d Dec[W, S]) SaturatingMul(o Dec[W, S]) Dec[W, S] {
	r, err := d.CheckedMul(o)
	if err != nil {
		if d.IsPositive() == o.IsPositive() {
			return MaxDec[W, S]()
		}
		return MinDec[W, S]()
	}
	return r
}

func (d Dec[W, S]) SaturatingPow(exp uint32) Dec[W, S] {
	r, err := d.CheckedPow(exp)
	if err != nil {
		if d.IsNegative() && exp%2 == 1 {
			return MinDec[W, S]()
		}
		return MaxDec[W, S]()
	}
	return r
}

func (d Dec[W, S]) Add(o Dec[W, S]) Dec[W, S] { return Must(d.CheckedAdd(o)) }
func (d Dec[W, S]) Sub(o Dec[W, S]) Dec[W, S] { return Must(d.CheckedSub(o)) }
func (d Dec[W, S]) Mul(o Dec[W, S]) Dec[W, S] { return Must(d.CheckedMul(o)) }
func (d Dec[W, S]) Div(o Dec[W, S]) Dec[W, S] { return Must(d.CheckedDiv(o)) }
func (d Dec[W, S]) Rem(o Dec[W, S]) Dec[W, S] { return Must(d.CheckedRem(o)) }
func (d Dec[W, S]) Pow(exp uint32) Dec[W, S]  { return Must(d.CheckedPow(exp)) }
func (d Dec[W, S]) Sqrt() Dec[W, S]           { return Must(d.CheckedSqrt()) }
