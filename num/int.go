package num

import (
	"fmt"
	"math/big"
)

// Int is an immutable integer confined to the range of its width W. The zero
// value is 0.
type Int[W Width] struct {
	v *big.Int
}

type (
	Uint64  = Int[Bits64U]
	Uint128 = Int[Bits128U]
	Uint256 = Int[Bits256U]
	Uint512 = Int[Bits512U]
	Int64   = Int[Bits64S]
	Int128  = Int[Bits128S]
	Int256  = Int[Bits256S]
	Int512  = Int[Bits512S]
)

// big returns the underlying value, which must not be modified.
func (i Int[W]) big() *big.Int {
	if i.v == nil {
		return bigZero
	}
	return i.v
}

// wrap checks r against the range of W, reporting err when it does not fit.
func wrap[W Width](r *big.Int, err error, op string, args ...fmt.Stringer) (Int[W], error) {
	if !limitsOf[W]().fits(r) {
		return Int[W]{}, mathErr(err, op, args...)
	}
	return Int[W]{r}, nil
}

func IntFromBig[W Width](v *big.Int) (Int[W], error) {
	return wrap[W](new(big.Int).Set(v), ErrOverflowConversion, "from_big", stringer(v.String()))
}

func IntFromInt64[W Width](x int64) (Int[W], error) {
	return IntFromBig[W](big.NewInt(x))
}

func IntFromUint64[W Width](x uint64) (Int[W], error) {
	return IntFromBig[W](new(big.Int).SetUint64(x))
}

// MustInt is IntFromInt64 that panics when x is out of range.
func MustInt[W Width](x int64) Int[W] {
	return Must(IntFromInt64[W](x))
}

// Must panics if err is not nil.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func MaxInt[W Width]() Int[W]  { return Int[W]{limitsOf[W]().max} }
func MinInt[W Width]() Int[W]  { return Int[W]{limitsOf[W]().min} }
func ZeroInt[W Width]() Int[W] { return Int[W]{} }
func OneInt[W Width]() Int[W]  { return Int[W]{bigOne} }
func TenInt[W Width]() Int[W]  { return Int[W]{bigTen} }

// Big returns a copy of the value.
func (i Int[W]) Big() *big.Int { return new(big.Int).Set(i.big()) }

func (i Int[W]) String() string   { return i.big().String() }
func (i Int[W]) Cmp(o Int[W]) int { return i.big().Cmp(o.big()) }
func (i Int[W]) Eq(o Int[W]) bool { return i.Cmp(o) == 0 }
func (i Int[W]) Sign() int        { return i.big().Sign() }
func (i Int[W]) IsZero() bool     { return i.Sign() == 0 }
func (i Int[W]) IsNegative() bool { return i.Sign() < 0 }
func (i Int[W]) IsPositive() bool { return i.Sign() > 0 }

// Int64 reports the value and whether it fits into int64.
func (i Int[W]) Int64() (int64, bool) {
	v := i.big()
	return v.Int64(), v.IsInt64()
}

// Uint64 reports the value and whether it fits into uint64.
func (i Int[W]) Uint64() (uint64, bool) {
	v := i.big()
	return v.Uint64(), v.IsUint64()
}

func (i Int[W]) CheckedAdd(o Int[W]) (Int[W], error) {
	return wrap[W](new(big.Int).Add(i.big(), o.big()), ErrOverflowAdd, "checked_add", i, o)
}

func (i Int[W]) CheckedSub(o Int[W]) (Int[W], error) {
	return wrap[W](new(big.Int).Sub(i.big(), o.big()), ErrOverflowSub, "checked_sub", i, o)
}

func (i Int[W]) CheckedMul(o Int[W]) (Int[W], error) {
	return wrap[W](new(big.Int).Mul(i.big(), o.big()), ErrOverflowMul, "checked_mul", i, o)
}

// CheckedDiv truncates toward zero.
func (i Int[W]) CheckedDiv(o Int[W]) (Int[W], error) {
	if o.IsZero() {
		return Int[W]{}, mathErr(ErrDivisionByZero, "checked_div", i, o)
	}
	return wrap[W](new(big.Int).Quo(i.big(), o.big()), ErrOverflowConversion, "checked_div", i, o)
}

// CheckedRem takes the sign of the dividend.
func (i Int[W]) CheckedRem(o Int[W]) (Int[W], error) {
	if o.IsZero() {
		return Int[W]{}, mathErr(ErrDivisionByZero, "checked_rem", i, o)
	}
	return wrap[W](new(big.Int).Rem(i.big(), o.big()), ErrOverflowConversion, "checked_rem", i, o)
}

func (i Int[W]) CheckedPow(exp uint32) (Int[W], error) {
	v := i.big()
	if v.CmpAbs(bigOne) > 0 && int(exp) > limitsOf[W]().bits {
		return Int[W]{}, mathErr(ErrOverflowPow, "checked_pow", i, stringer(fmt.Sprint(exp)))
	}
	r := new(big.Int).Exp(v, big.NewInt(int64(exp)), nil)
	return wrap[W](r, ErrOverflowPow, "checked_pow", i, stringer(fmt.Sprint(exp)))
}

// CheckedSqrt returns the floor of the square root.
func (i Int[W]) CheckedSqrt() (Int[W], error) {
	if i.IsNegative() {
		return Int[W]{}, mathErr(ErrNegativeSqrt, "checked_sqrt", i)
	}
	return Int[W]{new(big.Int).Sqrt(i.big())}, nil
}

func (i Int[W]) CheckedAbs() (Int[W], error) {
	return wrap[W](new(big.Int).Abs(i.big()), ErrOverflowSub, "checked_abs", i)
}

func (i Int[W]) CheckedNeg() (Int[W], error) {
	return wrap[W](new(big.Int).Neg(i.big()), ErrOverflowSub, "checked_neg", i)
}

func (i Int[W]) SaturatingAdd(o Int[W]) Int[W] {
	r, err := i.CheckedAdd(o)
	if err != nil {
		if o.IsPositive() {
			return MaxInt[W]()
		}
		return MinInt[W]()
	}
	return r
}

func (i Int[W]) SaturatingSub(o Int[W]) Int[W] {
	r, err := i.CheckedSub(o)
	if err != nil {
		if o.IsPositive() {
			return MinInt[W]()
		}
		return MaxInt[W]()
	}
	return r
}

func (i Int[W]) SaturatingMul(o Int[W]) Int[W] {
	r, err := i.CheckedMul(o)
	if err != nil {
		if i.IsPositive() == o.IsPositive() {
			return MaxInt[W]()
		}
		return MinInt[W]()
	}
	return r
}

func (i Int[W]) SaturatingPow(exp uint32) Int[W] {
	r, err := i.CheckedPow(exp)
	if err != nil {
		if i.IsNegative() && exp%2 == 1 {
			return MinInt[W]()
		}
		return MaxInt[W]()
	}
	return r
}

// CheckedFullMul multiplies into a wider width N.
func CheckedFullMul[N, W Width](a, b Int[W]) (Int[N], error) {
	return wrap[N](new(big.Int).Mul(a.big(), b.big()), ErrOverflowConversion, "checked_full_mul", a, b)
}

type rounding int

const (
	roundTrunc rounding = iota
	roundFloor
	roundCeil
)

// quoRound divides n by d, both unbounded, rounding as requested.
func quoRound(n, d *big.Int, mode rounding) *big.Int {
	q, r := new(big.Int).QuoRem(n, d, new(big.Int))
	if r.Sign() == 0 {
		return q
	}
	negative := n.Sign()*d.Sign() < 0
	switch {
	case mode == roundFloor && negative:
		q.Sub(q, bigOne)
	case mode == roundCeil && !negative:
		q.Add(q, bigOne)
	}
	return q
}

func (i Int[W]) multiplyRatio(num, den Int[W], mode rounding, op string) (Int[W], error) {
	if den.IsZero() {
		return Int[W]{}, mathErr(ErrDivisionByZero, op, i, den)
	}
	n := new(big.Int).Mul(i.big(), num.big())
	return wrap[W](quoRound(n, den.big(), mode), ErrOverflowConversion, op, i, num)
}

// CheckedMultiplyRatio computes i*num/den without intermediate overflow,
// truncating toward zero.
func (i Int[W]) CheckedMultiplyRatio(num, den Int[W]) (Int[W], error) {
	return i.multiplyRatio(num, den, roundTrunc, "checked_multiply_ratio")
}

// CheckedMultiplyRatioFloor rounds toward negative infinity.
func (i Int[W]) CheckedMultiplyRatioFloor(num, den Int[W]) (Int[W], error) {
	return i.multiplyRatio(num, den, roundFloor, "checked_multiply_ratio_floor")
}

// CheckedMultiplyRatioCeil rounds toward positive infinity.
func (i Int[W]) CheckedMultiplyRatioCeil(num, den Int[W]) (Int[W], error) {
	return i.multiplyRatio(num, den, roundCeil, "checked_multiply_ratio_ceil")
}

// CheckedIntoDec converts i to a decimal with the same integer value.
func CheckedIntoDec[S Scale, W Width](i Int[W]) (Dec[W, S], error) {
	r := new(big.Int).Mul(i.big(), pow10(placesOf[S]()))
	inner, err := wrap[W](r, ErrOverflowConversion, "checked_into_dec", i)
	return Dec[W, S]{inner}, err
}

func mulDiv[W Width, S Scale](i Int[W], d Dec[W, S], divide bool, mode rounding, op string) (Int[W], error) {
	if divide && d.IsZero() {
		return Int[W]{}, mathErr(ErrDivisionByZero, op, i, d)
	}
	if i.IsZero() || d.IsZero() {
		return Int[W]{}, nil
	}
	num, den := d.inner.big(), pow10(placesOf[S]())
	if divide {
		num, den = den, num
	}
	n := new(big.Int).Mul(i.big(), num)
	return wrap[W](quoRound(n, den, mode), ErrOverflowConversion, op, i, d)
}

// CheckedMulDecFloor multiplies an integer by a decimal, rounding the
// result toward negative infinity.
func CheckedMulDecFloor[W Width, S Scale](i Int[W], d Dec[W, S]) (Int[W], error) {
	return mulDiv(i, d, false, roundFloor, "checked_mul_dec_floor")
}

func CheckedMulDecCeil[W Width, S Scale](i Int[W], d Dec[W, S]) (Int[W], error) {
	return mulDiv(i, d, false, roundCeil, "checked_mul_dec_ceil")
}

func CheckedDivDecFloor[W Width, S Scale](i Int[W], d Dec[W, S]) (Int[W], error) {
	return mulDiv(i, d, true, roundFloor, "checked_div_dec_floor")
}

func CheckedDivDecCeil[W Width, S Scale](i Int[W], d Dec[W, S]) (Int[W], error) {
	return mulDiv(i, d, true, roundCeil, "checked_div_dec_ceil")
}

// Add, Sub, Mul, Div, Rem, Pow and Sqrt panic where the Checked variants
// would fail.

func (i Int[W]) Add(o Int[W]) Int[W]   { return Must(i.CheckedAdd(o)) }
func (i Int[W]) Sub(o Int[W]) Int[W]   { return Must(i.CheckedSub(o)) }
func (i Int[W]) Mul(o Int[W]) Int[W]   { return Must(i.CheckedMul(o)) }
func (i Int[W]) Div(o Int[W]) Int[W]   { return Must(i.CheckedDiv(o)) }
func (i Int[W]) Rem(o Int[W]) Int[W]   { return Must(i.CheckedRem(o)) }
func (i Int[W]) Pow(exp uint32) Int[W] { return Must(i.CheckedPow(exp)) }
func (i Int[W]) Sqrt() Int[W]          { return Must(i.CheckedSqrt()) }
