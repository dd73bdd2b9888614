package num

import (
	"math/big"
)

// rescale multiplies or divides x by 10^|to-from|, truncating toward zero.
func rescale(x *big.Int, from, to uint) *big.Int {
	switch {
	case from < to:
		return new(big.Int).Mul(x, pow10(to-from))
	case from > to:
		return new(big.Int).Quo(x, pow10(from-to))
	default:
		return x
	}
}

// ConvertPrecision rescales d to S2 places within the same width, dropping
// digits when S2 < S.
func ConvertPrecision[S2 Scale, W Width, S Scale](d Dec[W, S]) (Dec[W, S2], error) {
	r := rescale(d.inner.big(), placesOf[S](), placesOf[S2]())
	return newDec[W, S2](r, ErrOverflowMul, "convert_precision", d)
}

// TryFromDecimal converts between widths and scales and fails when the
// result does not fit W2.
func TryFromDecimal[W2 Width, S2 Scale, W Width, S Scale](d Dec[W, S]) (Dec[W2, S2], error) {
	r := rescale(d.inner.big(), placesOf[S](), placesOf[S2]())
	return newDec[W2, S2](r, ErrOverflowConversion, "try_from_decimal", d)
}

// FromDecimal is TryFromDecimal that panics on overflow, meant for
// widening conversions.
func FromDecimal[W2 Width, S2 Scale, W Width, S Scale](d Dec[W, S]) Dec[W2, S2] {
	return Must(TryFromDecimal[W2, S2](d))
}

// CheckedAddDec adds decimals of different scales. When the operands have
// the same sign the rescaled o must itself fit; otherwise only the sum has to.
func CheckedAddDec[W Width, S, S2 Scale](d Dec[W, S], o Dec[W, S2]) (Dec[W, S], error) {
	if placesOf[S]() == placesOf[S2]() {
		r := new(big.Int).Add(d.inner.big(), o.inner.big())
		return newDec[W, S](r, ErrOverflowAdd, "checked_add", d, o)
	}
	if d.IsNegative() == o.IsNegative() {
		oc, err := ConvertPrecision[S](o)
		if err != nil {
			return Dec[W, S]{}, err
		}
		return d.CheckedAdd(oc)
	}
	r := rescale(o.inner.big(), placesOf[S2](), placesOf[S]())
	r = new(big.Int).Add(d.inner.big(), r)
	return newDec[W, S](r, ErrOverflowConversion, "checked_add", d, o)
}

// CheckedSubDec is the subtraction counterpart of CheckedAddDec.
func CheckedSubDec[W Width, S, S2 Scale](d Dec[W, S], o Dec[W, S2]) (Dec[W, S], error) {
	if placesOf[S]() == placesOf[S2]() {
		r := new(big.Int).Sub(d.inner.big(), o.inner.big())
		return newDec[W, S](r, ErrOverflowSub, "checked_sub", d, o)
	}
	if d.IsNegative() != o.IsNegative() {
		oc, err := ConvertPrecision[S](o)
		if err != nil {
			return Dec[W, S]{}, err
		}
		return d.CheckedSub(oc)
	}
	r := rescale(o.inner.big(), placesOf[S2](), placesOf[S]())
	r = new(big.Int).Sub(d.inner.big(), r)
	return newDec[W, S](r, ErrOverflowConversion, "checked_sub", d, o)
}

// CheckedMulDec multiplies by a decimal of another scale, keeping S.
func CheckedMulDec[W Width, S, S2 Scale](d Dec[W, S], o Dec[W, S2]) (Dec[W, S], error) {
	r := new(big.Int).Mul(d.inner.big(), o.inner.big())
	r.Quo(r, precision[S2]())
	return newDec[W, S](r, ErrOverflowConversion, "checked_mul", d, o)
}

// CheckedDivDec divides by a decimal of another scale, keeping S.
func CheckedDivDec[W Width, S, S2 Scale](d Dec[W, S], o Dec[W, S2]) (Dec[W, S], error) {
	if o.IsZero() {
		return Dec[W, S]{}, mathErr(ErrDivisionByZero, "checked_div", d, o)
	}
	r := quoRound(new(big.Int).Mul(d.inner.big(), precision[S2]()), o.inner.big(), roundTrunc)
	return newDec[W, S](r, ErrOverflowConversion, "checked_div", d, o)
}

func CheckedRemDec[W Width, S, S2 Scale](d Dec[W, S], o Dec[W, S2]) (Dec[W, S], error) {
	oc, err := ConvertPrecision[S](o)
	if err != nil {
		return Dec[W, S]{}, err
	}
	return d.CheckedRem(oc)
}
