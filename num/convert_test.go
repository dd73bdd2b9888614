package num

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertPrecision(t *testing.T) {
	d6, err := ConvertPrecision[Places6](ud("1.2345678"))
	require.NoError(t, err)
	assert.Equal(t, "1.234567", d6.String())
	assert.Equal(t, uint(6), d6.DecimalPlaces())

	d18, err := ConvertPrecision[Places18](d6)
	require.NoError(t, err)
	assertEq(t, ud("1.234567"), d18)

	_, err = ConvertPrecision[Places24](MaxDec[Bits128U, Places18]())
	assert.ErrorIs(t, err, ErrOverflowMul)
}

func TestTryFromDecimal(t *testing.T) {
	wide := FromDecimal[Bits256U, Places18](ud("12.5"))
	assertEq(t, ud256("12.5"), wide)

	narrow, err := TryFromDecimal[Bits128U, Places18](ud256("12.5"))
	require.NoError(t, err)
	assertEq(t, ud("12.5"), narrow)

	_, err = TryFromDecimal[Bits128U, Places18](MaxDec[Bits256U, Places18]())
	assert.ErrorIs(t, err, ErrOverflowConversion)

	signed, err := TryFromDecimal[Bits128S, Places6](ud("3.1415926"))
	require.NoError(t, err)
	assert.Equal(t, "3.141592", signed.String())

	_, err = TryFromDecimal[Bits128U, Places18](sd("-1"))
	assert.ErrorIs(t, err, ErrOverflowConversion)

	assert.Panics(t, func() { FromDecimal[Bits128U, Places18](sd("-1")) })
}

func TestCrossPrecisionArithmetic(t *testing.T) {
	a := ud("1.5")
	b := Must(ParseDec[Bits128U, Places6]("0.25"))

	assertEq(t, ud("1.75"), Must(CheckedAddDec(a, b)))
	assertEq(t, ud("1.25"), Must(CheckedSubDec(a, b)))
	assertEq(t, ud("0.375"), Must(CheckedMulDec(a, b)))
	assertEq(t, ud("6"), Must(CheckedDivDec(a, b)))
	assertEq(t, ud("0"), Must(CheckedRemDec(a, b)))

	_, err := CheckedSubDec(b, a)
	assert.ErrorIs(t, err, ErrOverflowConversion)
	_, err = CheckedDivDec(a, ZeroDec[Bits128U, Places6]())
	assert.ErrorIs(t, err, ErrDivisionByZero)

	// the rescaled operand overflows on its own but the sum fits
	big := Must(ParseDec[Bits128S, Places6]("-200000000000000000000"))
	small := sd("170141183460469231731")
	sum, err := CheckedAddDec(small, big)
	require.NoError(t, err)
	assert.Equal(t, "-29858816539530768269", sum.String())

	_, err = CheckedAddDec(sd("1"), big)
	assert.ErrorIs(t, err, ErrOverflowConversion)
	_, err = CheckedAddDec(sd("-1"), big)
	assert.ErrorIs(t, err, ErrOverflowMul)
}
