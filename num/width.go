package num

import (
	"math/big"
)

// Width is a compile-time integer width marker. The marker types carry no
// data; they select the range an Int or Dec must stay within.
type Width interface {
	limits() *limits
}

type limits struct {
	name   string
	bits   int
	signed bool
	min    *big.Int
	max    *big.Int
}

func newLimits(name string, bits int, signed bool) *limits {
	l := &limits{name: name, bits: bits, signed: signed}
	one := big.NewInt(1)
	if signed {
		l.max = new(big.Int).Sub(new(big.Int).Lsh(one, uint(bits-1)), one)
		l.min = new(big.Int).Neg(new(big.Int).Lsh(one, uint(bits-1)))
	} else {
		l.max = new(big.Int).Sub(new(big.Int).Lsh(one, uint(bits)), one)
		l.min = new(big.Int)
	}
	return l
}

func (l *limits) fits(v *big.Int) bool {
	return v.Cmp(l.min) >= 0 && v.Cmp(l.max) <= 0
}

// byteLen is the size of the fixed-width big-endian encoding.
func (l *limits) byteLen() int {
	return l.bits / 8
}

var (
	limitsU64  = newLimits("Uint64", 64, false)
	limitsU128 = newLimits("Uint128", 128, false)
	limitsU256 = newLimits("Uint256", 256, false)
	limitsU512 = newLimits("Uint512", 512, false)
	limitsI64  = newLimits("Int64", 64, true)
	limitsI128 = newLimits("Int128", 128, true)
	limitsI256 = newLimits("Int256", 256, true)
	limitsI512 = newLimits("Int512", 512, true)
)

type (
	Bits64U  struct{}
	Bits128U struct{}
	Bits256U struct{}
	Bits512U struct{}
	Bits64S  struct{}
	Bits128S struct{}
	Bits256S struct{}
	Bits512S struct{}
)

func (Bits64U) limits() *limits  { return limitsU64 }
func (Bits128U) limits() *limits { return limitsU128 }
func (Bits256U) limits() *limits { return limitsU256 }
func (Bits512U) limits() *limits { return limitsU512 }
func (Bits64S) limits() *limits  { return limitsI64 }
func (Bits128S) limits() *limits { return limitsI128 }
func (Bits256S) limits() *limits { return limitsI256 }
func (Bits512S) limits() *limits { return limitsI512 }

func limitsOf[W Width]() *limits {
	var w W
	return w.limits()
}

// Scale is a compile-time number of decimal places.
type Scale interface {
	places() uint
}

type (
	Places0  struct{}
	Places6  struct{}
	Places18 struct{}
	Places24 struct{}
)

func (Places0) places() uint  { return 0 }
func (Places6) places() uint  { return 6 }
func (Places18) places() uint { return 18 }
func (Places24) places() uint { return 24 }

func placesOf[S Scale]() uint {
	var s S
	return s.places()
}

var pow10Cache [78]*big.Int

func init() {
	p := big.NewInt(1)
	for i := range pow10Cache {
		pow10Cache[i] = new(big.Int).Set(p)
		p.Mul(p, bigTen)
	}
}

var (
	bigZero    = big.NewInt(0)
	bigOne     = big.NewInt(1)
	bigTen     = big.NewInt(10)
	bigHundred = big.NewInt(100)
)

// pow10 returns 10^n. The result must not be modified.
func pow10(n uint) *big.Int {
	if n < uint(len(pow10Cache)) {
		return pow10Cache[n]
	}
	return new(big.Int).Exp(bigTen, new(big.Int).SetUint64(uint64(n)), nil)
}
