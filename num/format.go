package num

import (
	"fmt"
	"math/big"
	"strings"
)

func intName[W Width]() string {
	return limitsOf[W]().name
}

func decName[W Width, S Scale]() string {
	lim := limitsOf[W]()
	name := fmt.Sprintf("Dec%d", lim.bits)
	if !lim.signed {
		name = "U" + strings.ToLower(name[:1]) + name[1:]
	}
	if p := placesOf[S](); p != 18 {
		name += fmt.Sprintf("_%d", p)
	}
	return name
}

// ParseInt parses a base-10 integer with an optional sign.
func ParseInt[W Width](s string) (Int[W], error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int[W]{}, parseErrf(intName[W](), s, nil, "invalid digit")
	}
	if !limitsOf[W]().fits(v) {
		return Int[W]{}, parseErrf(intName[W](), s, ErrOverflowConversion, "number out of range")
	}
	return Int[W]{v}, nil
}

// ParseDec parses "whole[.fraction]". It never rounds: a fraction longer
// than S digits is rejected, even if the extra digits are zeros.
func ParseDec[W Width, S Scale](s string) (Dec[W, S], error) {
	typ := decName[W, S]()
	parts := strings.Split(s, ".")

	whole, err := ParseInt[W](parts[0])
	if err != nil {
		return Dec[W, S]{}, parseErrf(typ, s, err, "error parsing whole")
	}
	places := placesOf[S]()
	r := new(big.Int).Mul(whole.big(), pow10(places))
	if !limitsOf[W]().fits(r) {
		return Dec[W, S]{}, parseErrf(typ, s, ErrOverflowConversion, "value too big")
	}

	if len(parts) >= 2 {
		fracStr := parts[1]
		frac, err := ParseInt[W](fracStr)
		if err != nil {
			return Dec[W, S]{}, parseErrf(typ, s, err, "error parsing fractional")
		}
		if frac.IsNegative() {
			return Dec[W, S]{}, parseErrf(typ, s, nil, "fractional part cannot be negative")
		}
		if uint(len(fracStr)) > places {
			return Dec[W, S]{}, parseErrf(typ, s, nil, "cannot parse more than %d fractional digits", places)
		}
		f := new(big.Int).Mul(frac.big(), pow10(places-uint(len(fracStr))))
		if strings.HasPrefix(s, "-") {
			r.Sub(r, f)
		} else {
			r.Add(r, f)
		}
		if !limitsOf[W]().fits(r) {
			return Dec[W, S]{}, parseErrf(typ, s, ErrOverflowConversion, "value too big")
		}
	}
	// extra dots are reported only once the whole and fraction parse
	if len(parts) > 2 {
		return Dec[W, S]{}, parseErrf(typ, s, nil, "unexpected number of dots")
	}
	return Dec[W, S]{Int[W]{r}}, nil
}

// MustParseDec is ParseDec that panics on error.
func MustParseDec[W Width, S Scale](s string) Dec[W, S] {
	return Must(ParseDec[W, S](s))
}

// String prints the shortest exact representation: trailing fractional
// zeros are trimmed and an integral value has no decimal point.
func (d Dec[W, S]) String() string {
	places := placesOf[S]()
	whole, frac := new(big.Int).QuoRem(d.inner.big(), pow10(places), new(big.Int))
	if frac.Sign() == 0 {
		return whole.String()
	}
	var buf strings.Builder
	if whole.Sign() < 0 || frac.Sign() < 0 {
		buf.WriteByte('-')
	}
	buf.WriteString(whole.Abs(whole).String())
	buf.WriteByte('.')
	digits := frac.Abs(frac).String()
	for i := len(digits); i < int(places); i++ {
		buf.WriteByte('0')
	}
	buf.WriteString(strings.TrimRight(digits, "0"))
	return buf.String()
}
