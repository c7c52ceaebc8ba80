package scicalc

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zephyrtronium/bigfloat"
)

var (
	one          = decimal.NewFromInt(1)
	two          = decimal.NewFromInt(2)
	ten          = decimal.NewFromInt(10)
	maxFactorial = decimal.NewFromInt(1000)
	// maxIntPow is the largest exponent computed by repeated squaring.
	// Larger integer exponents go through exp and log.
	maxIntPow = decimal.NewFromInt(1 << 16)
	// expLimit is slightly above MaxExponent·ln 10.
	expLimit = decimal.NewFromInt(2303)
)

// numDigits returns the number of digits in the coefficient of d.
func numDigits(d decimal.Decimal) int64 {
	c := d.Coefficient()
	if c.Sign() == 0 {
		return 1
	}
	return int64(len(c.Abs(c).String()))
}

// adjExp returns the exponent of the most significant digit of d, so that
// 10^adjExp ≤ |d| < 10^(adjExp+1). d must be nonzero.
func adjExp(d decimal.Decimal) int64 {
	return numDigits(d) + int64(d.Exponent()) - 1
}

// roundSig rounds d half-even to digits significant digits.
func roundSig(d decimal.Decimal, digits int32) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	places := int64(digits) - 1 - adjExp(d)
	if -int64(d.Exponent()) <= places {
		return d
	}
	return d.RoundBank(int32(places))
}

// quo divides a by a nonzero b to digits significant digits.
func quo(a, b decimal.Decimal, digits int32) decimal.Decimal {
	if a.IsZero() {
		return decimal.Zero
	}
	places := int64(digits) - (adjExp(a) - adjExp(b)) + 1
	if places < 0 {
		places = 0
	}
	return roundSig(a.DivRound(b, int32(places)), digits)
}

// isOdd reports whether the integer d is odd.
func isOdd(d decimal.Decimal) bool {
	return !d.Mod(two).IsZero()
}

// parseNum converts a canonical number literal to a decimal. Literals with
// exponents far outside the representable range saturate instead of failing.
func parseNum(s string) (decimal.Decimal, error) {
	mant, exp, _ := strings.Cut(s, "E")
	mant = strings.TrimSuffix(mant, ".")
	if strings.HasPrefix(mant, ".") {
		mant = "0" + mant
	}
	if exp != "" {
		e, err := strconv.ParseInt(exp, 10, 64)
		switch {
		case err != nil && strings.HasPrefix(exp, "-"), err == nil && e < -4*MaxExponent:
			return decimal.Zero, nil
		case err != nil, e > 4*MaxExponent:
			return decimal.Zero, infinity(false)
		}
		mant += "E" + exp
	}
	d, err := decimal.NewFromString(mant)
	if err != nil {
		return decimal.Zero, syntaxError(err)
	}
	return d, nil
}

// floatPrec is the big.Float precision used to compute digits significant
// decimal digits.
func floatPrec(digits int32) uint {
	return uint(digits)*10/3 + 64
}

func toFloat(d decimal.Decimal, prec uint) *big.Float {
	return new(big.Float).SetPrec(prec).SetRat(d.Rat())
}

// fromFloat converts a finite f to a decimal with digits significant digits.
func fromFloat(f *big.Float, digits int32) decimal.Decimal {
	if f.Sign() == 0 {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(f.Text('e', int(digits)-1))
	if err != nil {
		panic("scicalc: converting " + f.String() + ": " + err.Error())
	}
	return d
}

// piFloat computes π to prec bits.
func piFloat(prec uint) *big.Float {
	z := new(big.Float).SetPrec(prec)
	bigfloat.Pi(z)
	return z
}

// truncated returns f truncated to digits significant digits. f is in [1, 10).
func truncated(f *big.Float, digits int32) decimal.Decimal {
	return fromFloat(f, digits+4).Truncate(digits - 1)
}

// Pi returns π truncated to digits significant digits.
func Pi(digits int32) decimal.Decimal {
	return truncated(piFloat(floatPrec(digits)), digits)
}

// E returns Euler's number truncated to digits significant digits.
func E(digits int32) decimal.Decimal {
	prec := floatPrec(digits)
	z := new(big.Float).SetPrec(prec)
	bigfloat.Exp(z, new(big.Float).SetPrec(prec).SetInt64(1))
	return truncated(z, digits)
}

// log10Float returns log10(x) for positive x.
func log10Float(x *big.Float) *big.Float {
	prec := x.Prec()
	z := new(big.Float).SetPrec(prec)
	bigfloat.Log(z, x)
	ten := new(big.Float).SetPrec(prec).SetInt64(10)
	l := new(big.Float).SetPrec(prec)
	bigfloat.Log(l, ten)
	return z.Quo(z, l)
}

// powMagnitude estimates log10(|x|^y) for nonzero x.
func powMagnitude(x, y decimal.Decimal) *big.Float {
	const prec = 128
	m := log10Float(toFloat(x.Abs(), prec))
	return m.Mul(m, toFloat(y, prec))
}

// exactLog10 returns k if |x| is exactly 10^k.
func exactLog10(x decimal.Decimal) (int64, bool) {
	k := adjExp(x)
	if k > 1<<30 || k < -1<<30 {
		return 0, false
	}
	return k, x.Equal(decimal.New(1, int32(k)))
}
