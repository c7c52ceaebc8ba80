package scicalc

import (
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/zephyrtronium/bigfloat"
)

// function is a real function of one argument. It must return either a value
// already bounded by the evaluator or an *Error.
type function func(ev *evaluator, x decimal.Decimal) (decimal.Decimal, error)

var builtins = map[string]function{
	"sin":  (*evaluator).sin,
	"cos":  (*evaluator).cos,
	"tan":  (*evaluator).tan,
	"asin": (*evaluator).asin,
	"acos": (*evaluator).acos,
	"atan": (*evaluator).atan,
	"ln":   (*evaluator).ln,
	"log":  (*evaluator).log,
	"exp":  (*evaluator).exp,
	"sqrt": (*evaluator).sqrt,
}

// lookupFunc returns the builtin function with the given canonical name, or
// nil if there is none.
func lookupFunc(name string) function {
	return builtins[name]
}

var (
	deg90  = decimal.NewFromInt(90)
	deg180 = decimal.NewFromInt(180)
	deg360 = decimal.NewFromInt(360)
	half   = decimal.New(5, -1)
)

// wrapDeg reduces x to [0, period).
func wrapDeg(x, period decimal.Decimal) decimal.Decimal {
	r := x.Mod(period)
	if r.Sign() < 0 {
		r = r.Add(period)
	}
	return r
}

// exactSinDeg returns sin x for angles in degrees whose sine is rational.
func exactSinDeg(x decimal.Decimal) (decimal.Decimal, bool) {
	r := wrapDeg(x, deg360)
	if !r.IsInteger() {
		return decimal.Zero, false
	}
	switch r.IntPart() {
	case 0, 180:
		return decimal.Zero, true
	case 90:
		return one, true
	case 270:
		return one.Neg(), true
	case 30, 150:
		return half, true
	case 210, 330:
		return half.Neg(), true
	}
	return decimal.Zero, false
}

// radians converts the argument of a trigonometric function to radians
// according to the angle mode.
func (ev *evaluator) radians(x decimal.Decimal) *big.Float {
	p := ev.prec + trigGuard
	f := toFloat(x, p)
	if ev.ctx.Angle == Degrees {
		f.Mul(f, piFloat(p))
		f.Quo(f, toFloat(deg180, p))
	}
	return f
}

// angle converts the result of an inverse trigonometric function from radians
// according to the angle mode.
func (ev *evaluator) angle(f *big.Float) (decimal.Decimal, error) {
	if ev.ctx.Angle == Degrees {
		p := f.Prec()
		f.Mul(f, toFloat(deg180, p))
		f.Quo(f, piFloat(p))
	}
	return ev.bound(fromFloat(f, ev.digits))
}

func (ev *evaluator) sin(x decimal.Decimal) (decimal.Decimal, error) {
	if ev.ctx.Angle == Degrees {
		if v, ok := exactSinDeg(x); ok {
			return v, nil
		}
	}
	return ev.bound(fromFloat(sinFloat(ev.radians(x), ev.prec), ev.digits))
}

func (ev *evaluator) cos(x decimal.Decimal) (decimal.Decimal, error) {
	if ev.ctx.Angle == Degrees {
		if v, ok := exactSinDeg(x.Add(deg90)); ok {
			return v, nil
		}
	}
	return ev.bound(fromFloat(cosFloat(ev.radians(x), ev.prec), ev.digits))
}

func (ev *evaluator) tan(x decimal.Decimal) (decimal.Decimal, error) {
	if ev.ctx.Angle == Degrees {
		r := wrapDeg(x, deg180)
		if r.IsInteger() {
			switch r.IntPart() {
			case 0:
				return decimal.Zero, nil
			case 45:
				return one, nil
			case 90:
				return decimal.Zero, domainError("tan", x)
			case 135:
				return one.Neg(), nil
			}
		}
	}
	f := ev.radians(x)
	s := sinFloat(f, ev.prec+trigGuard)
	c := cosFloat(f, ev.prec+trigGuard)
	if c.Sign() == 0 {
		return decimal.Zero, domainError("tan", x)
	}
	return ev.bound(fromFloat(s.Quo(s, c), ev.digits))
}

// exactInverseDeg holds inverse trigonometric results in degrees for the
// arguments where they are integers.
var exactInverseDeg = map[string]map[string]int64{
	"asin": {"0": 0, "1": 90, "-1": -90, "0.5": 30, "-0.5": -30},
	"acos": {"1": 0, "0": 90, "-1": 180, "0.5": 60, "-0.5": 120},
	"atan": {"0": 0, "1": 45, "-1": -45},
}

func (ev *evaluator) inverse(name string, x decimal.Decimal, f func(*big.Float, uint) *big.Float) (decimal.Decimal, error) {
	if ev.ctx.Angle == Degrees {
		if v, ok := exactInverseDeg[name][x.String()]; ok {
			return decimal.NewFromInt(v), nil
		}
	}
	return ev.angle(f(toFloat(x, ev.prec+trigGuard), ev.prec+trigGuard))
}

func (ev *evaluator) asin(x decimal.Decimal) (decimal.Decimal, error) {
	if x.Abs().GreaterThan(one) {
		return decimal.Zero, domainError("asin", x)
	}
	return ev.inverse("asin", x, asinFloat)
}

func (ev *evaluator) acos(x decimal.Decimal) (decimal.Decimal, error) {
	if x.Abs().GreaterThan(one) {
		return decimal.Zero, domainError("acos", x)
	}
	return ev.inverse("acos", x, acosFloat)
}

func (ev *evaluator) atan(x decimal.Decimal) (decimal.Decimal, error) {
	return ev.inverse("atan", x, atanFloat)
}

func (ev *evaluator) ln(x decimal.Decimal) (decimal.Decimal, error) {
	switch x.Sign() {
	case -1:
		return decimal.Zero, domainError("ln", x)
	case 0:
		return decimal.Zero, infinity(true)
	}
	z := new(big.Float).SetPrec(ev.prec)
	bigfloat.Log(z, toFloat(x, ev.prec))
	return ev.bound(fromFloat(z, ev.digits))
}

func (ev *evaluator) log(x decimal.Decimal) (decimal.Decimal, error) {
	switch x.Sign() {
	case -1:
		return decimal.Zero, domainError("log", x)
	case 0:
		return decimal.Zero, infinity(true)
	}
	if k, ok := exactLog10(x); ok {
		return decimal.NewFromInt(k), nil
	}
	return ev.bound(fromFloat(log10Float(toFloat(x, ev.prec)), ev.digits))
}

func (ev *evaluator) exp(x decimal.Decimal) (decimal.Decimal, error) {
	switch {
	case x.GreaterThan(expLimit):
		return decimal.Zero, infinity(false)
	case x.LessThan(expLimit.Neg()):
		return decimal.Zero, nil
	case x.IsZero():
		return one, nil
	}
	z := new(big.Float).SetPrec(ev.prec)
	bigfloat.Exp(z, toFloat(x, ev.prec))
	return ev.bound(fromFloat(z, ev.digits))
}

func (ev *evaluator) sqrt(x decimal.Decimal) (decimal.Decimal, error) {
	switch x.Sign() {
	case -1:
		return decimal.Zero, domainError("√", x)
	case 0:
		return decimal.Zero, nil
	}
	z := new(big.Float).SetPrec(ev.prec)
	z.Sqrt(toFloat(x, ev.prec))
	return ev.bound(fromFloat(z, ev.digits))
}
