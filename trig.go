package scicalc

import "math/big"

// Trigonometric kernels on big.Float. Arguments are in radians. Each kernel
// computes at a few bits more than prec and rounds the result to prec.

const trigGuard = 16

// small reports whether adding term to sum no longer changes sum at prec
// bits.
func small(term, sum *big.Float, prec uint) bool {
	if term.Sign() == 0 {
		return true
	}
	if sum.Sign() == 0 {
		return false
	}
	return term.MantExp(nil) < sum.MantExp(nil)-int(prec)-2
}

// reduce returns r and q such that x = k·π/2 + r with |r| ≤ π/4 and
// q = k mod 4.
func reduce(x *big.Float, prec uint) (*big.Float, int) {
	p := prec + trigGuard
	if e := x.MantExp(nil); e > 0 {
		// Large arguments need π to more bits to keep r accurate.
		p += uint(e)
	}
	halfPi := piFloat(p)
	halfPi.SetMantExp(halfPi, -1)
	xf := new(big.Float).SetPrec(p).Set(x)
	k := new(big.Float).SetPrec(p).Quo(xf, halfPi)
	half := big.NewFloat(0.5)
	if k.Signbit() {
		k.Sub(k, half)
	} else {
		k.Add(k, half)
	}
	ki, _ := k.Int(nil)
	r := new(big.Float).SetPrec(p).SetInt(ki)
	r.Mul(r, halfPi)
	r.Sub(xf, r)
	q := int(new(big.Int).Mod(ki, big.NewInt(4)).Int64())
	return r.SetPrec(prec + trigGuard), q
}

func sinSeries(x *big.Float) *big.Float {
	prec := x.Prec()
	x2 := new(big.Float).SetPrec(prec).Mul(x, x)
	term := new(big.Float).SetPrec(prec).Set(x)
	sum := new(big.Float).SetPrec(prec).Set(x)
	d := new(big.Float).SetPrec(prec)
	for i := int64(1); ; i++ {
		term.Mul(term, x2)
		term.Quo(term, d.SetInt64((2*i)*(2*i+1)))
		term.Neg(term)
		if small(term, sum, prec) {
			return sum
		}
		sum.Add(sum, term)
	}
}

func cosSeries(x *big.Float) *big.Float {
	prec := x.Prec()
	x2 := new(big.Float).SetPrec(prec).Mul(x, x)
	term := new(big.Float).SetPrec(prec).SetInt64(1)
	sum := new(big.Float).SetPrec(prec).SetInt64(1)
	d := new(big.Float).SetPrec(prec)
	for i := int64(1); ; i++ {
		term.Mul(term, x2)
		term.Quo(term, d.SetInt64((2*i-1)*(2*i)))
		term.Neg(term)
		if small(term, sum, prec) {
			return sum
		}
		sum.Add(sum, term)
	}
}

// sinFloat computes sin x to prec bits.
func sinFloat(x *big.Float, prec uint) *big.Float {
	r, q := reduce(x, prec)
	var z *big.Float
	switch q {
	case 0:
		z = sinSeries(r)
	case 1:
		z = cosSeries(r)
	case 2:
		z = sinSeries(r)
		z.Neg(z)
	default:
		z = cosSeries(r)
		z.Neg(z)
	}
	return z.SetPrec(prec)
}

// cosFloat computes cos x to prec bits.
func cosFloat(x *big.Float, prec uint) *big.Float {
	r, q := reduce(x, prec)
	var z *big.Float
	switch q {
	case 0:
		z = cosSeries(r)
	case 1:
		z = sinSeries(r)
		z.Neg(z)
	case 2:
		z = cosSeries(r)
		z.Neg(z)
	default:
		z = sinSeries(r)
	}
	return z.SetPrec(prec)
}

// atanFloat computes atan x to prec bits.
func atanFloat(x *big.Float, prec uint) *big.Float {
	p := prec + trigGuard
	one := new(big.Float).SetPrec(p).SetInt64(1)
	a := new(big.Float).SetPrec(p).Abs(x)
	inverted := a.Cmp(one) > 0
	if inverted {
		a.Quo(one, a)
	}
	// atan a = 2 atan(a / (1 + sqrt(1 + a²))). Twice brings a below 0.2.
	t := new(big.Float).SetPrec(p)
	for i := 0; i < 2; i++ {
		t.Mul(a, a)
		t.Add(t, one)
		t.Sqrt(t)
		t.Add(t, one)
		a.Quo(a, t)
	}
	a2 := new(big.Float).SetPrec(p).Mul(a, a)
	pow := new(big.Float).SetPrec(p).Set(a)
	sum := new(big.Float).SetPrec(p).Set(a)
	term := new(big.Float).SetPrec(p)
	d := new(big.Float).SetPrec(p)
	for k := int64(1); ; k++ {
		pow.Mul(pow, a2)
		pow.Neg(pow)
		term.Quo(pow, d.SetInt64(2*k+1))
		if small(term, sum, p) {
			break
		}
		sum.Add(sum, term)
	}
	sum.SetMantExp(sum, 2)
	if inverted {
		halfPi := piFloat(p)
		halfPi.SetMantExp(halfPi, -1)
		sum.Sub(halfPi, sum)
	}
	if x.Signbit() {
		sum.Neg(sum)
	}
	return sum.SetPrec(prec)
}

// asinFloat computes asin x to prec bits for |x| ≤ 1.
func asinFloat(x *big.Float, prec uint) *big.Float {
	p := prec + trigGuard
	one := new(big.Float).SetPrec(p).SetInt64(1)
	a := new(big.Float).SetPrec(p).Abs(x)
	if a.Cmp(one) == 0 {
		halfPi := piFloat(p)
		halfPi.SetMantExp(halfPi, -1)
		if x.Signbit() {
			halfPi.Neg(halfPi)
		}
		return halfPi.SetPrec(prec)
	}
	// asin x = atan(x / sqrt(1 - x²))
	t := new(big.Float).SetPrec(p).Mul(x, x)
	t.Sub(one, t)
	t.Sqrt(t)
	t.Quo(new(big.Float).SetPrec(p).Set(x), t)
	return atanFloat(t, prec)
}

// acosFloat computes acos x to prec bits for |x| ≤ 1.
func acosFloat(x *big.Float, prec uint) *big.Float {
	p := prec + trigGuard
	halfPi := piFloat(p)
	halfPi.SetMantExp(halfPi, -1)
	z := asinFloat(x, p)
	z.Sub(halfPi, z)
	return z.SetPrec(prec)
}
