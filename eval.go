package scicalc

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/zephyrtronium/bigfloat"
)

// Result is the value of an evaluated expression.
type Result struct {
	// Value is the result rounded half-even to Precision decimal places.
	Value decimal.Decimal
	// Exact is the result at working precision, suitable for further
	// computation.
	Exact decimal.Decimal
	// Precision is the number of decimal places used to round Value.
	Precision int32
}

// String returns Value with trailing zeros removed.
func (r Result) String() string {
	return r.Value.String()
}

// evaluator holds the state of a single evaluation.
type evaluator struct {
	ctx    Context
	digits int32
	prec   uint
	stack  []decimal.Decimal
}

func newEvaluator(ctx Context) *evaluator {
	d := ctx.digits()
	return &evaluator{
		ctx:    ctx,
		digits: d,
		prec:   floatPrec(d),
		stack:  make([]decimal.Decimal, 0, 8),
	}
}

// Eval evaluates the expression under ctx. If the expression has no value, the
// error is an *Error describing why.
func (e *Expr) Eval(ctx Context) (r Result, err error) {
	defer func() {
		x := recover()
		if x == nil {
			return
		}
		// A kernel outside its domain panics with big.ErrNaN. Anything
		// else is a bug.
		var nan big.ErrNaN
		if xe, ok := x.(error); ok && errors.As(xe, &nan) {
			r, err = Result{}, &Error{Kind: Domain, Err: xe}
			return
		}
		panic(x)
	}()
	ev := newEvaluator(ctx)
	if err := e.n.eval(ev); err != nil {
		return Result{}, err
	}
	if len(ev.stack) != 1 {
		panic("scicalc: inconsistent stack after evaluation (bad AST?)")
	}
	v := ev.stack[0]
	p := ctx.precision()
	return Result{Value: v.RoundBank(p), Exact: v, Precision: p}, nil
}

// Evaluate parses and evaluates a canonical expression, as produced by
// Normalize. Every input results in either a value or an *Error.
func Evaluate(canonical string, ctx Context) (Result, error) {
	a, err := ParseString(canonical)
	if err != nil {
		return Result{}, syntaxError(err)
	}
	return a.Eval(ctx)
}

// Calculate normalizes raw display text and evaluates it.
func Calculate(raw string, sep Separators, ctx Context) (Result, error) {
	return Evaluate(Normalize(raw, sep, ctx), ctx)
}

func (ev *evaluator) push(v decimal.Decimal) {
	ev.stack = append(ev.stack, v)
}

// pop removes the top from the stack and returns it.
func (ev *evaluator) pop() decimal.Decimal {
	r := ev.stack[len(ev.stack)-1]
	ev.stack = ev.stack[:len(ev.stack)-1]
	return r
}

// pop2 removes the top two values and returns them in push order.
func (ev *evaluator) pop2() (l, r decimal.Decimal) {
	r = ev.pop()
	l = ev.pop()
	return l, r
}

// bound enforces the representable range on v and rounds it to the working
// precision.
func (ev *evaluator) bound(v decimal.Decimal) (decimal.Decimal, error) {
	if v.IsZero() {
		return decimal.Zero, nil
	}
	e := adjExp(v)
	if e >= MaxExponent {
		return decimal.Zero, infinity(v.Sign() < 0)
	}
	if e < -MaxExponent {
		return decimal.Zero, nil
	}
	return roundSig(v, ev.digits), nil
}

// eval pushes the node's value to the evaluator's stack.
func (n *node) eval(ev *evaluator) error {
	var v decimal.Decimal
	var err error
	switch n.kind {
	case nodeNum:
		v, err = parseNum(n.name)
		if err == nil {
			v, err = ev.bound(v)
		}
	case nodeCall:
		if err := n.left.eval(ev); err != nil {
			return err
		}
		v, err = n.fn(ev, ev.pop())
	case nodeNeg:
		if err := n.left.eval(ev); err != nil {
			return signed(err, true)
		}
		v = ev.pop().Neg()
	case nodeNop:
		return n.left.eval(ev)
	case nodeFact:
		if err := n.left.eval(ev); err != nil {
			return err
		}
		v, err = ev.factorial(ev.pop())
	case nodePercent:
		if err := n.left.eval(ev); err != nil {
			return err
		}
		v, err = ev.bound(ev.pop().Shift(-2))
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		if err := n.left.eval(ev); err != nil {
			// The first error wins, but a finite right operand still
			// decides the sign of an infinite product or quotient.
			if (n.kind == nodeMul || n.kind == nodeDiv) && n.right.eval(ev) == nil {
				return signed(err, ev.pop().Sign() < 0)
			}
			return err
		}
		if err := n.right.eval(ev); err != nil {
			switch n.kind {
			case nodeSub:
				return signed(err, true)
			case nodeMul, nodeDiv, nodeMod:
				return signed(err, ev.stack[len(ev.stack)-1].Sign() < 0)
			}
			return err
		}
		l, r := ev.pop2()
		v, err = ev.binary(n.kind, l, r)
	default:
		panic("scicalc: invalid AST node " + n.kind.String())
	}
	if err != nil {
		return err
	}
	ev.push(v)
	return nil
}

// signed flips the sign of an Infinity error when flip is set. Other errors
// are returned unchanged.
func signed(err error, flip bool) error {
	var e *Error
	if flip && errors.As(err, &e) && e.Kind == Infinity {
		return infinity(!e.Negative)
	}
	return err
}

func (ev *evaluator) binary(op nodeKind, l, r decimal.Decimal) (decimal.Decimal, error) {
	switch op {
	case nodeAdd:
		return ev.bound(l.Add(r))
	case nodeSub:
		return ev.bound(l.Sub(r))
	case nodeMul:
		return ev.bound(l.Mul(r))
	case nodeDiv:
		if r.IsZero() {
			return decimal.Zero, divisionByZero("division by zero")
		}
		if l.IsZero() {
			return decimal.Zero, nil
		}
		if adjExp(l)-adjExp(r) > MaxExponent {
			return decimal.Zero, infinity(l.Sign() != r.Sign())
		}
		return ev.bound(quo(l, r, ev.digits))
	case nodeMod:
		if r.IsZero() {
			return decimal.Zero, divisionByZero("modulo by zero")
		}
		return ev.bound(l.Mod(r))
	case nodePow:
		return ev.pow(l, r)
	default:
		panic("scicalc: invalid binary operator " + op.String())
	}
}

// pow computes x^y. A negative base requires an integer exponent; the exponent
// counts as an integer only if it has no fractional digits at working
// precision.
func (ev *evaluator) pow(x, y decimal.Decimal) (decimal.Decimal, error) {
	switch {
	case y.IsZero():
		return one, nil
	case x.IsZero():
		if y.Sign() < 0 {
			return decimal.Zero, divisionByZero("zero to a negative power")
		}
		return decimal.Zero, nil
	}
	integer := y.IsInteger()
	if x.Sign() < 0 && !integer {
		return decimal.Zero, requireReal("^", y)
	}
	neg := x.Sign() < 0 && isOdd(y)
	m := powMagnitude(x, y)
	if m.Cmp(new(big.Float).SetInt64(MaxExponent)) >= 0 {
		return decimal.Zero, infinity(neg)
	}
	if m.Cmp(new(big.Float).SetInt64(-MaxExponent-1)) < 0 {
		return decimal.Zero, nil
	}
	if integer && y.Abs().LessThanOrEqual(maxIntPow) {
		return ev.powInt(x, y.IntPart())
	}
	z := new(big.Float).SetPrec(ev.prec)
	bigfloat.Pow(z, toFloat(x.Abs(), ev.prec), toFloat(y, ev.prec))
	v := fromFloat(z, ev.digits)
	if neg {
		v = v.Neg()
	}
	return ev.bound(v)
}

// powInt computes x^n by repeated squaring. The caller has checked that the
// result is in range.
func (ev *evaluator) powInt(x decimal.Decimal, n int64) (decimal.Decimal, error) {
	inv := n < 0
	if inv {
		n = -n
	}
	r, b := one, x
	for n > 0 {
		if n&1 == 1 {
			r = roundSig(r.Mul(b), ev.digits)
		}
		n >>= 1
		if n > 0 {
			b = roundSig(b.Mul(b), ev.digits)
		}
	}
	if inv {
		r = quo(one, r, ev.digits)
	}
	return ev.bound(r)
}

// factorial computes x! for non-negative integers.
func (ev *evaluator) factorial(x decimal.Decimal) (decimal.Decimal, error) {
	if !x.IsInteger() || x.Sign() < 0 {
		return decimal.Zero, domainError("!", x)
	}
	if x.GreaterThan(maxFactorial) {
		return decimal.Zero, infinity(false)
	}
	n := x.IntPart()
	r := big.NewInt(1)
	k := new(big.Int)
	for i := int64(2); i <= n; i++ {
		r.Mul(r, k.SetInt64(i))
	}
	return ev.bound(decimal.NewFromBigInt(r, 0))
}
