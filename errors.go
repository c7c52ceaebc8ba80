package scicalc

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Kind classifies why an expression has no value.
type Kind int

const (
	// KindNone is the kind of a nil error.
	KindNone Kind = iota
	// Syntax is a malformed token sequence.
	Syntax
	// Domain is an argument outside a function's domain.
	Domain
	// DivisionByZero is a division or modulo by exactly zero.
	DivisionByZero
	// Infinity is a magnitude at or beyond 10^MaxExponent.
	Infinity
	// RequireRealNumber is a result that would be complex.
	RequireRealNumber
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case Syntax:
		return "syntax_error"
	case Domain:
		return "domain_error"
	case DivisionByZero:
		return "division_by_0"
	case Infinity:
		return "is_infinity"
	case RequireRealNumber:
		return "require_real_number"
	default:
		return "unknown"
	}
}

// Error is the error returned for any expression that does not evaluate to a
// number. Exactly one Kind describes it.
type Error struct {
	// Kind is the classification of the error.
	Kind Kind
	// Negative is set for Infinity errors whose value is negative.
	Negative bool
	// Err is the underlying cause, if any. Syntax errors wrap an InputError.
	Err error
}

func (err *Error) Error() string {
	s := err.Kind.String()
	if err.Kind == Infinity && err.Negative {
		s = "-" + s
	}
	if err.Err != nil {
		s += ": " + err.Err.Error()
	}
	return s
}

func (err *Error) Unwrap() error {
	return err.Err
}

// Message returns the text to show a user in place of a result.
func (err *Error) Message() string {
	switch err.Kind {
	case Syntax:
		return "Syntax error"
	case Domain:
		return "Domain error"
	case DivisionByZero:
		return "Division by zero"
	case Infinity:
		if err.Negative {
			return "-∞"
		}
		return "∞"
	case RequireRealNumber:
		return "Requires real number"
	default:
		return "Error"
	}
}

// KindOf returns the classification of err. Errors that are not *Error are
// classified as Syntax, and nil is KindNone.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Syntax
}

// DomainError describes a function applied to an argument outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X decimal.Decimal
	// Func is a name identifying the function.
	Func string
}

func (err *DomainError) Error() string {
	r := err.X.String() + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	return r
}

func syntaxError(err error) *Error {
	return &Error{Kind: Syntax, Err: err}
}

func domainError(fn string, x decimal.Decimal) *Error {
	return &Error{Kind: Domain, Err: &DomainError{X: x, Func: fn}}
}

func divisionByZero(msg string) *Error {
	return &Error{Kind: DivisionByZero, Err: errors.New(msg)}
}

func infinity(neg bool) *Error {
	return &Error{Kind: Infinity, Negative: neg}
}

func requireReal(fn string, x decimal.Decimal) *Error {
	return &Error{Kind: RequireRealNumber, Err: &DomainError{X: x, Func: fn}}
}
