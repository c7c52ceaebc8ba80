package scicalc

import "strconv"

// OperatorError is an error indicating an operator token that is not
// understood by the parser in its position. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
	// Postfix is whether the operator is a postfix operator with no operand.
	Postfix bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	switch {
	case err.Postfix:
		return errpos(err.Col, "postfix operator "+strconv.Quote(err.Operator)+" has no operand")
	case err.Unary:
		s = "unary"
	}
	return errpos(err.Col, "unknown "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// OperandError is an error indicating an operator with a missing operand, as
// in "2+)". It implements InputError.
type OperandError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the operator missing an operand.
	Operator string
}

func (err *OperandError) Error() string {
	return errpos(err.Col, "missing operand for "+strconv.Quote(err.Operator))
}

func (err *OperandError) Pos() int {
	return err.Col
}

// BracketError is an error indicating mismatched parentheses in the input. It
// implements InputError.
type BracketError struct {
	// Col is the position of the offending token.
	Col int
	// Open is true when an open parenthesis was never closed and false when
	// a close parenthesis had no open parenthesis.
	Open bool
}

func (err *BracketError) Error() string {
	if err.Open {
		return errpos(err.Col, "open bracket ( with no close bracket")
	}
	return errpos(err.Col, "close bracket ) with no open bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// CallError is an error indicating a function call without an argument. It
// implements InputError.
type CallError struct {
	// Col is the position of the token following the function name.
	Col int
	// Func is the function name that was called.
	Func string
}

func (err *CallError) Error() string {
	return errpos(err.Col, "missing argument to "+err.Func)
}

func (err *CallError) Pos() int {
	return err.Col
}

// NameError is an error indicating an identifier that is not a known
// function. It implements InputError.
type NameError struct {
	// Col is the position of the identifier.
	Col int
	// Name is the unknown identifier.
	Name string
}

func (err *NameError) Error() string {
	return errpos(err.Col, "unknown function "+strconv.Quote(err.Name))
}

func (err *NameError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an empty subexpression.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// DepthError is an error indicating subexpressions nested deeper than the
// parser allows.
type DepthError struct {
	// Col is the position at which the limit was exceeded.
	Col int
	// Depth is the limit.
	Depth int
}

func (err *DepthError) Error() string {
	return errpos(err.Col, "expression nested deeper than "+strconv.Itoa(err.Depth))
}

func (err *DepthError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*OperandError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*NameError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*DepthError)(nil)
	_ InputError = (*LexError)(nil)
)
