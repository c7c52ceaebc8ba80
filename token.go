package scicalc

import "strconv"

// TokenKind classifies a Token of raw display text.
type TokenKind int

const (
	// Unknown is text the normalizer does not recognize. It is passed through
	// so that evaluation reports a syntax error.
	Unknown TokenKind = iota
	// Number is a decimal literal.
	Number
	// Operator is a binary or unary operator: + - * / ^ #.
	Operator
	// PostfixOp is a postfix operator: ! or %.
	PostfixOp
	// Function is a function name, including inverse trigonometric glyphs.
	Function
	// Constant is π or e.
	Constant
	// LeftParen is an open parenthesis.
	LeftParen
	// RightParen is a close parenthesis.
	RightParen
)

func (k TokenKind) String() string {
	switch k {
	case Unknown:
		return "Unknown"
	case Number:
		return "Number"
	case Operator:
		return "Operator"
	case PostfixOp:
		return "Postfix"
	case Function:
		return "Function"
	case Constant:
		return "Constant"
	case LeftParen:
		return "LeftParen"
	case RightParen:
		return "RightParen"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Token is a lexical element of raw display text.
type Token struct {
	Kind TokenKind
	// Raw is the text of the token as it appears in the input.
	Raw string
	// Symbol is the canonical form of the token: a number with . as the
	// decimal point, an ASCII operator, a canonical function name, or "π"
	// or "e" for constants.
	Symbol string
	// Pos is the 0-based rune offset of the token in the input.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Symbol + "@" + strconv.Itoa(t.Pos)
}

// endsValue reports whether the token can end an operand.
func (t Token) endsValue() bool {
	switch t.Kind {
	case Number, Constant, RightParen, PostfixOp:
		return true
	}
	return false
}

// startsValue reports whether the token can begin an operand.
func (t Token) startsValue() bool {
	switch t.Kind {
	case Number, Constant, Function, LeftParen:
		return true
	}
	return false
}
