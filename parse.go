package scicalc

import (
	"io"
	"strings"
)

// Expr = num | Call | Neg | Plus | Add | Sub | Mul | Div | Mod | Pow | Fact | Percent | '(' Expr ')'
// Call = funcname Expr | funcname '(' Expr ')'
// Neg = '-' Expr
// Plus = '+' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr | Expr Expr
// Div = Expr '/' Expr
// Mod = Expr '#' Expr
// Pow = Expr '^' Expr
// Fact = Expr '!'
// Percent = Expr '%'

// MaxDepth is the deepest nesting of subexpressions the parser accepts.
const MaxDepth = 256

// Expr is a parsed expression that can be evaluated.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// parsectx holds general data for parsing.
type parsectx struct {
	// depth is the current nesting of parseterm calls.
	depth int
}

// Parse parses a canonical expression so it can be evaluated.
func Parse(src io.RuneScanner) (*Expr, error) {
	scan := lex(src)
	var p parsectx
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	tok := scan.must()
	if tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, false)
	}
	if n == nil {
		return nil, &EmptyExpressionError{Col: tok.pos}
	}
	return &Expr{n: n}, nil
}

// ParseString is a shortcut to parse a string expression.
func ParseString(src string) (*Expr, error) {
	return Parse(strings.NewReader(src))
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	return e.n.String()
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, including EOF. If the input is an empty
// subexpression, the result is nil with no error; callers must create an error
// in contexts where empty subexpressions are illegal.
func parseterm(scan *lexer, p *parsectx, until operator) (*node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxDepth {
		return nil, &DepthError{Col: scan.rune, Depth: MaxDepth}
	}
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenNum, tokenIdent:
			// (parsed) x -> (parsed) * (x)
			scan.push(tok)
			prec := termprec
			if !prec.moreBinding(until) {
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: nodeMul, left: n, right: rhs}
		case tokenOp:
			// Binary operator.
			prec := binop(tok.text)
			if prec.op == nodeNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				return nil, &OperandError{Col: tok.pos, Operator: tok.text}
			}
			n = &node{kind: prec.op, left: n, right: rhs}
		case tokenOpen:
			// 2 (expr) -> (2) * (expr).
			prec := termprec
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parsegroup(scan, p)
			if err != nil {
				return nil, err
			}
			n = &node{kind: nodeMul, left: n, right: rhs}
		case tokenPostfix:
			// Postfix operators are consumed with their operand, so one here
			// follows something that cannot take it, like a unary operator.
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Postfix: true}
		case tokenClose, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		default:
			panic("scicalc: unknown token: " + tok.String())
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary and
// any encountered token must be valid as the start of a subexpression.
func parselhs(scan *lexer, p *parsectx, until operator) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	var n *node
	switch tok.kind {
	case tokenNum:
		n = &node{kind: nodeNum, name: tok.text}
	case tokenIdent:
		fn := lookupFunc(tok.text)
		if fn == nil {
			return nil, &NameError{Col: tok.pos, Name: tok.text}
		}
		arg, err := parsecall(scan, p, until, tok)
		if err != nil {
			return nil, err
		}
		n = &node{kind: nodeCall, name: tok.text, fn: fn, left: arg}
	case tokenOp:
		// unary operator
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			return nil, &OperandError{Col: tok.pos, Operator: tok.text}
		}
		// Postfix operators were already taken by the operand.
		return &node{kind: prec.op, left: rhs}, nil
	case tokenOpen:
		scan.push(tok)
		n, err = parsegroup(scan, p)
		if err != nil {
			return nil, err
		}
		return n, nil
	case tokenClose:
		// Let the caller decide what to do with an empty subexpression.
		scan.push(tok)
		return nil, nil
	case tokenPostfix:
		return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Postfix: true}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos}
	default:
		panic("scicalc: unknown token: " + tok.String())
	}
	return parsepostfix(scan, n)
}

// parsegroup parses a parenthesized subexpression and any postfix operators
// following it.
func parsegroup(scan *lexer, p *parsectx) (*node, error) {
	open, err := scan.next()
	if err != nil {
		return nil, err
	}
	if open.kind != tokenOpen {
		panic("scicalc: parsegroup on " + open.String())
	}
	n, err := parseterm(scan, p, exprprec)
	if err != nil {
		return nil, err
	}
	end := scan.must()
	if end.kind != tokenClose {
		return nil, itShouldNotHaveEndedThisWay(end, true)
	}
	if n == nil {
		return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
	}
	return parsepostfix(scan, n)
}

// parsepostfix applies any postfix operators following an operand.
func parsepostfix(scan *lexer, n *node) (*node, error) {
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch {
		case tok.kind == tokenPostfix && tok.text == "!":
			n = &node{kind: nodeFact, left: n}
		case tok.kind == tokenPostfix && tok.text == "%":
			n = &node{kind: nodePercent, left: n}
		default:
			scan.push(tok)
			return n, nil
		}
	}
}

// parsecall parses the argument to a call of a function. The argument may be
// parenthesized, as in sin(x), or a bare term, as in sqrt 4.
func parsecall(scan *lexer, p *parsectx, until operator, name lexToken) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenOpen:
		scan.push(tok)
		return parsegroupArg(scan, p, name)
	case tokenNum, tokenIdent, tokenOp:
		// Single bare argument. sqrt 4 -> sqrt(4)
		scan.push(tok)
		if termprec.moreBinding(until) {
			until = termprec
		}
		rhs, err := parseterm(scan, p, until)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			return nil, &CallError{Col: tok.pos, Func: name.text}
		}
		return rhs, nil
	default:
		return nil, &CallError{Col: tok.pos, Func: name.text}
	}
}

// parsegroupArg parses a parenthesized function argument. Unlike parsegroup,
// postfix operators after the closing parenthesis apply to the call, so they
// are left for the caller.
func parsegroupArg(scan *lexer, p *parsectx, name lexToken) (*node, error) {
	if _, err := scan.next(); err != nil {
		return nil, err
	}
	n, err := parseterm(scan, p, exprprec)
	if err != nil {
		return nil, err
	}
	end := scan.must()
	if end.kind != tokenClose {
		return nil, itShouldNotHaveEndedThisWay(end, true)
	}
	if n == nil {
		return nil, &CallError{Col: end.pos, Func: name.text}
	}
	return n, nil
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. open is whether the subexpression began
// with an open parenthesis.
func itShouldNotHaveEndedThisWay(tok lexToken, open bool) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Open: true}
	case tokenClose:
		if open {
			panic("scicalc: close bracket reported as mismatched inside a group")
		}
		return &BracketError{Col: tok.pos, Open: false}
	default:
		panic("scicalc: it really should not have ended this way: " + tok.String())
	}
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	case "#":
		return operator{5, false, nodeMod}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{10, true, nodeNop}
	case "-":
		return operator{10, true, nodeNeg}
	default:
		return operator{}
	}
}

var (
	// termprec is the default precedence for parsing terms. Its prec
	// should match that of multiplication.
	termprec = operator{5, true, nodeMul}
	// exprprec is the precedence required to parse an entire subexpression.
	exprprec = operator{-128, true, nodeNone}
)
