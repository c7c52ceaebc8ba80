package scicalc

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind

	name string
	fn   function

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // push num
	nodeCall // evaluate left, apply fn

	nodeNeg     // evaluate left, then negate
	nodeNop     // evaluate left
	nodeAdd     // evaluate left, add right
	nodeSub     // evaluate left, sub right
	nodeMul     // evaluate left, mul right
	nodeDiv     // evaluate left, div by right
	nodeMod     // evaluate left, mod by right
	nodePow     // evaluate left, exp by right
	nodeFact    // evaluate left, factorial
	nodePercent // evaluate left, div by 100
)

func (k nodeKind) String() string {
	switch k {
	case nodeNone:
		return "None"
	case nodeNum:
		return "Num"
	case nodeCall:
		return "Call"
	case nodeNeg:
		return "Neg"
	case nodeNop:
		return "Nop"
	case nodeAdd:
		return "Add"
	case nodeSub:
		return "Sub"
	case nodeMul:
		return "Mul"
	case nodeDiv:
		return "Div"
	case nodeMod:
		return "Mod"
	case nodePow:
		return "Pow"
	case nodeFact:
		return "Fact"
	case nodePercent:
		return "Percent"
	default:
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

// fmt writes the node with alternating round and square brackets around each
// term.
func (n *node) fmt(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
	case nodeNum:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		n.left.fmt(b, !square)
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b, !square)
	case nodeNop:
		b.WriteByte('+')
		n.left.fmt(b, !square)
	case nodeAdd:
		n.binfmt(b, square, " + ")
	case nodeSub:
		n.binfmt(b, square, " - ")
	case nodeMul:
		n.binfmt(b, square, " × ")
	case nodeDiv:
		n.binfmt(b, square, " ÷ ")
	case nodeMod:
		n.binfmt(b, square, " # ")
	case nodePow:
		n.binfmt(b, square, " ^ ")
	case nodeFact:
		n.left.fmt(b, !square)
		b.WriteByte('!')
	case nodePercent:
		n.left.fmt(b, !square)
		b.WriteByte('%')
	default:
		panic("scicalc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

func (n *node) binfmt(b *strings.Builder, square bool, op string) {
	n.left.fmt(b, !square)
	b.WriteString(op)
	n.right.fmt(b, !square)
}
