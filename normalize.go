package scicalc

import (
	"strings"
	"unicode"
)

// identifiers are the letter sequences the normalizer recognizes, longest
// first so that "exp" is not read as e followed by xp.
var identifiers = []struct {
	name string
	kind TokenKind
}{
	{"asin", Function},
	{"acos", Function},
	{"atan", Function},
	{"sqrt", Function},
	{"sin", Function},
	{"cos", Function},
	{"tan", Function},
	{"exp", Function},
	{"log", Function},
	{"ln", Function},
	{"pi", Constant},
	{"e", Constant},
}

// inverses maps function names to the name used in inverse mode.
var inverses = map[string]string{
	"sin": "asin",
	"cos": "acos",
	"tan": "atan",
	"ln":  "exp",
}

// superscripts are exponent glyphs and their canonical form.
var superscripts = map[rune]string{
	'²': "2",
	'³': "3",
}

const inverseMark = "⁻¹"

// Tokenize splits raw display text into tokens. Grouping separators are
// dropped and decimal separators become ".". Bare function names map to their
// inverses when ctx.Inverse is set. Tokenize never fails; unrecognized text
// becomes Unknown tokens.
func Tokenize(raw string, sep Separators, ctx Context) []Token {
	sep = sep.orDefault()
	rs := []rune(raw)
	var toks []Token
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case r == sep.Grouping:
			i++
		case unicode.IsSpace(r):
			i++
		case isDigit(r) || r == sep.Decimal:
			tok, n := scanNumber(rs[i:], sep)
			tok.Pos = i
			toks = append(toks, tok)
			i += n
		case isLetter(r):
			j := i
			for j < len(rs) && isLetter(rs[j]) {
				j++
			}
			inv := strings.HasPrefix(string(rs[j:]), inverseMark)
			words := splitIdent(string(rs[i:j]), i)
			if inv {
				last := &words[len(words)-1]
				switch last.Symbol {
				case "sin", "cos", "tan":
					last.Symbol = "a" + last.Symbol
					last.Raw += inverseMark
				default:
					last.Kind = Unknown
				}
				j += len([]rune(inverseMark))
			} else if ctx.Inverse {
				for k := range words {
					if words[k].Kind == Function && inverses[words[k].Symbol] != "" {
						words[k].Symbol = inverses[words[k].Symbol]
					}
				}
			}
			toks = append(toks, words...)
			i = j
		default:
			toks = append(toks, glyph(r, i)...)
			i++
		}
	}
	return toks
}

// glyph tokenizes a single non-alphanumeric rune.
func glyph(r rune, pos int) []Token {
	tok := Token{Raw: string(r), Pos: pos}
	switch r {
	case '+', '-', '*', '/', '^', '#':
		tok.Kind, tok.Symbol = Operator, string(r)
	case '×', '·':
		tok.Kind, tok.Symbol = Operator, "*"
	case '÷':
		tok.Kind, tok.Symbol = Operator, "/"
	case '−':
		tok.Kind, tok.Symbol = Operator, "-"
	case '!', '%':
		tok.Kind, tok.Symbol = PostfixOp, string(r)
	case '(':
		tok.Kind, tok.Symbol = LeftParen, "("
	case ')':
		tok.Kind, tok.Symbol = RightParen, ")"
	case 'π':
		tok.Kind, tok.Symbol = Constant, "π"
	case '√':
		tok.Kind, tok.Symbol = Function, "sqrt"
	default:
		if s, ok := superscripts[r]; ok {
			return []Token{
				{Kind: Operator, Raw: string(r), Symbol: "^", Pos: pos},
				{Kind: Number, Raw: string(r), Symbol: s, Pos: pos},
			}
		}
		tok.Kind, tok.Symbol = Unknown, string(r)
	}
	return []Token{tok}
}

// scanNumber scans a number literal at the start of rs. Grouping separators
// inside the literal are dropped. An uppercase E followed by digits, with an
// optional sign, is an exponent. Repeated decimal separators are kept so that
// evaluation rejects the literal.
func scanNumber(rs []rune, sep Separators) (Token, int) {
	var b strings.Builder
	i := 0
	for i < len(rs) {
		r := rs[i]
		switch {
		case isDigit(r):
			b.WriteRune(r)
		case r == sep.Decimal:
			b.WriteByte('.')
		case r == sep.Grouping:
		default:
			goto exponent
		}
		i++
	}
exponent:
	if i < len(rs) && rs[i] == 'E' {
		j := i + 1
		if j < len(rs) && (rs[j] == '+' || rs[j] == '-') {
			j++
		}
		k := j
		for k < len(rs) && isDigit(rs[k]) {
			k++
		}
		if k > j {
			b.WriteString(string(rs[i:k]))
			i = k
		}
	}
	return Token{Kind: Number, Raw: string(rs[:i]), Symbol: b.String()}, i
}

// splitIdent splits a run of letters into known names. Text that matches no
// name becomes a single Unknown token.
func splitIdent(s string, pos int) []Token {
	var toks []Token
	for s != "" {
		found := false
		for _, id := range identifiers {
			if strings.HasPrefix(s, id.name) {
				sym := id.name
				if sym == "pi" {
					sym = "π"
				}
				toks = append(toks, Token{Kind: id.kind, Raw: id.name, Symbol: sym, Pos: pos})
				s = s[len(id.name):]
				pos += len(id.name)
				found = true
				break
			}
		}
		if !found {
			toks = append(toks, Token{Kind: Unknown, Raw: s, Symbol: s, Pos: pos})
			break
		}
	}
	return toks
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'D' || 'F' <= r && r <= 'Z'
}

// Normalize converts raw display text to the canonical form accepted by
// Evaluate. Constants become literals truncated to the working precision of
// ctx, implicit multiplications become explicit, and unclosed parentheses are
// closed at the end. Normalize is a pure function of its arguments.
func Normalize(raw string, sep Separators, ctx Context) string {
	toks := Tokenize(raw, sep, ctx)
	var b strings.Builder
	var prev *Token
	depth := 0
	var pi, e string
	for i := range toks {
		tok := &toks[i]
		if prev != nil && prev.endsValue() && tok.startsValue() {
			b.WriteByte('*')
		}
		switch tok.Kind {
		case Constant:
			if tok.Symbol == "π" {
				if pi == "" {
					pi = Pi(ctx.digits()).String()
				}
				b.WriteString(pi)
			} else {
				if e == "" {
					e = E(ctx.digits()).String()
				}
				b.WriteString(e)
			}
		case Function, Unknown:
			b.WriteString(tok.Symbol)
			if tok.Kind == Function {
				// Keep a following number from being read as part of the name.
				b.WriteByte(' ')
			}
		case LeftParen:
			depth++
			b.WriteString(tok.Symbol)
		case RightParen:
			if depth > 0 {
				depth--
			}
			b.WriteString(tok.Symbol)
		default:
			b.WriteString(tok.Symbol)
		}
		prev = tok
	}
	b.WriteString(strings.Repeat(")", depth))
	return b.String()
}
