package scicalc_test

import (
	"reflect"
	"testing"

	"github.com/zephyrtronium/scicalc"
)

const (
	pi34 = "3.141592653589793238462643383279502"
	e34  = "2.718281828459045235360287471352662"
)

func TestNormalize(t *testing.T) {
	german := scicalc.Separators{Decimal: ',', Grouping: '.'}
	cases := []struct {
		name string
		raw  string
		sep  scicalc.Separators
		ctx  scicalc.Context
		want string
	}{
		{"empty", "", scicalc.DefaultSeparators, rad(), ""},
		{"glyphs", "2+3×4÷5−1", scicalc.DefaultSeparators, rad(), "2+3*4/5-1"},
		{"grouping", "1,234.5+1", scicalc.DefaultSeparators, rad(), "1234.5+1"},
		{"german", "1.234,5×2", german, rad(), "1234.5*2"},
		{"spaces", " 1 + 2 ", scicalc.DefaultSeparators, rad(), "1+2"},
		{"implicitparen", "2(3+4)", scicalc.DefaultSeparators, rad(), "2*(3+4)"},
		{"implicitparens", "(1)(2)", scicalc.DefaultSeparators, rad(), "(1)*(2)"},
		{"implicitafter", "(1)2", scicalc.DefaultSeparators, rad(), "(1)*2"},
		{"implicitfunc", "2sin(30)", scicalc.DefaultSeparators, rad(), "2*sin (30)"},
		{"implicitpostfix", "5!2", scicalc.DefaultSeparators, rad(), "5!*2"},
		{"autoclose", "sin(30", scicalc.DefaultSeparators, rad(), "sin (30)"},
		{"autoclosemany", "((1", scicalc.DefaultSeparators, rad(), "((1))"},
		{"extraclose", "1)", scicalc.DefaultSeparators, rad(), "1)"},
		{"pi", "2π", scicalc.DefaultSeparators, rad(), "2*" + pi34},
		{"pispelled", "pi", scicalc.DefaultSeparators, rad(), pi34},
		{"e", "2e", scicalc.DefaultSeparators, rad(), "2*" + e34},
		{"exp", "exp(1)", scicalc.DefaultSeparators, rad(), "exp (1)"},
		{"eexp", "eexp(1)", scicalc.DefaultSeparators, rad(), e34 + "*exp (1)"},
		{"sqrt", "√4", scicalc.DefaultSeparators, rad(), "sqrt 4"},
		{"square", "3²", scicalc.DefaultSeparators, rad(), "3^2"},
		{"exponent", "1E5", scicalc.DefaultSeparators, rad(), "1E5"},
		{"inverseglyph", "sin⁻¹(1)", scicalc.DefaultSeparators, rad(), "asin (1)"},
		{"inversecos", "cos⁻¹(1)+tan⁻¹(1)", scicalc.DefaultSeparators, rad(), "acos (1)+atan (1)"},
		{"inversemode", "sin(1)+ln(2)", scicalc.DefaultSeparators, inv(rad()), "asin (1)+exp (2)"},
		{"inversemodeglyph", "sin⁻¹(1)", scicalc.DefaultSeparators, inv(rad()), "asin (1)"},
		{"inversemodelog", "log(2)", scicalc.DefaultSeparators, inv(rad()), "log (2)"},
		{"postfix", "50%#3", scicalc.DefaultSeparators, rad(), "50%#3"},
		{"unknown", "abc", scicalc.DefaultSeparators, rad(), "abc"},
		{"unknownglyph", "2@3", scicalc.DefaultSeparators, rad(), "2@3"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := scicalc.Normalize(c.raw, c.sep, c.ctx); got != c.want {
				t.Errorf("%q: want %q, got %q", c.raw, c.want, got)
			}
		})
	}
}

func TestNormalizeConstantPrecision(t *testing.T) {
	ctx := prec(rad(), 30)
	got := scicalc.Normalize("π", scicalc.DefaultSeparators, ctx)
	want := scicalc.Pi(54).String()
	if got != want {
		t.Errorf("want %s, got %s", want, got)
	}
	if len(got) != 55 {
		t.Errorf("π literal %s has %d characters", got, len(got))
	}
}

func TestTokenize(t *testing.T) {
	toks := scicalc.Tokenize("2sin⁻¹(π)", scicalc.DefaultSeparators, rad())
	want := []scicalc.Token{
		{Kind: scicalc.Number, Raw: "2", Symbol: "2", Pos: 0},
		{Kind: scicalc.Function, Raw: "sin⁻¹", Symbol: "asin", Pos: 1},
		{Kind: scicalc.LeftParen, Raw: "(", Symbol: "(", Pos: 6},
		{Kind: scicalc.Constant, Raw: "π", Symbol: "π", Pos: 7},
		{Kind: scicalc.RightParen, Raw: ")", Symbol: ")", Pos: 8},
	}
	if !reflect.DeepEqual(toks, want) {
		t.Errorf("want %v, got %v", want, toks)
	}
}

func TestTokenizeNumbers(t *testing.T) {
	cases := []struct {
		raw  string
		sep  scicalc.Separators
		want string
	}{
		{"1,234,567.89", scicalc.DefaultSeparators, "1234567.89"},
		{"1.234.567,89", scicalc.Separators{Decimal: ',', Grouping: '.'}, "1234567.89"},
		{"1 234,5", scicalc.Separators{Decimal: ',', Grouping: ' '}, "1234.5"},
		{"2.5E-3", scicalc.DefaultSeparators, "2.5E-3"},
		{"1.2.3", scicalc.DefaultSeparators, "1.2.3"},
	}
	for _, c := range cases {
		toks := scicalc.Tokenize(c.raw, c.sep, rad())
		if len(toks) != 1 || toks[0].Kind != scicalc.Number {
			t.Errorf("%q: want one number, got %v", c.raw, toks)
			continue
		}
		if toks[0].Symbol != c.want {
			t.Errorf("%q: want %q, got %q", c.raw, c.want, toks[0].Symbol)
		}
	}
}

func TestTokenizeExponentNeedsDigits(t *testing.T) {
	toks := scicalc.Tokenize("2E+", scicalc.DefaultSeparators, rad())
	if len(toks) != 3 {
		t.Fatalf("want number, unknown, operator; got %v", toks)
	}
	if toks[0].Symbol != "2" || toks[1].Kind != scicalc.Unknown || toks[2].Symbol != "+" {
		t.Errorf("got %v", toks)
	}
}
