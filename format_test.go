package scicalc_test

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/zephyrtronium/scicalc"
)

func TestFormatNumbers(t *testing.T) {
	german := scicalc.Separators{Decimal: ',', Grouping: '.'}
	cases := []struct {
		text string
		sep  scicalc.Separators
		want string
	}{
		{"", scicalc.DefaultSeparators, ""},
		{"1", scicalc.DefaultSeparators, "1"},
		{"123", scicalc.DefaultSeparators, "123"},
		{"1234", scicalc.DefaultSeparators, "1,234"},
		{"1234567", scicalc.DefaultSeparators, "1,234,567"},
		{"1234.5678", scicalc.DefaultSeparators, "1,234.5678"},
		{"1234+56789×2", scicalc.DefaultSeparators, "1,234+56,789×2"},
		{"sin(12345)", scicalc.DefaultSeparators, "sin(12,345)"},
		{"1,2,3,4", scicalc.DefaultSeparators, "1,234"},
		{"1.5E12345", scicalc.DefaultSeparators, "1.5E12345"},
		{"1E+12345", scicalc.DefaultSeparators, "1E+12345"},
		{"1234E5", scicalc.DefaultSeparators, "1,234E5"},
		{"1234-5678", scicalc.DefaultSeparators, "1,234-5,678"},
		{"-1234", scicalc.DefaultSeparators, "-1,234"},
		{"1234567,891", german, "1.234.567,891"},
		{"1234567.891", scicalc.Separators{Decimal: '.'}, "1234567.891"},
		{".12345", scicalc.DefaultSeparators, ".12345"},
	}
	for _, c := range cases {
		got := scicalc.FormatNumbers(c.text, c.sep)
		if got != c.want {
			t.Errorf("%q: want %q, got %q", c.text, c.want, got)
		}
		if again := scicalc.FormatNumbers(got, c.sep); again != got {
			t.Errorf("%q: not idempotent: %q then %q", c.text, got, again)
		}
		if s := scicalc.StripGrouping(got, c.sep); s != scicalc.StripGrouping(c.text, c.sep) {
			t.Errorf("%q: stripping %q gives %q", c.text, got, s)
		}
	}
}

func TestExtractNumbers(t *testing.T) {
	cases := []struct {
		text string
		dec  rune
		want []string
	}{
		{"", '.', nil},
		{"sin(", '.', nil},
		{"12.5+3×.7", '.', []string{"12.5", "3", ".7"}},
		{"1.2.3", '.', []string{"1.2", ".3"}},
		{"sin(30)", '.', []string{"30"}},
		{"1,5+2", ',', []string{"1,5", "2"}},
		{"5.", '.', []string{"5."}},
	}
	for _, c := range cases {
		got := scicalc.ExtractNumbers(c.text, c.dec)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("%q: want %q, got %q", c.text, c.want, got)
		}
	}
}

func TestFormatResult(t *testing.T) {
	german := scicalc.Separators{Decimal: ',', Grouping: '.'}
	plain := scicalc.DefaultDisplay()
	plain.Scientific = false
	tight := scicalc.DefaultDisplay()
	tight.SciUpper = decimal.New(1, 3)
	cases := []struct {
		name string
		raw  string
		sep  scicalc.Separators
		opts scicalc.DisplayOptions
		want string
	}{
		{"int", "1234567", scicalc.DefaultSeparators, scicalc.DefaultDisplay(), "1,234,567"},
		{"frac", "1234567.5", scicalc.DefaultSeparators, scicalc.DefaultDisplay(), "1,234,567.5"},
		{"trim", "2.50", scicalc.DefaultSeparators, scicalc.DefaultDisplay(), "2.5"},
		{"neg", "-1234", scicalc.DefaultSeparators, scicalc.DefaultDisplay(), "-1,234"},
		{"zero", "0", scicalc.DefaultSeparators, scicalc.DefaultDisplay(), "0"},
		{"third", "1÷3", scicalc.DefaultSeparators, scicalc.DefaultDisplay(), "0.3333333333"},
		{"big", "1E20", scicalc.DefaultSeparators, scicalc.DefaultDisplay(), "1E20"},
		{"bigmant", "2÷3E-20", scicalc.DefaultSeparators, scicalc.DefaultDisplay(), "6.6666666667E19"},
		{"bigcarry", "9.999999999999E20", scicalc.DefaultSeparators, scicalc.DefaultDisplay(), "1E21"},
		{"small", "0.00000001", scicalc.DefaultSeparators, scicalc.DefaultDisplay(), "1E-8"},
		{"lower", "0.0000001", scicalc.DefaultSeparators, scicalc.DefaultDisplay(), "1E-7"},
		{"tiny", "2÷3E10", scicalc.DefaultSeparators, scicalc.DefaultDisplay(), "6.6666666667E-11"},
		{"negsci", "-1.5E16", scicalc.DefaultSeparators, scicalc.DefaultDisplay(), "-1.5E16"},
		{"plainbig", "1E20", scicalc.DefaultSeparators, plain, "100,000,000,000,000,000,000"},
		{"tight", "1234", scicalc.DefaultSeparators, tight, "1.234E3"},
		{"german", "1234,5", german, scicalc.DisplayOptions{Separators: german}, "1.234,5"},
		{"germansci", "1,5E20", german, scicalc.DisplayOptions{Separators: german, Scientific: true}, "1,5E20"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := scicalc.Calculate(c.raw, c.sep, scicalc.DefaultContext())
			if err != nil {
				t.Fatalf("%q: %v", c.raw, err)
			}
			if got := scicalc.FormatResult(r, c.opts); got != c.want {
				t.Errorf("%q: want %q, got %q", c.raw, c.want, got)
			}
		})
	}
}

func TestFormatResultRoundTrips(t *testing.T) {
	for _, raw := range []string{"1÷3", "1E20÷7", "2÷3E10", "-1234.5"} {
		r, err := scicalc.Calculate(raw, scicalc.DefaultSeparators, scicalc.DefaultContext())
		if err != nil {
			t.Fatalf("%q: %v", raw, err)
		}
		s := scicalc.FormatResult(r, scicalc.DefaultDisplay())
		if _, err := scicalc.Calculate(s, scicalc.DefaultSeparators, scicalc.DefaultContext()); err != nil {
			t.Errorf("%q: formatted %q does not evaluate: %v", raw, s, err)
		}
	}
}
