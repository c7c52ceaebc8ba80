package scicalc

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBuiltinsExist(t *testing.T) {
	for _, name := range []string{"sin", "cos", "tan", "asin", "acos", "atan", "ln", "log", "exp", "sqrt"} {
		if lookupFunc(name) == nil {
			t.Errorf("%s is not a function", name)
		}
	}
	for _, name := range []string{"", "e", "pi", "sinh", "SIN", "√"} {
		if lookupFunc(name) != nil {
			t.Errorf("%q is a function", name)
		}
	}
}

func TestExactSinDeg(t *testing.T) {
	cases := []struct {
		x    string
		want string
		ok   bool
	}{
		{"0", "0", true},
		{"30", "0.5", true},
		{"90", "1", true},
		{"150", "0.5", true},
		{"180", "0", true},
		{"270", "-1", true},
		{"330", "-0.5", true},
		{"-90", "-1", true},
		{"450", "1", true},
		{"-330", "0.5", true},
		{"720", "0", true},
		{"45", "", false},
		{"30.5", "", false},
	}
	for _, c := range cases {
		got, ok := exactSinDeg(dec(c.x))
		if ok != c.ok {
			t.Errorf("%s: want ok %t, got %t", c.x, c.ok, ok)
			continue
		}
		if ok && !got.Equal(dec(c.want)) {
			t.Errorf("%s: want %s, got %s", c.x, c.want, got)
		}
	}
}

func TestRoundSig(t *testing.T) {
	cases := []struct {
		x      string
		digits int32
		want   string
	}{
		{"123456", 3, "123000"},
		{"123.456", 4, "123.5"},
		{"0.000123456", 2, "0.00012"},
		{"2.5", 1, "2"},
		{"3.5", 1, "4"},
		{"-2.5", 1, "-2"},
		{"0", 5, "0"},
		{"1.25", 10, "1.25"},
	}
	for _, c := range cases {
		got := roundSig(dec(c.x), c.digits)
		if !got.Equal(dec(c.want)) {
			t.Errorf("roundSig(%s, %d): want %s, got %s", c.x, c.digits, c.want, got)
		}
	}
}

func TestQuo(t *testing.T) {
	cases := []struct {
		a, b   string
		digits int32
		want   string
	}{
		{"1", "3", 5, "0.33333"},
		{"2", "3", 5, "0.66667"},
		{"1E20", "3", 4, "3.333E19"},
		{"1", "3E20", 3, "3.33E-21"},
		{"0", "7", 5, "0"},
		{"-10", "4", 5, "-2.5"},
	}
	for _, c := range cases {
		got := quo(dec(c.a), dec(c.b), c.digits)
		if !got.Equal(dec(c.want)) {
			t.Errorf("quo(%s, %s, %d): want %s, got %s", c.a, c.b, c.digits, c.want, got)
		}
	}
}

func TestParseNum(t *testing.T) {
	cases := []struct {
		s    string
		want string
	}{
		{"12", "12"},
		{"5.", "5"},
		{".5", "0.5"},
		{"1.5E3", "1500"},
		{"1E-3", "0.001"},
		{"1E+2", "100"},
		{"1E-99999", "0"},
		{"1E-99999999999999999999", "0"},
	}
	for _, c := range cases {
		got, err := parseNum(c.s)
		if err != nil {
			t.Errorf("%s: %v", c.s, err)
			continue
		}
		if !got.Equal(dec(c.want)) {
			t.Errorf("%s: want %s, got %s", c.s, c.want, got)
		}
	}
	for _, s := range []string{"1E99999", "1E99999999999999999999"} {
		_, err := parseNum(s)
		var e *Error
		if !errors.As(err, &e) || e.Kind != Infinity {
			t.Errorf("%s: want infinity, got %v", s, err)
		}
	}
}

func TestConstants(t *testing.T) {
	if got, want := Pi(34).String(), "3.141592653589793238462643383279502"; got != want {
		t.Errorf("Pi(34): want %s, got %s", want, got)
	}
	if got, want := E(34).String(), "2.718281828459045235360287471352662"; got != want {
		t.Errorf("E(34): want %s, got %s", want, got)
	}
	if got, want := Pi(5).String(), "3.1415"; got != want {
		t.Errorf("Pi(5): want %s, got %s", want, got)
	}
}

func TestDigits(t *testing.T) {
	cases := []struct {
		prec   int32
		digits int32
	}{
		{0, 32},
		{8, 32},
		{10, 34},
		{100, 124},
		{1000, MaxPrecision + GuardDigits},
		{-5, 32},
	}
	for _, c := range cases {
		ctx := Context{Precision: c.prec}
		if got := ctx.digits(); got != c.digits {
			t.Errorf("precision %d: want %d digits, got %d", c.prec, c.digits, got)
		}
	}
}
