package scicalc

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Separators are the locale-specific characters used in display text.
type Separators struct {
	// Decimal separates the integer and fraction parts of a number.
	// Zero means '.'.
	Decimal rune
	// Grouping separates groups of three integer digits. Zero means no
	// grouping.
	Grouping rune
}

// DefaultSeparators are the separators used in English locales.
var DefaultSeparators = Separators{Decimal: '.', Grouping: ','}

func (s Separators) orDefault() Separators {
	if s.Decimal == 0 {
		s.Decimal = '.'
	}
	if s.Grouping == s.Decimal {
		s.Grouping = 0
	}
	return s
}

// StripGrouping removes all grouping separators from text.
func StripGrouping(text string, sep Separators) string {
	sep = sep.orDefault()
	if sep.Grouping == 0 {
		return text
	}
	return strings.ReplaceAll(text, string(sep.Grouping), "")
}

// FormatNumbers inserts grouping separators every three digits into the
// integer part of each number in text. Existing grouping separators are
// removed first, so FormatNumbers is idempotent. Fraction digits and exponent
// digits are not grouped, and text other than digits is left untouched.
func FormatNumbers(text string, sep Separators) string {
	sep = sep.orDefault()
	rs := []rune(StripGrouping(text, sep))
	var b strings.Builder
	b.Grow(len(text) + len(text)/3)
	for i := 0; i < len(rs); {
		if !isDigit(rs[i]) {
			b.WriteRune(rs[i])
			i++
			continue
		}
		j := i
		for j < len(rs) && isDigit(rs[j]) {
			j++
		}
		if sep.Grouping == 0 || !integerPart(rs, i, sep.Decimal) {
			b.WriteString(string(rs[i:j]))
		} else {
			group(&b, rs[i:j], sep.Grouping)
		}
		i = j
	}
	return b.String()
}

// integerPart reports whether the digit run starting at rs[i] is the integer
// part of a number, as opposed to its fraction or exponent.
func integerPart(rs []rune, i int, dec rune) bool {
	if i == 0 {
		return true
	}
	switch rs[i-1] {
	case dec, 'E':
		return false
	case '+', '-':
		return i < 2 || rs[i-2] != 'E'
	}
	return true
}

func group(b *strings.Builder, digits []rune, sep rune) {
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(string(digits[:lead]))
	for k := lead; k < len(digits); k += 3 {
		b.WriteRune(sep)
		b.WriteString(string(digits[k : k+3]))
	}
}

// ExtractNumbers returns each number in text, in order. A number is a maximal
// run of digits with at most one decimal separator; a second separator starts
// a new number. Grouping separators end a number, so callers should strip
// them first.
func ExtractNumbers(text string, decimalSep rune) []string {
	if decimalSep == 0 {
		decimalSep = '.'
	}
	var nums []string
	var cur []rune
	dot := false
	flush := func() {
		if len(cur) > 0 {
			nums = append(nums, string(cur))
		}
		cur, dot = cur[:0], false
	}
	for _, r := range text {
		switch {
		case isDigit(r):
			cur = append(cur, r)
		case r == decimalSep:
			if dot {
				flush()
			}
			cur = append(cur, r)
			dot = true
		default:
			flush()
		}
	}
	flush()
	return nums
}

// DisplayOptions controls how FormatResult renders a value.
type DisplayOptions struct {
	Separators Separators
	// Scientific enables scientific notation for values at or above
	// SciUpper in magnitude or at or below SciLower.
	Scientific bool
	// SciUpper and SciLower are the scientific notation thresholds. Zero
	// values mean DefaultSciUpper and DefaultSciLower.
	SciUpper decimal.Decimal
	SciLower decimal.Decimal
}

var (
	// DefaultSciUpper is the default magnitude at which results switch to
	// scientific notation.
	DefaultSciUpper = decimal.New(1, 15)
	// DefaultSciLower is the default magnitude at or below which nonzero
	// results switch to scientific notation.
	DefaultSciLower = decimal.New(1, -7)
)

// DefaultDisplay returns display options with default separators and
// scientific notation enabled.
func DefaultDisplay() DisplayOptions {
	return DisplayOptions{
		Separators: DefaultSeparators,
		Scientific: true,
		SciUpper:   DefaultSciUpper,
		SciLower:   DefaultSciLower,
	}
}

// FormatResult renders a result for display. Trailing fraction zeros are
// removed, the decimal separator is localized, and integer digits are grouped.
// In scientific notation, the mantissa keeps r.Precision decimal places before
// trimming and the exponent follows an uppercase E, so the output can be
// edited and evaluated again.
func FormatResult(r Result, opts DisplayOptions) string {
	sep := opts.Separators.orDefault()
	if opts.Scientific {
		upper, lower := opts.SciUpper, opts.SciLower
		if upper.IsZero() {
			upper = DefaultSciUpper
		}
		if lower.IsZero() {
			lower = DefaultSciLower
		}
		x := r.Exact
		if x.IsZero() {
			x = r.Value
		}
		if a := x.Abs(); !a.IsZero() && (a.GreaterThanOrEqual(upper) || a.LessThanOrEqual(lower)) {
			return scientific(x, r.Precision, sep)
		}
	}
	return localize(r.Value.String(), sep)
}

func scientific(x decimal.Decimal, prec int32, sep Separators) string {
	e := adjExp(x)
	m := x.Shift(int32(-e)).RoundBank(prec)
	if m.Abs().GreaterThanOrEqual(ten) {
		e++
		m = x.Shift(int32(-e)).RoundBank(prec)
	}
	return localize(m.String(), sep) + "E" + strconv.FormatInt(int64(e), 10)
}

// localize rewrites a number rendered with '.' to use sep.
func localize(s string, sep Separators) string {
	if sep.Decimal != '.' {
		s = strings.Replace(s, ".", string(sep.Decimal), 1)
	}
	return FormatNumbers(s, sep)
}
