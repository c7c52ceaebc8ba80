package session

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/zephyrtronium/scicalc"
)

// functionKeys maps function keys to the text they insert normally and in
// inverse mode.
var functionKeys = map[string][2]string{
	"sin":  {"sin(", "sin⁻¹("},
	"cos":  {"cos(", "cos⁻¹("},
	"tan":  {"tan(", "tan⁻¹("},
	"ln":   {"ln(", "exp("},
	"exp":  {"exp(", "ln("},
	"log":  {"log(", "log("},
	"√":    {"√(", "√("},
	"sqrt": {"√(", "√("},
}

// glyphs are removed as a unit by Backspace. Longer glyphs come first.
var glyphs = []string{
	"sin⁻¹(", "cos⁻¹(", "tan⁻¹(",
	"sin⁻¹", "cos⁻¹", "tan⁻¹",
	"sin(", "cos(", "tan(", "exp(", "log(", "ln(", "√(",
}

// Insert adds the text of a key to the end of the display and reports whether
// it was accepted. Function keys insert the function with an open
// parenthesis, using the inverse function in inverse mode. A decimal
// separator is refused if the number being typed already has one. Right after
// a commit, a key that starts a new operand replaces the result, and any other
// key continues from it.
func (s *Session) Insert(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sep := s.display.Separators
	ins := key
	if k, ok := functionKeys[key]; ok {
		ins = k[0]
		if s.ctx.Inverse {
			ins = k[1]
		}
	} else if strings.HasSuffix(key, "⁻¹") {
		ins = key + "("
	}
	if s.fresh {
		s.fresh = false
		if startsOperand(ins, sep) {
			s.text = ""
			s.ans, s.ansText = nil, ""
		}
	}
	if key == string(sep.Decimal) && !s.decimalAllowed() {
		s.log.Debug("refused second decimal separator", slog.String("text", s.text))
		return false
	}
	s.text = scicalc.FormatNumbers(s.text+ins, sep)
	return true
}

// Backspace removes the last glyph from the display. Function names and their
// parentheses are removed together.
func (s *Session) Backspace() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fresh = false
	text := s.text
	if text == "" {
		return
	}
	n := 0
	for _, g := range glyphs {
		if strings.HasSuffix(text, g) {
			n = len(g)
			break
		}
	}
	if n == 0 {
		_, n = utf8.DecodeLastRuneInString(text)
	}
	s.text = scicalc.FormatNumbers(text[:len(text)-n], s.display.Separators)
}

// decimalAllowed reports whether a decimal separator can follow the display.
func (s *Session) decimalAllowed() bool {
	sep := s.display.Separators
	text := scicalc.StripGrouping(s.text, sep)
	r, _ := utf8.DecodeLastRuneInString(text)
	if !('0' <= r && r <= '9') && r != sep.Decimal {
		return true
	}
	nums := scicalc.ExtractNumbers(text, sep.Decimal)
	last := nums[len(nums)-1]
	if strings.ContainsRune(last, sep.Decimal) {
		return false
	}
	// Exponents are integers.
	before := strings.TrimRight(strings.TrimSuffix(text, last), "+-")
	return !strings.HasSuffix(before, "E")
}

// startsOperand reports whether inserted text begins a new operand.
func startsOperand(ins string, sep scicalc.Separators) bool {
	r, _ := utf8.DecodeRuneInString(ins)
	switch {
	case '0' <= r && r <= '9', r == sep.Decimal:
		return true
	case r == '(', r == 'π', r == '√':
		return true
	case 'a' <= r && r <= 'z':
		return true
	}
	return false
}
