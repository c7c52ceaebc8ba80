// Package config loads calculator settings from TOML or YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/scicalc"
)

// Config holds the calculator settings.
type Config struct {
	// Locale is a BCP 47 tag used to choose separators that are not set
	// explicitly.
	Locale string `toml:"locale" yaml:"locale"`
	// DecimalSeparator and GroupingSeparator override the locale. The
	// grouping separator "none" disables grouping.
	DecimalSeparator  string           `toml:"decimal_separator" yaml:"decimal_separator"`
	GroupingSeparator string           `toml:"grouping_separator" yaml:"grouping_separator"`
	AngleMode         string           `toml:"angle_mode" yaml:"angle_mode"`
	Precision         int              `toml:"precision" yaml:"precision"`
	Inverse           bool             `toml:"inverse" yaml:"inverse"`
	Scientific        ScientificConfig `toml:"scientific" yaml:"scientific"`
	LogLevel          string           `toml:"log_level" yaml:"log_level"`
}

// ScientificConfig holds scientific notation settings.
type ScientificConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
	// Upper and Lower are decimal strings giving the magnitudes at which
	// results switch to scientific notation.
	Upper string `toml:"upper" yaml:"upper"`
	Lower string `toml:"lower" yaml:"lower"`
}

// Format is a configuration file format.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Locale:    "en",
		AngleMode: "rad",
		Precision: scicalc.DefaultPrecision,
		Scientific: ScientificConfig{
			Enabled: true,
			Upper:   scicalc.DefaultSciUpper.String(),
			Lower:   scicalc.DefaultSciLower.String(),
		},
		LogLevel: "info",
	}
}

// DetectFormat determines the configuration format from a file extension.
// Unknown extensions are TOML.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Load reads and validates a configuration file. Settings missing from the
// file keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data, DetectFormat(path))
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates configuration data. Unknown keys are errors.
func Parse(data []byte, format Format) (Config, error) {
	cfg := Default()
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("TOML parse error: %w", err)
		}
		if u := md.Undecoded(); len(u) != 0 {
			return Config{}, fmt.Errorf("unknown key %q", u[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("YAML parse error: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported format: %v", format)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if _, err := language.Parse(c.Locale); err != nil {
		errs = append(errs, fmt.Errorf("locale %q: %w", c.Locale, err))
	}
	if _, err := parseAngle(c.AngleMode); err != nil {
		errs = append(errs, err)
	}
	if c.Precision < 0 || c.Precision > scicalc.MaxPrecision {
		errs = append(errs, fmt.Errorf("precision %d outside [0, %d]", c.Precision, scicalc.MaxPrecision))
	}
	if sep, err := c.Separators(); err != nil {
		errs = append(errs, err)
	} else if sep.Decimal == sep.Grouping {
		errs = append(errs, fmt.Errorf("decimal and grouping separators are both %q", sep.Decimal))
	}
	upper, err := decimal.NewFromString(c.Scientific.Upper)
	if err != nil {
		errs = append(errs, fmt.Errorf("scientific upper bound %q: %w", c.Scientific.Upper, err))
	}
	lower, err2 := decimal.NewFromString(c.Scientific.Lower)
	if err2 != nil {
		errs = append(errs, fmt.Errorf("scientific lower bound %q: %w", c.Scientific.Lower, err2))
	}
	if err == nil && err2 == nil && (lower.Sign() <= 0 || !lower.LessThan(upper)) {
		errs = append(errs, fmt.Errorf("scientific bounds must satisfy 0 < lower < upper, have %v and %v", lower, upper))
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("log level %q: %w", c.LogLevel, err))
	}
	return errors.Join(errs...)
}

func parseAngle(s string) (scicalc.AngleMode, error) {
	switch strings.ToLower(s) {
	case "rad", "radian", "radians":
		return scicalc.Radians, nil
	case "deg", "degree", "degrees":
		return scicalc.Degrees, nil
	default:
		return 0, fmt.Errorf("unknown angle mode %q", s)
	}
}

// Context returns the evaluation settings. The configuration must be valid.
func (c Config) Context() scicalc.Context {
	m, _ := parseAngle(c.AngleMode)
	return scicalc.Context{
		Angle:     m,
		Precision: int32(c.Precision),
		Inverse:   c.Inverse,
	}
}

// Separators returns the configured separators, taking each one from the
// locale unless it is set explicitly.
func (c Config) Separators() (scicalc.Separators, error) {
	var sep scicalc.Separators
	if c.DecimalSeparator == "" || c.GroupingSeparator == "" {
		loc, err := LocaleSeparators(c.Locale)
		if err != nil {
			return sep, err
		}
		sep = loc
	}
	if c.DecimalSeparator != "" {
		r, err := separatorRune(c.DecimalSeparator)
		if err != nil {
			return sep, fmt.Errorf("decimal separator: %w", err)
		}
		sep.Decimal = r
	}
	switch c.GroupingSeparator {
	case "":
	case "none":
		sep.Grouping = 0
	default:
		r, err := separatorRune(c.GroupingSeparator)
		if err != nil {
			return sep, fmt.Errorf("grouping separator: %w", err)
		}
		sep.Grouping = r
	}
	return sep, nil
}

// reserved holds characters with meaning in expressions.
const reserved = "+-*/^#!%×÷·−()π√²³⁻¹"

// separatorRune checks that s is a single character usable as a separator.
func separatorRune(s string) (rune, error) {
	r, n := utf8.DecodeRuneInString(s)
	if n != len(s) || r == utf8.RuneError {
		return 0, fmt.Errorf("%q is not a single character", s)
	}
	if unicode.IsDigit(r) || unicode.IsLetter(r) || strings.ContainsRune(reserved, r) {
		return 0, fmt.Errorf("%q cannot be a separator", s)
	}
	return r, nil
}

// LocaleSeparators returns the decimal and grouping separators conventional
// for a BCP 47 language tag.
func LocaleSeparators(tag string) (scicalc.Separators, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return scicalc.Separators{}, fmt.Errorf("locale %q: %w", tag, err)
	}
	p := message.NewPrinter(t)
	s := p.Sprintf("%v", number.Decimal(1234567.5, number.MinFractionDigits(1)))
	var seps []rune
	for _, r := range s {
		if !unicode.IsDigit(r) {
			seps = append(seps, r)
		}
	}
	switch len(seps) {
	case 0:
		return scicalc.Separators{}, fmt.Errorf("locale %q: no decimal separator in %q", tag, s)
	case 1:
		return scicalc.Separators{Decimal: seps[0]}, nil
	default:
		return scicalc.Separators{Decimal: seps[len(seps)-1], Grouping: seps[0]}, nil
	}
}

// Display returns the display options. The configuration must be valid.
func (c Config) Display() scicalc.DisplayOptions {
	sep, _ := c.Separators()
	upper, _ := decimal.NewFromString(c.Scientific.Upper)
	lower, _ := decimal.NewFromString(c.Scientific.Lower)
	return scicalc.DisplayOptions{
		Separators: sep,
		Scientific: c.Scientific.Enabled,
		SciUpper:   upper,
		SciLower:   lower,
	}
}

// SlogLevel returns the configured log level, or info if it is invalid.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
