package scicalc

// AngleMode selects the unit of trigonometric arguments and results.
type AngleMode int

const (
	// Radians is the zero AngleMode.
	Radians AngleMode = iota
	Degrees
)

func (m AngleMode) String() string {
	if m == Degrees {
		return "deg"
	}
	return "rad"
}

const (
	// DefaultPrecision is the number of decimal places results are rounded
	// to when a Context does not say otherwise.
	DefaultPrecision = 10
	// MaxPrecision is the largest Precision a Context honors.
	MaxPrecision = 200
	// GuardDigits is the number of significant digits carried beyond the
	// display precision during evaluation.
	GuardDigits = 24
	// MaxExponent bounds the magnitude of every value. A value with
	// magnitude at least 10^MaxExponent is an Infinity error, and a nonzero
	// value smaller than 10^-MaxExponent becomes zero.
	MaxExponent = 1000

	minWorkDigits = 32
)

// Context holds the settings for one evaluation. It is a plain value; the
// engine never modifies it.
type Context struct {
	// Angle is the unit for trigonometric functions.
	Angle AngleMode
	// Precision is the number of decimal places in a result's Value.
	// It is clamped to [0, MaxPrecision].
	Precision int32
	// Inverse makes Normalize map bare sin, cos, tan, and ln to asin, acos,
	// atan, and exp.
	Inverse bool
}

// DefaultContext returns a Context using radians and DefaultPrecision.
func DefaultContext() Context {
	return Context{Angle: Radians, Precision: DefaultPrecision}
}

func (c Context) precision() int32 {
	switch {
	case c.Precision < 0:
		return 0
	case c.Precision > MaxPrecision:
		return MaxPrecision
	}
	return c.Precision
}

// digits is the number of significant digits carried by intermediate values.
func (c Context) digits() int32 {
	d := c.precision() + GuardDigits
	if d < minWorkDigits {
		d = minWorkDigits
	}
	return d
}
