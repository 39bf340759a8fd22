package schemaform

import "log/slog"

// PatternPolicy decides how the `pattern` rule treats defined values that are
// not strings.
type PatternPolicy int

const (
	// PatternStrict fails non-string values.
	PatternStrict PatternPolicy = iota
	// PatternLenient passes non-string values.
	PatternLenient
)

// String returns the policy name used in configuration.
func (p PatternPolicy) String() string {
	if p == PatternLenient {
		return "lenient"
	}
	return "strict"
}

// ParsePatternPolicy maps "strict" or "lenient" to a policy. The empty string
// is strict.
func ParsePatternPolicy(name string) (PatternPolicy, bool) {
	switch name {
	case "", "strict":
		return PatternStrict, true
	case "lenient":
		return PatternLenient, true
	}
	return PatternStrict, false
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger for compile diagnostics. A nil logger keeps the
// default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPatternPolicy sets how `pattern` treats non-string values.
func WithPatternPolicy(p PatternPolicy) Option {
	return func(c *Compiler) {
		c.patternPolicy = p
	}
}
