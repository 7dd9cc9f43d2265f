package value

import (
	"math"
	"strconv"
)

// Text is a literal string Value.
type Text string

func (t Text) eval(_ Resolver, depth int) (string, error) {
	if err := guardDepth(depth); err != nil {
		return "", err
	}
	return string(t), nil
}

func (t Text) Apply(transform func(string) string) Value { return applyPipe(t, transform) }

// Number is a double-precision Value, rendered per the numeric formatting
// rule: an integral value prints without a decimal point.
type Number float64

func (n Number) eval(_ Resolver, depth int) (string, error) {
	if err := guardDepth(depth); err != nil {
		return "", err
	}
	return FormatNumber(float64(n)), nil
}

func (n Number) Apply(transform func(string) string) Value { return applyPipe(n, transform) }

// FormatNumber renders x per the numeric formatting rule: a value with
// x % 1 == 0 prints as a signed 64-bit integer literal; otherwise as the
// shortest round-trip decimal.
func FormatNumber(x float64) string {
	if !math.IsInf(x, 0) && !math.IsNaN(x) && math.Trunc(x) == x &&
		x >= math.MinInt64 && x <= math.MaxInt64 {
		return strconv.FormatInt(int64(x), 10)
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// Boolean is a true/false Value.
type Boolean bool

func (b Boolean) eval(_ Resolver, depth int) (string, error) {
	if err := guardDepth(depth); err != nil {
		return "", err
	}
	if b {
		return "true", nil
	}
	return "false", nil
}

func (b Boolean) Apply(transform func(string) string) Value { return applyPipe(b, transform) }

// nullValue is the sole NULL Value, rendered as the empty string.
type nullValue struct{}

// Null is the designated NULL Value.
var Null Value = nullValue{}

func (nullValue) eval(_ Resolver, depth int) (string, error) {
	if err := guardDepth(depth); err != nil {
		return "", err
	}
	return "", nil
}

func (n nullValue) Apply(transform func(string) string) Value { return applyPipe(n, transform) }

// IsNull reports whether v is the NULL Value — the "Defined" instruction's
// negation.
func IsNull(v Value) bool {
	_, ok := v.(nullValue)
	return ok
}
