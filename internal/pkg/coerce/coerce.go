// Package coerce holds the parse-or-default combinators used wherever loosely
// typed numeric input reaches the credit rules: spreadsheet cells, raw
// request values and stored amounts. A value that cannot be read as a finite
// number never produces an error; it is replaced by the caller-supplied
// fallback so the substitution is explicit at the call site.
package coerce

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Float reads v as a finite float64, returning fallback when v is nil,
// unparseable, NaN or infinite.
func Float(v any, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || !Finite(f) {
		return fallback
	}
	return f
}

// Int reads v as an int, returning fallback when v is nil or unparseable.
// Floats are truncated toward zero. Strings are always decimal, so "012" is
// 12 and "0x10" falls back.
func Int(v any, fallback int) int {
	if v == nil {
		return fallback
	}
	switch f := v.(type) {
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(f), 10, 0)
		if err != nil {
			return fallback
		}
		return int(i)
	case float64:
		if !Finite(f) {
			return fallback
		}
	case float32:
		if !Finite(float64(f)) {
			return fallback
		}
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return fallback
	}
	return i
}

// Ceiling reads a credit ceiling. Missing, unparseable, zero or negative
// limits all become 1.0 so that ratios against it stay defined.
func Ceiling(v any) float64 {
	switch p := v.(type) {
	case *float64:
		if p == nil {
			return 1.0
		}
		v = *p
	}
	f := Float(v, 1.0)
	if f <= 0 {
		return 1.0
	}
	return f
}

// Sum adds the values, falling back to 0.0 for the whole sum as soon as one
// of them is not a finite number.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		if !Finite(v) {
			return 0.0
		}
		total += v
	}
	if !Finite(total) {
		return 0.0
	}
	return total
}

func Finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
