// Package validate holds the numeric predicates applied to workout form input.
package validate

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// AllPositive reports whether every value is strictly greater than zero.
// An empty input is vacuously positive.
func AllPositive(values ...float64) bool {
	for _, v := range values {
		if !(v > 0) {
			return false
		}
	}
	return true
}

// AllFinite reports whether every value is a finite number. NaN and both
// infinities are rejected. An empty input is vacuously finite.
func AllFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ParseNumber converts raw form text into a number the way a browser numeric
// coercion does: surrounding whitespace is ignored, blank input is zero, and
// anything that does not parse is NaN. It never fails.
func ParseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return v
		}
		return math.NaN()
	}
	if math.IsInf(v, 0) {
		// only the spellings handled above denote infinity
		return math.NaN()
	}
	return v
}
