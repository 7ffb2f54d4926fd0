package validate

import (
	"math"
	"testing"
)

// TestEmptyInputsAreVacuouslyValid verifies both predicates accept an empty
// set of values.
func TestEmptyInputsAreVacuouslyValid(t *testing.T) {
	if !AllPositive() {
		t.Error("AllPositive() = false, want true")
	}
	if !AllFinite() {
		t.Error("AllFinite() = false, want true")
	}
}

func TestAllPositive(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   bool
	}{
		{"all positive", []float64{5, 30, 180}, true},
		{"zero", []float64{5, 30, 0}, false},
		{"negative", []float64{-5, 30, 180}, false},
		{"nan", []float64{math.NaN()}, false},
		{"tiny", []float64{math.SmallestNonzeroFloat64}, true},
		{"positive infinity", []float64{math.Inf(1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllPositive(tt.values...); got != tt.want {
				t.Errorf("AllPositive(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestAllFinite(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   bool
	}{
		{"finite", []float64{20, 60, -50}, true},
		{"zero", []float64{0}, true},
		{"nan", []float64{1, math.NaN()}, false},
		{"positive infinity", []float64{math.Inf(1)}, false},
		{"negative infinity", []float64{math.Inf(-1), 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllFinite(tt.values...); got != tt.want {
				t.Errorf("AllFinite(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

// TestParseNumber verifies the coercion rules used for raw form fields.
func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		nan  bool
	}{
		{raw: "5", want: 5},
		{raw: " 12.5 ", want: 12.5},
		{raw: "-50", want: -50},
		{raw: "", want: 0},
		{raw: "   ", want: 0},
		{raw: "1e3", want: 1000},
		{raw: "abc", nan: true},
		{raw: "5km", nan: true},
		{raw: "NaN", nan: true},
		{raw: "inf", nan: true},
	}
	for _, tt := range tests {
		got := ParseNumber(tt.raw)
		if tt.nan {
			if !math.IsNaN(got) {
				t.Errorf("ParseNumber(%q) = %v, want NaN", tt.raw, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}

	if got := ParseNumber("Infinity"); !math.IsInf(got, 1) {
		t.Errorf("ParseNumber(Infinity) = %v, want +Inf", got)
	}
	if AllFinite(ParseNumber("Infinity")) {
		t.Error("coerced Infinity should not pass AllFinite")
	}
}
