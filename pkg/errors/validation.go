package errors

import (
	"math"
	"strings"
)

// ValidateIndex checks that i addresses one of n elements.
// what names the referencing field in the error message (e.g. "link 3 source").
func ValidateIndex(what string, i, n int) error {
	if i < 0 || i >= n {
		return New(ErrCodeIndexOutOfRange, "%s: index %d not in [0,%d)", what, i, n)
	}
	return nil
}

// ValidateFinite rejects NaN and infinite values.
func ValidateFinite(what string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", what, v)
	}
	return nil
}

// ValidateNonNegative rejects NaN and negative values. +Inf is allowed.
func ValidateNonNegative(what string, v float64) error {
	if math.IsNaN(v) || v < 0 {
		return New(ErrCodeInvalidInput, "%s must be non-negative, got %v", what, v)
	}
	return nil
}

// ValidatePositive rejects NaN, zero, negative, and infinite values.
func ValidatePositive(what string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be a positive finite number, got %v", what, v)
	}
	return nil
}

// ValidateAxis normalizes and validates an axis name against the number of
// layout dimensions. It returns the dimension index (x=0, y=1, z=2).
func ValidateAxis(axis string, dims int) (int, error) {
	var d int
	switch strings.ToLower(strings.TrimSpace(axis)) {
	case "x":
		d = 0
	case "y":
		d = 1
	case "z":
		d = 2
	default:
		return -1, New(ErrCodeInvalidAxis, "unknown axis %q (must be one of: x, y, z)", axis)
	}
	if d >= dims {
		return -1, New(ErrCodeInvalidAxis, "axis %q not available in a %d-dimensional layout", axis, dims)
	}
	return d, nil
}

// ValidateSquareMatrix checks that m is an n×n matrix.
func ValidateSquareMatrix(what string, m [][]float64, n int) error {
	if len(m) != n {
		return New(ErrCodeDimensionMismatch, "%s has %d rows, want %d", what, len(m), n)
	}
	for i, row := range m {
		if len(row) != n {
			return New(ErrCodeDimensionMismatch, "%s row %d has %d columns, want %d", what, i, len(row), n)
		}
	}
	return nil
}
