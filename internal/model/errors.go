package model

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrValidation marks a configuration field outside its documented range.
	ErrValidation = errors.New("invalid system configuration")

	// ErrComputation marks a numerically invalid intermediate (NaN or Inf).
	// Factor clamping keeps this unreachable; seeing it means a defect.
	ErrComputation = errors.New("degradation computation produced an invalid number")
)

// ValidationError names the offending field and its valid range.
type ValidationError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
	// Hint is an optional remedy, e.g. pointing at a percent-valued alternative.
	Hint string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s out of range: %s (valid: %s-%s)",
		e.Field, fmtNum(e.Value), fmtNum(e.Min), fmtNum(e.Max))
	if e.Hint != "" {
		msg += "; " + e.Hint
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ComputationError carries the quantity and simulated year that went bad.
type ComputationError struct {
	Year     int
	Quantity string
	Value    float64
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("year %d: %s is %v", e.Year, e.Quantity, e.Value)
}

func (e *ComputationError) Unwrap() error { return ErrComputation }

func fmtNum(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
