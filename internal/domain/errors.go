package domain

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidDimension is returned when a primitive's scalar inputs are non-physical
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrInvalidSpec is returned when the derived frame layout is geometrically inconsistent
	ErrInvalidSpec = errors.New("invalid spec")
)

// DimensionError reports the primitive field that failed validation
type DimensionError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("invalid dimension: %s=%g: %s", e.Field, e.Value, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidDimension)
func (e *DimensionError) Unwrap() error {
	return ErrInvalidDimension
}

// SpecError reports the FrameSpec field whose derived layout is out of bounds
type SpecError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("invalid spec: %s=%g: %s", e.Field, e.Value, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidSpec)
func (e *SpecError) Unwrap() error {
	return ErrInvalidSpec
}

func dimensionError(field string, value float64, reason string) error {
	return &DimensionError{Field: field, Value: value, Reason: reason}
}

func specError(field string, value float64, reason string) error {
	return &SpecError{Field: field, Value: value, Reason: reason}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
