package core

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is matched by every InvalidParameterError via errors.Is.
var ErrInvalidParameter = errors.New("invalid parameter")

// InvalidParameterError reports a parameter record that was rejected before
// any simulation step ran.
type InvalidParameterError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

func invalid(field string, value any, reason string) error {
	return &InvalidParameterError{Field: field, Value: value, Reason: reason}
}

// WarningCode identifies a non-fatal condition raised while deriving KPIs.
type WarningCode string

const (
	// WarnDivisionGuarded marks a zero-capacity wait estimate that was
	// replaced by the horizon cap instead of dividing by zero.
	WarnDivisionGuarded WarningCode = "division_guarded"

	// WarnDivergingQueue marks a scenario whose arrivals exceed capacity,
	// which inflates the wait estimate by WaitEscalationFactor.
	WarnDivergingQueue WarningCode = "diverging_queue"
)

type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
