package solver

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per failure kind. Match them with errors.Is; the
// *CircuitError returned by Solve carries the message meant for users.
var (
	ErrInvalidTopology      = errors.New("solver: invalid topology")
	ErrEmptyResistanceList  = errors.New("solver: empty resistance list")
	ErrTooManyComponents    = errors.New("solver: too many components")
	ErrInvalidResistance    = errors.New("solver: invalid resistance")
	ErrInvalidSourceVoltage = errors.New("solver: invalid source voltage")
	ErrDivisionByZero       = errors.New("solver: division by zero")
	ErrDegenerateCircuit    = errors.New("solver: degenerate circuit")
	ErrComputation          = errors.New("solver: computation error")
)

// CircuitError is the failure outcome of Solve. It never comes with a
// partial result.
type CircuitError struct {
	Err     error  // one of the sentinels above
	Index   int    // 1-based resistor index for ErrInvalidResistance, else 0
	Message string // human-readable diagnostic, safe to show verbatim
}

func (e *CircuitError) Error() string {
	return e.Message
}

func (e *CircuitError) Unwrap() error {
	return e.Err
}

// Code returns a stable snake_case identifier for the failure kind.
func (e *CircuitError) Code() string {
	return Code(e.Err)
}

// Code maps err to a stable snake_case identifier. Errors outside the
// solver taxonomy map to "internal".
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidTopology):
		return "invalid_topology"
	case errors.Is(err, ErrEmptyResistanceList):
		return "empty_resistance_list"
	case errors.Is(err, ErrTooManyComponents):
		return "too_many_components"
	case errors.Is(err, ErrInvalidResistance):
		return "invalid_resistance"
	case errors.Is(err, ErrInvalidSourceVoltage):
		return "invalid_source_voltage"
	case errors.Is(err, ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, ErrDegenerateCircuit):
		return "degenerate_circuit"
	case errors.Is(err, ErrComputation):
		return "computation_error"
	default:
		return "internal"
	}
}

func invalidTopology(t Topology) *CircuitError {
	return &CircuitError{
		Err:     ErrInvalidTopology,
		Message: fmt.Sprintf("invalid circuit topology %q: use %q or %q", string(t), Series, Parallel),
	}
}

func emptyResistanceList() *CircuitError {
	return &CircuitError{
		Err:     ErrEmptyResistanceList,
		Message: "the resistance list must be a non-empty sequence",
	}
}

func tooManyComponents(n int) *CircuitError {
	return &CircuitError{
		Err:     ErrTooManyComponents,
		Message: fmt.Sprintf("maximum number of resistors allowed: %d (got %d)", MaxComponents, n),
	}
}

func invalidResistance(index int) *CircuitError {
	return &CircuitError{
		Err:     ErrInvalidResistance,
		Index:   index,
		Message: fmt.Sprintf("resistance R%d is invalid: it must be numeric and >= %g", index, MinResistance),
	}
}

func invalidSourceVoltage() *CircuitError {
	return &CircuitError{
		Err:     ErrInvalidSourceVoltage,
		Message: "source voltage is invalid: it must be numeric and greater than 0",
	}
}

func divisionByZero(index int) *CircuitError {
	return &CircuitError{
		Err:     ErrDivisionByZero,
		Index:   index,
		Message: fmt.Sprintf("resistance R%d is 0, which is not valid in parallel", index),
	}
}

func degenerateCircuit() *CircuitError {
	return &CircuitError{
		Err:     ErrDegenerateCircuit,
		Message: "parallel calculation error: the sum of inverse resistances is zero",
	}
}

func computationError(msg string) *CircuitError {
	return &CircuitError{
		Err:     ErrComputation,
		Message: msg,
	}
}
