package cost

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateCostFunction is returned when a name or operator type is
	// already registered.
	ErrDuplicateCostFunction = errors.New("duplicate cost function")

	// ErrNoCostFunction is returned when no formula exists for an operator type.
	ErrNoCostFunction = errors.New("no cost function")

	// ErrMissingVariable is matched by every MissingVariableError.
	ErrMissingVariable = errors.New("missing variable")

	// ErrFormulaEvaluation is matched by every EvaluationError.
	ErrFormulaEvaluation = errors.New("formula evaluation error")

	// ErrInvalidFormula is returned for incomplete records and syntax errors.
	ErrInvalidFormula = errors.New("invalid formula")
)

// MissingVariableError lists variables a formula references but the
// caller did not bind.
type MissingVariableError struct {
	Type  string
	Names []string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("%s: cost function for %q needs %s",
		ErrMissingVariable, e.Type, strings.Join(e.Names, ", "))
}

// Is makes errors.Is(err, ErrMissingVariable) hold.
func (e *MissingVariableError) Is(target error) bool {
	return target == ErrMissingVariable
}

// EvaluationError wraps a fault raised while running a formula.
type EvaluationError struct {
	Type string
	Err  error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s: cost function for %q: %v", ErrFormulaEvaluation, e.Type, e.Err)
}

// Unwrap returns the underlying fault.
func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrFormulaEvaluation) hold.
func (e *EvaluationError) Is(target error) bool {
	return target == ErrFormulaEvaluation
}

// errDivisionByZero is the cause for / and % by zero.
var errDivisionByZero = errors.New("division by zero")
