package operator

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOperator is returned when no spec has the requested name.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrDuplicateOperator is returned when inserting a name twice.
	ErrDuplicateOperator = errors.New("duplicate operator")

	// ErrParameterTypeMismatch is matched by every ParamTypeError.
	ErrParameterTypeMismatch = errors.New("parameter type mismatch")
)

// ParamTypeError describes a parameter that does not satisfy its schema.
type ParamTypeError struct {
	Operator string
	Field    string
	Expected string
	Actual   string
}

func (e *ParamTypeError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("%s: parameter %q is not declared by operator %q",
			ErrParameterTypeMismatch, e.Field, e.Operator)
	}
	return fmt.Sprintf("%s: operator %q parameter %q expects %s, got %s",
		ErrParameterTypeMismatch, e.Operator, e.Field, e.Expected, e.Actual)
}

// Is makes errors.Is(err, ErrParameterTypeMismatch) hold.
func (e *ParamTypeError) Is(target error) bool {
	return target == ErrParameterTypeMismatch
}
