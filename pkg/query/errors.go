package query

import (
	"errors"
	"fmt"
)

// Sentinel errors returned while building or rendering a query.
var (
	ErrUnsupportedOperator = errors.New("unsupported operator")
	ErrUnsupportedValue    = errors.New("unsupported value")
	ErrMixedFilter         = errors.New("explicit conditions cannot be added to an equality filter")
	ErrInvalidWindow       = errors.New("invalid window")
	ErrIndexModeClause     = errors.New("index listing does not support ORDER BY, LIMIT or OFFSET")
	ErrEmptyColumn         = errors.New("column name is empty")
	ErrEmptyTable          = errors.New("table name is empty")
)

// OperatorError reports an operator outside the supported set.
type OperatorError struct {
	Operator string
}

func (e *OperatorError) Error() string {
	return fmt.Sprintf("unsupported operator %q", e.Operator)
}

// Unwrap returns ErrUnsupportedOperator.
func (e *OperatorError) Unwrap() error {
	return ErrUnsupportedOperator
}

// ValueError reports a value that cannot be used for a column, either because
// its Go type has no SQL representation or because the operator does not
// accept it.
type ValueError struct {
	Column string
	Reason string
}

func (e *ValueError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("unsupported value: %s", e.Reason)
	}
	return fmt.Sprintf("unsupported value for column %s: %s", e.Column, e.Reason)
}

// Unwrap returns ErrUnsupportedValue.
func (e *ValueError) Unwrap() error {
	return ErrUnsupportedValue
}
