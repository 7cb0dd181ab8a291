package dispatch

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrDuplicateOperator is returned by Register for a kind that already has a factory.
	ErrDuplicateOperator = errors.New("operator already registered")

	// ErrRegistryFrozen is returned by Register and Replace after Freeze.
	ErrRegistryFrozen = errors.New("registry is frozen")
)

// UnsupportedOperatorError is returned for an operator kind with no registered factory.
type UnsupportedOperatorError struct {
	Kind OperatorKind
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported operator: no closure factory registered for %s", e.Kind)
}
