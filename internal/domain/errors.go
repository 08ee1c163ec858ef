package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrInvalidDocument = errors.New("invalid .crd document")

	// ErrLastTab is returned when closing the only remaining tab.
	ErrLastTab = errors.New("cannot close the last tab")

	// ErrCloseCancelled is returned when the user declines to discard
	// unsaved changes.
	ErrCloseCancelled = errors.New("close cancelled")

	// ErrDeleteCancelled is returned when the user declines to delete an
	// element and its children.
	ErrDeleteCancelled = errors.New("delete cancelled")

	// ErrCyclicMove is returned when an element would be moved into its own
	// subtree.
	ErrCyclicMove = errors.New("cannot move an element into its own subtree")
)

// ValidationError indicates invalid user input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is allows errors.Is() to match against ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
