package lifecycle

import (
	"errors"
	"fmt"

	"github.com/joao-fontenele/salesdesk/internal/domain"
)

var (
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrOrderNotFound     = errors.New("order not found")
	ErrForbidden         = errors.New("action not permitted")
	ErrConflict          = errors.New("order was changed concurrently")
)

// InvalidTransitionError names a (from, to) pair missing from the transition
// table. It matches ErrInvalidTransition with errors.Is.
type InvalidTransitionError struct {
	From domain.OrderStatus
	To   domain.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	from := string(e.From)
	if from == "" {
		from = "none"
	}
	return fmt.Sprintf("cannot move order from %s to %s", from, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ValidationError carries a message meant for the person who filled the form.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }
