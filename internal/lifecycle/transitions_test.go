package lifecycle

import (
	"errors"
	"testing"

	"github.com/joao-fontenele/salesdesk/internal/domain"
)

func TestCheckTransition(t *testing.T) {
	const (
		rep   = domain.RoleSalesRep
		admin = domain.RoleAdmin
	)

	tests := []struct {
		name string
		from domain.OrderStatus
		to   domain.OrderStatus
		role domain.Role
		want error
	}{
		{"rep saves draft", StatusNone, domain.OrderStatusDraft, rep, nil},
		{"rep submits", StatusNone, domain.OrderStatusPending, rep, nil},
		{"admin cannot create", StatusNone, domain.OrderStatusPending, admin, ErrForbidden},
		{"rep sends draft", domain.OrderStatusDraft, domain.OrderStatusPending, rep, nil},
		{"admin prints", domain.OrderStatusPending, domain.OrderStatusPrinted, admin, nil},
		{"rep cannot print", domain.OrderStatusPending, domain.OrderStatusPrinted, rep, ErrForbidden},
		{"rep trashes printed", domain.OrderStatusPrinted, domain.OrderStatusDeleted, rep, nil},
		{"admin trashes printed", domain.OrderStatusPrinted, domain.OrderStatusDeleted, admin, nil},
		{"admin trashes pending", domain.OrderStatusPending, domain.OrderStatusDeleted, admin, nil},
		{"rep cannot trash pending", domain.OrderStatusPending, domain.OrderStatusDeleted, rep, ErrForbidden},
		{"restore as rep", domain.OrderStatusDeleted, domain.OrderStatusPending, rep, nil},
		{"restore as admin", domain.OrderStatusDeleted, domain.OrderStatusPending, admin, nil},
		{"draft cannot be trashed", domain.OrderStatusDraft, domain.OrderStatusDeleted, rep, ErrInvalidTransition},
		{"restore never returns to printed", domain.OrderStatusDeleted, domain.OrderStatusPrinted, admin, ErrInvalidTransition},
		{"printed cannot go back", domain.OrderStatusPrinted, domain.OrderStatusPending, admin, ErrInvalidTransition},
		{"nothing reaches completed", domain.OrderStatusPrinted, domain.OrderStatusCompleted, admin, ErrInvalidTransition},
		{"no self loop", domain.OrderStatusPending, domain.OrderStatusPending, rep, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTransition(tt.from, tt.to, tt.role)
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestInvalidTransitionError(t *testing.T) {
	err := CheckTransition(domain.OrderStatusDeleted, domain.OrderStatusPrinted, domain.RoleAdmin)

	var ite *InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("expected *InvalidTransitionError, got %T", err)
	}
	if ite.From != domain.OrderStatusDeleted || ite.To != domain.OrderStatusPrinted {
		t.Errorf("unexpected pair %s -> %s", ite.From, ite.To)
	}
	if got := (&InvalidTransitionError{To: domain.OrderStatusPending}).Error(); got != "cannot move order from none to pending" {
		t.Errorf("unexpected message: %s", got)
	}
}
