package lifecycle

import (
	"slices"

	"github.com/joao-fontenele/salesdesk/internal/domain"
)

// StatusNone is the "from" state of an order that does not exist yet.
const StatusNone domain.OrderStatus = ""

type rule struct {
	from, to domain.OrderStatus
	roles    []domain.Role
}

var (
	repOnly   = []domain.Role{domain.RoleSalesRep}
	adminOnly = []domain.Role{domain.RoleAdmin}
	anyRole   = []domain.Role{domain.RoleSalesRep, domain.RoleAdmin}
)

// Completed is deliberately absent: nothing moves an order there.
var table = []rule{
	{StatusNone, domain.OrderStatusDraft, repOnly},
	{StatusNone, domain.OrderStatusPending, repOnly},
	{domain.OrderStatusDraft, domain.OrderStatusPending, repOnly},
	{domain.OrderStatusPending, domain.OrderStatusPrinted, adminOnly},
	{domain.OrderStatusPrinted, domain.OrderStatusDeleted, anyRole},
	{domain.OrderStatusPending, domain.OrderStatusDeleted, adminOnly},
	{domain.OrderStatusDeleted, domain.OrderStatusPending, anyRole},
}

// CheckTransition is the single gate for status changes. A pair outside the
// table is an *InvalidTransitionError; a listed pair the role may not perform is
// ErrForbidden.
func CheckTransition(from, to domain.OrderStatus, role domain.Role) error {
	i := slices.IndexFunc(table, func(r rule) bool { return r.from == from && r.to == to })
	if i < 0 {
		return &InvalidTransitionError{From: from, To: to}
	}
	if !slices.Contains(table[i].roles, role) {
		return ErrForbidden
	}
	return nil
}
