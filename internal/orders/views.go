// Package orders is the read side of order management: the lists and counters
// the rep and admin screens poll.
package orders

import (
	"context"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/lifecycle"
	"github.com/joao-fontenele/salesdesk/internal/store"
)

// AdminOrder is an order as the admin screen shows it, with its rep's name.
type AdminOrder struct {
	domain.Order
	SalesRepName string `json:"sales_rep_name"`
}

// Summary counts the orders admins can see, per status.
type Summary struct {
	Pending int `json:"pending"`
	Printed int `json:"printed"`
	Deleted int `json:"deleted"`
}

type Views struct {
	repos store.Repos
}

func NewViews(repos store.Repos) *Views {
	return &Views{repos: repos}
}

// matches applies the status filter. Without one, trashed orders are left out;
// the trash is listed by asking for status deleted explicitly.
func matches(o domain.Order, status domain.OrderStatus) bool {
	if status == "" {
		return o.Status != domain.OrderStatusDeleted
	}
	return o.Status == status
}

// ForRep lists the rep's own orders newest first.
func (v *Views) ForRep(ctx context.Context, repID string, status domain.OrderStatus) ([]domain.Order, error) {
	all, err := v.repos.Orders().ListBySalesRep(ctx, repID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(all))
	for _, o := range all {
		if matches(o, status) {
			out = append(out, o)
		}
	}
	return out, nil
}

// ForAdmin lists every non-draft order newest first.
func (v *Views) ForAdmin(ctx context.Context, status domain.OrderStatus) ([]AdminOrder, error) {
	if status == domain.OrderStatusDraft {
		return []AdminOrder{}, nil
	}

	all, err := v.repos.Orders().List(ctx)
	if err != nil {
		return nil, err
	}
	reps, err := v.repNames(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]AdminOrder, 0, len(all))
	for _, o := range all {
		if o.Status == domain.OrderStatusDraft || !matches(o, status) {
			continue
		}
		out = append(out, AdminOrder{Order: o, SalesRepName: reps[o.SalesRepID]})
	}
	return out, nil
}

func (v *Views) Summary(ctx context.Context) (Summary, error) {
	all, err := v.repos.Orders().List(ctx)
	if err != nil {
		return Summary{}, err
	}

	var s Summary
	for _, o := range all {
		switch o.Status {
		case domain.OrderStatusPending:
			s.Pending++
		case domain.OrderStatusPrinted:
			s.Printed++
		case domain.OrderStatusDeleted:
			s.Deleted++
		}
	}
	return s, nil
}

// Get returns the order if actor may see it, nil otherwise.
func (v *Views) Get(ctx context.Context, actor *domain.User, id string) (*domain.Order, error) {
	o, err := v.repos.Orders().Get(ctx, id)
	if err != nil || o == nil {
		return nil, err
	}
	if !lifecycle.Visible(actor, o) {
		return nil, nil
	}
	return o, nil
}

func (v *Views) repNames(ctx context.Context) (map[string]string, error) {
	reps, err := v.repos.Users().ListByRole(ctx, domain.RoleSalesRep)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(reps))
	for _, r := range reps {
		names[r.ID] = r.DisplayName()
	}
	return names, nil
}
