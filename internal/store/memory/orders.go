package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/store"
)

type orderRepo struct{ repos }

func orderCreated(o domain.Order) time.Time { return o.CreatedAt }

func (r orderRepo) List(ctx context.Context) ([]domain.Order, error) {
	defer r.read()()
	return r.withItems(newestFirst(filter(r.s.t.orders, nil), orderCreated)), nil
}

func (r orderRepo) ListBySalesRep(ctx context.Context, salesRepID string) ([]domain.Order, error) {
	defer r.read()()
	orders := filter(r.s.t.orders, func(o domain.Order) bool { return o.SalesRepID == salesRepID })
	return r.withItems(newestFirst(orders, orderCreated)), nil
}

func (r orderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	defer r.read()()
	return r.get(id), nil
}

func (r orderRepo) get(id string) *domain.Order {
	o, ok := r.s.t.orders[id]
	if !ok {
		return nil
	}
	r.attach(&o)
	return &o
}

func (r orderRepo) withItems(orders []domain.Order) []domain.Order {
	for i := range orders {
		r.attach(&orders[i])
	}
	return orders
}

func (r orderRepo) attach(o *domain.Order) {
	items := filter(r.s.t.items, func(i domain.OrderItem) bool { return i.OrderID == o.ID })
	slices.SortFunc(items, func(a, b domain.OrderItem) int {
		return cmp.Compare(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	})
	o.Items = items
	o.Images = slices.Clone(o.Images)
}

func (r orderRepo) Create(ctx context.Context, order *domain.Order) error {
	defer r.write()()
	order.ID = uuid.New().String()
	order.CreatedAt = r.s.stamp()
	order.Items = r.insertItems(order.ID, order.Items)

	row := *order
	row.Items = nil
	row.Images = slices.Clone(order.Images)
	r.s.t.orders[order.ID] = row
	return nil
}

func (r orderRepo) insertItems(orderID string, items []domain.OrderItem) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		item.ID = uuid.New().String()
		item.OrderID = orderID
		item.CreatedAt = r.s.stamp()
		r.s.t.items[item.ID] = item
		out = append(out, item)
	}
	return out
}

func (r orderRepo) deleteItems(orderID string) {
	for id, item := range r.s.t.items {
		if item.OrderID == orderID {
			delete(r.s.t.items, id)
		}
	}
}

func (r orderRepo) ReplaceDraft(ctx context.Context, id string, content domain.OrderContent) (*domain.Order, error) {
	defer r.write()()
	o, ok := r.s.t.orders[id]
	if !ok {
		return nil, nil
	}
	if o.Status != domain.OrderStatusDraft {
		return nil, store.ErrConflict
	}

	r.deleteItems(id)
	content.Items = r.insertItems(id, content.Items)
	content.Images = slices.Clone(content.Images)
	o.SetContent(content)
	o.Items = nil
	r.s.t.orders[id] = o
	return r.get(id), nil
}

func (r orderRepo) Transition(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	defer r.write()()
	o, ok := r.s.t.orders[id]
	if !ok {
		return nil, nil
	}
	if o.Status != from {
		return nil, store.ErrConflict
	}
	o.Status = to
	r.s.t.orders[id] = o
	return r.get(id), nil
}

func (r orderRepo) Delete(ctx context.Context, id string) (bool, error) {
	defer r.write()()
	if _, ok := r.s.t.orders[id]; !ok {
		return false, nil
	}
	r.deleteItems(id)
	delete(r.s.t.orders, id)
	return true, nil
}
