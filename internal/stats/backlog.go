package stats

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/joao-fontenele/salesdesk/internal/changes"
	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/store"
)

// Backlog keeps the number of pending orders current by recounting whenever an
// order changes.
type Backlog struct {
	orders  store.OrderRepository
	logger  *slog.Logger
	pending atomic.Int64
}

func NewBacklog(orders store.OrderRepository, logger *slog.Logger) *Backlog {
	return &Backlog{orders: orders, logger: logger}
}

func (b *Backlog) Pending() int64 { return b.pending.Load() }

// Watch counts once and then recounts on every order change until ctx is done.
func (b *Backlog) Watch(ctx context.Context, sub changes.Subscriber) error {
	if err := b.Recount(ctx); err != nil {
		return err
	}
	return sub.OnChange(ctx, domain.EntityOrders, func(ctx context.Context, _ domain.ChangeEvent) {
		if err := b.Recount(ctx); err != nil {
			b.logger.Warn("failed to recount pending orders", "error", err)
		}
	})
}

func (b *Backlog) Recount(ctx context.Context) error {
	all, err := b.orders.List(ctx)
	if err != nil {
		return err
	}
	var n int64
	for _, o := range all {
		if o.Status == domain.OrderStatusPending {
			n++
		}
	}
	b.pending.Store(n)
	return nil
}
