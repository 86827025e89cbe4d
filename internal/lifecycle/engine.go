// Package lifecycle owns the order status machine. Every status change goes
// through CheckTransition and a conditional store write, and the notifications a
// change produces are written in the same transaction as the change itself.
package lifecycle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/joao-fontenele/salesdesk/internal/changes"
	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/store"
	"github.com/joao-fontenele/salesdesk/internal/telemetry"
)

// Engine runs order commands: creation, draft edits and status changes.
type Engine struct {
	store     store.Store
	publisher changes.Publisher
	metrics   *telemetry.OrderMetrics
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithPublisher sets where committed changes are announced. The default
// discards them.
func WithPublisher(p changes.Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// WithMetrics counts transitions and created notifications on m.
func WithMetrics(m *telemetry.OrderMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine returns an Engine over st. Without options it publishes and logs
// nothing.
func NewEngine(st store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:     st,
		publisher: changes.Discard,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// outcome is what a committed command still has to announce.
type outcome struct {
	order         *domain.Order
	from          domain.OrderStatus
	notifications []domain.Notification
}

func (e *Engine) SaveDraft(ctx context.Context, rep *domain.User, in NewOrder) (*domain.Order, error) {
	return e.create(ctx, rep, in, domain.OrderStatusDraft)
}

// Submit creates an order directly in pending. Submitting twice creates two
// orders and notifies the admins twice.
func (e *Engine) Submit(ctx context.Context, rep *domain.User, in NewOrder) (*domain.Order, error) {
	return e.create(ctx, rep, in, domain.OrderStatusPending)
}

func (e *Engine) create(ctx context.Context, rep *domain.User, in NewOrder, status domain.OrderStatus) (*domain.Order, error) {
	if err := CheckTransition(StatusNone, status, rep.Role); err != nil {
		return nil, err
	}

	var out outcome
	err := e.store.WithinTx(ctx, func(tx store.Repos) error {
		content, err := resolve(ctx, tx, rep, in)
		if err != nil {
			return err
		}

		order := &domain.Order{SalesRepID: rep.ID, Status: status}
		order.SetContent(content)
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		out = outcome{order: order, from: StatusNone}

		if status == domain.OrderStatusPending {
			out.notifications, err = notifyAdmins(ctx, tx, rep, order)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	e.announce(ctx, out)
	e.logger.Info("order created", "order_id", out.order.ID, "sales_rep_id", rep.ID, "status", status)
	return out.order, nil
}

// UpdateDraft replaces the content of one of rep's drafts.
func (e *Engine) UpdateDraft(ctx context.Context, rep *domain.User, orderID string, in NewOrder) (*domain.Order, error) {
	var updated *domain.Order
	err := e.store.WithinTx(ctx, func(tx store.Repos) error {
		order, err := e.load(ctx, tx, rep, orderID)
		if err != nil {
			return err
		}
		if order.Status != domain.OrderStatusDraft {
			return &InvalidTransitionError{From: order.Status, To: domain.OrderStatusDraft}
		}

		content, err := resolve(ctx, tx, rep, in)
		if err != nil {
			return err
		}
		updated, err = tx.Orders().ReplaceDraft(ctx, orderID, content)
		return e.storeErr(updated, err)
	})
	if err != nil {
		return nil, err
	}

	e.publish(ctx, e.orderEvent(updated))
	e.logger.Info("draft updated", "order_id", orderID)
	return updated, nil
}

func (e *Engine) SendDraft(ctx context.Context, rep *domain.User, orderID string) (*domain.Order, error) {
	return e.transition(ctx, rep, orderID, domain.OrderStatusDraft, domain.OrderStatusPending)
}

func (e *Engine) MarkPrinted(ctx context.Context, admin *domain.User, orderID string) (*domain.Order, error) {
	return e.transition(ctx, admin, orderID, anyFrom, domain.OrderStatusPrinted)
}

func (e *Engine) MoveToTrash(ctx context.Context, actor *domain.User, orderID string) (*domain.Order, error) {
	return e.transition(ctx, actor, orderID, anyFrom, domain.OrderStatusDeleted)
}

// Restore brings a trashed order back to pending whatever it was before, and
// notifies nobody.
func (e *Engine) Restore(ctx context.Context, actor *domain.User, orderID string) (*domain.Order, error) {
	return e.transition(ctx, actor, orderID, domain.OrderStatusDeleted, domain.OrderStatusPending)
}

// anyFrom lets the table alone decide which current states may reach the target.
const anyFrom domain.OrderStatus = "*"

// transition moves orderID to `to`. A command that is only meaningful from one
// state passes it as want; such commands must not be usable as a shortcut into
// another row of the table that shares the same target.
func (e *Engine) transition(ctx context.Context, actor *domain.User, orderID string, want, to domain.OrderStatus) (*domain.Order, error) {
	var out outcome
	err := e.store.WithinTx(ctx, func(tx store.Repos) error {
		order, err := e.load(ctx, tx, actor, orderID)
		if err != nil {
			return err
		}

		from := order.Status
		if want != anyFrom && from != want {
			return &InvalidTransitionError{From: from, To: to}
		}
		if err := CheckTransition(from, to, actor.Role); err != nil {
			return err
		}

		moved, err := tx.Orders().Transition(ctx, orderID, from, to)
		if err := e.storeErr(moved, err); err != nil {
			return err
		}
		out = outcome{order: moved, from: from}

		switch {
		case to == domain.OrderStatusPending && from == domain.OrderStatusDraft:
			owner, err := e.owner(ctx, tx, actor, moved)
			if err != nil {
				return err
			}
			out.notifications, err = notifyAdmins(ctx, tx, owner, moved)
			return err
		case to == domain.OrderStatusPrinted:
			out.notifications, err = notifyRep(ctx, tx, moved)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.announce(ctx, out)
	e.logger.Info("order status changed",
		"order_id", orderID, "from", out.from, "to", to, "actor_id", actor.ID)
	return out.order, nil
}

// PermanentDelete removes the order and its items. Deleting an order that is
// already gone reports false without error.
func (e *Engine) PermanentDelete(ctx context.Context, actor *domain.User, orderID string) (bool, error) {
	var deleted bool
	err := e.store.WithinTx(ctx, func(tx store.Repos) error {
		order, err := e.load(ctx, tx, actor, orderID)
		if errors.Is(err, ErrOrderNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		deleted, err = tx.Orders().Delete(ctx, order.ID)
		return err
	})
	if err != nil || !deleted {
		return false, err
	}

	e.publish(ctx, domain.ChangeEvent{
		Entity:    domain.EntityOrders,
		EntityID:  orderID,
		Timestamp: e.now().UTC(),
	})
	e.logger.Info("order permanently deleted", "order_id", orderID, "actor_id", actor.ID)
	return true, nil
}

// load fetches an order the actor is allowed to see. Reps see only their own
// orders and admins never see drafts; anything else reads as not found.
func (e *Engine) load(ctx context.Context, tx store.Repos, actor *domain.User, orderID string) (*domain.Order, error) {
	order, err := tx.Orders().Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || !Visible(actor, order) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// Visible reports whether actor may see order at all.
func Visible(actor *domain.User, order *domain.Order) bool {
	switch actor.Role {
	case domain.RoleSalesRep:
		return order.SalesRepID == actor.ID
	case domain.RoleAdmin:
		return order.Status != domain.OrderStatusDraft
	}
	return false
}

func (e *Engine) owner(ctx context.Context, tx store.Repos, actor *domain.User, order *domain.Order) (*domain.User, error) {
	if actor.ID == order.SalesRepID {
		return actor, nil
	}
	rep, err := tx.Users().Get(ctx, order.SalesRepID)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return &domain.User{ID: order.SalesRepID}, nil
	}
	return rep, nil
}

// storeErr maps the outcome of a conditional order write.
func (e *Engine) storeErr(order *domain.Order, err error) error {
	switch {
	case errors.Is(err, store.ErrConflict):
		return ErrConflict
	case err != nil:
		return err
	case order == nil:
		return ErrOrderNotFound
	}
	return nil
}

func (e *Engine) orderEvent(order *domain.Order) domain.ChangeEvent {
	return domain.ChangeEvent{
		Entity:    domain.EntityOrders,
		EntityID:  order.ID,
		UserID:    order.SalesRepID,
		Status:    order.Status,
		Timestamp: e.now().UTC(),
	}
}

// announce records metrics and publishes change events for a committed command.
func (e *Engine) announce(ctx context.Context, out outcome) {
	e.metrics.Transition(ctx, out.from, out.order.Status)
	e.publish(ctx, e.orderEvent(out.order))

	if len(out.notifications) == 0 {
		return
	}
	e.metrics.NotificationsCreated(ctx, out.notifications[0].Type, len(out.notifications))

	recipients := make([]string, 0, len(out.notifications))
	for _, n := range out.notifications {
		if slices.Contains(recipients, n.UserID) {
			continue
		}
		recipients = append(recipients, n.UserID)
		e.publish(ctx, domain.ChangeEvent{
			Entity:    domain.EntityNotifications,
			EntityID:  n.ID,
			UserID:    n.UserID,
			Timestamp: n.CreatedAt,
		})
	}
}

// publish is best effort: the change is committed and pollers will catch up.
func (e *Engine) publish(ctx context.Context, ev domain.ChangeEvent) {
	if err := e.publisher.Publish(ctx, ev); err != nil {
		e.logger.Error("failed to publish change event",
			"error", err, "entity", ev.Entity, "entity_id", ev.EntityID)
	}
}
