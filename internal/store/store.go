// Package store is the persistence gateway: uniform CRUD per entity table.
//
// Lookups that find nothing return (nil, nil) and deletes of missing rows return
// (false, nil). A non-nil error always means the operation itself failed, so an
// empty slice with a nil error is a genuine "no rows".
package store

import (
	"context"
	"errors"

	"github.com/joao-fontenele/salesdesk/internal/domain"
)

// ErrConflict is returned when a conditional write matched an existing row in an
// unexpected state, or a unique column already holds the value.
var ErrConflict = errors.New("conflict")

type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type ProductGroupRepository interface {
	List(ctx context.Context) ([]domain.ProductGroup, error)
	Get(ctx context.Context, id string) (*domain.ProductGroup, error)
	Create(ctx context.Context, group *domain.ProductGroup) error
	Update(ctx context.Context, id string, patch domain.GroupPatch) (*domain.ProductGroup, error)
	// Delete removes the group together with its products.
	Delete(ctx context.Context, id string) (bool, error)
}

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type CustomerRepository interface {
	List(ctx context.Context) ([]domain.Customer, error)
	ListBySalesRep(ctx context.Context, salesRepID string) ([]domain.Customer, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, id string, patch domain.CustomerPatch) (*domain.Customer, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// OrderRepository has no free-form update. Every mutation is a command limited to
// the fields it is allowed to touch.
type OrderRepository interface {
	List(ctx context.Context) ([]domain.Order, error)
	ListBySalesRep(ctx context.Context, salesRepID string) ([]domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	// Create stores the order and its items, assigning ids and timestamps to both.
	Create(ctx context.Context, order *domain.Order) error
	// ReplaceDraft swaps the content of an order still in draft. It returns
	// ErrConflict when the order exists but is no longer a draft.
	ReplaceDraft(ctx context.Context, id string, content domain.OrderContent) (*domain.Order, error)
	// Transition sets status to `to` only while it still equals `from`. The loser
	// of a concurrent transition gets ErrConflict.
	Transition(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error)
	// Delete removes the order and all of its items.
	Delete(ctx context.Context, id string) (bool, error)
}

type NotificationRepository interface {
	// ListForUser returns the recipient's notifications newest first.
	ListForUser(ctx context.Context, userID string) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	Get(ctx context.Context, id string) (*domain.Notification, error)
	Create(ctx context.Context, notification *domain.Notification) error
	MarkRead(ctx context.Context, id string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type Repos interface {
	Users() UserRepository
	ProductGroups() ProductGroupRepository
	Products() ProductRepository
	Customers() CustomerRepository
	Orders() OrderRepository
	Notifications() NotificationRepository
}

type Store interface {
	Repos
	// WithinTx runs fn against repositories that commit together when fn returns
	// nil and roll back otherwise.
	WithinTx(ctx context.Context, fn func(Repos) error) error
	// Wipe deletes every row of every table.
	Wipe(ctx context.Context) error
}
