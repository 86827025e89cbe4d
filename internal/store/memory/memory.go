// Package memory is the in-process fallback store used when no database is
// configured. Data lives for the lifetime of the process.
package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/store"
)

type tables struct {
	users         map[string]domain.User
	groups        map[string]domain.ProductGroup
	products      map[string]domain.Product
	customers     map[string]domain.Customer
	orders        map[string]domain.Order
	items         map[string]domain.OrderItem
	notifications map[string]domain.Notification
}

func newTables() *tables {
	return &tables{
		users:         map[string]domain.User{},
		groups:        map[string]domain.ProductGroup{},
		products:      map[string]domain.Product{},
		customers:     map[string]domain.Customer{},
		orders:        map[string]domain.Order{},
		items:         map[string]domain.OrderItem{},
		notifications: map[string]domain.Notification{},
	}
}

func (t *tables) clone() *tables {
	return &tables{
		users:         maps.Clone(t.users),
		groups:        maps.Clone(t.groups),
		products:      maps.Clone(t.products),
		customers:     maps.Clone(t.customers),
		orders:        maps.Clone(t.orders),
		items:         maps.Clone(t.items),
		notifications: maps.Clone(t.notifications),
	}
}

type Store struct {
	mu   sync.RWMutex
	t    *tables
	now  func() time.Time
	last time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{t: newTables(), now: time.Now}
}

// stamp returns a creation time strictly after every earlier one so newest-first
// ordering is total. Callers hold the write lock.
func (s *Store) stamp() time.Time {
	t := s.now().UTC().Truncate(time.Microsecond)
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func (s *Store) repos(inTx bool) repos {
	return repos{s: s, inTx: inTx}
}

func (s *Store) Users() store.UserRepository                 { return userRepo{s.repos(false)} }
func (s *Store) ProductGroups() store.ProductGroupRepository { return groupRepo{s.repos(false)} }
func (s *Store) Products() store.ProductRepository           { return productRepo{s.repos(false)} }
func (s *Store) Customers() store.CustomerRepository         { return customerRepo{s.repos(false)} }
func (s *Store) Orders() store.OrderRepository               { return orderRepo{s.repos(false)} }
func (s *Store) Notifications() store.NotificationRepository { return notificationRepo{s.repos(false)} }

func (s *Store) WithinTx(ctx context.Context, fn func(store.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.t.clone()
	if err := fn(s.repos(true)); err != nil {
		s.t = snapshot
		return err
	}
	return nil
}

func (s *Store) Wipe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.t = newTables()
	return nil
}

// repos is handed to WithinTx callbacks with inTx set; the transaction already
// holds the write lock, so per-call locking is skipped.
type repos struct {
	s    *Store
	inTx bool
}

func (r repos) Users() store.UserRepository                 { return userRepo{r} }
func (r repos) ProductGroups() store.ProductGroupRepository { return groupRepo{r} }
func (r repos) Products() store.ProductRepository           { return productRepo{r} }
func (r repos) Customers() store.CustomerRepository         { return customerRepo{r} }
func (r repos) Orders() store.OrderRepository               { return orderRepo{r} }
func (r repos) Notifications() store.NotificationRepository { return notificationRepo{r} }

func (r repos) read() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.RLock()
	return r.s.mu.RUnlock
}

func (r repos) write() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func newestFirst[T any](rows []T, createdAt func(T) time.Time) []T {
	slices.SortFunc(rows, func(a, b T) int {
		return cmp.Compare(createdAt(b).UnixNano(), createdAt(a).UnixNano())
	})
	return rows
}

func filter[T any](m map[string]T, keep func(T) bool) []T {
	out := []T{}
	for _, v := range m {
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}
