// Package storetest holds the behavior every store.Store implementation must share.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/store"
)

// Run exercises s, which must start empty. Subtests share the store and create
// their own rows.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("users", func(t *testing.T) { testUsers(ctx, t, s) })
	t.Run("catalog cascade", func(t *testing.T) { testCatalog(ctx, t, s) })
	t.Run("orders", func(t *testing.T) { testOrders(ctx, t, s) })
	t.Run("transition race", func(t *testing.T) { testTransitionRace(ctx, t, s) })
	t.Run("notifications", func(t *testing.T) { testNotifications(ctx, t, s) })
	t.Run("tx rollback", func(t *testing.T) { testRollback(ctx, t, s) })
	t.Run("wipe", func(t *testing.T) { testWipe(ctx, t, s) })
}

func NewRep(ctx context.Context, t *testing.T, s store.Repos, username string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, PasswordHash: "x", FullName: username, Role: domain.RoleSalesRep, IsActive: true}
	require.NoError(t, s.Users().Create(ctx, u))
	return u
}

func testUsers(ctx context.Context, t *testing.T, s store.Store) {
	u := NewRep(ctx, t, s, "rep-users")
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := s.Users().GetByUsername(ctx, "rep-users")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	missing, err := s.Users().Get(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)

	dup := &domain.User{Username: "rep-users", PasswordHash: "x", Role: domain.RoleSalesRep}
	assert.ErrorIs(t, s.Users().Create(ctx, dup), store.ErrConflict)

	name := "Renamed"
	updated, err := s.Users().Update(ctx, u.ID, domain.UserPatch{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FullName)
	assert.Equal(t, "rep-users", updated.Username)

	reps, err := s.Users().ListByRole(ctx, domain.RoleSalesRep)
	require.NoError(t, err)
	assert.NotEmpty(t, reps)

	ok, err := s.Users().Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Users().Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func testCatalog(ctx context.Context, t *testing.T, s store.Store) {
	g := &domain.ProductGroup{Name: "group"}
	require.NoError(t, s.ProductGroups().Create(ctx, g))
	p := &domain.Product{GroupID: g.ID, Name: "product", Price: decimal.RequireFromString("12.50"), Unit: "box"}
	require.NoError(t, s.Products().Create(ctx, p))

	got, err := s.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("12.5")), "price %s", got.Price)

	ok, err := s.ProductGroups().Delete(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = s.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "products go with their group")
}

func newOrder(ctx context.Context, t *testing.T, s store.Repos, rep *domain.User, status domain.OrderStatus) *domain.Order {
	t.Helper()
	g := &domain.ProductGroup{Name: "g"}
	require.NoError(t, s.ProductGroups().Create(ctx, g))
	p := &domain.Product{GroupID: g.ID, Name: "p", Price: decimal.NewFromInt(100), Unit: "u"}
	require.NoError(t, s.Products().Create(ctx, p))

	items := []domain.OrderItem{{ProductID: p.ID, ProductName: p.Name, Quantity: 2, Price: p.Price}}
	o := &domain.Order{
		SalesRepID:   rep.ID,
		CustomerName: domain.UnnamedCustomer,
		Status:       status,
		Total:        domain.SumTotal(items),
		Images:       []string{"a.jpg"},
		Items:        items,
	}
	require.NoError(t, s.Orders().Create(ctx, o))
	return o
}

func testOrders(ctx context.Context, t *testing.T, s store.Store) {
	rep := NewRep(ctx, t, s, "rep-orders")
	o := newOrder(ctx, t, s, rep, domain.OrderStatusDraft)
	require.Len(t, o.Items, 1)
	assert.NotEmpty(t, o.Items[0].ID)
	assert.Equal(t, o.ID, o.Items[0].OrderID)

	got, err := s.Orders().Get(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"a.jpg"}, got.Images)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(200)))
	require.Len(t, got.Items, 1)

	replaced, err := s.Orders().ReplaceDraft(ctx, o.ID, domain.OrderContent{
		CustomerName: domain.UnnamedCustomer,
		TextOrder:    "two boxes",
		Total:        decimal.Zero,
	})
	require.NoError(t, err)
	assert.Empty(t, replaced.Items)
	assert.Equal(t, "two boxes", replaced.TextOrder)

	sent, err := s.Orders().Transition(ctx, o.ID, domain.OrderStatusDraft, domain.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, sent.Status)

	_, err = s.Orders().ReplaceDraft(ctx, o.ID, domain.OrderContent{TextOrder: "late"})
	assert.ErrorIs(t, err, store.ErrConflict)

	_, err = s.Orders().Transition(ctx, o.ID, domain.OrderStatusDraft, domain.OrderStatusPending)
	assert.ErrorIs(t, err, store.ErrConflict)

	missing, err := s.Orders().Transition(ctx, "00000000-0000-0000-0000-000000000000", domain.OrderStatusDraft, domain.OrderStatusPending)
	require.NoError(t, err)
	assert.Nil(t, missing)

	mine, err := s.Orders().ListBySalesRep(ctx, rep.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	ok, err := s.Orders().Delete(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err = s.Orders().Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testTransitionRace(ctx context.Context, t *testing.T, s store.Store) {
	rep := NewRep(ctx, t, s, "rep-race")
	o := newOrder(ctx, t, s, rep, domain.OrderStatusPending)

	const racers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Orders().Transition(ctx, o.ID, domain.OrderStatusPending, domain.OrderStatusPrinted)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, store.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, racers-1, conflicts)
}

func testNotifications(ctx context.Context, t *testing.T, s store.Store) {
	rep := NewRep(ctx, t, s, "rep-notes")
	for _, msg := range []string{"first", "second", "third"} {
		require.NoError(t, s.Notifications().Create(ctx, &domain.Notification{
			UserID: rep.ID, Message: msg, Type: domain.NotificationOrderPrinted,
		}))
	}

	list, err := s.Notifications().ListForUser(ctx, rep.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Message, "newest first")

	n, err := s.Notifications().CountUnread(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	read, err := s.Notifications().MarkRead(ctx, list[0].ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	marked, err := s.Notifications().MarkAllRead(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, marked)

	n, err = s.Notifications().CountUnread(ctx, rep.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	ok, err := s.Users().Delete(ctx, rep.ID)
	require.NoError(t, err)
	require.True(t, ok)
	list, err = s.Notifications().ListForUser(ctx, rep.ID)
	require.NoError(t, err)
	assert.Empty(t, list, "notifications go with their recipient")
}

func testRollback(ctx context.Context, t *testing.T, s store.Store) {
	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(tx store.Repos) error {
		NewRep(ctx, t, tx, "rep-rolled-back")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Users().GetByUsername(ctx, "rep-rolled-back")
	require.NoError(t, err)
	assert.Nil(t, got)

	err = s.WithinTx(ctx, func(tx store.Repos) error {
		NewRep(ctx, t, tx, "rep-committed")
		return nil
	})
	require.NoError(t, err)
	got, err = s.Users().GetByUsername(ctx, "rep-committed")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func testWipe(ctx context.Context, t *testing.T, s store.Store) {
	rep := NewRep(ctx, t, s, "rep-wipe")
	newOrder(ctx, t, s, rep, domain.OrderStatusPending)

	require.NoError(t, s.Wipe(ctx))

	users, err := s.Users().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
	orders, err := s.Orders().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
	groups, err := s.ProductGroups().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)
}
