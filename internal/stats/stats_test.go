package stats

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/salesdesk/internal/changes"
	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/store/memory"
)

func addOrder(t *testing.T, st *memory.Store, repID string, status domain.OrderStatus, total int64) *domain.Order {
	t.Helper()
	o := &domain.Order{SalesRepID: repID, CustomerName: domain.UnnamedCustomer, Status: status, Total: decimal.NewFromInt(total)}
	require.NoError(t, st.Orders().Create(context.Background(), o))
	return o
}

func TestRepStats(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	quiet := &domain.User{Username: "quiet", Role: domain.RoleSalesRep, IsActive: false}
	busy := &domain.User{Username: "busy", FullName: "Busy Rep", Role: domain.RoleSalesRep, IsActive: true}
	require.NoError(t, st.Users().Create(ctx, quiet))
	require.NoError(t, st.Users().Create(ctx, busy))

	addOrder(t, st, busy.ID, domain.OrderStatusPending, 100)
	addOrder(t, st, busy.ID, domain.OrderStatusPrinted, 250)
	addOrder(t, st, busy.ID, domain.OrderStatusDeleted, 999)
	addOrder(t, st, busy.ID, domain.OrderStatusDraft, 999)
	addOrder(t, st, quiet.ID, domain.OrderStatusPending, 10)

	report, err := RepStats(ctx, st)
	require.NoError(t, err)

	require.Len(t, report.Reps, 2)
	assert.Equal(t, "Busy Rep", report.Reps[0].Name)
	assert.Equal(t, 2, report.Reps[0].Orders)
	assert.Equal(t, 1, report.Reps[0].Pending)
	assert.Equal(t, 1, report.Reps[0].Printed)
	assert.True(t, report.Reps[0].Sales.Equal(decimal.NewFromInt(350)))

	assert.Equal(t, 3, report.Orders)
	assert.Equal(t, 2, report.Pending)
	assert.True(t, report.Sales.Equal(decimal.NewFromInt(360)))
	assert.Equal(t, 1, report.ActiveReps)
}

func TestBacklog(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := memory.New()
	addOrder(t, st, "rep", domain.OrderStatusPending, 1)

	local := changes.NewLocal()
	b := NewBacklog(st.Orders(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, b.Watch(ctx, local))
	assert.EqualValues(t, 1, b.Pending())

	o := addOrder(t, st, "rep", domain.OrderStatusPending, 1)
	require.NoError(t, local.Publish(ctx, domain.ChangeEvent{Entity: domain.EntityOrders, EntityID: o.ID}))
	assert.EqualValues(t, 2, b.Pending())
}
