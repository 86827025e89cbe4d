package changes

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/salesdesk/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocal(t *testing.T) {
	t.Run("delivers to subscribers of the entity only", func(t *testing.T) {
		l := NewLocal()
		ctx := context.Background()

		var orders, notes atomic.Int32
		require.NoError(t, l.OnChange(ctx, domain.EntityOrders, func(context.Context, domain.ChangeEvent) { orders.Add(1) }))
		require.NoError(t, l.OnChange(ctx, domain.EntityNotifications, func(context.Context, domain.ChangeEvent) { notes.Add(1) }))

		require.NoError(t, l.Publish(ctx, domain.ChangeEvent{Entity: domain.EntityOrders, EntityID: "o1"}))

		assert.EqualValues(t, 1, orders.Load())
		assert.EqualValues(t, 0, notes.Load())
	})

	t.Run("stops delivering once the subscription context ends", func(t *testing.T) {
		l := NewLocal()
		ctx, cancel := context.WithCancel(context.Background())

		var calls atomic.Int32
		require.NoError(t, l.OnChange(ctx, domain.EntityOrders, func(context.Context, domain.ChangeEvent) { calls.Add(1) }))
		cancel()

		assert.Eventually(t, func() bool {
			before := calls.Load()
			_ = l.Publish(context.Background(), domain.ChangeEvent{Entity: domain.EntityOrders})
			return calls.Load() == before
		}, time.Second, 10*time.Millisecond)
	})
}

func TestPoller(t *testing.T) {
	t.Run("unknown entity", func(t *testing.T) {
		p := NewPoller(time.Hour, discardLogger())
		err := p.OnChange(context.Background(), domain.EntityOrders, func(context.Context, domain.ChangeEvent) {})
		assert.ErrorIs(t, err, ErrUnknownEntity)
	})

	t.Run("fires on first fetch and on fingerprint change only", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var fingerprint atomic.Value
		fingerprint.Store("1")

		p := NewPoller(time.Hour, discardLogger())
		p.Register(domain.EntityNotifications, func(context.Context) (string, error) {
			return fingerprint.Load().(string), nil
		})

		events := make(chan domain.ChangeEvent, 8)
		require.NoError(t, p.OnChange(ctx, domain.EntityNotifications, func(_ context.Context, ev domain.ChangeEvent) {
			events <- ev
		}))

		select {
		case ev := <-events:
			assert.Equal(t, domain.EntityNotifications, ev.Entity)
		case <-time.After(time.Second):
			t.Fatal("expected initial event")
		}

		p.Refresh(domain.EntityNotifications)
		select {
		case <-events:
			t.Fatal("unchanged fingerprint must not fire")
		case <-time.After(100 * time.Millisecond):
		}

		fingerprint.Store("2")
		p.Refresh(domain.EntityNotifications)
		select {
		case <-events:
		case <-time.After(time.Second):
			t.Fatal("expected event after change")
		}
	})

	t.Run("drops a response older than one already applied", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		release := make(chan struct{})
		var calls atomic.Int32

		p := NewPoller(time.Hour, discardLogger())
		p.Register(domain.EntityOrders, func(context.Context) (string, error) {
			if calls.Add(1) == 1 {
				<-release
				return "stale", nil
			}
			return "fresh", nil
		})

		var fired atomic.Int32
		require.NoError(t, p.OnChange(ctx, domain.EntityOrders, func(context.Context, domain.ChangeEvent) {
			fired.Add(1)
		}))

		require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
		p.Refresh(domain.EntityOrders)
		require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)

		close(release)
		p.Refresh(domain.EntityOrders)
		require.Eventually(t, func() bool { return calls.Load() == 3 }, time.Second, 5*time.Millisecond)

		assert.Never(t, func() bool { return fired.Load() > 1 }, 200*time.Millisecond, 10*time.Millisecond)
	})

	t.Run("keeps polling after a failed fetch", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var calls atomic.Int32
		p := NewPoller(10*time.Millisecond, discardLogger())
		p.Register(domain.EntityOrders, func(context.Context) (string, error) {
			if calls.Add(1) == 1 {
				return "", errors.New("backend down")
			}
			return "ok", nil
		})

		fired := make(chan struct{}, 1)
		require.NoError(t, p.OnChange(ctx, domain.EntityOrders, func(context.Context, domain.ChangeEvent) {
			select {
			case fired <- struct{}{}:
			default:
			}
		}))

		select {
		case <-fired:
		case <-time.After(time.Second):
			t.Fatal("expected event after recovery")
		}
	})
}
