package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/joao-fontenele/salesdesk/internal/domain"
)

const meterName = "github.com/joao-fontenele/salesdesk"

// OrderMetrics counts lifecycle activity. A nil *OrderMetrics records nothing.
type OrderMetrics struct {
	transitions   metric.Int64Counter
	notifications metric.Int64Counter
}

func NewOrderMetrics(mp metric.MeterProvider) (*OrderMetrics, error) {
	meter := mp.Meter(meterName)

	transitions, err := meter.Int64Counter("sales.order.transitions",
		metric.WithDescription("Order status changes, including creation"),
	)
	if err != nil {
		return nil, err
	}

	notifications, err := meter.Int64Counter("sales.notifications.created",
		metric.WithDescription("Notifications written by the order fan-out"),
	)
	if err != nil {
		return nil, err
	}

	return &OrderMetrics{transitions: transitions, notifications: notifications}, nil
}

func (m *OrderMetrics) Transition(ctx context.Context, from, to domain.OrderStatus) {
	if m == nil {
		return
	}
	if from == "" {
		from = "none"
	}
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", string(from)),
		attribute.String("to", string(to)),
	))
}

func (m *OrderMetrics) NotificationsCreated(ctx context.Context, typ domain.NotificationType, n int) {
	if m == nil || n == 0 {
		return
	}
	m.notifications.Add(ctx, int64(n), metric.WithAttributes(attribute.String("type", string(typ))))
}

// RegisterPendingGauge reports the pending-order backlog returned by observe.
func RegisterPendingGauge(mp metric.MeterProvider, observe func() int64) (metric.Registration, error) {
	meter := mp.Meter(meterName)
	gauge, err := meter.Int64ObservableGauge("sales.orders.pending",
		metric.WithDescription("Orders waiting to be printed"),
	)
	if err != nil {
		return nil, err
	}
	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(gauge, observe())
		return nil
	}, gauge)
}
