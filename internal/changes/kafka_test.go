//go:build integration

package changes

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/messaging"
)

func setupKafka(ctx context.Context, t *testing.T) []string {
	t.Helper()

	container, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.8.0",
		tckafka.WithClusterID("test-cluster"),
	)
	if err != nil {
		t.Fatalf("failed to start kafka container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	if err != nil {
		t.Fatalf("failed to get kafka brokers: %v", err)
	}
	return brokers
}

func TestStream_DeliversPublishedEvents(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	brokers := setupKafka(ctx, t)
	const topic = "sales.changes.test"

	producer := messaging.NewProducer(brokers, topic)
	defer func() { _ = producer.Close() }()
	publisher := NewKafkaPublisher(producer)

	want := domain.ChangeEvent{
		Entity:    domain.EntityOrders,
		EntityID:  "order-1",
		Status:    domain.OrderStatusPrinted,
		Timestamp: time.Now().UTC(),
	}
	if err := publisher.Publish(ctx, want); err != nil {
		t.Fatalf("publish: %v", err)
	}

	consumer := messaging.NewConsumer(brokers, topic, "", messaging.WithStartOffset(kafka.FirstOffset))
	defer func() { _ = consumer.Close() }()
	stream := NewStream(consumer, discardLogger())

	got := make(chan domain.ChangeEvent, 1)
	if err := stream.OnChange(ctx, domain.EntityOrders, func(_ context.Context, ev domain.ChangeEvent) {
		got <- ev
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- stream.Run(runCtx) }()

	select {
	case ev := <-got:
		if ev.EntityID != want.EntityID || ev.Status != want.Status {
			t.Errorf("expected %+v, got %+v", want, ev)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("timed out waiting for change event")
	}

	stop()
	if err := <-done; err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}
