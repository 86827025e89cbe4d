package messaging

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestMessageCarrier(t *testing.T) {
	t.Run("set overwrites existing header", func(t *testing.T) {
		msg := &kafka.Message{Headers: []kafka.Header{{Key: "a", Value: []byte("1")}}}
		c := NewMessageCarrier(msg)

		c.Set("a", "2")
		c.Set("b", "3")

		if len(msg.Headers) != 2 {
			t.Fatalf("expected 2 headers, got %d", len(msg.Headers))
		}
		if c.Get("a") != "2" {
			t.Errorf("expected 2, got %s", c.Get("a"))
		}
		if c.Get("missing") != "" {
			t.Errorf("expected empty, got %s", c.Get("missing"))
		}
	})

	t.Run("round trips trace context", func(t *testing.T) {
		traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     spanID,
			TraceFlags: trace.FlagsSampled,
		})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)

		msg := &kafka.Message{}
		prop := propagation.TraceContext{}
		prop.Inject(ctx, NewMessageCarrier(msg))

		if len(NewMessageCarrier(msg).Keys()) == 0 {
			t.Fatal("expected traceparent header")
		}

		got := trace.SpanContextFromContext(prop.Extract(context.Background(), NewMessageCarrier(msg)))
		if got.TraceID() != traceID {
			t.Errorf("expected trace %s, got %s", traceID, got.TraceID())
		}
	})
}
