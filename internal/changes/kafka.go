package changes

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/messaging"
)

// KafkaPublisher sends change events to the change-feed topic keyed by entity id.
type KafkaPublisher struct {
	producer *messaging.Producer
}

var _ Publisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(producer *messaging.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	return p.producer.Publish(ctx, string(ev.Entity)+":"+ev.EntityID, ev)
}

// Stream pushes change events read from Kafka to local subscribers. Run must be
// running for subscribers to receive anything.
type Stream struct {
	consumer *messaging.Consumer
	local    *Local
	logger   *slog.Logger
}

var _ Subscriber = (*Stream)(nil)

func NewStream(consumer *messaging.Consumer, logger *slog.Logger) *Stream {
	return &Stream{consumer: consumer, local: NewLocal(), logger: logger}
}

func (s *Stream) OnChange(ctx context.Context, entity domain.Entity, fn Handler) error {
	return s.local.OnChange(ctx, entity, fn)
}

// Run consumes until ctx is done. Undecodable messages are logged and skipped.
func (s *Stream) Run(ctx context.Context) error {
	return s.consumer.Consume(ctx, func(ctx context.Context, payload []byte) error {
		var ev domain.ChangeEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			s.logger.Warn("skipping malformed change event", "error", err)
			return nil
		}
		return s.local.Publish(ctx, ev)
	})
}
