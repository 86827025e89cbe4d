// Package changes is the change-subscription interface shared by the lifecycle
// engine and its consumers. Adapters differ only in how events travel: Local
// dispatches in process, Poller refetches on an interval, Stream reads Kafka.
package changes

import (
	"context"
	"errors"

	"github.com/joao-fontenele/salesdesk/internal/domain"
)

// Handler reacts to a change. Handlers run on the adapter's goroutine and should
// return quickly.
type Handler func(ctx context.Context, ev domain.ChangeEvent)

type Subscriber interface {
	// OnChange registers fn for entity until ctx is done.
	OnChange(ctx context.Context, entity domain.Entity, fn Handler) error
}

type Publisher interface {
	Publish(ctx context.Context, ev domain.ChangeEvent) error
}

var ErrUnknownEntity = errors.New("no source registered for entity")

// Discard drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(context.Context, domain.ChangeEvent) error { return nil }
