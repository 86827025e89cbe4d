package changes

import (
	"context"
	"sync"

	"github.com/joao-fontenele/salesdesk/internal/domain"
)

// Local is an in-process Publisher and Subscriber. Publish calls the matching
// handlers synchronously.
type Local struct {
	mu     sync.RWMutex
	nextID int
	subs   map[domain.Entity]map[int]Handler
}

var (
	_ Publisher  = (*Local)(nil)
	_ Subscriber = (*Local)(nil)
)

func NewLocal() *Local {
	return &Local{subs: map[domain.Entity]map[int]Handler{}}
}

func (l *Local) OnChange(ctx context.Context, entity domain.Entity, fn Handler) error {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	if l.subs[entity] == nil {
		l.subs[entity] = map[int]Handler{}
	}
	l.subs[entity][id] = fn
	l.mu.Unlock()

	context.AfterFunc(ctx, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subs[entity], id)
	})
	return nil
}

func (l *Local) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	l.mu.RLock()
	handlers := make([]Handler, 0, len(l.subs[ev.Entity]))
	for _, fn := range l.subs[ev.Entity] {
		handlers = append(handlers, fn)
	}
	l.mu.RUnlock()

	for _, fn := range handlers {
		fn(ctx, ev)
	}
	return nil
}
