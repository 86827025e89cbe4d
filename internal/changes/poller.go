package changes

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joao-fontenele/salesdesk/internal/domain"
)

// Probe fetches the current state of an entity and reduces it to a fingerprint.
// A change of fingerprint is reported as a change event.
type Probe func(ctx context.Context) (string, error)

// Poller turns fixed-interval refetches into change events. Every fetch is
// tagged with a sequence number and a result older than one already applied is
// dropped, so a slow response never overwrites a fresher one.
type Poller struct {
	interval time.Duration
	logger   *slog.Logger
	seq      atomic.Uint64

	mu     sync.Mutex
	probes map[domain.Entity]Probe
	// refresh holds one wake-up channel per live subscription.
	refresh map[domain.Entity]map[chan struct{}]struct{}
}

var _ Subscriber = (*Poller)(nil)

func NewPoller(interval time.Duration, logger *slog.Logger) *Poller {
	return &Poller{
		interval: interval,
		logger:   logger,
		probes:   map[domain.Entity]Probe{},
		refresh:  map[domain.Entity]map[chan struct{}]struct{}{},
	}
}

func (p *Poller) Register(entity domain.Entity, probe Probe) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.probes[entity] = probe
}

// Refresh asks every subscription of entity to fetch now instead of waiting for
// the next tick.
func (p *Poller) Refresh(entity domain.Entity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for ch := range p.refresh[entity] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// OnChange starts polling entity. fn fires after the first successful fetch and
// after every fetch whose fingerprint differs from the last applied one.
func (p *Poller) OnChange(ctx context.Context, entity domain.Entity, fn Handler) error {
	p.mu.Lock()
	probe, ok := p.probes[entity]
	if !ok {
		p.mu.Unlock()
		return ErrUnknownEntity
	}
	wake := make(chan struct{}, 1)
	if p.refresh[entity] == nil {
		p.refresh[entity] = map[chan struct{}]struct{}{}
	}
	p.refresh[entity][wake] = struct{}{}
	p.mu.Unlock()

	go func() {
		defer func() {
			p.mu.Lock()
			delete(p.refresh[entity], wake)
			p.mu.Unlock()
		}()
		p.run(ctx, entity, probe, wake, fn)
	}()
	return nil
}

type fetchResult struct {
	seq         uint64
	fingerprint string
	err         error
}

func (p *Poller) run(ctx context.Context, entity domain.Entity, probe Probe, wake <-chan struct{}, fn Handler) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	results := make(chan fetchResult, 4)
	fetch := func() {
		seq := p.seq.Add(1)
		go func() {
			fingerprint, err := probe(ctx)
			select {
			case results <- fetchResult{seq: seq, fingerprint: fingerprint, err: err}:
			case <-ctx.Done():
			}
		}()
	}

	var (
		applied uint64
		last    string
		seen    bool
	)

	fetch()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fetch()
		case <-wake:
			fetch()
		case res := <-results:
			if res.seq <= applied {
				continue
			}
			if res.err != nil {
				if ctx.Err() == nil {
					p.logger.Warn("poll failed", "entity", entity, "error", res.err)
				}
				continue
			}
			applied = res.seq
			if seen && res.fingerprint == last {
				continue
			}
			seen = true
			last = res.fingerprint
			fn(ctx, domain.ChangeEvent{Entity: entity, Timestamp: time.Now().UTC()})
		}
	}
}
