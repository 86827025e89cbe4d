// Package maintenance holds destructive administrative operations.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joao-fontenele/salesdesk/internal/seed"
	"github.com/joao-fontenele/salesdesk/internal/store"
)

// ConfirmationCode must be typed to confirm a wipe. It guards against accidents,
// not attackers; access control is the caller's job.
const ConfirmationCode = "0000"

var ErrBadConfirmation = errors.New("wrong confirmation code")

type SessionClearer interface {
	Clear(ctx context.Context) error
}

type Wiper struct {
	store    store.Store
	sessions SessionClearer
	seed     seed.Options
	logger   *slog.Logger
}

func NewWiper(st store.Store, sessions SessionClearer, opts seed.Options, logger *slog.Logger) *Wiper {
	return &Wiper{store: st, sessions: sessions, seed: opts, logger: logger}
}

// Wipe deletes every row and every session, then seeds the defaults again so
// the system can still be logged into.
func (w *Wiper) Wipe(ctx context.Context, code, actorID string) error {
	if code != ConfirmationCode {
		return ErrBadConfirmation
	}

	if err := w.store.Wipe(ctx); err != nil {
		return fmt.Errorf("wipe tables: %w", err)
	}
	if err := w.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	if err := seed.EnsureDefaults(ctx, w.store, w.seed, w.logger); err != nil {
		return fmt.Errorf("reseed: %w", err)
	}

	w.logger.Warn("all data wiped", "actor_id", actorID)
	return nil
}
