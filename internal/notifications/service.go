// Package notifications serves a user's own notifications. Only the recipient can
// read, mark or delete a notification; to anyone else it does not exist.
package notifications

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/joao-fontenele/salesdesk/internal/changes"
	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/store"
)

var ErrNotFound = errors.New("notification not found")

type Service struct {
	repo      store.NotificationRepository
	publisher changes.Publisher
	logger    *slog.Logger
}

func NewService(repo store.NotificationRepository, publisher changes.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = changes.Discard
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// ListForUser returns the user's notifications newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead is idempotent: an already read notification is returned unchanged.
func (s *Service) MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error) {
	n, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}

	n, err = s.repo.MarkRead(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotFound
	}
	s.changed(ctx, userID, id)
	return n, nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.changed(ctx, userID, "")
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.changed(ctx, userID, id)
	return nil
}

func (s *Service) owned(ctx context.Context, userID, id string) (*domain.Notification, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil || n.UserID != userID {
		return nil, ErrNotFound
	}
	return n, nil
}

func (s *Service) changed(ctx context.Context, userID, id string) {
	ev := domain.ChangeEvent{
		Entity:    domain.EntityNotifications,
		EntityID:  id,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Error("failed to publish change event",
			"error", err, "entity", ev.Entity, "entity_id", ev.EntityID, "user_id", userID)
	}
}
