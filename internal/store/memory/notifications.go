package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/salesdesk/internal/domain"
)

type notificationRepo struct{ repos }

func (r notificationRepo) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	defer r.read()()
	list := filter(r.s.t.notifications, func(n domain.Notification) bool { return n.UserID == userID })
	return newestFirst(list, func(n domain.Notification) time.Time { return n.CreatedAt }), nil
}

func (r notificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	defer r.read()()
	count := 0
	for _, n := range r.s.t.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r notificationRepo) Get(ctx context.Context, id string) (*domain.Notification, error) {
	defer r.read()()
	n, ok := r.s.t.notifications[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func (r notificationRepo) Create(ctx context.Context, notification *domain.Notification) error {
	defer r.write()()
	notification.ID = uuid.New().String()
	notification.CreatedAt = r.s.stamp()
	r.s.t.notifications[notification.ID] = *notification
	return nil
}

func (r notificationRepo) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	defer r.write()()
	n, ok := r.s.t.notifications[id]
	if !ok {
		return nil, nil
	}
	n.IsRead = true
	r.s.t.notifications[id] = n
	return &n, nil
}

func (r notificationRepo) MarkAllRead(ctx context.Context, userID string) (int, error) {
	defer r.write()()
	marked := 0
	for id, n := range r.s.t.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			r.s.t.notifications[id] = n
			marked++
		}
	}
	return marked, nil
}

func (r notificationRepo) Delete(ctx context.Context, id string) (bool, error) {
	defer r.write()()
	if _, ok := r.s.t.notifications[id]; !ok {
		return false, nil
	}
	delete(r.s.t.notifications, id)
	return true, nil
}
