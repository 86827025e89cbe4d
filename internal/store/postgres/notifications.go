package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/joao-fontenele/salesdesk/internal/domain"
)

type notificationRepo struct{ repos }

const notificationColumns = `id, user_id, message, type, is_read, related_order_id, created_at`

func scanNotification(row scanner) (domain.Notification, error) {
	var (
		n       domain.Notification
		related sql.NullString
	)
	err := row.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.IsRead, &related, &n.CreatedAt)
	n.RelatedOrderID = related.String
	return n, err
}

func (r notificationRepo) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	if !validID(userID) {
		return []domain.Notification{}, nil
	}
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+notificationColumns+` FROM notifications WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(rows *sql.Rows) (domain.Notification, error) { return scanNotification(rows) })
}

func (r notificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	if !validID(userID) {
		return 0, nil
	}
	var count int
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read
	`, userID).Scan(&count)
	return count, err
}

func (r notificationRepo) Get(ctx context.Context, id string) (*domain.Notification, error) {
	if !validID(id) {
		return nil, nil
	}
	n, err := scanNotification(r.q.QueryRowContext(ctx, `
		SELECT `+notificationColumns+` FROM notifications WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r notificationRepo) Create(ctx context.Context, notification *domain.Notification) error {
	notification.ID = uuid.New().String()
	notification.CreatedAt = r.clock.now()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO notifications (`+notificationColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, notification.ID, notification.UserID, notification.Message, notification.Type,
		notification.IsRead, nullable(notification.RelatedOrderID), notification.CreatedAt)
	return err
}

func (r notificationRepo) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	if !validID(id) {
		return nil, nil
	}
	n, err := scanNotification(r.q.QueryRowContext(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE id = $1 RETURNING `+notificationColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r notificationRepo) MarkAllRead(ctx context.Context, userID string) (int, error) {
	if !validID(userID) {
		return 0, nil
	}
	result, err := r.q.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read
	`, userID)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

func (r notificationRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.q, "notifications", id)
}
