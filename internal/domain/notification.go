package domain

import "time"

type NotificationType string

const (
	NotificationOrderSubmitted NotificationType = "order_submitted"
	NotificationOrderPrinted   NotificationType = "order_printed"
)

type Notification struct {
	ID             string           `json:"id"`
	UserID         string           `json:"user_id"`
	Message        string           `json:"message"`
	Type           NotificationType `json:"type"`
	IsRead         bool             `json:"is_read"`
	RelatedOrderID string           `json:"related_order_id,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}
