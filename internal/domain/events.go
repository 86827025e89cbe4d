package domain

import "time"

type Entity string

const (
	EntityOrders        Entity = "orders"
	EntityNotifications Entity = "notifications"
)

// ChangeEvent announces that an entity row changed. Consumers refetch; the event
// carries no row data.
type ChangeEvent struct {
	Entity    Entity      `json:"entity"`
	EntityID  string      `json:"entity_id"`
	UserID    string      `json:"user_id,omitempty"`
	Status    OrderStatus `json:"status,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
