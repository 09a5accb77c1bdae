package models

import "time"

// Product event types published after a committed write.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// ProductEvent is the message body sent to the event queue.
type ProductEvent struct {
	EventID    string          `json:"event_id"`
	Type       string          `json:"type"`
	ProductID  int             `json:"product_id"`
	Product    *ProductPayload `json:"product,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
