package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderEventType string

const (
	OrderCreated   OrderEventType = "order.created"
	OrderUpdated   OrderEventType = "order.updated"
	OrderDelivered OrderEventType = "order.delivered"
)

// OrderEvent — событие об изменении заказа, уходит в Kafka через outbox.
type OrderEvent struct {
	ID         uuid.UUID
	Type       OrderEventType
	OrderID    uuid.UUID
	OccurredAt time.Time
	Order      *Order
}

func NewOrderEvent(eventType OrderEventType, order *Order, now time.Time) *OrderEvent {
	return &OrderEvent{
		ID:         uuid.New(),
		Type:       eventType,
		OrderID:    order.ID,
		OccurredAt: now.UTC(),
		Order:      order,
	}
}
