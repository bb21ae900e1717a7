package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is the base interface for all domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// OrderPlaced is raised when checkout creates a pending order.
type OrderPlaced struct {
	BaseEvent
	OrderID  string
	UserID   string
	Total    decimal.Decimal
	Priority Priority
}

func (e OrderPlaced) EventName() string {
	return "orders.order.placed"
}

// OrderStatusChanged is raised for every lifecycle transition, cancellation included.
type OrderStatusChanged struct {
	BaseEvent
	OrderID string
	UserID  string
	From    Status
	To      Status
}

func (e OrderStatusChanged) EventName() string {
	return "orders.order.status_changed"
}

// OrderCancelled is raised when a customer cancels before dispatch.
type OrderCancelled struct {
	BaseEvent
	OrderID        string
	UserID         string
	PreviousStatus Status
}

func (e OrderCancelled) EventName() string {
	return "orders.order.cancelled"
}

// AggregateWithEvents is implemented by aggregates that track domain events.
type AggregateWithEvents interface {
	Events() []Event
	ClearEvents()
}
