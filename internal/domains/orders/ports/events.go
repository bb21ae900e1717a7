package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
)

// EventPublisher forwards recorded domain events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

// NoopEventPublisher drops every event.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(context.Context, ...domain.Event) error { return nil }

var _ EventPublisher = NoopEventPublisher{}
