package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

var ErrNotFound = errors.New("order not found")

// ErrStaleOrder reports that the stored order left the status an update was computed from.
var ErrStaleOrder = errors.New("order was changed concurrently")

// Repository persists orders. ListByUser returns the newest orders first.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*projection.Projection[*domain.Order], error)
	// Update stores a transition of an existing order only while its stored status still equals expected.
	// A mismatch returns ErrStaleOrder and leaves the stored order untouched.
	Update(ctx context.Context, order *domain.Order, expected domain.Status) (*projection.Projection[*domain.Order], error)
	GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Order], error)
	ListByUser(ctx context.Context, userID string) ([]*projection.Projection[*domain.Order], error)
}
