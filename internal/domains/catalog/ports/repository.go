package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

// ErrNotFound is returned when a product does not exist.
var ErrNotFound = errors.New("product not found")

// Repository persists catalog products.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*projection.Projection[*domain.Product], error)
	GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Product], error)
	// List returns every product, oldest first.
	List(ctx context.Context) ([]*projection.Projection[*domain.Product], error)
	// Delete removes the product and reports how many records were deleted.
	Delete(ctx context.Context, id string) (int64, error)
}
