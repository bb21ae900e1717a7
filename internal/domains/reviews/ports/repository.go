package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

// Repository persists product reviews.
type Repository interface {
	Save(ctx context.Context, review *domain.Review) (*projection.Projection[*domain.Review], error)
	// ListByProduct returns the product's reviews, newest first.
	ListByProduct(ctx context.Context, productID string) ([]*projection.Projection[*domain.Review], error)
}

// ProductCatalog confirms that a reviewed product exists.
type ProductCatalog interface {
	ProductExists(ctx context.Context, productID string) (bool, error)
}
