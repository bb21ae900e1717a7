package ports

import (
	"context"
	"errors"

	reviewtypes "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/application/types"
)

// ErrProductNotFound is returned when reviews target an unknown product.
var ErrProductNotFound = errors.New("reviewed product not found")

// Service exposes review use cases to adapters.
type Service interface {
	ListReviews(ctx context.Context, productID string) (*reviewtypes.ProductReviews, error)
	SubmitReview(ctx context.Context, input reviewtypes.SubmitReviewInput) (*reviewtypes.ReviewProjection, error)
}
