package types

import (
	"github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

// ReviewProjection is the read model of a stored review.
type ReviewProjection = projection.Projection[*domain.Review]

// ProductReviews is everything the review page renders for one product.
type ProductReviews struct {
	Reviews []*ReviewProjection
	Summary domain.Summary
}

// SubmitReviewInput is the command posted from the review form.
type SubmitReviewInput struct {
	ProductID string
	UserID    string
	Rating    int
	Title     string
	Comment   string
	Images    []string
}
