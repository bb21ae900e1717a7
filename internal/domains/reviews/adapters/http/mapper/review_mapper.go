package mapper

import (
	"time"

	reviewtypes "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/application/types"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/domain"
)

// SubmitReview is the review form payload.
type SubmitReview struct {
	Rating  int      `json:"rating"`
	Title   string   `json:"title"`
	Comment string   `json:"comment"`
	Images  []string `json:"images"`
}

// Review is the HTTP representation of a stored review.
type Review struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	UserID      string    `json:"userId"`
	Rating      int       `json:"rating"`
	RatingLabel string    `json:"ratingLabel"`
	Title       string    `json:"title"`
	Comment     string    `json:"comment,omitempty"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Bucket is one row of the star distribution.
type Bucket struct {
	Stars   int     `json:"stars"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Summary aggregates a product's ratings.
type Summary struct {
	Average      float64  `json:"average"`
	Count        int      `json:"count"`
	Distribution []Bucket `json:"distribution"`
}

// ProductReviews is the body of the review listing.
type ProductReviews struct {
	Reviews []Review `json:"reviews"`
	Summary Summary  `json:"summary"`
}

// ToSubmitReviewInput binds the form to the application command.
func ToSubmitReviewInput(productID, userID string, body SubmitReview) reviewtypes.SubmitReviewInput {
	return reviewtypes.SubmitReviewInput{
		ProductID: productID,
		UserID:    userID,
		Rating:    body.Rating,
		Title:     body.Title,
		Comment:   body.Comment,
		Images:    append([]string(nil), body.Images...),
	}
}

// FromProjection maps a stored review.
func FromProjection(projection *reviewtypes.ReviewProjection) Review {
	review := projection.Entity
	return Review{
		ID:          review.ID,
		ProductID:   review.ProductID,
		UserID:      review.UserID,
		Rating:      review.Rating,
		RatingLabel: domain.RatingLabel(review.Rating),
		Title:       review.Title,
		Comment:     review.Comment,
		Images:      append([]string{}, review.Images...),
		CreatedAt:   review.CreatedAt,
	}
}

// FromProductReviews maps the listing with its summary.
func FromProductReviews(listing *reviewtypes.ProductReviews) ProductReviews {
	reviews := make([]Review, 0, len(listing.Reviews))
	for _, review := range listing.Reviews {
		reviews = append(reviews, FromProjection(review))
	}
	buckets := make([]Bucket, 0, len(listing.Summary.Distribution))
	for _, bucket := range listing.Summary.Distribution {
		buckets = append(buckets, Bucket{Stars: bucket.Stars, Count: bucket.Count, Percent: bucket.Percent})
	}
	return ProductReviews{
		Reviews: reviews,
		Summary: Summary{Average: listing.Summary.Average, Count: listing.Summary.Count, Distribution: buckets},
	}
}
