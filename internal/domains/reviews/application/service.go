package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	reviewtypes "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/application/types"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/ports"
)

// Service implements the review use cases.
type Service struct {
	repo    ports.Repository
	catalog ports.ProductCatalog
	now     func() time.Time
	newID   func() string
}

// Option customises the review service.
type Option func(*Service)

// WithProductCatalog rejects reviews for products the catalog does not know.
func WithProductCatalog(catalog ports.ProductCatalog) Option {
	return func(s *Service) { s.catalog = catalog }
}

// WithClock overrides the review timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides review id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService wires the review service.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ListReviews returns a product's reviews with their summary.
func (s *Service) ListReviews(ctx context.Context, productID string) (*reviewtypes.ProductReviews, error) {
	productID = strings.TrimSpace(productID)
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	reviews, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	entities := make([]*domain.Review, 0, len(reviews))
	for _, review := range reviews {
		entities = append(entities, review.Entity)
	}
	return &reviewtypes.ProductReviews{Reviews: reviews, Summary: domain.Summarize(entities)}, nil
}

// SubmitReview validates and stores a review. Validation failures wrap domain.ErrInvalidReview.
func (s *Service) SubmitReview(ctx context.Context, input reviewtypes.SubmitReviewInput) (*reviewtypes.ReviewProjection, error) {
	review, err := domain.NewReview(s.newID(), input.ProductID, input.UserID, input.Rating, input.Title, input.Comment, input.Images, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.ensureProduct(ctx, review.ProductID); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, review)
}

func (s *Service) ensureProduct(ctx context.Context, productID string) error {
	if productID == "" {
		return ports.ErrProductNotFound
	}
	if s.catalog == nil {
		return nil
	}
	exists, err := s.catalog.ProductExists(ctx, productID)
	if err != nil {
		return err
	}
	if !exists {
		return ports.ErrProductNotFound
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
