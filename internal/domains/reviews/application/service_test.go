package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reviewmemory "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/adapters/memory"
	reviewtypes "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/application/types"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/ports"
)

type fakeCatalog struct {
	products map[string]bool
	err      error
}

func (f fakeCatalog) ProductExists(_ context.Context, productID string) (bool, error) {
	return f.products[productID], f.err
}

func newTestService(catalog ports.ProductCatalog) *Service {
	now := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	ids := 0
	return NewService(reviewmemory.NewRepository(),
		WithProductCatalog(catalog),
		WithClock(func() time.Time {
			now = now.Add(time.Minute)
			return now
		}),
		WithIDGenerator(func() string {
			ids++
			return []string{"r-1", "r-2", "r-3"}[ids-1]
		}),
	)
}

func TestSubmitReview_ListsNewestFirstWithSummary(t *testing.T) {
	svc := newTestService(fakeCatalog{products: map[string]bool{"p-1": true}})
	ctx := context.Background()

	_, err := svc.SubmitReview(ctx, reviewtypes.SubmitReviewInput{ProductID: "p-1", UserID: "u-1", Rating: 5, Title: "Great quality"})
	require.NoError(t, err)
	_, err = svc.SubmitReview(ctx, reviewtypes.SubmitReviewInput{ProductID: "p-1", UserID: "u-2", Rating: 2, Title: "Ran small", Comment: "Order a size up from usual."})
	require.NoError(t, err)

	listing, err := svc.ListReviews(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, listing.Reviews, 2)
	assert.Equal(t, "r-2", listing.Reviews[0].Entity.ID)
	assert.Equal(t, 3.5, listing.Summary.Average)
	assert.Equal(t, 2, listing.Summary.Count)
	assert.Equal(t, 50.0, listing.Summary.Distribution[0].Percent)
}

func TestSubmitReview_ValidationErrors(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.SubmitReview(context.Background(), reviewtypes.SubmitReviewInput{ProductID: "p-1", UserID: "u-1"})
	require.ErrorIs(t, err, domain.ErrInvalidReview)

	var validation *domain.ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Contains(t, validation.Fields, "rating")
	assert.Contains(t, validation.Fields, "title")
}

func TestSubmitReview_UnknownProduct(t *testing.T) {
	svc := newTestService(fakeCatalog{products: map[string]bool{}})
	_, err := svc.SubmitReview(context.Background(), reviewtypes.SubmitReviewInput{ProductID: "p-9", UserID: "u-1", Rating: 4, Title: "Nice one"})
	require.ErrorIs(t, err, ports.ErrProductNotFound)

	_, err = svc.ListReviews(context.Background(), "p-9")
	require.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestListReviews_CatalogFailure(t *testing.T) {
	failure := errors.New("catalog unavailable")
	svc := newTestService(fakeCatalog{err: failure})
	_, err := svc.ListReviews(context.Background(), "p-1")
	require.ErrorIs(t, err, failure)
}

func TestListReviews_EmptyProduct(t *testing.T) {
	svc := newTestService(nil)
	listing, err := svc.ListReviews(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Empty(t, listing.Reviews)
	assert.Zero(t, listing.Summary.Average)
}
