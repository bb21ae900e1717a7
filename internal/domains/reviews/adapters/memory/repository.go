package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps reviews in memory, grouped by product.
type Repository struct {
	mu        sync.RWMutex
	byProduct map[string][]*projection.Projection[*domain.Review]
	now       func() time.Time
}

func NewRepository() *Repository {
	return &Repository{byProduct: map[string][]*projection.Projection[*domain.Review]{}, now: time.Now}
}

func (r *Repository) Save(_ context.Context, review *domain.Review) (*projection.Projection[*domain.Review], error) {
	if review == nil || review.ID == "" {
		return nil, errors.New("cannot save review without id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	timestamp := r.now()
	stored := &projection.Projection[*domain.Review]{
		Entity:   review.Clone(),
		Metadata: projection.Metadata{CreatedAt: timestamp, UpdatedAt: timestamp},
	}
	r.byProduct[review.ProductID] = append(r.byProduct[review.ProductID], stored)
	return copyProjection(stored), nil
}

func (r *Repository) ListByProduct(_ context.Context, productID string) ([]*projection.Projection[*domain.Review], error) {
	r.mu.RLock()
	stored := r.byProduct[productID]
	result := make([]*projection.Projection[*domain.Review], 0, len(stored))
	for _, review := range stored {
		result = append(result, copyProjection(review))
	}
	r.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Entity.CreatedAt.After(result[j].Entity.CreatedAt)
	})
	return result, nil
}

func copyProjection(p *projection.Projection[*domain.Review]) *projection.Projection[*domain.Review] {
	return &projection.Projection[*domain.Review]{Entity: p.Entity.Clone(), Metadata: p.Metadata}
}
