package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order store used for local runs and tests.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*storedOrder
	now    func() time.Time
}

type storedOrder struct {
	order    *domain.Order
	metadata projection.Metadata
}

// NewRepository constructs an empty in-memory store.
func NewRepository() *Repository {
	return &Repository{
		orders: map[string]*storedOrder{},
		now:    time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Save inserts or replaces an order while maintaining metadata.
func (r *Repository) Save(_ context.Context, order *domain.Order) (*projection.Projection[*domain.Order], error) {
	if order == nil {
		return nil, errors.New("cannot save nil order")
	}
	if order.ID == "" {
		return nil, errors.New("cannot save order without id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	timestamp := r.now()
	metadata := projection.Metadata{CreatedAt: timestamp, UpdatedAt: timestamp}
	if entry, ok := r.orders[order.ID]; ok {
		metadata.CreatedAt = entry.metadata.CreatedAt
	}
	stored := &storedOrder{order: order.Clone(), metadata: metadata}
	r.orders[order.ID] = stored
	return projectionCopy(stored), nil
}

// Update replaces a stored order when its current status matches expected.
func (r *Repository) Update(_ context.Context, order *domain.Order, expected domain.Status) (*projection.Projection[*domain.Order], error) {
	if order == nil {
		return nil, errors.New("cannot update nil order")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.orders[order.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if entry.order.Status != expected {
		return nil, ports.ErrStaleOrder
	}
	stored := &storedOrder{
		order:    order.Clone(),
		metadata: projection.Metadata{CreatedAt: entry.metadata.CreatedAt, UpdatedAt: r.now()},
	}
	r.orders[order.ID] = stored
	return projectionCopy(stored), nil
}

// GetByID fetches an order if present.
func (r *Repository) GetByID(_ context.Context, id string) (*projection.Projection[*domain.Order], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projectionCopy(entry), nil
}

// ListByUser returns the user's orders, newest first.
func (r *Repository) ListByUser(_ context.Context, userID string) ([]*projection.Projection[*domain.Order], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*projection.Projection[*domain.Order]
	for _, entry := range r.orders {
		if entry.order.UserID == userID {
			list = append(list, projectionCopy(entry))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Entity.CreatedAt.Equal(list[j].Entity.CreatedAt) {
			return list[i].Entity.ID < list[j].Entity.ID
		}
		return list[i].Entity.CreatedAt.After(list[j].Entity.CreatedAt)
	})
	return list, nil
}

func projectionCopy(entry *storedOrder) *projection.Projection[*domain.Order] {
	return &projection.Projection[*domain.Order]{
		Entity:   entry.order.Clone(),
		Metadata: entry.metadata,
	}
}
