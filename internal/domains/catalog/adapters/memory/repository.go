package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps products in memory, listing them in insertion order.
type Repository struct {
	mu       sync.RWMutex
	products map[string]*storedProduct
	seq      int64
	now      func() time.Time
}

type storedProduct struct {
	product  *domain.Product
	metadata projection.Metadata
	seq      int64
}

// NewRepository constructs an empty in-memory catalog.
func NewRepository() *Repository {
	return &Repository{
		products: map[string]*storedProduct{},
		now:      time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*projection.Projection[*domain.Product], error) {
	if product == nil || product.ID == "" {
		return nil, errors.New("cannot save product without id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	timestamp := r.now()
	entry := &storedProduct{
		product:  product.Clone(),
		metadata: projection.Metadata{CreatedAt: timestamp, UpdatedAt: timestamp},
	}
	if existing, ok := r.products[product.ID]; ok {
		entry.metadata.CreatedAt = existing.metadata.CreatedAt
		entry.seq = existing.seq
	} else {
		r.seq++
		entry.seq = r.seq
	}
	r.products[product.ID] = entry
	return entry.projection(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*projection.Projection[*domain.Product], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return entry.projection(), nil
}

func (r *Repository) List(_ context.Context) ([]*projection.Projection[*domain.Product], error) {
	r.mu.RLock()
	entries := make([]*storedProduct, 0, len(r.products))
	for _, entry := range r.products {
		entries = append(entries, entry)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	result := make([]*projection.Projection[*domain.Product], 0, len(entries))
	for _, entry := range entries {
		result = append(result, entry.projection())
	}
	return result, nil
}

func (r *Repository) Delete(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return 0, nil
	}
	delete(r.products, id)
	return 1, nil
}

func (e *storedProduct) projection() *projection.Projection[*domain.Product] {
	return &projection.Projection[*domain.Product]{Entity: e.product.Clone(), Metadata: e.metadata}
}
