package catalog

import (
	"context"
	"errors"

	catalogports "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	reviewports "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/ports"
)

var _ reviewports.ProductCatalog = (*ProductLookup)(nil)

// ProductLookup answers product existence questions from the catalog service.
type ProductLookup struct {
	catalog catalogports.Service
}

// NewProductLookup adapts the catalog service for the reviews context.
func NewProductLookup(catalog catalogports.Service) *ProductLookup {
	return &ProductLookup{catalog: catalog}
}

func (l *ProductLookup) ProductExists(ctx context.Context, productID string) (bool, error) {
	if _, err := l.catalog.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
