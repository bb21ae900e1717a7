package ports

import (
	"context"

	catalogtypes "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/application/types"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	ListProducts(ctx context.Context, input catalogtypes.ListProductsInput) ([]*catalogtypes.ProductProjection, error)
	GetProduct(ctx context.Context, id string) (*catalogtypes.ProductProjection, error)
	CreateProduct(ctx context.Context, input catalogtypes.CreateProductInput) (*catalogtypes.ProductProjection, error)
	DeleteProduct(ctx context.Context, id string) (int64, error)
	FeaturedProducts(ctx context.Context, limit int) ([]*catalogtypes.ProductProjection, error)
}
