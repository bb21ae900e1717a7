package application

import (
	"context"
	"strings"

	"github.com/google/uuid"

	catalogtypes "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
)

// Service implements the catalog use cases.
type Service struct {
	repo  ports.Repository
	newID func() string
}

// Option customises the catalog service.
type Option func(*Service)

// WithIDGenerator overrides product id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService wires the catalog service.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ListProducts returns the catalog, optionally narrowed by category or a search query.
func (s *Service) ListProducts(ctx context.Context, input catalogtypes.ListProductsInput) ([]*catalogtypes.ProductProjection, error) {
	var category domain.Category
	if strings.TrimSpace(input.Category) != "" {
		parsed, err := domain.ParseCategory(input.Category)
		if err != nil {
			return nil, mapError(err)
		}
		category = parsed
	}
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if category != "" {
		products = filter(products, func(p *domain.Product) bool { return p.Category == category })
	}
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return limit(products, input.Limit), nil
	}
	return s.search(products, query, input.Limit), nil
}

// search expects a trimmed, non-blank query.
func (s *Service) search(products []*catalogtypes.ProductProjection, query string, size int) []*catalogtypes.ProductProjection {
	if size <= 0 {
		size = catalogtypes.DefaultSearchLimit
	}
	matches := filter(products, func(p *domain.Product) bool { return p.Matches(query) })
	return limit(matches, size)
}

// GetProduct loads one product.
func (s *Service) GetProduct(ctx context.Context, id string) (*catalogtypes.ProductProjection, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ports.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// CreateProduct validates and stores a new product.
func (s *Service) CreateProduct(ctx context.Context, input catalogtypes.CreateProductInput) (*catalogtypes.ProductProjection, error) {
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, mapError(err)
	}
	product, err := domain.NewProduct(s.newID(), input.Name, input.Description, input.Brand, category, input.Price)
	if err != nil {
		return nil, mapError(err)
	}
	product.Image = strings.TrimSpace(input.Image)
	product.Featured = input.Featured
	for _, variant := range input.Variants {
		product.Variants = append(product.Variants, domain.Variant{
			Name:      strings.TrimSpace(variant.Name),
			Images:    append([]string(nil), variant.Images...),
			Price:     variant.Price,
			SalePrice: variant.SalePrice,
		})
	}
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, product)
}

// DeleteProduct removes a product. Unknown ids report ErrNotFound.
func (s *Service) DeleteProduct(ctx context.Context, id string) (int64, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, ports.ErrNotFound
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, ports.ErrNotFound
	}
	return deleted, nil
}

// FeaturedProducts returns flagged products, or the first products when none are flagged.
func (s *Service) FeaturedProducts(ctx context.Context, size int) ([]*catalogtypes.ProductProjection, error) {
	if size <= 0 {
		size = catalogtypes.DefaultFeaturedLimit
	}
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	featured := filter(products, func(p *domain.Product) bool { return p.Featured })
	if len(featured) == 0 {
		featured = products
	}
	return limit(featured, size), nil
}

func filter(products []*catalogtypes.ProductProjection, keep func(*domain.Product) bool) []*catalogtypes.ProductProjection {
	result := make([]*catalogtypes.ProductProjection, 0, len(products))
	for _, product := range products {
		if keep(product.Entity) {
			result = append(result, product)
		}
	}
	return result
}

func limit(products []*catalogtypes.ProductProjection, size int) []*catalogtypes.ProductProjection {
	if size > 0 && len(products) > size {
		return products[:size]
	}
	return products
}

var _ ports.Service = (*Service)(nil)
