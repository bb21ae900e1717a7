package types

import "github.com/shopspring/decimal"

// Result sizes used by the storefront search boxes and home page.
const (
	DefaultSearchLimit   = 8
	MobileSearchLimit    = 5
	DefaultFeaturedLimit = 4
)

// VariantInput describes one product variant.
type VariantInput struct {
	Name      string
	Images    []string
	Price     decimal.Decimal
	SalePrice *decimal.Decimal
}

// CreateProductInput is the admin command adding a product.
type CreateProductInput struct {
	Name        string
	Description string
	Brand       string
	Category    string
	Price       decimal.Decimal
	Image       string
	Variants    []VariantInput
	Featured    bool
}

// ListProductsInput narrows the catalog. A non-empty Query switches to search mode.
type ListProductsInput struct {
	Query    string
	Category string
	Limit    int
}
