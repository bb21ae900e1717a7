package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	catalogtypes "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/application/types"
)

// Variant is the HTTP representation of a product variant.
type Variant struct {
	Name      string   `json:"name"`
	Images    []string `json:"images"`
	Price     float64  `json:"price"`
	SalePrice *float64 `json:"salePrice,omitempty"`
}

// CreateProduct is the admin payload for new products.
type CreateProduct struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Variants    []Variant       `json:"variants,omitempty"`
	Featured    bool            `json:"featured,omitempty"`
}

// DeleteProduct is the body of the delete request.
type DeleteProduct struct {
	ID string `json:"id"`
}

// Product is the HTTP representation of a catalog product.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	Variants    []Variant `json:"variants"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToCreateProductInput converts the admin payload into the application command.
func ToCreateProductInput(body CreateProduct) catalogtypes.CreateProductInput {
	variants := make([]catalogtypes.VariantInput, 0, len(body.Variants))
	for _, variant := range body.Variants {
		input := catalogtypes.VariantInput{
			Name:   variant.Name,
			Images: append([]string(nil), variant.Images...),
			Price:  decimal.NewFromFloat(variant.Price),
		}
		if variant.SalePrice != nil {
			sale := decimal.NewFromFloat(*variant.SalePrice)
			input.SalePrice = &sale
		}
		variants = append(variants, input)
	}
	return catalogtypes.CreateProductInput{
		Name:        body.Name,
		Description: body.Description,
		Brand:       body.Brand,
		Category:    body.Category,
		Price:       body.Price,
		Image:       body.Image,
		Variants:    variants,
		Featured:    body.Featured,
	}
}

// FromProjection maps a stored product. Image is always resolved to a displayable URL.
func FromProjection(projection *catalogtypes.ProductProjection) Product {
	product := projection.Entity
	variants := make([]Variant, 0, len(product.Variants))
	for _, variant := range product.Variants {
		out := Variant{
			Name:   variant.Name,
			Images: append([]string{}, variant.Images...),
			Price:  variant.Price.InexactFloat64(),
		}
		if variant.SalePrice != nil {
			sale := variant.SalePrice.InexactFloat64()
			out.SalePrice = &sale
		}
		variants = append(variants, out)
	}
	return Product{
		ID:          product.ID,
		Name:        product.Name,
		Slug:        product.Slug(),
		Description: product.Description,
		Brand:       product.Brand,
		Category:    string(product.Category),
		Price:       product.Price.InexactFloat64(),
		Image:       product.ImageURL(),
		Variants:    variants,
		Featured:    product.Featured,
		CreatedAt:   projection.Metadata.CreatedAt,
		UpdatedAt:   projection.Metadata.UpdatedAt,
	}
}

// FromProjectionList maps a slice of products.
func FromProjectionList(list []*catalogtypes.ProductProjection) []Product {
	result := make([]Product, 0, len(list))
	for _, projection := range list {
		result = append(result, FromProjection(projection))
	}
	return result
}
