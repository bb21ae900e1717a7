package domain

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Category groups products on the storefront.
type Category string

const (
	CategoryFashion     Category = "fashion"
	CategoryElectronics Category = "electronics"
)

var (
	ErrEmptyName       = errors.New("product name is required")
	ErrInvalidCategory = errors.New("product category must be fashion or electronics")
	ErrNegativePrice   = errors.New("product price must not be negative")
)

// ParseCategory accepts either category in any letter case.
func ParseCategory(raw string) (Category, error) {
	category := Category(strings.ToLower(strings.TrimSpace(raw)))
	switch category {
	case CategoryFashion, CategoryElectronics:
		return category, nil
	default:
		return "", ErrInvalidCategory
	}
}

// Variant is a purchasable option such as a colour, with its own gallery and price.
// SalePrice is set while the variant is discounted.
type Variant struct {
	Name      string
	Images    []string
	Price     decimal.Decimal
	SalePrice *decimal.Decimal
}

// Product is the catalog aggregate.
type Product struct {
	ID          string
	Name        string
	Description string
	Brand       string
	Category    Category
	Price       decimal.Decimal
	Image       string
	Variants    []Variant
	Featured    bool
}

// NewProduct validates and constructs a product.
func NewProduct(id, name, description, brand string, category Category, price decimal.Decimal) (*Product, error) {
	p := &Product{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Brand:       strings.TrimSpace(brand),
		Category:    category,
		Price:       price,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the product invariants.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if _, err := ParseCategory(string(p.Category)); err != nil {
		return err
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	for _, variant := range p.Variants {
		if variant.Price.IsNegative() || (variant.SalePrice != nil && variant.SalePrice.IsNegative()) {
			return ErrNegativePrice
		}
	}
	return nil
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonWord       = regexp.MustCompile(`[^\w-]+`)
)

// Slug lower-cases the name, joins words with dashes and drops other characters.
func Slug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = whitespaceRun.ReplaceAllString(slug, "-")
	return nonWord.ReplaceAllString(slug, "")
}

// Slug is the URL-friendly product name.
func (p *Product) Slug() string {
	return Slug(p.Name)
}

// ImageURL picks the primary image, then the first variant image, then the conventional upload path.
func (p *Product) ImageURL() string {
	if p.Image != "" {
		return p.Image
	}
	for _, variant := range p.Variants {
		if len(variant.Images) > 0 && variant.Images[0] != "" {
			return variant.Images[0]
		}
	}
	return "/uploads/products/" + p.Slug() + ".png"
}

// Matches reports whether the lower-cased query appears in the name or description.
func (p *Product) Matches(query string) bool {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}

// Clone returns a deep copy.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Variants != nil {
		clone.Variants = make([]Variant, len(p.Variants))
		for i, variant := range p.Variants {
			clone.Variants[i] = Variant{
				Name:      variant.Name,
				Images:    append([]string(nil), variant.Images...),
				Price:     variant.Price,
				SalePrice: cloneDecimal(variant.SalePrice),
			}
		}
	}
	return &clone
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
