package mapper

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogtypes "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

func TestToCreateProductInput_VariantPrices(t *testing.T) {
	sale := 24.5
	input := ToCreateProductInput(CreateProduct{
		Name:     "Canvas Tote",
		Category: "fashion",
		Variants: []Variant{
			{Name: "natural", Price: 29.9, SalePrice: &sale},
			{Name: "black", Price: 29.9},
		},
	})

	require.Len(t, input.Variants, 2)
	assert.True(t, decimal.RequireFromString("29.9").Equal(input.Variants[0].Price))
	require.NotNil(t, input.Variants[0].SalePrice)
	assert.True(t, decimal.RequireFromString("24.5").Equal(*input.Variants[0].SalePrice))
	assert.Nil(t, input.Variants[1].SalePrice)
}

func TestFromProjection_VariantPrices(t *testing.T) {
	sale := decimal.RequireFromString("79")
	product := FromProjection(&catalogtypes.ProductProjection{Entity: &domain.Product{
		ID:       "prod-1",
		Name:     "Smart Watch",
		Category: domain.CategoryElectronics,
		Price:    decimal.RequireFromString("99"),
		Variants: []domain.Variant{{Name: "steel", Price: decimal.RequireFromString("99"), SalePrice: &sale}},
	}, Metadata: projection.Metadata{}})

	require.Len(t, product.Variants, 1)
	assert.Equal(t, 99.0, product.Variants[0].Price)
	require.NotNil(t, product.Variants[0].SalePrice)
	assert.Equal(t, 79.0, *product.Variants[0].SalePrice)
	assert.Equal(t, "smart-watch", product.Slug)
}
