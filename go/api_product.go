package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	producthttpmapper "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/adapters/http/mapper"
	catalogtypes "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
)

// ProductAPI wires HTTP transport with the catalog service.
type ProductAPI struct {
	service catalogports.Service
}

func NewProductAPI(service catalogports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// DeleteProductResponse reports how many products were removed.
type DeleteProductResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

// Get /api/products
// Lists, filters or searches the catalog
func (api *ProductAPI) ListProducts(c *gin.Context) {
	var (
		query    *string
		category *string
		limit    *int
	)
	if !bindQueryParam(c, "q", &query) || !bindQueryParam(c, "category", &category) || !bindQueryParam(c, "limit", &limit) {
		return
	}
	input := catalogtypes.ListProductsInput{}
	if query != nil {
		input.Query = *query
	}
	if category != nil {
		input.Category = *category
	}
	if limit != nil {
		input.Limit = *limit
	}
	products, err := api.service.ListProducts(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjectionList(products))
}

// Get /api/products/featured
// Lists the home page products
func (api *ProductAPI) FeaturedProducts(c *gin.Context) {
	var limit *int
	if !bindQueryParam(c, "limit", &limit) {
		return
	}
	size := catalogtypes.DefaultFeaturedLimit
	if limit != nil {
		size = *limit
	}
	products, err := api.service.FeaturedProducts(c.Request.Context(), size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjectionList(products))
}

// Get /api/products/:productId
// Finds a product by ID
func (api *ProductAPI) GetProduct(c *gin.Context) {
	id, ok := bindPathParam(c, "productId")
	if !ok {
		return
	}
	product, err := api.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjection(product))
}

// Post /api/products
// Adds a product to the catalog
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload producthttpmapper.CreateProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	created, err := api.service.CreateProduct(c.Request.Context(), producthttpmapper.ToCreateProductInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, producthttpmapper.FromProjection(created))
}

// Delete /api/products
// Removes a product
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	var payload producthttpmapper.DeleteProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	if payload.ID == "" {
		respondStatus(c, http.StatusBadRequest, "id is required")
		return
	}
	deleted, err := api.service.DeleteProduct(c.Request.Context(), payload.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeleteProductResponse{DeletedCount: deleted})
}
