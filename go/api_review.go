package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	reviewhttpmapper "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/adapters/http/mapper"
	reviewports "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/ports"
)

// ReviewAPI wires HTTP transport with the reviews service.
type ReviewAPI struct {
	service reviewports.Service
}

func NewReviewAPI(service reviewports.Service) ReviewAPI {
	return ReviewAPI{service: service}
}

// Get /api/products/:productId/reviews
// Lists a product's reviews with their rating summary
func (api *ReviewAPI) ListReviews(c *gin.Context) {
	productID, ok := bindPathParam(c, "productId")
	if !ok {
		return
	}
	listing, err := api.service.ListReviews(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviewhttpmapper.FromProductReviews(listing))
}

// Post /api/products/:productId/reviews
// Submits a review as the calling user
func (api *ReviewAPI) SubmitReview(c *gin.Context) {
	productID, ok := bindPathParam(c, "productId")
	if !ok {
		return
	}
	var payload reviewhttpmapper.SubmitReview
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	var userID string
	if principal := PrincipalFrom(c); principal != nil {
		userID = principal.UserID
	}
	saved, err := api.service.SubmitReview(c.Request.Context(), reviewhttpmapper.ToSubmitReviewInput(productID, userID, payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reviewhttpmapper.FromProjection(saved))
}
