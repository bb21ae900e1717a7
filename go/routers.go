package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-storefront-api/internal/platform/auth"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// Level is the access the caller needs.
	Level auth.Level
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions bundles the handlers of every API group.
type ApiHandleFunctions struct {
	OrderAPI   OrderAPI
	ProductAPI ProductAPI
	ReviewAPI  ReviewAPI
	UploadAPI  UploadAPI
	AccessAPI  AccessAPI
	// Auth guards non-public routes. A nil Auth rejects every guarded request.
	Auth *Authenticator
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the API routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	authenticator := handleFunctions.Auth
	if authenticator == nil {
		authenticator = &Authenticator{}
	}
	router.Use(authenticator.Identify())
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := []gin.HandlerFunc{route.HandlerFunc}
		if route.Level != auth.Public {
			handlers = append([]gin.HandlerFunc{authenticator.Require(route.Level)}, handlers...)
		}
		router.Handle(route.Method, route.Pattern, handlers...)
	}
	return router
}

// DefaultHandleFunc is the default handler for routes that are not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Routes lists every route with its access level.
func Routes(handleFunctions ApiHandleFunctions) []Route {
	return getRoutes(handleFunctions)
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"ListOrders",
			http.MethodGet,
			"/api/order/:userId",
			auth.Authenticated,
			handleFunctions.OrderAPI.ListOrders,
		},
		{
			"PlaceOrder",
			http.MethodPost,
			"/api/order/:userId",
			auth.Authenticated,
			handleFunctions.OrderAPI.PlaceOrder,
		},
		{
			"CancelOrder",
			http.MethodPatch,
			"/api/order/:userId",
			auth.Authenticated,
			handleFunctions.OrderAPI.CancelOrder,
		},
		{
			"OrderSummary",
			http.MethodGet,
			"/api/order/:userId/summary",
			auth.Authenticated,
			handleFunctions.OrderAPI.OrderSummary,
		},
		{
			"GetOrder",
			http.MethodGet,
			"/api/order/:userId/:orderId",
			auth.Authenticated,
			handleFunctions.OrderAPI.GetOrder,
		},
		{
			"AdvanceOrderStatus",
			http.MethodPut,
			"/api/orders/:orderId/status",
			auth.Admin,
			handleFunctions.OrderAPI.AdvanceOrderStatus,
		},
		{
			"ListProducts",
			http.MethodGet,
			"/api/products",
			auth.Public,
			handleFunctions.ProductAPI.ListProducts,
		},
		{
			"FeaturedProducts",
			http.MethodGet,
			"/api/products/featured",
			auth.Public,
			handleFunctions.ProductAPI.FeaturedProducts,
		},
		{
			"GetProduct",
			http.MethodGet,
			"/api/products/:productId",
			auth.Public,
			handleFunctions.ProductAPI.GetProduct,
		},
		{
			"CreateProduct",
			http.MethodPost,
			"/api/products",
			auth.Admin,
			handleFunctions.ProductAPI.CreateProduct,
		},
		{
			"DeleteProduct",
			http.MethodDelete,
			"/api/products",
			auth.Admin,
			handleFunctions.ProductAPI.DeleteProduct,
		},
		{
			"ListReviews",
			http.MethodGet,
			"/api/products/:productId/reviews",
			auth.Public,
			handleFunctions.ReviewAPI.ListReviews,
		},
		{
			"SubmitReview",
			http.MethodPost,
			"/api/products/:productId/reviews",
			auth.Authenticated,
			handleFunctions.ReviewAPI.SubmitReview,
		},
		{
			"UploadImages",
			http.MethodPost,
			"/api/upload",
			auth.Admin,
			handleFunctions.UploadAPI.UploadImages,
		},
		{
			"CheckAccess",
			http.MethodPost,
			"/api/access/check",
			auth.Public,
			handleFunctions.AccessAPI.CheckAccess,
		},
	}
}
