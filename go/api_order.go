package storefrontserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/http/mapper"
	ordertypes "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application/types"
	orderports "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
)

// IdempotencyKeyHeader lets checkout retries replay the first result.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderAPI wires HTTP transport with the orders bounded context service and workflows.
type OrderAPI struct {
	service   orderports.Service
	workflows orderports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI. Transitions go through workflows when it is set.
func NewOrderAPI(service orderports.Service, workflows orderports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// CancelResponse is returned by the tracking page cancellation.
type CancelResponse struct {
	Success bool                  `json:"success"`
	Order   orderhttpmapper.Order `json:"order"`
}

// Get /api/order/:userId
// Lists the customer's orders, newest first
func (api *OrderAPI) ListOrders(c *gin.Context) {
	userID, ok := api.owner(c)
	if !ok {
		return
	}
	var status *string
	if !bindQueryParam(c, "status", &status) {
		return
	}
	input := ordertypes.ListOrdersInput{UserID: userID}
	if status != nil {
		input.Status = *status
	}
	orders, err := api.service.ListOrders(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjectionList(orders))
}

// Post /api/order/:userId
// Places an order from the checkout form
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	userID, ok := api.owner(c)
	if !ok {
		return
	}
	var payload orderhttpmapper.PlaceOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	placed, err := api.service.PlaceOrder(c.Request.Context(), orderhttpmapper.ToPlaceOrderInput(userID, key, payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromProjection(placed))
}

// Patch /api/order/:userId
// Cancels an order; the stored order is returned
func (api *OrderAPI) CancelOrder(c *gin.Context) {
	userID, ok := api.owner(c)
	if !ok {
		return
	}
	var payload orderhttpmapper.StatusUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input, err := orderhttpmapper.ToCancelInput(userID, payload)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	cancelled, err := api.cancel(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CancelResponse{Success: true, Order: orderhttpmapper.FromProjection(cancelled)})
}

// Get /api/order/:userId/summary
// Counts the customer's orders per status
func (api *OrderAPI) OrderSummary(c *gin.Context) {
	userID, ok := api.owner(c)
	if !ok {
		return
	}
	summary, err := api.service.Summary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromSummary(summary))
}

// Get /api/order/:userId/:orderId
// Finds one of the customer's orders
func (api *OrderAPI) GetOrder(c *gin.Context) {
	userID, ok := api.owner(c)
	if !ok {
		return
	}
	orderID, ok := bindPathParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), ordertypes.OrderIdentifier{UserID: userID, OrderID: orderID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjection(order))
}

// Put /api/orders/:orderId/status
// Moves an order along fulfillment
func (api *OrderAPI) AdvanceOrderStatus(c *gin.Context) {
	orderID, ok := bindPathParam(c, "orderId")
	if !ok {
		return
	}
	var payload orderhttpmapper.StatusUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := ordertypes.AdvanceOrderInput{OrderID: orderID, Status: payload.Status}
	var (
		advanced *ordertypes.OrderProjection
		err      error
	)
	if api.workflows != nil {
		advanced, err = api.workflows.AdvanceOrder(c.Request.Context(), input)
	} else {
		advanced, err = api.service.AdvanceOrder(c.Request.Context(), input)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjection(advanced))
}

func (api *OrderAPI) cancel(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error) {
	if api.workflows != nil {
		return api.workflows.CancelOrder(ctx, input)
	}
	return api.service.CancelOrder(ctx, input)
}

// owner binds the userId path parameter and checks the caller may act for that user.
func (api *OrderAPI) owner(c *gin.Context) (string, bool) {
	userID, ok := bindPathParam(c, "userId")
	if !ok {
		return "", false
	}
	if !requireOwner(c, userID) {
		return "", false
	}
	return userID, true
}
