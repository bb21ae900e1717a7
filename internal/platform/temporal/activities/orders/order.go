package orders

import (
	"context"
	"errors"
	"strings"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
)

const (
	// TransitionOrderActivityName applies one status transition to a stored order.
	TransitionOrderActivityName = "orders.activities.TransitionOrder"

	// Application error types surfaced to workflow callers. They are never retried.
	ErrTypeNotFound     = "OrderNotFound"
	ErrTypeInvalidInput = "OrderInvalidInput"
	ErrTypeConflict     = "OrderConflict"
)

// TransitionInput describes a requested status change. UserID is set for customer
// cancellations and restricts the transition to orders owned by that customer.
type TransitionInput struct {
	OrderID string
	UserID  string
	Status  string
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service orderports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service orderports.Service) *Activities {
	return &Activities{service: service}
}

// TransitionOrder cancels or advances the order and returns the stored projection.
func (a *Activities) TransitionOrder(ctx context.Context, input TransitionInput) (*ordertypes.OrderProjection, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order transition activity not initialized", "orderId", input.OrderID)
		return nil, errors.New("order transition activity not initialized")
	}
	logger.Info("TransitionOrder activity started", "orderId", input.OrderID, "status", input.Status)

	var (
		projection *ordertypes.OrderProjection
		err        error
	)
	if isCancellation(input) {
		projection, err = a.service.CancelOrder(ctx, ordertypes.OrderIdentifier{UserID: input.UserID, OrderID: input.OrderID})
	} else {
		projection, err = a.service.AdvanceOrder(ctx, ordertypes.AdvanceOrderInput{OrderID: input.OrderID, Status: input.Status})
	}
	if err != nil {
		logger.Error("TransitionOrder activity failed", "orderId", input.OrderID, "error", err)
		return nil, classify(err)
	}
	logger.Info("TransitionOrder activity completed", "orderId", projection.Entity.ID, "status", string(projection.Entity.Status))
	return projection, nil
}

func isCancellation(input TransitionInput) bool {
	return strings.TrimSpace(input.UserID) != "" && domain.Status(strings.ToLower(strings.TrimSpace(input.Status))) == domain.StatusCancelled
}

// classify marks business rejections as non-retryable so the workflow fails fast.
func classify(err error) error {
	switch {
	case errors.Is(err, orderports.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNotFound, err)
	case errors.Is(err, application.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, err)
	case errors.Is(err, application.ErrConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeConflict, err)
	default:
		return err
	}
}
