package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application/types"
	orderactivities "github.com/Apurer/go-gin-storefront-api/internal/platform/temporal/activities/orders"
)

// RunOrderTransitionSequence executes the activity that moves an order to its next status.
func RunOrderTransitionSequence(ctx workflow.Context, input orderactivities.TransitionInput) (*ordertypes.OrderProjection, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order transition sequence started", "orderId", input.OrderID, "status", input.Status)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
			NonRetryableErrorTypes: []string{
				orderactivities.ErrTypeNotFound,
				orderactivities.ErrTypeInvalidInput,
				orderactivities.ErrTypeConflict,
			},
		},
	}

	var projection ordertypes.OrderProjection
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), orderactivities.TransitionOrderActivityName, input).Get(ctx, &projection)
	if err != nil {
		logger.Error("order transition sequence failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("order transition sequence applied", "orderId", input.OrderID, "status", string(projection.Entity.Status))
	return &projection, nil
}
