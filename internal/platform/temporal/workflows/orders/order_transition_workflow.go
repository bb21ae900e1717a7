package orders

import (
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application/types"
	orderactivities "github.com/Apurer/go-gin-storefront-api/internal/platform/temporal/activities/orders"
	"github.com/Apurer/go-gin-storefront-api/internal/platform/temporal/sequences"
)

const (
	// TransitionWorkflowName is the public identifier for registering the workflow.
	TransitionWorkflowName = "orders.workflows.Transition"
	// TransitionTaskQueue is the queue consumed by the worker processing order workflows.
	TransitionTaskQueue = "ORDER_TRANSITIONS"
)

// TransitionWorkflowInput captures the requested transition plus the caller's trace id.
type TransitionWorkflowInput struct {
	Command orderactivities.TransitionInput
	TraceID string
}

// TransitionWorkflow applies an order status transition durably.
func TransitionWorkflow(ctx workflow.Context, input TransitionWorkflowInput) (*ordertypes.OrderProjection, error) {
	logger := workflow.GetLogger(ctx)
	orderID := input.Command.OrderID
	logger.Info("TransitionWorkflow started", withTraceID(input.TraceID, "orderId", orderID, "status", input.Command.Status)...)
	projection, err := sequences.RunOrderTransitionSequence(ctx, input.Command)
	if err != nil {
		logger.Error("TransitionWorkflow failed", withTraceID(input.TraceID, "orderId", orderID, "error", err)...)
		return nil, err
	}
	logger.Info("TransitionWorkflow completed", withTraceID(input.TraceID, "orderId", orderID, "status", string(projection.Entity.Status))...)
	return projection, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
