package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-storefront-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-storefront-api/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows runs order transitions on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.TransitionTaskQueue}
}

// CancelOrder starts the transition workflow for a customer cancellation.
func (o *TemporalOrderWorkflows) CancelOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, fmt.Errorf("%w: %w", application.ErrInvalidInput, domain.ErrEmptyUserID)
	}
	result, err := o.transition(ctx, orderactivities.TransitionInput{
		OrderID: strings.TrimSpace(input.OrderID),
		UserID:  userID,
		Status:  string(domain.StatusCancelled),
	})
	if err != nil {
		return nil, err
	}
	// A duplicate request may attach to a run started by someone else.
	if result.Entity == nil || result.Entity.UserID != userID {
		return nil, ports.ErrNotFound
	}
	return result, nil
}

// AdvanceOrder starts the transition workflow for a fulfillment update.
func (o *TemporalOrderWorkflows) AdvanceOrder(ctx context.Context, input ordertypes.AdvanceOrderInput) (*ordertypes.OrderProjection, error) {
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", application.ErrInvalidInput, err)
	}
	return o.transition(ctx, orderactivities.TransitionInput{
		OrderID: strings.TrimSpace(input.OrderID),
		Status:  string(status),
	})
}

func (o *TemporalOrderWorkflows) transition(ctx context.Context, command orderactivities.TransitionInput) (*ordertypes.OrderProjection, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	if command.OrderID == "" {
		return nil, ports.ErrNotFound
	}
	workflowID := BuildTransitionWorkflowID(command.OrderID, command.Status)
	options := client.StartWorkflowOptions{
		ID:                    workflowID,
		TaskQueue:             o.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.TransitionWorkflowName,
		orderworkflows.TransitionWorkflowInput{Command: command, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var projection ordertypes.OrderProjection
	if err := run.Get(ctx, &projection); err != nil {
		return nil, translateWorkflowError(err)
	}
	return &projection, nil
}

// BuildTransitionWorkflowID derives a deterministic id so repeated requests attach to one execution.
func BuildTransitionWorkflowID(orderID, status string) string {
	return fmt.Sprintf("order-transition-%s-%s", orderID, status)
}

// translateWorkflowError restores the application error a failed activity reported.
func translateWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case orderactivities.ErrTypeNotFound:
		return ports.ErrNotFound
	case orderactivities.ErrTypeInvalidInput:
		return fmt.Errorf("%w: %s", application.ErrInvalidInput, appErr.Message())
	case orderactivities.ErrTypeConflict:
		return fmt.Errorf("%w: %s", application.ErrConflict, appErr.Message())
	default:
		return err
	}
}

// InlineOrderWorkflows executes transitions directly against the service, used when Temporal is unavailable.
type InlineOrderWorkflows struct {
	service ports.Service
}

// NewInlineOrderWorkflows wraps the orders service for synchronous execution.
func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

// CancelOrder delegates to the application service without durable orchestration.
func (o *InlineOrderWorkflows) CancelOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.CancelOrder(ctx, input)
}

// AdvanceOrder delegates to the application service without durable orchestration.
func (o *InlineOrderWorkflows) AdvanceOrder(ctx context.Context, input ordertypes.AdvanceOrderInput) (*ordertypes.OrderProjection, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.AdvanceOrder(ctx, input)
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
