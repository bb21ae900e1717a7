package workflows

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	ordermemory "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-storefront-api/internal/platform/temporal/activities/orders"
)

func TestInlineOrderWorkflows_CancelAndAdvance(t *testing.T) {
	ctx := context.Background()
	svc := application.NewService(ordermemory.NewRepository())
	placed, err := svc.PlaceOrder(ctx, ordertypes.PlaceOrderInput{
		UserID:   "user-1",
		Items:    []ordertypes.LineItemInput{{Name: "Wool Scarf", UnitPrice: decimal.RequireFromString("30"), Quantity: 1}},
		Shipping: ordertypes.ShippingInput{Address: "1 Oak Ave", City: "Denver", State: "CO", ZipCode: "80202"},
	})
	require.NoError(t, err)
	second, err := svc.PlaceOrder(ctx, ordertypes.PlaceOrderInput{
		UserID:   "user-1",
		Items:    []ordertypes.LineItemInput{{Name: "Wool Hat", UnitPrice: decimal.RequireFromString("20"), Quantity: 1}},
		Shipping: ordertypes.ShippingInput{Address: "1 Oak Ave", City: "Denver", State: "CO", ZipCode: "80202"},
	})
	require.NoError(t, err)

	orchestrator := NewInlineOrderWorkflows(svc)
	cancelled, err := orchestrator.CancelOrder(ctx, ordertypes.OrderIdentifier{UserID: "user-1", OrderID: placed.Entity.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Entity.Status)

	advanced, err := orchestrator.AdvanceOrder(ctx, ordertypes.AdvanceOrderInput{OrderID: second.Entity.ID, Status: "assigned"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, advanced.Entity.Status)
}

func TestInlineOrderWorkflows_NotConfigured(t *testing.T) {
	var orchestrator *InlineOrderWorkflows
	_, err := orchestrator.CancelOrder(context.Background(), ordertypes.OrderIdentifier{UserID: "u", OrderID: "o"})
	require.Error(t, err)
}

func TestTemporalOrderWorkflows_RequiresClient(t *testing.T) {
	orchestrator := &TemporalOrderWorkflows{}
	_, err := orchestrator.AdvanceOrder(context.Background(), ordertypes.AdvanceOrderInput{OrderID: "o", Status: "assigned"})
	require.EqualError(t, err, "temporal order workflows not configured")

	_, err = orchestrator.AdvanceOrder(context.Background(), ordertypes.AdvanceOrderInput{OrderID: "o", Status: "shipped"})
	require.ErrorIs(t, err, application.ErrInvalidInput)

	_, err = orchestrator.CancelOrder(context.Background(), ordertypes.OrderIdentifier{OrderID: "o"})
	require.ErrorIs(t, err, application.ErrInvalidInput)
}

func TestBuildTransitionWorkflowID(t *testing.T) {
	assert.Equal(t, "order-transition-abc-cancelled", BuildTransitionWorkflowID("abc", "cancelled"))
}

func TestTranslateWorkflowError(t *testing.T) {
	wrap := func(errType string) error {
		return fmt.Errorf("workflow failed: %w", temporal.NewNonRetryableApplicationError("order can no longer be cancelled", errType, nil))
	}

	require.ErrorIs(t, translateWorkflowError(wrap(orderactivities.ErrTypeNotFound)), ports.ErrNotFound)
	require.ErrorIs(t, translateWorkflowError(wrap(orderactivities.ErrTypeInvalidInput)), application.ErrInvalidInput)
	conflict := translateWorkflowError(wrap(orderactivities.ErrTypeConflict))
	require.ErrorIs(t, conflict, application.ErrConflict)
	assert.Contains(t, conflict.Error(), "order can no longer be cancelled")

	other := errors.New("deadline exceeded")
	assert.Same(t, other, translateWorkflowError(other))
}
