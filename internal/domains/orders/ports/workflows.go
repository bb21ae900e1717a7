package ports

import (
	"context"

	ordertypes "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application/types"
)

// WorkflowOrchestrator runs order status transitions, durably when a workflow engine is available.
type WorkflowOrchestrator interface {
	CancelOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error)
	AdvanceOrder(ctx context.Context, input ordertypes.AdvanceOrderInput) (*ordertypes.OrderProjection, error)
}
