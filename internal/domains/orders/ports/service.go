package ports

import (
	"context"

	ordertypes "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application/types"
)

// Service defines the order use cases exposed to adapters (inbound/driving port).
type Service interface {
	PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*ordertypes.OrderProjection, error)
	ListOrders(ctx context.Context, input ordertypes.ListOrdersInput) ([]*ordertypes.OrderProjection, error)
	GetOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error)
	Summary(ctx context.Context, userID string) (*ordertypes.OrderSummary, error)
	CancelOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error)
	AdvanceOrder(ctx context.Context, input ordertypes.AdvanceOrderInput) (*ordertypes.OrderProjection, error)
}
