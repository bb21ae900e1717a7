package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemInput is one cart line submitted at checkout.
type LineItemInput struct {
	ProductID string
	Name      string
	Image     string
	Brand     string
	UnitPrice decimal.Decimal
	Quantity  int32
}

// ShippingInput carries the checkout address form.
type ShippingInput struct {
	Address   string
	Apartment string
	City      string
	State     string
	ZipCode   string
}

// PlaceOrderInput is the checkout command. Nil amounts are derived from the items.
type PlaceOrderInput struct {
	UserID            string
	IdempotencyKey    string
	Items             []LineItemInput
	Subtotal          *decimal.Decimal
	Tax               *decimal.Decimal
	ShippingCost      *decimal.Decimal
	Total             *decimal.Decimal
	Shipping          ShippingInput
	Priority          string
	EstimatedDelivery *time.Time
}

// ListOrdersInput selects a customer's orders. Status is "all", empty or a single status.
type ListOrdersInput struct {
	UserID string
	Status string
}

// OrderIdentifier addresses one order owned by a customer.
type OrderIdentifier struct {
	UserID  string
	OrderID string
}

// AdvanceOrderInput moves an order along fulfillment. Status may also be "cancelled".
type AdvanceOrderInput struct {
	OrderID string
	Status  string
}
