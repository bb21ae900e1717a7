package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	ordertypes "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application/types"
)

type normalizedPlaceOrderInput struct {
	UserID            string                   `json:"userId"`
	Items             []normalizedLineItem     `json:"items"`
	Subtotal          *string                  `json:"subtotal"`
	Tax               *string                  `json:"tax"`
	ShippingCost      *string                  `json:"shippingCost"`
	Total             *string                  `json:"total"`
	Shipping          ordertypes.ShippingInput `json:"shipping"`
	Priority          string                   `json:"priority"`
	EstimatedDelivery *string                  `json:"estimatedDelivery"`
}

type normalizedLineItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Brand     string `json:"brand"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int32  `json:"quantity"`
}

// FingerprintPlaceOrder builds a deterministic hash of the checkout payload (excluding the idempotency key).
func FingerprintPlaceOrder(input ordertypes.PlaceOrderInput) (string, error) {
	payload, err := json.Marshal(normalizePlaceOrderInput(input))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func normalizePlaceOrderInput(input ordertypes.PlaceOrderInput) normalizedPlaceOrderInput {
	normalized := normalizedPlaceOrderInput{
		UserID: strings.TrimSpace(input.UserID),
		Items:  make([]normalizedLineItem, 0, len(input.Items)),
		Shipping: ordertypes.ShippingInput{
			Address:   strings.TrimSpace(input.Shipping.Address),
			Apartment: strings.TrimSpace(input.Shipping.Apartment),
			City:      strings.TrimSpace(input.Shipping.City),
			State:     strings.TrimSpace(input.Shipping.State),
			ZipCode:   strings.TrimSpace(input.Shipping.ZipCode),
		},
		Priority: strings.ToLower(strings.TrimSpace(input.Priority)),
	}
	for _, item := range input.Items {
		normalized.Items = append(normalized.Items, normalizedLineItem{
			ProductID: item.ProductID,
			Name:      strings.TrimSpace(item.Name),
			Image:     item.Image,
			Brand:     item.Brand,
			UnitPrice: item.UnitPrice.String(),
			Quantity:  item.Quantity,
		})
	}
	if input.Subtotal != nil {
		v := input.Subtotal.String()
		normalized.Subtotal = &v
	}
	if input.Tax != nil {
		v := input.Tax.String()
		normalized.Tax = &v
	}
	if input.ShippingCost != nil {
		v := input.ShippingCost.String()
		normalized.ShippingCost = &v
	}
	if input.Total != nil {
		v := input.Total.String()
		normalized.Total = &v
	}
	if input.EstimatedDelivery != nil {
		v := input.EstimatedDelivery.UTC().Format(time.RFC3339)
		normalized.EstimatedDelivery = &v
	}
	return normalized
}
