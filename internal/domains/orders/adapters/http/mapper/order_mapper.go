package mapper

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	ordertypes "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
)

var (
	errMissingOrderID    = errors.New("orderId is required")
	errOnlyCancelAllowed = errors.New("customers may only set status to cancelled")
)

// LineItem is the HTTP representation of an ordered cart line.
type LineItem struct {
	ProductID string          `json:"productId,omitempty"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Brand     string          `json:"brand,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int32           `json:"quantity"`
}

// OrderedItem is a stored line as returned to clients.
type OrderedItem struct {
	ProductID string  `json:"productId,omitempty"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Brand     string  `json:"brand,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int32   `json:"quantity"`
	LineTotal string  `json:"lineTotal"`
}

// ShippingForm mirrors the checkout address form.
type ShippingForm struct {
	Address   string `json:"address"`
	Apartment string `json:"apartment,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
}

// PlaceOrder is the checkout payload. Omitted amounts are derived from the items.
type PlaceOrder struct {
	OrderedItems      []LineItem       `json:"orderedItems"`
	ShippingForm      ShippingForm     `json:"shippingForm"`
	Subtotal          *decimal.Decimal `json:"subtotal,omitempty"`
	Tax               *decimal.Decimal `json:"tax,omitempty"`
	ShippingCost      *decimal.Decimal `json:"shippingCost,omitempty"`
	Total             *decimal.Decimal `json:"total,omitempty"`
	Priority          string           `json:"priority,omitempty"`
	EstimatedDelivery *time.Time       `json:"estimatedDelivery,omitempty"`
}

// StatusUpdate is the PATCH body of the tracking page and the fulfillment endpoint.
type StatusUpdate struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// Badge carries a label and its style classes.
type Badge struct {
	BgColor     string `json:"bgColor"`
	TextColor   string `json:"textColor"`
	BorderColor string `json:"borderColor"`
	Label       string `json:"label"`
}

// Step is one timeline milestone.
type Step struct {
	Key           string     `json:"key"`
	Label         string     `json:"label"`
	Date          *time.Time `json:"date,omitempty"`
	FormattedDate string     `json:"formattedDate"`
	Active        bool       `json:"active"`
	Cancelled     bool       `json:"cancelled,omitempty"`
}

// Tracking is the derived view rendered next to each order.
type Tracking struct {
	ShortID                    string `json:"shortId"`
	Badge                      Badge  `json:"badge"`
	Steps                      []Step `json:"steps"`
	CanCancel                  bool   `json:"canCancel"`
	PriorityBadge              *Badge `json:"priorityBadge,omitempty"`
	ItemCount                  int    `json:"itemCount"`
	FormattedTotal             string `json:"formattedTotal"`
	FormattedAddress           string `json:"formattedAddress"`
	FormattedOrderDate         string `json:"formattedOrderDate"`
	FormattedEstimatedDelivery string `json:"formattedEstimatedDelivery"`
}

// Order is the HTTP representation of an order snapshot.
type Order struct {
	OrderID           string        `json:"orderId"`
	UserID            string        `json:"userId"`
	OrderedItems      []OrderedItem `json:"orderedItems"`
	ShippingForm      ShippingForm  `json:"shippingForm"`
	Subtotal          float64       `json:"subtotal"`
	Tax               float64       `json:"tax"`
	ShippingCost      float64       `json:"shippingCost"`
	Total             float64       `json:"total"`
	Status            string        `json:"status"`
	Priority          string        `json:"priority"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
	AssignedAt        *time.Time    `json:"assignedAt,omitempty"`
	PickedAt          *time.Time    `json:"pickedAt,omitempty"`
	DeliveredAt       *time.Time    `json:"deliveredAt,omitempty"`
	CancelledAt       *time.Time    `json:"cancelledAt,omitempty"`
	EstimatedDelivery *time.Time    `json:"estimatedDelivery,omitempty"`
	Tracking          Tracking      `json:"tracking"`
}

// Summary feeds the status filter tabs.
type Summary struct {
	Active    int            `json:"active"`
	Delivered int            `json:"delivered"`
	Cancelled int            `json:"cancelled"`
	Total     int            `json:"total"`
	ByStatus  map[string]int `json:"byStatus"`
}

// ToPlaceOrderInput converts a checkout payload into the application command.
func ToPlaceOrderInput(userID, idempotencyKey string, body PlaceOrder) ordertypes.PlaceOrderInput {
	items := make([]ordertypes.LineItemInput, 0, len(body.OrderedItems))
	for _, item := range body.OrderedItems {
		items = append(items, ordertypes.LineItemInput{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Brand:     item.Brand,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
		})
	}
	return ordertypes.PlaceOrderInput{
		UserID:         userID,
		IdempotencyKey: idempotencyKey,
		Items:          items,
		Subtotal:       body.Subtotal,
		Tax:            body.Tax,
		ShippingCost:   body.ShippingCost,
		Total:          body.Total,
		Shipping: ordertypes.ShippingInput{
			Address:   body.ShippingForm.Address,
			Apartment: body.ShippingForm.Apartment,
			City:      body.ShippingForm.City,
			State:     body.ShippingForm.State,
			ZipCode:   body.ShippingForm.ZipCode,
		},
		Priority:          body.Priority,
		EstimatedDelivery: body.EstimatedDelivery,
	}
}

// ToCancelInput validates a customer status update. Only cancellation is accepted.
func ToCancelInput(userID string, body StatusUpdate) (ordertypes.OrderIdentifier, error) {
	orderID := strings.TrimSpace(body.OrderID)
	if orderID == "" {
		return ordertypes.OrderIdentifier{}, errMissingOrderID
	}
	if domain.Status(strings.ToLower(strings.TrimSpace(body.Status))) != domain.StatusCancelled {
		return ordertypes.OrderIdentifier{}, errOnlyCancelAllowed
	}
	return ordertypes.OrderIdentifier{UserID: userID, OrderID: orderID}, nil
}

// FromProjection maps a stored order into its transport view with tracking.
func FromProjection(projection *ordertypes.OrderProjection) Order {
	order := projection.Entity
	items := make([]OrderedItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderedItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Brand:     item.Brand,
			Price:     item.UnitPrice.InexactFloat64(),
			Quantity:  item.Quantity,
			LineTotal: ordertypes.FormatPrice(item.LineTotal()),
		})
	}
	return Order{
		OrderID:      order.ID,
		UserID:       order.UserID,
		OrderedItems: items,
		ShippingForm: ShippingForm{
			Address:   order.Shipping.Address,
			Apartment: order.Shipping.Apartment,
			City:      order.Shipping.City,
			State:     order.Shipping.State,
			ZipCode:   order.Shipping.ZipCode,
		},
		Subtotal:          order.Subtotal.InexactFloat64(),
		Tax:               order.Tax.InexactFloat64(),
		ShippingCost:      order.ShippingCost.InexactFloat64(),
		Total:             order.Total.InexactFloat64(),
		Status:            string(order.Status),
		Priority:          string(order.Priority),
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         projection.Metadata.UpdatedAt,
		AssignedAt:        order.AssignedAt,
		PickedAt:          order.PickedAt,
		DeliveredAt:       order.DeliveredAt,
		CancelledAt:       order.CancelledAt,
		EstimatedDelivery: order.EstimatedDelivery,
		Tracking:          fromTracking(order),
	}
}

// FromProjectionList maps stored orders, preserving their order.
func FromProjectionList(list []*ordertypes.OrderProjection) []Order {
	result := make([]Order, 0, len(list))
	for _, projection := range list {
		result = append(result, FromProjection(projection))
	}
	return result
}

// FromSummary maps the status counters.
func FromSummary(summary *ordertypes.OrderSummary) Summary {
	byStatus := make(map[string]int, len(summary.ByStatus))
	for status, count := range summary.ByStatus {
		byStatus[string(status)] = count
	}
	return Summary{
		Active:    summary.Active,
		Delivered: summary.Delivered,
		Cancelled: summary.Cancelled,
		Total:     summary.Total,
		ByStatus:  byStatus,
	}
}

func fromTracking(order *domain.Order) Tracking {
	tracking := domain.Project(order)
	steps := make([]Step, 0, len(tracking.Steps))
	for _, step := range tracking.Steps {
		steps = append(steps, Step{
			Key:           step.Key,
			Label:         step.Label,
			Date:          step.Date,
			FormattedDate: ordertypes.FormatDate(step.Date),
			Active:        step.Active,
			Cancelled:     step.Cancelled,
		})
	}
	createdAt := order.CreatedAt
	return Tracking{
		ShortID:                    order.ShortID(),
		Badge:                      fromBadge(tracking.Badge),
		Steps:                      steps,
		CanCancel:                  tracking.CanCancel,
		PriorityBadge:              fromBadgePtr(tracking.PriorityBadge),
		ItemCount:                  order.ItemCount(),
		FormattedTotal:             ordertypes.FormatPrice(order.Total),
		FormattedAddress:           ordertypes.FormatShippingAddress(order.Shipping),
		FormattedOrderDate:         ordertypes.FormatDate(&createdAt),
		FormattedEstimatedDelivery: ordertypes.FormatDate(order.EstimatedDelivery),
	}
}

func fromBadge(badge domain.Badge) Badge {
	return Badge{BgColor: badge.BgColor, TextColor: badge.TextColor, BorderColor: badge.BorderColor, Label: badge.Label}
}

func fromBadgePtr(badge *domain.Badge) *Badge {
	if badge == nil {
		return nil
	}
	mapped := fromBadge(*badge)
	return &mapped
}
