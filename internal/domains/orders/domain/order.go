package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates the order lifecycle.
type Status string

const (
	StatusPending        Status = "pending"
	StatusAssigned       Status = "assigned"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// Priority flags orders that fulfillment should expedite.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

var (
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidPriority   = errors.New("order priority is invalid")
	ErrEmptyUserID       = errors.New("user id is required")
	ErrNoItems           = errors.New("order must contain at least one item")
	ErrEmptyItemName     = errors.New("item name is required")
	ErrInvalidQuantity   = errors.New("item quantity must be greater than zero")
	ErrInvalidPrice      = errors.New("item price must not be negative")
	ErrInvalidAmount     = errors.New("order amounts must not be negative")
	ErrTotalMismatch     = errors.New("order total must equal subtotal plus tax plus shipping")
	ErrIncompleteAddress = errors.New("shipping address, city, state and zip code are required")
	ErrInvalidTransition = errors.New("order status transition is not allowed")
	ErrNotCancellable    = errors.New("order can no longer be cancelled")
	ErrInconsistentDates = errors.New("order timestamps do not match its status")
)

// AllStatuses lists every status, fulfillment path first and cancelled last.
func AllStatuses() []Status {
	return []Status{StatusPending, StatusAssigned, StatusOutForDelivery, StatusDelivered, StatusCancelled}
}

// ParseStatus normalizes raw input into a known status.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Valid reports whether the status belongs to the closed enumeration.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// Active reports whether the order is still moving through fulfillment.
func (s Status) Active() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusOutForDelivery:
		return true
	default:
		return false
	}
}

// rank is the position along the fulfillment path; cancelled and unknown values have none.
func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusAssigned:
		return 1
	case StatusOutForDelivery:
		return 2
	case StatusDelivered:
		return 3
	default:
		return -1
	}
}

// ParsePriority maps empty input to normal.
func ParsePriority(raw string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PriorityNormal:
		return PriorityNormal, nil
	case PriorityHigh:
		return PriorityHigh, nil
	default:
		return "", ErrInvalidPriority
	}
}

// LineItem is a purchased product snapshot.
type LineItem struct {
	ProductID string
	Name      string
	Image     string
	Brand     string
	UnitPrice decimal.Decimal
	Quantity  int32
}

// LineTotal is unit price times quantity.
func (i LineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt32(i.Quantity))
}

func (i LineItem) validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyItemName
	}
	if i.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// ShippingForm is the delivery address captured at checkout.
type ShippingForm struct {
	Address   string
	Apartment string
	City      string
	State     string
	ZipCode   string
}

// Validate requires every field except the apartment.
func (f ShippingForm) Validate() error {
	if strings.TrimSpace(f.Address) == "" ||
		strings.TrimSpace(f.City) == "" ||
		strings.TrimSpace(f.State) == "" ||
		strings.TrimSpace(f.ZipCode) == "" {
		return ErrIncompleteAddress
	}
	return nil
}

// Format renders "address[, apartment], city, state zip".
func (f ShippingForm) Format() string {
	var b strings.Builder
	b.WriteString(f.Address)
	if f.Apartment != "" {
		b.WriteString(", ")
		b.WriteString(f.Apartment)
	}
	b.WriteString(", ")
	b.WriteString(f.City)
	b.WriteString(", ")
	b.WriteString(f.State)
	b.WriteString(" ")
	b.WriteString(f.ZipCode)
	return b.String()
}

func (f ShippingForm) normalized() ShippingForm {
	return ShippingForm{
		Address:   strings.TrimSpace(f.Address),
		Apartment: strings.TrimSpace(f.Apartment),
		City:      strings.TrimSpace(f.City),
		State:     strings.TrimSpace(f.State),
		ZipCode:   strings.TrimSpace(f.ZipCode),
	}
}

// Totals carries caller supplied amounts. Nil fields are derived at placement.
type Totals struct {
	Subtotal     *decimal.Decimal
	Tax          *decimal.Decimal
	ShippingCost *decimal.Decimal
	Total        *decimal.Decimal
}

// Order models a customer purchase and its fulfillment progress.
type Order struct {
	ID                string
	UserID            string
	Status            Status
	Priority          Priority
	Items             []LineItem
	Subtotal          decimal.Decimal
	Tax               decimal.Decimal
	ShippingCost      decimal.Decimal
	Total             decimal.Decimal
	Shipping          ShippingForm
	CreatedAt         time.Time
	AssignedAt        *time.Time
	PickedAt          *time.Time
	DeliveredAt       *time.Time
	CancelledAt       *time.Time
	EstimatedDelivery *time.Time

	events []Event
}

// NewOrder validates checkout input and builds a pending order placed at placedAt.
func NewOrder(id, userID string, items []LineItem, totals Totals, shipping ShippingForm, priority Priority, placedAt time.Time) (*Order, error) {
	if priority == "" {
		priority = PriorityNormal
	}
	order := &Order{
		ID:        strings.TrimSpace(id),
		UserID:    strings.TrimSpace(userID),
		Status:    StatusPending,
		Priority:  priority,
		Items:     cloneItems(items),
		Shipping:  shipping.normalized(),
		CreatedAt: placedAt.UTC(),
	}
	subtotal := decimal.Zero
	for _, item := range order.Items {
		if err := item.validate(); err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(item.LineTotal())
	}
	order.Subtotal = valueOr(totals.Subtotal, subtotal)
	order.Tax = valueOr(totals.Tax, decimal.Zero)
	order.ShippingCost = valueOr(totals.ShippingCost, decimal.Zero)
	order.Total = valueOr(totals.Total, order.Subtotal.Add(order.Tax).Add(order.ShippingCost))
	if err := order.Validate(); err != nil {
		return nil, err
	}
	order.record(OrderPlaced{
		BaseEvent: BaseEvent{Timestamp: order.CreatedAt},
		OrderID:   order.ID,
		UserID:    order.UserID,
		Total:     order.Total,
		Priority:  order.Priority,
	})
	return order, nil
}

// Validate enforces the aggregate invariants.
func (o *Order) Validate() error {
	if o.UserID == "" {
		return ErrEmptyUserID
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range o.Items {
		if err := item.validate(); err != nil {
			return err
		}
	}
	if o.Subtotal.IsNegative() || o.Tax.IsNegative() || o.ShippingCost.IsNegative() || o.Total.IsNegative() {
		return ErrInvalidAmount
	}
	if !o.Total.Equal(o.Subtotal.Add(o.Tax).Add(o.ShippingCost)) {
		return ErrTotalMismatch
	}
	if err := o.Shipping.Validate(); err != nil {
		return err
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	if o.Priority != PriorityNormal && o.Priority != PriorityHigh {
		return ErrInvalidPriority
	}
	if (o.DeliveredAt != nil) != (o.Status == StatusDelivered) ||
		(o.CancelledAt != nil) != (o.Status == StatusCancelled) {
		return ErrInconsistentDates
	}
	return nil
}

// Advance moves the order forward along the fulfillment path and stamps the matching timestamp.
// Intermediate steps may be skipped; moving backwards or leaving a terminal state is rejected.
func (o *Order) Advance(to Status, at time.Time) error {
	if !to.Valid() {
		return ErrInvalidStatus
	}
	if to == StatusCancelled {
		return o.Cancel(at)
	}
	if !o.Status.Active() || to.rank() <= o.Status.rank() {
		return ErrInvalidTransition
	}
	stamp := at.UTC()
	switch to {
	case StatusAssigned:
		o.AssignedAt = &stamp
	case StatusOutForDelivery:
		o.PickedAt = &stamp
	case StatusDelivered:
		o.DeliveredAt = &stamp
	}
	from := o.Status
	o.Status = to
	o.record(OrderStatusChanged{BaseEvent: BaseEvent{Timestamp: stamp}, OrderID: o.ID, UserID: o.UserID, From: from, To: to})
	return nil
}

// Cancel moves a pending or assigned order to cancelled, stamped with the server clock.
func (o *Order) Cancel(at time.Time) error {
	if !CanCancel(o.Status) {
		return ErrNotCancellable
	}
	stamp := at.UTC()
	from := o.Status
	o.Status = StatusCancelled
	o.CancelledAt = &stamp
	o.record(OrderStatusChanged{BaseEvent: BaseEvent{Timestamp: stamp}, OrderID: o.ID, UserID: o.UserID, From: from, To: StatusCancelled})
	o.record(OrderCancelled{BaseEvent: BaseEvent{Timestamp: stamp}, OrderID: o.ID, UserID: o.UserID, PreviousStatus: from})
	return nil
}

// ShortID is the display reference shown to customers.
func (o *Order) ShortID() string {
	id := o.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

// ItemCount sums quantities across line items.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += int(item.Quantity)
	}
	return count
}

// Events returns the domain events recorded since the last ClearEvents.
func (o *Order) Events() []Event {
	return append([]Event(nil), o.events...)
}

// ClearEvents drops recorded events once they have been dispatched.
func (o *Order) ClearEvents() {
	o.events = nil
}

func (o *Order) record(event Event) {
	o.events = append(o.events, event)
}

// Clone returns a deep copy without pending events.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = cloneItems(o.Items)
	clone.AssignedAt = cloneTime(o.AssignedAt)
	clone.PickedAt = cloneTime(o.PickedAt)
	clone.DeliveredAt = cloneTime(o.DeliveredAt)
	clone.CancelledAt = cloneTime(o.CancelledAt)
	clone.EstimatedDelivery = cloneTime(o.EstimatedDelivery)
	clone.events = nil
	return &clone
}

func cloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	return append([]LineItem(nil), items...)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copy := *t
	return &copy
}

func valueOr(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v == nil {
		return fallback
	}
	return *v
}

var _ AggregateWithEvents = (*Order)(nil)
