package domain

import "time"

// Badge is a label plus the style classes the storefront renders it with.
type Badge struct {
	BgColor     string
	TextColor   string
	BorderColor string
	Label       string
}

// Step is one milestone on the order progress timeline.
type Step struct {
	Key       string
	Label     string
	Date      *time.Time
	Active    bool
	Cancelled bool
}

// Step keys, in timeline order.
const (
	StepPlaced         = "placed"
	StepAssigned       = "assigned"
	StepOutForDelivery = "out_for_delivery"
	StepDelivered      = "delivered"
	StepCancelled      = "cancelled"
)

var priorityHighBadge = Badge{
	BgColor:     "bg-red-50",
	TextColor:   "text-red-700",
	BorderColor: "border-red-200",
	Label:       "High Priority",
}

// StatusBadge maps a status to its badge. Unknown values render as pending.
func StatusBadge(status Status) Badge {
	switch status {
	case StatusAssigned:
		return Badge{BgColor: "bg-blue-50", TextColor: "text-blue-700", BorderColor: "border-blue-200", Label: "Being Prepared"}
	case StatusOutForDelivery:
		return Badge{BgColor: "bg-purple-50", TextColor: "text-purple-700", BorderColor: "border-purple-200", Label: "Out for Delivery"}
	case StatusDelivered:
		return Badge{BgColor: "bg-green-50", TextColor: "text-green-700", BorderColor: "border-green-200", Label: "Delivered"}
	case StatusCancelled:
		return Badge{BgColor: "bg-gray-100", TextColor: "text-gray-700", BorderColor: "border-gray-300", Label: "Cancelled"}
	case StatusPending:
		fallthrough
	default:
		return Badge{BgColor: "bg-yellow-50", TextColor: "text-yellow-700", BorderColor: "border-yellow-200", Label: "Order Placed"}
	}
}

// ProgressSteps derives the timeline: four fulfillment steps, or placed plus cancelled.
func ProgressSteps(status Status, createdAt, assignedAt, pickedAt, deliveredAt, cancelledAt *time.Time) []Step {
	placed := Step{Key: StepPlaced, Label: "Order Placed", Date: cloneTime(createdAt), Active: true}
	if status == StatusCancelled {
		return []Step{
			placed,
			{Key: StepCancelled, Label: "Order Cancelled", Date: cloneTime(cancelledAt), Active: true, Cancelled: true},
		}
	}
	reached := status.rank()
	return []Step{
		placed,
		{Key: StepAssigned, Label: "Being Prepared", Date: cloneTime(assignedAt), Active: reached >= StatusAssigned.rank()},
		{Key: StepOutForDelivery, Label: "Out for Delivery", Date: cloneTime(pickedAt), Active: reached >= StatusOutForDelivery.rank()},
		{Key: StepDelivered, Label: "Delivered", Date: cloneTime(deliveredAt), Active: reached >= StatusDelivered.rank()},
	}
}

// CanCancel is true while the order has not left the store.
func CanCancel(status Status) bool {
	switch status {
	case StatusPending, StatusAssigned:
		return true
	case StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return false
	default:
		return false
	}
}

// PriorityBadge returns the high priority marker, or nil for anything else.
func PriorityBadge(priority Priority) *Badge {
	if priority != PriorityHigh {
		return nil
	}
	badge := priorityHighBadge
	return &badge
}

// Tracking bundles every derived view of one order snapshot.
type Tracking struct {
	Badge         Badge
	Steps         []Step
	CanCancel     bool
	PriorityBadge *Badge
}

// Project computes the tracking view for an order.
func Project(order *Order) Tracking {
	if order == nil {
		return Tracking{Badge: StatusBadge(StatusPending), Steps: ProgressSteps(StatusPending, nil, nil, nil, nil, nil)}
	}
	created := order.CreatedAt
	var createdAt *time.Time
	if !created.IsZero() {
		createdAt = &created
	}
	return Tracking{
		Badge:         StatusBadge(order.Status),
		Steps:         ProgressSteps(order.Status, createdAt, order.AssignedAt, order.PickedAt, order.DeliveredAt, order.CancelledAt),
		CanCancel:     CanCancel(order.Status),
		PriorityBadge: PriorityBadge(order.Priority),
	}
}
