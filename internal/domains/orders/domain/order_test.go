package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2024, 2, 20, 9, 30, 0, 0, time.UTC)

func testItems() []LineItem {
	return []LineItem{
		{ProductID: "p-1", Name: "Linen Shirt", Brand: "Acme", UnitPrice: decimal.RequireFromString("19.99"), Quantity: 2},
		{ProductID: "p-2", Name: "Earbuds", Brand: "Sonic", UnitPrice: decimal.RequireFromString("49.50"), Quantity: 1},
	}
}

func testShipping() ShippingForm {
	return ShippingForm{Address: "1 Main St", Apartment: "Apt 4", City: "Springfield", State: "IL", ZipCode: "62701"}
}

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	order, err := NewOrder("3f2b9c1e-aaaa-bbbb-cccc-000000000001", "user-1", testItems(), Totals{}, testShipping(), "", placedAt)
	require.NoError(t, err)
	return order
}

func TestNewOrder_DerivesTotals(t *testing.T) {
	order := newTestOrder(t)

	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, PriorityNormal, order.Priority)
	assert.True(t, decimal.RequireFromString("89.48").Equal(order.Subtotal))
	assert.True(t, order.Total.Equal(order.Subtotal))
	assert.Equal(t, 3, order.ItemCount())
	require.Len(t, order.Events(), 1)
	assert.Equal(t, "orders.order.placed", order.Events()[0].EventName())
}

func TestNewOrder_RejectsTotalMismatch(t *testing.T) {
	subtotal := decimal.RequireFromString("89.48")
	tax := decimal.RequireFromString("7.16")
	total := decimal.RequireFromString("100.00")
	_, err := NewOrder("id", "user-1", testItems(), Totals{Subtotal: &subtotal, Tax: &tax, Total: &total}, testShipping(), PriorityHigh, placedAt)
	require.ErrorIs(t, err, ErrTotalMismatch)
}

func TestNewOrder_Validation(t *testing.T) {
	cases := []struct {
		name     string
		userID   string
		items    []LineItem
		shipping ShippingForm
		want     error
	}{
		{name: "missing user", userID: " ", items: testItems(), shipping: testShipping(), want: ErrEmptyUserID},
		{name: "no items", userID: "u", items: nil, shipping: testShipping(), want: ErrNoItems},
		{name: "zero quantity", userID: "u", items: []LineItem{{Name: "x", Quantity: 0}}, shipping: testShipping(), want: ErrInvalidQuantity},
		{name: "negative price", userID: "u", items: []LineItem{{Name: "x", Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}}, shipping: testShipping(), want: ErrInvalidPrice},
		{name: "unnamed item", userID: "u", items: []LineItem{{Quantity: 1}}, shipping: testShipping(), want: ErrEmptyItemName},
		{name: "no zip", userID: "u", items: testItems(), shipping: ShippingForm{Address: "a", City: "b", State: "c"}, want: ErrIncompleteAddress},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOrder("id", tc.userID, tc.items, Totals{}, tc.shipping, PriorityNormal, placedAt)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAdvance_StampsTimestamps(t *testing.T) {
	order := newTestOrder(t)
	order.ClearEvents()

	require.NoError(t, order.Advance(StatusAssigned, placedAt.Add(time.Hour)))
	require.NoError(t, order.Advance(StatusOutForDelivery, placedAt.Add(2*time.Hour)))
	require.NoError(t, order.Advance(StatusDelivered, placedAt.Add(3*time.Hour)))

	assert.Equal(t, StatusDelivered, order.Status)
	require.NotNil(t, order.AssignedAt)
	require.NotNil(t, order.PickedAt)
	require.NotNil(t, order.DeliveredAt)
	assert.Nil(t, order.CancelledAt)
	assert.NoError(t, order.Validate())
	assert.Len(t, order.Events(), 3)
}

func TestAdvance_MaySkipForward(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.Advance(StatusOutForDelivery, placedAt.Add(time.Hour)))
	assert.Nil(t, order.AssignedAt)
	assert.NotNil(t, order.PickedAt)
}

func TestAdvance_RejectsBackwardsAndTerminal(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.Advance(StatusOutForDelivery, placedAt))
	require.ErrorIs(t, order.Advance(StatusAssigned, placedAt), ErrInvalidTransition)
	require.ErrorIs(t, order.Advance(StatusOutForDelivery, placedAt), ErrInvalidTransition)
	require.ErrorIs(t, order.Advance(StatusPending, placedAt), ErrInvalidTransition)

	require.NoError(t, order.Advance(StatusDelivered, placedAt))
	require.ErrorIs(t, order.Advance(StatusDelivered, placedAt), ErrInvalidTransition)
	require.ErrorIs(t, order.Advance(Status("lost"), placedAt), ErrInvalidStatus)
}

func TestCancel_OnlyBeforeDispatch(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusAssigned} {
		order := newTestOrder(t)
		if from != StatusPending {
			require.NoError(t, order.Advance(from, placedAt))
		}
		order.ClearEvents()
		cancelAt := placedAt.Add(30 * time.Minute)
		require.NoError(t, order.Cancel(cancelAt))
		assert.Equal(t, StatusCancelled, order.Status)
		require.NotNil(t, order.CancelledAt)
		assert.True(t, cancelAt.Equal(*order.CancelledAt))
		require.Len(t, order.Events(), 2)
		changed, ok := order.Events()[0].(OrderStatusChanged)
		require.True(t, ok)
		assert.Equal(t, from, changed.From)
	}

	order := newTestOrder(t)
	require.NoError(t, order.Advance(StatusOutForDelivery, placedAt))
	require.ErrorIs(t, order.Cancel(placedAt), ErrNotCancellable)
	require.ErrorIs(t, order.Advance(StatusCancelled, placedAt), ErrNotCancellable)

	require.NoError(t, order.Advance(StatusDelivered, placedAt))
	require.ErrorIs(t, order.Cancel(placedAt), ErrNotCancellable)
}

func TestValidate_TimestampConsistency(t *testing.T) {
	order := newTestOrder(t)
	stamp := placedAt
	order.DeliveredAt = &stamp
	require.ErrorIs(t, order.Validate(), ErrInconsistentDates)
}

func TestShippingForm_Format(t *testing.T) {
	assert.Equal(t, "1 Main St, Apt 4, Springfield, IL 62701", testShipping().Format())
	noApt := testShipping()
	noApt.Apartment = ""
	assert.Equal(t, "1 Main St, Springfield, IL 62701", noApt.Format())
}

func TestShortID(t *testing.T) {
	order := newTestOrder(t)
	assert.Equal(t, "3F2B9C1E", order.ShortID())
	order.ID = "abc"
	assert.Equal(t, "ABC", order.ShortID())
}

func TestParseStatusAndPriority(t *testing.T) {
	status, err := ParseStatus(" Out_For_Delivery ")
	require.NoError(t, err)
	assert.Equal(t, StatusOutForDelivery, status)
	_, err = ParseStatus("shipped")
	require.ErrorIs(t, err, ErrInvalidStatus)

	priority, err := ParsePriority("")
	require.NoError(t, err)
	assert.Equal(t, PriorityNormal, priority)
	priority, err = ParsePriority("HIGH")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, priority)
	_, err = ParsePriority("urgent")
	require.ErrorIs(t, err, ErrInvalidPriority)
}

func TestClone_IsDeep(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.Advance(StatusAssigned, placedAt))
	clone := order.Clone()
	clone.Items[0].Name = "changed"
	*clone.AssignedAt = clone.AssignedAt.Add(time.Hour)

	assert.Equal(t, "Linen Shirt", order.Items[0].Name)
	assert.True(t, placedAt.Equal(*order.AssignedAt))
	assert.Empty(t, clone.Events())
}
