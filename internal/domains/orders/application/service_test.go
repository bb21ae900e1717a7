package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordermemory "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/memory"
	ordertypes "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
)

type recordingPublisher struct {
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...domain.Event) error {
	p.events = append(p.events, events...)
	return p.err
}

func (p *recordingPublisher) names() []string {
	names := make([]string, 0, len(p.events))
	for _, event := range p.events {
		names = append(names, event.EventName())
	}
	return names
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type testDeps struct {
	svc       *Service
	repo      *ordermemory.Repository
	publisher *recordingPublisher
	clock     *fixedClock
}

func newTestService(t *testing.T) testDeps {
	t.Helper()
	clock := &fixedClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	repo := ordermemory.NewRepository()
	repo.WithClock(clock.Now)
	publisher := &recordingPublisher{}
	seq := 0
	svc := NewService(repo,
		WithIdempotencyStore(ordermemory.NewIdempotencyStore()),
		WithEventPublisher(publisher),
		WithClock(clock.Now),
		WithIDGenerator(func() string {
			seq++
			return []string{"a1b2c3d4-0000-0000-0000-000000000001", "a1b2c3d4-0000-0000-0000-000000000002", "a1b2c3d4-0000-0000-0000-000000000003"}[(seq-1)%3]
		}),
	)
	return testDeps{svc: svc, repo: repo, publisher: publisher, clock: clock}
}

func checkoutInput(userID string) ordertypes.PlaceOrderInput {
	return ordertypes.PlaceOrderInput{
		UserID: userID,
		Items: []ordertypes.LineItemInput{
			{ProductID: "p-1", Name: "Denim Jacket", Brand: "Acme", UnitPrice: decimal.RequireFromString("59.90"), Quantity: 1},
			{ProductID: "p-2", Name: "Phone Case", Brand: "Volt", UnitPrice: decimal.RequireFromString("15.05"), Quantity: 2},
		},
		Shipping: ordertypes.ShippingInput{Address: "9 Elm St", City: "Portland", State: "OR", ZipCode: "97201"},
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	deps := newTestService(t)

	placed, err := deps.svc.PlaceOrder(context.Background(), checkoutInput("user-1"))
	require.NoError(t, err)
	require.NotNil(t, placed)

	order := placed.Entity
	assert.Equal(t, "a1b2c3d4-0000-0000-0000-000000000001", order.ID)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, domain.PriorityNormal, order.Priority)
	assert.Equal(t, "90", order.Total.String())
	assert.True(t, deps.clock.now.Equal(order.CreatedAt))
	assert.False(t, placed.Metadata.CreatedAt.IsZero())
	assert.Equal(t, []string{"orders.order.placed"}, deps.publisher.names())
}

func TestPlaceOrder_InvalidInput(t *testing.T) {
	deps := newTestService(t)

	input := checkoutInput("user-1")
	input.Items = nil
	_, err := deps.svc.PlaceOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNoItems)

	input = checkoutInput("user-1")
	input.Priority = "urgent"
	_, err = deps.svc.PlaceOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, deps.publisher.events)
}

func TestPlaceOrder_IdempotentReplay(t *testing.T) {
	deps := newTestService(t)
	ctx := context.Background()

	input := checkoutInput("user-1")
	input.IdempotencyKey = "checkout-42"
	first, err := deps.svc.PlaceOrder(ctx, input)
	require.NoError(t, err)

	second, err := deps.svc.PlaceOrder(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, first.Entity.ID, second.Entity.ID)
	assert.Len(t, deps.publisher.events, 1)

	changed := checkoutInput("user-1")
	changed.IdempotencyKey = "checkout-42"
	changed.Items[0].Quantity = 3
	_, err = deps.svc.PlaceOrder(ctx, changed)
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}

func TestFingerprintPlaceOrder_IgnoresKeyAndFormatting(t *testing.T) {
	a := checkoutInput("user-1")
	a.IdempotencyKey = "one"
	b := checkoutInput(" user-1 ")
	b.IdempotencyKey = "two"
	b.Items[0].UnitPrice = decimal.RequireFromString("59.9")

	hashA, err := FingerprintPlaceOrder(a)
	require.NoError(t, err)
	hashB, err := FingerprintPlaceOrder(b)
	require.NoError(t, err)
	assert.Equal(t, hashA, hashB)

	b.Shipping.ZipCode = "97202"
	hashC, err := FingerprintPlaceOrder(b)
	require.NoError(t, err)
	assert.NotEqual(t, hashA, hashC)
}

func TestListOrders_FilterAndOrdering(t *testing.T) {
	deps := newTestService(t)
	ctx := context.Background()

	first, err := deps.svc.PlaceOrder(ctx, checkoutInput("user-1"))
	require.NoError(t, err)
	deps.clock.Advance(time.Hour)
	second, err := deps.svc.PlaceOrder(ctx, checkoutInput("user-1"))
	require.NoError(t, err)
	_, err = deps.svc.CancelOrder(ctx, ordertypes.OrderIdentifier{UserID: "user-1", OrderID: first.Entity.ID})
	require.NoError(t, err)

	all, err := deps.svc.ListOrders(ctx, ordertypes.ListOrdersInput{UserID: "user-1", Status: "all"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.Entity.ID, all[0].Entity.ID)

	cancelled, err := deps.svc.ListOrders(ctx, ordertypes.ListOrdersInput{UserID: "user-1", Status: "cancelled"})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, first.Entity.ID, cancelled[0].Entity.ID)

	_, err = deps.svc.ListOrders(ctx, ordertypes.ListOrdersInput{UserID: "user-1", Status: "shipped"})
	require.ErrorIs(t, err, ErrInvalidInput)

	none, err := deps.svc.ListOrders(ctx, ordertypes.ListOrdersInput{UserID: "user-2"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSummary_CountsBuckets(t *testing.T) {
	deps := newTestService(t)
	ctx := context.Background()

	a, err := deps.svc.PlaceOrder(ctx, checkoutInput("user-1"))
	require.NoError(t, err)
	b, err := deps.svc.PlaceOrder(ctx, checkoutInput("user-1"))
	require.NoError(t, err)
	_, err = deps.svc.PlaceOrder(ctx, checkoutInput("user-1"))
	require.NoError(t, err)

	_, err = deps.svc.AdvanceOrder(ctx, ordertypes.AdvanceOrderInput{OrderID: a.Entity.ID, Status: "delivered"})
	require.NoError(t, err)
	_, err = deps.svc.CancelOrder(ctx, ordertypes.OrderIdentifier{UserID: "user-1", OrderID: b.Entity.ID})
	require.NoError(t, err)

	summary, err := deps.svc.Summary(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Active)
	assert.Equal(t, 1, summary.Delivered)
	assert.Equal(t, 1, summary.Cancelled)
	assert.Equal(t, 1, summary.ByStatus[domain.StatusPending])
	assert.Equal(t, 0, summary.ByStatus[domain.StatusAssigned])
	assert.Len(t, summary.ByStatus, len(domain.AllStatuses()))
}

func TestCancelOrder_StampsServerClock(t *testing.T) {
	deps := newTestService(t)
	ctx := context.Background()

	placed, err := deps.svc.PlaceOrder(ctx, checkoutInput("user-1"))
	require.NoError(t, err)
	deps.publisher.events = nil
	deps.clock.Advance(45 * time.Minute)

	cancelled, err := deps.svc.CancelOrder(ctx, ordertypes.OrderIdentifier{UserID: "user-1", OrderID: placed.Entity.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Entity.Status)
	require.NotNil(t, cancelled.Entity.CancelledAt)
	assert.True(t, deps.clock.now.Equal(*cancelled.Entity.CancelledAt))
	assert.Equal(t, []string{"orders.order.status_changed", "orders.order.cancelled"}, deps.publisher.names())

	stored, err := deps.repo.GetByID(ctx, placed.Entity.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Entity.Status)
}

func TestCancelOrder_Rejections(t *testing.T) {
	deps := newTestService(t)
	ctx := context.Background()

	placed, err := deps.svc.PlaceOrder(ctx, checkoutInput("user-1"))
	require.NoError(t, err)

	_, err = deps.svc.CancelOrder(ctx, ordertypes.OrderIdentifier{UserID: "user-2", OrderID: placed.Entity.ID})
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = deps.svc.CancelOrder(ctx, ordertypes.OrderIdentifier{UserID: "user-1", OrderID: "missing"})
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = deps.svc.AdvanceOrder(ctx, ordertypes.AdvanceOrderInput{OrderID: placed.Entity.ID, Status: "out_for_delivery"})
	require.NoError(t, err)
	_, err = deps.svc.CancelOrder(ctx, ordertypes.OrderIdentifier{UserID: "user-1", OrderID: placed.Entity.ID})
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, domain.ErrNotCancellable)
}

func TestAdvanceOrder_Transitions(t *testing.T) {
	deps := newTestService(t)
	ctx := context.Background()

	placed, err := deps.svc.PlaceOrder(ctx, checkoutInput("user-1"))
	require.NoError(t, err)

	assigned, err := deps.svc.AdvanceOrder(ctx, ordertypes.AdvanceOrderInput{OrderID: placed.Entity.ID, Status: "assigned"})
	require.NoError(t, err)
	require.NotNil(t, assigned.Entity.AssignedAt)

	_, err = deps.svc.AdvanceOrder(ctx, ordertypes.AdvanceOrderInput{OrderID: placed.Entity.ID, Status: "pending"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = deps.svc.AdvanceOrder(ctx, ordertypes.AdvanceOrderInput{OrderID: placed.Entity.ID, Status: "teleported"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = deps.svc.AdvanceOrder(ctx, ordertypes.AdvanceOrderInput{OrderID: "missing", Status: "assigned"})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	deps := newTestService(t)
	deps.publisher.err = errors.New("broker unavailable")

	placed, err := deps.svc.PlaceOrder(context.Background(), checkoutInput("user-1"))
	require.NoError(t, err)

	stored, err := deps.repo.GetByID(context.Background(), placed.Entity.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.Entity.ID, stored.Entity.ID)
}

func TestFormatting(t *testing.T) {
	at := time.Date(2024, 3, 1, 15, 4, 0, 0, time.UTC)
	assert.Equal(t, "Mar 1, 2024", ordertypes.FormatDate(&at))
	assert.Equal(t, "Not set", ordertypes.FormatDate(nil))
	assert.Equal(t, "90.00", ordertypes.FormatPrice(decimal.NewFromInt(90)))
	assert.Equal(t, "15.05", ordertypes.FormatPrice(decimal.RequireFromString("15.049")))
}

// interleavingRepository runs hook once, right after the next GetByID returns.
type interleavingRepository struct {
	*ordermemory.Repository
	hook func()
}

func (r *interleavingRepository) GetByID(ctx context.Context, id string) (*ordertypes.OrderProjection, error) {
	order, err := r.Repository.GetByID(ctx, id)
	if hook := r.hook; hook != nil {
		r.hook = nil
		hook()
	}
	return order, err
}

func TestCancelOrder_LosesToConcurrentAdvance(t *testing.T) {
	ctx := context.Background()
	repo := &interleavingRepository{Repository: ordermemory.NewRepository()}
	svc := NewService(repo, WithIDGenerator(func() string { return "ord-1" }))

	placed, err := svc.PlaceOrder(ctx, checkoutInput("user-1"))
	require.NoError(t, err)

	repo.hook = func() {
		_, advanceErr := svc.AdvanceOrder(ctx, ordertypes.AdvanceOrderInput{OrderID: placed.Entity.ID, Status: "out_for_delivery"})
		require.NoError(t, advanceErr)
	}
	_, err = svc.CancelOrder(ctx, ordertypes.OrderIdentifier{UserID: "user-1", OrderID: placed.Entity.ID})
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, ports.ErrStaleOrder)

	stored, err := repo.Repository.GetByID(ctx, placed.Entity.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOutForDelivery, stored.Entity.Status)
	assert.NotNil(t, stored.Entity.PickedAt)
	assert.Nil(t, stored.Entity.CancelledAt)
}

// interleavingIdempotencyStore runs hook once, right after the next Get returns.
type interleavingIdempotencyStore struct {
	*ordermemory.IdempotencyStore
	hook func()
}

func (s *interleavingIdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	record, err := s.IdempotencyStore.Get(ctx, key)
	if hook := s.hook; hook != nil {
		s.hook = nil
		hook()
	}
	return record, err
}

func TestPlaceOrder_ConcurrentRetryStoresOneOrder(t *testing.T) {
	ctx := context.Background()
	repo := ordermemory.NewRepository()
	keys := &interleavingIdempotencyStore{IdempotencyStore: ordermemory.NewIdempotencyStore()}
	seq := 0
	svc := NewService(repo,
		WithIdempotencyStore(keys),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("ord-%d", seq)
		}),
	)

	input := checkoutInput("user-1")
	input.IdempotencyKey = "checkout-7"
	var retried *ordertypes.OrderProjection
	keys.hook = func() {
		var retryErr error
		retried, retryErr = svc.PlaceOrder(ctx, input)
		require.NoError(t, retryErr)
	}

	first, err := svc.PlaceOrder(ctx, input)
	require.NoError(t, err)
	require.NotNil(t, retried)
	assert.Equal(t, retried.Entity.ID, first.Entity.ID)

	orders, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, first.Entity.ID, orders[0].Entity.ID)
}
