package application

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	ordertypes "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
)

// StatusFilterAll selects every order regardless of status.
const StatusFilterAll = "all"

// Service orchestrates the orders bounded context use cases.
type Service struct {
	repo        ports.Repository
	idempotency ports.IdempotencyStore
	publisher   ports.EventPublisher
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
}

// Option customises the order service.
type Option func(*Service)

// WithIdempotencyStore enables replay of checkout requests carrying an idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithEventPublisher forwards domain events after every successful save.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.publisher = publisher
		}
	}
}

// WithLogger sets the logger used for non-fatal publish failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the server clock used to stamp transitions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides order id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: ports.NoopEventPublisher{},
		logger:    slog.Default(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder validates a checkout and persists a pending order.
// A checkout carrying an idempotency key reserves the key for its order id before the order is stored,
// so concurrent retries converge on a single order.
func (s *Service) PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*ordertypes.OrderProjection, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" || s.idempotency == nil {
		return s.createOrder(ctx, s.newID(), input)
	}

	fingerprint, err := FingerprintPlaceOrder(input)
	if err != nil {
		return nil, err
	}
	existing, err := s.idempotency.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if _, err := buildOrder("", input, s.now()); err != nil {
			return nil, mapError(err)
		}
		record, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: fingerprint, OrderID: s.newID()})
		switch {
		case err == nil:
			existing = record
		case errors.Is(err, ports.ErrIdempotencyConflict) && record != nil:
			existing = record
		default:
			return nil, mapError(err)
		}
	}
	if existing.RequestHash != fingerprint {
		return nil, mapError(ports.ErrIdempotencyConflict)
	}

	stored, err := s.load(ctx, existing.OrderID)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	// Reserved by a request that has not stored its order yet.
	return s.createOrder(ctx, existing.OrderID, input)
}

func (s *Service) createOrder(ctx context.Context, orderID string, input ordertypes.PlaceOrderInput) (*ordertypes.OrderProjection, error) {
	order, err := buildOrder(orderID, input, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, order)
	return saved, nil
}

// ListOrders returns a customer's orders, newest first, optionally narrowed to one status.
func (s *Service) ListOrders(ctx context.Context, input ordertypes.ListOrdersInput) ([]*ordertypes.OrderProjection, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, mapError(domain.ErrEmptyUserID)
	}
	filter, err := parseStatusFilter(input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, mapError(err)
	}
	result := make([]*ordertypes.OrderProjection, 0, len(orders))
	for _, order := range orders {
		if filter != "" && order.Entity.Status != filter {
			continue
		}
		result = append(result, order)
	}
	sortNewestFirst(result)
	return result, nil
}

// GetOrder loads one order owned by the customer. Orders of other customers are reported as not found.
func (s *Service) GetOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, mapError(domain.ErrEmptyUserID)
	}
	order, err := s.load(ctx, strings.TrimSpace(input.OrderID))
	if err != nil {
		return nil, err
	}
	if order.Entity.UserID != userID {
		return nil, ports.ErrNotFound
	}
	return order, nil
}

// Summary counts a customer's orders by lifecycle bucket.
func (s *Service) Summary(ctx context.Context, userID string) (*ordertypes.OrderSummary, error) {
	orders, err := s.ListOrders(ctx, ordertypes.ListOrdersInput{UserID: userID})
	if err != nil {
		return nil, err
	}
	summary := &ordertypes.OrderSummary{ByStatus: make(map[domain.Status]int, len(domain.AllStatuses()))}
	for _, status := range domain.AllStatuses() {
		summary.ByStatus[status] = 0
	}
	for _, order := range orders {
		status := order.Entity.Status
		summary.Total++
		summary.ByStatus[status]++
		switch {
		case status.Active():
			summary.Active++
		case status == domain.StatusDelivered:
			summary.Delivered++
		case status == domain.StatusCancelled:
			summary.Cancelled++
		}
	}
	return summary, nil
}

// CancelOrder cancels a customer's order with the server clock and returns the stored result.
func (s *Service) CancelOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error) {
	current, err := s.GetOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	order := current.Entity
	expected := order.Status
	if err := order.Cancel(s.now()); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Update(ctx, order, expected)
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, order)
	return saved, nil
}

// AdvanceOrder applies a fulfillment transition on behalf of staff or delivery systems.
func (s *Service) AdvanceOrder(ctx context.Context, input ordertypes.AdvanceOrderInput) (*ordertypes.OrderProjection, error) {
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	current, err := s.load(ctx, strings.TrimSpace(input.OrderID))
	if err != nil {
		return nil, err
	}
	order := current.Entity
	expected := order.Status
	if err := order.Advance(status, s.now()); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Update(ctx, order, expected)
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, order)
	return saved, nil
}

func (s *Service) load(ctx context.Context, orderID string) (*ordertypes.OrderProjection, error) {
	if orderID == "" {
		return nil, ports.ErrNotFound
	}
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

// publish drains the aggregate's events. The order is already stored, so failures are only reported.
func (s *Service) publish(ctx context.Context, order *domain.Order) {
	events := order.Events()
	order.ClearEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		trace.SpanFromContext(ctx).RecordError(err)
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish order events",
			slog.String("order.id", order.ID),
			slog.Int("event.count", len(events)),
			slog.String("error", err.Error()),
		)
	}
}

func buildOrder(id string, input ordertypes.PlaceOrderInput, placedAt time.Time) (*domain.Order, error) {
	priority, err := domain.ParsePriority(input.Priority)
	if err != nil {
		return nil, err
	}
	items := make([]domain.LineItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, domain.LineItem{
			ProductID: item.ProductID,
			Name:      strings.TrimSpace(item.Name),
			Image:     item.Image,
			Brand:     item.Brand,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	shipping := domain.ShippingForm{
		Address:   input.Shipping.Address,
		Apartment: input.Shipping.Apartment,
		City:      input.Shipping.City,
		State:     input.Shipping.State,
		ZipCode:   input.Shipping.ZipCode,
	}
	totals := domain.Totals{
		Subtotal:     input.Subtotal,
		Tax:          input.Tax,
		ShippingCost: input.ShippingCost,
		Total:        input.Total,
	}
	order, err := domain.NewOrder(id, input.UserID, items, totals, shipping, priority, placedAt)
	if err != nil {
		return nil, err
	}
	if input.EstimatedDelivery != nil {
		eta := input.EstimatedDelivery.UTC()
		order.EstimatedDelivery = &eta
	}
	return order, nil
}

func parseStatusFilter(raw string) (domain.Status, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" || trimmed == StatusFilterAll {
		return "", nil
	}
	return domain.ParseStatus(trimmed)
}

func sortNewestFirst(orders []*ordertypes.OrderProjection) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Entity.CreatedAt.After(orders[j].Entity.CreatedAt)
	})
}

var _ ports.Service = (*Service)(nil)
