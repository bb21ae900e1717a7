package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordertypes "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*ordertypes.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.PlaceOrder",
		trace.WithAttributes(
			attribute.String("order.user_id", input.UserID),
			attribute.Int("order.item_lines", len(input.Items)),
			attribute.Bool("order.idempotent", input.IdempotencyKey != ""),
		))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.String("order.user_id", input.UserID), slog.Int("order.item_lines", len(input.Items)))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("order.user_id", input.UserID))
	}
	order := result.Entity
	span.SetAttributes(attribute.String("order.id", order.ID))
	s.metrics.recordPlaced(ctx, order.Priority)
	s.logInfo(ctx, "order placed",
		slog.String("order.id", order.ID),
		slog.String("order.total", order.Total.StringFixed(2)),
		slog.String("order.priority", string(order.Priority)))
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, input ordertypes.ListOrdersInput) ([]*ordertypes.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOrders",
		trace.WithAttributes(attribute.String("order.user_id", input.UserID), attribute.String("order.status_filter", input.Status)))
	defer span.End()

	result, err := s.inner.ListOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.String("order.user_id", input.UserID))
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	s.logInfo(ctx, "orders listed", slog.String("order.user_id", input.UserID), slog.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrder",
		trace.WithAttributes(attribute.String("order.id", input.OrderID), attribute.String("order.user_id", input.UserID)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", input.OrderID))
	}
	return result, nil
}

func (s *Service) Summary(ctx context.Context, userID string) (*ordertypes.OrderSummary, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Summary", trace.WithAttributes(attribute.String("order.user_id", userID)))
	defer span.End()

	result, err := s.inner.Summary(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to summarize orders", slog.String("order.user_id", userID))
	}
	span.SetAttributes(attribute.Int("order.count", result.Total), attribute.Int("order.active", result.Active))
	return result, nil
}

func (s *Service) CancelOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.CancelOrder",
		trace.WithAttributes(attribute.String("order.id", input.OrderID), attribute.String("order.user_id", input.UserID)))
	defer span.End()

	s.logInfo(ctx, "cancelling order", slog.String("order.id", input.OrderID), slog.String("order.user_id", input.UserID))
	result, err := s.inner.CancelOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to cancel order", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordTransition(ctx, domain.StatusCancelled)
	s.logInfo(ctx, "order cancelled", slog.String("order.id", result.Entity.ID))
	return result, nil
}

func (s *Service) AdvanceOrder(ctx context.Context, input ordertypes.AdvanceOrderInput) (*ordertypes.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.AdvanceOrder",
		trace.WithAttributes(attribute.String("order.id", input.OrderID), attribute.String("order.status", input.Status)))
	defer span.End()

	s.logInfo(ctx, "advancing order", slog.String("order.id", input.OrderID), slog.String("order.status", input.Status))
	result, err := s.inner.AdvanceOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to advance order", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordTransition(ctx, result.Entity.Status)
	s.logInfo(ctx, "order advanced", slog.String("order.id", result.Entity.ID), slog.String("order.status", string(result.Entity.Status)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersPlaced     metric.Int64Counter
	orderTransitions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	transitions, _ := m.Int64Counter("orders.service.status_transitions", metric.WithDescription("Number of order status transitions"))
	return serviceMetrics{ordersPlaced: ordersPlaced, orderTransitions: transitions}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, priority domain.Priority) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("order.priority", string(priority))))
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status domain.Status) {
	if m.orderTransitions != nil {
		m.orderTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

var _ orderports.Service = (*Service)(nil)
