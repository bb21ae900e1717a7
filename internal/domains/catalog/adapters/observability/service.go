package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogtypes "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner    catalogports.Service
	tracer   trace.Tracer
	logger   *slog.Logger
	searches metric.Int64Counter
	changes  metric.Int64Counter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		if m == nil {
			return
		}
		s.searches, _ = m.Int64Counter("catalog.service.searches", metric.WithDescription("Number of product searches"))
		s.changes, _ = m.Int64Counter("catalog.service.product_changes", metric.WithDescription("Number of products created or deleted"))
	}
}

// New wraps the catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
	s := &Service{inner: inner}
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

func (s *Service) ListProducts(ctx context.Context, input catalogtypes.ListProductsInput) ([]*catalogtypes.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts",
		trace.WithAttributes(
			attribute.String("catalog.query", input.Query),
			attribute.String("catalog.category", input.Category),
			attribute.Int("catalog.limit", input.Limit),
		))
	defer span.End()

	result, err := s.inner.ListProducts(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("catalog.count", len(result)))
	if input.Query != "" && s.searches != nil {
		s.searches.Add(ctx, 1, metric.WithAttributes(attribute.Bool("catalog.search.hit", len(result) > 0)))
	}
	return result, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*catalogtypes.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	result, err := s.inner.GetProduct(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.String("product.id", id))
	}
	return result, nil
}

func (s *Service) CreateProduct(ctx context.Context, input catalogtypes.CreateProductInput) (*catalogtypes.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct",
		trace.WithAttributes(attribute.String("product.name", input.Name), attribute.String("product.category", input.Category)))
	defer span.End()

	result, err := s.inner.CreateProduct(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.String("product.name", input.Name))
	}
	span.SetAttributes(attribute.String("product.id", result.Entity.ID))
	s.recordChange(ctx, "created")
	s.logInfo(ctx, "product created", slog.String("product.id", result.Entity.ID), slog.String("product.slug", result.Entity.Slug()))
	return result, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	deleted, err := s.inner.DeleteProduct(ctx, id)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to delete product", slog.String("product.id", id))
	}
	s.recordChange(ctx, "deleted")
	s.logInfo(ctx, "product deleted", slog.String("product.id", id), slog.Int64("product.deleted_count", deleted))
	return deleted, nil
}

func (s *Service) FeaturedProducts(ctx context.Context, limit int) ([]*catalogtypes.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.FeaturedProducts", trace.WithAttributes(attribute.Int("catalog.limit", limit)))
	defer span.End()

	result, err := s.inner.FeaturedProducts(ctx, limit)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load featured products")
	}
	span.SetAttributes(attribute.Int("catalog.count", len(result)))
	return result, nil
}

func (s *Service) recordChange(ctx context.Context, kind string) {
	if s.changes != nil {
		s.changes.Add(ctx, 1, metric.WithAttributes(attribute.String("catalog.change", kind)))
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

var _ catalogports.Service = (*Service)(nil)
