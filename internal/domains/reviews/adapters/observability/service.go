package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	reviewtypes "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/application/types"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/domain"
	reviewports "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/ports"
)

const tracerName = "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/adapters/observability/service"

// Service decorates the review service with tracing, logging, and metrics.
type Service struct {
	inner     reviewports.Service
	tracer    trace.Tracer
	logger    *slog.Logger
	submitted metric.Int64Counter
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
		if m != nil {
			s.submitted, _ = m.Int64Counter("reviews.service.reviews_submitted", metric.WithDescription("Number of reviews accepted, by rating"))
		}
	}
}

// New wraps the review service.
func New(inner reviewports.Service, opts ...Option) reviewports.Service {
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

func (s *Service) ListReviews(ctx context.Context, productID string) (*reviewtypes.ProductReviews, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewsService.ListReviews", trace.WithAttributes(attribute.String("product.id", productID)))
	defer span.End()

	result, err := s.inner.ListReviews(ctx, productID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list reviews", slog.String("product.id", productID))
	}
	span.SetAttributes(attribute.Int("review.count", result.Summary.Count), attribute.Float64("review.average", result.Summary.Average))
	return result, nil
}

func (s *Service) SubmitReview(ctx context.Context, input reviewtypes.SubmitReviewInput) (*reviewtypes.ReviewProjection, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewsService.SubmitReview",
		trace.WithAttributes(attribute.String("product.id", input.ProductID), attribute.Int("review.rating", input.Rating)))
	defer span.End()

	result, err := s.inner.SubmitReview(ctx, input)
	if err != nil {
		// Validation failures are not span errors.
		if errors.Is(err, domain.ErrInvalidReview) {
			span.SetAttributes(attribute.Bool("review.invalid", true))
			return nil, err
		}
		return nil, s.handleError(ctx, span, err, "failed to submit review", slog.String("product.id", input.ProductID))
	}
	if s.submitted != nil {
		s.submitted.Add(ctx, 1, metric.WithAttributes(attribute.Int("review.rating", result.Entity.Rating)))
	}
	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "review submitted",
			slog.String("review.id", result.Entity.ID),
			slog.String("product.id", result.Entity.ProductID),
			slog.Int("review.rating", result.Entity.Rating))
	}
	return result, nil
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

var _ reviewports.Service = (*Service)(nil)
