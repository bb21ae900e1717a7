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

	"github.com/Apurer/go-gin-storefront-api/internal/domains/media/domain"
	mediaports "github.com/Apurer/go-gin-storefront-api/internal/domains/media/ports"
)

const tracerName = "github.com/Apurer/go-gin-storefront-api/internal/domains/media/adapters/observability/service"

// Service decorates the media service with tracing, logging, and metrics.
type Service struct {
	inner    mediaports.Service
	tracer   trace.Tracer
	logger   *slog.Logger
	uploaded metric.Int64Counter
	bytes    metric.Int64Counter
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
		s.uploaded, _ = m.Int64Counter("media.service.files_uploaded", metric.WithDescription("Number of stored image files"))
		s.bytes, _ = m.Int64Counter("media.service.bytes_uploaded", metric.WithDescription("Bytes of stored image data"), metric.WithUnit("By"))
	}
}

func New(inner mediaports.Service, opts ...Option) mediaports.Service {
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

func (s *Service) Upload(ctx context.Context, input mediaports.UploadInput) ([]string, error) {
	var size int64
	for _, file := range input.Files {
		size += int64(len(file.Data))
	}
	ctx, span := s.tracer.Start(ctx, "MediaService.Upload",
		trace.WithAttributes(
			attribute.String("media.product_name", input.ProductName),
			attribute.Int("media.file_count", len(input.Files)),
			attribute.Int64("media.bytes", size),
		))
	defer span.End()

	urls, err := s.inner.Upload(ctx, input)
	if err != nil {
		if !isRejection(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		s.log(ctx, slog.LevelWarn, "upload failed", slog.Int("media.file_count", len(input.Files)), slog.String("error", err.Error()))
		return nil, err
	}
	if s.uploaded != nil {
		s.uploaded.Add(ctx, int64(len(urls)))
	}
	if s.bytes != nil {
		s.bytes.Add(ctx, size)
	}
	s.log(ctx, slog.LevelInfo, "images uploaded", slog.Int("media.file_count", len(urls)), slog.Int64("media.bytes", size))
	return urls, nil
}

func (s *Service) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

func isRejection(err error) bool {
	return errors.Is(err, domain.ErrNoFiles) || errors.Is(err, domain.ErrNotImage) || errors.Is(err, domain.ErrEmpty)
}

var _ mediaports.Service = (*Service)(nil)
