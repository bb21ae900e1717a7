package api

import (
	"context"
	"fmt"
	"log/slog"

	catalogobs "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	mediafilesystem "github.com/Apurer/go-gin-storefront-api/internal/domains/media/adapters/filesystem"
	mediaobs "github.com/Apurer/go-gin-storefront-api/internal/domains/media/adapters/observability"
	mediaapp "github.com/Apurer/go-gin-storefront-api/internal/domains/media/application"
	mediaports "github.com/Apurer/go-gin-storefront-api/internal/domains/media/ports"
	orderkafka "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/events/kafka"
	orderobs "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/observability"
	orderapp "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	reviewcatalog "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/adapters/catalog"
	reviewobs "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/adapters/observability"
	reviewapp "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/application"
	reviewports "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/ports"
	platformkafka "github.com/Apurer/go-gin-storefront-api/internal/platform/kafka"
	platformobservability "github.com/Apurer/go-gin-storefront-api/internal/platform/observability"
)

// Services holds the decorated application services of every bounded context.
type Services struct {
	Orders  orderports.Service
	Catalog catalogports.Service
	Reviews reviewports.Service
	Media   mediaports.Service
}

// OpenEventPublisher connects the Kafka producer for order events. Without brokers events are dropped.
func OpenEventPublisher(ctx context.Context, cfg Config, clientID string, instruments *platformobservability.Instruments) (orderports.EventPublisher, func()) {
	producer, cleanup := platformkafka.Connect(ctx, platformkafka.Config{
		Brokers:  cfg.KafkaBrokers,
		ClientID: clientID,
		Topic:    cfg.KafkaOrderTopic,
	}, instruments.Logger)
	if producer == nil {
		return orderports.NoopEventPublisher{}, cleanup
	}
	return orderkafka.NewPublisher(producer,
		orderkafka.WithTopic(cfg.KafkaOrderTopic),
		orderkafka.WithTracer(instruments.Tracer("internal.orders.events")),
	), cleanup
}

// NewOrderService wires the orders service over storage and wraps it with telemetry.
func NewOrderService(storage *Storage, publisher orderports.EventPublisher, instruments *platformobservability.Instruments) orderports.Service {
	core := orderapp.NewService(storage.Orders,
		orderapp.WithIdempotencyStore(storage.Idempotency),
		orderapp.WithEventPublisher(publisher),
		orderapp.WithLogger(instruments.Logger),
	)
	return orderobs.New(core,
		orderobs.WithLogger(instruments.Logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
}

// NewServices builds every service the HTTP API exposes.
func NewServices(cfg Config, storage *Storage, publisher orderports.EventPublisher, instruments *platformobservability.Instruments) (*Services, error) {
	logger := instruments.Logger
	catalogService := catalogobs.New(catalogapp.NewService(storage.Products),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	reviewService := reviewobs.New(
		reviewapp.NewService(storage.Reviews, reviewapp.WithProductCatalog(reviewcatalog.NewProductLookup(catalogService))),
		reviewobs.WithLogger(logger),
		reviewobs.WithTracer(instruments.Tracer("internal.reviews.application")),
		reviewobs.WithMeter(instruments.Meter("internal.reviews.application")),
	)
	objects, err := mediafilesystem.NewStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		return nil, fmt.Errorf("media store: %w", err)
	}
	logger.Info("media uploads stored on disk", slog.String("dir", cfg.MediaDir), slog.String("baseURL", cfg.MediaBaseURL))
	mediaService := mediaobs.New(mediaapp.NewService(objects),
		mediaobs.WithLogger(logger),
		mediaobs.WithTracer(instruments.Tracer("internal.media.application")),
		mediaobs.WithMeter(instruments.Meter("internal.media.application")),
	)
	return &Services{
		Orders:  NewOrderService(storage, publisher, instruments),
		Catalog: catalogService,
		Reviews: reviewService,
		Media:   mediaService,
	}, nil
}
