package api

import (
	"context"
	"log/slog"

	catalogmemory "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/adapters/memory"
	catalogmongo "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/adapters/persistence/mongo"
	catalogpostgres "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	ordermemory "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/memory"
	ordermongo "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/persistence/mongo"
	orderpostgres "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/persistence/postgres"
	orderports "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	reviewmemory "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/adapters/memory"
	reviewmongo "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/adapters/persistence/mongo"
	reviewpostgres "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/adapters/persistence/postgres"
	reviewports "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/ports"
	platformmongo "github.com/Apurer/go-gin-storefront-api/internal/platform/mongo"
	platformpostgres "github.com/Apurer/go-gin-storefront-api/internal/platform/postgres"
)

// Storage backend names reported in logs.
const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Storage bundles the repositories shared by the API and the worker.
type Storage struct {
	Backend     string
	Orders      orderports.Repository
	Idempotency orderports.IdempotencyStore
	Products    catalogports.Repository
	Reviews     reviewports.Repository
}

// OpenStorage picks MongoDB, then PostgreSQL, then memory. Unreachable stores are logged and skipped.
// The returned cleanup closes whichever connection was opened.
func OpenStorage(ctx context.Context, cfg Config, logger *slog.Logger) (*Storage, func()) {
	if cfg.MongoURI != "" {
		db, cleanup := platformmongo.ConnectOrFallback(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if db != nil {
			logger.Info("storage configured", slog.String("backend", BackendMongo), slog.String("database", cfg.MongoDatabase))
			return &Storage{
				Backend:     BackendMongo,
				Orders:      ordermongo.NewRepository(db),
				Idempotency: ordermemory.NewIdempotencyStore(),
				Products:    catalogmongo.NewRepository(db),
				Reviews:     reviewmongo.NewRepository(db),
			}, cleanup
		}
	}
	if cfg.PostgresDSN != "" {
		db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
		if db != nil {
			logger.Info("storage configured", slog.String("backend", BackendPostgres))
			return &Storage{
				Backend:     BackendPostgres,
				Orders:      orderpostgres.NewRepository(db),
				Idempotency: orderpostgres.NewIdempotencyStore(db),
				Products:    catalogpostgres.NewRepository(db),
				Reviews:     reviewpostgres.NewRepository(db),
			}, cleanup
		}
	}
	logger.Warn("no reachable database configured, falling back to in-memory storage")
	return MemoryStorage(), func() {}
}

// MemoryStorage keeps everything in process memory.
func MemoryStorage() *Storage {
	return &Storage{
		Backend:     BackendMemory,
		Orders:      ordermemory.NewRepository(),
		Idempotency: ordermemory.NewIdempotencyStore(),
		Products:    catalogmemory.NewRepository(),
		Reviews:     reviewmemory.NewRepository(),
	}
}
