package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	storefrontserver "github.com/Apurer/go-gin-storefront-api/go"
	orderworkflows "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/workflows"
	orderports "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/platform/auth"
	platformobservability "github.com/Apurer/go-gin-storefront-api/internal/platform/observability"
	platformtemporal "github.com/Apurer/go-gin-storefront-api/internal/platform/temporal"
)

// ServiceName identifies the API process in telemetry.
const ServiceName = "storefront-api"

// Run boots the storefront HTTP API with observability, storage, events, and workflows wired.
// It returns when ctx is cancelled and the server has drained.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName:  ServiceName,
		Environment:  cfg.Environment,
		LogLevel:     cfg.LogLevel,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	storage, closeStorage := OpenStorage(ctx, cfg, logger)
	defer closeStorage()
	publisher, closePublisher := OpenEventPublisher(ctx, cfg, ServiceName, instruments)
	defer closePublisher()

	services, err := NewServices(cfg, storage, publisher, instruments)
	if err != nil {
		return err
	}

	var workflows orderports.WorkflowOrchestrator = orderworkflows.NewInlineOrderWorkflows(services.Orders)
	temporalClient, err := platformtemporal.Dial(platformtemporal.ClientSettings{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Disabled:  cfg.TemporalDisabled,
	}, logger, instruments.Tracer("temporal-client"))
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running order transitions inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		workflows = orderworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	authenticator, err := newAuthenticator(cfg, logger)
	if err != nil {
		return err
	}

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(ServiceName))
	router.Static(cfg.MediaBaseURL, cfg.MediaDir)
	storefrontserver.NewRouterWithGinEngine(router, storefrontserver.ApiHandleFunctions{
		OrderAPI:   storefrontserver.NewOrderAPI(services.Orders, workflows),
		ProductAPI: storefrontserver.NewProductAPI(services.Catalog),
		ReviewAPI:  storefrontserver.NewReviewAPI(services.Reviews),
		UploadAPI:  storefrontserver.NewUploadAPI(services.Media),
		AccessAPI:  storefrontserver.NewAccessAPI(),
		Auth:       authenticator,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("storefront API listening", slog.String("addr", server.Addr), slog.String("storage", storage.Backend))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("storefront API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down storefront API", slog.Duration("timeout", cfg.ShutdownTimeout))
	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func newAuthenticator(cfg Config, logger *slog.Logger) (*storefrontserver.Authenticator, error) {
	if cfg.AuthDisabled {
		logger.Warn("AUTH_DISABLED set, every request acts as a local admin")
		return storefrontserver.NewAuthenticator(nil, true, logger), nil
	}
	verifier, err := auth.NewVerifier(cfg.AuthSecret)
	if err != nil {
		return nil, fmt.Errorf("auth verifier: %w", err)
	}
	return storefrontserver.NewAuthenticator(verifier, false, logger), nil
}
