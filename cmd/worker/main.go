package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-storefront-api/internal/app/api"
	platformobservability "github.com/Apurer/go-gin-storefront-api/internal/platform/observability"
	platformtemporal "github.com/Apurer/go-gin-storefront-api/internal/platform/temporal"
	orderactivities "github.com/Apurer/go-gin-storefront-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-storefront-api/internal/platform/temporal/workflows/orders"
)

const serviceName = "storefront-worker"

func main() {
	ctx := context.Background()
	cfg, err := api.ParseConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		LogLevel:     cfg.LogLevel,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
	})
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	storage, closeStorage := api.OpenStorage(ctx, cfg, logger)
	defer closeStorage()
	publisher, closePublisher := api.OpenEventPublisher(ctx, cfg, serviceName, instruments)
	defer closePublisher()
	orderActivities := orderactivities.NewActivities(api.NewOrderService(storage, publisher, instruments))

	temporalClient, err := platformtemporal.Dial(platformtemporal.ClientSettings{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Disabled:  cfg.TemporalDisabled,
	}, logger, instruments.Tracer("temporal-worker"))
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.TransitionTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.TransitionWorkflow, workflow.RegisterOptions{Name: orderworkflows.TransitionWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.TransitionOrder, activity.RegisterOptions{Name: orderactivities.TransitionOrderActivityName})

	logger.Info("worker listening",
		slog.String("taskQueue", orderworkflows.TransitionTaskQueue),
		slog.String("namespace", cfg.TemporalNamespace),
		slog.String("storage", storage.Backend))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
