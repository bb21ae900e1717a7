package temporal

import (
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	temporallog "go.temporal.io/sdk/log"
)

// ErrDisabled is returned by Dial when Temporal is switched off by configuration.
var ErrDisabled = errors.New("temporal disabled via TEMPORAL_DISABLED")

// ClientSettings selects the cluster a process talks to.
type ClientSettings struct {
	Address   string
	Namespace string
	Disabled  bool
}

// Dial connects to Temporal with structured logging and tracing interceptors installed.
func Dial(settings ClientSettings, logger *slog.Logger, tracer trace.Tracer) (client.Client, error) {
	if settings.Disabled {
		return nil, ErrDisabled
	}
	if logger == nil {
		logger = slog.Default()
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{Tracer: tracer})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  orDefault(settings.Address, client.DefaultHostPort),
		Namespace: orDefault(settings.Namespace, client.DefaultNamespace),
		Logger:    temporallog.NewStructuredLogger(logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
