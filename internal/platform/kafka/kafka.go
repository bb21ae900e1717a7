// Package kafka wires franz-go clients for the storefront event stream.
package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/propagation"
)

// TraceParentHeader carries the W3C trace context on produced records.
const TraceParentHeader = "traceparent"

// Config describes how to reach the brokers and which topic to produce to.
type Config struct {
	Brokers  []string
	ClientID string
	Topic    string
}

// NewClient builds a producer that waits for all in-sync replicas.
func NewClient(cfg Config) (*kgo.Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are empty")
	}
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ProduceRequestTimeout(10 * time.Second),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}
	if cfg.Topic != "" {
		opts = append(opts, kgo.DefaultProduceTopic(cfg.Topic))
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}
	return kgo.NewClient(opts...)
}

// EnsureTopic creates the topic with a single partition and replica when it does not exist yet.
func EnsureTopic(ctx context.Context, admin *kadm.Client, topic string) (bool, error) {
	topics, err := admin.ListTopics(ctx)
	if err != nil {
		return false, fmt.Errorf("list topics: %w", err)
	}
	if _, exists := topics[topic]; exists {
		return false, nil
	}
	minISR := "1"
	resp, err := admin.CreateTopics(ctx, 1, 1, map[string]*string{"min.insync.replicas": &minISR}, topic)
	if err != nil {
		return false, fmt.Errorf("create topic %s: %w", topic, err)
	}
	if created, ok := resp[topic]; ok && created.Err != nil {
		return false, fmt.Errorf("create topic %s: %w", topic, created.Err)
	}
	return true, nil
}

// Connect dials the brokers, verifies connectivity, and makes sure the topic exists.
// With no brokers configured it logs and returns nil with a no-op cleanup.
func Connect(ctx context.Context, cfg Config, logger *slog.Logger) (*kgo.Client, func()) {
	if len(cfg.Brokers) == 0 {
		if logger != nil {
			logger.Warn("KAFKA_BROKERS not set, order events will not be published")
		}
		return nil, func() {}
	}
	client, err := NewClient(cfg)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to create kafka client, order events disabled", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		client.Close()
		if logger != nil {
			logger.Warn("failed to reach kafka brokers, order events disabled", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if cfg.Topic != "" {
		created, err := EnsureTopic(pingCtx, kadm.NewClient(client), cfg.Topic)
		if err != nil {
			if logger != nil {
				logger.Warn("failed to ensure kafka topic", slog.String("topic", cfg.Topic), slog.String("error", err.Error()))
			}
		} else if logger != nil {
			logger.Info("kafka topic ready", slog.String("topic", cfg.Topic), slog.Bool("created", created))
		}
	}
	if logger != nil {
		logger.Info("kafka producer connected", slog.String("brokers", strings.Join(cfg.Brokers, ",")))
	}
	return client, client.Close
}

// TraceHeaders renders the span context of ctx as record headers.
func TraceHeaders(ctx context.Context) []kgo.RecordHeader {
	carrier := propagation.MapCarrier{}
	propagation.TraceContext{}.Inject(ctx, carrier)
	traceparent, ok := carrier[TraceParentHeader]
	if !ok {
		return nil
	}
	return []kgo.RecordHeader{{Key: TraceParentHeader, Value: []byte(traceparent)}}
}

// ParseBrokers splits a comma separated broker list.
func ParseBrokers(raw string) []string {
	var brokers []string
	for _, broker := range strings.Split(raw, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}
