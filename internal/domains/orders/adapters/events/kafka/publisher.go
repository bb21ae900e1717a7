package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	platformkafka "github.com/Apurer/go-gin-storefront-api/internal/platform/kafka"
)

// DefaultTopic receives every order lifecycle event.
const DefaultTopic = "storefront.order-events"

const tracerName = "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/adapters/events/kafka"

var _ ports.EventPublisher = (*Publisher)(nil)

// Producer is the subset of *kgo.Client the publisher needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Publisher writes order events to Kafka as JSON envelopes keyed by order id.
type Publisher struct {
	producer Producer
	topic    string
	tracer   trace.Tracer
}

type Option func(*Publisher)

func WithTopic(topic string) Option {
	return func(p *Publisher) {
		if topic != "" {
			p.topic = topic
		}
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(p *Publisher) {
		if tr != nil {
			p.tracer = tr
		}
	}
}

// NewPublisher wraps a franz-go producer.
func NewPublisher(producer Producer, opts ...Option) *Publisher {
	p := &Publisher{
		producer: producer,
		topic:    DefaultTopic,
		tracer:   nooptrace.NewTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Envelope is the wire shape of an order event.
type Envelope struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to,omitempty"`
	Total      string    `json:"total,omitempty"`
	Priority   string    `json:"priority,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publish produces one record per event and waits for the brokers to acknowledge them.
func (p *Publisher) Publish(ctx context.Context, events ...domain.Event) error {
	if p == nil || p.producer == nil {
		return errors.New("kafka order event publisher not configured")
	}
	if len(events) == 0 {
		return nil
	}
	ctx, span := p.tracer.Start(ctx, "OrderEvents.Publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", p.topic),
			attribute.Int("messaging.batch.message_count", len(events)),
		))
	defer span.End()

	headers := platformkafka.TraceHeaders(ctx)
	records := make([]*kgo.Record, 0, len(events))
	for _, event := range events {
		envelope, err := NewEnvelope(event)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		payload, err := json.Marshal(envelope)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		records = append(records, &kgo.Record{
			Topic:   p.topic,
			Key:     []byte(envelope.OrderID),
			Value:   payload,
			Headers: append([]kgo.RecordHeader(nil), headers...),
		})
	}
	if err := p.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("produce order events: %w", err)
	}
	return nil
}

// NewEnvelope flattens a domain event into its wire shape.
func NewEnvelope(event domain.Event) (Envelope, error) {
	envelope := Envelope{Type: event.EventName(), OccurredAt: event.OccurredAt().UTC()}
	switch e := event.(type) {
	case domain.OrderPlaced:
		envelope.OrderID = e.OrderID
		envelope.UserID = e.UserID
		envelope.To = string(domain.StatusPending)
		envelope.Total = e.Total.StringFixed(2)
		envelope.Priority = string(e.Priority)
	case domain.OrderStatusChanged:
		envelope.OrderID = e.OrderID
		envelope.UserID = e.UserID
		envelope.From = string(e.From)
		envelope.To = string(e.To)
	case domain.OrderCancelled:
		envelope.OrderID = e.OrderID
		envelope.UserID = e.UserID
		envelope.From = string(e.PreviousStatus)
		envelope.To = string(domain.StatusCancelled)
	default:
		return Envelope{}, fmt.Errorf("unsupported order event %T", event)
	}
	return envelope, nil
}
