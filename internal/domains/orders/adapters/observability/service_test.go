package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otelcodes "go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	ordertypes "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
)

type stubService struct {
	orderports.Service
	cancelErr error
}

func (s stubService) CancelOrder(_ context.Context, input ordertypes.OrderIdentifier) (*ordertypes.OrderProjection, error) {
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	return &ordertypes.OrderProjection{Entity: &domain.Order{ID: input.OrderID, UserID: input.UserID, Status: domain.StatusCancelled}}, nil
}

func newRecorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	recorder := tracetest.NewSpanRecorder()
	return recorder, sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
}

func TestService_CancelOrderRecordsSpan(t *testing.T) {
	recorder, provider := newRecorder()
	var logs bytes.Buffer
	svc := New(stubService{},
		WithTracer(provider.Tracer("test")),
		WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))),
	)

	result, err := svc.CancelOrder(context.Background(), ordertypes.OrderIdentifier{UserID: "u-1", OrderID: "o-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, result.Entity.Status)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "OrdersService.CancelOrder", spans[0].Name())
	assert.Contains(t, logs.String(), "order cancelled")
}

func TestService_CancelOrderErrorMarksSpan(t *testing.T) {
	recorder, provider := newRecorder()
	failure := errors.New("order can no longer be cancelled")
	svc := New(stubService{cancelErr: failure}, WithTracer(provider.Tracer("test")))

	_, err := svc.CancelOrder(context.Background(), ordertypes.OrderIdentifier{UserID: "u-1", OrderID: "o-1"})
	require.ErrorIs(t, err, failure)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, otelcodes.Error, spans[0].Status().Code)
	require.NotEmpty(t, spans[0].Events())
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}
