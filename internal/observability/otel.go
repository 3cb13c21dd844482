package observability

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrNilMeter is returned when no meter is supplied.
var ErrNilMeter = errors.New("nil meter")

// OTelMetrics records gateway calls as OpenTelemetry instruments.
type OTelMetrics struct {
	calls    metric.Int64Counter
	failures metric.Int64Counter
	latency  metric.Float64Histogram
}

// NewOTelMetrics registers the gateway instruments on meter.
func NewOTelMetrics(meter metric.Meter) (*OTelMetrics, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	calls, err := meter.Int64Counter("jobit_gateway_calls_total",
		metric.WithDescription("Gateway calls by method and status."))
	if err != nil {
		return nil, fmt.Errorf("create calls counter: %w", err)
	}
	failures, err := meter.Int64Counter("jobit_gateway_failures_total",
		metric.WithDescription("Failed gateway calls by method and kind."))
	if err != nil {
		return nil, fmt.Errorf("create failures counter: %w", err)
	}
	latency, err := meter.Float64Histogram("jobit_gateway_call_duration_seconds",
		metric.WithDescription("Gateway call duration."), metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create latency histogram: %w", err)
	}
	return &OTelMetrics{calls: calls, failures: failures, latency: latency}, nil
}

// RecordCall counts a completed call by method and status.
func (o *OTelMetrics) RecordCall(method string, status int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("status", strconv.Itoa(status)),
	)
	ctx := context.Background()
	o.calls.Add(ctx, 1, attrs)
	o.latency.Record(ctx, duration.Seconds(), attrs)
}

// RecordFailure counts a failed call by method and failure kind.
func (o *OTelMetrics) RecordFailure(method, kind string) {
	o.failures.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("kind", kind),
	))
}
