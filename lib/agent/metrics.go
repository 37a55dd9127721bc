package agent

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the instruments for vendor API calls. One instance is
// shared by every agent wired through WithMetrics.
type Metrics struct {
	requestsTotal   metric.Int64Counter
	requestDuration metric.Float64Histogram
	errorsTotal     metric.Int64Counter
}

// NewMetrics creates and registers the vendor call metrics.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requestsTotal, err := meter.Int64Counter(
		"vpsdeck_vendor_requests_total",
		metric.WithDescription("Total number of vendor API requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"vpsdeck_vendor_request_duration_seconds",
		metric.WithDescription("Vendor API request duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	errorsTotal, err := meter.Int64Counter(
		"vpsdeck_vendor_errors_total",
		metric.WithDescription("Total number of failed vendor API requests"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requestsTotal:   requestsTotal,
		requestDuration: requestDuration,
		errorsTotal:     errorsTotal,
	}, nil
}

func (m *Metrics) record(ctx context.Context, provider, path string, status int, d time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("path", path),
		attribute.Int("status", status),
	)
	m.requestsTotal.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, d.Seconds(), attrs)
	if err != nil || status >= 400 {
		m.errorsTotal.Add(ctx, 1, attrs)
	}
}
