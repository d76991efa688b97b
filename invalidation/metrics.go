package invalidation

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/goliatone/go-tips-admin/cache"
)

const meterName = "github.com/goliatone/go-tips-admin/invalidation"

type metrics struct {
	evictions metric.Int64Counter
	failures  metric.Int64Counter
}

func newMetrics(mp metric.MeterProvider) (*metrics, error) {
	if mp == nil {
		mp = noop.NewMeterProvider()
	}
	meter := mp.Meter(meterName)

	evictions, err := meter.Int64Counter(
		"cache.invalidations",
		metric.WithDescription("Cache keys evicted after a successful write"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"cache.invalidation.errors",
		metric.WithDescription("Cache key evictions that failed"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return &metrics{evictions: evictions, failures: failures}, nil
}

func (m *metrics) record(ctx context.Context, r cache.Resource, err error) {
	opt := metric.WithAttributes(attribute.String("resource", r.Kind.String()))
	if err != nil {
		m.failures.Add(ctx, 1, opt)
		return
	}
	m.evictions.Add(ctx, 1, opt)
}
