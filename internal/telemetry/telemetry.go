// Package telemetry builds the OpenTelemetry meter provider used for the
// invalidation counters.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Supported exporters.
const (
	ExporterNone       = "none"
	ExporterStdout     = "stdout"
	ExporterPrometheus = "prometheus"
)

// Provider owns the meter provider and, for the prometheus exporter, the
// scrape handler.
type Provider struct {
	MeterProvider *sdkmetric.MeterProvider

	// Handler serves /metrics. It is nil unless the exporter is prometheus.
	Handler http.Handler
}

// Options tune New.
type Options struct {
	// Writer receives stdout exports. Defaults to os.Stdout.
	Writer io.Writer
}

// New creates a Provider for the named exporter.
func New(exporter string, opts Options) (*Provider, error) {
	switch exporter {
	case ExporterStdout:
		w := opts.Writer
		if w == nil {
			w = os.Stdout
		}
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metrics exporter: %w", err)
		}
		reader := sdkmetric.NewPeriodicReader(exp)
		return &Provider{MeterProvider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))}, nil

	case ExporterPrometheus:
		registry := promclient.NewRegistry()
		exp, err := prometheus.New(prometheus.WithRegisterer(registry))
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		return &Provider{
			MeterProvider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp)),
			Handler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}, nil

	case ExporterNone, "":
		// no reader: instruments are created but nothing is exported
		return &Provider{MeterProvider: sdkmetric.NewMeterProvider()}, nil

	default:
		return nil, fmt.Errorf("unknown metrics exporter: %q", exporter)
	}
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.MeterProvider == nil {
		return nil
	}
	if err := p.MeterProvider.Shutdown(ctx); err != nil && !errors.Is(err, sdkmetric.ErrReaderShutdown) {
		return err
	}
	return nil
}
