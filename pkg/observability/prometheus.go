package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Textfile collects OTel metrics into a private Prometheus registry and
// writes them out in text exposition format on demand. CI jobs feed the
// file to node_exporter's textfile collector.
type Textfile struct {
	path     string
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider
}

// NewTextfile creates a Textfile writing to path. res may be nil.
func NewTextfile(path string, res *resource.Resource) (*Textfile, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(exporter)}
	if res != nil {
		opts = append(opts, sdkmetric.WithResource(res))
	}

	return &Textfile{
		path:     path,
		registry: registry,
		provider: sdkmetric.NewMeterProvider(opts...),
	}, nil
}

// MeterProvider returns the provider whose instruments land in the file.
func (t *Textfile) MeterProvider() metric.MeterProvider {
	return t.provider
}

// Gatherer exposes the underlying registry.
func (t *Textfile) Gatherer() prometheus.Gatherer {
	return t.registry
}

// Write renders the current metric values to the file atomically.
func (t *Textfile) Write() error {
	if err := prometheus.WriteToTextfile(t.path, t.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", t.path, err)
	}

	return nil
}

// Shutdown writes the file one last time and stops the provider.
func (t *Textfile) Shutdown(ctx context.Context) error {
	writeErr := t.Write()

	if err := t.provider.Shutdown(ctx); err != nil {
		return errors.Join(writeErr, fmt.Errorf("shutdown textfile meter provider: %w", err))
	}

	return writeErr
}
