// Package metrics records per-step browser timings through an OpenTelemetry
// meter backed by a private Prometheus registry. A verification run is a short
// lived process, so the registry is dumped to a node-exporter textfile instead
// of being scraped.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultBuckets provides histogram buckets in seconds sized for browser
// actions, which range from instant fills to multi-second navigations.
var DefaultBuckets = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60} //nolint: gochecknoglobals

const meterName = "webverify"

// Recorder collects step and screenshot metrics for verification runs.
type Recorder struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider

	stepDuration metric.Float64Histogram
	steps        metric.Int64Counter
	screenshots  metric.Int64Counter
}

// New creates a Recorder with its own registry and meter provider.
func New() (*Recorder, error) {
	registry := prometheus.NewRegistry()

	exp, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	meter := mp.Meter(meterName)

	stepDuration, err := meter.Float64Histogram("webverify_step_duration",
		metric.WithDescription("Duration of a single browser step."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create step duration histogram: %w", err)
	}

	steps, err := meter.Int64Counter("webverify_steps",
		metric.WithDescription("Number of browser steps executed, by outcome."))
	if err != nil {
		return nil, fmt.Errorf("could not create steps counter: %w", err)
	}

	screenshots, err := meter.Int64Counter("webverify_screenshots",
		metric.WithDescription("Number of screenshots written to disk."))
	if err != nil {
		return nil, fmt.Errorf("could not create screenshots counter: %w", err)
	}

	return &Recorder{
		registry:     registry,
		provider:     mp,
		stepDuration: stepDuration,
		steps:        steps,
		screenshots:  screenshots,
	}, nil
}

// ObserveStep records the duration and outcome of one browser step.
func (r *Recorder) ObserveStep(ctx context.Context, flow, action string, took time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}

	attrs := metric.WithAttributes(
		attribute.String("flow", flow),
		attribute.String("action", action),
		attribute.String("status", status),
	)
	r.stepDuration.Record(ctx, took.Seconds(), attrs)
	r.steps.Add(ctx, 1, attrs)
}

// ScreenshotTaken counts a screenshot written by the given flow.
func (r *Recorder) ScreenshotTaken(ctx context.Context, flow string) {
	r.screenshots.Add(ctx, 1, metric.WithAttributes(attribute.String("flow", flow)))
}

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the current metric values in Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("could not write metrics textfile: %w", err)
	}

	return nil
}

// Shutdown flushes and stops the meter provider.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if err := r.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not shutdown meter provider: %w", err)
	}

	return nil
}
