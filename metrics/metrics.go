// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Default histogram buckets.
var (
	// DefaultDurationBuckets are histogram boundaries for parse duration in seconds.
	DefaultDurationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

	// DefaultSizeBuckets are histogram boundaries for upload size in bytes.
	// Covers 1KiB to 64MiB.
	DefaultSizeBuckets = []float64{1 << 10, 10 << 10, 100 << 10, 1 << 20, 4 << 20, 16 << 20, 64 << 20}
)

// ErrHandlerUnavailable is returned by [Recorder.Handler] when the recorder
// does not export through Prometheus.
var ErrHandlerUnavailable = errors.New("metrics: handler only available with the Prometheus provider")

// Provider identifies the exporter backing a [Recorder].
type Provider string

const (
	// NoopProvider discards all measurements (default).
	NoopProvider Provider = "noop"
	// PrometheusProvider exposes measurements through a scrape handler.
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider pushes measurements to an OTLP HTTP collector.
	OTLPProvider Provider = "otlp"
	// StdoutProvider writes measurements to stdout (development/testing).
	StdoutProvider Provider = "stdout"
	// CustomProvider uses a caller-supplied meter provider.
	CustomProvider Provider = "custom"
)

// Recorder holds the upload instruments and the provider they report to.
// All methods are safe for concurrent use.
type Recorder struct {
	meter              metric.Meter
	meterProvider      metric.MeterProvider
	prometheusRegistry *promclient.Registry
	prometheusHandler  http.Handler
	logger             *slog.Logger

	requests      metric.Int64Counter
	parts         metric.Int64Counter
	uploadSize    metric.Int64Histogram
	parseDuration metric.Float64Histogram
	rejections    metric.Int64Counter

	durationBuckets []float64
	sizeBuckets     []float64

	validationErrors []error

	provider         Provider
	providerSetCount int
	otlpEndpoint     string
	exportInterval   time.Duration
	serviceName      string

	isShuttingDown atomic.Bool
	registerGlobal bool
}

// New creates a new [Recorder] with the given options.
// Returns an error if the configuration is invalid or the provider fails to initialize.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		provider:        NoopProvider,
		exportInterval:  30 * time.Second,
		serviceName:     "uploadd",
		durationBuckets: DefaultDurationBuckets,
		sizeBuckets:     DefaultSizeBuckets,
		logger:          slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := r.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return r, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize metrics: %v", err))
	}

	return r
}

func (r *Recorder) validate() error {
	if len(r.validationErrors) > 0 {
		return errors.Join(r.validationErrors...)
	}
	if r.providerSetCount > 1 {
		return errors.New("conflicting provider options: only one of WithPrometheus, WithOTLP, WithStdout or WithMeterProvider can be used")
	}
	if r.serviceName == "" {
		return errors.New("service name cannot be empty")
	}
	if r.provider == OTLPProvider && r.otlpEndpoint == "" {
		r.logger.Warn("OTLP endpoint not specified, will use default", "default", "localhost:4318")
	}

	return nil
}

// Handler returns the Prometheus scrape handler.
//
// Example:
//
//	handler, err := recorder.Handler()
//	if err == nil {
//	    mux.Handle("/metrics", handler)
//	}
func (r *Recorder) Handler() (http.Handler, error) {
	if r == nil || r.prometheusHandler == nil {
		return nil, ErrHandlerUnavailable
	}

	return r.prometheusHandler, nil
}

// Provider returns the provider backing the recorder.
func (r *Recorder) Provider() Provider {
	if r == nil {
		return NoopProvider
	}
	return r.provider
}

// ServiceName returns the service name attached to exported resources.
func (r *Recorder) ServiceName() string {
	return r.serviceName
}

// ForceFlush exports pending measurements for push-based providers.
func (r *Recorder) ForceFlush(ctx context.Context) error {
	if r == nil || r.isShuttingDown.Load() {
		return nil
	}

	if mp, ok := r.meterProvider.(*sdkmetric.MeterProvider); ok && r.provider != CustomProvider {
		if err := mp.ForceFlush(ctx); err != nil {
			return fmt.Errorf("metrics force flush: %w", err)
		}
	}

	return nil
}

// Shutdown flushes and stops the meter provider the recorder created.
// Custom providers are left to their owner. Shutdown is idempotent.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r == nil || !r.isShuttingDown.CompareAndSwap(false, true) {
		return nil
	}

	if r.provider == CustomProvider {
		r.logger.Debug("Skipping shutdown of custom meter provider (managed by caller)")
		return nil
	}

	mp, ok := r.meterProvider.(*sdkmetric.MeterProvider)
	if !ok {
		return nil
	}

	if err := mp.ForceFlush(ctx); err != nil {
		r.logger.Warn("metrics flush warning", "error", err)
	}
	if err := mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("meter provider shutdown: %w", err)
	}

	r.logger.Debug("Meter provider shut down successfully")

	return nil
}
