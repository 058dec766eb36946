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
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Option configures a [Recorder].
type Option func(*Recorder)

// WithPrometheus exports through a private Prometheus registry.
// Serve it with [Recorder.Handler].
func WithPrometheus() Option {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
		r.providerSetCount++
	}
}

// WithOTLP pushes to an OTLP HTTP collector. The endpoint may carry an
// http:// or https:// scheme; plain http disables TLS.
//
// Example:
//
//	recorder := metrics.MustNew(metrics.WithOTLP("http://localhost:4318"))
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.otlpEndpoint = endpoint
		r.providerSetCount++
	}
}

// WithStdout writes measurements to stdout on every export interval.
func WithStdout() Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
		r.providerSetCount++
	}
}

// WithMeterProvider records into a caller-managed [metric.MeterProvider].
// [Recorder.Shutdown] does not shut it down.
//
// Example:
//
//	reader := sdkmetric.NewManualReader()
//	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
//	recorder := metrics.MustNew(metrics.WithMeterProvider(mp))
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Recorder) {
		if provider == nil {
			r.validationErrors = append(r.validationErrors, errors.New("meter provider cannot be nil"))
			return
		}
		r.provider = CustomProvider
		r.meterProvider = provider
		r.providerSetCount++
	}
}

// WithGlobalMeterProvider registers the created provider with otel.SetMeterProvider.
func WithGlobalMeterProvider() Option {
	return func(r *Recorder) {
		r.registerGlobal = true
	}
}

// WithServiceName sets the service name used for the meter's resource.
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		r.serviceName = name
	}
}

// WithExportInterval sets the push interval for OTLP and stdout.
func WithExportInterval(interval time.Duration) Option {
	return func(r *Recorder) {
		if interval <= 0 {
			r.validationErrors = append(r.validationErrors, errors.New("export interval must be positive"))
			return
		}
		r.exportInterval = interval
	}
}

// WithDurationBuckets sets the parse duration histogram boundaries, in seconds.
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		r.durationBuckets = buckets
	}
}

// WithSizeBuckets sets the upload size histogram boundaries, in bytes.
func WithSizeBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		r.sizeBuckets = buckets
	}
}

// WithLogger sets the logger for the recorder's own operational messages.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}
