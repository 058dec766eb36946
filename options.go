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

package multipart

import (
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/multipart/metrics"
)

// Option configures a [Resolver].
type Option func(*Resolver)

// WithMaxUploadSize sets the maximum size in bytes of a whole request and of
// any single part. -1 means no limit, which is the default. Zero is invalid.
//
// Example:
//
//	multipart.New(multipart.WithMaxUploadSize(10 << 20)) // 10 MiB
func WithMaxUploadSize(n int64) Option {
	return func(r *Resolver) {
		switch {
		case n == 0:
			r.validationErrors = append(r.validationErrors, errors.New("max upload size must be positive or -1"))
		case n < 0:
			r.maxUploadSize = -1
		default:
			r.maxUploadSize = n
		}
	}
}

// WithDefaultEncoding sets the encoding for form fields of requests that do
// not name a charset. The default is ISO-8859-1.
func WithDefaultEncoding(encoding string) Option {
	return func(r *Resolver) {
		if encoding == "" {
			r.validationErrors = append(r.validationErrors, errors.New("default encoding cannot be empty"))
			return
		}
		r.defaultEncoding = encoding
	}
}

// WithResolveLazily defers parsing until the first file or parameter access.
// Parse errors are then reported by the [Request] accessors instead of by
// [Resolver.Resolve].
func WithResolveLazily(lazy bool) Option {
	return func(r *Resolver) {
		r.resolveLazily = lazy
	}
}

// WithMaxParts caps the number of parts in one request. The default is
// [DefaultMaxParts].
func WithMaxParts(n int) Option {
	return func(r *Resolver) {
		if n < 1 {
			r.validationErrors = append(r.validationErrors, errors.New("max parts must be at least 1"))
			return
		}
		r.maxParts = n
	}
}

// WithProblemBaseURL sets the base URL for problem types in error
// responses written by [Middleware].
func WithProblemBaseURL(url string) Option {
	return func(r *Resolver) {
		r.problemBaseURL = url
	}
}

// WithLogger sets the logger. Debug records describe parsed files and
// cleanup; warnings report undecodable fields and failed cleanup.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTracerProvider sets the provider for parse spans.
// The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Resolver) {
		if tp != nil {
			r.tracerProvider = tp
		}
	}
}

// WithRecorder records parse metrics into recorder.
func WithRecorder(recorder *metrics.Recorder) Option {
	return func(r *Resolver) {
		r.recorder = recorder
	}
}

// WithMeterProvider records parse metrics into a meter from mp.
// It is shorthand for WithRecorder with a recorder over mp.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(r *Resolver) {
		recorder, err := metrics.New(metrics.WithMeterProvider(mp))
		if err != nil {
			r.validationErrors = append(r.validationErrors, err)
			return
		}
		r.recorder = recorder
	}
}
