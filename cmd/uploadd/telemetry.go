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

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"rivaas.dev/multipart/metrics"
)

func newRecorder(opts *options, logger *slog.Logger) (*metrics.Recorder, error) {
	base := []metrics.Option{
		metrics.WithServiceName(serviceName),
		metrics.WithLogger(logger),
	}

	switch opts.metrics {
	case "prometheus":
		base = append(base, metrics.WithPrometheus())
	case "otlp":
		base = append(base, metrics.WithOTLP(opts.otlpEndpoint))
	case "stdout":
		base = append(base, metrics.WithStdout())
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported metrics exporter %q", opts.metrics)
	}

	return metrics.New(base...)
}

// newTracerProvider returns nil when tracing is disabled.
func newTracerProvider(ctx context.Context, kind, endpoint string, out io.Writer) (*sdktrace.TracerProvider, error) {
	var (
		exporter sdktrace.SpanExporter
		err      error
	)

	switch kind {
	case "none", "":
		return nil, nil
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(out))
	case "otlp":
		var opts []otlptracehttp.Option
		if endpoint != "" {
			host, insecure := splitEndpoint(endpoint)
			opts = append(opts, otlptracehttp.WithEndpoint(host))
			if insecure {
				opts = append(opts, otlptracehttp.WithInsecure())
			}
		}
		exporter, err = otlptracehttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported trace exporter %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s trace exporter: %w", kind, err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", version),
		)),
	), nil
}

// splitEndpoint strips the scheme and path from an endpoint URL. Plain
// http endpoints are reported as insecure.
func splitEndpoint(endpoint string) (host string, insecure bool) {
	host = endpoint
	if after, ok := strings.CutPrefix(host, "http://"); ok {
		host = after
		insecure = true
	} else {
		host = strings.TrimPrefix(host, "https://")
	}
	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}

	return host, insecure
}
