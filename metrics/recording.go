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
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome classifies a resolved request.
type Outcome string

const (
	// OutcomeSuccess means every part was parsed.
	OutcomeSuccess Outcome = "success"
	// OutcomeRejected means a size or part limit refused the request.
	OutcomeRejected Outcome = "rejected"
	// OutcomeError means the body was not a well-formed multipart stream.
	OutcomeError Outcome = "error"
)

// PartKind classifies a parsed part.
type PartKind string

const (
	// PartFile is a part carrying a filename.
	PartFile PartKind = "file"
	// PartField is a plain form field.
	PartField PartKind = "field"
)

// Rejection reasons.
const (
	ReasonMaxUploadSize = "max_upload_size"
	ReasonMaxParts      = "max_parts"
)

func (r *Recorder) initializeInstruments() error {
	var err error

	r.requests, err = r.meter.Int64Counter(
		"multipart.requests",
		metric.WithDescription("Multipart requests resolved, by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create requests counter: %w", err)
	}

	r.parts, err = r.meter.Int64Counter(
		"multipart.parts",
		metric.WithDescription("Multipart parts parsed, by kind"),
		metric.WithUnit("{part}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create parts counter: %w", err)
	}

	r.uploadSize, err = r.meter.Int64Histogram(
		"multipart.upload.size",
		metric.WithDescription("Bytes read from multipart request bodies"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(r.sizeBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create upload size histogram: %w", err)
	}

	r.parseDuration, err = r.meter.Float64Histogram(
		"multipart.parse.duration",
		metric.WithDescription("Time spent parsing multipart request bodies"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create parse duration histogram: %w", err)
	}

	r.rejections, err = r.meter.Int64Counter(
		"multipart.rejections",
		metric.WithDescription("Multipart requests refused, by reason"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rejections counter: %w", err)
	}

	return nil
}

// RecordRequest records one resolved request: its outcome, the bytes read
// and the time spent parsing.
func (r *Recorder) RecordRequest(ctx context.Context, outcome Outcome, size int64, elapsed time.Duration) {
	if r == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("outcome", string(outcome)))
	r.requests.Add(ctx, 1, attrs)
	r.uploadSize.Record(ctx, size, attrs)
	r.parseDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordPart counts one parsed part.
func (r *Recorder) RecordPart(ctx context.Context, kind PartKind) {
	if r == nil {
		return
	}
	r.parts.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(kind))))
}

// RecordRejection counts a refused request.
func (r *Recorder) RecordRejection(ctx context.Context, reason string) {
	if r == nil {
		return
	}
	r.rejections.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
