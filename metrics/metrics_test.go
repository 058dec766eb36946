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

//go:build !integration

package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{
			name:    "conflicting providers",
			opts:    []Option{WithPrometheus(), WithStdout()},
			wantErr: "conflicting provider options",
		},
		{
			name:    "nil meter provider",
			opts:    []Option{WithMeterProvider(nil)},
			wantErr: "meter provider cannot be nil",
		},
		{
			name:    "empty service name",
			opts:    []Option{WithServiceName("")},
			wantErr: "service name cannot be empty",
		},
		{
			name:    "non-positive export interval",
			opts:    []Option{WithExportInterval(0)},
			wantErr: "export interval must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := New(tt.opts...)
			require.Error(t, err)
			assert.Nil(t, r)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNew_DefaultIsNoop(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)
	assert.Equal(t, NoopProvider, r.Provider())

	r.RecordRequest(t.Context(), OutcomeSuccess, 10, time.Millisecond)
	r.RecordPart(t.Context(), PartFile)
	r.RecordRejection(t.Context(), ReasonMaxParts)

	_, err = r.Handler()
	require.ErrorIs(t, err, ErrHandlerUnavailable)
	require.NoError(t, r.Shutdown(t.Context()))
}

func TestNilRecorder(t *testing.T) {
	t.Parallel()

	var r *Recorder
	assert.NotPanics(t, func() {
		r.RecordRequest(context.Background(), OutcomeError, 0, 0)
		r.RecordPart(context.Background(), PartField)
		r.RecordRejection(context.Background(), ReasonMaxUploadSize)
	})
	assert.Equal(t, NoopProvider, r.Provider())
	require.NoError(t, r.Shutdown(context.Background()))
	require.NoError(t, r.ForceFlush(context.Background()))
}

func TestRecorder_Counters(t *testing.T) {
	t.Parallel()

	r, reader := TestingRecorder(t)
	ctx := t.Context()

	r.RecordPart(ctx, PartFile)
	r.RecordPart(ctx, PartField)
	r.RecordPart(ctx, PartField)
	r.RecordRejection(ctx, ReasonMaxUploadSize)
	r.RecordRequest(ctx, OutcomeSuccess, 2048, 3*time.Millisecond)
	r.RecordRequest(ctx, OutcomeRejected, 0, time.Millisecond)

	assert.Equal(t, int64(3), CounterValue(t, reader, "multipart.parts"))
	assert.Equal(t, int64(1), CounterValue(t, reader, "multipart.rejections"))
	assert.Equal(t, int64(2), CounterValue(t, reader, "multipart.requests"))
	assert.Equal(t, int64(0), CounterValue(t, reader, "multipart.unknown"))
}

func TestRecorder_PartAttributes(t *testing.T) {
	t.Parallel()

	r, reader := TestingRecorder(t)
	r.RecordPart(t.Context(), PartFile)
	r.RecordPart(t.Context(), PartField)
	r.RecordPart(t.Context(), PartField)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))

	byKind := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		assert.Equal(t, meterName, sm.Scope.Name)
		for _, m := range sm.Metrics {
			if m.Name != "multipart.parts" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				kind, ok := dp.Attributes.Value(attribute.Key("kind"))
				require.True(t, ok)
				byKind[kind.AsString()] += dp.Value
			}
		}
	}

	assert.Equal(t, map[string]int64{"file": 1, "field": 2}, byKind)
}

func TestRecorder_UploadSizeHistogram(t *testing.T) {
	t.Parallel()

	r, reader := TestingRecorder(t)
	r.RecordRequest(t.Context(), OutcomeSuccess, 100, time.Millisecond)
	r.RecordRequest(t.Context(), OutcomeSuccess, 300, time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "multipart.upload.size" {
				continue
			}
			found = true
			hist, ok := m.Data.(metricdata.Histogram[int64])
			require.True(t, ok)
			require.Len(t, hist.DataPoints, 1)
			assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
			assert.Equal(t, int64(400), hist.DataPoints[0].Sum)
			assert.Equal(t, DefaultSizeBuckets, hist.DataPoints[0].Bounds)
		}
	}
	assert.True(t, found)
}

func TestRecorder_Prometheus(t *testing.T) {
	t.Parallel()

	r, err := New(WithPrometheus(), WithServiceName("uploadd-test"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Shutdown(context.Background()) })

	assert.Equal(t, PrometheusProvider, r.Provider())
	r.RecordRequest(t.Context(), OutcomeSuccess, 512, time.Millisecond)
	r.RecordRejection(t.Context(), ReasonMaxParts)

	handler, err := r.Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "multipart_requests")
	assert.Contains(t, body, "multipart_rejections")
	assert.Contains(t, body, `reason="max_parts"`)
}

func TestRecorder_CustomProviderNotShutDown(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	r, err := New(WithMeterProvider(mp))
	require.NoError(t, err)
	require.NoError(t, r.Shutdown(t.Context()))

	r.RecordPart(t.Context(), PartFile)
	assert.Equal(t, int64(1), CounterValue(t, reader, "multipart.parts"))
}

func TestRecorder_ShutdownIdempotent(t *testing.T) {
	t.Parallel()

	r, err := New(WithStdout(), WithExportInterval(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, StdoutProvider, r.Provider())

	require.NoError(t, r.Shutdown(t.Context()))
	require.NoError(t, r.Shutdown(t.Context()))
	require.NoError(t, r.ForceFlush(t.Context()))
}

func TestRecorder_OTLPConstructsLazily(t *testing.T) {
	t.Parallel()

	r, err := New(WithOTLP("http://127.0.0.1:1/v1/metrics"), WithExportInterval(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, OTLPProvider, r.Provider())

	ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
	defer cancel()
	_ = r.Shutdown(ctx)
}
