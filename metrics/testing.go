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
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// TestingRecorder creates a [Recorder] backed by a manual reader, for
// asserting on recorded values in tests. The provider is shut down on cleanup.
//
// Example:
//
//	recorder, reader := metrics.TestingRecorder(t)
//	recorder.RecordPart(ctx, metrics.PartFile)
//	assert.Equal(t, int64(1), metrics.CounterValue(t, reader, "multipart.parts"))
func TestingRecorder(tb testing.TB) (*Recorder, *sdkmetric.ManualReader) {
	tb.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	tb.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
	})

	r, err := New(WithMeterProvider(mp))
	require.NoError(tb, err)

	return r, reader
}

// CounterValue collects from reader and sums every data point of the named
// Int64 counter. It returns 0 when the instrument has not recorded anything.
func CounterValue(tb testing.TB, reader *sdkmetric.ManualReader, name string) int64 {
	tb.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(tb, reader.Collect(tb.Context(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(tb, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}

	return total
}
