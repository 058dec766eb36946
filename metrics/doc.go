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

// Package metrics records OpenTelemetry metrics for multipart upload handling.
//
// A [Recorder] owns a set of instruments describing the resolver's work:
//
//   - multipart.requests: resolved requests, by outcome
//   - multipart.parts: parsed parts, by kind (file or field)
//   - multipart.upload.size: bytes read per request
//   - multipart.parse.duration: time spent parsing per request
//   - multipart.rejections: requests refused, by reason
//
// The exporter is chosen with an option. [WithPrometheus] keeps a private
// registry and exposes it through [Recorder.Handler]; [WithOTLP] and
// [WithStdout] push on an interval; [WithMeterProvider] uses a provider the
// caller manages. Without any of them the recorder is backed by a noop
// provider, so recording is always safe.
//
// Basic usage:
//
//	recorder, err := metrics.New(metrics.WithPrometheus())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer recorder.Shutdown(context.Background())
//
//	handler, _ := recorder.Handler()
//	http.Handle("/metrics", handler)
//
// A nil *Recorder is valid and records nothing.
package metrics
