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

package buffer

import "io"

// NoThreshold disables the threshold check of a [ThresholdWriter] or [Buffer].
const NoThreshold int64 = -1

// ThresholdFunc is called by [ThresholdWriter] when a write of pending bytes
// would take the total past the threshold. written is the number of bytes
// accepted so far.
//
// Returning nil lets the write proceed. Returning an error rejects the write
// and every write after it with the same error.
type ThresholdFunc func(written, pending int64) error

// ThresholdWriter counts the bytes written to an underlying [io.Writer] and
// consults a [ThresholdFunc] the first time a write would cross the threshold.
//
// Example:
//
//	var dst bytes.Buffer
//	tw := buffer.NewThresholdWriter(&dst, 1024, func(written, pending int64) error {
//	    return fmt.Errorf("limit reached after %d bytes", written)
//	})
type ThresholdWriter struct {
	w         io.Writer
	threshold int64
	written   int64
	exceeded  bool
	onReached ThresholdFunc

	// err is the sticky rejection returned by onReached.
	err error
}

// NewThresholdWriter returns a ThresholdWriter writing to w.
// A negative threshold disables the check. A nil fn accepts every write.
func NewThresholdWriter(w io.Writer, threshold int64, fn ThresholdFunc) *ThresholdWriter {
	return &ThresholdWriter{
		w:         w,
		threshold: threshold,
		onReached: fn,
	}
}

// Write checks the threshold and then forwards p to the underlying writer.
// A rejected write forwards nothing and returns 0.
func (tw *ThresholdWriter) Write(p []byte) (int, error) {
	if err := tw.check(int64(len(p))); err != nil {
		return 0, err
	}

	n, err := tw.w.Write(p)
	tw.written += int64(n)

	return n, err
}

// check runs the threshold callback if writing pending more bytes crosses
// the threshold for the first time.
func (tw *ThresholdWriter) check(pending int64) error {
	if tw.err != nil {
		return tw.err
	}
	if tw.exceeded || tw.threshold < 0 {
		return nil
	}
	if tw.written+pending <= tw.threshold {
		return nil
	}

	tw.exceeded = true
	if tw.onReached == nil {
		return nil
	}
	tw.err = tw.onReached(tw.written, pending)

	return tw.err
}

// Written returns the number of bytes accepted so far.
func (tw *ThresholdWriter) Written() int64 {
	return tw.written
}

// Threshold returns the configured threshold.
func (tw *ThresholdWriter) Threshold() int64 {
	return tw.threshold
}

// Exceeded reports whether a write has crossed the threshold.
func (tw *ThresholdWriter) Exceeded() bool {
	return tw.exceeded
}
