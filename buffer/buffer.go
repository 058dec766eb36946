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

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Static errors for buffer operations.
var (
	// ErrThresholdExceeded is returned when a write would take a Buffer past its
	// threshold. It matches [errors.ErrUnsupported]: spilling to secondary
	// storage is not available, so the only remedy is a larger threshold.
	ErrThresholdExceeded = fmt.Errorf("buffer: threshold exceeded: %w", errors.ErrUnsupported)

	// ErrNotClosed is returned by [Buffer.WriteTo] before [Buffer.Close].
	ErrNotClosed = errors.New("buffer: not closed")

	// ErrClosed is returned when writing to a closed Buffer.
	ErrClosed = errors.New("buffer: write after close")
)

// Buffer is an append-only, in-memory byte sink with a hard size threshold.
//
// Buffer implements [io.WriteCloser] and [io.WriterTo].
type Buffer struct {
	mem    bytes.Buffer
	tw     *ThresholdWriter
	closed bool
}

// New creates an empty Buffer that holds at most threshold bytes.
// Use [NoThreshold] for an unbounded Buffer.
func New(threshold int64) *Buffer {
	b := &Buffer{}
	b.tw = NewThresholdWriter(&b.mem, threshold, b.thresholdReached)

	return b
}

// thresholdReached rejects the write; there is no disk to spill to.
func (b *Buffer) thresholdReached(written, pending int64) error {
	return fmt.Errorf("%w: %d bytes buffered, %d more would exceed the %d-byte limit (raise the max upload size)",
		ErrThresholdExceeded, written, pending, b.tw.Threshold())
}

// Write appends p to the buffer.
//
// If the write would take the buffer past its threshold nothing is appended
// and an error matching [ErrThresholdExceeded] is returned. The buffer stays
// rejected after that: later writes fail with the same error.
func (b *Buffer) Write(p []byte) (int, error) {
	if b.closed {
		return 0, ErrClosed
	}

	return b.tw.Write(p)
}

// Close marks the buffer complete. Calling Close more than once is harmless.
func (b *Buffer) Close() error {
	b.closed = true
	return nil
}

// Bytes returns a copy of everything written so far.
// It may be called before Close to inspect a partially written buffer.
func (b *Buffer) Bytes() []byte {
	return bytes.Clone(b.mem.Bytes())
}

// WriteTo copies the buffered bytes to w without consuming them.
// It returns [ErrNotClosed] if the buffer has not been closed yet.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	if !b.closed {
		return 0, ErrNotClosed
	}

	data := b.mem.Bytes()
	n, err := w.Write(data)
	if err != nil {
		return int64(n), err
	}
	if n != len(data) {
		return int64(n), io.ErrShortWrite
	}

	return int64(n), nil
}

// IsInMemory reports whether the content is held in memory. It is always true.
func (b *Buffer) IsInMemory() bool {
	return true
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	return b.mem.Len()
}

// Threshold returns the configured threshold.
func (b *Buffer) Threshold() int64 {
	return b.tw.Threshold()
}

// Closed reports whether Close has been called.
func (b *Buffer) Closed() bool {
	return b.closed
}

// Exceeded reports whether a write has been rejected for crossing the threshold.
func (b *Buffer) Exceeded() bool {
	return b.tw.Exceeded()
}
