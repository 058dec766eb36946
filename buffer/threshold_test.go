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

package buffer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdWriter(t *testing.T) {
	t.Parallel()

	errLimit := errors.New("limit")

	tests := []struct {
		name        string
		threshold   int64
		fn          ThresholdFunc
		writes      []string
		wantErr     error
		wantOut     string
		wantExceed  bool
		wantWritten int64
	}{
		{
			name:        "under threshold",
			threshold:   8,
			fn:          func(int64, int64) error { return errLimit },
			writes:      []string{"abc", "def"},
			wantOut:     "abcdef",
			wantWritten: 6,
		},
		{
			name:        "rejecting callback",
			threshold:   4,
			fn:          func(int64, int64) error { return errLimit },
			writes:      []string{"abc", "def"},
			wantErr:     errLimit,
			wantOut:     "abc",
			wantExceed:  true,
			wantWritten: 3,
		},
		{
			name:        "accepting callback lets writes through",
			threshold:   4,
			fn:          func(int64, int64) error { return nil },
			writes:      []string{"abc", "def", "ghi"},
			wantOut:     "abcdefghi",
			wantExceed:  true,
			wantWritten: 9,
		},
		{
			name:        "nil callback",
			threshold:   1,
			writes:      []string{"abc"},
			wantOut:     "abc",
			wantExceed:  true,
			wantWritten: 3,
		},
		{
			name:        "disabled threshold",
			threshold:   NoThreshold,
			fn:          func(int64, int64) error { return errLimit },
			writes:      []string{"abc", "def"},
			wantOut:     "abcdef",
			wantWritten: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			tw := NewThresholdWriter(&out, tt.threshold, tt.fn)

			var err error
			for _, w := range tt.writes {
				if _, err = tw.Write([]byte(w)); err != nil {
					break
				}
			}

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantOut, out.String())
			assert.Equal(t, tt.wantExceed, tw.Exceeded())
			assert.Equal(t, tt.wantWritten, tw.Written())
		})
	}
}

func TestThresholdWriter_CallbackArguments(t *testing.T) {
	t.Parallel()

	var gotWritten, gotPending int64
	calls := 0
	tw := NewThresholdWriter(&bytes.Buffer{}, 5, func(written, pending int64) error {
		calls++
		gotWritten, gotPending = written, pending
		return nil
	})

	_, err := tw.Write([]byte("abcd"))
	require.NoError(t, err)
	_, err = tw.Write([]byte("efg"))
	require.NoError(t, err)
	_, err = tw.Write([]byte("hij"))
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "callback fires once")
	assert.Equal(t, int64(4), gotWritten)
	assert.Equal(t, int64(3), gotPending)
}
