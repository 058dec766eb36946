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
	"fmt"
	"io"
)

// errBodyTooLarge is returned by limitedReader once the limit is crossed.
var errBodyTooLarge = errors.New("request body exceeds the maximum upload size")

// limitedReader counts the bytes read from a request body and fails once
// more than limit bytes arrive. A negative limit only counts.
type limitedReader struct {
	reader   io.Reader
	limit    int64
	read     int64
	exceeded bool
}

func (lr *limitedReader) Read(p []byte) (int, error) {
	if lr.exceeded {
		return 0, errBodyTooLarge
	}
	if lr.limit < 0 {
		n, err := lr.reader.Read(p)
		lr.read += int64(n)
		return n, err
	}

	// Allow one byte past the limit so an oversized body is detected
	// rather than truncated.
	remaining := lr.limit + 1 - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := lr.reader.Read(p)
	lr.read += int64(n)
	if lr.read > lr.limit {
		lr.exceeded = true
		lr.read = lr.limit + 1
		return n - 1, fmt.Errorf("%w: more than %d bytes", errBodyTooLarge, lr.limit)
	}

	return n, err
}
