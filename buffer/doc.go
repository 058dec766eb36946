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

// Package buffer provides the bounded in-memory byte sink that backs every
// uploaded part.
//
// A [Buffer] is written sequentially while a multipart body is parsed, closed
// once the part ends, and read back afterwards. It never touches the
// filesystem: where a disk-backed upload stream would spill to a temporary file
// after a size threshold, a Buffer rejects the write instead. Callers size the
// threshold to the largest upload they are willing to accept.
//
// Basic usage:
//
//	buf := buffer.New(10 << 20) // 10MB
//	if _, err := io.Copy(buf, part); err != nil {
//	    if errors.Is(err, buffer.ErrThresholdExceeded) {
//	        // Reject the upload as too large
//	    }
//	    return err
//	}
//	buf.Close()
//	data := buf.Bytes()
//
// The generic threshold accounting lives in [ThresholdWriter], which can wrap
// any [io.Writer] and lets the caller decide what happens when the threshold
// would be crossed.
//
// A Buffer is owned by a single upload part and is not safe for concurrent use.
package buffer
