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

package item

import "rivaas.dev/multipart/buffer"

// DefaultSizeThreshold is the item threshold used when a [Factory] is created
// with a zero threshold.
const DefaultSizeThreshold int64 = 10 * 1024

// Factory creates items that share one size threshold.
// A Factory is immutable and safe for concurrent use.
type Factory struct {
	threshold int64
}

// NewFactory creates a Factory.
// A zero threshold selects [DefaultSizeThreshold]; a negative threshold
// disables the limit.
func NewFactory(threshold int64) *Factory {
	if threshold == 0 {
		threshold = DefaultSizeThreshold
	}
	if threshold < 0 {
		threshold = buffer.NoThreshold
	}

	return &Factory{threshold: threshold}
}

// SizeThreshold returns the threshold given to new items.
func (f *Factory) SizeThreshold() int64 {
	return f.threshold
}

// CreateItem creates an empty item for a new part.
func (f *Factory) CreateItem(fieldName, contentType string, formField bool, fileName string) *Item {
	return New(fieldName, contentType, formField, fileName, f.threshold)
}
