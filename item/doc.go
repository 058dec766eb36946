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

// Package item models a single part of a multipart/form-data request whose
// content is held entirely in memory.
//
// An [Item] is created by a [Factory] when the parser reaches a new part. The
// parser writes the part body through [Item.Writer] and closes it; request
// handling code then reads the content back with [Item.Bytes], [Item.Open] or
// [Item.Text].
//
// Items never touch the filesystem. Operations that would write to disk, such
// as [Item.WriteFile], fail with [ErrUnsupported].
//
// # Persistence
//
// Items implement [encoding.BinaryMarshaler] and [encoding.BinaryUnmarshaler].
// Marshaling drains the item into a plain snapshot of its metadata and content
// bytes; unmarshaling builds a fresh buffer and replays the content through it,
// so a restored item obeys its threshold exactly like a freshly parsed one.
//
//	data, err := it.MarshalBinary()
//	// ... store or send data ...
//	restored, err := item.Restore(data)
package item
