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
	"fmt"
	"io"
	"strings"

	"rivaas.dev/multipart/item"
)

// File is an uploaded file held in memory.
//
// Example:
//
//	file, err := req.File("avatar")
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%s: %d bytes (%s)\n", file.OriginalFilename(), file.Size(), file.ContentType())
type File struct {
	item *item.Item
	size int64
}

func newFile(it *item.Item) *File {
	return &File{item: it, size: it.Size()}
}

// Name returns the form field name the file was uploaded under.
func (f *File) Name() string {
	return f.item.FieldName()
}

// OriginalFilename returns the client's filename without any directory
// part. Unix separators are looked for first, then Windows separators.
func (f *File) OriginalFilename() string {
	name := f.item.Name()

	pos := strings.LastIndex(name, "/")
	if pos == -1 {
		pos = strings.LastIndex(name, `\`)
	}
	if pos != -1 {
		return name[pos+1:]
	}

	return name
}

// ContentType returns the content type sent by the client, or "".
func (f *File) ContentType() string {
	return f.item.ContentType()
}

// IsEmpty reports whether the file has no content.
func (f *File) IsEmpty() bool {
	return f.size == 0
}

// Size returns the file size in bytes.
func (f *File) Size() int64 {
	return f.size
}

// Bytes returns a copy of the file content. It is never nil.
func (f *File) Bytes() []byte {
	return f.item.Bytes()
}

// Open returns a reader over the file content.
func (f *File) Open() io.ReadCloser {
	return f.item.Open()
}

// TransferTo always fails with [ErrUnsupported]; files are never written to disk.
func (f *File) TransferTo(path string) error {
	return fmt.Errorf("%w: transfer %q to %s", ErrUnsupported, f.OriginalFilename(), path)
}

// StorageDescription describes where the content is kept: always "in memory".
func (f *File) StorageDescription() string {
	return "in memory"
}

// Item returns the underlying item.
func (f *File) Item() *item.Item {
	return f.item
}
