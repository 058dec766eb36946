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

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/textproto"
	"strings"

	"github.com/emersion/go-message/charset"

	"rivaas.dev/multipart/buffer"
)

// DefaultCharset is used to decode text content when the part does not
// declare a charset. Media subtypes of "text" default to ISO-8859-1 when
// received via HTTP.
const DefaultCharset = "ISO-8859-1"

// ErrUnsupported is returned by operations that need filesystem access.
var ErrUnsupported = fmt.Errorf("item: not possible without filesystem access: %w", errors.ErrUnsupported)

// Item is one part of a multipart request, buffered in memory.
//
// An Item is filled by a single parser goroutine and is not safe for
// concurrent writes. Reads after the writer is closed are safe.
type Item struct {
	fieldName   string
	contentType string
	formField   bool
	fileName    string
	threshold   int64
	headers     textproto.MIMEHeader

	buf *buffer.Buffer

	// cached holds the content once the buffer is closed.
	cached []byte
}

// New creates an Item.
//
// Parameters:
//   - fieldName: name of the form field
//   - contentType: content type sent by the client, or "" if not specified
//   - formField: true for a plain form field, false for a file upload
//   - fileName: original filename on the client, or "" if not specified
//   - threshold: maximum content size in bytes ([buffer.NoThreshold] for no limit)
func New(fieldName, contentType string, formField bool, fileName string, threshold int64) *Item {
	return &Item{
		fieldName:   fieldName,
		contentType: contentType,
		formField:   formField,
		fileName:    fileName,
		threshold:   threshold,
	}
}

// Writer returns the sink the part body is written to.
// The same writer is returned on every call; it is created on first use.
// Writes past the threshold fail with [buffer.ErrThresholdExceeded].
func (it *Item) Writer() io.WriteCloser {
	if it.buf == nil {
		it.buf = buffer.New(it.threshold)
	}
	return it.buf
}

// Bytes returns a copy of the content of the item.
// An item that was never written is empty.
func (it *Item) Bytes() []byte {
	return bytes.Clone(it.content())
}

// content returns the stored bytes without copying them.
// Content of a closed item is cached.
func (it *Item) content() []byte {
	if it.cached != nil {
		return it.cached
	}
	if it.buf == nil {
		return []byte{}
	}

	data := it.buf.Bytes()
	if data == nil {
		data = []byte{}
	}
	if it.buf.Closed() {
		it.cached = data
	}

	return data
}

// Open returns a reader over the content of the item.
func (it *Item) Open() io.ReadCloser {
	return io.NopCloser(bytes.NewReader(it.content()))
}

// Size returns the content size in bytes.
func (it *Item) Size() int64 {
	if it.cached != nil {
		return int64(len(it.cached))
	}
	if it.buf == nil {
		return 0
	}
	return int64(it.buf.Len())
}

// Charset returns the lowercased charset parameter of the content type,
// or "" if none was sent.
func (it *Item) Charset() string {
	if it.contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(it.contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(params["charset"])
}

// TextWithCharset decodes the content using the named charset.
func (it *Item) TextWithCharset(cs string) (string, error) {
	r, err := charset.Reader(cs, bytes.NewReader(it.content()))
	if err != nil {
		return "", fmt.Errorf("item: decode field %q: %w", it.fieldName, err)
	}

	text, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("item: decode field %q: %w", it.fieldName, err)
	}

	return string(text), nil
}

// Text decodes the content using the declared charset, or [DefaultCharset]
// when none was declared. If the charset is not supported the raw bytes are
// returned as is.
func (it *Item) Text() string {
	cs := it.Charset()
	if cs == "" {
		cs = DefaultCharset
	}

	text, err := it.TextWithCharset(cs)
	if err != nil {
		return string(it.content())
	}
	return text
}

// IsInMemory reports whether the content is held in memory. It is always true.
func (it *Item) IsInMemory() bool {
	return true
}

// WriteFile always fails with [ErrUnsupported].
func (it *Item) WriteFile(path string) error {
	return fmt.Errorf("%w: write %q to %s", ErrUnsupported, it.fieldName, path)
}

// Delete releases the item. Content lives on the heap, so there is nothing to remove.
func (it *Item) Delete() {}

// FieldName returns the name of the form field.
func (it *Item) FieldName() string {
	return it.fieldName
}

// SetFieldName changes the name used to reference the item.
func (it *Item) SetFieldName(name string) {
	it.fieldName = name
}

// IsFormField reports whether the item is a plain form field rather than a file upload.
func (it *Item) IsFormField() bool {
	return it.formField
}

// SetFormField changes whether the item is treated as a plain form field.
func (it *Item) SetFormField(formField bool) {
	it.formField = formField
}

// Name returns the original filename sent by the client, or "" for form fields.
func (it *Item) Name() string {
	return it.fileName
}

// ContentType returns the content type sent by the client, or "".
func (it *Item) ContentType() string {
	return it.contentType
}

// Threshold returns the maximum content size of the item.
func (it *Item) Threshold() int64 {
	return it.threshold
}

// Headers returns the part headers, or nil if none were set.
func (it *Item) Headers() textproto.MIMEHeader {
	return it.headers
}

// SetHeaders sets the part headers.
func (it *Item) SetHeaders(h textproto.MIMEHeader) {
	it.headers = h
}

// String describes the item for logs.
func (it *Item) String() string {
	return fmt.Sprintf("name=%s, size=%dbytes, isFormField=%t, FieldName=%s",
		it.fileName, it.Size(), it.formField, it.fieldName)
}
