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

package item

import (
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/multipart/buffer"
)

func TestItem_SnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		item    *Item
		content string
		headers textproto.MIMEHeader
	}{
		{
			name:    "file part",
			item:    New("avatar", "image/png", false, "me.png", 1024),
			content: "\x89PNG\r\n",
			headers: textproto.MIMEHeader{"Content-Disposition": {`form-data; name="avatar"; filename="me.png"`}},
		},
		{
			name:    "form field",
			item:    New("title", "", true, "", 64),
			content: "hello",
		},
		{
			name: "never written",
			item: New("blank", "", true, "", 64),
		},
		{
			name:    "unbounded",
			item:    New("log", "text/plain", false, "log.txt", buffer.NoThreshold),
			content: strings.Repeat("line\n", 1000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if tt.content != "" {
				writeItem(t, tt.item, tt.content)
			}
			tt.item.SetHeaders(tt.headers)

			data, err := tt.item.MarshalBinary()
			require.NoError(t, err)

			restored, err := Restore(data)
			require.NoError(t, err)

			assert.Equal(t, tt.item.FieldName(), restored.FieldName())
			assert.Equal(t, tt.item.ContentType(), restored.ContentType())
			assert.Equal(t, tt.item.IsFormField(), restored.IsFormField())
			assert.Equal(t, tt.item.Name(), restored.Name())
			assert.Equal(t, tt.item.Threshold(), restored.Threshold())
			assert.Equal(t, tt.headers, restored.Headers())
			assert.Equal(t, tt.content, string(restored.Bytes()))
		})
	}
}

func TestItem_RestoreIsClosed(t *testing.T) {
	t.Parallel()

	it := New("f", "", true, "", 16)
	writeItem(t, it, "abc")

	data, err := it.MarshalBinary()
	require.NoError(t, err)

	restored, err := Restore(data)
	require.NoError(t, err)

	_, err = restored.Writer().Write([]byte("more"))
	require.ErrorIs(t, err, buffer.ErrClosed)
}

func TestItem_RestoreEnforcesThreshold(t *testing.T) {
	t.Parallel()

	// An unbounded item re-labelled with a small threshold cannot be replayed.
	it := New("f", "", true, "", buffer.NoThreshold)
	writeItem(t, it, "0123456789")
	it.threshold = 4

	data, err := it.MarshalBinary()
	require.NoError(t, err)

	_, err = Restore(data)
	require.ErrorIs(t, err, buffer.ErrThresholdExceeded)
}

func TestItem_RestoreInvalidData(t *testing.T) {
	t.Parallel()

	_, err := Restore([]byte{0xc1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode snapshot")
}

func TestFactory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		threshold int64
		want      int64
	}{
		{name: "zero selects default", threshold: 0, want: DefaultSizeThreshold},
		{name: "explicit", threshold: 2048, want: 2048},
		{name: "negative disables", threshold: -5, want: buffer.NoThreshold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := NewFactory(tt.threshold)
			assert.Equal(t, tt.want, f.SizeThreshold())

			it := f.CreateItem("field", "text/plain", true, "")
			assert.Equal(t, tt.want, it.Threshold())
			assert.Equal(t, "field", it.FieldName())
			assert.True(t, it.IsFormField())
		})
	}
}
