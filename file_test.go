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

package multipart

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/multipart/buffer"
	"rivaas.dev/multipart/item"
)

func newTestFile(tb testing.TB, fileName string, content []byte) *File {
	tb.Helper()

	it := item.New("upload", "text/plain", false, fileName, buffer.NoThreshold)
	w := it.Writer()
	_, err := w.Write(content)
	require.NoError(tb, err)
	require.NoError(tb, w.Close())

	return newFile(it)
}

func TestFile_OriginalFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{"plain name", "photo.jpg", "photo.jpg"},
		{"unix path", "/home/user/photo.jpg", "photo.jpg"},
		{"windows path", `C:\Users\user\photo.jpg`, "photo.jpg"},
		{"unix separator wins", `C:\dir/sub\photo.jpg`, `sub\photo.jpg`},
		{"trailing slash", "dir/", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newTestFile(t, tt.fileName, nil)
			assert.Equal(t, tt.want, f.OriginalFilename())
		})
	}
}

func TestFile_Content(t *testing.T) {
	t.Parallel()

	f := newTestFile(t, "a.txt", []byte("hello"))

	assert.Equal(t, "upload", f.Name())
	assert.Equal(t, "text/plain", f.ContentType())
	assert.False(t, f.IsEmpty())
	assert.Equal(t, int64(5), f.Size())
	assert.Equal(t, []byte("hello"), f.Bytes())
	assert.Equal(t, "in memory", f.StorageDescription())

	rc := f.Open()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestFile_BytesCannotModifyContent(t *testing.T) {
	t.Parallel()

	f := newTestFile(t, "a.txt", []byte("abc"))

	b := f.Bytes()
	b[0] = 'Z'

	assert.Equal(t, []byte("abc"), f.Bytes())
	assert.Equal(t, int64(3), f.Size())
}

func TestFile_IsEmpty(t *testing.T) {
	t.Parallel()

	f := newTestFile(t, "empty.txt", nil)
	assert.True(t, f.IsEmpty())
	assert.NotNil(t, f.Bytes())
	assert.Empty(t, f.Bytes())
}

func TestFile_TransferTo(t *testing.T) {
	t.Parallel()

	f := newTestFile(t, "a.txt", []byte("hello"))

	err := f.TransferTo("/tmp/a.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.True(t, errors.Is(err, errors.ErrUnsupported))
	assert.Contains(t, err.Error(), "a.txt")
}
