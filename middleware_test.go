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
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "rivaas.dev/multipart/errors"
)

func TestMiddleware_ResolvesIntoContext(t *testing.T) {
	t.Parallel()

	res := MustNew()

	var called bool
	h := Middleware(res)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true

		req, ok := FromContext(r.Context())
		require.True(t, ok)
		assert.Same(t, r, req.HTTPRequest())
		assert.Equal(t, "1", req.Param("a"))

		f, err := req.File("f")
		require.NoError(t, err)
		_, _ = w.Write(f.Bytes())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, newUploadRequest(t, field("a", "1"), fileUpload("f", "f.txt", "", []byte("content"))))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "content", w.Body.String())
}

func TestMiddleware_PassesThroughNonMultipart(t *testing.T) {
	t.Parallel()

	h := Middleware(MustNew())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := FromContext(r.Context())
		assert.False(t, ok)
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMiddleware_RejectsOversizedUpload(t *testing.T) {
	t.Parallel()

	res := MustNew(WithMaxUploadSize(64), WithProblemBaseURL("https://errors.example.com"))
	h := Middleware(res)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler must not be called")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, newUploadRequest(t, fileUpload("f", "big.bin", "", bytes.Repeat([]byte("x"), 256))))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "close", w.Header().Get("Connection"))
	assert.Equal(t, "application/problem+json; charset=utf-8", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "https://errors.example.com/max_upload_size_exceeded", body["type"])
	assert.Equal(t, "max_upload_size_exceeded", body["code"])
	assert.InDelta(t, 413, body["status"], 0)
	assert.Equal(t, "/upload", body["instance"])
	assert.Equal(t, map[string]any{"max_upload_size": float64(64)}, body["errors"])
}

func TestMiddleware_MalformedWithSimpleFormatter(t *testing.T) {
	t.Parallel()

	h := Middleware(MustNew(), WithFormatter(rerrors.NewSimple()))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler must not be called")
	}))

	r := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("--xyz\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\nvalue"))
	r.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get("Connection"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "multipart_error", body["code"])
	assert.Contains(t, body["error"], "could not parse multipart request")
}

func TestMiddleware_LazyErrorsReachHandler(t *testing.T) {
	t.Parallel()

	res := MustNew(WithResolveLazily(true), WithMaxUploadSize(32))
	h := Middleware(res)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, ok := FromContext(r.Context())
		require.True(t, ok)

		if err := req.Err(); err != nil {
			WriteError(w, r, rerrors.NewSimple(), err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, newUploadRequest(t, fileUpload("f", "big.bin", "", bytes.Repeat([]byte("x"), 128))))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "close", w.Header().Get("Connection"))
}

func TestMiddleware_LazyBodyUnreadWithoutAccess(t *testing.T) {
	t.Parallel()

	res := MustNew(WithResolveLazily(true))
	h := Middleware(res)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, newUploadRequest(t, field("a", "1")))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWriteError_UnknownError(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/upload", nil)
	w := httptest.NewRecorder()

	WriteError(w, r, rerrors.NewSimple(), errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "boom")
}
