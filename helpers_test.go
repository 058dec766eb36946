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
	"fmt"
	stdmultipart "mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
)

// testPart describes one part of a generated multipart body.
type testPart struct {
	field       string
	filename    string
	file        bool
	contentType string
	body        []byte
}

func field(name, value string) testPart {
	return testPart{field: name, body: []byte(value)}
}

func fileUpload(name, filename, contentType string, body []byte) testPart {
	return testPart{field: name, filename: filename, file: true, contentType: contentType, body: body}
}

// buildBody encodes parts and returns the body and its content type.
func buildBody(tb testing.TB, parts ...testPart) (*bytes.Buffer, string) {
	tb.Helper()

	var buf bytes.Buffer
	w := stdmultipart.NewWriter(&buf)
	for _, p := range parts {
		h := textproto.MIMEHeader{}
		cd := fmt.Sprintf(`form-data; name="%s"`, p.field)
		if p.file {
			cd += fmt.Sprintf(`; filename="%s"`, p.filename)
		}
		h.Set("Content-Disposition", cd)
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}

		pw, err := w.CreatePart(h)
		require.NoError(tb, err)
		_, err = pw.Write(p.body)
		require.NoError(tb, err)
	}
	require.NoError(tb, w.Close())

	return &buf, w.FormDataContentType()
}

// newUploadRequest builds a POST request carrying parts.
func newUploadRequest(tb testing.TB, parts ...testPart) *http.Request {
	tb.Helper()

	body, ct := buildBody(tb, parts...)
	r := httptest.NewRequest(http.MethodPost, "/upload", body)
	r.Header.Set("Content-Type", ct)
	return r
}
