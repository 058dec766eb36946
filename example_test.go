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

package multipart_test

import (
	"bytes"
	"fmt"
	"io"
	stdmultipart "mime/multipart"
	"net/http"
	"net/http/httptest"

	"rivaas.dev/multipart"
)

func newExampleRequest() *http.Request {
	var body bytes.Buffer
	w := stdmultipart.NewWriter(&body)
	_ = w.WriteField("title", "holiday")
	fw, _ := w.CreateFormFile("photo", `C:\pictures\beach.jpg`)
	_, _ = io.WriteString(fw, "jpeg bytes")
	_ = w.Close()

	r := httptest.NewRequest(http.MethodPost, "/upload", &body)
	r.Header.Set("Content-Type", w.FormDataContentType())
	return r
}

func ExampleResolver_Resolve() {
	res := multipart.MustNew(multipart.WithMaxUploadSize(1 << 20))

	req, err := res.Resolve(newExampleRequest())
	if err != nil {
		fmt.Println(err)
		return
	}
	defer res.Cleanup(req)

	photo, _ := req.File("photo")
	fmt.Println(req.Param("title"))
	fmt.Println(photo.OriginalFilename(), photo.Size())
	// Output:
	// holiday
	// beach.jpg 10
}

func ExampleMiddleware() {
	res := multipart.MustNew()

	handler := multipart.Middleware(res)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, _ := multipart.FromContext(r.Context())
		fmt.Fprintf(w, "files: %v", req.FileNames())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newExampleRequest())
	fmt.Println(w.Body.String())
	// Output: files: [photo]
}
