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

package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	rerrors "rivaas.dev/multipart/errors"
)

// ExampleRFC9457 demonstrates formatting an upload error as Problem Details.
func ExampleRFC9457() {
	formatter := &rerrors.RFC9457{
		BaseURL:        "https://api.example.com/problems",
		DisableErrorID: true,
	}

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	err := rerrors.WithStatus(errors.New("request is not multipart"), http.StatusUnsupportedMediaType)
	resp := formatter.Format(req, err)

	fmt.Println(resp.Status)
	fmt.Println(resp.ContentType)
	// Output:
	// 415
	// application/problem+json; charset=utf-8
}

// ExampleSimple demonstrates the flat JSON format.
func ExampleSimple() {
	rec := httptest.NewRecorder()
	resp := rerrors.NewSimple().Format(nil, errors.New("malformed part"))
	_ = rerrors.Write(rec, resp)

	fmt.Println(rec.Code)
	fmt.Print(rec.Body.String())
	// Output:
	// 500
	// {"error":"malformed part"}
}
