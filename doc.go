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

// Package multipart resolves multipart/form-data requests into in-memory
// files and parameters.
//
// Every part is buffered by an [item.Item] whose capacity is bounded by the
// configured maximum upload size. Nothing is written to disk: an upload that
// does not fit is refused with a [*MaxUploadSizeExceededError] instead of
// being spilled to a temporary file, and operations that would need a
// filesystem ([File.TransferTo], [item.Item.WriteFile]) report
// [errors.ErrUnsupported].
//
// # Resolving requests
//
// A [Resolver] is configured once and shared between requests:
//
//	resolver, err := multipart.New(
//	    multipart.WithMaxUploadSize(5 << 20),
//	    multipart.WithDefaultEncoding("UTF-8"),
//	)
//
//	func upload(w http.ResponseWriter, r *http.Request) {
//	    req, err := resolver.Resolve(r)
//	    if err != nil {
//	        // *MaxUploadSizeExceededError or *Error
//	    }
//	    defer resolver.Cleanup(req)
//
//	    avatar, err := req.File("avatar")
//	    title := req.Param("title")
//	}
//
// By default the body is parsed inside Resolve. With [WithResolveLazily]
// parsing is deferred until the first file or parameter access, and parse
// errors are reported by the accessors and [Request.Err].
//
// # Encoding
//
// Form field values are decoded with the charset named in the request's
// Content-Type, falling back to the resolver's default encoding
// (ISO-8859-1 unless configured). A value whose encoding is not supported
// is decoded with the part's own charset instead and a warning is logged.
//
// # Middleware
//
// [Middleware] resolves multipart requests for an [http.Handler], stores the
// [*Request] in the context ([FromContext]), answers resolver errors with a
// problem response and cleans up once the handler returns.
package multipart
