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

// Package errors turns upload and resolver errors into HTTP error responses.
//
// A [Formatter] maps an error to a [Response] (status, content type, body).
// Two formats are provided:
//   - [RFC9457]: RFC 9457 Problem Details (application/problem+json)
//   - [Simple]: a flat JSON object (application/json)
//
// Errors steer the mapping through optional interfaces:
//
//   - [ErrorType]: declares the HTTP status (for example 413 for an upload
//     larger than the configured maximum)
//   - [ErrorCode]: a machine-readable code used as the problem type slug
//   - [ErrorDetails]: structured details such as the configured limit
//
// Example:
//
//	formatter := errors.NewRFC9457("https://api.example.com/problems")
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    req, err := resolver.Resolve(r)
//	    if err != nil {
//	        _ = errors.Write(w, formatter.Format(r, err))
//	        return
//	    }
//	    // ...
//	}
package errors
