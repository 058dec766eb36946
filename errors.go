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
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotMultipart is reported when a request without a multipart
	// content type is parsed.
	ErrNotMultipart = errors.New("multipart: request is not multipart")

	// ErrFileNotFound is returned when no file was uploaded under a field name.
	ErrFileNotFound = errors.New("multipart: file not found")

	// ErrTooManyParts is reported when a request carries more parts than allowed.
	ErrTooManyParts = errors.New("multipart: too many parts")

	// ErrUnsupported is returned by operations that need filesystem access.
	ErrUnsupported = fmt.Errorf("multipart: not possible without filesystem access: %w", errors.ErrUnsupported)
)

// MaxUploadSizeExceededError reports an upload larger than the configured
// maximum, either in total or for a single part.
type MaxUploadSizeExceededError struct {
	// MaxUploadSize is the configured limit in bytes.
	MaxUploadSize int64
	// Err is the underlying cause, if any.
	Err error
}

func (e *MaxUploadSizeExceededError) Error() string {
	msg := fmt.Sprintf("multipart: maximum upload size of %d bytes exceeded", e.MaxUploadSize)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MaxUploadSizeExceededError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns 413.
func (e *MaxUploadSizeExceededError) HTTPStatus() int {
	return http.StatusRequestEntityTooLarge
}

// Code returns "max_upload_size_exceeded".
func (e *MaxUploadSizeExceededError) Code() string {
	return "max_upload_size_exceeded"
}

// Details exposes the limit to problem responses.
func (e *MaxUploadSizeExceededError) Details() any {
	return map[string]int64{"max_upload_size": e.MaxUploadSize}
}

// Error reports a request that could not be parsed as multipart.
type Error struct {
	// Err is the underlying cause.
	Err error

	status int
}

func newError(status int, err error) *Error {
	return &Error{Err: err, status: status}
}

func (e *Error) Error() string {
	return "multipart: could not parse multipart request: " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns 400, or 413 when the request carried too many parts.
func (e *Error) HTTPStatus() int {
	if e.status == 0 {
		return http.StatusBadRequest
	}
	return e.status
}

// Code returns "multipart_error".
func (e *Error) Code() string {
	return "multipart_error"
}
