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
	"context"
	"errors"
	"net/http"

	rerrors "rivaas.dev/multipart/errors"
)

type contextKey struct{}

// NewContext returns a copy of ctx carrying req.
func NewContext(ctx context.Context, req *Request) context.Context {
	return context.WithValue(ctx, contextKey{}, req)
}

// FromContext returns the [Request] stored by [Middleware], if any.
func FromContext(ctx context.Context) (*Request, bool) {
	req, ok := ctx.Value(contextKey{}).(*Request)
	return req, ok
}

// MiddlewareOption configures [Middleware].
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	formatter rerrors.Formatter
}

// WithFormatter sets the formatter for resolver errors.
// The default is RFC 9457 problem details.
func WithFormatter(f rerrors.Formatter) MiddlewareOption {
	return func(c *middlewareConfig) {
		if f != nil {
			c.formatter = f
		}
	}
}

// Middleware resolves multipart requests before calling next. Other
// requests pass through untouched.
//
// The resolved [Request] is available to next through [FromContext]. If
// eager resolution fails, next is not called and the error is written with
// the formatter. Items are cleaned up after next returns.
//
// Example:
//
//	mux.Handle("/upload", multipart.Middleware(resolver)(uploadHandler))
func Middleware(res *Resolver, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		formatter: rerrors.NewRFC9457(res.problemBaseURL),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !res.IsMultipart(r) {
				next.ServeHTTP(w, r)
				return
			}

			req, err := res.Resolve(r)
			if err != nil {
				writeError(w, r, cfg.formatter, err, res)
				return
			}
			defer res.Cleanup(req)

			r = r.WithContext(NewContext(r.Context(), req))
			req.req = r
			next.ServeHTTP(w, r)
		})
	}
}

// WriteError writes err as an error response using formatter.
// Oversized uploads also close the connection, since the rest of the body
// was left unread.
func WriteError(w http.ResponseWriter, r *http.Request, formatter rerrors.Formatter, err error) {
	writeError(w, r, formatter, err, nil)
}

func writeError(w http.ResponseWriter, r *http.Request, formatter rerrors.Formatter, err error, res *Resolver) {
	resp := formatter.Format(r, err)

	var sizeErr *MaxUploadSizeExceededError
	if errors.As(err, &sizeErr) {
		if resp.Headers == nil {
			resp.Headers = http.Header{}
		}
		resp.Headers.Set("Connection", "close")
	}

	if werr := rerrors.Write(w, resp); werr != nil && res != nil {
		res.logger.Warn("failed to write multipart error response", "error", werr)
	}
}
