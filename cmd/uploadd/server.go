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

package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"rivaas.dev/multipart"
	rerrors "rivaas.dev/multipart/errors"
	"rivaas.dev/multipart/metrics"
)

type fileSummary struct {
	Field       string `json:"field"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`
}

type uploadSummary struct {
	RequestID string              `json:"request_id,omitempty"`
	Params    map[string][]string `json:"params"`
	Files     []fileSummary       `json:"files"`
}

func newRouter(res *multipart.Resolver, recorder *metrics.Recorder, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	if h, err := recorder.Handler(); err == nil {
		r.Method(http.MethodGet, "/metrics", h)
	}

	formatter := rerrors.NewRFC9457(res.ProblemBaseURL())
	r.With(multipart.Middleware(res, multipart.WithFormatter(formatter))).
		Post("/upload", uploadHandler(formatter, logger))

	return r
}

func uploadHandler(formatter rerrors.Formatter, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := multipart.FromContext(r.Context())
		if !ok {
			multipart.WriteError(w, r, formatter,
				rerrors.WithStatus(multipart.ErrNotMultipart, http.StatusUnsupportedMediaType))
			return
		}
		if err := req.Err(); err != nil {
			multipart.WriteError(w, r, formatter, err)
			return
		}

		summary := uploadSummary{
			RequestID: middleware.GetReqID(r.Context()),
			Params:    req.ParamMap(),
			Files:     []fileSummary{},
		}
		multi := req.MultiFileMap()
		for _, name := range req.FileNames() {
			for _, f := range multi[name] {
				summary.Files = append(summary.Files, fileSummary{
					Field:       f.Name(),
					Filename:    f.OriginalFilename(),
					ContentType: f.ContentType(),
					Size:        f.Size(),
				})
			}
		}

		logger.InfoContext(r.Context(), "upload received",
			"request_id", summary.RequestID,
			"params", len(summary.Params),
			"files", len(summary.Files),
		)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(summary); err != nil {
			logger.WarnContext(r.Context(), "failed to write upload summary", "error", err)
		}
	}
}
