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
	"fmt"
	"io"
	"log/slog"
	"mime"
	stdmultipart "mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/emersion/go-message/charset"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/multipart/buffer"
	"rivaas.dev/multipart/config"
	"rivaas.dev/multipart/item"
	"rivaas.dev/multipart/metrics"
)

const (
	// DefaultEncoding decodes form fields of requests that name no charset.
	DefaultEncoding = item.DefaultCharset

	// DefaultMaxParts is the default cap on parts per request.
	DefaultMaxParts = 1000

	tracerName = "rivaas.dev/multipart"
	spanName   = "multipart.parse"
)

// Resolver turns multipart requests into [Request] values.
// It is immutable after [New] and safe for concurrent use.
type Resolver struct {
	maxUploadSize   int64
	defaultEncoding string
	resolveLazily   bool
	maxParts        int
	problemBaseURL  string

	factory        *item.Factory
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer
	recorder       *metrics.Recorder

	validationErrors []error
}

// New creates a [Resolver].
//
// Example:
//
//	resolver, err := multipart.New(
//	    multipart.WithMaxUploadSize(1 << 20),
//	    multipart.WithLogger(logger),
//	)
func New(opts ...Option) (*Resolver, error) {
	res := &Resolver{
		maxUploadSize:   -1,
		defaultEncoding: DefaultEncoding,
		maxParts:        DefaultMaxParts,
		logger:          slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(res)
	}

	if len(res.validationErrors) > 0 {
		return nil, fmt.Errorf("multipart: invalid configuration: %w", errors.Join(res.validationErrors...))
	}

	if res.tracerProvider == nil {
		res.tracerProvider = otel.GetTracerProvider()
	}
	res.tracer = res.tracerProvider.Tracer(tracerName)
	res.factory = item.NewFactory(res.maxUploadSize)

	return res, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Resolver {
	res, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return res
}

// NewFromSettings creates a [Resolver] from loaded settings. Zero fields
// take their defaults. opts are applied after the settings.
func NewFromSettings(s config.Settings, opts ...Option) (*Resolver, error) {
	defaults := config.DefaultSettings()
	if s.MaxUploadSize == 0 {
		s.MaxUploadSize = defaults.MaxUploadSize
	}
	if s.DefaultEncoding == "" {
		s.DefaultEncoding = defaults.DefaultEncoding
	}
	if s.MaxParts == 0 {
		s.MaxParts = defaults.MaxParts
	}

	base := []Option{
		WithMaxUploadSize(s.MaxUploadSize),
		WithDefaultEncoding(s.DefaultEncoding),
		WithResolveLazily(s.ResolveLazily),
		WithMaxParts(s.MaxParts),
		WithProblemBaseURL(s.ProblemBaseURL),
	}

	return New(append(base, opts...)...)
}

// MaxUploadSize returns the size limit in bytes, or -1 for none.
func (res *Resolver) MaxUploadSize() int64 { return res.maxUploadSize }

// DefaultEncoding returns the fallback encoding for form fields.
func (res *Resolver) DefaultEncoding() string { return res.defaultEncoding }

// ResolveLazily reports whether parsing is deferred to first access.
func (res *Resolver) ResolveLazily() bool { return res.resolveLazily }

// MaxParts returns the cap on parts per request.
func (res *Resolver) MaxParts() int { return res.maxParts }

// ProblemBaseURL returns the prefix of problem type URIs in error responses.
func (res *Resolver) ProblemBaseURL() string { return res.problemBaseURL }

// Factory returns the item factory. Its threshold equals the max upload size.
func (res *Resolver) Factory() *item.Factory { return res.factory }

// IsMultipart reports whether r is a POST, PUT or PATCH with a multipart content type.
func IsMultipart(r *http.Request) bool {
	if r == nil {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return false
	}
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/")
}

// IsMultipart reports whether r is a multipart request; see [IsMultipart].
func (res *Resolver) IsMultipart(r *http.Request) bool {
	return IsMultipart(r)
}

// Resolve wraps r in a [Request].
//
// Unless the resolver is lazy, the body is parsed now and parse errors are
// returned: [*MaxUploadSizeExceededError] when the upload is too large,
// [*Error] otherwise.
func (res *Resolver) Resolve(r *http.Request) (*Request, error) {
	req := &Request{req: r, resolver: res}
	if res.resolveLazily {
		return req, nil
	}

	if _, err := req.resolve(); err != nil {
		return nil, err
	}
	return req, nil
}

// Parse reads every part of r into memory and classifies the parts into
// files and parameters.
func (res *Resolver) Parse(r *http.Request) (*Result, error) {
	ctx, span := res.tracer.Start(r.Context(), spanName,
		trace.WithAttributes(attribute.Int64("multipart.max_upload_size", res.maxUploadSize)))
	defer span.End()

	start := time.Now()
	encoding := res.determineEncoding(r)
	span.SetAttributes(attribute.String("multipart.encoding", encoding))

	var src io.Reader = http.NoBody
	if r.Body != nil {
		src = r.Body
	}
	body := &limitedReader{reader: src, limit: res.maxUploadSize}

	items, err := res.readItems(ctx, r, body, encoding)
	span.SetAttributes(
		attribute.Int("multipart.parts", len(items)),
		attribute.Int64("multipart.bytes", body.read),
	)
	if err != nil {
		res.recordFailure(ctx, err, body.read, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := res.ParseItems(items, encoding)

	span.SetAttributes(attribute.Int("multipart.files", len(result.fileNames)))
	span.SetStatus(codes.Ok, "")
	res.recorder.RecordRequest(ctx, metrics.OutcomeSuccess, body.read, time.Since(start))

	return result, nil
}

// determineEncoding returns the request's charset, else the default encoding.
func (res *Resolver) determineEncoding(r *http.Request) string {
	if _, params, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
		if cs := params["charset"]; cs != "" {
			return cs
		}
	}
	return res.defaultEncoding
}

func (res *Resolver) readItems(ctx context.Context, r *http.Request, body *limitedReader, encoding string) ([]*item.Item, error) {
	boundary, err := boundaryOf(r)
	if err != nil {
		return nil, newError(0, err)
	}

	if res.maxUploadSize >= 0 && r.ContentLength > res.maxUploadSize {
		return nil, &MaxUploadSizeExceededError{
			MaxUploadSize: res.maxUploadSize,
			Err:           fmt.Errorf("%w: content length is %d bytes", errBodyTooLarge, r.ContentLength),
		}
	}

	mr := stdmultipart.NewReader(body, boundary)
	var (
		items []*item.Item
		parts int
	)

	for {
		part, err := mr.NextRawPart()
		if err == io.EOF { //nolint:errorlint // only the bare EOF marks the end
			return items, nil
		}
		// A body without any boundary holds no parts. After the first part a
		// wrapped EOF means the body ended before its closing boundary.
		if parts == 0 && errors.Is(err, io.EOF) && !body.exceeded {
			return items, nil
		}
		if err != nil {
			return nil, res.classify(err, body)
		}

		parts++
		if parts > res.maxParts {
			return nil, newError(http.StatusRequestEntityTooLarge,
				fmt.Errorf("%w: limit is %d", ErrTooManyParts, res.maxParts))
		}

		fieldName, fileName, isFile := disposition(part.Header)
		if fieldName == "" {
			if _, err = io.Copy(io.Discard, part); err != nil {
				return nil, res.classify(err, body)
			}
			continue
		}

		it := res.factory.CreateItem(
			decodeHeader(fieldName, encoding),
			part.Header.Get("Content-Type"),
			!isFile,
			decodeHeader(fileName, encoding),
		)
		it.SetHeaders(part.Header)

		w := it.Writer()
		if _, err = io.Copy(w, part); err != nil {
			return nil, res.classify(err, body)
		}
		if err = w.Close(); err != nil {
			return nil, newError(0, err)
		}

		items = append(items, it)

		kind := metrics.PartField
		if isFile {
			kind = metrics.PartFile
		}
		res.recorder.RecordPart(ctx, kind)
	}
}

// classify maps a read error to the error returned by Parse.
func (res *Resolver) classify(err error, body *limitedReader) error {
	if body.exceeded || errors.Is(err, errBodyTooLarge) || errors.Is(err, buffer.ErrThresholdExceeded) {
		return &MaxUploadSizeExceededError{MaxUploadSize: res.maxUploadSize, Err: err}
	}
	return newError(0, err)
}

func (res *Resolver) recordFailure(ctx context.Context, err error, size int64, elapsed time.Duration) {
	var sizeErr *MaxUploadSizeExceededError

	switch {
	case errors.As(err, &sizeErr):
		res.recorder.RecordRejection(ctx, metrics.ReasonMaxUploadSize)
		res.recorder.RecordRequest(ctx, metrics.OutcomeRejected, size, elapsed)
	case errors.Is(err, ErrTooManyParts):
		res.recorder.RecordRejection(ctx, metrics.ReasonMaxParts)
		res.recorder.RecordRequest(ctx, metrics.OutcomeRejected, size, elapsed)
	default:
		res.recorder.RecordRequest(ctx, metrics.OutcomeError, size, elapsed)
	}
}

// ParseItems classifies parsed items. Form fields become parameters decoded
// with encoding; other items become files. Values under one name keep
// their order.
func (res *Resolver) ParseItems(items []*item.Item, encoding string) *Result {
	result := newResult()

	for _, it := range items {
		if it.IsFormField() {
			result.addParam(it.FieldName(), res.fieldValue(it, encoding))
			continue
		}

		f := newFile(it)
		result.addFile(f)
		res.logger.Debug("found multipart file",
			"field", f.Name(),
			"size", f.Size(),
			"filename", f.OriginalFilename(),
			"storage", f.StorageDescription(),
		)
	}

	return result
}

// fieldValue decodes a form field, falling back to the item's own decoding
// when encoding is not supported.
func (res *Resolver) fieldValue(it *item.Item, encoding string) string {
	if encoding == "" {
		return it.Text()
	}

	value, err := it.TextWithCharset(encoding)
	if err != nil {
		res.logger.Warn("could not decode multipart item, using its default decoding",
			"field", it.FieldName(),
			"encoding", encoding,
			"error", err,
		)
		return it.Text()
	}

	return value
}

// Cleanup releases the items of a resolved request. A lazy request that was
// never accessed is left unparsed. Cleanup never panics.
func (res *Resolver) Cleanup(req *Request) {
	if req == nil {
		return
	}

	defer func() {
		if v := recover(); v != nil {
			res.logger.Warn("failed to perform multipart cleanup", "panic", v)
		}
	}()

	result, ok := req.parsed()
	if !ok {
		return
	}

	for _, name := range result.fileNames {
		for _, f := range result.Files[name] {
			f.Item().Delete()
			res.logger.Debug("cleaning up multipart file",
				"field", f.Name(),
				"filename", f.OriginalFilename(),
				"storage", f.StorageDescription(),
			)
		}
	}
}

// boundaryOf extracts the multipart boundary from the request content type.
func boundaryOf(r *http.Request) (string, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return "", ErrNotMultipart
	}

	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", fmt.Errorf("invalid content type %q: %w", ct, err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return "", fmt.Errorf("%w: content type %q", ErrNotMultipart, mediaType)
	}

	boundary := params["boundary"]
	if boundary == "" {
		return "", http.ErrMissingBoundary
	}

	return boundary, nil
}

// disposition reads the form-data Content-Disposition of a part. fieldName
// is "" for parts that are not form data; isFile reports a filename
// parameter, even an empty one.
func disposition(h textproto.MIMEHeader) (fieldName, fileName string, isFile bool) {
	d, params, err := mime.ParseMediaType(h.Get("Content-Disposition"))
	if err != nil || d != "form-data" {
		return "", "", false
	}

	fileName, isFile = params["filename"]
	return params["name"], fileName, isFile
}

// decodeHeader decodes header bytes that are not valid UTF-8 with encoding.
func decodeHeader(s, encoding string) string {
	if utf8.ValidString(s) {
		return s
	}

	r, err := charset.Reader(encoding, strings.NewReader(s))
	if err != nil {
		return s
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return s
	}

	return string(decoded)
}
