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

package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level is an alias for [slog.Level].
type Level = slog.Level

// Log levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// HandlerType selects the output format.
type HandlerType string

const (
	// JSONHandler writes JSON lines.
	JSONHandler HandlerType = "json"
	// TextHandler writes key=value lines.
	TextHandler HandlerType = "text"
	// ConsoleHandler writes colored, human-readable lines.
	ConsoleHandler HandlerType = "console"
)

// Errors returned by [New] and [ParseLevel].
var (
	ErrInvalidHandler = errors.New("logging: invalid handler type")
	ErrInvalidLevel   = errors.New("logging: invalid level")
	ErrNilOutput      = errors.New("logging: output writer cannot be nil")
)

// Option configures [New].
type Option func(*options)

type options struct {
	handlerType    HandlerType
	output         io.Writer
	level          Level
	addSource      bool
	serviceName    string
	serviceVersion string
	replaceAttr    func(groups []string, a slog.Attr) slog.Attr
	registerGlobal bool
}

// WithHandlerType sets the handler type.
func WithHandlerType(t HandlerType) Option {
	return func(o *options) { o.handlerType = t }
}

// WithJSONHandler uses JSON structured logging (default).
func WithJSONHandler() Option {
	return WithHandlerType(JSONHandler)
}

// WithTextHandler uses text key=value logging.
func WithTextHandler() Option {
	return WithHandlerType(TextHandler)
}

// WithConsoleHandler uses human-readable console logging.
func WithConsoleHandler() Option {
	return WithHandlerType(ConsoleHandler)
}

// WithOutput sets the output writer. The default is os.Stderr.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) Option {
	return func(o *options) { o.level = level }
}

// WithSource enables source code location in logs.
func WithSource(enabled bool) Option {
	return func(o *options) { o.addSource = enabled }
}

// WithServiceName adds a service attribute to every entry.
func WithServiceName(name string) Option {
	return func(o *options) { o.serviceName = name }
}

// WithServiceVersion adds a version attribute to every entry.
func WithServiceVersion(version string) Option {
	return func(o *options) { o.serviceVersion = version }
}

// WithReplaceAttr sets a custom attribute replacer, applied after redaction.
// Return an empty [slog.Attr] to drop the attribute.
func WithReplaceAttr(fn func(groups []string, a slog.Attr) slog.Attr) Option {
	return func(o *options) { o.replaceAttr = fn }
}

// WithGlobalLogger registers the logger with [slog.SetDefault].
func WithGlobalLogger() Option {
	return func(o *options) { o.registerGlobal = true }
}

// New builds a logger from the options.
func New(opts ...Option) (*slog.Logger, error) {
	o := &options{
		handlerType: JSONHandler,
		output:      os.Stderr,
		level:       LevelInfo,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.output == nil {
		return nil, ErrNilOutput
	}

	handler, err := o.handler()
	if err != nil {
		return nil, err
	}

	logger := slog.New(handler)
	if o.serviceName != "" {
		logger = logger.With("service", o.serviceName)
	}
	if o.serviceVersion != "" {
		logger = logger.With("version", o.serviceVersion)
	}
	if o.registerGlobal {
		slog.SetDefault(logger)
	}

	return logger, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *slog.Logger {
	logger, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("logging: %v", err))
	}
	return logger
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel parses "debug", "info", "warn"/"warning" or "error", case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}
