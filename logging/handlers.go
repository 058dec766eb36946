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
	"context"
	"fmt"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

const redacted = "***REDACTED***"

// sensitiveKeys are attribute keys whose values never reach the output.
var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"token":         {},
	"secret":        {},
	"api_key":       {},
	"authorization": {},
	"cookie":        {},
}

func isSensitive(key string) bool {
	_, ok := sensitiveKeys[strings.ToLower(key)]
	return ok
}

// replacer redacts sensitive attributes, then applies the user replacer.
func (o *options) replacer() func(groups []string, a slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if isSensitive(a.Key) {
			return slog.String(a.Key, redacted)
		}
		if o.replaceAttr != nil {
			return o.replaceAttr(groups, a)
		}
		return a
	}
}

func (o *options) handler() (slog.Handler, error) {
	switch o.handlerType {
	case JSONHandler:
		return slog.NewJSONHandler(o.output, o.handlerOptions()), nil
	case TextHandler:
		return slog.NewTextHandler(o.output, o.handlerOptions()), nil
	case ConsoleHandler:
		console := charmlog.NewWithOptions(o.output, charmlog.Options{
			Level:           charmlog.Level(o.level),
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.000",
			ReportCaller:    o.addSource,
		})
		return &replaceHandler{next: console, replace: o.replacer()}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidHandler, o.handlerType)
	}
}

func (o *options) handlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:       o.level,
		AddSource:   o.addSource,
		ReplaceAttr: o.replacer(),
	}
}

// replaceHandler applies a ReplaceAttr function for handlers that lack one.
// Group names are tracked so the replacer sees the same groups slog would pass.
type replaceHandler struct {
	next    slog.Handler
	replace func(groups []string, a slog.Attr) slog.Attr
	groups  []string
}

func (h *replaceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *replaceHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		if a = h.replace(h.groups, a); !a.Equal(slog.Attr{}) {
			out.AddAttrs(a)
		}
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *replaceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	replaced := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		if a = h.replace(h.groups, a); !a.Equal(slog.Attr{}) {
			replaced = append(replaced, a)
		}
	}
	return &replaceHandler{next: h.next.WithAttrs(replaced), replace: h.replace, groups: h.groups}
}

func (h *replaceHandler) WithGroup(name string) slog.Handler {
	groups := make([]string, len(h.groups), len(h.groups)+1)
	copy(groups, h.groups)
	return &replaceHandler{next: h.next.WithGroup(name), replace: h.replace, groups: append(groups, name)}
}
