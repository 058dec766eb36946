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

package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Option configures a [Loader].
type Option func(l *Loader) error

// Loader reads [Settings] from its sources. A Loader holds no values between
// calls, so Load is safe to call concurrently and re-reads every source.
type Loader struct {
	sources []Source
	schema  *jsonschema.Schema
	environ func() []string
	kv      ConsulKV
	consuls []*consul
}

// WithSource adds a custom source.
func WithSource(src Source) Option {
	return func(l *Loader) error {
		if src == nil {
			return errors.New("source cannot be nil")
		}
		l.sources = append(l.sources, src)
		return nil
	}
}

// WithContent adds inline content in the given format.
//
// Example:
//
//	config.WithContent([]byte("max_upload_size: 1048576"), config.CodecYAML)
func WithContent(data []byte, codec Codec) Option {
	return WithSource(&content{data: data, codec: codec})
}

// WithFile adds a file source; the format follows the extension
// (.yaml, .yml, .toml or .json). The file is read on every Load.
func WithFile(path string) Option {
	return func(l *Loader) error {
		codec, err := detectCodec(path)
		if err != nil {
			return fmt.Errorf("file %s: %w", path, err)
		}
		l.sources = append(l.sources, &content{path: path, codec: codec})
		return nil
	}
}

// WithEnv adds environment variables starting with prefix.
//
// Example:
//
//	config.WithEnv("UPLOADD_") // UPLOADD_RESOLVE_LAZILY=true -> resolve_lazily
func WithEnv(prefix string) Option {
	return func(l *Loader) error {
		l.sources = append(l.sources, &env{prefix: prefix, environ: func() []string { return l.environ() }})
		return nil
	}
}

// WithConsul adds the Consul key at path. The value's format follows the
// key's extension and defaults to JSON. The client is configured from
// CONSUL_HTTP_ADDR and CONSUL_HTTP_TOKEN unless [WithConsulKV] is given.
func WithConsul(path string) Option {
	return func(l *Loader) error {
		codec, err := detectCodec(path)
		if err != nil {
			codec = CodecJSON
		}
		src := &consul{path: path, codec: codec}
		l.consuls = append(l.consuls, src)
		l.sources = append(l.sources, src)
		return nil
	}
}

// WithConsulKV sets the KV client used by [WithConsul] sources.
func WithConsulKV(kv ConsulKV) Option {
	return func(l *Loader) error {
		if kv == nil {
			return errors.New("consul kv cannot be nil")
		}
		l.kv = kv
		return nil
	}
}

// WithJSONSchema validates the merged values against a JSON Schema before decoding.
func WithJSONSchema(schema []byte) Option {
	return func(l *Loader) error {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
		if err != nil {
			return fmt.Errorf("invalid json schema: %w", err)
		}

		compiler := jsonschema.NewCompiler()
		if err = compiler.AddResource("settings.json", doc); err != nil {
			return err
		}
		s, err := compiler.Compile("settings.json")
		if err != nil {
			return err
		}
		l.schema = s
		return nil
	}
}

// withEnviron replaces os.Environ for tests.
func withEnviron(fn func() []string) Option {
	return func(l *Loader) error {
		l.environ = fn
		return nil
	}
}

// New creates a [Loader]. Option errors are joined.
func New(options ...Option) (*Loader, error) {
	l := &Loader{environ: os.Environ}

	var errs error
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(l); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}

	if len(l.consuls) > 0 && l.kv == nil {
		kv, err := newConsulKV()
		if err != nil {
			return nil, err
		}
		l.kv = kv
	}
	for _, c := range l.consuls {
		c.kv = l.kv
	}

	return l, nil
}

// MustNew is like [New] but panics on error.
func MustNew(options ...Option) *Loader {
	l, err := New(options...)
	if err != nil {
		panic(fmt.Sprintf("config: failed to create loader: %v", err))
	}
	return l
}

// Load reads and merges every source, then decodes, defaults and validates
// the result.
//
// Errors:
//   - [*Error] with Operation "load" or "merge" if a source fails
//   - [*Error] from "json-schema" if schema validation fails
//   - [*Error] from "settings" if decoding or validation fails
func (l *Loader) Load(ctx context.Context) (Settings, error) {
	values, err := l.merge(ctx)
	if err != nil {
		return Settings{}, err
	}

	if l.schema != nil {
		if err = l.schema.Validate(values); err != nil {
			return Settings{}, NewError("json-schema", "validate", err)
		}
	}

	var s Settings
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil {
		return Settings{}, NewError("settings", "decode", err)
	}
	if err = decoder.Decode(values); err != nil {
		return Settings{}, NewError("settings", "decode", err)
	}

	if err = applyDefaults(&s); err != nil {
		return Settings{}, NewError("settings", "defaults", err)
	}
	if err = s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// merge loads each source in order; later sources override earlier ones.
func (l *Loader) merge(ctx context.Context) (map[string]any, error) {
	merged := make(map[string]any)

	for i, src := range l.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		values, err := src.Load(ctx)
		if err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "load", err)
		}

		if err = mergo.Map(&merged, normalizeKeys(values), mergo.WithOverride); err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "merge", err)
		}
	}

	return merged, nil
}

// normalizeKeys lowercases keys recursively.
func normalizeKeys(m map[string]any) map[string]any {
	normalized := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeKeys(nested)
		}
		normalized[strings.ToLower(k)] = v
	}
	return normalized
}
