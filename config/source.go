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
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/consul/api"
)

// Source supplies one layer of configuration values.
type Source interface {
	// Load returns the layer's values. A nil map is treated as empty.
	Load(ctx context.Context) (map[string]any, error)
}

// content is a source over inline bytes or a file path.
type content struct {
	path  string
	data  []byte
	codec Codec
}

func (c *content) Load(context.Context) (map[string]any, error) {
	data := c.data
	if c.path != "" {
		var err error
		data, err = os.ReadFile(c.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
	}

	return c.codec.Decode(data)
}

// env reads variables starting with prefix. The prefix is stripped and
// the remainder lowercased, so UPLOADD_MAX_UPLOAD_SIZE becomes max_upload_size.
// Numeric and boolean settings are converted from their string form.
type env struct {
	prefix  string
	environ func() []string
}

func (e *env) Load(context.Context) (map[string]any, error) {
	values := make(map[string]any)

	for _, kv := range e.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, e.prefix) {
			continue
		}

		key := strings.ToLower(strings.Trim(strings.TrimPrefix(name, e.prefix), "_ "))
		if key == "" {
			continue
		}
		values[key] = coerceValue(key, strings.TrimSpace(value))
	}

	return values, nil
}

// ConsulKV is the subset of the Consul KV API the Consul source uses.
type ConsulKV interface {
	Get(key string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error)
}

// consul reads one key from Consul's KV store and decodes its value.
// A missing key yields no values.
type consul struct {
	kv    ConsulKV
	path  string
	codec Codec
}

// newConsulKV builds a KV client from the CONSUL_HTTP_ADDR and
// CONSUL_HTTP_TOKEN environment variables.
func newConsulKV() (ConsulKV, error) {
	client, err := api.NewClient(api.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}
	return client.KV(), nil
}

func (c *consul) Load(ctx context.Context) (map[string]any, error) {
	pair, _, err := c.kv.Get(c.path, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get consul key: %w", err)
	}
	if pair == nil {
		return make(map[string]any), nil
	}

	values, err := c.codec.Decode(pair.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode consul value: %w", err)
	}

	return values, nil
}
