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
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// Codec names a structured content format.
type Codec string

// Supported codecs.
const (
	CodecYAML Codec = "yaml"
	CodecTOML Codec = "toml"
	CodecJSON Codec = "json"
)

var extensionCodecs = map[string]Codec{
	".yaml": CodecYAML,
	".yml":  CodecYAML,
	".json": CodecJSON,
	".toml": CodecTOML,
}

// detectCodec picks a codec from the extension of path.
func detectCodec(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if c, ok := extensionCodecs[ext]; ok {
		return c, nil
	}
	return "", fmt.Errorf("cannot detect format from extension %q", ext)
}

// Decode parses data into a map.
func (c Codec) Decode(data []byte) (map[string]any, error) {
	var m map[string]any
	var err error

	switch c {
	case CodecYAML:
		err = yaml.Unmarshal(data, &m)
	case CodecTOML:
		err = toml.Unmarshal(data, &m)
	case CodecJSON:
		err = json.Unmarshal(data, &m)
	default:
		return nil, fmt.Errorf("unsupported codec %q", string(c))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", string(c), err)
	}

	if m == nil {
		m = make(map[string]any)
	}

	return m, nil
}
