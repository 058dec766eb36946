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

// Package config loads resolver [Settings] from layered sources.
//
// Sources are read in the order they are registered and merged with later
// sources taking precedence. Keys are case-insensitive. The merged map is
// checked against an optional JSON Schema, decoded into [Settings], filled
// with defaults from struct tags and validated.
//
// Supported sources:
//   - Inline content or files in YAML, TOML or JSON ([WithContent], [WithFile])
//   - Environment variables with a prefix ([WithEnv])
//   - A Consul key-value entry ([WithConsul])
//
// Example:
//
//	loader, err := config.New(
//	    config.WithFile("uploadd.yaml"),
//	    config.WithEnv("UPLOADD_"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	settings, err := loader.Load(ctx)
//
// With UPLOADD_MAX_UPLOAD_SIZE=1048576 in the environment, the file's
// max_upload_size is overridden.
//
// Errors returned by [Loader.Load] are [*Error] values naming the source and
// the operation that failed.
package config
