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

// Package logging builds [log/slog] loggers for the upload service.
//
// Three handler types are available:
//   - [JSONHandler]: JSON lines for log aggregation (default)
//   - [TextHandler]: key=value lines
//   - [ConsoleHandler]: colored human-readable output for development
//
// Every handler redacts values whose key names a credential (password,
// token, secret, api_key, authorization, cookie).
//
// Example:
//
//	logger, err := logging.New(
//	    logging.WithConsoleHandler(),
//	    logging.WithLevel(logging.LevelDebug),
//	    logging.WithServiceName("uploadd"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger.Info("listening", "addr", ":8080")
//
// Packages that log accept a *slog.Logger; pass [Discard] to silence them.
package logging
