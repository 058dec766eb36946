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

// Command uploadd serves multipart uploads from memory.
//
// It accepts multipart/form-data requests on POST /upload and answers with a
// JSON summary of the fields and files it received. Nothing is written to
// disk. Settings come from an optional config file, UPLOADD_* environment
// variables, an optional Consul key and command-line flags, in that order.
//
//	uploadd --addr :8080 --max-upload-size 10485760 --metrics prometheus
package main

import (
	"fmt"
	"os"
)

// Version information set at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
