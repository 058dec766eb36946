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
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
)

// Result holds the files and parameters of a parsed request.
// Values under one name keep the order their parts arrived in.
type Result struct {
	Files  map[string][]*File
	Params map[string][]string

	// fileNames lists Files keys in arrival order.
	fileNames []string
}

func newResult() *Result {
	return &Result{
		Files:  make(map[string][]*File),
		Params: make(map[string][]string),
	}
}

func (res *Result) addFile(f *File) {
	name := f.Name()
	if _, ok := res.Files[name]; !ok {
		res.fileNames = append(res.fileNames, name)
	}
	res.Files[name] = append(res.Files[name], f)
}

func (res *Result) addParam(name, value string) {
	res.Params[name] = append(res.Params[name], value)
}

// FileNames returns the field names that carry files, in arrival order.
func (res *Result) FileNames() []string {
	names := make([]string, len(res.fileNames))
	copy(names, res.fileNames)
	return names
}

// Request is a multipart request with its parts resolved, or resolved on
// first access when the resolver is lazy. Accessors are safe for
// concurrent use; a lazy request is parsed exactly once.
type Request struct {
	req      *http.Request
	resolver *Resolver

	once   sync.Once
	done   atomic.Bool
	result *Result
	err    error
}

// HTTPRequest returns the wrapped request.
func (r *Request) HTTPRequest() *http.Request {
	return r.req
}

// resolve parses on first use and returns the outcome.
func (r *Request) resolve() (*Result, error) {
	r.once.Do(func() {
		r.result, r.err = r.resolver.Parse(r.req)
		r.done.Store(true)
	})
	return r.result, r.err
}

// parsed returns the result if parsing already succeeded, without triggering it.
func (r *Request) parsed() (*Result, bool) {
	if !r.done.Load() || r.err != nil {
		return nil, false
	}
	return r.result, true
}

// Err returns the parse error, parsing first if needed.
func (r *Request) Err() error {
	_, err := r.resolve()
	return err
}

// File returns the first file uploaded under name.
// It fails with [ErrFileNotFound] when there is none.
func (r *Request) File(name string) (*File, error) {
	files, err := r.Files(name)
	if err != nil {
		return nil, err
	}
	return files[0], nil
}

// Files returns every file uploaded under name, in arrival order.
// It fails with [ErrFileNotFound] when there is none.
func (r *Request) Files(name string) ([]*File, error) {
	res, err := r.resolve()
	if err != nil {
		return nil, err
	}

	files := res.Files[name]
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrFileNotFound, name)
	}
	return files, nil
}

// FileMap returns the first file per field name.
// It returns an empty map when parsing failed; see [Request.Err].
func (r *Request) FileMap() map[string]*File {
	m := make(map[string]*File)
	res, err := r.resolve()
	if err != nil {
		return m
	}
	for name, files := range res.Files {
		m[name] = files[0]
	}
	return m
}

// MultiFileMap returns every file per field name.
// It returns an empty map when parsing failed; see [Request.Err].
func (r *Request) MultiFileMap() map[string][]*File {
	res, err := r.resolve()
	if err != nil {
		return map[string][]*File{}
	}
	return res.Files
}

// FileNames returns the field names that carry files, in arrival order.
func (r *Request) FileNames() []string {
	res, err := r.resolve()
	if err != nil {
		return nil
	}
	return res.FileNames()
}

// Param returns the first value of the parameter, or "" if absent.
func (r *Request) Param(name string) string {
	values := r.Params(name)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Params returns every value of the parameter in arrival order.
func (r *Request) Params(name string) []string {
	res, err := r.resolve()
	if err != nil {
		return nil
	}
	return res.Params[name]
}

// ParamMap returns all parameters.
// It returns an empty map when parsing failed; see [Request.Err].
func (r *Request) ParamMap() map[string][]string {
	res, err := r.resolve()
	if err != nil {
		return map[string][]string{}
	}
	return res.Params
}
