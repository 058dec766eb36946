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
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// Settings are the resolver settings read from configuration.
//
// A zero MaxUploadSize is treated as unset and becomes -1 (unlimited);
// to refuse every non-empty upload use a positive limit of 1.
type Settings struct {
	// MaxUploadSize caps the total request size and each part, in bytes.
	MaxUploadSize int64 `config:"max_upload_size" default:"-1" validate:"gte=-1"`

	// DefaultEncoding decodes form fields when the request names no charset.
	DefaultEncoding string `config:"default_encoding" default:"ISO-8859-1" validate:"required"`

	// ResolveLazily defers parsing until the first file or parameter access.
	ResolveLazily bool `config:"resolve_lazily"`

	// MaxParts caps the number of parts in one request.
	MaxParts int `config:"max_parts" default:"1000" validate:"gte=1"`

	// ProblemBaseURL prefixes problem type slugs in error responses.
	ProblemBaseURL string `config:"problem_base_url" validate:"omitempty,url"`
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() Settings {
	var s Settings
	// The tags above are constant; applyDefaults cannot fail on them.
	_ = applyDefaults(&s)
	return s
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks s against its validation tags.
// The first failing field is reported through [*Error].
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return NewFieldError("settings", fe.Field(), "validate",
			fmt.Errorf("failed on %q (value %v)", fe.Tag(), fe.Value()))
	}

	return NewError("settings", "validate", err)
}

// settingKinds maps each config key to the kind of its Settings field.
var settingKinds = func() map[string]reflect.Kind {
	typ := reflect.TypeFor[Settings]()
	kinds := make(map[string]reflect.Kind, typ.NumField())
	for i := range typ.NumField() {
		if key := typ.Field(i).Tag.Get("config"); key != "" {
			kinds[key] = typ.Field(i).Type.Kind()
		}
	}
	return kinds
}()

// coerceValue converts a string read from an untyped source to the type of
// the Settings field named by key. Values that do not convert, and keys with
// no field, stay strings so decoding reports them.
func coerceValue(key, value string) any {
	switch settingKinds[key] {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i, err := cast.ToInt64E(value); err == nil {
			return i
		}
	case reflect.Bool:
		if b, err := cast.ToBoolE(value); err == nil {
			return b
		}
	}

	return value
}

// applyDefaults sets fields tagged with 'default' that are still zero.
func applyDefaults(target any) error {
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Pointer || val.Elem().Kind() != reflect.Struct {
		return errors.New("target must be a pointer to a struct")
	}

	val = val.Elem()
	typ := val.Type()
	for i := range val.NumField() {
		field := val.Field(i)
		tag := typ.Field(i).Tag.Get("default")
		if tag == "" || !field.CanSet() || !field.IsZero() {
			continue
		}
		if err := setDefaultValue(field, tag); err != nil {
			return fmt.Errorf("failed to set default for field %s: %w", typ.Field(i).Name, err)
		}
	}

	return nil
}

func setDefaultValue(field reflect.Value, defaultVal string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(defaultVal)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeFor[time.Duration]() {
			d, err := time.ParseDuration(defaultVal)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}
		i, err := cast.ToInt64E(defaultVal)
		if err != nil {
			return err
		}
		field.SetInt(i)
	case reflect.Bool:
		b, err := cast.ToBoolE(defaultVal)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported type for default tag: %s", field.Kind())
	}

	return nil
}
