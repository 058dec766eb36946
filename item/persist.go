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

package item

import (
	"fmt"
	"net/textproto"

	"github.com/vmihailenco/msgpack/v5"
)

// snapshot is the plain representation of an Item used for persistence.
type snapshot struct {
	FieldName   string              `msgpack:"field_name"`
	ContentType string              `msgpack:"content_type"`
	FormField   bool                `msgpack:"form_field"`
	FileName    string              `msgpack:"file_name"`
	Threshold   int64               `msgpack:"threshold"`
	Headers     map[string][]string `msgpack:"headers,omitempty"`
	Content     []byte              `msgpack:"content"`
}

// MarshalBinary drains the item content into a snapshot and encodes it.
func (it *Item) MarshalBinary() ([]byte, error) {
	s := snapshot{
		FieldName:   it.fieldName,
		ContentType: it.contentType,
		FormField:   it.formField,
		FileName:    it.fileName,
		Threshold:   it.threshold,
		Headers:     it.headers,
		Content:     it.content(),
	}

	data, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("item: encode snapshot of %q: %w", it.fieldName, err)
	}

	return data, nil
}

// UnmarshalBinary replaces the item with the decoded snapshot. The content is
// replayed through a fresh buffer which is then closed.
func (it *Item) UnmarshalBinary(data []byte) error {
	var s snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("item: decode snapshot: %w", err)
	}

	*it = Item{
		fieldName:   s.FieldName,
		contentType: s.ContentType,
		formField:   s.FormField,
		fileName:    s.FileName,
		threshold:   s.Threshold,
	}
	if s.Headers != nil {
		it.headers = textproto.MIMEHeader(s.Headers)
	}

	return it.replay(s.Content)
}

// replay writes content through the item writer and closes it.
func (it *Item) replay(content []byte) error {
	w := it.Writer()
	if len(content) > 0 {
		if _, err := w.Write(content); err != nil {
			return fmt.Errorf("item: restore %q: %w", it.fieldName, err)
		}
	}

	return w.Close()
}

// Restore decodes an item produced by [Item.MarshalBinary].
func Restore(data []byte) (*Item, error) {
	it := &Item{}
	if err := it.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return it, nil
}
