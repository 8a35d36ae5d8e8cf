// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package objectfile implements the OBJECT metadata-file convention.
//
// Every saved object directory carries a file named OBJECT holding a
// small JSON document whose "type" field names the codec that owns
// the directory. Codec-specific details live under a key matching the
// type, for example:
//
//	{"type": "simple_list", "simple_list": {"version": "1.1", "format": "json.gz"}}
//
// Readers dispatch on the type field; everything else is opaque to
// them. Reads tolerate JSONC (// line comments, /* block comments */,
// and trailing commas) so hand-edited metadata files still parse;
// writes always emit plain JSON.
package objectfile

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/simplelist/lib/storage"
)

// Name is the metadata file's name within an object directory.
const Name = "OBJECT"

// Metadata is the parsed contents of an OBJECT file.
type Metadata map[string]any

// Type returns the object type tag. An OBJECT file without a string
// "type" field is malformed.
func (m Metadata) Type() (string, error) {
	value, ok := m["type"]
	if !ok {
		return "", fmt.Errorf("OBJECT metadata has no type field")
	}
	tag, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("OBJECT type field is %T, want string", value)
	}
	return tag, nil
}

// Detail returns the codec-specific sub-document stored under the
// object's own type key. Returns an empty map if the key is absent —
// codecs with no detail fields are valid.
func (m Metadata) Detail() (map[string]any, error) {
	tag, err := m.Type()
	if err != nil {
		return nil, err
	}
	value, ok := m[tag]
	if !ok {
		return map[string]any{}, nil
	}
	detail, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("OBJECT %q detail is %T, want object", tag, value)
	}
	return detail, nil
}

// Read loads and parses the OBJECT file in the directory at path.
func Read(store storage.Store, path string) (Metadata, error) {
	data, err := store.ReadFile(store.Join(path, Name))
	if err != nil {
		return nil, fmt.Errorf("reading object metadata: %w", err)
	}

	var metadata Metadata
	if err := json.Unmarshal(jsonc.ToJSON(data), &metadata); err != nil {
		return nil, fmt.Errorf("parsing object metadata in %s: %w", path, err)
	}
	return metadata, nil
}

// Write serializes metadata as plain JSON to the OBJECT file in the
// directory at path. The directory must already exist.
func Write(store storage.Store, path string, metadata Metadata) error {
	if _, err := metadata.Type(); err != nil {
		return err
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("serializing object metadata: %w", err)
	}
	if err := store.WriteFile(store.Join(path, Name), data); err != nil {
		return fmt.Errorf("writing object metadata: %w", err)
	}
	return nil
}
