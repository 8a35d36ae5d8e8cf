// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simplelist

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/simplelist/lib/objectfile"
	"github.com/bureau-foundation/simplelist/lib/registry"
	"github.com/bureau-foundation/simplelist/lib/storage"
)

// On-disk layout constants. These are protocol constants shared with
// the other implementations of the format.
const (
	// objectType is the OBJECT metadata type tag for saved lists.
	objectType = "simple_list"

	// formatVersion is the format version written on save.
	formatVersion = "1.1"

	// formatJSONGzip is the only payload format this codec reads and
	// writes: gzip-compressed wire JSON.
	formatJSONGzip = "json.gz"

	// ContentsFile is the payload file name within a saved list
	// directory.
	ContentsFile = "list_contents.json.gz"

	// otherContentsDir holds one subdirectory per external node,
	// named by the node's index.
	otherContentsDir = "other_contents"
)

// SaveOptions configures [Save].
type SaveOptions struct {
	// Registry dispatches the persistence of embedded objects the
	// encoder does not recognize. Nil means [registry.Default].
	Registry *registry.Registry

	// Unsupported is the caller's override hook for unrecognized
	// values; see [EncodeOptions.Unsupported].
	Unsupported func(value any) (Node, error)
}

// LoadOptions configures [Load].
type LoadOptions struct {
	// Registry dispatches the materialization of embedded objects.
	// Nil means [registry.Default]. It must recognize every object
	// type saved under other_contents, or the load fails.
	Registry *registry.Registry

	// BareScalars and TypedArrays select the native representation
	// of decoded vectors; see [DecodeOptions].
	BareScalars bool
	TypedArrays bool
}

// Save encodes value and writes a complete saved list at path:
//
//	<path>/OBJECT                     -- type and format metadata
//	<path>/list_contents.json.gz      -- gzip-compressed wire JSON
//	<path>/other_contents/<index>/... -- one directory per embedded object
//
// On failure the partially-written directory is left as-is — the
// caller owns the destination path and its cleanup.
func Save(ctx context.Context, store storage.Store, path string, value any, options *SaveOptions) error {
	if options == nil {
		options = &SaveOptions{}
	}
	reg := options.Registry
	if reg == nil {
		reg = registry.Default()
	}

	if err := store.MkdirAll(path); err != nil {
		return err
	}

	sink := NewExternalSink(store, path, reg)
	node, err := Encode(ctx, value, sink, &EncodeOptions{Unsupported: options.Unsupported})
	if err != nil {
		return fmt.Errorf("encoding list: %w", err)
	}

	data, err := Marshal(node)
	if err != nil {
		return fmt.Errorf("serializing list: %w", err)
	}
	compressed, err := compressPayload(data)
	if err != nil {
		return err
	}
	if err := store.WriteFile(store.Join(path, ContentsFile), compressed); err != nil {
		return err
	}

	return objectfile.Write(store, path, objectfile.Metadata{
		"type": objectType,
		objectType: map[string]any{
			"version": formatVersion,
			"format":  formatJSONGzip,
		},
	})
}

// Load reads the saved list at path and decodes it back into native
// values. A directory whose OBJECT metadata declares a different
// object type or payload format fails with [UnsupportedFormatError].
func Load(ctx context.Context, store storage.Store, path string, options *LoadOptions) (any, error) {
	if options == nil {
		options = &LoadOptions{}
	}
	reg := options.Registry
	if reg == nil {
		reg = registry.Default()
	}

	metadata, err := objectfile.Read(store, path)
	if err != nil {
		return nil, err
	}
	tag, err := metadata.Type()
	if err != nil {
		return nil, err
	}
	if tag != objectType {
		return nil, &UnsupportedFormatError{Declared: tag, Field: "type"}
	}
	detail, err := metadata.Detail()
	if err != nil {
		return nil, err
	}
	if format, _ := detail["format"].(string); format != formatJSONGzip {
		return nil, &UnsupportedFormatError{Declared: format, Field: "format"}
	}

	compressed, err := store.ReadFile(store.Join(path, ContentsFile))
	if err != nil {
		return nil, err
	}
	data, err := decompressPayload(compressed)
	if err != nil {
		return nil, err
	}
	node, err := UnmarshalNode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing list payload: %w", err)
	}

	source := NewExternalSource(store, path, reg)
	value, err := Decode(ctx, node, source, &DecodeOptions{
		BareScalars: options.BareScalars,
		TypedArrays: options.TypedArrays,
	})
	if err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}
	return value, nil
}
