// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package registry implements the polymorphic save/read dispatch for
// objects embedded inside saved lists.
//
// A [Registry] is an explicit value: callers construct one, register
// the codecs they need, and pass it into save and load operations.
// There is no ambient global registry — two encode operations with
// different registries never observe each other's codecs.
//
// On save, dispatch is by value: the first registered codec whose
// CanSave accepts the value wins, in registration order. On read,
// dispatch is by the type tag recorded in the directory's OBJECT
// metadata file. A codec therefore owns both directions for its tag:
// whatever layout its Save writes, its Read must understand.
package registry

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/simplelist/lib/objectfile"
	"github.com/bureau-foundation/simplelist/lib/storage"
)

// Codec persists one category of embedded object. Save writes the
// object's full on-disk representation into the directory at path,
// including the OBJECT metadata file carrying the codec's type tag.
type Codec interface {
	// Type returns the on-disk type tag this codec reads. Must be
	// stable across releases — it is written into saved data.
	Type() string

	// CanSave reports whether this codec can persist the value.
	CanSave(value any) bool

	// Save writes the value into the directory at path. The
	// directory already exists when Save is called.
	Save(ctx context.Context, store storage.Store, path string, value any) error

	// Read materializes the object from the directory at path.
	Read(ctx context.Context, store storage.Store, path string) (any, error)
}

// Registry maps embedded-object values to codecs on save and type
// tags to codecs on read. Construct with [New]; a zero Registry
// rejects everything.
type Registry struct {
	codecs []Codec
	byType map[string]Codec
}

// New creates a Registry holding the given codecs, dispatched in
// argument order on save. Duplicate type tags panic — tags are
// compile-time constants and a collision is a programming error.
func New(codecs ...Codec) *Registry {
	registry := &Registry{byType: make(map[string]Codec)}
	for _, codec := range codecs {
		registry.Register(codec)
	}
	return registry
}

// Default returns a new Registry holding the built-in codecs:
// currently only [CBORCodec], which accepts any value.
func Default() *Registry {
	return New(NewCBORCodec())
}

// Register adds a codec. It is dispatched after all previously
// registered codecs on save. Panics if the codec's type tag is
// already registered.
func (r *Registry) Register(codec Codec) {
	if r.byType == nil {
		r.byType = make(map[string]Codec)
	}
	tag := codec.Type()
	if _, exists := r.byType[tag]; exists {
		panic(fmt.Sprintf("registry: duplicate codec type tag %q", tag))
	}
	r.codecs = append(r.codecs, codec)
	r.byType[tag] = codec
}

// Save persists value into the directory at path using the first
// codec that accepts it. The directory is created if missing. Returns
// an error if no registered codec accepts the value.
func (r *Registry) Save(ctx context.Context, store storage.Store, path string, value any) error {
	for _, codec := range r.codecs {
		if !codec.CanSave(value) {
			continue
		}
		if err := store.MkdirAll(path); err != nil {
			return err
		}
		if err := codec.Save(ctx, store, path, value); err != nil {
			return fmt.Errorf("saving %s object at %s: %w", codec.Type(), path, err)
		}
		return nil
	}
	return fmt.Errorf("no registered codec can save a value of type %T", value)
}

// Read materializes the object saved in the directory at path,
// dispatching on the type tag in its OBJECT metadata. Returns an
// error if the tag has no registered codec.
func (r *Registry) Read(ctx context.Context, store storage.Store, path string) (any, error) {
	metadata, err := objectfile.Read(store, path)
	if err != nil {
		return nil, err
	}
	tag, err := metadata.Type()
	if err != nil {
		return nil, err
	}
	codec, ok := r.byType[tag]
	if !ok {
		return nil, fmt.Errorf("no registered codec for object type %q at %s", tag, path)
	}
	object, err := codec.Read(ctx, store, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s object at %s: %w", tag, path, err)
	}
	return object, nil
}
