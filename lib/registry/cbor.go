// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/bureau-foundation/simplelist/lib/objectfile"
	"github.com/bureau-foundation/simplelist/lib/storage"
)

// cborType is the on-disk type tag for CBOR-persisted objects.
const cborType = "generic_cbor"

// cborContentsFile is the payload file name within a generic_cbor
// object directory.
const cborContentsFile = "contents.cbor"

// cborVersion is written into the OBJECT metadata so future readers
// can detect layout changes.
const cborVersion = "1.0"

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): sorted map keys, smallest integer
// encoding, no indefinite-length items. Saving the same embedded
// object twice produces identical bytes, so saved directories can be
// compared with plain file hashing.
var encMode cbor.EncMode

// decMode is the CBOR decoder configured to accept standard CBOR.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("registry: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Embedded objects decode into any-typed values. The CBOR
		// default map type for any targets is
		// map[interface{}]interface{} (CBOR allows non-string keys),
		// which is incompatible with encoding/json and most Go code.
		// Objects saved by this codec only ever have string keys, so
		// decode them as map[string]any.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("registry: CBOR decoder initialization failed: " + err.Error())
	}
}

// CBORCodec persists arbitrary Go values as deterministically-encoded
// CBOR. It is the registry's catch-all: CanSave accepts everything,
// so it should be registered last if more specific codecs exist.
//
// Layout of a saved directory:
//
//	<path>/OBJECT         -- {"type":"generic_cbor","generic_cbor":{"version":"1.0"}}
//	<path>/contents.cbor  -- the CBOR-encoded value
//
// Values round-trip through CBOR's generic data model: structs come
// back as map[string]any, integer types as int64 or uint64. Callers
// needing exact Go types should register a dedicated codec instead.
type CBORCodec struct{}

// NewCBORCodec returns the built-in CBOR catch-all codec.
func NewCBORCodec() *CBORCodec {
	return &CBORCodec{}
}

// Type returns the generic_cbor type tag.
func (c *CBORCodec) Type() string {
	return cborType
}

// CanSave accepts every value. CBOR encoding can still fail at Save
// time for values it cannot represent (channels, functions).
func (c *CBORCodec) CanSave(value any) bool {
	return true
}

// Save writes the value as contents.cbor plus the OBJECT metadata.
func (c *CBORCodec) Save(ctx context.Context, store storage.Store, path string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encMode.Marshal(value)
	if err != nil {
		return fmt.Errorf("CBOR-encoding value of type %T: %w", value, err)
	}
	if err := store.WriteFile(store.Join(path, cborContentsFile), data); err != nil {
		return err
	}

	return objectfile.Write(store, path, objectfile.Metadata{
		"type":   cborType,
		cborType: map[string]any{"version": cborVersion},
	})
}

// Read decodes contents.cbor into an any-typed value.
func (c *CBORCodec) Read(ctx context.Context, store storage.Store, path string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := store.ReadFile(store.Join(path, cborContentsFile))
	if err != nil {
		return nil, err
	}

	var value any
	if err := decMode.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("CBOR-decoding contents: %w", err)
	}
	return value, nil
}
