// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simplelist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/bureau-foundation/simplelist/lib/objectfile"
	"github.com/bureau-foundation/simplelist/lib/registry"
	"github.com/bureau-foundation/simplelist/lib/storage"
)

func newTestStore(t *testing.T) *storage.DirStore {
	t.Helper()
	store, err := storage.NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	return store
}

// widget is a value outside the native vocabulary, persisted through
// the registry during save.
type widget struct {
	Size int
}

// widgetCodec persists widgets entirely inside OBJECT metadata.
type widgetCodec struct{}

func (c *widgetCodec) Type() string { return "widget" }

func (c *widgetCodec) CanSave(value any) bool {
	_, ok := value.(widget)
	return ok
}

func (c *widgetCodec) Save(ctx context.Context, store storage.Store, path string, value any) error {
	return objectfile.Write(store, path, objectfile.Metadata{
		"type":   "widget",
		"widget": map[string]any{"size": value.(widget).Size},
	})
}

func (c *widgetCodec) Read(ctx context.Context, store storage.Store, path string) (any, error) {
	metadata, err := objectfile.Read(store, path)
	if err != nil {
		return nil, err
	}
	detail, err := metadata.Detail()
	if err != nil {
		return nil, err
	}
	size, ok := detail["size"].(float64)
	if !ok {
		return nil, fmt.Errorf("widget metadata has no size")
	}
	return widget{Size: int(size)}, nil
}

func TestSaveLayout(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	value := &List{
		Values: []any{"hello", []int{1, 2, 3}},
		Names:  []string{"greeting", "counts"},
	}
	if err := Save(ctx, store, "saved", value, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	metadata, err := objectfile.Read(store, "saved")
	if err != nil {
		t.Fatalf("reading OBJECT: %v", err)
	}
	tag, err := metadata.Type()
	if err != nil {
		t.Fatalf("Type: %v", err)
	}
	if tag != "simple_list" {
		t.Errorf("OBJECT type = %q, want simple_list", tag)
	}
	detail, err := metadata.Detail()
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if detail["format"] != "json.gz" {
		t.Errorf("format = %v, want json.gz", detail["format"])
	}
	if detail["version"] != "1.1" {
		t.Errorf("version = %v, want 1.1", detail["version"])
	}

	// The payload is gzip: check the magic bytes.
	payload, err := store.ReadFile(store.Join("saved", ContentsFile))
	if err != nil {
		t.Fatalf("reading payload: %v", err)
	}
	if !bytes.HasPrefix(payload, []byte{0x1f, 0x8b}) {
		t.Errorf("payload does not start with the gzip magic: % x", payload[:2])
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	original := &List{
		Values: []any{
			&Vector{Kind: KindNumber, Values: []any{1.5, nil, -3.0}},
			&List{Values: []any{nil}},
			&Vector{Kind: KindString, Values: []any{"x"}, Scalar: true},
		},
		Names: []string{"numbers", "inner", "label"},
	}
	if err := Save(ctx, store, "saved", original, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(ctx, store, "saved", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded, original) {
		t.Errorf("round trip mismatch:\ngot  %#v\nwant %#v", loaded, original)
	}
}

func TestExternalIndexing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	reg := registry.New(&widgetCodec{})
	options := &SaveOptions{Registry: reg}

	value := &List{
		Values: []any{widget{Size: 10}, "between", widget{Size: 20}},
	}
	if err := Save(ctx, store, "saved", value, options); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Exactly two subdirectories, named 0 and 1, in first-encounter
	// order.
	for index, wantSize := range []int{10, 20} {
		path := store.Join("saved", "other_contents", fmt.Sprintf("%d", index))
		exists, err := store.Exists(path)
		if err != nil {
			t.Fatalf("Exists(%s): %v", path, err)
		}
		if !exists {
			t.Fatalf("external subdirectory %s missing", path)
		}
		object, err := reg.Read(ctx, store, path)
		if err != nil {
			t.Fatalf("reading %s: %v", path, err)
		}
		if object != (widget{Size: wantSize}) {
			t.Errorf("index %d = %#v, want size %d", index, object, wantSize)
		}
	}
	entries, err := os.ReadDir(filepath.Join(store.Root(), "saved", "other_contents"))
	if err != nil {
		t.Fatalf("listing other_contents: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("other_contents has %d entries, want 2", len(entries))
	}

	// The loaded list embeds the widgets at their positions.
	loaded, err := Load(ctx, store, "saved", &LoadOptions{Registry: reg})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	list := loaded.(*List)
	if list.Values[0] != (widget{Size: 10}) || list.Values[2] != (widget{Size: 20}) {
		t.Errorf("embedded objects misplaced: %#v", list.Values)
	}
}

func TestExternalSinkCounter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sink := NewExternalSink(store, "saved", registry.New(&widgetCodec{}))

	value := []any{widget{Size: 1}, widget{Size: 2}, "not external"}
	node, err := Encode(ctx, value, sink, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if sink.Count() != 2 {
		t.Errorf("sink count = %d, want 2", sink.Count())
	}
	list, ok := node.(*ListNode)
	if !ok {
		t.Fatalf("node is %T, want *ListNode", node)
	}
	first, ok := list.Values[0].(*ExternalNode)
	if !ok || first.Index != 0 {
		t.Errorf("first external = %#v, want index 0", list.Values[0])
	}
	second, ok := list.Values[1].(*ExternalNode)
	if !ok || second.Index != 1 {
		t.Errorf("second external = %#v, want index 1", list.Values[1])
	}
}

func TestLoadRejectsForeignObjectType(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := Save(ctx, store, "saved", "x", nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	err := objectfile.Write(store, "saved", objectfile.Metadata{
		"type": "data_frame",
	})
	if err != nil {
		t.Fatalf("rewriting OBJECT: %v", err)
	}

	_, err = Load(ctx, store, "saved", nil)
	var unsupported *UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error = %v, want UnsupportedFormatError", err)
	}
	if unsupported.Declared != "data_frame" {
		t.Errorf("Declared = %q, want data_frame", unsupported.Declared)
	}
}

func TestLoadRejectsForeignPayloadFormat(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := Save(ctx, store, "saved", "x", nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	err := objectfile.Write(store, "saved", objectfile.Metadata{
		"type":        "simple_list",
		"simple_list": map[string]any{"version": "1.1", "format": "hdf5"},
	})
	if err != nil {
		t.Fatalf("rewriting OBJECT: %v", err)
	}

	_, err = Load(ctx, store, "saved", nil)
	var unsupported *UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error = %v, want UnsupportedFormatError", err)
	}
	if unsupported.Declared != "hdf5" {
		t.Errorf("Declared = %q, want hdf5", unsupported.Declared)
	}
}

func TestMissingExternalCodecFailsLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saveRegistry := registry.New(&widgetCodec{})
	value := &List{Values: []any{widget{Size: 1}}}
	if err := Save(ctx, store, "saved", value, &SaveOptions{Registry: saveRegistry}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Loading with a registry that lacks the widget codec: the
	// dispatch failure propagates.
	_, err := Load(ctx, store, "saved", &LoadOptions{Registry: registry.New()})
	if err == nil {
		t.Error("Load succeeded without a codec for the embedded object")
	}
}

func TestDefaultRegistryPersistsUnknownValues(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// No registry configured: the CBOR catch-all handles the map
	// slice (a []map is outside the native vocabulary).
	value := &List{Values: []any{[]map[string]string{{"k": "v"}}}}
	if err := Save(ctx, store, "saved", value, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(ctx, store, "saved", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	list := loaded.(*List)
	// CBOR round-trips through its generic data model.
	want := []any{map[string]any{"k": "v"}}
	if !reflect.DeepEqual(list.Values[0], want) {
		t.Errorf("embedded object = %#v, want %#v", list.Values[0], want)
	}
}

func TestCompressionFraming(t *testing.T) {
	payload := []byte(`{"type":"nothing"}`)
	compressed, err := compressPayload(payload)
	if err != nil {
		t.Fatalf("compressPayload: %v", err)
	}
	restored, err := decompressPayload(compressed)
	if err != nil {
		t.Fatalf("decompressPayload: %v", err)
	}
	if !bytes.Equal(restored, payload) {
		t.Errorf("round trip mismatch: %q != %q", restored, payload)
	}

	if _, err := decompressPayload([]byte("not gzip")); err == nil {
		t.Error("decompressPayload accepted garbage input")
	}
}
