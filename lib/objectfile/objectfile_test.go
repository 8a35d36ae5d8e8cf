// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package objectfile

import (
	"testing"

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

func TestWriteReadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	metadata := Metadata{
		"type":        "simple_list",
		"simple_list": map[string]any{"version": "1.1", "format": "json.gz"},
	}
	if err := Write(store, ".", metadata); err != nil {
		t.Fatalf("Write: %v", err)
	}

	read, err := Read(store, ".")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	tag, err := read.Type()
	if err != nil {
		t.Fatalf("Type: %v", err)
	}
	if tag != "simple_list" {
		t.Errorf("type = %q, want simple_list", tag)
	}
	detail, err := read.Detail()
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if detail["format"] != "json.gz" {
		t.Errorf("format = %v, want json.gz", detail["format"])
	}
}

func TestReadToleratesComments(t *testing.T) {
	store := newTestStore(t)

	document := `{
		// hand-annotated metadata
		"type": "widget",
		"widget": {"size": 3}, /* trailing comma next */
	}`
	if err := store.WriteFile(Name, []byte(document)); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	metadata, err := Read(store, ".")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	tag, err := metadata.Type()
	if err != nil {
		t.Fatalf("Type: %v", err)
	}
	if tag != "widget" {
		t.Errorf("type = %q, want widget", tag)
	}
}

func TestTypeErrors(t *testing.T) {
	if _, err := (Metadata{}).Type(); err == nil {
		t.Error("Type succeeded on metadata without a type field")
	}
	if _, err := (Metadata{"type": 7}).Type(); err == nil {
		t.Error("Type accepted a non-string type field")
	}
}

func TestDetailDefaultsToEmpty(t *testing.T) {
	detail, err := (Metadata{"type": "bare"}).Detail()
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if len(detail) != 0 {
		t.Errorf("detail = %v, want empty", detail)
	}
}

func TestWriteRejectsUntypedMetadata(t *testing.T) {
	store := newTestStore(t)
	if err := Write(store, ".", Metadata{"version": "1.0"}); err == nil {
		t.Error("Write accepted metadata without a type field")
	}
}

func TestReadMissingFile(t *testing.T) {
	store := newTestStore(t)
	if _, err := Read(store, "absent"); err == nil {
		t.Error("Read succeeded on a directory without an OBJECT file")
	}
}
