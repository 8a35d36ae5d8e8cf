// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestDirStoreReadWrite(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}

	if err := store.MkdirAll("a/b"); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	content := []byte("payload")
	if err := store.WriteFile("a/b/file.bin", content); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	read, err := store.ReadFile("a/b/file.bin")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(read, content) {
		t.Errorf("ReadFile = %q, want %q", read, content)
	}
}

func TestDirStoreExists(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}

	exists, err := store.Exists("missing")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Error("Exists reported a missing path as present")
	}

	if err := store.WriteFile("present", []byte("x")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	exists, err = store.Exists("present")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Error("Exists missed a written file")
	}
}

func TestDirStoreJoin(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	if got := store.Join("a", "b", "c"); got != "a/b/c" {
		t.Errorf("Join = %q, want a/b/c", got)
	}
}

func TestDirStoreConfinesPathsToRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewDirStore(root)
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}

	// Parent references are cleaned relative to the root, never
	// resolved outside it.
	if err := store.WriteFile("../escape.txt", []byte("x")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "escape.txt")); err != nil {
		t.Errorf("escaping path was not confined to the root: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(root), "escape.txt")); err == nil {
		t.Error("file was written outside the store root")
	}
}

func TestDirStoreMissingFile(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	if _, err := store.ReadFile("nope"); err == nil {
		t.Error("ReadFile succeeded on a missing file")
	}
}

func TestNewDirStoreCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "root")
	if _, err := NewDirStore(root); err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		t.Fatalf("root not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("root is not a directory")
	}
}
