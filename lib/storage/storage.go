// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package storage provides the byte-level store abstraction the list
// codec and the object registry run on. Paths are opaque,
// forward-slash-separated, and relative to the store root — the codec
// never touches the OS filesystem directly, so saved lists can live
// on any backend that implements [Store].
//
// [DirStore] is the standard implementation, rooted at a directory on
// the local filesystem.
package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// Store is the minimal byte-level interface for reading and writing
// saved objects. All paths are store-relative and use forward slashes
// regardless of platform.
//
// Implementations are not required to be safe for concurrent writes
// to the same path; the codec performs single-threaded writes per
// save operation.
type Store interface {
	// ReadFile returns the full contents of the file at path.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to the file at path, replacing any
	// existing contents. Parent directories must already exist.
	WriteFile(path string, data []byte) error

	// Exists reports whether a file or directory exists at path.
	Exists(path string) (bool, error)

	// MkdirAll creates the directory at path along with any missing
	// parents. It is a no-op if the directory already exists.
	MkdirAll(path string) error

	// Join joins path elements into a single store-relative path.
	Join(elements ...string) string
}

// DirStore is a Store rooted at a directory on the local filesystem.
// Store-relative paths are resolved beneath the root; the store never
// reads or writes outside it.
type DirStore struct {
	root string
}

// NewDirStore creates a DirStore rooted at the given directory. The
// root is created if it does not exist.
func NewDirStore(root string) (*DirStore, error) {
	if root == "" {
		return nil, fmt.Errorf("store root must not be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating store root %s: %w", root, err)
	}
	return &DirStore{root: root}, nil
}

// Root returns the root directory this store resolves paths beneath.
func (s *DirStore) Root() string {
	return s.root
}

// resolve maps a store-relative path to an OS filesystem path under
// the root.
func (s *DirStore) resolve(storePath string) string {
	return filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+storePath)))
}

// ReadFile returns the full contents of the file at path.
func (s *DirStore) ReadFile(storePath string) ([]byte, error) {
	data, err := os.ReadFile(s.resolve(storePath))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", storePath, err)
	}
	return data, nil
}

// WriteFile writes data to the file at path, replacing any existing
// contents.
func (s *DirStore) WriteFile(storePath string, data []byte) error {
	if err := os.WriteFile(s.resolve(storePath), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", storePath, err)
	}
	return nil
}

// Exists reports whether a file or directory exists at path.
func (s *DirStore) Exists(storePath string) (bool, error) {
	_, err := os.Stat(s.resolve(storePath))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("stating %s: %w", storePath, err)
}

// MkdirAll creates the directory at path along with any missing
// parents.
func (s *DirStore) MkdirAll(storePath string) error {
	if err := os.MkdirAll(s.resolve(storePath), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", storePath, err)
	}
	return nil
}

// Join joins store-relative path elements with forward slashes.
func (s *DirStore) Join(elements ...string) string {
	return path.Join(elements...)
}
