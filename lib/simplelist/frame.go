// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simplelist

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// compressPayload gzips the serialized wire JSON for storage.
func compressPayload(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer := gzip.NewWriter(&buffer)
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("compressing list payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing compressed payload: %w", err)
	}
	return buffer.Bytes(), nil
}

// decompressPayload inflates a stored payload fully into memory. The
// stream is drained to completion before any parsing happens — the
// parser never observes a partial buffer.
func decompressPayload(compressed []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("opening compressed payload: %w", err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		reader.Close()
		return nil, fmt.Errorf("decompressing list payload: %w", err)
	}
	if err := reader.Close(); err != nil {
		return nil, fmt.Errorf("closing compressed payload: %w", err)
	}
	return data, nil
}
