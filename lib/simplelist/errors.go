// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simplelist

import "fmt"

// UnknownTypeError reports a wire node whose type tag is outside the
// closed variant set. It is fatal: the payload was produced by an
// incompatible (likely newer) implementation and cannot be decoded.
type UnknownTypeError struct {
	// Tag is the unrecognized type tag.
	Tag string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown node type %q", e.Tag)
}

// UnsupportedFormatError reports a saved object that declares a type
// or payload format this codec does not read. It is fatal — there is
// no fallback representation to try.
type UnsupportedFormatError struct {
	// Declared is the offending value from the OBJECT metadata.
	Declared string

	// Field says which metadata field carried it: "type" or "format".
	Field string
}

func (e *UnsupportedFormatError) Error() string {
	switch e.Field {
	case "type":
		return fmt.Sprintf("object type %q is not a saved list (want %q)", e.Declared, objectType)
	default:
		return fmt.Sprintf("unsupported list payload format %q (want %q)", e.Declared, formatJSONGzip)
	}
}
