// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package simplelist implements a portable on-disk encoding for
// hierarchical, R-style list values: nested, optionally-named
// collections mixing scalars, typed vectors (integer, number,
// string, boolean, factor), nulls, and opaque embedded objects. Data
// saved by one language implementation of the format is losslessly
// readable by the others.
//
// A saved list is a directory:
//
//	<path>/OBJECT                     -- {"type":"simple_list","simple_list":{"version":"1.1","format":"json.gz"}}
//	<path>/list_contents.json.gz      -- gzip-compressed wire JSON
//	<path>/other_contents/<index>/... -- one directory per embedded object
//
// The wire JSON is a tree of typed nodes. JSON cannot carry NaN or
// the infinities, so number vectors encode them as the sentinel
// strings "NaN", "Inf", and "-Inf"; integer values outside the
// 32-bit signed range promote the whole vector to the number type; a
// length-1 unnamed vector built from a bare scalar is written as a
// bare JSON value rather than a one-element array. [Marshal] and
// [UnmarshalNode] convert between [Node] trees and this wire form.
//
// [Encode] and [Decode] convert between native Go values and node
// trees. Values the encoder does not recognize are persisted
// out-of-band through a [registry.Registry] and referenced by
// position; see [ExternalSink]. [Save] and [Load] tie the two layers
// together with the gzip framing and the OBJECT metadata file.
//
// Encode and decode operations are single-threaded and all-or-
// nothing: any failure abandons the whole operation, and no partial
// artifact cleanup is attempted. Input graphs must be acyclic.
package simplelist
