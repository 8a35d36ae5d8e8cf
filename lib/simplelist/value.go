// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simplelist

import "fmt"

// Kind identifies the element type of a generic [Vector].
type Kind int

const (
	KindInteger Kind = iota
	KindNumber
	KindString
	KindBoolean
)

// String returns the wire type tag for the kind.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return TypeInteger
	case KindNumber:
		return TypeNumber
	case KindString:
		return TypeString
	case KindBoolean:
		return TypeBoolean
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// List is the native form of a decoded list node: an ordered
// collection of child values with optional names. Values hold
// whatever the decoder produced for each child — nested *List,
// *Vector, typed slices, bare scalars, nil, or registry-materialized
// objects.
type List struct {
	Values []any

	// Names, if non-nil, has exactly one entry per value.
	Names []string
}

// Vector is the generic native form of a decoded vector node.
// Values holds one entry per element: bool, int32, float64, or
// string according to Kind, or nil for a missing element.
//
// Scalar records explicitly whether the vector originated from a
// bare scalar — callers that care about scalar-ness read this field
// rather than inferring it from length. It is only ever true for
// unnamed single-element vectors.
type Vector struct {
	Kind   Kind
	Values []any
	Names  []string
	Scalar bool
}
