// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simplelist

import "fmt"

// Wire type tags. These are protocol constants — they appear in the
// "type" field of every serialized node and changing them breaks
// compatibility with other implementations of the format.
const (
	TypeList     = "list"
	TypeInteger  = "integer"
	TypeNumber   = "number"
	TypeString   = "string"
	TypeBoolean  = "boolean"
	TypeFactor   = "factor"
	TypeNothing  = "nothing"
	TypeExternal = "external"
)

// Node is one node of the wire tree: a closed tagged union over
// {List, IntegerVector, NumberVector, StringVector, BooleanVector,
// Factor, Nothing, External}. The union is sealed — only the node
// types in this package implement it — so every consumer switch can
// be exhaustive.
type Node interface {
	// Type returns the node's wire type tag.
	Type() string

	// validate checks the node's structural invariants (name and
	// null-marker lengths, scalar constraints). It does not recurse
	// into children; Marshal and UnmarshalNode validate each node as
	// they visit it.
	validate() error
}

// ListNode is an ordered, optionally-named collection of child
// nodes, mirroring an R-style list.
type ListNode struct {
	Values []Node

	// Names, if non-nil, must have exactly one entry per value.
	Names []string
}

// IntegerNode is a vector of 32-bit signed integers. Values outside
// the int32 range never appear here — the classifier promotes such
// vectors to NumberNode before a node is built.
type IntegerNode struct {
	Values []int32

	// Null, if non-nil, marks missing elements; it must have exactly
	// one entry per value. The value at a marked position is
	// meaningless.
	Null []bool

	// Names, if non-nil, must have exactly one entry per value.
	Names []string

	// Scalar marks a length-1, unnamed vector that originated from a
	// bare scalar. On the wire a scalar is emitted as a bare JSON
	// value instead of a one-element array.
	Scalar bool
}

// NumberNode is a vector of IEEE-754 doubles. NaN and the infinities
// are legal values; the sentinel codec maps them to string tokens on
// the wire.
type NumberNode struct {
	Values []float64
	Null   []bool
	Names  []string
	Scalar bool
}

// StringNode is a vector of strings.
type StringNode struct {
	Values []string
	Null   []bool
	Names  []string
	Scalar bool
}

// BooleanNode is a vector of booleans.
type BooleanNode struct {
	Values []bool
	Null   []bool
	Names  []string
	Scalar bool
}

// FactorNode is an integer-coded categorical vector: each code is a
// 0-based index into Levels. Factors decode to plain string vectors —
// no dedicated factor type is reconstructed on the decode side.
type FactorNode struct {
	// Codes are 0-based indices into Levels. A code that is null or
	// out of range decodes to a null string.
	Codes []int32

	Null []bool

	// Levels is the ordered level-string table.
	Levels []string

	Names  []string
	Scalar bool
}

// NothingNode represents an absent or null value.
type NothingNode struct{}

// ExternalNode references an object persisted out-of-band under the
// saved list's other_contents/<Index> subdirectory. The node holds no
// ownership over the object, only the positional reference.
type ExternalNode struct {
	Index int
}

// Type implementations.

func (n *ListNode) Type() string { return TypeList }

func (n *IntegerNode) Type() string { return TypeInteger }

func (n *NumberNode) Type() string { return TypeNumber }

func (n *StringNode) Type() string { return TypeString }

func (n *BooleanNode) Type() string { return TypeBoolean }

func (n *FactorNode) Type() string { return TypeFactor }

func (n *NothingNode) Type() string { return TypeNothing }

func (n *ExternalNode) Type() string { return TypeExternal }

// validateVectorShape checks the invariants shared by every vector
// variant: null markers and names match the element count, and the
// scalar flag only applies to a single unnamed element.
func validateVectorShape(tag string, length int, null []bool, names []string, scalar bool) error {
	if null != nil && len(null) != length {
		return fmt.Errorf("%s node has %d null markers for %d values", tag, len(null), length)
	}
	if names != nil && len(names) != length {
		return fmt.Errorf("%s node has %d names for %d values", tag, len(names), length)
	}
	if scalar && length != 1 {
		return fmt.Errorf("%s node marked scalar has %d values, want 1", tag, length)
	}
	if scalar && names != nil {
		return fmt.Errorf("%s node marked scalar must not carry names", tag)
	}
	return nil
}

func (n *ListNode) validate() error {
	if n.Names != nil && len(n.Names) != len(n.Values) {
		return fmt.Errorf("list node has %d names for %d values", len(n.Names), len(n.Values))
	}
	return nil
}

func (n *IntegerNode) validate() error {
	return validateVectorShape(TypeInteger, len(n.Values), n.Null, n.Names, n.Scalar)
}

func (n *NumberNode) validate() error {
	return validateVectorShape(TypeNumber, len(n.Values), n.Null, n.Names, n.Scalar)
}

func (n *StringNode) validate() error {
	return validateVectorShape(TypeString, len(n.Values), n.Null, n.Names, n.Scalar)
}

func (n *BooleanNode) validate() error {
	return validateVectorShape(TypeBoolean, len(n.Values), n.Null, n.Names, n.Scalar)
}

func (n *FactorNode) validate() error {
	if n.Levels == nil {
		return fmt.Errorf("factor node has no levels")
	}
	return validateVectorShape(TypeFactor, len(n.Codes), n.Null, n.Names, n.Scalar)
}

func (n *NothingNode) validate() error { return nil }

func (n *ExternalNode) validate() error {
	if n.Index < 0 {
		return fmt.Errorf("external node has negative index %d", n.Index)
	}
	return nil
}
