// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simplelist

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bureau-foundation/simplelist/lib/registry"
	"github.com/bureau-foundation/simplelist/lib/storage"
)

// DecodeOptions configures one decode operation.
type DecodeOptions struct {
	// BareScalars returns unnamed length-1 vectors as bare native
	// values (bool, float64, string) instead of *Vector containers.
	// Numeric scalars widen to float64 in this mode, integer or not.
	// A null scalar decodes to nil.
	BareScalars bool

	// TypedArrays returns unnamed, non-scalar integer and number
	// vectors with no null entries as []int32 and []float64 instead
	// of *Vector containers.
	TypedArrays bool
}

// ExternalSource materializes externally-persisted objects referenced
// by a saved list during decode.
type ExternalSource struct {
	store    storage.Store
	dir      string
	registry *registry.Registry
}

// NewExternalSource creates a source reading objects beneath the
// saved list directory at dir, dispatching through the given
// registry.
func NewExternalSource(store storage.Store, dir string, reg *registry.Registry) *ExternalSource {
	return &ExternalSource{store: store, dir: dir, registry: reg}
}

// read materializes the object at other_contents/<index>. Registry
// dispatch failures propagate to the caller — the codec does not
// suppress or retry them.
func (s *ExternalSource) read(ctx context.Context, index int) (any, error) {
	path := s.store.Join(s.dir, otherContentsDir, strconv.Itoa(index))
	return s.registry.Read(ctx, s.store, path)
}

// Decode recursively converts a wire node tree back into native
// values. External nodes are resolved through the source; with a nil
// source a tree containing external references fails the decode.
func Decode(ctx context.Context, node Node, source *ExternalSource, options *DecodeOptions) (any, error) {
	if options == nil {
		options = &DecodeOptions{}
	}
	d := &decoder{source: source, options: options}
	return d.decode(ctx, node)
}

type decoder struct {
	source  *ExternalSource
	options *DecodeOptions
}

func (d *decoder) decode(ctx context.Context, node Node) (any, error) {
	if node == nil {
		return nil, fmt.Errorf("cannot decode nil node")
	}
	if err := node.validate(); err != nil {
		return nil, err
	}

	switch n := node.(type) {
	case *NothingNode:
		return nil, nil

	case *ListNode:
		list := &List{Values: make([]any, len(n.Values)), Names: n.Names}
		for i, child := range n.Values {
			value, err := d.decode(ctx, child)
			if err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
			list.Values[i] = value
		}
		return list, nil

	case *IntegerNode:
		elements := make([]any, len(n.Values))
		for i, value := range n.Values {
			if n.isNull(i) {
				continue
			}
			elements[i] = value
		}
		return d.decodeVector(KindInteger, elements, n.Names, n.Scalar), nil

	case *NumberNode:
		elements := make([]any, len(n.Values))
		for i, value := range n.Values {
			if n.isNull(i) {
				continue
			}
			elements[i] = value
		}
		return d.decodeVector(KindNumber, elements, n.Names, n.Scalar), nil

	case *StringNode:
		elements := make([]any, len(n.Values))
		for i, value := range n.Values {
			if n.isNull(i) {
				continue
			}
			elements[i] = value
		}
		return d.decodeVector(KindString, elements, n.Names, n.Scalar), nil

	case *BooleanNode:
		elements := make([]any, len(n.Values))
		for i, value := range n.Values {
			if n.isNull(i) {
				continue
			}
			elements[i] = value
		}
		return d.decodeVector(KindBoolean, elements, n.Names, n.Scalar), nil

	case *FactorNode:
		// Substitute each code with its level string. Null codes and
		// codes outside the level table decode to null. The result
		// is a plain string vector — factor-ness does not survive
		// decoding.
		elements := make([]any, len(n.Codes))
		for i, code := range n.Codes {
			if n.Null != nil && n.Null[i] {
				continue
			}
			if code < 0 || int(code) >= len(n.Levels) {
				continue
			}
			elements[i] = n.Levels[code]
		}
		return d.decodeVector(KindString, elements, n.Names, n.Scalar), nil

	case *ExternalNode:
		if d.source == nil {
			return nil, fmt.Errorf("external reference %d: no external source configured", n.Index)
		}
		return d.source.read(ctx, n.Index)

	default:
		return nil, &UnknownTypeError{Tag: node.Type()}
	}
}

// decodeVector chooses the native representation for a decoded
// vector: a bare scalar or a fixed-width array when the respective
// options apply, the generic *Vector container otherwise.
func (d *decoder) decodeVector(kind Kind, elements []any, names []string, scalar bool) any {
	if d.options.BareScalars && scalar {
		element := elements[0]
		if element == nil {
			return nil
		}
		if kind == KindInteger {
			return float64(element.(int32))
		}
		return element
	}

	if d.options.TypedArrays && !scalar && names == nil && !anyNull(elements) {
		switch kind {
		case KindInteger:
			values := make([]int32, len(elements))
			for i, element := range elements {
				values[i] = element.(int32)
			}
			return values
		case KindNumber:
			values := make([]float64, len(elements))
			for i, element := range elements {
				values[i] = element.(float64)
			}
			return values
		}
	}

	return &Vector{Kind: kind, Values: elements, Names: names, Scalar: scalar}
}

// anyNull reports whether any element is a missing-value marker.
func anyNull(elements []any) bool {
	for _, element := range elements {
		if element == nil {
			return true
		}
	}
	return false
}
