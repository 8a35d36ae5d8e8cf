// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simplelist

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/bureau-foundation/simplelist/lib/registry"
	"github.com/bureau-foundation/simplelist/lib/storage"
)

// EncodeOptions configures one encode operation.
type EncodeOptions struct {
	// Unsupported, if non-nil, is consulted for values the encoder
	// does not recognize, before they are routed to the external
	// sink. A non-nil returned node is used verbatim; a nil node
	// means "not handled" and the value falls through to the sink.
	Unsupported func(value any) (Node, error)
}

// ExternalSink persists unrecognized values out-of-band during one
// encode operation and assigns each a positional reference index.
//
// Indices are assigned in strict encode-visitation order starting at
// 0 and correspond 1:1 with other_contents/<index> subdirectories.
// The counter is owned by a single encode operation — sharing a sink
// across concurrent encodes would interleave indices and is not
// supported.
type ExternalSink struct {
	store    storage.Store
	dir      string
	registry *registry.Registry

	next    int
	ensured bool
}

// NewExternalSink creates a sink that persists objects beneath the
// saved list directory at dir, dispatching through the given
// registry.
func NewExternalSink(store storage.Store, dir string, reg *registry.Registry) *ExternalSink {
	return &ExternalSink{store: store, dir: dir, registry: reg}
}

// Count returns the number of objects persisted so far — equal to
// the next index that would be assigned.
func (s *ExternalSink) Count() int {
	return s.next
}

// save persists value under other_contents/<next index> and returns
// the assigned index. The ordering is fixed: the index is assigned,
// the dispatch is invoked, and only then is the counter incremented,
// so a dispatch failure never burns an index.
func (s *ExternalSink) save(ctx context.Context, value any) (int, error) {
	container := s.store.Join(s.dir, otherContentsDir)
	if !s.ensured {
		if err := s.store.MkdirAll(container); err != nil {
			return 0, err
		}
		s.ensured = true
	}

	index := s.next
	path := s.store.Join(container, strconv.Itoa(index))
	if err := s.registry.Save(ctx, s.store, path, value); err != nil {
		return 0, err
	}
	s.next++
	return index, nil
}

// Encode recursively converts a native value into a wire node tree.
// See the package documentation for the accepted value vocabulary.
// Values outside it are offered to options.Unsupported, then routed
// to the sink; with a nil sink such values fail the encode.
//
// Encode's only side effect is the subdirectories the sink creates
// for externally-persisted objects. The input graph must be acyclic —
// no cycle detection is performed.
func Encode(ctx context.Context, value any, sink *ExternalSink, options *EncodeOptions) (Node, error) {
	if options == nil {
		options = &EncodeOptions{}
	}
	e := &encoder{sink: sink, options: options}
	return e.encode(ctx, value)
}

type encoder struct {
	sink    *ExternalSink
	options *EncodeOptions
}

func (e *encoder) encode(ctx context.Context, value any) (Node, error) {
	switch v := value.(type) {
	case nil:
		return &NothingNode{}, nil

	case Node:
		// Pre-built wire nodes (including FactorNode, which has no
		// separate native form) pass through untouched. Marshal
		// validates them later.
		return v, nil

	case bool:
		return &BooleanNode{Values: []bool{v}, Scalar: true}, nil

	case string:
		return &StringNode{Values: []string{v}, Scalar: true}, nil

	case float64:
		return &NumberNode{Values: []float64{v}, Scalar: true}, nil

	case int:
		return scalarInteger(int64(v)), nil
	case int32:
		return scalarInteger(int64(v)), nil
	case int64:
		return scalarInteger(v), nil

	case []bool:
		return &BooleanNode{Values: v}, nil

	case []string:
		return &StringNode{Values: v}, nil

	case []float64:
		return &NumberNode{Values: v}, nil

	case []int32:
		return &IntegerNode{Values: v}, nil

	case []int:
		elements := make([]any, len(v))
		for i, value := range v {
			elements[i] = value
		}
		return buildVectorNode(KindInteger, elements, nil, false)

	case []int64:
		elements := make([]any, len(v))
		for i, value := range v {
			elements[i] = value
		}
		return buildVectorNode(KindInteger, elements, nil, false)

	case []any:
		return e.encodeUntypedSlice(ctx, v, nil)

	case *List:
		if v.Names != nil && len(v.Names) != len(v.Values) {
			return nil, fmt.Errorf("list has %d names for %d values", len(v.Names), len(v.Values))
		}
		return e.encodeList(ctx, v.Values, v.Names)

	case *Vector:
		return buildVectorNode(v.Kind, v.Values, v.Names, v.Scalar)

	case map[string]any:
		// Maps have no intrinsic order; keys are sorted so the same
		// map always encodes to the same named list.
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		values := make([]any, len(names))
		for i, name := range names {
			values[i] = v[name]
		}
		return e.encodeList(ctx, values, names)

	default:
		return e.encodeUnsupported(ctx, value)
	}
}

// scalarInteger builds the node for a bare native integer, promoting
// to a number scalar when the value does not fit int32.
func scalarInteger(value int64) Node {
	if fitsInt32(value) {
		return &IntegerNode{Values: []int32{int32(value)}, Scalar: true}
	}
	return &NumberNode{Values: []float64{float64(value)}, Scalar: true}
}

// encodeUntypedSlice classifies a []any: homogeneous primitive
// elements become the matching vector variant (nil elements become
// null markers); anything else — empty, all-null, heterogeneous, or
// containing non-primitives — becomes a generic list with each
// element encoded recursively.
func (e *encoder) encodeUntypedSlice(ctx context.Context, elements []any, names []string) (Node, error) {
	if kind, ok := classifyElements(elements); ok {
		return buildVectorNode(kind, elements, names, false)
	}
	return e.encodeList(ctx, elements, names)
}

func (e *encoder) encodeList(ctx context.Context, values []any, names []string) (Node, error) {
	node := &ListNode{Values: make([]Node, len(values)), Names: names}
	for i, value := range values {
		child, err := e.encode(ctx, value)
		if err != nil {
			return nil, fmt.Errorf("list element %d: %w", i, err)
		}
		node.Values[i] = child
	}
	return node, nil
}

// encodeUnsupported handles values outside the native vocabulary:
// the caller's override hook first, then the external sink.
func (e *encoder) encodeUnsupported(ctx context.Context, value any) (Node, error) {
	if e.options.Unsupported != nil {
		node, err := e.options.Unsupported(value)
		if err != nil {
			return nil, err
		}
		if node != nil {
			return node, nil
		}
	}

	if e.sink == nil {
		return nil, fmt.Errorf("cannot encode value of type %T: no external sink configured", value)
	}
	index, err := e.sink.save(ctx, value)
	if err != nil {
		return nil, err
	}
	return &ExternalNode{Index: index}, nil
}
