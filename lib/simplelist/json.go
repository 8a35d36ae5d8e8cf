// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simplelist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Marshal serializes a node tree to its wire JSON form. Every node is
// validated as it is visited; a structurally invalid tree (name or
// null-marker length mismatches, scalar flags on multi-element
// vectors) fails without producing output.
func Marshal(node Node) ([]byte, error) {
	tree, err := wireTree(node)
	if err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}

// wireTree converts a node to the generic JSON value tree that
// Marshal serializes. Number elements pass through the sentinel codec
// here, so the resulting tree contains no non-finite floats and is
// always serializable.
func wireTree(node Node) (any, error) {
	if node == nil {
		return nil, fmt.Errorf("cannot marshal nil node")
	}
	if err := node.validate(); err != nil {
		return nil, err
	}

	switch n := node.(type) {
	case *ListNode:
		values := make([]any, len(n.Values))
		for i, child := range n.Values {
			tree, err := wireTree(child)
			if err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
			values[i] = tree
		}
		object := map[string]any{"type": TypeList, "values": values}
		if n.Names != nil {
			object["names"] = n.Names
		}
		return object, nil

	case *IntegerNode:
		elements := make([]any, len(n.Values))
		for i, value := range n.Values {
			if n.isNull(i) {
				continue
			}
			elements[i] = value
		}
		return wireVector(TypeInteger, elements, n.Names, n.Scalar), nil

	case *NumberNode:
		elements := make([]any, len(n.Values))
		for i, value := range n.Values {
			if n.isNull(i) {
				continue
			}
			if token, special := sentinelToken(value); special {
				elements[i] = token
			} else {
				elements[i] = value
			}
		}
		return wireVector(TypeNumber, elements, n.Names, n.Scalar), nil

	case *StringNode:
		elements := make([]any, len(n.Values))
		for i, value := range n.Values {
			if n.isNull(i) {
				continue
			}
			elements[i] = value
		}
		return wireVector(TypeString, elements, n.Names, n.Scalar), nil

	case *BooleanNode:
		elements := make([]any, len(n.Values))
		for i, value := range n.Values {
			if n.isNull(i) {
				continue
			}
			elements[i] = value
		}
		return wireVector(TypeBoolean, elements, n.Names, n.Scalar), nil

	case *FactorNode:
		elements := make([]any, len(n.Codes))
		for i, code := range n.Codes {
			if n.Null != nil && n.Null[i] {
				continue
			}
			elements[i] = code
		}
		object := wireVector(TypeFactor, elements, n.Names, n.Scalar)
		object["levels"] = n.Levels
		return object, nil

	case *NothingNode:
		return map[string]any{"type": TypeNothing}, nil

	case *ExternalNode:
		return map[string]any{"type": TypeExternal, "index": n.Index}, nil

	default:
		return nil, &UnknownTypeError{Tag: node.Type()}
	}
}

// wireVector assembles a vector node's wire object. A scalar vector
// emits its single element as a bare JSON value instead of a
// one-element array — this is how scalar-ness travels on the wire.
func wireVector(tag string, elements []any, names []string, scalar bool) map[string]any {
	var values any = elements
	if scalar {
		values = elements[0]
	}
	object := map[string]any{"type": tag, "values": values}
	if names != nil {
		object["names"] = names
	}
	return object
}

func (n *IntegerNode) isNull(i int) bool { return n.Null != nil && n.Null[i] }

func (n *NumberNode) isNull(i int) bool { return n.Null != nil && n.Null[i] }

func (n *StringNode) isNull(i int) bool { return n.Null != nil && n.Null[i] }

func (n *BooleanNode) isNull(i int) bool { return n.Null != nil && n.Null[i] }

// UnmarshalNode parses wire JSON into a node tree. Structural
// invariants are enforced during parsing: a type tag outside the
// closed set fails with [UnknownTypeError], and name or level
// violations fail with descriptive errors.
func UnmarshalNode(data []byte) (Node, error) {
	return parseNode(data)
}

// nodeEnvelope is the superset of fields a wire node can carry. Each
// type tag consumes the fields it defines and ignores none — unknown
// JSON fields are tolerated for forward compatibility, matching the
// behavior of other implementations of the format.
type nodeEnvelope struct {
	Type   *string         `json:"type"`
	Values json.RawMessage `json:"values"`
	Names  []string        `json:"names"`
	Levels []string        `json:"levels"`
	Index  *int            `json:"index"`
}

func parseNode(data []byte) (Node, error) {
	var envelope nodeEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parsing node: %w", err)
	}
	if envelope.Type == nil {
		return nil, fmt.Errorf("node has no type field")
	}

	var node Node
	var err error
	switch *envelope.Type {
	case TypeList:
		node, err = parseList(envelope)
	case TypeInteger:
		node, err = parseIntegerVector(envelope)
	case TypeNumber:
		node, err = parseNumberVector(envelope)
	case TypeString:
		node, err = parseStringVector(envelope)
	case TypeBoolean:
		node, err = parseBooleanVector(envelope)
	case TypeFactor:
		node, err = parseFactor(envelope)
	case TypeNothing:
		node = &NothingNode{}
	case TypeExternal:
		if envelope.Index == nil {
			return nil, fmt.Errorf("external node has no index field")
		}
		node = &ExternalNode{Index: *envelope.Index}
	default:
		return nil, &UnknownTypeError{Tag: *envelope.Type}
	}
	if err != nil {
		return nil, err
	}

	if err := node.validate(); err != nil {
		return nil, err
	}
	return node, nil
}

func parseList(envelope nodeEnvelope) (Node, error) {
	if envelope.Values == nil {
		return nil, fmt.Errorf("list node has no values field")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(envelope.Values, &items); err != nil {
		return nil, fmt.Errorf("list values must be an array: %w", err)
	}

	values := make([]Node, len(items))
	for i, item := range items {
		child, err := parseNode(item)
		if err != nil {
			return nil, fmt.Errorf("list element %d: %w", i, err)
		}
		values[i] = child
	}
	return &ListNode{Values: values, Names: envelope.Names}, nil
}

// vectorElements splits a vector's values field into its elements.
// The second result reports the bare-scalar wire form (a single
// non-array value).
func vectorElements(tag string, raw json.RawMessage) ([]json.RawMessage, bool, error) {
	if raw == nil {
		return nil, false, fmt.Errorf("%s node has no values field", tag)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, false, fmt.Errorf("%s values: %w", tag, err)
		}
		return items, false, nil
	}
	return []json.RawMessage{trimmed}, true, nil
}

// isNullElement reports whether a raw element is the JSON null
// literal (a missing-value marker).
func isNullElement(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func parseIntegerVector(envelope nodeEnvelope) (Node, error) {
	elements, scalar, err := vectorElements(TypeInteger, envelope.Values)
	if err != nil {
		return nil, err
	}

	node := &IntegerNode{
		Values: make([]int32, len(elements)),
		Names:  envelope.Names,
		Scalar: scalar,
	}
	for i, element := range elements {
		if isNullElement(element) {
			node.setNull(i)
			continue
		}
		var number json.Number
		if err := json.Unmarshal(element, &number); err != nil {
			return nil, fmt.Errorf("integer element %d: %w", i, err)
		}
		value, err := number.Int64()
		if err != nil {
			return nil, fmt.Errorf("integer element %d: %s is not an integer", i, number)
		}
		if value < math.MinInt32 || value > math.MaxInt32 {
			return nil, fmt.Errorf("integer element %d: %d is outside the 32-bit signed range", i, value)
		}
		node.Values[i] = int32(value)
	}
	return node, nil
}

func (n *IntegerNode) setNull(i int) {
	if n.Null == nil {
		n.Null = make([]bool, len(n.Values))
	}
	n.Null[i] = true
}

func parseNumberVector(envelope nodeEnvelope) (Node, error) {
	elements, scalar, err := vectorElements(TypeNumber, envelope.Values)
	if err != nil {
		return nil, err
	}

	node := &NumberNode{
		Values: make([]float64, len(elements)),
		Names:  envelope.Names,
		Scalar: scalar,
	}
	for i, element := range elements {
		if isNullElement(element) {
			if node.Null == nil {
				node.Null = make([]bool, len(elements))
			}
			node.Null[i] = true
			continue
		}
		trimmed := bytes.TrimSpace(element)
		if len(trimmed) > 0 && trimmed[0] == '"' {
			var token string
			if err := json.Unmarshal(trimmed, &token); err != nil {
				return nil, fmt.Errorf("number element %d: %w", i, err)
			}
			value, special := sentinelValue(token)
			if !special {
				return nil, fmt.Errorf("number element %d: %q is not a sentinel token", i, token)
			}
			node.Values[i] = value
			continue
		}
		var value float64
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return nil, fmt.Errorf("number element %d: %w", i, err)
		}
		node.Values[i] = value
	}
	return node, nil
}

func parseStringVector(envelope nodeEnvelope) (Node, error) {
	elements, scalar, err := vectorElements(TypeString, envelope.Values)
	if err != nil {
		return nil, err
	}

	node := &StringNode{
		Values: make([]string, len(elements)),
		Names:  envelope.Names,
		Scalar: scalar,
	}
	for i, element := range elements {
		if isNullElement(element) {
			if node.Null == nil {
				node.Null = make([]bool, len(elements))
			}
			node.Null[i] = true
			continue
		}
		if err := json.Unmarshal(element, &node.Values[i]); err != nil {
			return nil, fmt.Errorf("string element %d: %w", i, err)
		}
	}
	return node, nil
}

func parseBooleanVector(envelope nodeEnvelope) (Node, error) {
	elements, scalar, err := vectorElements(TypeBoolean, envelope.Values)
	if err != nil {
		return nil, err
	}

	node := &BooleanNode{
		Values: make([]bool, len(elements)),
		Names:  envelope.Names,
		Scalar: scalar,
	}
	for i, element := range elements {
		if isNullElement(element) {
			if node.Null == nil {
				node.Null = make([]bool, len(elements))
			}
			node.Null[i] = true
			continue
		}
		if err := json.Unmarshal(element, &node.Values[i]); err != nil {
			return nil, fmt.Errorf("boolean element %d: %w", i, err)
		}
	}
	return node, nil
}

func parseFactor(envelope nodeEnvelope) (Node, error) {
	if envelope.Levels == nil {
		return nil, fmt.Errorf("factor node has no levels field")
	}
	elements, scalar, err := vectorElements(TypeFactor, envelope.Values)
	if err != nil {
		return nil, err
	}

	node := &FactorNode{
		Codes:  make([]int32, len(elements)),
		Levels: envelope.Levels,
		Names:  envelope.Names,
		Scalar: scalar,
	}
	for i, element := range elements {
		if isNullElement(element) {
			if node.Null == nil {
				node.Null = make([]bool, len(elements))
			}
			node.Null[i] = true
			continue
		}
		var number json.Number
		if err := json.Unmarshal(element, &number); err != nil {
			return nil, fmt.Errorf("factor code %d: %w", i, err)
		}
		code, err := number.Int64()
		if err != nil {
			return nil, fmt.Errorf("factor code %d: %s is not an integer", i, number)
		}
		if code < math.MinInt32 || code > math.MaxInt32 {
			return nil, fmt.Errorf("factor code %d: %d is outside the 32-bit signed range", i, code)
		}
		node.Codes[i] = int32(code)
	}
	return node, nil
}
