// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simplelist

import (
	"fmt"
	"math"
)

// fitsInt32 reports whether an integer is representable in the wire
// format's 32-bit signed integer type.
func fitsInt32(value int64) bool {
	return value >= math.MinInt32 && value <= math.MaxInt32
}

// intValue extracts a native integer from a primitive element.
func intValue(element any) (int64, bool) {
	switch v := element.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}

// classifyElements inspects the elements of an untyped collection and
// reports the vector kind they map to. Nil elements (missing values)
// are compatible with every kind. The second result is false when no
// vector kind applies: the collection is empty, all-null, or
// heterogeneous, and must be encoded as a generic list instead —
// element type cannot be inferred from nothing, and mixed types have
// no vector representation.
//
// When integer and floating-point elements are mixed, the collection
// classifies as a number vector. The string/boolean/number check
// order is fixed so classification is deterministic.
func classifyElements(elements []any) (Kind, bool) {
	var hasString, hasBoolean, hasInteger, hasNumber, hasOther bool
	nonNull := 0

	for _, element := range elements {
		if element == nil {
			continue
		}
		nonNull++
		switch element.(type) {
		case string:
			hasString = true
		case bool:
			hasBoolean = true
		case int, int32, int64:
			hasInteger = true
		case float64:
			hasNumber = true
		default:
			hasOther = true
		}
	}

	if nonNull == 0 || hasOther {
		return 0, false
	}

	switch {
	case hasString && !hasBoolean && !hasInteger && !hasNumber:
		return KindString, true
	case hasBoolean && !hasString && !hasInteger && !hasNumber:
		return KindBoolean, true
	case hasNumber && !hasString && !hasBoolean:
		return KindNumber, true
	case hasInteger && !hasString && !hasBoolean:
		return KindInteger, true
	default:
		return 0, false
	}
}

// buildVectorNode assembles the wire node for a classified vector.
// An integer vector containing any value outside the 32-bit signed
// range is promoted to a number vector — the promotion is one-way and
// happens here, so IntegerNode values are always in range by
// construction.
func buildVectorNode(kind Kind, elements []any, names []string, scalar bool) (Node, error) {
	if kind == KindInteger && integerNeedsPromotion(elements) {
		kind = KindNumber
	}

	var null []bool
	markNull := func(i int) {
		if null == nil {
			null = make([]bool, len(elements))
		}
		null[i] = true
	}

	switch kind {
	case KindInteger:
		values := make([]int32, len(elements))
		for i, element := range elements {
			if element == nil {
				markNull(i)
				continue
			}
			value, ok := intValue(element)
			if !ok {
				return nil, fmt.Errorf("integer vector element %d is %T, want an integer", i, element)
			}
			values[i] = int32(value)
		}
		return &IntegerNode{Values: values, Null: null, Names: names, Scalar: scalar}, nil

	case KindNumber:
		values := make([]float64, len(elements))
		for i, element := range elements {
			if element == nil {
				markNull(i)
				continue
			}
			if value, ok := intValue(element); ok {
				values[i] = float64(value)
				continue
			}
			value, ok := element.(float64)
			if !ok {
				return nil, fmt.Errorf("number vector element %d is %T, want a number", i, element)
			}
			values[i] = value
		}
		return &NumberNode{Values: values, Null: null, Names: names, Scalar: scalar}, nil

	case KindString:
		values := make([]string, len(elements))
		for i, element := range elements {
			if element == nil {
				markNull(i)
				continue
			}
			value, ok := element.(string)
			if !ok {
				return nil, fmt.Errorf("string vector element %d is %T, want a string", i, element)
			}
			values[i] = value
		}
		return &StringNode{Values: values, Null: null, Names: names, Scalar: scalar}, nil

	case KindBoolean:
		values := make([]bool, len(elements))
		for i, element := range elements {
			if element == nil {
				markNull(i)
				continue
			}
			value, ok := element.(bool)
			if !ok {
				return nil, fmt.Errorf("boolean vector element %d is %T, want a boolean", i, element)
			}
			values[i] = value
		}
		return &BooleanNode{Values: values, Null: null, Names: names, Scalar: scalar}, nil

	default:
		return nil, fmt.Errorf("unrecognized vector kind %v", kind)
	}
}

// integerNeedsPromotion reports whether any integer element falls
// outside the 32-bit signed range.
func integerNeedsPromotion(elements []any) bool {
	for _, element := range elements {
		if value, ok := intValue(element); ok && !fitsInt32(value) {
			return true
		}
	}
	return false
}
