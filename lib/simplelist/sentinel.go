// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simplelist

import "math"

// Sentinel tokens for floating-point special values. JSON has no
// representation for NaN or the infinities, so number vectors carry
// them as these fixed strings. The mapping is total and lossless for
// IEEE-754 doubles: no finite double stringifies to a token, and the
// three tokens cover every non-finite value. Integer vectors never
// use sentinels — int32 cannot hold these values.
const (
	tokenNaN         = "NaN"
	tokenInfinity    = "Inf"
	tokenNegInfinity = "-Inf"
)

// sentinelToken returns the wire token for a non-finite double. The
// second result is false for finite values, which pass through as
// JSON numbers.
func sentinelToken(value float64) (string, bool) {
	switch {
	case math.IsNaN(value):
		return tokenNaN, true
	case math.IsInf(value, 1):
		return tokenInfinity, true
	case math.IsInf(value, -1):
		return tokenNegInfinity, true
	default:
		return "", false
	}
}

// sentinelValue returns the double a wire token stands for. The
// second result is false for strings that are not sentinel tokens.
func sentinelValue(token string) (float64, bool) {
	switch token {
	case tokenNaN:
		return math.NaN(), true
	case tokenInfinity:
		return math.Inf(1), true
	case tokenNegInfinity:
		return math.Inf(-1), true
	default:
		return 0, false
	}
}
