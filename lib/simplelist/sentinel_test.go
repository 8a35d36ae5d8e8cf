// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simplelist

import (
	"math"
	"testing"
)

func TestSentinelTokens(t *testing.T) {
	cases := []struct {
		name  string
		value float64
		token string
	}{
		{"nan", math.NaN(), "NaN"},
		{"positive infinity", math.Inf(1), "Inf"},
		{"negative infinity", math.Inf(-1), "-Inf"},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			token, special := sentinelToken(testCase.value)
			if !special {
				t.Fatalf("sentinelToken(%v): not recognized as special", testCase.value)
			}
			if token != testCase.token {
				t.Errorf("sentinelToken(%v) = %q, want %q", testCase.value, token, testCase.token)
			}

			value, special := sentinelValue(token)
			if !special {
				t.Fatalf("sentinelValue(%q): not recognized", token)
			}
			if math.IsNaN(testCase.value) {
				if !math.IsNaN(value) {
					t.Errorf("sentinelValue(%q) = %v, want NaN", token, value)
				}
			} else if value != testCase.value {
				t.Errorf("sentinelValue(%q) = %v, want %v", token, value, testCase.value)
			}
		})
	}
}

func TestSentinelPassThrough(t *testing.T) {
	for _, value := range []float64{0, 1.5, -2.25, math.MaxFloat64, math.SmallestNonzeroFloat64} {
		if token, special := sentinelToken(value); special {
			t.Errorf("sentinelToken(%v) unexpectedly returned token %q", value, token)
		}
	}

	for _, token := range []string{"", "nan", "Infinity", "-Infinity", "inf", "1.5"} {
		if value, special := sentinelValue(token); special {
			t.Errorf("sentinelValue(%q) unexpectedly returned %v", token, value)
		}
	}
}
