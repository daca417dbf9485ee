// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

package resolve

import "math"

// Unreachable is the distance reported for strings beyond the length cap.
const Unreachable = math.MaxInt

// Distance is the Levenshtein distance between a and b, counted in bytes.
// If either string is longer than maxLen the result is Unreachable.
func Distance(a, b string, maxLen int) int {
	if len(a) > maxLen || len(b) > maxLen {
		return Unreachable
	}
	if a == b {
		return 0
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
