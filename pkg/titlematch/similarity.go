// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package titlematch

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Similarity returns a weighted fuzzy ratio between two strings in 0..100.
// It is symmetric, insensitive to token order, and monotonic in edit
// distance: identical inputs score 100, disjoint inputs score near 0.
//
// Both inputs are normalized before comparison, so callers may pass either
// raw or pre-normalized strings.
func Similarity(a, b string) int {
	a = Normalize(a)
	b = Normalize(b)

	if a == b {
		if a == "" {
			return 0
		}
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	best := ratio(a, b)
	if r := tokenSortRatio(a, b); r > best {
		best = r
	}
	if r := tokenSetRatio(a, b); r > best {
		best = r
	}
	return best
}

// ratio is the plain Levenshtein similarity scaled to 0..100.
func ratio(a, b string) int {
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}

	dist := fuzzy.LevenshteinDistance(a, b)
	if dist > longest {
		dist = longest
	}
	return (longest - dist) * 100 / longest
}

// tokenSortRatio compares the two strings with their tokens sorted, making
// the score insensitive to word order.
func tokenSortRatio(a, b string) int {
	return ratio(sortTokens(a), sortTokens(b))
}

// tokenSetRatio scores on the shared-token core plus each side's leftover
// tokens, which keeps extra trailing tags from dragging down otherwise
// identical titles.
func tokenSetRatio(a, b string) int {
	setA := tokenSet(a)
	setB := tokenSet(b)

	var common, onlyA, onlyB []string
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range setB {
		if _, ok := setA[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}

	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(common, " ")
	withA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := ratio(base, withA)
	if r := ratio(base, withB); r > best {
		best = r
	}
	if r := ratio(withA, withB); r > best {
		best = r
	}
	return best
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}
