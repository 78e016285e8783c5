// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package titlematch canonicalizes free-text titles and decides whether a
// parsed candidate identity matches the identity being searched for.
package titlematch

import (
	"strings"
	"unicode"
)

// stopWords are dropped during normalization so that articles and
// connectives never affect similarity.
var stopWords = map[string]struct{}{
	"the": {},
	"a":   {},
	"an":  {},
	"of":  {},
	"and": {},
}

// Normalize lower-cases the input, replaces every non-alphanumeric run with
// a single space, and removes stop words. The result is for comparison
// only, never for display. Normalize is idempotent.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	kept := fields[:0]
	for _, f := range fields {
		if _, ok := stopWords[f]; ok {
			continue
		}
		kept = append(kept, f)
	}

	return strings.Join(kept, " ")
}
