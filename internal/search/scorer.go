// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package search

import (
	"strings"

	"github.com/autobrr/fetcharr/internal/domain"
)

// Score computes the desirability of a candidate. It is deterministic and
// side-effect free.
//
// Every codec key whose name appears as a case-insensitive substring of
// the title adds its weight; multiple matches all add, so synonym entries
// like x265 and HEVC double-count when a title carries both tokens. The
// same substring rule applies to resolution keys. The uploader weight is
// added only on an exact case-insensitive match. Raw seeders are added
// unweighted on top: at scale availability dominates preference points,
// which is intentional.
//
// Leechers are accepted for symmetry with the candidate model but do not
// currently contribute.
func Score(title, uploader string, prefs domain.PreferenceWeights, seeders, leechers int) int {
	_ = leechers

	score := 0
	lowerTitle := strings.ToLower(title)

	for codec, weight := range prefs.Codecs {
		if strings.Contains(lowerTitle, strings.ToLower(codec)) {
			score += weight
		}
	}
	for resolution, weight := range prefs.Resolutions {
		if strings.Contains(lowerTitle, strings.ToLower(resolution)) {
			score += weight
		}
	}
	for name, weight := range prefs.Uploaders {
		if strings.EqualFold(uploader, name) {
			score += weight
		}
	}

	return score + seeders
}
