// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package titlematch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/autobrr/fetcharr/pkg/releasename"
)

// DefaultThreshold is the empirically tuned floor for identity similarity.
// Call sites that need looser matching configure their own threshold.
const DefaultThreshold = 88

// Target is the identity being searched for, held constant for the
// duration of one orchestration call.
type Target struct {
	Title   string
	Year    int // 0 when absent
	Season  int // 0 when absent
	Episode int // 0 when absent
}

// TargetFromQuery derives a Target from a free-text query plus an optional
// explicit year hint. Season and episode tokens embedded in the query are
// promoted into the structured identity.
func TargetFromQuery(query string, year int) Target {
	parsed := releasename.Parse(query)

	target := Target{
		Title:   parsed.Title,
		Season:  parsed.Season,
		Episode: parsed.Episode,
	}
	if target.Title == "" {
		target.Title = query
	}
	if year > 0 {
		target.Year = year
	} else if parsed.Year > 0 {
		target.Year = parsed.Year
	}
	return target
}

// IsTV reports whether the target identifies an episode or season rather
// than a movie.
func (t Target) IsTV() bool {
	return t.Season > 0
}

// comparable returns the normalized "title year" string used for fuzzy
// comparison.
func (t Target) comparable() string {
	if t.Year > 0 {
		return Normalize(fmt.Sprintf("%s %d", t.Title, t.Year))
	}
	return Normalize(t.Title)
}

// MatchesIdentity reports whether a parsed candidate refers to the same
// movie or episode as the target. rawTitle is the unmodified source title,
// consulted for literal year and episode-token containment when parsing
// could not extract them. threshold is the minimum fuzzy similarity in
// 0..100; values <= 0 fall back to DefaultThreshold.
func MatchesIdentity(candidate releasename.ParsedName, target Target, rawTitle string, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	candComparable := Normalize(candidate.Title)
	if candidate.Year > 0 {
		candComparable = Normalize(fmt.Sprintf("%s %d", candidate.Title, candidate.Year))
	}

	if Similarity(target.comparable(), candComparable) < threshold {
		return false
	}

	if target.IsTV() {
		return matchesEpisode(candidate, target, rawTitle)
	}
	return matchesMovieYear(candidate, target, rawTitle)
}

func matchesMovieYear(candidate releasename.ParsedName, target Target, rawTitle string) bool {
	if target.Year == 0 {
		return true
	}
	if candidate.Year > 0 {
		return candidate.Year == target.Year
	}
	// No parsed year: require the raw title to literally carry the digits.
	return strings.Contains(rawTitle, strconv.Itoa(target.Year))
}

func matchesEpisode(candidate releasename.ParsedName, target Target, rawTitle string) bool {
	if target.Episode > 0 {
		if candidate.Season == target.Season && candidate.Episode == target.Episode {
			return true
		}
		if candidate.IsSeasonPack && candidate.Season == target.Season {
			return true
		}
		return containsAnyToken(rawTitle, episodeTokens(target.Season, target.Episode))
	}

	if candidate.Season == target.Season {
		return true
	}
	return containsAnyToken(rawTitle, seasonTokens(target.Season))
}

// episodeTokens enumerates the textual season/episode variants sources use:
// S01E02, S1E2, 01x02, 1x02, zero padded and not, case-insensitive.
func episodeTokens(season, episode int) []string {
	return []string{
		fmt.Sprintf("s%02de%02d", season, episode),
		fmt.Sprintf("s%de%d", season, episode),
		fmt.Sprintf("%02dx%02d", season, episode),
		fmt.Sprintf("%dx%02d", season, episode),
		fmt.Sprintf("%dx%d", season, episode),
	}
}

func seasonTokens(season int) []string {
	return []string{
		fmt.Sprintf("s%02d", season),
		fmt.Sprintf("s%d", season),
		fmt.Sprintf("season%02d", season),
		fmt.Sprintf("season%d", season),
	}
}

// containsAnyToken checks token containment against the lowered raw title
// with separator characters squeezed out, so "S01 E02" and "S01.E02" both
// count as S01E02.
func containsAnyToken(rawTitle string, tokens []string) bool {
	squeezed := squeeze(rawTitle)
	for _, tok := range tokens {
		if strings.Contains(squeezed, tok) {
			return true
		}
	}
	return false
}

func squeeze(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '.', '_', '-':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
