// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package releasename parses release-style titles into structured metadata.
// It is a pure string transformation with no I/O; callers feed it raw titles
// as displayed by an index site and get back the best-effort identity.
package releasename

import (
	"regexp"
	"strconv"
	"strings"
)

// MediaType classifies what a release name refers to.
type MediaType string

const (
	MediaTypeMovie   MediaType = "movie"
	MediaTypeTV      MediaType = "tv"
	MediaTypeUnknown MediaType = "unknown"
)

// ParsedName is the structured identity extracted from a raw release title.
// Episode is only meaningful when Season is set; IsSeasonPack implies the
// release bundles a full season and Episode is zero.
type ParsedName struct {
	MediaType    MediaType
	Title        string
	Year         int // 0 when absent
	Season       int // 0 when absent
	Episode      int // 0 when absent
	IsSeasonPack bool
}

var (
	// Season/episode tokens rely on exact adjacency, so they are matched on
	// the raw string before separators are collapsed.
	seasonEpisodeRe = regexp.MustCompile(`(?i)\bS(\d{1,2})[ ._-]?E(\d{1,3})\b`)
	crossEpisodeRe  = regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{2,3})\b`)
	seasonWordRe    = regexp.MustCompile(`(?i)\bseason[ ._-]*(\d{1,2})\b`)
	seasonRangeRe   = regexp.MustCompile(`(?i)\bS(\d{1,2})[ ._-]*-[ ._-]*S?(\d{1,2})\b`)
	seasonOnlyRe    = regexp.MustCompile(`(?i)\bS(\d{1,2})\b`)

	yearRe = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

	separatorReplacer = strings.NewReplacer(".", " ", "_", " ", "-", " ")
	illegalReplacer   = strings.NewReplacer(`\`, "", "/", "", ":", "", "*", "", "?", "", `"`, "", "<", "", ">", "", "|", "")

	bracketTagRe = regexp.MustCompile(`[\[(][^])]*[])]`)
)

// Parse extracts structured metadata from a raw release title. It never
// fails; input with no recognizable season/episode or year tokens yields
// MediaTypeUnknown with a cleaned best-effort title.
func Parse(raw string) ParsedName {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ParsedName{MediaType: MediaTypeUnknown}
	}

	if parsed, ok := parseEpisode(raw); ok {
		return parsed
	}
	if parsed, ok := parseSeasonPack(raw); ok {
		return parsed
	}
	if parsed, ok := parseMovie(raw); ok {
		return parsed
	}

	return ParsedName{
		MediaType: MediaTypeUnknown,
		Title:     cleanTitle(bracketTagRe.ReplaceAllString(raw, " ")),
	}
}

func parseEpisode(raw string) (ParsedName, bool) {
	if m := seasonEpisodeRe.FindStringSubmatchIndex(raw); m != nil {
		season := atoi(raw[m[2]:m[3]])
		episode := atoi(raw[m[4]:m[5]])
		return episodeName(raw[:m[0]], raw, season, episode), true
	}
	if m := crossEpisodeRe.FindStringSubmatchIndex(raw); m != nil {
		season := atoi(raw[m[2]:m[3]])
		episode := atoi(raw[m[4]:m[5]])
		return episodeName(raw[:m[0]], raw, season, episode), true
	}
	return ParsedName{}, false
}

func episodeName(prefix, raw string, season, episode int) ParsedName {
	parsed := ParsedName{
		MediaType: MediaTypeTV,
		Title:     cleanTitle(prefix),
		Season:    season,
		Episode:   episode,
	}
	if parsed.Title == "" {
		parsed.Title = cleanTitle(raw)
	}
	if parsed.Episode == 0 {
		parsed.IsSeasonPack = true
	}
	if year := findYear(prefix); year > 0 {
		parsed.Year = year
	}
	return parsed
}

func parseSeasonPack(raw string) (ParsedName, bool) {
	if m := seasonRangeRe.FindStringSubmatchIndex(raw); m != nil {
		return packName(raw[:m[0]], atoi(raw[m[2]:m[3]])), true
	}
	if m := seasonWordRe.FindStringSubmatchIndex(raw); m != nil {
		return packName(raw[:m[0]], atoi(raw[m[2]:m[3]])), true
	}
	if m := seasonOnlyRe.FindStringSubmatchIndex(raw); m != nil {
		// A bare S<NN> with no episode marker is a full-season release.
		return packName(raw[:m[0]], atoi(raw[m[2]:m[3]])), true
	}
	return ParsedName{}, false
}

func packName(prefix string, season int) ParsedName {
	parsed := ParsedName{
		MediaType:    MediaTypeTV,
		Title:        cleanTitle(prefix),
		Season:       season,
		IsSeasonPack: true,
	}
	if year := findYear(prefix); year > 0 {
		parsed.Year = year
	}
	return parsed
}

func parseMovie(raw string) (ParsedName, bool) {
	m := yearRe.FindStringIndex(raw)
	if m == nil {
		return ParsedName{}, false
	}

	// Everything after the year token is resolution/codec/group noise and is
	// excluded from the title.
	title := cleanTitle(raw[:m[0]])
	if title == "" {
		// Titles that are themselves a year ("1917", "2012") leave an empty
		// prefix; fall back to the full cleaned string.
		title = cleanTitle(raw)
	}

	return ParsedName{
		MediaType: MediaTypeMovie,
		Title:     title,
		Year:      atoi(raw[m[0]:m[1]]),
	}, true
}

func findYear(s string) int {
	if m := yearRe.FindString(s); m != "" {
		return atoi(m)
	}
	return 0
}

// cleanTitle collapses separators to spaces, strips characters illegal in
// filesystem names, and trims surrounding bracket remnants.
func cleanTitle(s string) string {
	s = separatorReplacer.Replace(s)
	s = illegalReplacer.Replace(s)
	s = strings.Trim(s, " ([])")
	return strings.Join(strings.Fields(s), " ")
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
