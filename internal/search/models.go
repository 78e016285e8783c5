// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package search contains the orchestration and ranking core: it fans a
// query out to every enabled site adapter, tolerates individual failures,
// and merges the scored candidates into one globally ranked list.
package search

import (
	"github.com/moistari/rls"

	"github.com/autobrr/fetcharr/internal/domain"
	"github.com/autobrr/fetcharr/pkg/titlematch"
)

// Request is one search invocation. Query is the text sent to the remote
// sites (possibly year-augmented); BaseQueryForFilter, when set, is the
// un-augmented query used for identity matching.
type Request struct {
	Query     string           `json:"query"`
	MediaType domain.MediaType `json:"mediaType"`

	// Year restricts movie matches to an exact release year.
	Year int `json:"year,omitempty"`
	// Resolution is a filter hint passed through to adapters; the
	// orchestrator itself does not enforce it.
	Resolution string `json:"resolution,omitempty"`
	// BaseQueryForFilter is used by adapters whose search string differs
	// from the identity being matched.
	BaseQueryForFilter string `json:"baseQueryForFilter,omitempty"`
	// Limit bounds per-adapter output for adapters that sort locally.
	Limit int `json:"limit,omitempty"`
}

// FilterQuery returns the query string adapters should match identities
// against.
func (r Request) FilterQuery() string {
	if r.BaseQueryForFilter != "" {
		return r.BaseQueryForFilter
	}
	return r.Query
}

// Target derives the identity to match candidates against, held constant
// for the whole orchestration call.
func (r Request) Target() titlematch.Target {
	return titlematch.TargetFromQuery(r.FilterQuery(), r.Year)
}

// Candidate is one normalized, scored search result. It lives only for
// the duration of one orchestration call and is never mutated after
// scoring.
type Candidate struct {
	// Title is the raw title exactly as displayed by the source.
	Title string `json:"title"`
	// Source is the adapter/site name the candidate came from.
	Source string `json:"source"`
	// Link is the magnet or torrent URL. Candidates without one are
	// dropped before they reach the orchestrator.
	Link string `json:"link"`
	// InfoURL is the details page, when the source has one.
	InfoURL string `json:"infoUrl,omitempty"`
	// Uploader defaults to "Anonymous" when the source hides it.
	Uploader string  `json:"uploader"`
	SizeGB   float64 `json:"sizeGb"`
	// Codec is the detected video codec token (e.g. "x265"), when any.
	Codec    string `json:"codec,omitempty"`
	Seeders  int    `json:"seeders"`
	Leechers int    `json:"leechers"`
	// Year is the candidate's own parsed release year, when any.
	Year  int `json:"year,omitempty"`
	Score int `json:"score"`
}

// AnonymousUploader is the uploader recorded when a source does not
// expose one.
const AnonymousUploader = "Anonymous"

// DetectCodec extracts a video codec token from a raw release title using
// the rls release parser. Returns "" when none is detected.
func DetectCodec(rawTitle string) string {
	if rawTitle == "" {
		return ""
	}
	release := rls.ParseString(rawTitle)
	if len(release.Codec) == 0 {
		return ""
	}
	return release.Codec[0]
}
