// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package search

import (
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/autobrr/fetcharr/pkg/releasename"
	"github.com/autobrr/fetcharr/pkg/titlematch"
)

// Pipeline applies the shared candidate filtering rules on behalf of an
// adapter: link presence, size cap, identity matching, scoring, the score
// floor, and duplicate suppression. One Pipeline serves one adapter
// invocation and is not safe for concurrent use.
type Pipeline struct {
	adapter   string
	req       FetchRequest
	target    titlematch.Target
	threshold int

	seen     map[string]struct{}
	accepted []Candidate

	dropped struct {
		unlinked   int
		oversized  int
		mismatched int
		unscored   int
		duplicate  int
	}
}

// NewPipeline builds the filter pipeline for one adapter invocation.
// threshold <= 0 falls back to the configured default identity floor.
func NewPipeline(adapterName string, req FetchRequest, threshold int) *Pipeline {
	if threshold <= 0 {
		threshold = req.Thresholds.Identity
	}
	return &Pipeline{
		adapter:   adapterName,
		req:       req,
		target:    titlematch.TargetFromQuery(req.FilterQuery(), req.Year),
		threshold: threshold,
		seen:      make(map[string]struct{}),
	}
}

// Ready reports whether candidates can be ranked at all. With no
// preference weights configured for the media type, the search yields
// nothing rather than ranking on unweighted signals; adapters should call
// this first and return early.
func (p *Pipeline) Ready() bool {
	if p.req.Prefs.IsEmpty() {
		log.Warn().
			Str("adapter", p.adapter).
			Str("media_type", string(p.req.MediaType)).
			Msg("No preference weights configured for media type, returning no candidates")
		return false
	}
	return true
}

// Offer runs one candidate through the shared rules, scoring and keeping
// it when everything passes. The candidate's Score, Codec, Year, and
// Uploader fields are populated by the pipeline.
func (p *Pipeline) Offer(c Candidate) bool {
	if strings.TrimSpace(c.Link) == "" {
		p.dropped.unlinked++
		return false
	}
	if p.req.MaxSizeGB > 0 && c.SizeGB > p.req.MaxSizeGB {
		p.dropped.oversized++
		return false
	}

	parsed := releasename.Parse(c.Title)
	threshold := p.thresholdFor(parsed)
	if !titlematch.MatchesIdentity(parsed, p.target, c.Title, threshold) {
		p.dropped.mismatched++
		return false
	}

	if key := p.dedupKey(c); key != "" {
		if _, dup := p.seen[key]; dup {
			p.dropped.duplicate++
			return false
		}
		p.seen[key] = struct{}{}
	}

	if c.Uploader == "" {
		c.Uploader = AnonymousUploader
	}
	if c.Year == 0 {
		c.Year = parsed.Year
	}
	if c.Codec == "" {
		c.Codec = DetectCodec(c.Title)
	}

	c.Score = Score(c.Title, c.Uploader, p.req.Prefs, c.Seeders, c.Leechers)
	if c.Score <= 0 {
		p.dropped.unscored++
		return false
	}

	p.accepted = append(p.accepted, c)
	return true
}

// thresholdFor picks the similarity floor for one candidate. Season packs
// standing in for a single episode and candidates with no parsed
// structure at all get the looser configured floors.
func (p *Pipeline) thresholdFor(parsed releasename.ParsedName) int {
	if p.target.Season > 0 && p.target.Episode > 0 && parsed.IsSeasonPack {
		if p.req.Thresholds.PackIdentity > 0 {
			return p.req.Thresholds.PackIdentity
		}
	}
	if parsed.MediaType == releasename.MediaTypeUnknown && p.target.Year == 0 {
		if p.req.Thresholds.TitleOnly > 0 {
			return p.req.Thresholds.TitleOnly
		}
	}
	return p.threshold
}

// dedupKey collapses the same release listed twice by one source. Magnet
// links dedupe on the link itself (which embeds the info-hash); otherwise
// the normalized title plus size rounded to the nearest tenth of a GB.
func (p *Pipeline) dedupKey(c Candidate) string {
	if strings.HasPrefix(c.Link, "magnet:") {
		return c.Link
	}
	normalized := titlematch.Normalize(c.Title)
	if normalized == "" {
		return ""
	}
	return normalized + "|" + sizeBucket(c.SizeGB)
}

// Results returns the accepted candidates in offer order and logs the
// drop tally once per invocation.
func (p *Pipeline) Results() []Candidate {
	total := p.dropped.unlinked + p.dropped.oversized + p.dropped.mismatched + p.dropped.unscored + p.dropped.duplicate
	if total > 0 {
		log.Debug().
			Str("adapter", p.adapter).
			Int("accepted", len(p.accepted)).
			Int("unlinked", p.dropped.unlinked).
			Int("oversized", p.dropped.oversized).
			Int("mismatched", p.dropped.mismatched).
			Int("unscored", p.dropped.unscored).
			Int("duplicate", p.dropped.duplicate).
			Msg("Filtered candidates")
	}
	return p.accepted
}

// sizeBucket rounds to 0.1 GB so identical releases reported with
// rounding jitter still collapse to one key.
func sizeBucket(sizeGB float64) string {
	return strconv.FormatFloat(math.Round(sizeGB*10)/10, 'f', 1, 64)
}
