// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/fetcharr/internal/domain"
)

func movieFetchRequest() FetchRequest {
	return FetchRequest{
		Query:      "Alien",
		MediaType:  domain.MediaTypeMovie,
		Prefs:      moviePrefs(),
		Year:       1979,
		MaxSizeGB:  8,
		Thresholds: domain.DefaultThresholds(),
	}
}

func TestPipelineReady(t *testing.T) {
	req := movieFetchRequest()
	assert.True(t, NewPipeline("test", req, 0).Ready())

	req.Prefs = domain.PreferenceWeights{}
	assert.False(t, NewPipeline("test", req, 0).Ready())
}

func TestPipelineDropsMissingLink(t *testing.T) {
	p := NewPipeline("test", movieFetchRequest(), 0)

	accepted := p.Offer(Candidate{
		Title:   "Alien.1979.1080p.x265",
		Source:  "test",
		Link:    "",
		SizeGB:  2,
		Seeders: 10,
	})

	assert.False(t, accepted)
	assert.Empty(t, p.Results())
}

func TestPipelineDropsOversized(t *testing.T) {
	p := NewPipeline("test", movieFetchRequest(), 0)

	accepted := p.Offer(Candidate{
		Title:   "Alien.1979.2160p.x265",
		Source:  "test",
		Link:    "magnet:?xt=urn:btih:aaa",
		SizeGB:  9,
		Seeders: 500,
	})

	assert.False(t, accepted, "9 GB exceeds the 8 GB cap regardless of score")
	assert.Empty(t, p.Results())
}

func TestPipelineDropsIdentityMismatch(t *testing.T) {
	p := NewPipeline("test", movieFetchRequest(), 0)

	accepted := p.Offer(Candidate{
		Title:   "Completely.Different.Movie.1979.1080p",
		Source:  "test",
		Link:    "magnet:?xt=urn:btih:bbb",
		SizeGB:  2,
		Seeders: 10,
	})

	assert.False(t, accepted)
}

func TestPipelineDropsZeroScore(t *testing.T) {
	req := movieFetchRequest()
	p := NewPipeline("test", req, 0)

	// No preference tokens in the title and zero seeders leaves score 0.
	accepted := p.Offer(Candidate{
		Title:   "Alien.1979.DVDRip",
		Source:  "test",
		Link:    "magnet:?xt=urn:btih:ccc",
		SizeGB:  1,
		Seeders: 0,
	})

	assert.False(t, accepted)
}

func TestPipelineAcceptsAndPopulates(t *testing.T) {
	p := NewPipeline("test", movieFetchRequest(), 0)

	accepted := p.Offer(Candidate{
		Title:   "Alien.1979.1080p.BluRay.x265",
		Source:  "test",
		Link:    "magnet:?xt=urn:btih:ddd",
		SizeGB:  2.3,
		Seeders: 5,
	})
	require.True(t, accepted)

	results := p.Results()
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, AnonymousUploader, got.Uploader)
	assert.Equal(t, 1979, got.Year)
	assert.Equal(t, 10+6+5, got.Score)
	assert.NotEmpty(t, got.Codec)
}

func TestPipelineDeduplicates(t *testing.T) {
	p := NewPipeline("test", movieFetchRequest(), 0)

	c := Candidate{
		Title:   "Alien.1979.1080p.BluRay.x265",
		Source:  "test",
		Link:    "magnet:?xt=urn:btih:eee",
		SizeGB:  2.3,
		Seeders: 5,
	}

	assert.True(t, p.Offer(c))
	assert.False(t, p.Offer(c), "identical magnet must dedupe")
	require.Len(t, p.Results(), 1)
}

func TestPipelineSeasonPackStandsInForEpisode(t *testing.T) {
	req := FetchRequest{
		Query:      "Example Show S02E01",
		MediaType:  domain.MediaTypeTV,
		Prefs:      moviePrefs(),
		MaxSizeGB:  50,
		Thresholds: domain.DefaultThresholds(),
	}
	p := NewPipeline("test", req, 0)

	accepted := p.Offer(Candidate{
		Title:   "Example.Show.S02.Complete.1080p.x265",
		Source:  "test",
		Link:    "magnet:?xt=urn:btih:fff",
		SizeGB:  20,
		Seeders: 3,
	})
	assert.True(t, accepted)

	rejected := p.Offer(Candidate{
		Title:   "Example.Show.S01E02.1080p.x265",
		Source:  "test",
		Link:    "magnet:?xt=urn:btih:ggg",
		SizeGB:  1,
		Seeders: 3,
	})
	assert.False(t, rejected, "transposed season/episode must not match")
}
