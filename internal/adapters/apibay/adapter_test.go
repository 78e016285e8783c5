// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package apibay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/fetcharr/internal/domain"
	"github.com/autobrr/fetcharr/internal/search"
)

const gib = int64(1024 * 1024 * 1024)

func fetchRequest(url string) search.FetchRequest {
	return search.FetchRequest{
		Query:     "Alien 1979",
		MediaType: domain.MediaTypeMovie,
		SearchURL: url + "/q.php?q={query}",
		Prefs: domain.PreferenceWeights{
			Codecs:      map[string]int{"x265": 10},
			Resolutions: map[string]int{"1080p": 6},
		},
		Year:               1979,
		BaseQueryForFilter: "Alien",
		MaxSizeGB:          20,
		Thresholds:         domain.DefaultThresholds(),
	}
}

func apiRow(id, name, hash string, seeders, leechers int, size int64, username string) map[string]string {
	return map[string]string{
		"id":        id,
		"name":      name,
		"info_hash": hash,
		"seeders":   strconv.Itoa(seeders),
		"leechers":  strconv.Itoa(leechers),
		"size":      strconv.FormatInt(size, 10),
		"username":  username,
	}
}

func apiServer(t *testing.T, rows []map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(rows))
	}))
}

func TestFetchBuildsMagnetCandidates(t *testing.T) {
	srv := apiServer(t, []map[string]string{
		apiRow("101", "Alien.1979.1080p.BluRay.x265", "AABBCCDDEE00112233445566778899AABBCCDDEE", 50, 10, 2*gib, "uploader1"),
	})
	defer srv.Close()

	candidates := NewAdapter().Fetch(context.Background(), fetchRequest(srv.URL))

	require.Len(t, candidates, 1)
	c := candidates[0]
	assert.Equal(t, "Alien.1979.1080p.BluRay.x265", c.Title)
	assert.Equal(t, AdapterName, c.Source)
	assert.Contains(t, c.Link, "magnet:?xt=urn:btih:aabbccddee00112233445566778899aabbccddee")
	assert.Contains(t, c.Link, "tr=")
	assert.Equal(t, "https://thepiratebay.org/description.php?id=101", c.InfoURL)
	assert.Equal(t, "uploader1", c.Uploader)
	assert.Equal(t, 50, c.Seeders)
	assert.Equal(t, 10, c.Leechers)
	assert.InDelta(t, 2.0, c.SizeGB, 0.001)
	assert.Equal(t, 10+6+50, c.Score)
}

func TestFetchSkipsNoResultsSentinel(t *testing.T) {
	srv := apiServer(t, []map[string]string{
		apiRow("0", "No results returned", "0000000000000000000000000000000000000000", 0, 0, 0, ""),
	})
	defer srv.Close()

	candidates := NewAdapter().Fetch(context.Background(), fetchRequest(srv.URL))

	assert.Empty(t, candidates)
}

func TestFetchDedupesByInfoHash(t *testing.T) {
	hash := "AABBCCDDEE00112233445566778899AABBCCDDEE"
	srv := apiServer(t, []map[string]string{
		apiRow("101", "Alien.1979.1080p.x265", hash, 50, 10, 2*gib, "uploader1"),
		apiRow("102", "Alien 1979 1080p x265 [repost]", hash, 3, 1, 2*gib, "mirror"),
	})
	defer srv.Close()

	candidates := NewAdapter().Fetch(context.Background(), fetchRequest(srv.URL))

	require.Len(t, candidates, 1)
	assert.Equal(t, "101", candidates[0].InfoURL[len(candidates[0].InfoURL)-3:])
}

func TestFetchSortsBySeedersThenScoreAndTruncates(t *testing.T) {
	srv := apiServer(t, []map[string]string{
		apiRow("1", "Alien.1979.1080p.x264", "1111111111111111111111111111111111111111", 5, 0, 2*gib, "a"),
		apiRow("2", "Alien.1979.1080p.x265", "2222222222222222222222222222222222222222", 90, 0, 2*gib, "b"),
		apiRow("3", "Alien.1979.2160p.x265", "3333333333333333333333333333333333333333", 5, 0, 4*gib, "c"),
	})
	defer srv.Close()

	req := fetchRequest(srv.URL)
	req.Limit = 2

	candidates := NewAdapter().Fetch(context.Background(), req)

	require.Len(t, candidates, 2)
	// 90 seeders first, then the tied-seeder pair resolved by score
	// (x265 outweighs x264).
	assert.Equal(t, 90, candidates[0].Seeders)
	assert.Equal(t, "Alien.1979.2160p.x265", candidates[1].Title)
}

func TestFetchRejectsIdentityMismatches(t *testing.T) {
	srv := apiServer(t, []map[string]string{
		apiRow("1", "Aliens.1986.1080p.x265", "1111111111111111111111111111111111111111", 80, 0, 2*gib, "a"),
		apiRow("2", "Alien.1979.1080p.x265", "2222222222222222222222222222222222222222", 5, 0, 2*gib, "b"),
	})
	defer srv.Close()

	candidates := NewAdapter().Fetch(context.Background(), fetchRequest(srv.URL))

	require.Len(t, candidates, 1)
	assert.Equal(t, "Alien.1979.1080p.x265", candidates[0].Title)
}

func TestFetchAppliesSizeCap(t *testing.T) {
	srv := apiServer(t, []map[string]string{
		apiRow("1", "Alien.1979.2160p.Remux.x265", "1111111111111111111111111111111111111111", 80, 0, 60*gib, "a"),
	})
	defer srv.Close()

	req := fetchRequest(srv.URL)
	req.MaxSizeGB = 20

	candidates := NewAdapter().Fetch(context.Background(), req)

	assert.Empty(t, candidates)
}

func TestFetchFailsSoftOnBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>cloudflare says no</html>"))
	}))
	defer srv.Close()

	candidates := NewAdapter().Fetch(context.Background(), fetchRequest(srv.URL))

	assert.Empty(t, candidates)
}

func TestBuildURLAppendsCategories(t *testing.T) {
	req := search.FetchRequest{
		Query:     "alien covenant",
		MediaType: domain.MediaTypeMovie,
		SearchURL: "https://apibay.org/q.php?q={query}",
	}
	assert.Equal(t, "https://apibay.org/q.php?q=alien+covenant&cat=201,207", buildURL(req))

	req.MediaType = domain.MediaTypeTV
	req.SearchURL = "https://apibay.org/q.php?q={query}&cat={cat}"
	assert.Equal(t, "https://apibay.org/q.php?q=alien+covenant&cat=205,208", buildURL(req))
}
