// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package apibay queries the apibay JSON API used by The Pirate Bay
// front-ends. Unlike the scraping adapters it gets structured rows back,
// so it can dedupe on info-hash and build magnet links itself.
package apibay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog/log"

	"github.com/autobrr/fetcharr/internal/domain"
	"github.com/autobrr/fetcharr/internal/search"
)

const (
	// AdapterName is the site-name token descriptors use to select this
	// adapter.
	AdapterName = "apibay"

	requestTimeout = 30 * time.Second
	fetchAttempts  = 2
	retryDelay     = 500 * time.Millisecond

	userAgent = "fetcharr/1.0"

	descriptionURL = "https://thepiratebay.org/description.php?id=%s"
)

// Pirate Bay category codes: 201 Movies, 207 HD Movies, 205 TV shows,
// 208 HD TV shows.
var categories = map[domain.MediaType]string{
	domain.MediaTypeMovie: "201,207",
	domain.MediaTypeTV:    "205,208",
}

// defaultTrackers seed the magnet links built from bare info-hashes.
var defaultTrackers = []string{
	"udp://tracker.opentrackr.org:1337/announce",
	"udp://open.stealth.si:80/announce",
	"udp://tracker.torrent.eu.org:451/announce",
	"udp://exodus.desync.com:6969/announce",
}

// torrent is one row of the apibay response. Numeric fields come back as
// strings.
type torrent struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	InfoHash string `json:"info_hash"`
	Seeders  string `json:"seeders"`
	Leechers string `json:"leechers"`
	Size     string `json:"size"`
	Username string `json:"username"`
}

// emptyInfoHash marks the single sentinel row apibay returns instead of
// an empty array when a query has no hits.
const emptyInfoHash = "0000000000000000000000000000000000000000"

func (t torrent) isSentinel() bool {
	return t.ID == "0" || t.InfoHash == emptyInfoHash
}

// Adapter implements search.Adapter on top of the apibay q.php endpoint.
type Adapter struct {
	client *http.Client
}

func NewAdapter() *Adapter {
	return &Adapter{client: &http.Client{Timeout: requestTimeout}}
}

func (a *Adapter) Name() string { return AdapterName }

// Fetch implements the adapter contract. API results are identity-matched
// against the filter query at the looser API floor, since apibay returns
// fuzzy keyword hits rather than page-scoped rows.
func (a *Adapter) Fetch(ctx context.Context, req search.FetchRequest) []search.Candidate {
	pipeline := search.NewPipeline(AdapterName, req, req.Thresholds.APIIdentity)
	if !pipeline.Ready() {
		return nil
	}

	searchURL := buildURL(req)

	torrents, err := a.fetchTorrents(ctx, searchURL)
	if err != nil {
		log.Warn().
			Err(err).
			Str("adapter", AdapterName).
			Str("url", searchURL).
			Msg("API request failed")
		return nil
	}

	seenHashes := make(map[string]struct{}, len(torrents))
	for _, t := range torrents {
		if t.isSentinel() {
			continue
		}

		hash := strings.ToLower(strings.TrimSpace(t.InfoHash))
		if hash == "" {
			continue
		}
		if _, dup := seenHashes[hash]; dup {
			continue
		}
		seenHashes[hash] = struct{}{}

		pipeline.Offer(search.Candidate{
			Title:    t.Name,
			Source:   AdapterName,
			Link:     magnetLink(hash, t.Name),
			InfoURL:  fmt.Sprintf(descriptionURL, t.ID),
			Uploader: strings.TrimSpace(t.Username),
			Seeders:  parseCount(t.Seeders),
			Leechers: parseCount(t.Leechers),
			SizeGB:   bytesToGB(t.Size),
		})
	}

	results := pipeline.Results()

	// The API pages by relevance, not health. Re-rank locally so the
	// truncation below keeps the liveliest releases.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Seeders != results[j].Seeders {
			return results[i].Seeders > results[j].Seeders
		}
		return results[i].Score > results[j].Score
	})

	if req.Limit > 0 && len(results) > req.Limit {
		results = results[:req.Limit]
	}
	return results
}

// buildURL expands the descriptor's URL template. The {cat} placeholder
// is optional; without it the media-type categories are appended.
func buildURL(req search.FetchRequest) string {
	searchURL := strings.ReplaceAll(req.SearchURL, "{query}", url.QueryEscape(req.Query))

	cat := categories[req.MediaType]
	if strings.Contains(searchURL, "{cat}") {
		return strings.ReplaceAll(searchURL, "{cat}", cat)
	}
	if cat == "" {
		return searchURL
	}

	sep := "?"
	if strings.Contains(searchURL, "?") {
		sep = "&"
	}
	return searchURL + sep + "cat=" + cat
}

func (a *Adapter) fetchTorrents(ctx context.Context, rawURL string) ([]torrent, error) {
	var torrents []torrent

	err := retry.Do(
		func() error {
			httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			httpReq.Header.Set("User-Agent", userAgent)
			httpReq.Header.Set("Accept", "application/json")

			resp, err := a.client.Do(httpReq)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %d", resp.StatusCode)
			}

			torrents = torrents[:0]
			return json.NewDecoder(resp.Body).Decode(&torrents)
		},
		retry.Attempts(fetchAttempts),
		retry.Delay(retryDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, err
	}
	return torrents, nil
}

func magnetLink(hash, name string) string {
	var b strings.Builder
	b.WriteString("magnet:?xt=urn:btih:")
	b.WriteString(hash)
	b.WriteString("&dn=")
	b.WriteString(url.QueryEscape(name))
	for _, tr := range defaultTrackers {
		b.WriteString("&tr=")
		b.WriteString(url.QueryEscape(tr))
	}
	return b.String()
}

func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func bytesToGB(s string) float64 {
	bytes, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || bytes <= 0 {
		return 0
	}
	return float64(bytes) / (1024 * 1024 * 1024)
}
