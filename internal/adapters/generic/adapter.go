// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package generic

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/avast/retry-go"
	"github.com/rs/zerolog/log"

	"github.com/autobrr/fetcharr/internal/search"
)

const (
	requestTimeout = 30 * time.Second
	fetchAttempts  = 2
	retryDelay     = 500 * time.Millisecond

	userAgent = "fetcharr/1.0"
)

// Adapter scrapes one site according to its Definition. It implements
// search.Adapter and upholds the never-raise contract: every failure path
// logs and degrades to an empty result.
type Adapter struct {
	def    *Definition
	client *http.Client
}

// NewAdapter wires a definition to the shared HTTP client settings.
func NewAdapter(def *Definition) *Adapter {
	return &Adapter{
		def:    def,
		client: &http.Client{Timeout: requestTimeout},
	}
}

func (a *Adapter) Name() string { return a.def.Name }

// Fetch implements the adapter contract.
func (a *Adapter) Fetch(ctx context.Context, req search.FetchRequest) []search.Candidate {
	pipeline := search.NewPipeline(a.def.Name, req, req.Thresholds.Identity)
	if !pipeline.Ready() {
		return nil
	}

	searchURL := strings.ReplaceAll(req.SearchURL, "{query}", url.QueryEscape(req.Query))

	doc, err := a.fetchDocument(ctx, searchURL)
	if err != nil {
		log.Warn().
			Err(err).
			Str("adapter", a.def.Name).
			Str("url", searchURL).
			Msg("Search page fetch failed")
		return nil
	}

	doc.Find(a.def.Rows).Each(func(_ int, row *goquery.Selection) {
		candidate, ok := a.extractRow(ctx, row)
		if !ok {
			return
		}
		pipeline.Offer(candidate)
	})

	return pipeline.Results()
}

// extractRow pulls one candidate out of a result row. Rows missing a
// title are treated as markup noise (header rows, ads) and skipped.
func (a *Adapter) extractRow(ctx context.Context, row *goquery.Selection) (search.Candidate, bool) {
	title := strings.TrimSpace(a.selectValue(row, a.def.Fields.Title))
	if title == "" {
		return search.Candidate{}, false
	}

	candidate := search.Candidate{
		Title:    title,
		Source:   a.def.Name,
		Uploader: strings.TrimSpace(a.selectValue(row, a.def.Fields.Uploader)),
		Seeders:  parseCount(a.selectValue(row, a.def.Fields.Seeders)),
		Leechers: parseCount(a.selectValue(row, a.def.Fields.Leechers)),
		SizeGB:   ParseSizeGB(a.selectValue(row, a.def.Fields.Size)),
		InfoURL:  a.absoluteURL(a.selectValue(row, a.def.Fields.Details)),
	}

	candidate.Link = a.absoluteURL(a.selectValue(row, a.def.Fields.Link))
	if candidate.Link == "" && candidate.InfoURL != "" && !a.def.Details.Magnet.IsZero() {
		candidate.Link = a.resolveDetailsLink(ctx, candidate.InfoURL)
	}

	return candidate, true
}

// resolveDetailsLink follows the details page once to find a magnet or
// torrent link. A miss is not an error; the pipeline drops the unlinked
// candidate.
func (a *Adapter) resolveDetailsLink(ctx context.Context, detailsURL string) string {
	doc, err := a.fetchDocument(ctx, detailsURL)
	if err != nil {
		log.Debug().
			Err(err).
			Str("adapter", a.def.Name).
			Str("url", detailsURL).
			Msg("Details page fetch failed")
		return ""
	}

	return a.absoluteURL(a.selectValue(doc.Selection, a.def.Details.Magnet))
}

func (a *Adapter) fetchDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	var doc *goquery.Document

	err := retry.Do(
		func() error {
			httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			httpReq.Header.Set("User-Agent", userAgent)

			resp, err := a.client.Do(httpReq)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %d", resp.StatusCode)
			}

			doc, err = goquery.NewDocumentFromReader(resp.Body)
			return err
		},
		retry.Attempts(fetchAttempts),
		retry.Delay(retryDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// selectValue reads a field per its selector, returning the element text
// or the named attribute.
func (a *Adapter) selectValue(root *goquery.Selection, sel Selector) string {
	if sel.IsZero() {
		return ""
	}

	css, attr := sel.Split()
	found := root.Find(css).First()
	if found.Length() == 0 {
		return ""
	}
	if attr != "" {
		value, _ := found.Attr(attr)
		return value
	}
	return found.Text()
}

// absoluteURL resolves row links against the definition's base URL.
// Magnet links pass through untouched.
func (a *Adapter) absoluteURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "magnet:") {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if parsed.IsAbs() {
		return raw
	}

	base, err := url.Parse(a.def.BaseURL)
	if err != nil || base.Host == "" {
		return raw
	}
	return base.ResolveReference(parsed).String()
}

func parseCount(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
