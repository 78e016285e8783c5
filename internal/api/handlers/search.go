// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/autobrr/fetcharr/internal/domain"
	"github.com/autobrr/fetcharr/internal/search"
)

// Searcher is the slice of the search service the handler needs.
type Searcher interface {
	Search(ctx context.Context, req search.Request) []search.Candidate
}

// SearchHandler exposes the meta-search over HTTP.
type SearchHandler struct {
	searcher Searcher
}

func NewSearchHandler(searcher Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

func (h *SearchHandler) Routes(r chi.Router) {
	r.Get("/search", h.HandleSearch)
}

// SearchResponse is the envelope around the ranked candidates.
type SearchResponse struct {
	Query      string             `json:"query"`
	MediaType  domain.MediaType   `json:"mediaType"`
	Count      int                `json:"count"`
	Candidates []search.Candidate `json:"candidates"`
}

// HandleSearch runs a search from query parameters:
//
//	GET /api/search?q=alien&mediaType=movie&year=1979&limit=25
//
// mediaType defaults to movie. Partial site failures are not surfaced
// here; whatever could be fetched comes back ranked.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		RespondError(w, http.StatusBadRequest, "Missing required query parameter: q")
		return
	}

	mediaType := domain.MediaTypeMovie
	if raw := r.URL.Query().Get("mediaType"); raw != "" {
		parsed, err := domain.ParseMediaType(raw)
		if err != nil {
			RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		mediaType = parsed
	}

	req := search.Request{
		Query:              query,
		MediaType:          mediaType,
		Resolution:         strings.TrimSpace(r.URL.Query().Get("resolution")),
		BaseQueryForFilter: strings.TrimSpace(r.URL.Query().Get("filterQuery")),
	}

	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1880 || year > 2200 {
			RespondError(w, http.StatusBadRequest, "Invalid year")
			return
		}
		req.Year = year
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			RespondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		req.Limit = limit
	}

	candidates := h.searcher.Search(r.Context(), req)

	RespondJSON(w, http.StatusOK, SearchResponse{
		Query:      query,
		MediaType:  mediaType,
		Count:      len(candidates),
		Candidates: candidates,
	})
}
