// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/fetcharr/internal/domain"
	"github.com/autobrr/fetcharr/internal/search"
)

type stubSearcher struct {
	lastRequest search.Request
	candidates  []search.Candidate
}

func (s *stubSearcher) Search(_ context.Context, req search.Request) []search.Candidate {
	s.lastRequest = req
	return s.candidates
}

func newSearchRouter(s Searcher) http.Handler {
	r := chi.NewRouter()
	NewSearchHandler(s).Routes(r)
	return r
}

func TestHandleSearch(t *testing.T) {
	t.Parallel()

	stub := &stubSearcher{candidates: []search.Candidate{
		{Title: "Alien.1979.1080p.x265", Source: "apibay", Link: "magnet:?xt=urn:btih:abc", Score: 66},
	}}
	router := newSearchRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/search?q=alien&mediaType=movie&year=1979&limit=25&resolution=1080p", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "alien", resp.Query)
	assert.Equal(t, domain.MediaTypeMovie, resp.MediaType)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, 66, resp.Candidates[0].Score)

	assert.Equal(t, "alien", stub.lastRequest.Query)
	assert.Equal(t, 1979, stub.lastRequest.Year)
	assert.Equal(t, 25, stub.lastRequest.Limit)
	assert.Equal(t, "1080p", stub.lastRequest.Resolution)
}

func TestHandleSearchDefaultsToMovie(t *testing.T) {
	t.Parallel()

	stub := &stubSearcher{}
	router := newSearchRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/search?q=alien", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.MediaTypeMovie, stub.lastRequest.MediaType)
}

func TestHandleSearchEmptyResultsAreAnArray(t *testing.T) {
	t.Parallel()

	stub := &stubSearcher{candidates: []search.Candidate{}}
	router := newSearchRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/search?q=alien", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"candidates":[]`)
}

func TestHandleSearchValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
	}{
		{name: "missing_query", url: "/search"},
		{name: "blank_query", url: "/search?q=%20"},
		{name: "bad_media_type", url: "/search?q=alien&mediaType=podcast"},
		{name: "bad_year", url: "/search?q=alien&year=soon"},
		{name: "negative_limit", url: "/search?q=alien&limit=-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newSearchRouter(&stubSearcher{})
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandleSearchTVQuery(t *testing.T) {
	t.Parallel()

	stub := &stubSearcher{}
	router := newSearchRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/search?q=severance+s01e02&mediaType=tv&filterQuery=severance", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.MediaTypeTV, stub.lastRequest.MediaType)
	assert.Equal(t, "severance s01e02", stub.lastRequest.Query)
	assert.Equal(t, "severance", stub.lastRequest.BaseQueryForFilter)
}
