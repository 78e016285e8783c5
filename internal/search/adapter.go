// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package search

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/autobrr/fetcharr/internal/domain"
)

// FetchRequest is the contract input handed to one adapter invocation.
// Everything in it is read-only to the adapter.
type FetchRequest struct {
	Query     string
	MediaType domain.MediaType
	// SearchURL is the descriptor's URL template with a {query}
	// placeholder.
	SearchURL string
	// Prefs are the preference weights active for this media type.
	Prefs domain.PreferenceWeights

	Year               int
	Resolution         string
	BaseQueryForFilter string
	Limit              int

	MaxSizeGB  float64
	Thresholds domain.MatchThresholds
}

// FilterQuery returns the identity-matching query for this invocation.
func (r FetchRequest) FilterQuery() string {
	if r.BaseQueryForFilter != "" {
		return r.BaseQueryForFilter
	}
	return r.Query
}

// Adapter is the contract every site-specific fetcher implements. Fetch
// must never panic or surface an error: transport failures, unparsable
// payloads, and missing preference configuration are all handled by
// logging a diagnostic and returning an empty slice. Every returned
// Candidate must carry a non-empty Link and a computed Score.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, req FetchRequest) []Candidate
}

// Registry maps site-name tokens to adapter implementations. It is
// populated once at process startup and read-only afterwards; descriptor
// names with no registered adapter are a configuration warning, not a
// failure.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter under its own name. Registering the same name
// twice replaces the earlier adapter and logs a warning, since it almost
// always means two adapters were wired for one site token.
func (r *Registry) Register(adapter Adapter) {
	name := adapter.Name()
	if _, exists := r.adapters[name]; exists {
		log.Warn().Str("adapter", name).Msg("Replacing previously registered adapter")
	}
	r.adapters[name] = adapter
}

// Resolve looks up the adapter for a site-name token.
func (r *Registry) Resolve(name string) (Adapter, bool) {
	adapter, ok := r.adapters[name]
	return adapter, ok
}

// Names returns the registered adapter names, sorted for stable logging.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
