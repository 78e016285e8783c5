// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package search

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/autobrr/fetcharr/internal/domain"
	"github.com/autobrr/fetcharr/internal/metrics"
)

const (
	defaultAdapterTimeout     = 45 * time.Second
	defaultMaxConcurrentSites = 10
)

// Service is the search orchestrator. One Search call is one stateless
// fan-out/fan-in cycle; the only shared state is the read-only
// configuration and the adapter registry, both fixed at construction.
type Service struct {
	cfg      *domain.Config
	registry *Registry
	metrics  *metrics.SearchMetrics

	adapterTimeout time.Duration
	maxConcurrent  int64
}

// NewService creates the orchestrator. metrics may be nil.
func NewService(cfg *domain.Config, registry *Registry, m *metrics.SearchMetrics) *Service {
	timeout := defaultAdapterTimeout
	if cfg.AdapterTimeoutSeconds > 0 {
		timeout = time.Duration(cfg.AdapterTimeoutSeconds) * time.Second
	}
	maxConcurrent := int64(defaultMaxConcurrentSites)
	if cfg.MaxConcurrentSites > 0 {
		maxConcurrent = int64(cfg.MaxConcurrentSites)
	}

	return &Service{
		cfg:            cfg,
		registry:       registry,
		metrics:        m,
		adapterTimeout: timeout,
		maxConcurrent:  maxConcurrent,
	}
}

// Search fans the request out to every enabled site for the media type,
// waits for all of them, and returns the flattened candidates sorted by
// score descending. Ties keep fan-out (configuration) order. An empty
// result is a valid, non-error outcome; partial adapter failures are
// invisible here by design.
func (s *Service) Search(ctx context.Context, req Request) []Candidate {
	s.metrics.ObserveSearch(string(req.MediaType))

	section := s.cfg.Section(req.MediaType)
	sites := section.EnabledSites()
	if len(sites) == 0 {
		log.Warn().
			Str("media_type", string(req.MediaType)).
			Msg("No sites configured for media type")
		return []Candidate{}
	}

	type invocation struct {
		site    domain.SiteDescriptor
		adapter Adapter
	}

	invocations := make([]invocation, 0, len(sites))
	for _, site := range sites {
		adapter, ok := s.registry.Resolve(site.Name)
		if !ok {
			log.Warn().
				Str("site", site.Name).
				Strs("registered", s.registry.Names()).
				Msg("No adapter registered for configured site, skipping")
			continue
		}
		invocations = append(invocations, invocation{site: site, adapter: adapter})
	}
	if len(invocations) == 0 {
		return []Candidate{}
	}

	// Indexed result slots keep the flatten order equal to fan-out order
	// regardless of which adapter finishes first.
	results := make([][]Candidate, len(invocations))
	sem := semaphore.NewWeighted(s.maxConcurrent)

	var wg sync.WaitGroup
	for i, inv := range invocations {
		wg.Add(1)
		go func(slot int, inv invocation) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				log.Warn().
					Err(err).
					Str("adapter", inv.adapter.Name()).
					Msg("Search canceled before adapter could start")
				return
			}
			defer sem.Release(1)

			results[slot] = s.invokeAdapter(ctx, inv.adapter, FetchRequest{
				Query:              req.Query,
				MediaType:          req.MediaType,
				SearchURL:          inv.site.SearchURL,
				Prefs:              section.Preferences,
				Year:               req.Year,
				Resolution:         req.Resolution,
				BaseQueryForFilter: req.BaseQueryForFilter,
				Limit:              s.resultLimit(req),
				MaxSizeGB:          s.cfg.MaxSizeGB,
				Thresholds:         s.cfg.Thresholds,
			})
		}(i, inv)
	}
	wg.Wait()

	var flattened []Candidate
	for _, candidates := range results {
		flattened = append(flattened, candidates...)
	}

	sort.SliceStable(flattened, func(i, j int) bool {
		return flattened[i].Score > flattened[j].Score
	})

	if flattened == nil {
		flattened = []Candidate{}
	}
	return flattened
}

// invokeAdapter runs one adapter under the orchestration timeout.
// Adapters bound their own network calls, so the timer firing means the
// adapter broke its never-hang contract; its eventual result is
// discarded.
func (s *Service) invokeAdapter(ctx context.Context, adapter Adapter, req FetchRequest) []Candidate {
	fetchCtx, cancel := context.WithTimeout(ctx, s.adapterTimeout)
	defer cancel()

	done := make(chan []Candidate, 1)
	start := time.Now()

	go func() {
		done <- adapter.Fetch(fetchCtx, req)
	}()

	select {
	case candidates := <-done:
		s.metrics.ObserveAdapter(adapter.Name(), len(candidates), time.Since(start))
		log.Debug().
			Str("adapter", adapter.Name()).
			Int("candidates", len(candidates)).
			Dur("elapsed", time.Since(start)).
			Msg("Adapter fetch complete")
		return candidates
	case <-fetchCtx.Done():
		s.metrics.ObserveTimeout(adapter.Name())
		log.Error().
			Str("adapter", adapter.Name()).
			Dur("timeout", s.adapterTimeout).
			Msg("Adapter did not return before the orchestration timeout")
		return nil
	}
}

func (s *Service) resultLimit(req Request) int {
	if req.Limit > 0 {
		return req.Limit
	}
	return s.cfg.ResultLimit
}
