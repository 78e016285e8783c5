// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SearchMetrics instruments the search fan-out. A nil *SearchMetrics is a
// valid no-op receiver so the core never needs to branch on whether
// metrics are enabled.
type SearchMetrics struct {
	searchesTotal   *prometheus.CounterVec
	adapterResults  *prometheus.CounterVec
	adapterTimeouts *prometheus.CounterVec
	adapterDuration *prometheus.HistogramVec
}

// NewSearchMetrics creates and registers the search collectors.
func NewSearchMetrics(reg prometheus.Registerer) *SearchMetrics {
	m := &SearchMetrics{
		searchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fetcharr_searches_total",
			Help: "Total number of search orchestrations by media type",
		}, []string{"media_type"}),
		adapterResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fetcharr_adapter_results_total",
			Help: "Total candidates returned per adapter",
		}, []string{"adapter"}),
		adapterTimeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fetcharr_adapter_timeouts_total",
			Help: "Adapter invocations abandoned at the orchestration timeout",
		}, []string{"adapter"}),
		adapterDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fetcharr_adapter_duration_seconds",
			Help:    "Duration of one adapter fetch",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"adapter"}),
	}

	reg.MustRegister(m.searchesTotal, m.adapterResults, m.adapterTimeouts, m.adapterDuration)
	return m
}

// ObserveSearch records one orchestration call.
func (m *SearchMetrics) ObserveSearch(mediaType string) {
	if m == nil {
		return
	}
	m.searchesTotal.WithLabelValues(mediaType).Inc()
}

// ObserveAdapter records one completed adapter fetch.
func (m *SearchMetrics) ObserveAdapter(adapter string, results int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.adapterResults.WithLabelValues(adapter).Add(float64(results))
	m.adapterDuration.WithLabelValues(adapter).Observe(elapsed.Seconds())
}

// ObserveTimeout records an adapter abandoned at the orchestration
// boundary.
func (m *SearchMetrics) ObserveTimeout(adapter string) {
	if m == nil {
		return
	}
	m.adapterTimeouts.WithLabelValues(adapter).Inc()
}
