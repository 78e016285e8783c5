// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchMetricsObserve(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewSearchMetrics(registry)

	m.ObserveSearch("movie")
	m.ObserveSearch("movie")
	m.ObserveSearch("tv")
	m.ObserveAdapter("apibay", 12, 300*time.Millisecond)
	m.ObserveTimeout("slowsite")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.searchesTotal.WithLabelValues("movie")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.searchesTotal.WithLabelValues("tv")))
	assert.Equal(t, float64(12), testutil.ToFloat64(m.adapterResults.WithLabelValues("apibay")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.adapterTimeouts.WithLabelValues("slowsite")))

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilSearchMetricsIsNoop(t *testing.T) {
	var m *SearchMetrics

	// must not panic
	m.ObserveSearch("movie")
	m.ObserveAdapter("apibay", 1, time.Second)
	m.ObserveTimeout("apibay")
}
