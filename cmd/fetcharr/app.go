// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/autobrr/fetcharr/internal/adapters/apibay"
	"github.com/autobrr/fetcharr/internal/adapters/generic"
	"github.com/autobrr/fetcharr/internal/config"
	"github.com/autobrr/fetcharr/internal/domain"
	"github.com/autobrr/fetcharr/internal/logger"
	"github.com/autobrr/fetcharr/internal/metrics"
	"github.com/autobrr/fetcharr/internal/search"
)

// app bundles the wired components commands run against.
type app struct {
	cfg      *domain.Config
	service  *search.Service
	registry *prometheus.Registry
}

// newApp loads configuration, configures logging, and wires the adapter
// registry and search service.
func newApp(cmd *cobra.Command) (*app, error) {
	configDir, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	appCfg, err := config.New(configDir)
	if err != nil {
		return nil, err
	}
	cfg := appCfg.Config

	logger.Setup(cfg)

	var promRegistry *prometheus.Registry
	var searchMetrics *metrics.SearchMetrics
	if cfg.MetricsEnabled {
		promRegistry = prometheus.NewRegistry()
		searchMetrics = metrics.NewSearchMetrics(promRegistry)
	}

	registry := search.NewRegistry()
	registry.Register(apibay.NewAdapter())

	if cfg.SiteDefinitionsDir != "" {
		defs, err := generic.LoadDefinitions(cfg.SiteDefinitionsDir)
		if err != nil {
			log.Warn().Err(err).Str("dir", cfg.SiteDefinitionsDir).Msg("Could not load site definitions")
		}
		for _, def := range defs {
			registry.Register(generic.NewAdapter(def))
		}
	}

	log.Debug().Strs("adapters", registry.Names()).Msg("Adapter registry populated")

	return &app{
		cfg:      cfg,
		service:  search.NewService(cfg, registry, searchMetrics),
		registry: promRegistry,
	}, nil
}
