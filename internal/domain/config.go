// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// MediaType selects which configuration section and preference weights a
// search runs against.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// ParseMediaType validates a user-supplied media type token.
func ParseMediaType(s string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies":
		return MediaTypeMovie, nil
	case "tv", "show", "series":
		return MediaTypeTV, nil
	default:
		return "", fmt.Errorf("unknown media type %q (expected movie or tv)", s)
	}
}

// SiteDescriptor is one configured search site. SearchURL carries a
// {query} placeholder substituted per request. Descriptors are read-only
// to the search core.
type SiteDescriptor struct {
	Name      string `toml:"name" mapstructure:"name" yaml:"name"`
	Enabled   bool   `toml:"enabled" mapstructure:"enabled" yaml:"enabled"`
	SearchURL string `toml:"searchUrl" mapstructure:"searchUrl" yaml:"searchUrl"`
}

// PreferenceWeights maps case-insensitive name tokens to integer score
// weights. Codec and resolution weights apply on substring match against
// the release title; uploader weights require an exact name match.
type PreferenceWeights struct {
	Codecs      map[string]int `toml:"codecs" mapstructure:"codecs"`
	Resolutions map[string]int `toml:"resolutions" mapstructure:"resolutions"`
	Uploaders   map[string]int `toml:"uploaders" mapstructure:"uploaders"`
}

// IsEmpty reports whether no weights are configured at all. Searches for a
// media type without weights yield no candidates rather than ranking on
// unweighted signals.
func (p PreferenceWeights) IsEmpty() bool {
	return len(p.Codecs) == 0 && len(p.Resolutions) == 0 && len(p.Uploaders) == 0
}

// MediaSection groups the sites and preference weights for one media type.
type MediaSection struct {
	Sites       []SiteDescriptor  `toml:"sites" mapstructure:"sites"`
	Preferences PreferenceWeights `toml:"preferences" mapstructure:"preferences"`
}

// EnabledSites returns the descriptors with Enabled set, preserving
// configuration order.
func (m MediaSection) EnabledSites() []SiteDescriptor {
	enabled := make([]SiteDescriptor, 0, len(m.Sites))
	for _, site := range m.Sites {
		if site.Enabled {
			enabled = append(enabled, site)
		}
	}
	return enabled
}

// MatchThresholds are the fuzzy similarity floors (0..100) used at the
// different identity-matching call sites. They are the main precision vs
// recall lever and deliberately configurable rather than hard-coded.
type MatchThresholds struct {
	// Identity is the default floor for selector-driven site adapters.
	Identity int `toml:"identity" mapstructure:"identity"`
	// APIIdentity is the floor applied by API-backed adapters, which see
	// noisier titles and filter against the base query.
	APIIdentity int `toml:"apiIdentity" mapstructure:"apiIdentity"`
	// PackIdentity is the floor when accepting a season pack in place of a
	// single episode.
	PackIdentity int `toml:"packIdentity" mapstructure:"packIdentity"`
	// TitleOnly is the floor for comparisons where no year or episode
	// structure could be parsed on either side.
	TitleOnly int `toml:"titleOnly" mapstructure:"titleOnly"`
}

// DefaultThresholds are the empirically tuned values.
func DefaultThresholds() MatchThresholds {
	return MatchThresholds{
		Identity:     88,
		APIIdentity:  85,
		PackIdentity: 80,
		TitleOnly:    75,
	}
}

// Config is the application configuration.
type Config struct {
	Host          string `toml:"host" mapstructure:"host"`
	Port          int    `toml:"port" mapstructure:"port"`
	LogLevel      string `toml:"logLevel" mapstructure:"logLevel"`
	LogPath       string `toml:"logPath" mapstructure:"logPath"`
	LogMaxSize    int    `toml:"logMaxSize" mapstructure:"logMaxSize"`
	LogMaxBackups int    `toml:"logMaxBackups" mapstructure:"logMaxBackups"`

	MetricsEnabled bool `toml:"metricsEnabled" mapstructure:"metricsEnabled"`

	// MaxSizeGB is the hard cap on candidate size; oversized results are
	// dropped before scoring.
	MaxSizeGB float64 `toml:"maxSizeGb" mapstructure:"maxSizeGb"`
	// ResultLimit bounds per-adapter output where the adapter sorts
	// locally (API adapters). 0 means no truncation.
	ResultLimit int `toml:"resultLimit" mapstructure:"resultLimit"`
	// AdapterTimeoutSeconds bounds one adapter invocation at the
	// orchestration boundary. An adapter that never returns is a bug; the
	// orchestrator abandons it after this long.
	AdapterTimeoutSeconds int `toml:"adapterTimeoutSeconds" mapstructure:"adapterTimeoutSeconds"`
	// MaxConcurrentSites caps parallel site fetches per search.
	MaxConcurrentSites int `toml:"maxConcurrentSites" mapstructure:"maxConcurrentSites"`

	// SiteDefinitionsDir holds the YAML selector definitions consumed by
	// the generic HTML adapter.
	SiteDefinitionsDir string `toml:"siteDefinitionsDir" mapstructure:"siteDefinitionsDir"`

	Thresholds MatchThresholds `toml:"thresholds" mapstructure:"thresholds"`

	Movies MediaSection `toml:"movies" mapstructure:"movies"`
	TV     MediaSection `toml:"tv" mapstructure:"tv"`
}

// Section returns the configuration for the requested media type.
func (c *Config) Section(mt MediaType) MediaSection {
	if mt == MediaTypeTV {
		return c.TV
	}
	return c.Movies
}

// Validate checks invariants that would otherwise surface as confusing
// runtime behavior.
func (c *Config) Validate() error {
	if c.MaxSizeGB < 0 {
		return errors.New("maxSizeGb must not be negative")
	}
	if c.AdapterTimeoutSeconds <= 0 {
		return errors.New("adapterTimeoutSeconds must be positive")
	}
	if c.MaxConcurrentSites <= 0 {
		return errors.New("maxConcurrentSites must be positive")
	}
	for _, section := range []MediaSection{c.Movies, c.TV} {
		for _, site := range section.Sites {
			if site.Name == "" {
				return errors.New("site descriptor without a name")
			}
			if site.Enabled && !strings.Contains(site.SearchURL, "{query}") {
				return fmt.Errorf("site %q search URL is missing the {query} placeholder", site.Name)
			}
		}
	}
	return nil
}
