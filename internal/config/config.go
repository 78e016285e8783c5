// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package config loads the application configuration from a TOML file
// with FETCHARR__ environment overrides, writing a commented default
// file on first run.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/autobrr/fetcharr/internal/domain"
)

const configFileName = "config.toml"

var configTemplate = `# config.toml

# Hostname / IP
#
host = "127.0.0.1"

# Port
#
port = 7575

# Logging
#
# Optional
#
# Default: log to stderr only
#
#logPath = "log/fetcharr.log"

# Log level
#
# Default: "DEBUG"
#
# Options: "ERROR", "DEBUG", "INFO", "WARN", "TRACE"
#
logLevel = "DEBUG"

# Prometheus metrics
#
metricsEnabled = false

# Drop candidates larger than this many GB. 0 disables the cap.
#
maxSizeGb = 20.0

# Per-adapter result cap for API-backed sites. 0 disables truncation.
#
resultLimit = 50

# Abandon an adapter that has not returned after this many seconds.
#
adapterTimeoutSeconds = 45

# Parallel site fetches per search.
#
maxConcurrentSites = 10

# Directory of YAML selector definitions for HTML sites.
#
siteDefinitionsDir = "definitions"

[movies]

  [[movies.sites]]
  name = "apibay"
  enabled = true
  searchUrl = "https://apibay.org/q.php?q={query}"

  [movies.preferences.codecs]
  x265 = 10
  hevc = 10
  x264 = 5

  [movies.preferences.resolutions]
  "2160p" = 8
  "1080p" = 6

[tv]

  [[tv.sites]]
  name = "apibay"
  enabled = true
  searchUrl = "https://apibay.org/q.php?q={query}"

  [tv.preferences.codecs]
  x265 = 10
  x264 = 5

  [tv.preferences.resolutions]
  "1080p" = 6
`

// AppConfig owns the loaded configuration and the viper instance behind
// it.
type AppConfig struct {
	Config *domain.Config

	viper *viper.Viper
}

// New loads configuration from dir/config.toml, creating the file from
// the default template when missing. Environment variables prefixed
// FETCHARR__ override file values, with __ separating nested keys
// (FETCHARR__THRESHOLDS__IDENTITY).
func New(dir string) (*AppConfig, error) {
	c := &AppConfig{viper: viper.New()}

	c.defaults()

	c.viper.SetConfigType("toml")
	c.viper.SetEnvPrefix("FETCHARR_")
	c.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	c.viper.AutomaticEnv()

	if dir != "" {
		configPath := filepath.Join(dir, configFileName)
		if err := c.ensureConfigFile(dir, configPath); err != nil {
			return nil, err
		}

		c.viper.SetConfigFile(configPath)
		if err := c.viper.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "could not read config")
		}
	}

	cfg := &domain.Config{}
	if err := c.viper.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c.Config = cfg
	return c, nil
}

// defaults registers every key so environment-only deployments work
// without a config file.
func (c *AppConfig) defaults() {
	c.viper.SetDefault("host", "127.0.0.1")
	c.viper.SetDefault("port", 7575)
	c.viper.SetDefault("logLevel", "DEBUG")
	c.viper.SetDefault("logPath", "")
	c.viper.SetDefault("logMaxSize", 50)
	c.viper.SetDefault("logMaxBackups", 3)
	c.viper.SetDefault("metricsEnabled", false)
	c.viper.SetDefault("maxSizeGb", 20.0)
	c.viper.SetDefault("resultLimit", 50)
	c.viper.SetDefault("adapterTimeoutSeconds", 45)
	c.viper.SetDefault("maxConcurrentSites", 10)
	c.viper.SetDefault("siteDefinitionsDir", "definitions")

	thresholds := domain.DefaultThresholds()
	c.viper.SetDefault("thresholds.identity", thresholds.Identity)
	c.viper.SetDefault("thresholds.apiIdentity", thresholds.APIIdentity)
	c.viper.SetDefault("thresholds.packIdentity", thresholds.PackIdentity)
	c.viper.SetDefault("thresholds.titleOnly", thresholds.TitleOnly)
}

// ensureConfigFile writes the default template on first run so operators
// have a commented file to edit.
func (c *AppConfig) ensureConfigFile(dir, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, "could not stat config file")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "could not create config directory")
	}
	if err := os.WriteFile(configPath, []byte(configTemplate), 0o644); err != nil {
		return errors.Wrap(err, "could not write default config file")
	}

	log.Info().Str("path", configPath).Msg("Wrote default config file")
	return nil
}
