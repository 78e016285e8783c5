// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package generic implements the selector-driven HTML site adapter. One
// YAML definition per site describes where in the result markup each
// candidate field lives; a single adapter implementation consumes them
// all, keeping per-site knowledge out of code.
package generic

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Selector addresses one field inside a result row: a CSS selector,
// optionally followed by "@attr" to read an attribute instead of the
// element text.
type Selector string

// Split returns the CSS selector and the attribute name ("" for text).
func (s Selector) Split() (css, attr string) {
	raw := string(s)
	if at := strings.LastIndex(raw, "@"); at >= 0 {
		return raw[:at], raw[at+1:]
	}
	return raw, ""
}

// IsZero reports whether no selector was configured.
func (s Selector) IsZero() bool { return strings.TrimSpace(string(s)) == "" }

// FieldSelectors locate each candidate field within one result row.
// Title and at least one of Link/Details are required; the rest default
// to empty values when absent.
type FieldSelectors struct {
	Title    Selector `yaml:"title"`
	Link     Selector `yaml:"link"`
	Details  Selector `yaml:"details"`
	Seeders  Selector `yaml:"seeders"`
	Leechers Selector `yaml:"leechers"`
	Size     Selector `yaml:"size"`
	Uploader Selector `yaml:"uploader"`
}

// DetailsSelectors describe the one-hop details-page fallback used to
// resolve a magnet link when the result row carries none.
type DetailsSelectors struct {
	Magnet Selector `yaml:"magnet"`
}

// Definition is one site's scraping description, loaded at startup.
type Definition struct {
	// Name must match the site descriptor name in the main configuration.
	Name string `yaml:"name"`
	// BaseURL resolves relative links found in rows and details pages.
	BaseURL string `yaml:"baseUrl"`
	// Rows selects one element per search result.
	Rows    string           `yaml:"rows"`
	Fields  FieldSelectors   `yaml:"fields"`
	Details DetailsSelectors `yaml:"details"`
}

// Validate checks the definition is usable before it gets registered.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return errors.New("definition requires a name")
	}
	if strings.TrimSpace(d.Rows) == "" {
		return errors.Errorf("definition %q requires a rows selector", d.Name)
	}
	if d.Fields.Title.IsZero() {
		return errors.Errorf("definition %q requires a title selector", d.Name)
	}
	if d.Fields.Link.IsZero() && (d.Fields.Details.IsZero() || d.Details.Magnet.IsZero()) {
		return errors.Errorf("definition %q needs a link selector or a details page magnet selector", d.Name)
	}
	return nil
}

// LoadDefinitions reads every .yaml/.yml file under dir. Unreadable or
// invalid definitions are skipped with a warning so one bad file cannot
// take out the rest.
func LoadDefinitions(dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read site definitions directory: %w", err)
	}

	var defs []*Definition
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to read site definition")
			continue
		}

		var def Definition
		if err := yaml.Unmarshal(data, &def); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to parse site definition")
			continue
		}
		if err := def.Validate(); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Skipping invalid site definition")
			continue
		}

		defs = append(defs, &def)
		log.Debug().Str("site", def.Name).Str("path", path).Msg("Loaded site definition")
	}

	return defs, nil
}
