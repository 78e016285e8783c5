// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/autobrr/fetcharr/internal/domain"
	"github.com/autobrr/fetcharr/internal/search"
)

func RunSearchCommand() *cobra.Command {
	var (
		mediaType   string
		year        int
		limit       int
		resolution  string
		filterQuery string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a one-shot search and print the ranked candidates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mt, err := domain.ParseMediaType(mediaType)
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			candidates := a.service.Search(cmd.Context(), search.Request{
				Query:              strings.Join(args, " "),
				MediaType:          mt,
				Year:               year,
				Resolution:         resolution,
				BaseQueryForFilter: filterQuery,
				Limit:              limit,
			})

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(candidates)
			}

			if len(candidates) == 0 {
				cmd.Println("No candidates found.")
				return nil
			}

			for i, c := range candidates {
				cmd.Printf("%3d. [%d] %s\n", i+1, c.Score, c.Title)
				cmd.Printf("     site=%s seeders=%d size=%.2fGB uploader=%s\n", c.Source, c.Seeders, c.SizeGB, c.Uploader)
				cmd.Printf("     %s\n", c.Link)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mediaType, "type", "t", "movie", "Media type: movie or tv")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Release year hint for identity matching")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Per-site result cap (0 uses the configured default)")
	cmd.Flags().StringVar(&resolution, "resolution", "", "Resolution hint, e.g. 1080p")
	cmd.Flags().StringVar(&filterQuery, "filter-query", "", "Base title to identity-match against when the query carries extra tokens")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print candidates as JSON")

	return cmd
}
