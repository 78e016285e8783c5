// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package generic

import (
	"regexp"
	"strconv"
	"strings"
)

// sizeRe tolerates the unit spellings seen in the wild: "1.4 GiB",
// "700MB", "1,234.5 MiB".
var sizeRe = regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*([kmgt])i?b`)

// ParseSizeGB converts a human-readable size string to gigabytes.
// Unparsable input yields 0, which the size cap treats as "unknown,
// allow".
func ParseSizeGB(s string) float64 {
	m := sizeRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}

	switch strings.ToLower(m[2]) {
	case "k":
		return value / (1024 * 1024)
	case "m":
		return value / 1024
	case "t":
		return value * 1024
	default:
		return value
	}
}
