// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package vars handles {{name}} placeholders embedded in free-form text.
// It lets users re-parameterize a previously generated prompt on the
// project detail page: Extract finds the placeholder names, Fill replaces
// them with user-supplied values.
package vars

import (
	"regexp"
	"strings"
)

// placeholderRe matches a complete {{name}} span. The inner name may
// contain letters, digits, underscores, hyphens, and whitespace. The
// non-greedy quantifier means the first complete span wins when braces
// look nested.
var placeholderRe = regexp.MustCompile(`\{\{([A-Za-z0-9_\s-]+?)\}\}`)

// Extract returns the distinct placeholder names found in text, in order
// of first appearance. Names are trimmed of surrounding whitespace before
// deduplication, so {{ foo }} and {{foo}} count as one name.
func Extract(text string) []string {
	matches := placeholderRe.FindAllStringSubmatch(text, -1)

	seen := make(map[string]bool, len(matches))
	var names []string
	for _, m := range matches {
		name := strings.TrimSpace(m[1])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// Fill replaces every placeholder whose trimmed name has a non-empty value
// in values. Placeholders with missing or empty values are left verbatim
// so the caller can see what is still unfilled.
func Fill(text string, values map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-2])
		if v, ok := values[name]; ok && v != "" {
			return v
		}
		return match
	})
}
