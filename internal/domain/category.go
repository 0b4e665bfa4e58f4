package domain

import "strings"

// FallbackCategory is the sentinel assigned when the model returns a
// category outside the configured set.
const FallbackCategory = "Other"

// CategoryAllowed reports whether candidate matches one of the allowed
// category names, ignoring case and surrounding whitespace.
func CategoryAllowed(candidate string, allowed []string) bool {
	candidate = strings.TrimSpace(candidate)
	for _, name := range allowed {
		if strings.EqualFold(candidate, name) {
			return true
		}
	}
	return false
}

// NormalizeCategory maps a model-returned category onto the configured set.
// Matching is case-insensitive and returns the configured spelling, so every
// persisted value equals exactly one configured name. Candidates that match
// nothing collapse to FallbackCategory.
func NormalizeCategory(candidate string, allowed []string) string {
	candidate = strings.TrimSpace(candidate)
	for _, name := range allowed {
		if strings.EqualFold(candidate, name) {
			return name
		}
	}
	return FallbackCategory
}
