package helpers

import "strings"

// BreadcrumbSegment is one non-empty part of a "A > B > C" category string.
// Index is the position among all split parts, gaps included.
type BreadcrumbSegment struct {
	Name  string
	Index int
}

// SplitBreadcrumb splits on '>', trims and drops empty parts, and skips a
// segment equal to the one right before it.
func SplitBreadcrumb(path string) []BreadcrumbSegment {
	var parts []string
	for _, part := range strings.Split(path, ">") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}

	segments := make([]BreadcrumbSegment, 0, len(parts))
	for i, part := range parts {
		if i > 0 && part == parts[i-1] {
			continue
		}
		segments = append(segments, BreadcrumbSegment{Name: part, Index: i})
	}
	return segments
}

// IsShapeBreadcrumb reports whether any segment contains one of the phrases or
// has one of the words as a standalone whitespace separated token. Matching is
// case-insensitive.
func IsShapeBreadcrumb(path string, phrases, words []string) bool {
	if path == "" {
		return false
	}
	for _, part := range strings.Split(strings.ToLower(path), ">") {
		part = strings.TrimSpace(part)
		for _, phrase := range phrases {
			if phrase != "" && strings.Contains(part, strings.ToLower(phrase)) {
				return true
			}
		}
		for _, token := range strings.Fields(part) {
			for _, word := range words {
				if token == strings.ToLower(word) {
					return true
				}
			}
		}
	}
	return false
}
