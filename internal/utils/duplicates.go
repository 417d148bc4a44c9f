package utils

import (
	"strings"
)

// DuplicateFilter drops repeated entries by case-insensitive key.
// Not safe for concurrent use; create one per lookup.
type DuplicateFilter struct {
	seen map[string]struct{}
}

// NewDuplicateFilter creates a filter. Keys in exclude are treated as already seen.
func NewDuplicateFilter(exclude ...string) *DuplicateFilter {
	seen := make(map[string]struct{}, len(exclude)+8)
	for _, k := range exclude {
		seen[strings.ToLower(k)] = struct{}{}
	}
	return &DuplicateFilter{seen: seen}
}

// ShouldInclude reports whether key is new and records it.
func (f *DuplicateFilter) ShouldInclude(key string) bool {
	k := strings.ToLower(key)
	if _, ok := f.seen[k]; ok {
		return false
	}
	f.seen[k] = struct{}{}
	return true
}
