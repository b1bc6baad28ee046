package snap

import (
	"path/filepath"
	"strings"
)

// excludePattern is a parsed exclusion pattern with its matching strategy.
type excludePattern struct {
	pattern   string
	matchPath bool // true = match against the full path; false = basename only
}

// ExcludeMatcher checks paths against a set of exclusion patterns.
// Patterns without '/' match against an item's basename; patterns with '/'
// match against the full slash-normalized path. A nil matcher matches
// nothing.
type ExcludeMatcher struct {
	patterns []excludePattern
}

// NewExcludeMatcher creates an ExcludeMatcher from raw pattern strings.
// Blank entries and entries starting with '#' are skipped.
func NewExcludeMatcher(rawPatterns []string) *ExcludeMatcher {
	var patterns []excludePattern
	for _, raw := range rawPatterns {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		patterns = append(patterns, excludePattern{
			pattern:   raw,
			matchPath: strings.Contains(raw, "/"),
		})
	}
	return &ExcludeMatcher{patterns: patterns}
}

// Match reports whether the given path should be excluded.
func (m *ExcludeMatcher) Match(path string) bool {
	if m == nil || len(m.patterns) == 0 {
		return false
	}

	normalized := filepath.ToSlash(path)
	basename := filepath.Base(path)

	for _, p := range m.patterns {
		var matched bool
		var err error
		if p.matchPath {
			matched, err = filepath.Match(p.pattern, normalized)
		} else {
			matched, err = filepath.Match(p.pattern, basename)
		}
		if err != nil {
			// Bad pattern, skip rather than crash.
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
