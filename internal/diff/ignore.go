package diff

import "regexp"

// IgnoreFilter decides whether a path participates in comparison. Patterns
// are matched against the canonical string form of a path without anchoring,
// so a pattern can target a suffix or fragment (e.g. `\.timestamp$` or
// `OCRData\[\d+\]\.location`).
type IgnoreFilter struct {
	patterns []*regexp.Regexp
}

// NewIgnoreFilter compiles the pattern list. A malformed pattern returns a
// ConfigurationError; this is the only place patterns are compiled, so a bad
// pattern can never surface mid-comparison.
func NewIgnoreFilter(patterns []string) (*IgnoreFilter, error) {
	f := &IgnoreFilter{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, &ConfigurationError{Pattern: p, Err: err}
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// ShouldIgnore reports whether any pattern matches the canonical form of p.
// A nil filter or an empty pattern list permits everything. Matching a
// container path does not implicitly ignore its descendants; each emitted
// path is checked on its own.
func (f *IgnoreFilter) ShouldIgnore(p Path) bool {
	if f == nil || len(f.patterns) == 0 {
		return false
	}
	canonical := p.String()
	for _, re := range f.patterns {
		if re.MatchString(canonical) {
			return true
		}
	}
	return false
}
