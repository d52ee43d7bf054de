// Package pattern evaluates category text patterns against transaction
// descriptions.
package pattern

import (
	"fmt"
	"regexp"
)

// Set is a compiled group of patterns belonging to one category. Matching is
// OR-combined across the set.
type Set struct {
	compiled []*regexp.Regexp
}

// Compile builds a Set from raw pattern strings. A malformed pattern fails
// the whole compilation; categorization never sees an uncompiled Set.
func Compile(patterns []string) (*Set, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &Set{compiled: compiled}, nil
}

// Matches reports whether any pattern in the set matches the description.
func (s *Set) Matches(description string) bool {
	for _, re := range s.compiled {
		if re.MatchString(description) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns in the set.
func (s *Set) Len() int {
	return len(s.compiled)
}

// Validate checks that a candidate pattern compiles and matches the
// description it was derived from. Used when learning a pattern from user
// input: a pattern that misses its own transaction is rejected up front.
func Validate(candidate, description string) error {
	re, err := regexp.Compile(candidate)
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", candidate, err)
	}
	if !re.MatchString(description) {
		return fmt.Errorf("pattern %q does not match %q", candidate, description)
	}
	return nil
}

// Suggest derives a literal anchored pattern from a description, used as the
// default offered when learning a new pattern.
func Suggest(description string) string {
	return "^" + regexp.QuoteMeta(description)
}
