// Package linecount counts the lines of a text stream that pass a chain of
// line filters.
package linecount

import (
	"strings"

	"lnwarn/internal/textutil"
)

// Filter reports whether a line counts toward the total. Filters must be pure:
// a line counts only if every filter in the chain accepts it.
type Filter func(line string) bool

// MinLength accepts lines whose trimmed length is at least n runes.
func MinLength(n int) Filter {
	return func(line string) bool {
		return textutil.TrimmedLen(line) >= n
	}
}

// NonBlank rejects lines made only of whitespace.
func NonBlank(line string) bool {
	return strings.TrimSpace(line) != ""
}

// NotPrefixed rejects lines whose trimmed text starts with one of prefixes.
// Empty prefixes are ignored.
func NotPrefixed(prefixes ...string) Filter {
	ps := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p = strings.TrimSpace(p); p != "" {
			ps = append(ps, p)
		}
	}
	return func(line string) bool {
		t := strings.TrimSpace(line)
		for _, p := range ps {
			if strings.HasPrefix(t, p) {
				return false
			}
		}
		return true
	}
}

// BuildFilters turns the optional minimum line length and any extra filters
// into a chain. Without a minimum and without extras the chain is empty and
// every line counts.
func BuildFilters(minLineLength *int, extra ...Filter) []Filter {
	chain := make([]Filter, 0, len(extra)+1)
	if minLineLength != nil {
		chain = append(chain, MinLength(*minLineLength))
	}
	for _, f := range extra {
		if f != nil {
			chain = append(chain, f)
		}
	}
	return chain
}

// All combines filters with logical AND.
func All(filters ...Filter) Filter {
	return func(line string) bool {
		for _, f := range filters {
			if !f(line) {
				return false
			}
		}
		return true
	}
}
