// Package search implements the cancellable chunked search engine (§4.D):
// a parallel counter, a sequential paginated fetcher, and an in-line
// highlighter, all driven off a shared read-only file mapping and
// publishing onto a bounded message channel.
package search

import (
	"regexp"

	lerrors "github.com/largefile/ltv/internal/errors"
)

// Query is a compiled search expression. Build one with NewQuery; it is
// immutable and safe to share across concurrent workers once compiled.
type Query struct {
	Pattern       string
	IsRegex       bool
	CaseSensitive bool

	re *regexp.Regexp
}

// NewQuery compiles pattern according to the regex/case-sensitivity flags.
// A non-regex pattern is escaped to a literal; either way an
// insensitive match prepends the `(?i)` flag. Per §4.D.5, an empty
// pattern compiles successfully but matches nothing useful — callers
// check IsEmpty before starting a job.
func NewQuery(pattern string, isRegex, caseSensitive bool) (*Query, error) {
	q := &Query{Pattern: pattern, IsRegex: isRegex, CaseSensitive: caseSensitive}
	if pattern == "" {
		return q, nil
	}

	expr := pattern
	if !isRegex {
		expr = regexp.QuoteMeta(pattern)
	}
	if !caseSensitive {
		expr = "(?i)" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, lerrors.InvalidRegex(pattern, err)
	}
	q.re = re
	return q, nil
}

// IsEmpty reports whether the query matches the empty-query edge case
// from §4.D.5.
func (q *Query) IsEmpty() bool { return q.Pattern == "" }

// Regexp exposes the compiled matcher for callers that need it directly
// (the replacer compiles its own variant with capture-group support but
// shares this package's escaping rules).
func (q *Query) Regexp() *regexp.Regexp { return q.re }
