// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/retrie/blob/master/LICENSE.txt.

package retrie

import (
	"regexp"
	"regexp/syntax"
)

// Wildcard is the pattern token matching any single token. It is never a valid RE2 expression,
// so it cannot be confused with a registered pattern.
const Wildcard = "*"

// Pattern is a compiled regular expression with value semantics: two patterns compiled from the
// same source text are equal and share the same [Pattern.Key], even though their compiled
// forms are distinct objects. A Pattern always matches the entire token.
type Pattern struct {
	source string
	re     *regexp.Regexp
}

// CompilePattern compiles source into a full-match Pattern. It returns a [PatternError] wrapping
// [ErrInvalidPattern] if source is not a valid expression or is the [Wildcard] token.
func CompilePattern(source string) (*Pattern, error) {
	return compilePattern(source, -1)
}

// MustCompilePattern is like [CompilePattern] but panics if the pattern cannot be compiled.
func MustCompilePattern(source string) *Pattern {
	p, err := CompilePattern(source)
	if err != nil {
		panic(err)
	}
	return p
}

func compilePattern(source string, pos int) (*Pattern, error) {
	re, err := regexp.Compile(anchor(source))
	if err != nil {
		return nil, &PatternError{Source: source, Pos: pos, Err: err}
	}
	return &Pattern{source: source, re: re}, nil
}

// anchor returns an expression matching exactly the tokens fully matched by source. The anchors
// are added to the parsed tree rather than to the text, so that source cannot escape them with
// an unbalanced parenthesis or an unterminated \Q. Invalid sources are returned unchanged and
// rejected by the compiler.
func anchor(source string) string {
	re, err := syntax.Parse(source, syntax.Perl)
	if err != nil {
		return source
	}
	full := &syntax.Regexp{
		Op: syntax.OpConcat,
		Sub: []*syntax.Regexp{
			{Op: syntax.OpBeginText},
			re,
			{Op: syntax.OpEndText},
		},
	}
	return full.String()
}

// Key returns the value used to deduplicate patterns: its source text.
func (p *Pattern) Key() string {
	return p.source
}

// Equal reports whether p and other were compiled from the same source text.
func (p *Pattern) Equal(other *Pattern) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.source == other.source
}

// NumGroups returns the number of capture groups of the pattern.
func (p *Pattern) NumGroups() int {
	return p.re.NumSubexp()
}

// Match reports whether token fully matches the pattern. On success, it returns the captured
// groups, which is empty (but not nil) if the pattern has none. A group that did not
// participate in the match is reported as an empty string.
func (p *Pattern) Match(token string) ([]string, bool) {
	m := p.re.FindStringSubmatch(token)
	if m == nil {
		return nil, false
	}
	groups := make([]string, len(m)-1)
	copy(groups, m[1:])
	return groups, true
}

func (p *Pattern) String() string {
	return p.source
}
