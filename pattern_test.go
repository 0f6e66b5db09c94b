package retrie

import (
	"errors"
	"regexp/syntax"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePattern(t *testing.T) {
	cases := []struct {
		name       string
		source     string
		token      string
		wantMatch  bool
		wantGroups []string
	}{
		{
			name:       "literal full match",
			source:     "ActivityManager",
			token:      "ActivityManager",
			wantMatch:  true,
			wantGroups: []string{},
		},
		{
			name:      "literal substring does not match",
			source:    "Activity",
			token:     "ActivityManager",
			wantMatch: false,
		},
		{
			name:      "literal prefix of token does not match",
			source:    "ActivityManager",
			token:     "Activity",
			wantMatch: false,
		},
		{
			name:       "alternation is anchored on both sides",
			source:     "a|(alpha)",
			token:      "alpha",
			wantMatch:  true,
			wantGroups: []string{"alpha"},
		},
		{
			name:       "unmatched optional group",
			source:     "a|(alpha)",
			token:      "a",
			wantMatch:  true,
			wantGroups: []string{""},
		},
		{
			name:      "alternation does not match a substring",
			source:    "a|b",
			token:     "ab",
			wantMatch: false,
		},
		{
			name:       "several groups",
			source:     `pid: (\d+), tid: (\d+)  >>> (\S+) <<<`,
			token:      "pid: 3112, tid: 3112  >>> com.google.android.browser <<<",
			wantMatch:  true,
			wantGroups: []string{"3112", "3112", "com.google.android.browser"},
		},
		{
			name:      "case sensitive",
			source:    "debug",
			token:     "DEBUG",
			wantMatch: false,
		},
		{
			name:       "empty pattern matches empty token",
			source:     "",
			token:      "",
			wantMatch:  true,
			wantGroups: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := CompilePattern(tc.source)
			require.NoError(t, err)
			groups, ok := p.Match(tc.token)
			assert.Equal(t, tc.wantMatch, ok)
			if tc.wantMatch {
				assert.Equal(t, tc.wantGroups, groups)
			} else {
				assert.Nil(t, groups)
			}
		})
	}
}

func TestCompilePatternError(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{
			name:   "unclosed group",
			source: "(abc",
		},
		{
			name:   "missing repetition argument",
			source: "+abc",
		},
		{
			name:   "wildcard is not a pattern",
			source: Wildcard,
		},
		{
			name:   "unclosed class",
			source: "[a-z",
		},
		{
			name:   "unbalanced closing parenthesis",
			source: "a)|(?:b",
		},
		{
			name:   "unclosed non capturing group",
			source: "(?:x",
		},
		{
			name:   "stray closing parenthesis",
			source: "ab)",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := CompilePattern(tc.source)
			assert.Nil(t, p)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPattern)

			var perr *PatternError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tc.source, perr.Source)
			assert.Equal(t, -1, perr.Pos)

			var serr *syntax.Error
			assert.True(t, errors.As(err, &serr))
		})
	}
}

func TestCompilePatternStaysAnchored(t *testing.T) {
	cases := []struct {
		name    string
		source  string
		match   []string
		noMatch []string
	}{
		{
			name:    "unterminated quote",
			source:  `\Qa)|(?:b`,
			match:   []string{"a)|(?:b"},
			noMatch: []string{"a", "abcdef", "xyzb", "a)|(?:b)$", "a)|(?:bc"},
		},
		{
			name:    "top level alternation",
			source:  "a|b",
			match:   []string{"a", "b"},
			noMatch: []string{"abcdef", "xyzb", "ab"},
		},
		{
			name:    "alternation inside a group",
			source:  "(a)|(?:b)",
			match:   []string{"a", "b"},
			noMatch: []string{"abcdef", "xyzb"},
		},
		{
			name:    "explicit anchors",
			source:  "^a$|b",
			match:   []string{"a", "b"},
			noMatch: []string{"ab", "ba"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := CompilePattern(tc.source)
			require.NoError(t, err)
			for _, token := range tc.match {
				_, ok := p.Match(token)
				assert.Truef(t, ok, "token %q", token)
			}
			for _, token := range tc.noMatch {
				_, ok := p.Match(token)
				assert.Falsef(t, ok, "token %q", token)
			}
		})
	}
}

func TestMustCompilePattern(t *testing.T) {
	assert.Panics(t, func() {
		MustCompilePattern("(")
	})
	assert.NotPanics(t, func() {
		MustCompilePattern("(a)")
	})
}

func TestPatternEqual(t *testing.T) {
	p1 := MustCompilePattern("E|W")
	p2 := MustCompilePattern("E|W")
	p3 := MustCompilePattern("W|E")

	assert.NotSame(t, p1, p2)
	assert.NotSame(t, p1.re, p2.re)
	assert.True(t, p1.Equal(p2))
	assert.True(t, p2.Equal(p1))
	assert.Equal(t, p1.Key(), p2.Key())

	assert.False(t, p1.Equal(p3))
	assert.NotEqual(t, p1.Key(), p3.Key())

	assert.False(t, p1.Equal(nil))
	var nilPattern *Pattern
	assert.True(t, nilPattern.Equal(nil))
}

func TestPatternAccessors(t *testing.T) {
	p := MustCompilePattern(`(\d+)-(\d+)`)
	assert.Equal(t, 2, p.NumGroups())
	assert.Equal(t, `(\d+)-(\d+)`, p.String())
	assert.Equal(t, `(\d+)-(\d+)`, p.Key())
}

func TestPatternErrorMessage(t *testing.T) {
	_, err := compilePattern("(", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid pattern "(" at position 2: `)

	_, err = CompilePattern("(")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "position")
}

func TestPatternFuzzNoPanic(t *testing.T) {
	unicodeRanges := fuzz.UnicodeRanges{
		{First: 0x00, Last: 0x7F},   // ASCII
		{First: 0x80, Last: 0x07FF}, // Extended
	}
	f := fuzz.New().NilChance(0).NumElements(5000, 10000).Funcs(unicodeRanges.CustomStringFuzzFunc())

	patterns := make(map[string]struct{})
	f.Fuzz(&patterns)

	for pattern := range patterns {
		assert.NotPanics(t, func() {
			p, err := CompilePattern(pattern)
			if err != nil {
				assert.ErrorIs(t, err, ErrInvalidPattern)
				return
			}
			p.Match(pattern)
		})
	}
}
