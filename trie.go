// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/retrie/blob/master/LICENSE.txt.

package retrie

import (
	"context"
	"fmt"
	"log/slog"
)

// Groups holds, for each level of the trie traversed during a retrieval, the groups captured by
// the pattern that consumed the token at that level. A level consumed by a wildcard holds the
// token itself.
type Groups [][]string

// Trie dispatches ordered sequences of tokens to values registered under ordered sequences of
// regular expressions. At each level, a token is first matched against the literal patterns
// registered at that level (in registration order) and falls back to the wildcard pattern if none
// of them matches.
//
// A Trie is meant to be fully populated before being queried. It is not safe to call [Trie.Put]
// concurrently with any other method, but once populated, any number of goroutines may retrieve
// values concurrently.
type Trie[V any] struct {
	root   *node[V]
	logger *slog.Logger
	size   int
}

// New returns a ready to use Trie. It returns an error wrapping [ErrInvalidConfig] if an option
// is invalid.
func New[V any](opts ...Option) (*Trie[V], error) {
	cfg := config{handler: discardHandler{}}
	for _, opt := range opts {
		if err := opt.apply(&cfg); err != nil {
			return nil, err
		}
	}

	return &Trie[V]{
		root:   newNode[V](nil),
		logger: slog.New(cfg.handler),
	}, nil
}

// MustNew is like [New] but panics if an option is invalid.
func MustNew[V any](opts ...Option) *Trie[V] {
	t, err := New[V](opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Put registers value under the given sequence of patterns, overwriting the value previously
// registered under the same sequence, if any. Each pattern must fully match its token; use
// [Wildcard] to match any token at that position. It returns [ErrNoPattern] if no pattern is
// provided, and a [PatternError] if a pattern is not a valid expression. On error, the trie is
// left unchanged.
func (t *Trie[V]) Put(value V, patterns ...string) error {
	if len(patterns) == 0 {
		return fmt.Errorf("%w: at least one pattern is required", ErrNoPattern)
	}

	compiled := make([]*Pattern, len(patterns))
	for i, pattern := range patterns {
		if pattern == Wildcard {
			continue
		}
		p, err := compilePattern(pattern, i)
		if err != nil {
			return err
		}
		compiled[i] = p
	}

	current := t.root
	var created int
	for _, p := range compiled {
		var isNew bool
		current, isNew = current.getOrCreateChild(p)
		if isNew {
			created++
		}
	}

	overwrite := current.leaf
	current.value = value
	current.leaf = true
	if !overwrite {
		t.size++
	}

	t.logger.LogAttrs(
		context.Background(),
		slog.LevelDebug,
		"pattern registered",
		slog.Any("patterns", patterns),
		slog.Int("created", created),
		slog.Bool("overwrite", overwrite),
	)
	return nil
}

// MustPut is like [Trie.Put] but panics on error.
func (t *Trie[V]) MustPut(value V, patterns ...string) {
	if err := t.Put(value, patterns...); err != nil {
		panic(err)
	}
}

// Retrieve returns the value registered under the sequence of patterns matching tokens. The
// boolean is false if no such sequence exists, which is also the case when the tokens only
// reach an intermediate node.
func (t *Trie[V]) Retrieve(tokens ...string) (V, bool) {
	return t.RetrieveGroups(nil, tokens...)
}

// RetrieveGroups is like [Trie.Retrieve] but also appends to groups one entry per level
// traversed. A level consumed by a literal pattern records the groups it captured (possibly
// none), and a level consumed by the wildcard records the token itself. If the retrieval fails
// midway, groups still holds the levels traversed so far. A nil groups is allowed.
func (t *Trie[V]) RetrieveGroups(groups *Groups, tokens ...string) (V, bool) {
	c := Cursor[V]{trie: t, current: t.root, record: groups != nil}
	matched := true
	for _, token := range tokens {
		if !c.Next(token) {
			matched = false
			break
		}
	}

	if groups != nil {
		*groups = append(*groups, c.groups...)
	}
	if !matched {
		var zero V
		return zero, false
	}
	return c.Value()
}

// Logger returns the logger the trie reports to. It discards every record unless a handler was
// set with [WithLogHandler].
func (t *Trie[V]) Logger() *slog.Logger {
	return t.logger
}

// Len returns the number of values stored in the trie.
func (t *Trie[V]) Len() int {
	return t.size
}

// String returns a human-readable dump of the trie structure.
func (t *Trie[V]) String() string {
	return t.root.String()
}
