// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/retrie/blob/master/LICENSE.txt.

package retrie

import (
	"strings"
)

type node[V any] struct {
	// The pattern labelling the edge from the parent to this node. Nil for the root and
	// for wildcard nodes.
	pattern *Pattern

	// Whether this node is the wildcard child of its parent.
	wild bool

	// Literal child nodes in registration order. Matching walks this slice in order, so
	// when several patterns match the same token, the first registered one wins.
	children []*node[V]

	// Position of each child in children, keyed by pattern source text.
	index map[string]int

	// The child consuming any token when no literal child matches. At most one per node.
	wildcard *node[V]

	// The stored value, meaningful only if leaf is true.
	value V
	leaf  bool
}

func newNode[V any](pattern *Pattern) *node[V] {
	return &node[V]{pattern: pattern}
}

func (n *node[V]) isLeaf() bool {
	return n.leaf
}

func (n *node[V]) isWildcard() bool {
	return n.wild
}

// absorbs reports whether n consumes the tokens none of its edges accept: a wildcard holding a
// value swallows the rest of the query.
func (n *node[V]) absorbs() bool {
	return n.wild && n.leaf
}

// getChild returns the literal child registered under key, or nil.
func (n *node[V]) getChild(key string) *node[V] {
	if id, ok := n.index[key]; ok {
		return n.children[id]
	}
	return nil
}

// getOrCreateChild returns the child reached by pattern, creating it if absent. A nil pattern
// designates the wildcard child. It reports whether a new node was created.
func (n *node[V]) getOrCreateChild(pattern *Pattern) (*node[V], bool) {
	if pattern == nil {
		if n.wildcard == nil {
			n.wildcard = &node[V]{wild: true}
			return n.wildcard, true
		}
		return n.wildcard, false
	}

	if child := n.getChild(pattern.Key()); child != nil {
		return child, false
	}

	if n.index == nil {
		n.index = make(map[string]int)
	}
	child := newNode[V](pattern)
	n.index[pattern.Key()] = len(n.children)
	n.children = append(n.children, child)
	return child, true
}

// findMatchingChild returns the first literal child whose pattern fully matches token, along with
// the groups captured by that pattern. It returns nil if no literal child matches.
func (n *node[V]) findMatchingChild(token string) (*node[V], []string) {
	for _, child := range n.children {
		if groups, ok := child.pattern.Match(token); ok {
			return child, groups
		}
	}
	return nil, nil
}

// label returns the pattern token that leads to this node.
func (n *node[V]) label() string {
	if n.isWildcard() {
		return Wildcard
	}
	return n.pattern.source
}

func (n *node[V]) String() string {
	return n.string(0, true)
}

func (n *node[V]) string(space int, root bool) string {
	sb := strings.Builder{}
	sb.WriteString(strings.Repeat(" ", space))
	if root {
		sb.WriteString("root")
	} else {
		sb.WriteString("pattern: ")
		sb.WriteString(n.label())
	}
	if n.isLeaf() {
		sb.WriteString(" (leaf)")
	}

	sb.WriteByte('\n')
	for _, child := range n.children {
		sb.WriteString("  ")
		sb.WriteString(child.string(space+2, false))
	}
	if n.wildcard != nil {
		sb.WriteString("  ")
		sb.WriteString(n.wildcard.string(space+2, false))
	}
	return sb.String()
}
