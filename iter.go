// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/retrie/blob/master/LICENSE.txt.

package retrie

import (
	"iter"
	"slices"
)

// All returns a range iterator over every pattern sequence registered in the trie, along with its
// value. Wildcard positions are reported as [Wildcard]. Sequences are yielded depth first, literal
// patterns in registration order before the wildcard. The yielded slice must not be retained
// across iterations; clone it if needed.
func (t *Trie[V]) All() iter.Seq2[[]string, V] {
	return func(yield func([]string, V) bool) {
		it := newIterator(t.root)
		for it.hasNextLeaf() {
			if !yield(it.fullPath(), it.node().value) {
				return
			}
		}
	}
}

// Patterns returns a range iterator over every pattern sequence registered in the trie. Unlike
// [Trie.All], each yielded slice is a fresh copy.
func (t *Trie[V]) Patterns() iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		for path := range t.All() {
			if !yield(slices.Clone(path)) {
				return
			}
		}
	}
}

func newIterator[V any](n *node[V]) *iterator[V] {
	it := new(iterator[V])
	if children := edges(n); len(children) > 0 {
		it.stack = []stack[V]{{edges: children}}
	}
	return it
}

type iterator[V any] struct {
	stack   []stack[V]
	current *node[V]
	path    []string
}

type stack[V any] struct {
	path  []string
	edges []*node[V]
}

func (it *iterator[V]) fullPath() []string {
	return it.path
}

func (it *iterator[V]) node() *node[V] {
	return it.current
}

func (it *iterator[V]) hasNextLeaf() bool {
	for it.hasNext() {
		if it.current.isLeaf() {
			return true
		}
	}
	return false
}

func (it *iterator[V]) hasNext() bool {
	if len(it.stack) > 0 {
		n := len(it.stack)
		last := it.stack[n-1]
		elem := last.edges[0]

		if len(last.edges) > 1 {
			it.stack[n-1].edges = last.edges[1:]
		} else {
			it.stack = it.stack[:n-1]
		}

		path := append(slices.Clip(last.path), elem.label())
		if children := edges(elem); len(children) > 0 {
			it.stack = append(it.stack, stack[V]{path, children})
		}

		it.current = elem
		it.path = path
		return true
	}

	it.current = nil
	it.path = nil
	return false
}

// edges returns the outgoing edges of n, literal children first.
func edges[V any](n *node[V]) []*node[V] {
	if n.wildcard == nil {
		return n.children
	}
	out := make([]*node[V], 0, len(n.children)+1)
	out = append(out, n.children...)
	return append(out, n.wildcard)
}
