// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/retrie/blob/master/LICENSE.txt.

package retrie

// Cursor walks a [Trie] one token at a time. It is useful when tokens are produced
// incrementally, or when some of them may be missing. A Cursor is not safe for concurrent use,
// but several cursors may walk the same populated trie concurrently.
type Cursor[V any] struct {
	trie    *Trie[V]
	current *node[V]
	groups  Groups
	depth   int
	record  bool
	failed  bool
	// Set once a wildcard holding a value starts consuming tokens none of its edges accept.
	absorbing bool
}

// Cursor returns a new [Cursor] positioned at the root of the trie.
func (t *Trie[V]) Cursor() *Cursor[V] {
	return &Cursor[V]{
		trie:    t,
		current: t.root,
		record:  true,
	}
}

// Next consumes token. A literal pattern matching token always takes priority over the wildcard.
// When the cursor stands on a wildcard holding a value and token matches none of its edges, the
// wildcard consumes token and every further one, and the walk ends on its value. Next returns
// false if token cannot be consumed, after which the cursor stays in a failed state until
// [Cursor.Reset] is called.
func (c *Cursor[V]) Next(token string) bool {
	if c.failed {
		return false
	}

	if c.absorbing {
		c.capture([]string{token})
		return true
	}

	if child, groups := c.current.findMatchingChild(token); child != nil {
		c.current = child
		c.capture(groups)
		return true
	}

	if c.current.wildcard != nil {
		c.current = c.current.wildcard
		c.capture([]string{token})
		return true
	}

	if c.current.absorbs() {
		c.absorbing = true
		c.capture([]string{token})
		return true
	}

	c.failed = true
	return false
}

// NextAbsent consumes a missing token. A missing token never matches a literal pattern, so only
// the wildcard can consume it, in which case the level records a single empty group.
func (c *Cursor[V]) NextAbsent() bool {
	if c.failed {
		return false
	}

	if c.absorbing {
		c.capture([]string{""})
		return true
	}

	if c.current.wildcard != nil {
		c.current = c.current.wildcard
		c.capture([]string{""})
		return true
	}

	if c.current.absorbs() {
		c.absorbing = true
		c.capture([]string{""})
		return true
	}

	c.failed = true
	return false
}

// Value returns the value registered under the path walked so far. The boolean is false if the
// cursor failed or if no value was registered under this exact path.
func (c *Cursor[V]) Value() (V, bool) {
	if c.failed || !c.current.isLeaf() {
		var zero V
		return zero, false
	}
	return c.current.value, true
}

// Groups returns the groups captured at each level consumed so far. On failure, it holds the levels
// consumed before the failing token. The returned slice must not be modified.
func (c *Cursor[V]) Groups() Groups {
	return c.groups
}

// Depth returns the number of tokens consumed so far.
func (c *Cursor[V]) Depth() int {
	return c.depth
}

// Failed reports whether a token could not be consumed.
func (c *Cursor[V]) Failed() bool {
	return c.failed
}

// Reset moves the cursor back to the root of the trie and clears the captured groups.
func (c *Cursor[V]) Reset() {
	c.current = c.trie.root
	c.groups = nil
	c.depth = 0
	c.failed = false
	c.absorbing = false
}

func (c *Cursor[V]) capture(groups []string) {
	c.depth++
	if c.record {
		c.groups = append(c.groups, groups)
	}
}
