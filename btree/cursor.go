package btree

import (
	"iter"

	"github.com/cockroachdb/errors"
)

// CursorOption configures the bounds and the checker of a Cursor.
type CursorOption[K any] func(*cursorSettings[K])

type cursorSettings[K any] struct {
	start, stop       K
	hasStart, hasStop bool
	checker           func() error
}

// From sets the inclusive lower bound of a traversal.
func From[K any](key K) CursorOption[K] {
	return func(s *cursorSettings[K]) {
		s.start, s.hasStart = key, true
	}
}

// To sets the inclusive upper bound of a traversal.
func To[K any](key K) CursorOption[K] {
	return func(s *cursorSettings[K]) {
		s.stop, s.hasStop = key, true
	}
}

// WithChecker installs a function which is called before every step of a
// traversal. If it returns an error, the traversal ends and Cursor.Err
// reports an error wrapping ErrCancelled, with the checker's error attached
// as secondary error.
func WithChecker[K any](checker func() error) CursorOption[K] {
	return func(s *cursorSettings[K]) {
		s.checker = checker
	}
}

// Cursor iterates over the entries of a tree in ascending or descending key
// order. A cursor is one-shot: once Next has returned false, it stays
// exhausted.
//
// Mutating the tree while a cursor is open leads to undefined results, unless
// a checker detects the mutation and cancels the traversal.
//
//	c := tree.Traverse(btree.From(3), btree.To(7))
//	for c.Next() {
//	    fmt.Println(c.Key(), c.Value())
//	}
//	if err := c.Err(); err != nil {
//	    ...
//	}
type Cursor[K, V any] struct {
	tree    *Tree[K, V]
	cfg     cursorSettings[K]
	reverse bool
	leaf    *leafNode[K, V]
	index   int // next position to visit within leaf
	key     K
	value   V
	err     error
	done    bool
}

// Traverse returns a cursor iterating in ascending key order.
func (t *Tree[K, V]) Traverse(opts ...CursorOption[K]) *Cursor[K, V] {
	c := newCursor(t, false, opts)
	if c.cfg.hasStart {
		c.leaf = t.root.search(c.cfg.start)
		c.index, _ = c.leaf.find(c.cfg.start) // first key >= start
	} else {
		c.leaf = t.root.firstLeaf()
		c.index = 0
	}
	return c
}

// RTraverse returns a cursor iterating in descending key order.
func (t *Tree[K, V]) RTraverse(opts ...CursorOption[K]) *Cursor[K, V] {
	c := newCursor(t, true, opts)
	if c.cfg.hasStop {
		c.leaf = t.root.search(c.cfg.stop)
		i, found := c.leaf.find(c.cfg.stop)
		if found {
			c.index = i
		} else {
			c.index = i - 1 // last key <= stop
		}
	} else {
		c.leaf = t.root.lastLeaf()
		c.index = len(c.leaf.keys) - 1
	}
	return c
}

func newCursor[K, V any](t *Tree[K, V], reverse bool, opts []CursorOption[K]) *Cursor[K, V] {
	c := &Cursor[K, V]{tree: t, reverse: reverse}
	for _, opt := range opts {
		opt(&c.cfg)
	}
	return c
}

// Next advances the cursor to the next entry. It returns false if the
// traversal is exhausted or has been cancelled.
func (c *Cursor[K, V]) Next() bool {
	if c.done {
		return false
	}
	if c.cfg.checker != nil {
		if err := c.cfg.checker(); err != nil {
			c.err = errors.WithSecondaryError(errors.Wrapf(ErrCancelled, "checker: %v", err), err)
			return c.finish()
		}
	}
	if c.leaf == nil {
		return c.finish()
	}
	if c.reverse {
		return c.stepBackward()
	}
	return c.stepForward()
}

func (c *Cursor[K, V]) stepForward() bool {
	for c.index >= len(c.leaf.keys) {
		next := c.leaf.next()
		if next == nil {
			return c.finish()
		}
		c.leaf, c.index = next, 0
	}
	k := c.leaf.keys[c.index]
	if c.cfg.hasStop && c.tree.cfg.Compare(k, c.cfg.stop) > 0 {
		return c.finish()
	}
	c.key, c.value = k, c.tree.cfg.Hooks.DecodeValue(c.leaf.values[c.index])
	c.index++
	return true
}

func (c *Cursor[K, V]) stepBackward() bool {
	for c.index < 0 {
		prev := c.leaf.prev()
		if prev == nil {
			return c.finish()
		}
		c.leaf, c.index = prev, len(prev.keys)-1
	}
	k := c.leaf.keys[c.index]
	if c.cfg.hasStart && c.tree.cfg.Compare(k, c.cfg.start) < 0 {
		return c.finish()
	}
	c.key, c.value = k, c.tree.cfg.Hooks.DecodeValue(c.leaf.values[c.index])
	c.index--
	return true
}

func (c *Cursor[K, V]) finish() bool {
	c.done = true
	c.leaf = nil
	var k K
	var v V
	c.key, c.value = k, v
	return false
}

// Key returns the key of the current entry.
func (c *Cursor[K, V]) Key() K {
	return c.key
}

// Value returns the decoded value of the current entry.
func (c *Cursor[K, V]) Value() V {
	return c.value
}

// Err returns the error which cancelled the traversal, if any. Exhaustion is
// not an error.
func (c *Cursor[K, V]) Err() error {
	return c.err
}

// All adapts the remaining entries of the cursor to a range-over-func sequence.
func (c *Cursor[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for c.Next() {
			if !yield(c.key, c.value) {
				return
			}
		}
	}
}
