package btree

import (
	"cmp"

	"github.com/cockroachdb/errors"
)

// Tree is an in-memory B+ tree mapping keys of type K to values of type V.
//
// A Tree is not safe for concurrent use. Read-only operations may run
// concurrently as long as no mutation is in progress.
type Tree[K, V any] struct {
	cfg    Config[K, V]
	root   *innerNode[K, V] // never nil
	size   int              // number of distinct keys
	lastID NodeID
}

// New creates an empty tree with validated configuration.
//
// The new tree consists of a root node with a single empty leaf. Both nodes
// are reported to cfg.Hooks as modified.
func New[K, V any](cfg Config[K, V]) (*Tree[K, V], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()
	t := &Tree[K, V]{cfg: cfg}
	t.root = t.newInner(nil, nil, nil)
	leaf := t.newLeaf(t.root, nil, nil)
	t.root.children = append(t.root.children, leaf)
	return t, nil
}

// NewOrdered creates an empty tree for naturally ordered keys.
func NewOrdered[K cmp.Ordered, V any](order int) (*Tree[K, V], error) {
	return New(OrderedConfig[K, V](order))
}

// Config returns a copy of the effective tree configuration.
func (t *Tree[K, V]) Config() Config[K, V] {
	return t.cfg
}

// Order returns the tree's fan-out.
func (t *Tree[K, V]) Order() int {
	return t.cfg.Order
}

// half is the minimum occupancy of a non-root node.
func (t *Tree[K, V]) half() int {
	return (t.cfg.Order + 1) / 2
}

// Len returns the number of keys stored in the tree.
func (t *Tree[K, V]) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Height returns the number of levels, counting the root and the leaves.
// As the root is always an internal node, the height of a tree is at least 2.
func (t *Tree[K, V]) Height() int {
	h := 1
	var n treeNode[K, V] = t.root
	for !n.isLeaf() {
		inner := n.(*innerNode[K, V])
		if len(inner.children) == 0 {
			return h
		}
		n = inner.children[0]
		h++
	}
	return h
}

// Get returns the value stored under key, or ErrNotFound.
func (t *Tree[K, V]) Get(key K) (V, error) {
	var zero V
	leaf := t.root.search(key)
	if leaf == nil {
		return zero, ErrNotFound
	}
	v, found := leaf.search(key)
	if !found {
		return zero, ErrNotFound
	}
	return t.cfg.Hooks.DecodeValue(v), nil
}

// Has reports whether key is present in the tree.
func (t *Tree[K, V]) Has(key K) bool {
	leaf := t.root.search(key)
	if leaf == nil {
		return false
	}
	_, found := leaf.search(key)
	return found
}

// Add stores value under key, overwriting a previous value.
func (t *Tree[K, V]) Add(key K, value V) {
	leaf := t.root.search(key)
	assert(leaf != nil, "tree has no leaf")
	if leaf.insert(key, value) {
		t.size++
	}
}

// Remove deletes key from the tree and returns its value, or ErrNotFound.
func (t *Tree[K, V]) Remove(key K) (V, error) {
	var zero V
	leaf := t.root.search(key)
	if leaf == nil {
		return zero, ErrNotFound
	}
	v, found := leaf.remove(key)
	if !found {
		return zero, ErrNotFound
	}
	t.size--
	return t.cfg.Hooks.DecodeValue(v), nil
}

// Min returns the smallest key and its value, or ErrNotFound for an empty tree.
func (t *Tree[K, V]) Min() (K, V, error) {
	leaf := t.root.firstLeaf()
	if leaf == nil || len(leaf.keys) == 0 {
		var k K
		var v V
		return k, v, ErrNotFound
	}
	return leaf.keys[0], t.cfg.Hooks.DecodeValue(leaf.values[0]), nil
}

// Max returns the largest key and its value, or ErrNotFound for an empty tree.
func (t *Tree[K, V]) Max() (K, V, error) {
	leaf := t.root.lastLeaf()
	if leaf == nil || len(leaf.keys) == 0 {
		var k K
		var v V
		return k, v, ErrNotFound
	}
	last := len(leaf.keys) - 1
	return leaf.keys[last], t.cfg.Hooks.DecodeValue(leaf.values[last]), nil
}

// Meta returns tree-level metadata.
func (t *Tree[K, V]) Meta() Meta {
	return Meta{KeyCount: t.size}
}

// Commit asks the hooks to persist the current state and returns their token.
func (t *Tree[K, V]) Commit() (Token, error) {
	token, err := t.cfg.Hooks.Commit(t.Meta())
	if err != nil {
		return "", errors.Wrap(err, "btree: commit")
	}
	return token, nil
}

// Close commits the tree. The tree may not be used afterwards.
func (t *Tree[K, V]) Close() (Token, error) {
	return t.Commit()
}

// Root returns a handle to the current root node.
func (t *Tree[K, V]) Root() NodeRef[K, V] {
	return NodeRef[K, V]{n: t.root}
}
