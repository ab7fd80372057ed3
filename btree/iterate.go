package btree

import "iter"

// All returns a sequence of all entries in ascending key order.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		c := t.Traverse()
		for c.Next() {
			if !yield(c.Key(), c.Value()) {
				return
			}
		}
	}
}

// Backward returns a sequence of all entries in descending key order.
func (t *Tree[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		c := t.RTraverse()
		for c.Next() {
			if !yield(c.Key(), c.Value()) {
				return
			}
		}
	}
}

// ForEach walks entries in ascending key order.
//
// Iteration stops early if callback returns false.
func (t *Tree[K, V]) ForEach(fn func(key K, value V) bool) {
	if t == nil || fn == nil {
		return
	}
	for k, v := range t.All() {
		if !fn(k, v) {
			return
		}
	}
}

// Walk visits all nodes in pre-order, i.e. every internal node before its
// children, children from left to right. depth is 0 for the root.
//
// Walk stops and returns the first error returned by fn.
func (t *Tree[K, V]) Walk(fn func(ref NodeRef[K, V], depth int) error) error {
	if t == nil || fn == nil {
		return nil
	}
	return t.walkNode(t.root, 0, fn)
}

func (t *Tree[K, V]) walkNode(n treeNode[K, V], depth int, fn func(NodeRef[K, V], int) error) error {
	assert(n != nil, "walkNode called with nil node")
	if err := fn(NodeRef[K, V]{n: n}, depth); err != nil {
		return err
	}
	if inner, ok := n.(*innerNode[K, V]); ok {
		for _, child := range inner.children {
			if err := t.walkNode(child, depth+1, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
