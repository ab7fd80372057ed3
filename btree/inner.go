package btree

import "slices"

// childSlot returns the index of the child responsible for key, i.e. the
// position of the first separator strictly greater than key.
func (n *innerNode[K, V]) childSlot(key K) int {
	i, found := slices.BinarySearchFunc(n.separators, key, n.tree.cfg.Compare)
	if found {
		return i + 1
	}
	return i
}

func (n *innerNode[K, V]) indexOf(child treeNode[K, V]) int {
	i := slices.Index(n.children, child)
	assert(i >= 0, "node is not a child of its parent")
	return i
}

// search descends to the leaf responsible for key. It returns nil if the
// node has no children.
func (n *innerNode[K, V]) search(key K) *leafNode[K, V] {
	if len(n.children) == 0 {
		return nil
	}
	switch child := n.children[n.childSlot(key)].(type) {
	case *leafNode[K, V]:
		return child
	case *innerNode[K, V]:
		return child.search(key)
	}
	panic("unknown tree node type")
}

// insertChild inserts child as the right neighbour of the child responsible
// for minKey. minKey becomes the child's separator.
func (n *innerNode[K, V]) insertChild(child treeNode[K, V], minKey K) {
	t := n.tree
	i := n.childSlot(minKey)
	n.children = slices.Insert(n.children, i+1, child)
	n.separators = slices.Insert(n.separators, i, minKey)
	t.adopt(n, child)
	t.modified(n)
	if len(n.children) > t.cfg.Order {
		n.split()
	}
}

// split keeps the left ⌈order/2⌉ children and moves the rest to a new right
// sibling. Splitting the root grows the tree by one level.
func (n *innerNode[K, V]) split() {
	t := n.tree
	h := t.half()
	promoted := n.separators[h-1]
	right := t.newInner(n.parent, slices.Clone(n.separators[h:]), slices.Clone(n.children[h:]))
	clear(n.separators[h-1:])
	clear(n.children[h:])
	n.separators = n.separators[:h-1]
	n.children = n.children[:h]
	t.modified(n)
	if n.parent == nil {
		t.root = t.newInner(nil, []K{promoted}, []treeNode[K, V]{n, right})
		tracer().Debugf("btree: root split, new root %d", t.root.nid)
		return
	}
	n.parent.insertChild(right, promoted)
}

// removeChild unlinks child together with its adjoining separator and
// requests a rebalance from the parent on underflow.
func (n *innerNode[K, V]) removeChild(child treeNode[K, V]) {
	t := n.tree
	i := n.indexOf(child)
	n.children = slices.Delete(n.children, i, i+1)
	if i == 0 {
		if len(n.separators) > 0 {
			n.separators = slices.Delete(n.separators, 0, 1)
		}
		if n.parent != nil && len(n.children) > 0 {
			n.parent.setBoundary(n, n.children[0].minKey())
		}
	} else {
		n.separators = slices.Delete(n.separators, i-1, i)
	}
	t.modified(n)
	if n.parent != nil && len(n.children) < t.half() {
		n.parent.rebalance(n)
	}
}

// setBoundary propagates a new minimum key of child. Child 0 has no local
// separator, thus the boundary climbs up as long as the branch is leftmost.
func (n *innerNode[K, V]) setBoundary(child treeNode[K, V], key K) {
	i := n.indexOf(child)
	if i == 0 {
		if n.parent != nil {
			n.parent.setBoundary(n, key)
		}
		return
	}
	if n.tree.cfg.Compare(n.separators[i-1], key) != 0 {
		n.separators[i-1] = key
		n.tree.modified(n)
	}
}

// getNext returns the leaf following child's subtree in key order, or nil.
func (n *innerNode[K, V]) getNext(child treeNode[K, V]) *leafNode[K, V] {
	i := n.indexOf(child)
	if i+1 < len(n.children) {
		return n.children[i+1].firstLeaf()
	}
	if n.parent != nil {
		return n.parent.getNext(n)
	}
	return nil
}

// getPrev returns the leaf preceding child's subtree in key order, or nil.
func (n *innerNode[K, V]) getPrev(child treeNode[K, V]) *leafNode[K, V] {
	i := n.indexOf(child)
	if i > 0 {
		return n.children[i-1].lastLeaf()
	}
	if n.parent != nil {
		return n.parent.getPrev(n)
	}
	return nil
}

// --- Rebalancing -------------------------------------------------------------

type rebalanceAction int

const (
	noAction rebalanceAction = iota
	borrowed
	merged
)

// rebalance repairs the occupancy of an underflowing child. Without any
// sibling to work with, rebalance does nothing: a root with a single small
// leaf is a legal state.
func (n *innerNode[K, V]) rebalance(child treeNode[K, V]) {
	slot := n.indexOf(child)
	var action rebalanceAction
	switch c := child.(type) {
	case *leafNode[K, V]:
		action = n.applyRebalancePolicy(slot,
			func() bool { return c.borrowFromLeft(n.children[slot-1].(*leafNode[K, V])) },
			func() bool { return c.borrowFromRight(n.children[slot+1].(*leafNode[K, V])) },
			func() bool { return c.mergeIntoLeft(n.children[slot-1].(*leafNode[K, V])) },
			func() bool { return c.mergeRightInto(n.children[slot+1].(*leafNode[K, V])) },
		)
	case *innerNode[K, V]:
		action = n.applyRebalancePolicy(slot,
			func() bool { return c.borrowFromLeft(n.children[slot-1].(*innerNode[K, V])) },
			func() bool { return c.borrowFromRight(n.children[slot+1].(*innerNode[K, V])) },
			func() bool { return c.mergeIntoLeft(n.children[slot-1].(*innerNode[K, V])) },
			func() bool { return c.mergeRightInto(n.children[slot+1].(*innerNode[K, V])) },
		)
	}
	if action == merged {
		tracer().Debugf("btree: merged children of node %d, %d left", n.nid, len(n.children))
	}
	if action == merged && n.tree.root == n && len(n.children) == 1 {
		if _, ok := n.children[0].(*innerNode[K, V]); ok {
			n.collapse()
		}
	}
}

// applyRebalancePolicy centralizes sibling operation order:
// borrow-left, borrow-right, merge-left, merge-right.
func (n *innerNode[K, V]) applyRebalancePolicy(
	slot int,
	borrowLeft func() bool,
	borrowRight func() bool,
	mergeLeft func() bool,
	mergeRight func() bool,
) rebalanceAction {
	hasLeft := slot > 0
	hasRight := slot+1 < len(n.children)
	if hasLeft && borrowLeft() {
		return borrowed
	}
	if hasRight && borrowRight() {
		return borrowed
	}
	if hasLeft && mergeLeft() {
		return merged
	}
	if hasRight && mergeRight() {
		return merged
	}
	return noAction
}

// collapse replaces the root by its single internal child, shrinking the
// tree by one level.
func (n *innerNode[K, V]) collapse() {
	t := n.tree
	assert(t.root == n && len(n.children) == 1, "collapse called on illegal node")
	child := n.children[0].(*innerNode[K, V])
	t.adopt(nil, child)
	t.root = child
	tracer().Debugf("btree: root %d collapsed, new root %d", n.nid, child.nid)
	t.removed(n)
}

// The primitives below are called by the common parent of n and sib, with
// n being the underflowing node.

func (n *innerNode[K, V]) borrowFromLeft(sib *innerNode[K, V]) bool {
	t := n.tree
	if len(sib.children) <= t.half() {
		return false
	}
	last := len(sib.children) - 1
	moved := sib.children[last]
	sib.children = slices.Delete(sib.children, last, last+1)
	sib.separators = slices.Delete(sib.separators, last-1, last)
	t.modified(sib)
	oldMin := n.children[0].minKey()
	n.children = slices.Insert(n.children, 0, moved)
	n.separators = slices.Insert(n.separators, 0, oldMin)
	t.adopt(n, moved)
	t.modified(n)
	n.parent.setBoundary(n, moved.minKey())
	return true
}

func (n *innerNode[K, V]) borrowFromRight(sib *innerNode[K, V]) bool {
	t := n.tree
	if len(sib.children) <= t.half() {
		return false
	}
	moved := sib.children[0]
	sib.children = slices.Delete(sib.children, 0, 1)
	sib.separators = slices.Delete(sib.separators, 0, 1)
	t.modified(sib)
	n.separators = append(n.separators, moved.minKey())
	n.children = append(n.children, moved)
	t.adopt(n, moved)
	t.modified(n)
	n.parent.setBoundary(sib, sib.children[0].minKey())
	return true
}

// mergeIntoLeft moves all children of n to its left sibling and dissolves n.
func (n *innerNode[K, V]) mergeIntoLeft(sib *innerNode[K, V]) bool {
	t := n.tree
	if len(sib.children) > t.half() {
		return false
	}
	sib.separators = append(sib.separators, n.children[0].minKey())
	sib.separators = append(sib.separators, n.separators...)
	for _, child := range n.children {
		t.adopt(sib, child)
	}
	sib.children = append(sib.children, n.children...)
	t.modified(sib)
	n.parent.removeChild(n)
	t.removed(n)
	return true
}

// mergeRightInto moves all children of the right sibling to n and dissolves
// the sibling.
func (n *innerNode[K, V]) mergeRightInto(sib *innerNode[K, V]) bool {
	t := n.tree
	if len(sib.children) > t.half() {
		return false
	}
	n.separators = append(n.separators, sib.children[0].minKey())
	n.separators = append(n.separators, sib.separators...)
	for _, child := range sib.children {
		t.adopt(n, child)
	}
	n.children = append(n.children, sib.children...)
	t.modified(n)
	n.parent.removeChild(sib)
	t.removed(sib)
	return true
}
