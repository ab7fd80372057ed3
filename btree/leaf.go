package btree

import "slices"

// find returns the position of key within the leaf, or the position where key
// would have to be inserted.
func (l *leafNode[K, V]) find(key K) (int, bool) {
	return slices.BinarySearchFunc(l.keys, key, l.tree.cfg.Compare)
}

func (l *leafNode[K, V]) search(key K) (V, bool) {
	if i, found := l.find(key); found {
		return l.values[i], true
	}
	var zero V
	return zero, false
}

// insert stores value under key. It returns false if key has been present
// and its value has been overwritten.
func (l *leafNode[K, V]) insert(key K, value V) bool {
	t := l.tree
	i, found := l.find(key)
	if found {
		l.values[i] = value
		t.modified(l)
		return false
	}
	l.keys = slices.Insert(l.keys, i, key)
	l.values = slices.Insert(l.values, i, value)
	t.modified(l)
	if i == 0 {
		l.parent.setBoundary(l, key)
	}
	if len(l.keys) > t.cfg.Order {
		l.split()
	}
	return true
}

// split keeps the lower ⌈order/2⌉ entries and moves the rest to a new right
// sibling.
func (l *leafNode[K, V]) split() {
	t := l.tree
	h := t.half()
	right := t.newLeaf(l.parent, slices.Clone(l.keys[h:]), slices.Clone(l.values[h:]))
	clear(l.keys[h:])
	clear(l.values[h:])
	l.keys = l.keys[:h]
	l.values = l.values[:h]
	t.modified(l)
	l.parent.insertChild(right, right.keys[0])
}

// remove deletes key from the leaf and requests a rebalance from the parent
// on underflow.
func (l *leafNode[K, V]) remove(key K) (V, bool) {
	t := l.tree
	i, found := l.find(key)
	if !found {
		var zero V
		return zero, false
	}
	value := l.values[i]
	l.keys = slices.Delete(l.keys, i, i+1)
	l.values = slices.Delete(l.values, i, i+1)
	t.modified(l)
	if i == 0 && len(l.keys) > 0 {
		l.parent.setBoundary(l, l.keys[0])
	}
	if len(l.keys) < t.half() {
		l.parent.rebalance(l)
	}
	return value, true
}

func (l *leafNode[K, V]) next() *leafNode[K, V] {
	return l.parent.getNext(l)
}

func (l *leafNode[K, V]) prev() *leafNode[K, V] {
	return l.parent.getPrev(l)
}

// --- Rebalancing primitives --------------------------------------------------
//
// All primitives are called by the common parent of l and sib, with l being
// the underflowing leaf.

func (l *leafNode[K, V]) borrowFromLeft(sib *leafNode[K, V]) bool {
	t := l.tree
	if len(sib.keys) <= t.half() {
		return false
	}
	last := len(sib.keys) - 1
	k, v := sib.keys[last], sib.values[last]
	sib.keys = slices.Delete(sib.keys, last, last+1)
	sib.values = slices.Delete(sib.values, last, last+1)
	t.modified(sib)
	l.keys = slices.Insert(l.keys, 0, k)
	l.values = slices.Insert(l.values, 0, v)
	t.modified(l)
	l.parent.setBoundary(l, k)
	return true
}

func (l *leafNode[K, V]) borrowFromRight(sib *leafNode[K, V]) bool {
	t := l.tree
	if len(sib.keys) <= t.half() {
		return false
	}
	k, v := sib.keys[0], sib.values[0]
	sib.keys = slices.Delete(sib.keys, 0, 1)
	sib.values = slices.Delete(sib.values, 0, 1)
	t.modified(sib)
	l.keys = append(l.keys, k)
	l.values = append(l.values, v)
	t.modified(l)
	if len(l.keys) == 1 {
		l.parent.setBoundary(l, k)
	}
	l.parent.setBoundary(sib, sib.keys[0])
	return true
}

// mergeIntoLeft moves all entries of l to its left sibling and dissolves l.
func (l *leafNode[K, V]) mergeIntoLeft(sib *leafNode[K, V]) bool {
	t := l.tree
	if len(sib.keys) > t.half() {
		return false
	}
	sib.keys = append(sib.keys, l.keys...)
	sib.values = append(sib.values, l.values...)
	t.modified(sib)
	l.parent.removeChild(l)
	t.removed(l)
	return true
}

// mergeRightInto moves all entries of the right sibling to l and dissolves
// the sibling.
func (l *leafNode[K, V]) mergeRightInto(sib *leafNode[K, V]) bool {
	t := l.tree
	if len(sib.keys) > t.half() {
		return false
	}
	wasEmpty := len(l.keys) == 0
	l.keys = append(l.keys, sib.keys...)
	l.values = append(l.values, sib.values...)
	t.modified(l)
	if wasEmpty && len(l.keys) > 0 {
		l.parent.setBoundary(l, l.keys[0])
	}
	l.parent.removeChild(sib)
	t.removed(sib)
	return true
}
