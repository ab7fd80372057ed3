package btree

import "github.com/cockroachdb/errors"

// Check validates structural tree invariants:
//   - keys within a leaf are strictly increasing,
//   - separator i-1 equals the minimum key of child i, and every key of
//     child i lies within [separator i-1, separator i),
//   - every non-root node holds between ⌈order/2⌉ and order entries,
//   - all leaves are at the same depth,
//   - parent back-references match the tree shape,
//   - the live key count matches the number of stored keys.
//
// Check is intended for tests and diagnostics.
func (t *Tree[K, V]) Check() error {
	if t == nil {
		return errors.Wrap(ErrCorrupt, "nil tree")
	}
	if t.root == nil {
		return errors.Wrap(ErrCorrupt, "tree has no root")
	}
	if t.root.parent != nil {
		return errors.Wrapf(ErrCorrupt, "root %d has a parent", t.root.nid)
	}
	if len(t.root.children) == 0 || len(t.root.children) > t.cfg.Order {
		return errors.Wrapf(ErrCorrupt, "root %d has %d children", t.root.nid, len(t.root.children))
	}
	if len(t.root.children) == 1 && !t.root.children[0].isLeaf() {
		return errors.Wrapf(ErrCorrupt, "root %d has a single internal child", t.root.nid)
	}
	keys, _, err := t.checkNode(t.root, true)
	if err != nil {
		return err
	}
	if keys != t.size {
		return errors.Wrapf(ErrCorrupt, "size mismatch (%d != %d)", keys, t.size)
	}
	return nil
}

// checkNode returns the number of keys and the height of the subtree at n.
func (t *Tree[K, V]) checkNode(n treeNode[K, V], isRoot bool) (keys int, height int, err error) {
	cmp := t.cfg.Compare
	if leaf, ok := n.(*leafNode[K, V]); ok {
		if len(leaf.keys) != len(leaf.values) {
			return 0, 0, errors.Wrapf(ErrCorrupt, "leaf %d has %d keys, but %d values",
				leaf.nid, len(leaf.keys), len(leaf.values))
		}
		for i := 1; i < len(leaf.keys); i++ {
			if cmp(leaf.keys[i-1], leaf.keys[i]) >= 0 {
				return 0, 0, errors.Wrapf(ErrCorrupt, "leaf %d: keys not strictly increasing at %d", leaf.nid, i)
			}
		}
		if len(leaf.keys) > t.cfg.Order {
			return 0, 0, errors.Wrapf(ErrCorrupt, "leaf %d overflows (%d keys)", leaf.nid, len(leaf.keys))
		}
		soleChild := leaf.parent == t.root && len(t.root.children) == 1
		if !soleChild && len(leaf.keys) < t.half() {
			return 0, 0, errors.Wrapf(ErrCorrupt, "leaf %d underflows (%d keys)", leaf.nid, len(leaf.keys))
		}
		return len(leaf.keys), 1, nil
	}
	inner := n.(*innerNode[K, V])
	if len(inner.separators) != len(inner.children)-1 {
		return 0, 0, errors.Wrapf(ErrCorrupt, "node %d has %d separators for %d children",
			inner.nid, len(inner.separators), len(inner.children))
	}
	if !isRoot && (len(inner.children) < t.half() || len(inner.children) > t.cfg.Order) {
		return 0, 0, errors.Wrapf(ErrCorrupt, "node %d has %d children", inner.nid, len(inner.children))
	}
	for i := 1; i < len(inner.separators); i++ {
		if cmp(inner.separators[i-1], inner.separators[i]) >= 0 {
			return 0, 0, errors.Wrapf(ErrCorrupt, "node %d: separators not strictly increasing at %d", inner.nid, i)
		}
	}
	var childHeight int
	for i, child := range inner.children {
		if child.parentNode() != inner {
			return 0, 0, errors.Wrapf(ErrCorrupt, "child %d of node %d has wrong parent", child.id(), inner.nid)
		}
		cKeys, cHeight, cErr := t.checkNode(child, false)
		if cErr != nil {
			return 0, 0, cErr
		}
		if i == 0 {
			childHeight = cHeight
		} else if cHeight != childHeight {
			return 0, 0, errors.Wrapf(ErrCorrupt, "node %d has non-uniform subtree heights", inner.nid)
		}
		keys += cKeys
		if cKeys == 0 {
			continue
		}
		if err := t.checkBounds(inner, i, child); err != nil {
			return 0, 0, err
		}
	}
	return keys, childHeight + 1, nil
}

// checkBounds verifies the key range of child i against the separators of
// its parent.
func (t *Tree[K, V]) checkBounds(inner *innerNode[K, V], i int, child treeNode[K, V]) error {
	cmp := t.cfg.Compare
	lo := child.minKey()
	hiLeaf := child.lastLeaf()
	hi := hiLeaf.keys[len(hiLeaf.keys)-1]
	if i > 0 && cmp(inner.separators[i-1], lo) != 0 {
		return errors.Wrapf(ErrCorrupt, "node %d: separator %d does not match minimum of child %d",
			inner.nid, i-1, child.id())
	}
	if i < len(inner.separators) && cmp(hi, inner.separators[i]) >= 0 {
		return errors.Wrapf(ErrCorrupt, "node %d: child %d exceeds separator %d",
			inner.nid, child.id(), i)
	}
	return nil
}
