package btree

// Token identifies a commit. Its format is defined by the Hooks implementation.
type Token string

// Meta carries tree-level metadata for a persistence layer.
type Meta struct {
	KeyCount int
}

// Hooks is the extension point for a persistence layer.
//
// OnModified and OnRemoved are called synchronously from within mutating
// operations, i.e. while the tree is in transition. Implementations should
// record the node reference and defer reading node contents until the
// mutating operation has returned (usually until Commit).
type Hooks[K, V any] interface {
	// OnModified is called whenever the locally stored data of a node changes,
	// including the creation of a node and a change of its parent.
	OnModified(ref NodeRef[K, V])
	// OnRemoved is called exactly once for a node which became unreachable.
	OnRemoved(ref NodeRef[K, V])
	// DecodeValue maps a stored value to the value handed out to clients.
	DecodeValue(raw V) V
	// Commit is called by Tree.Commit.
	Commit(meta Meta) (Token, error)
}

// NopHooks is the default Hooks implementation. It does nothing.
type NopHooks[K, V any] struct{}

func (NopHooks[K, V]) OnModified(NodeRef[K, V])   {}
func (NopHooks[K, V]) OnRemoved(NodeRef[K, V])    {}
func (NopHooks[K, V]) DecodeValue(raw V) V        { return raw }
func (NopHooks[K, V]) Commit(Meta) (Token, error) { return "", nil }

// NodeRef is a read-only handle to a tree node, handed to hooks and walkers.
//
// A NodeRef is live: its accessors reflect the current state of the node.
// After a node has been reported as removed, Parent reports no parent and
// the node's contents are no longer part of the tree.
type NodeRef[K, V any] struct {
	n treeNode[K, V]
}

func (r NodeRef[K, V]) resolve() treeNode[K, V] {
	assert(r.n != nil, "resolve called on zero NodeRef")
	return r.n
}

// IsZero reports whether r does not reference a node.
func (r NodeRef[K, V]) IsZero() bool {
	return r.n == nil
}

// ID returns the node's identity.
func (r NodeRef[K, V]) ID() NodeID {
	return r.resolve().id()
}

// IsLeaf reports whether the node is a leaf.
func (r NodeRef[K, V]) IsLeaf() bool {
	return r.resolve().isLeaf()
}

// IsRoot reports whether the node is the current root of its tree.
func (r NodeRef[K, V]) IsRoot() bool {
	inner, ok := r.resolve().(*innerNode[K, V])
	return ok && inner.tree.root == inner
}

// Parent returns the ID of the parent node, if any.
func (r NodeRef[K, V]) Parent() (NodeID, bool) {
	p := r.resolve().parentNode()
	if p == nil {
		return 0, false
	}
	return p.nid, true
}

// Len returns the number of entries: keys for a leaf, children otherwise.
func (r NodeRef[K, V]) Len() int {
	return r.resolve().count()
}

// Keys returns a copy of the leaf keys, or of the separator keys for an
// internal node.
func (r NodeRef[K, V]) Keys() []K {
	switch n := r.resolve().(type) {
	case *leafNode[K, V]:
		return append([]K(nil), n.keys...)
	case *innerNode[K, V]:
		return append([]K(nil), n.separators...)
	}
	return nil
}

// Values returns a copy of the raw (not decoded) leaf values. It returns nil
// for internal nodes.
func (r NodeRef[K, V]) Values() []V {
	if leaf, ok := r.resolve().(*leafNode[K, V]); ok {
		return append([]V(nil), leaf.values...)
	}
	return nil
}

// Children returns the IDs of the node's children. It returns nil for leaves.
func (r NodeRef[K, V]) Children() []NodeID {
	inner, ok := r.resolve().(*innerNode[K, V])
	if !ok {
		return nil
	}
	ids := make([]NodeID, len(inner.children))
	for i, child := range inner.children {
		ids[i] = child.id()
	}
	return ids
}
