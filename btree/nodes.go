package btree

// NodeID identifies a node within its tree. IDs are assigned on node creation
// and are never reused.
type NodeID uint64

// treeNode is implemented by exactly two types, *leafNode and *innerNode.
type treeNode[K, V any] interface {
	isLeaf() bool
	id() NodeID
	parentNode() *innerNode[K, V]
	setParent(p *innerNode[K, V])
	count() int
	minKey() K
	firstLeaf() *leafNode[K, V]
	lastLeaf() *leafNode[K, V]
}

type leafNode[K, V any] struct {
	tree   *Tree[K, V]
	nid    NodeID
	parent *innerNode[K, V] // non-owning; nil only after the leaf has been dissolved
	keys   []K              // strictly increasing
	values []V              // values[i] belongs to keys[i]
}

func (l *leafNode[K, V]) isLeaf() bool                 { return true }
func (l *leafNode[K, V]) id() NodeID                   { return l.nid }
func (l *leafNode[K, V]) parentNode() *innerNode[K, V] { return l.parent }
func (l *leafNode[K, V]) setParent(p *innerNode[K, V]) { l.parent = p }
func (l *leafNode[K, V]) count() int                   { return len(l.keys) }
func (l *leafNode[K, V]) firstLeaf() *leafNode[K, V]   { return l }
func (l *leafNode[K, V]) lastLeaf() *leafNode[K, V]    { return l }

func (l *leafNode[K, V]) minKey() K {
	assert(len(l.keys) > 0, "minKey called on empty leaf")
	return l.keys[0]
}

type innerNode[K, V any] struct {
	tree       *Tree[K, V]
	nid        NodeID
	parent     *innerNode[K, V] // non-owning; nil for the root
	separators []K              // len(separators) == len(children)-1
	children   []treeNode[K, V]
}

func (n *innerNode[K, V]) isLeaf() bool                 { return false }
func (n *innerNode[K, V]) id() NodeID                   { return n.nid }
func (n *innerNode[K, V]) parentNode() *innerNode[K, V] { return n.parent }
func (n *innerNode[K, V]) setParent(p *innerNode[K, V]) { n.parent = p }
func (n *innerNode[K, V]) count() int                   { return len(n.children) }

func (n *innerNode[K, V]) minKey() K {
	assert(len(n.children) > 0, "minKey called on inner node without children")
	return n.children[0].minKey()
}

func (n *innerNode[K, V]) firstLeaf() *leafNode[K, V] {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0].firstLeaf()
}

func (n *innerNode[K, V]) lastLeaf() *leafNode[K, V] {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1].lastLeaf()
}

// --- Node construction ------------------------------------------------------

func (t *Tree[K, V]) nextNodeID() NodeID {
	t.lastID++
	return t.lastID
}

// newLeaf creates a leaf owning keys and values. The new leaf is reported
// as modified.
func (t *Tree[K, V]) newLeaf(parent *innerNode[K, V], keys []K, values []V) *leafNode[K, V] {
	leaf := &leafNode[K, V]{
		tree:   t,
		nid:    t.nextNodeID(),
		parent: parent,
		keys:   keys,
		values: values,
	}
	t.modified(leaf)
	return leaf
}

// newInner creates an internal node and adopts children. The new node is
// reported as modified.
func (t *Tree[K, V]) newInner(parent *innerNode[K, V], separators []K, children []treeNode[K, V]) *innerNode[K, V] {
	inner := &innerNode[K, V]{
		tree:       t,
		nid:        t.nextNodeID(),
		parent:     parent,
		separators: separators,
		children:   children,
	}
	for _, child := range children {
		t.adopt(inner, child)
	}
	t.modified(inner)
	return inner
}

// adopt makes p the parent of child. A child which changes its parent is
// reported as modified.
func (t *Tree[K, V]) adopt(p *innerNode[K, V], child treeNode[K, V]) {
	if child.parentNode() == p {
		return
	}
	child.setParent(p)
	t.modified(child)
}

func (t *Tree[K, V]) modified(n treeNode[K, V]) {
	t.cfg.Hooks.OnModified(NodeRef[K, V]{n: n})
}

func (t *Tree[K, V]) removed(n treeNode[K, V]) {
	t.cfg.Hooks.OnRemoved(NodeRef[K, V]{n: n})
	n.setParent(nil)
}
