/*
Package btree provides an in-memory, order-preserving B+ tree for key/value
storage, designed to serve as the indexing core of a persistent store.

The package is a structural engine: it implements search, insertion, removal
and range traversal with logarithmic cost, together with the node splitting,
sibling borrowing, merging and root growth/collapse needed to keep the tree
balanced. It deliberately does not implement an on-disk format, a write-ahead
log or locking. Instead, a host storage layer plugs in through `Hooks`:

  - OnModified is called whenever a node's locally stored data changes,
  - OnRemoved is called exactly once for every node dissolved by a merge
    or by a root collapse,
  - DecodeValue is applied to every value handed out to clients,
  - Commit is called by `Tree.Commit` and returns a host-defined token.

Tree shape:
  - the root is always an internal node holding between 1 and `order`
    children; a freshly created tree consists of a root with a single,
    empty leaf,
  - every other node holds between ⌈order/2⌉ and `order` entries (children
    for internal nodes, keys for leaves),
  - separator key i-1 of an internal node equals the minimum key reachable in
    child i; child 0 never owns a local separator, so changes of its minimum
    are propagated to the ancestors (“boundary propagation”),
  - leaves know their parent, but not their siblings. Cursors move from leaf
    to leaf by walking up the parent chain.

The engine is single-threaded. Clients needing concurrent access have to
serialize mutations themselves. Cursors accept a checker callback which is
consulted before every step and may cancel a traversal, e.g. when a client
detects a concurrent modification.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package btree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ordtree'
func tracer() tracing.Trace {
	return tracing.Select("ordtree")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
