/*
Package journal records the modifications of a B+ tree between commits.

A Journal implements btree.Hooks. It keeps the set of nodes which have been
modified since the last commit, together with the set of nodes which have
been dissolved. On commit it takes a snapshot of every dirty node, assigns
the commit a unique token and keeps the result as a Checkpoint. This is the
information a persistence layer needs to write back a consistent state of the
tree; the journal itself keeps checkpoints in memory only.

Clients may subscribe to a stream of journal events. Events are published on
a best-effort basis: a subscriber which does not keep up loses events, but it
never holds up the tree.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package journal

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ordtree'
func tracer() tracing.Trace {
	return tracing.Select("ordtree")
}
