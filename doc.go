/*
Package ordtree is an ordered key/value store built on an in-memory B+ tree.

# Store

A Store maps keys with a natural order to values. It keeps its entries in a
B+ tree (package btree) and records every structural change of the tree in a
journal (package journal). Committing a store creates a checkpoint in the
journal, identified by a unique token, which contains copies of all nodes
changed since the previous commit. This is the information a persistence
layer needs to write back a consistent state.

	store, err := ordtree.Open[string, int](ordtree.WithOrder(32))
	...
	store.Put("answer", 42)
	token, err := store.Commit()

Stores serialize mutations, so they may be shared between goroutines.
Range traversals do not block writers. Instead, a range is cancelled with
btree.ErrCancelled as soon as the store is modified while the range is
still in progress.

# Trees and Hooks

Clients needing more control may use package btree directly. A tree accepts
hooks which are notified about node modifications and node removals; package
journal is one implementation of these hooks. Package inspect renders trees
for debugging purposes.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) 2026, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
this list of conditions and the following disclaimer in the documentation
and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
contributors may be used to endorse or promote products derived from
this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

*/
package ordtree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ordtree'
func tracer() tracing.Trace {
	return tracing.Select("ordtree")
}
