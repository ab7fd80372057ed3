/*
Package inspect renders the structure of a B+ tree for debugging.

Three formats are supported:

  - Console prints an indented outline of the tree, using colors to tell
    internal nodes from leaves if the output device supports them,
  - HTML renders the tree as nested unordered lists,
  - Dot writes a Graphviz DOT graph.

Node labels list the keys of a node. Labels which do not fit the configured
output width are truncated at grapheme boundaries, respecting East Asian
character widths.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package inspect

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ordtree'
func tracer() tracing.Trace {
	return tracing.Select("ordtree")
}
