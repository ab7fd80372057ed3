package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/npillmayer/ordtree/btree"
)

// Dot outputs the structure of tree in Graphviz DOT format.
//
// If parameter config is nil, DefaultConfig is used.
func Dot[K, V any](w io.Writer, tree *btree.Tree[K, V], config *Config) error {
	if w == nil || tree == nil {
		return ErrNilArgument
	}
	if config == nil {
		config = DefaultConfig()
	}
	var nodelist, edgelist strings.Builder
	err := tree.Walk(func(ref btree.NodeRef[K, V], depth int) error {
		label := truncate(fmt.Sprintf("%v", ref.Keys()), config.Width, config.context())
		label = strings.ReplaceAll(label, `"`, `\"`)
		fmt.Fprintf(&nodelist, "\"%d\" [label=\"#%d\\n%s\" %s];\n", ref.ID(), ref.ID(), label,
			nodeDotStyles(ref.IsLeaf(), ref.IsRoot()))
		for _, child := range ref.Children() {
			fmt.Fprintf(&edgelist, "\"%d\" -> \"%d\";\n", ref.ID(), child)
		}
		return nil
	})
	if err != nil {
		tracer().Errorf("tree DOT: %s", err.Error())
		return err
	}
	var b strings.Builder
	b.WriteString("strict digraph {\n")
	b.WriteString("\tnode [fontname=Arial,fontsize=12];\n")
	b.WriteString(nodelist.String())
	b.WriteString(edgelist.String())
	b.WriteString("}\n")
	if _, err = io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(err, "inspect: DOT output")
	}
	return nil
}

func nodeDotStyles(isleaf bool, isroot bool) string {
	if isleaf {
		return ",shape=box,style=filled,fillcolor=white"
	}
	s := ",shape=box,style=\"filled,rounded\",color=black"
	if isroot {
		return s + ",fillcolor=\"#66AAFF\""
	}
	return s + ",fillcolor=\"#a3d7e4\""
}
