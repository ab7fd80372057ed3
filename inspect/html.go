package inspect

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/npillmayer/ordtree/btree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTML renders tree as nested unordered lists. The outermost list has class
// "btree", list items have class "node" or "leaf".
//
// If parameter config is nil, DefaultConfig is used.
func HTML[K, V any](w io.Writer, tree *btree.Tree[K, V], config *Config) error {
	if w == nil || tree == nil {
		return ErrNilArgument
	}
	if config == nil {
		config = DefaultConfig()
	}
	root := element(atom.Ul, "btree")
	lists := []*html.Node{root} // lists[d] receives the nodes of depth d
	err := tree.Walk(func(ref btree.NodeRef[K, V], depth int) error {
		class := "node"
		if ref.IsLeaf() {
			class = "leaf"
		}
		li := element(atom.Li, class)
		li.AppendChild(&html.Node{
			Type: html.TextNode,
			Data: truncate(nodeLabel(ref), config.Width, config.context()),
		})
		lists[depth].AppendChild(li)
		if !ref.IsLeaf() {
			ul := element(atom.Ul, "")
			li.AppendChild(ul)
			lists = append(lists[:depth+1], ul)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err = html.Render(w, root); err != nil {
		return errors.Wrap(err, "inspect: HTML output")
	}
	return nil
}

func element(a atom.Atom, class string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
	}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return n
}
