package inspect

import (
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/npillmayer/ordtree/btree"
)

// ErrNilArgument is returned if a renderer is called without output or tree.
var ErrNilArgument = errors.New("inspect: illegal argument: nil")

// Palette holds the colors for console output.
type Palette struct {
	Inner *color.Color
	Leaf  *color.Color
}

// DefaultPalette renders internal nodes in bold blue and leaves in green.
func DefaultPalette() Palette {
	return Palette{
		Inner: color.New(color.FgBlue, color.Bold),
		Leaf:  color.New(color.FgGreen),
	}
}

// Console writes an indented outline of tree to w, one node per line,
// internal nodes before their children.
//
// If parameter config is nil, DefaultConfig is used.
func Console[K, V any](w io.Writer, tree *btree.Tree[K, V], config *Config) error {
	if w == nil || tree == nil {
		return ErrNilArgument
	}
	if config == nil {
		config = DefaultConfig()
	}
	palette := DefaultPalette()
	for _, c := range []*color.Color{palette.Inner, palette.Leaf} {
		if config.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return tree.Walk(func(ref btree.NodeRef[K, V], depth int) error {
		indent := strings.Repeat("  ", depth)
		label := truncate(nodeLabel(ref), config.Width-len(indent), config.context())
		if _, err := io.WriteString(w, indent); err != nil {
			return errors.Wrap(err, "inspect: console output")
		}
		c := palette.Inner
		if ref.IsLeaf() {
			c = palette.Leaf
		}
		if _, err := c.Fprintln(w, label); err != nil {
			return errors.Wrap(err, "inspect: console output")
		}
		return nil
	})
}

// Print outputs the outline of tree to stdout, configured from the terminal's
// properties.
func Print[K, V any](tree *btree.Tree[K, V]) error {
	return Console(os.Stdout, tree, ConfigFromTerminal())
}
