package inspect

import (
	"fmt"
	"strings"
	"sync"

	"github.com/npillmayer/ordtree/btree"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/uax11"
)

var graphemeSetup sync.Once

func nodeLabel[K, V any](ref btree.NodeRef[K, V]) string {
	if ref.IsLeaf() {
		return fmt.Sprintf("leaf #%d %v", ref.ID(), ref.Keys())
	}
	return fmt.Sprintf("node #%d %v", ref.ID(), ref.Keys())
}

// truncate shortens s to at most width fixed-width positions. Truncated
// labels end in an ellipsis.
func truncate(s string, width int, ctx *uax11.Context) string {
	graphemeSetup.Do(func() {
		grapheme.SetupGraphemeClasses()
	})
	gstr := grapheme.StringFromString(s)
	widths := make([]int, gstr.Len())
	total := 0
	for i := range widths {
		widths[i] = displayWidth(gstr.Nth(i), ctx)
		total += widths[i]
	}
	if total <= width {
		return s
	}
	if width < 1 {
		return ""
	}
	var b strings.Builder
	used := 0
	for i, w := range widths {
		if used+w > width-1 {
			break
		}
		b.WriteString(gstr.Nth(i))
		used += w
	}
	b.WriteString("…")
	return b.String()
}

// displayWidth returns the number of fixed-width positions of grapheme g.
// uax11 counts keycap bases ('#', '*' and digits) as emoji of width 2, which
// they are not when standing alone, so printable ASCII is always narrow.
func displayWidth(g string, ctx *uax11.Context) int {
	if len(g) == 1 && g[0] >= 0x20 && g[0] < 0x7f {
		return 1
	}
	return uax11.StringWidth(grapheme.StringFromString(g), ctx)
}
