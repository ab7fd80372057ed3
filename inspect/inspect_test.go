package inspect

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/npillmayer/ordtree/btree"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/uax/uax11"
	"golang.org/x/net/html"
)

func sampleTree(t *testing.T, n int) *btree.Tree[int, string] {
	t.Helper()
	tree, err := btree.NewOrdered[int, string](4)
	if err != nil {
		t.Fatal(err)
	}
	for k := 1; k <= n; k++ {
		tree.Add(k, "v")
	}
	return tree
}

func countNodes[K, V any](tree *btree.Tree[K, V]) (nodes int, leaves int) {
	_ = tree.Walk(func(ref btree.NodeRef[K, V], _ int) error {
		nodes++
		if ref.IsLeaf() {
			leaves++
		}
		return nil
	})
	return
}

func TestConsole(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelInfo)
	color.NoColor = true
	//
	tree := sampleTree(t, 10)
	var out bytes.Buffer
	if err := Console(&out, tree, &Config{Width: 60}); err != nil {
		t.Fatal(err)
	}
	t.Logf("\n%s", out.String())
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	nodes, _ := countNodes(tree)
	if len(lines) != nodes {
		t.Fatalf("expected %d lines, have %d", nodes, len(lines))
	}
	if !strings.HasPrefix(lines[0], "node #") {
		t.Errorf("expected outline to start with the root, is %q", lines[0])
	}
	if lines[1] != "  leaf #2 [1 2]" {
		t.Errorf("expected first leaf to be indented, is %q", lines[1])
	}
	if strings.Contains(out.String(), "\x1b[") {
		t.Errorf("expected no escape sequences without colors")
	}
}

func TestConsoleRejectsNil(t *testing.T) {
	if err := Console[int, string](&bytes.Buffer{}, nil, nil); err != ErrNilArgument {
		t.Fatalf("expected ErrNilArgument, got %v", err)
	}
}

func TestTruncate(t *testing.T) {
	ctx := uax11.LatinContext
	if s := truncate("leaf #1 [1 2 3]", 40, ctx); s != "leaf #1 [1 2 3]" {
		t.Errorf("short label changed to %q", s)
	}
	if s := truncate("leaf #1 [1 2 3]", 8, ctx); s != "leaf #1…" {
		t.Errorf("expected truncated label, have %q", s)
	}
	if s := truncate("node #12 [30 40]", 16, ctx); s != "node #12 [30 40]" {
		t.Errorf("expected digits to be narrow, label changed to %q", s)
	}
	if s := truncate("leaf #3 [世界 x]", 12, ctx); s != "leaf #3 [世…" {
		t.Errorf("expected wide graphemes to count twice, have %q", s)
	}
	if s := truncate("anything", 0, ctx); s != "" {
		t.Errorf("expected empty label for zero width, have %q", s)
	}
}

func TestHTML(t *testing.T) {
	tree := sampleTree(t, 25)
	var out bytes.Buffer
	if err := HTML(&out, tree, nil); err != nil {
		t.Fatal(err)
	}
	doc, err := html.Parse(&out)
	if err != nil {
		t.Fatalf("output is not valid HTML: %v", err)
	}
	var items, leafItems int
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "li" {
			items++
			for _, a := range n.Attr {
				if a.Key == "class" && a.Val == "leaf" {
					leafItems++
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)
	nodes, leaves := countNodes(tree)
	if items != nodes || leafItems != leaves {
		t.Fatalf("expected %d list items (%d leaves), have %d (%d)", nodes, leaves, items, leafItems)
	}
}

func TestDot(t *testing.T) {
	tree := sampleTree(t, 25)
	var out bytes.Buffer
	if err := Dot(&out, tree, nil); err != nil {
		t.Fatal(err)
	}
	dot := out.String()
	if !strings.HasPrefix(dot, "strict digraph {") || !strings.HasSuffix(dot, "}\n") {
		t.Fatalf("unexpected DOT framing:\n%s", dot)
	}
	nodes, _ := countNodes(tree)
	if edges := strings.Count(dot, "->"); edges != nodes-1 {
		t.Errorf("expected %d edges, have %d", nodes-1, edges)
	}
	if labels := strings.Count(dot, "[label="); labels != nodes {
		t.Errorf("expected %d node declarations, have %d", nodes, labels)
	}
}
