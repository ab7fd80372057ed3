package journal

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/ordtree/btree"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

func newJournaledTree(t *testing.T, cfg Config[string]) (*btree.Tree[int, string], *Journal[int, string]) {
	t.Helper()
	j := New[int, string](cfg)
	tcfg := btree.OrderedConfig[int, string](4)
	tcfg.Hooks = j
	tree, err := btree.New(tcfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return tree, j
}

func TestJournalTracksDirtyNodes(t *testing.T) {
	tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))
	defer tracing.SetTraceSelector(nil)
	tracer().SetTraceLevel(tracing.LevelInfo)
	//
	tree, j := newJournaledTree(t, Config[string]{})
	if dirty, removed := j.Pending(); dirty != 2 || removed != 0 {
		t.Fatalf("expected root and leaf of new tree to be dirty, have %d/%d", dirty, removed)
	}
	first, err := tree.Commit()
	if err != nil || first == "" {
		t.Fatalf("Commit() = %q, %v", first, err)
	}
	if dirty, removed := j.Pending(); dirty != 0 || removed != 0 {
		t.Fatalf("expected commit to reset change tracking, have %d/%d", dirty, removed)
	}
	for k := 1; k <= 10; k++ {
		tree.Add(k, strings.Repeat("x", k))
	}
	second, err := tree.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if second == first {
		t.Fatalf("commit tokens are not unique: %q", second)
	}
	cp, ok := j.Checkpoint(second)
	if !ok {
		t.Fatalf("checkpoint %q not found", second)
	}
	if cp.Meta.KeyCount != 10 {
		t.Errorf("expected checkpoint for 10 keys, have %d", cp.Meta.KeyCount)
	}
	keys := 0
	for _, snap := range cp.Dirty {
		if snap.Leaf {
			keys += len(snap.Keys)
			if len(snap.Values) != len(snap.Keys) {
				t.Errorf("leaf snapshot %d has %d keys, but %d values", snap.ID, len(snap.Keys), len(snap.Values))
			}
		} else if len(snap.Children) != len(snap.Keys)+1 {
			t.Errorf("node snapshot %d has %d children for %d separators", snap.ID, len(snap.Children), len(snap.Keys))
		}
	}
	if keys != 10 {
		t.Errorf("expected all 10 keys to be part of dirty leaves, have %d", keys)
	}
	if !slices.IsSortedFunc(cp.Dirty, func(a, b NodeSnapshot[int, string]) int {
		return int(a.ID) - int(b.ID)
	}) {
		t.Errorf("dirty snapshots are not ordered by node ID")
	}
}

func TestJournalTracksRemovedNodes(t *testing.T) {
	tree, j := newJournaledTree(t, Config[string]{})
	for k := 1; k <= 10; k++ {
		tree.Add(k, "v")
	}
	if _, err := tree.Commit(); err != nil {
		t.Fatal(err)
	}
	for _, k := range []int{5, 6, 7} {
		if _, err := tree.Remove(k); err != nil {
			t.Fatalf("remove(%d) failed: %v", k, err)
		}
	}
	token, err := tree.Commit()
	if err != nil {
		t.Fatal(err)
	}
	cp, _ := j.Latest()
	if cp.Token != token {
		t.Fatalf("latest checkpoint is %q, expected %q", cp.Token, token)
	}
	if len(cp.Removed) != 1 {
		t.Fatalf("expected one dissolved leaf, have %v", cp.Removed)
	}
	gone := cp.Removed[0]
	for _, snap := range cp.Dirty {
		if snap.ID == gone {
			t.Errorf("dissolved node %d is part of the dirty set", gone)
		}
		if slices.Contains(snap.Children, gone) {
			t.Errorf("dissolved node %d is still referenced by node %d", gone, snap.ID)
		}
	}
}

func TestJournalDecoder(t *testing.T) {
	tree, _ := newJournaledTree(t, Config[string]{
		Decoder: strings.ToUpper,
	})
	tree.Add(1, "one")
	if v, err := tree.Get(1); err != nil || v != "ONE" {
		t.Fatalf("Get(1) = %q, %v", v, err)
	}
	if vals := tree.Root().Values(); vals != nil {
		t.Fatalf("expected no values for internal node, have %v", vals)
	}
}

func TestJournalRetainsCheckpoints(t *testing.T) {
	tree, j := newJournaledTree(t, Config[string]{Retain: 2})
	var tokens []btree.Token
	for k := 1; k <= 3; k++ {
		tree.Add(k, "v")
		token, err := tree.Commit()
		if err != nil {
			t.Fatal(err)
		}
		tokens = append(tokens, token)
	}
	cps := j.Checkpoints()
	if len(cps) != 2 || cps[0].Token != tokens[1] || cps[1].Token != tokens[2] {
		t.Fatalf("expected the last two checkpoints to be retained, have %d", len(cps))
	}
	if _, ok := j.Checkpoint(tokens[0]); ok {
		t.Fatalf("expected checkpoint %q to be dropped", tokens[0])
	}
}

func TestJournalBroadcastsCommits(t *testing.T) {
	tree, j := newJournaledTree(t, Config[string]{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sub, err := j.Subscribe(ctx, 64)
	if err != nil {
		t.Fatal(err)
	}
	tree.Add(1, "v")
	token, err := tree.Commit()
	if err != nil {
		t.Fatal(err)
	}
	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				t.Fatalf("subscription ended before commit event arrived")
			}
			if ev.Kind != Committed {
				continue
			}
			if ev.Token != token || ev.Meta.KeyCount != 1 {
				t.Fatalf("unexpected commit event %+v", ev)
			}
			if !j.Unsubscribe(sub) {
				t.Errorf("unsubscribe failed")
			}
			return
		case <-ctx.Done():
			t.Fatalf("timeout waiting for commit event")
		}
	}
}

func TestJournalClose(t *testing.T) {
	tree, j := newJournaledTree(t, Config[string]{})
	if err := j.Close(); err != nil {
		t.Fatalf("unexpected error on close: %v", err)
	}
	if _, err := tree.Commit(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed for commit after close, got %v", err)
	}
	if err := j.Close(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed for second close, got %v", err)
	}
	if _, err := j.Subscribe(context.Background(), 1); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed for subscription to closed journal, got %v", err)
	}
}

func TestJournalIgnoresStalledSubscriber(t *testing.T) {
	tree, j := newJournaledTree(t, Config[string]{})
	sub, err := j.Subscribe(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for k := 1; k <= 50; k++ {
			tree.Add(k, "v")
			if _, err := tree.Commit(); err != nil {
				t.Errorf("commit failed: %v", err)
				return
			}
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("tree operations are blocked by a subscriber which does not read")
	}
	if tree.Len() != 50 {
		t.Errorf("expected 50 keys, have %d", tree.Len())
	}
	// the broadcaster hands events over asynchronously
	deadline := time.Now().Add(5 * time.Second)
	for sub.Dropped() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if sub.Dropped() == 0 {
		t.Errorf("expected events to be dropped for a stalled subscriber")
	}
	if !j.Unsubscribe(sub) {
		t.Errorf("unsubscribe failed")
	}
	if j.Unsubscribe(sub) {
		t.Errorf("second unsubscribe reported success")
	}
}

func TestJournalEndsSubscriptionWithContext(t *testing.T) {
	_, j := newJournaledTree(t, Config[string]{})
	ctx, cancel := context.WithCancel(context.Background())
	sub, err := j.Subscribe(ctx, 4)
	if err != nil {
		t.Fatal(err)
	}
	cancel()
	select {
	case _, ok := <-drainEvents(sub):
		if ok {
			t.Fatalf("subscription delivered events after cancellation")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("subscription not ended by its context")
	}
	if j.Unsubscribe(sub) {
		t.Errorf("unsubscribe of an ended subscription reported success")
	}
}

// drainEvents reports once the subscription's event channel is closed.
func drainEvents(sub *Subscription) <-chan Event {
	out := make(chan Event)
	go func() {
		for range sub.Events() {
		}
		close(out)
	}()
	return out
}

// replay rebuilds the node table of a tree from a series of checkpoints.
func replay(cps []Checkpoint[int, string]) map[btree.NodeID]NodeSnapshot[int, string] {
	nodes := make(map[btree.NodeID]NodeSnapshot[int, string])
	for _, cp := range cps {
		for _, id := range cp.Removed {
			delete(nodes, id)
		}
		for _, snap := range cp.Dirty {
			nodes[snap.ID] = snap
		}
	}
	return nodes
}

func TestJournalCheckpointsReproduceTree(t *testing.T) {
	for _, order := range []int{3, 4, 5} {
		j := New[int, string](Config[string]{Retain: -1})
		cfg := btree.OrderedConfig[int, string](order)
		cfg.Hooks = j
		tree, err := btree.New(cfg)
		if err != nil {
			t.Fatal(err)
		}
		for k := 1; k <= 40; k++ {
			tree.Add(k, "v")
		}
		if _, err := tree.Commit(); err != nil {
			t.Fatal(err)
		}
		for k := 1; k <= 20; k++ {
			if _, err := tree.Remove(k); err != nil {
				t.Fatal(err)
			}
		}
		for k := 100; k <= 130; k++ {
			tree.Add(k, "w")
		}
		for k := 21; k <= 35; k += 2 {
			if _, err := tree.Remove(k); err != nil {
				t.Fatal(err)
			}
		}
		if _, err := tree.Commit(); err != nil {
			t.Fatal(err)
		}
		nodes := replay(j.Checkpoints())
		live := 0
		err = tree.Walk(func(ref btree.NodeRef[int, string], _ int) error {
			live++
			snap, ok := nodes[ref.ID()]
			if !ok {
				t.Errorf("order %d: node %d missing from checkpoints", order, ref.ID())
				return nil
			}
			parent, _ := ref.Parent()
			if snap.Parent != parent {
				t.Errorf("order %d: node %d has parent %d in checkpoints, but %d in tree",
					order, ref.ID(), snap.Parent, parent)
			}
			if !slices.Equal(snap.Keys, ref.Keys()) || !slices.Equal(snap.Children, ref.Children()) {
				t.Errorf("order %d: checkpointed contents of node %d differ from tree", order, ref.ID())
			}
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(nodes) != live {
			t.Errorf("order %d: checkpoints hold %d nodes, tree has %d", order, len(nodes), live)
		}
		_ = j.Close()
	}
}
