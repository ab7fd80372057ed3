package journal

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/guiguan/caster"
	uuid "github.com/hashicorp/go-uuid"
	"github.com/npillmayer/ordtree/btree"
)

// DefaultRetain is the number of checkpoints a journal keeps if not
// configured otherwise.
const DefaultRetain = 16

// ErrClosed is returned for operations on a closed journal.
var ErrClosed = errors.New("journal: closed")

// Config configures a Journal.
type Config[V any] struct {
	// Decoder maps stored values to client values. Nil selects the identity.
	Decoder func(raw V) V
	// Retain is the number of checkpoints kept. Zero selects DefaultRetain,
	// a negative number keeps all checkpoints.
	Retain int
	// Context bounds the lifetime of the event broadcaster. May be nil.
	Context context.Context
}

// NodeSnapshot is a copy of a node's contents, taken at commit time.
type NodeSnapshot[K, V any] struct {
	ID       btree.NodeID
	Leaf     bool
	Parent   btree.NodeID // 0 for the root
	Keys     []K          // keys of a leaf, separators of an internal node
	Values   []V          // raw values of a leaf
	Children []btree.NodeID
}

// Checkpoint describes a commit: every node modified since the previous
// commit and every node dissolved since then.
type Checkpoint[K, V any] struct {
	Token   btree.Token
	Meta    btree.Meta
	Dirty   []NodeSnapshot[K, V] // ordered by node ID
	Removed []btree.NodeID       // ordered
}

// Journal tracks tree modifications between commits. It implements
// btree.Hooks and is safe for concurrent use.
type Journal[K, V any] struct {
	mu          sync.Mutex
	decoder     func(V) V
	retain      int
	dirty       map[btree.NodeID]btree.NodeRef[K, V]
	removed     map[btree.NodeID]struct{}
	checkpoints []Checkpoint[K, V]
	cast        *caster.Caster // broadcaster for journal events
	closed      bool
}

var _ btree.Hooks[int, int] = (*Journal[int, int])(nil)

// New creates an empty journal.
func New[K, V any](cfg Config[V]) *Journal[K, V] {
	retain := cfg.Retain
	if retain == 0 {
		retain = DefaultRetain
	}
	return &Journal[K, V]{
		decoder: cfg.Decoder,
		retain:  retain,
		dirty:   make(map[btree.NodeID]btree.NodeRef[K, V]),
		removed: make(map[btree.NodeID]struct{}),
		cast:    caster.New(cfg.Context),
	}
}

// OnModified marks a node as dirty.
func (j *Journal[K, V]) OnModified(ref btree.NodeRef[K, V]) {
	j.mu.Lock()
	j.dirty[ref.ID()] = ref
	j.mu.Unlock()
	j.cast.TryPub(Event{Kind: NodeModified, Node: ref.ID()})
}

// OnRemoved marks a node as dissolved. A dissolved node is no longer dirty,
// as there is nothing left to write back for it.
func (j *Journal[K, V]) OnRemoved(ref btree.NodeRef[K, V]) {
	id := ref.ID()
	j.mu.Lock()
	delete(j.dirty, id)
	j.removed[id] = struct{}{}
	j.mu.Unlock()
	j.cast.TryPub(Event{Kind: NodeRemoved, Node: id})
}

// DecodeValue applies the configured decoder.
func (j *Journal[K, V]) DecodeValue(raw V) V {
	if j.decoder == nil {
		return raw
	}
	return j.decoder(raw)
}

// Commit snapshots all dirty nodes, records a checkpoint under a fresh token
// and starts a new round of change tracking.
//
// Commit must not run concurrently with a mutating tree operation.
func (j *Journal[K, V]) Commit(meta btree.Meta) (btree.Token, error) {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return "", ErrClosed
	}
	id, err := uuid.GenerateUUID()
	if err != nil {
		j.mu.Unlock()
		return "", errors.Wrap(err, "journal: cannot generate commit token")
	}
	cp := Checkpoint[K, V]{
		Token:   btree.Token(id),
		Meta:    meta,
		Dirty:   make([]NodeSnapshot[K, V], 0, len(j.dirty)),
		Removed: slices.Sorted(maps.Keys(j.removed)),
	}
	for _, nid := range slices.Sorted(maps.Keys(j.dirty)) {
		cp.Dirty = append(cp.Dirty, snapshot(j.dirty[nid]))
	}
	j.checkpoints = append(j.checkpoints, cp)
	if j.retain > 0 && len(j.checkpoints) > j.retain {
		j.checkpoints = slices.Delete(j.checkpoints, 0, len(j.checkpoints)-j.retain)
	}
	clear(j.dirty)
	clear(j.removed)
	j.mu.Unlock()
	tracer().Infof("journal: commit %s, %d keys, %d dirty, %d removed",
		cp.Token, meta.KeyCount, len(cp.Dirty), len(cp.Removed))
	j.cast.TryPub(Event{Kind: Committed, Token: cp.Token, Meta: meta})
	return cp.Token, nil
}

func snapshot[K, V any](ref btree.NodeRef[K, V]) NodeSnapshot[K, V] {
	snap := NodeSnapshot[K, V]{
		ID:       ref.ID(),
		Leaf:     ref.IsLeaf(),
		Keys:     ref.Keys(),
		Values:   ref.Values(),
		Children: ref.Children(),
	}
	if p, ok := ref.Parent(); ok {
		snap.Parent = p
	}
	return snap
}

// Pending returns the number of dirty and of dissolved nodes since the last
// commit.
func (j *Journal[K, V]) Pending() (dirty int, removed int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.dirty), len(j.removed)
}

// Checkpoints returns the retained checkpoints, oldest first.
func (j *Journal[K, V]) Checkpoints() []Checkpoint[K, V] {
	j.mu.Lock()
	defer j.mu.Unlock()
	return slices.Clone(j.checkpoints)
}

// Checkpoint looks up a retained checkpoint by its token.
func (j *Journal[K, V]) Checkpoint(token btree.Token) (Checkpoint[K, V], bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	i := slices.IndexFunc(j.checkpoints, func(cp Checkpoint[K, V]) bool {
		return cp.Token == token
	})
	if i < 0 {
		return Checkpoint[K, V]{}, false
	}
	return j.checkpoints[i], true
}

// Latest returns the most recent checkpoint, if any.
func (j *Journal[K, V]) Latest() (Checkpoint[K, V], bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.checkpoints) == 0 {
		return Checkpoint[K, V]{}, false
	}
	return j.checkpoints[len(j.checkpoints)-1], true
}

// Close stops the event broadcaster and closes all subscriptions. Further
// commits fail with ErrClosed.
func (j *Journal[K, V]) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return ErrClosed
	}
	j.closed = true
	j.mu.Unlock()
	j.cast.Close()
	return nil
}
