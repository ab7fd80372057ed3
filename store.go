package ordtree

import (
	"cmp"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/npillmayer/ordtree/btree"
	"github.com/npillmayer/ordtree/journal"
)

var (
	// ErrClosed is returned for operations on a closed store.
	ErrClosed = errors.New("ordtree: store closed")
	// ErrNotFound signals that a key is not present in the store.
	ErrNotFound = btree.ErrNotFound
)

// Store is an ordered key/value store. Its tree reports all structural
// changes to a journal, which records them as checkpoints on commit.
//
// A Store is safe for concurrent use.
type Store[K cmp.Ordered, V any] struct {
	mu         sync.RWMutex
	tree       *btree.Tree[K, V]
	journal    *journal.Journal[K, V]
	generation uint64 // incremented by every mutation
	closed     bool
}

// Open creates an empty store.
func Open[K cmp.Ordered, V any](opts ...Option) (*Store[K, V], error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	jcfg := journal.Config[V]{
		Retain:  s.retain,
		Context: s.ctx,
	}
	if s.decoder != nil {
		decode, ok := s.decoder.(func(V) V)
		if !ok {
			return nil, errors.Wrapf(btree.ErrInvalidConfig, "decoder of type %T does not match value type", s.decoder)
		}
		jcfg.Decoder = decode
	}
	j := journal.New[K, V](jcfg)
	cfg := btree.OrderedConfig[K, V](s.order)
	cfg.Hooks = j
	tree, err := btree.New(cfg)
	if err != nil {
		_ = j.Close()
		return nil, err
	}
	tracer().Debugf("ordtree: opened store of order %d", tree.Order())
	return &Store[K, V]{tree: tree, journal: j}, nil
}

// Put stores value under key, overwriting a previous value.
func (s *Store[K, V]) Put(key K, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.tree.Add(key, value)
	s.generation++
	return nil
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store[K, V]) Get(key K) (V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		var zero V
		return zero, ErrClosed
	}
	return s.tree.Get(key)
}

// Has reports whether key is present.
func (s *Store[K, V]) Has(key K) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed && s.tree.Has(key)
}

// Delete removes key and returns its value, or ErrNotFound.
func (s *Store[K, V]) Delete(key K) (V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		var zero V
		return zero, ErrClosed
	}
	v, err := s.tree.Remove(key)
	if err == nil {
		s.generation++
	}
	return v, err
}

// Len returns the number of keys in the store. A closed store is empty.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0
	}
	return s.tree.Len()
}

// Range calls fn for every entry with from <= key <= to, in ascending key
// order, until fn returns false.
//
// The store is not locked while fn runs, so fn may modify the store. Any
// modification ends the range with an error wrapping btree.ErrCancelled.
func (s *Store[K, V]) Range(from, to K, fn func(key K, value V) bool) error {
	return s.iterate(fn, func(opts ...btree.CursorOption[K]) *btree.Cursor[K, V] {
		return s.tree.Traverse(opts...)
	}, btree.From(from), btree.To(to))
}

// Descend is like Range, but visits entries in descending key order.
func (s *Store[K, V]) Descend(from, to K, fn func(key K, value V) bool) error {
	return s.iterate(fn, func(opts ...btree.CursorOption[K]) *btree.Cursor[K, V] {
		return s.tree.RTraverse(opts...)
	}, btree.From(from), btree.To(to))
}

func (s *Store[K, V]) iterate(fn func(K, V) bool,
	open func(...btree.CursorOption[K]) *btree.Cursor[K, V], bounds ...btree.CursorOption[K]) error {
	//
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	gen := s.generation
	checker := btree.WithChecker[K](func() error {
		if s.closed {
			return ErrClosed
		}
		if s.generation != gen {
			return errors.Newf("store modified during range (generation %d, now %d)", gen, s.generation)
		}
		return nil
	})
	cursor := open(append(bounds, checker)...)
	s.mu.RUnlock()
	for {
		s.mu.RLock() // the checker and the cursor step run under the read lock
		ok := cursor.Next()
		k, v := cursor.Key(), cursor.Value()
		s.mu.RUnlock()
		if !ok {
			return cursor.Err()
		}
		if !fn(k, v) {
			return nil
		}
	}
}

// Commit records a checkpoint of all changes since the previous commit and
// returns its token.
func (s *Store[K, V]) Commit() (btree.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}
	return s.tree.Commit()
}

// Journal returns the journal recording the changes of the store.
func (s *Store[K, V]) Journal() *journal.Journal[K, V] {
	return s.journal
}

// Tree returns the store's tree. Clients must not modify the tree directly
// and must not read it concurrently with store mutations. The tree stays
// readable after the store has been closed, e.g. for inspection.
func (s *Store[K, V]) Tree() *btree.Tree[K, V] {
	return s.tree
}

// Close commits pending changes and closes the store's journal.
func (s *Store[K, V]) Close() (btree.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}
	token, err := s.tree.Close()
	s.closed = true
	if cerr := s.journal.Close(); err == nil && cerr != nil {
		err = cerr
	}
	return token, err
}
