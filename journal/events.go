package journal

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/npillmayer/ordtree/btree"
)

// EventKind tells what happened to a journal.
type EventKind uint8

const (
	NodeModified EventKind = iota + 1 // a node has been created or changed
	NodeRemoved                       // a node has been dissolved
	Committed                         // a checkpoint has been recorded
)

func (k EventKind) String() string {
	switch k {
	case NodeModified:
		return "modified"
	case NodeRemoved:
		return "removed"
	case Committed:
		return "committed"
	}
	return "unknown"
}

// Event is published to subscribers of a journal. Node is set for node
// events, Token and Meta for commit events.
type Event struct {
	Kind  EventKind
	Node  btree.NodeID
	Token btree.Token
	Meta  btree.Meta
}

// Subscription delivers journal events. It ends when the journal is closed
// or when the subscription is cancelled. Cancelling the context given to
// Subscribe ends it as well.
//
// Events are never waited for: if a subscriber falls behind, events are
// dropped and counted.
type Subscription struct {
	ctx     context.Context
	raw     chan interface{}
	events  chan Event
	dropped atomic.Uint64
	unsub   func() bool
	once    sync.Once
}

// Subscribe registers a new subscriber. capacity is the number of events
// buffered for a slow reader.
func (j *Journal[K, V]) Subscribe(ctx context.Context, capacity uint) (*Subscription, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	j.mu.Lock()
	closed := j.closed
	j.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	// The broadcaster never sees ctx: its channel is closed by Unsub only,
	// or by closing the journal.
	raw, ok := j.cast.Sub(context.Background(), capacity)
	if !ok {
		return nil, ErrClosed
	}
	sub := &Subscription{
		ctx:    ctx,
		raw:    raw,
		events: make(chan Event, capacity),
	}
	sub.unsub = func() bool { return j.cast.Unsub(raw) }
	go sub.forward()
	return sub, nil
}

// Unsubscribe cancels a subscription. Its event channel will be closed.
// Unsubscribe reports false if the subscription had already ended.
func (j *Journal[K, V]) Unsubscribe(sub *Subscription) bool {
	if sub == nil {
		return false
	}
	return sub.cancel()
}

func (s *Subscription) cancel() (ok bool) {
	s.once.Do(func() {
		ok = s.unsub()
	})
	return
}

// Events returns the channel of events.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Dropped returns the number of events lost because the subscriber did not
// keep up.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// forward converts broadcast messages to events, until the broadcaster
// closes the raw channel or the subscription's context is done.
func (s *Subscription) forward() {
	defer close(s.events)
	for {
		select {
		case <-s.ctx.Done():
			s.cancel()
			return
		case msg, ok := <-s.raw:
			if !ok {
				return
			}
			ev, isEvent := msg.(Event)
			if !isEvent {
				tracer().Errorf("journal: unexpected message of type %T", msg)
				continue
			}
			select {
			case s.events <- ev:
			default:
				s.dropped.Add(1)
			}
		}
	}
}
