package ordtree

import (
	"context"

	"github.com/npillmayer/ordtree/btree"
)

// Option configures a Store.
type Option func(*settings)

type settings struct {
	order   int
	retain  int
	decoder any // func(V) V, checked by Open
	ctx     context.Context
}

// WithOrder sets the fan-out of the store's tree. The default is
// btree.DefaultOrder.
func WithOrder(order int) Option {
	return func(s *settings) {
		s.order = order
	}
}

// WithRetain sets the number of checkpoints the store's journal keeps.
func WithRetain(n int) Option {
	return func(s *settings) {
		s.retain = n
	}
}

// WithDecoder installs a function mapping stored values to the values
// handed out by the store. Its type has to match the store's value type.
func WithDecoder[V any](decode func(raw V) V) Option {
	return func(s *settings) {
		s.decoder = decode
	}
}

// WithContext bounds the lifetime of the journal's event broadcaster.
func WithContext(ctx context.Context) Option {
	return func(s *settings) {
		s.ctx = ctx
	}
}

func defaultSettings() settings {
	return settings{
		order: btree.DefaultOrder,
	}
}
