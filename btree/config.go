package btree

import (
	"cmp"

	"github.com/cockroachdb/errors"
)

const (
	// DefaultOrder is the fan-out used when a Config does not specify one.
	DefaultOrder = 10
	// MinOrder is the smallest fan-out the balancing algorithms support.
	MinOrder = 3
)

// Config configures a B+ tree.
type Config[K, V any] struct {
	// Order is the maximum number of children of an internal node and the
	// maximum number of entries of a leaf. Zero selects DefaultOrder.
	Order int
	// Compare defines the key order. It must return a negative number if
	// a < b, zero if a == b and a positive number if a > b.
	Compare func(a, b K) int
	// Hooks connects the tree to a persistence layer. Nil selects NopHooks.
	Hooks Hooks[K, V]
}

// OrderedConfig returns a configuration for keys with a natural order.
func OrderedConfig[K cmp.Ordered, V any](order int) Config[K, V] {
	return Config[K, V]{
		Order:   order,
		Compare: cmp.Compare[K],
	}
}

func (cfg Config[K, V]) normalized() Config[K, V] {
	if cfg.Order == 0 {
		cfg.Order = DefaultOrder
	}
	if cfg.Hooks == nil {
		cfg.Hooks = NopHooks[K, V]{}
	}
	return cfg
}

func (cfg Config[K, V]) validate() error {
	cfg = cfg.normalized()
	if cfg.Order < MinOrder {
		return errors.Wrapf(ErrInvalidConfig, "order must be >= %d, is %d", MinOrder, cfg.Order)
	}
	if cfg.Compare == nil {
		return errors.Wrap(ErrInvalidConfig, "compare function is required")
	}
	return nil
}
