package btree

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidConfig signals an invalid tree configuration.
	ErrInvalidConfig = errors.New("btree: invalid configuration")
	// ErrNotFound signals that a key is not present in the tree.
	ErrNotFound = errors.New("btree: key not found")
	// ErrCancelled signals that a cursor's checker aborted a traversal.
	ErrCancelled = errors.New("btree: traversal cancelled")
	// ErrCorrupt is reported by Check for violated structural invariants.
	ErrCorrupt = errors.New("btree: structural invariant violated")
)
