// Package frontier provides deduplicated visited-state stores with
// per-layer frontier sequences and optional predecessor links.
//
// A Store is the single authority on first discovery: InsertIfAbsent
// returns true exactly once per key per search, and the layer recorded at
// that moment is the key's BFS depth forever. Explorers own the traversal
// logic; stores own deduplication, layer bookkeeping, and memory policy.
//
// # Backends
//
//   - MemoryStore: one mutex-guarded map; the default for searches that
//     fit in RAM.
//   - ShardedStore: visited keys partitioned across shards by key
//     fingerprint, for parallel expansion with less lock contention.
//   - BadgerStore: embedded disk store; survives process restarts and
//     bounds RAM independent of search depth.
//   - RedisStore: shared dedup across worker processes.
//
// Stores hold keys only, never full state payloads: once a key is
// recorded, the state it came from can be dropped or re-derived by
// decoding the key.
//
// # Layer lifecycle
//
// Layers are created implicitly by insertion and closed in strictly
// increasing order. Closing a layer freezes its key sequence; inserting
// into a closed layer is a usage error (LAYER_CLOSED), never silently
// accepted.
package frontier

import (
	"context"

	"github.com/cayleygo/cayleygo/pkg/core/state"
)

// RootGenerator is the generator index recorded on a search's start key,
// whose predecessor is the root sentinel (empty parent key).
const RootGenerator = -1

// Link records how a key was first reached: via Gen applied to Parent.
// The start state carries the root sentinel: Parent == "" and
// Gen == RootGenerator.
type Link struct {
	Parent state.Key
	Gen    int
}

// IsRoot reports whether the link is the root sentinel.
func (l Link) IsRoot() bool { return l.Parent == "" }

// Store is a deduplicated visited-key store with layer bookkeeping.
//
// All methods are safe for concurrent use. InsertIfAbsent is the only
// shared-mutation point during expansion and behaves as an atomic
// compare-and-insert.
type Store interface {
	// Contains reports whether key has been discovered.
	Contains(ctx context.Context, key state.Key) (bool, error)

	// InsertIfAbsent records key as first discovered in layer. It
	// returns true iff the key was newly inserted. Inserting into a
	// closed layer fails with LAYER_CLOSED; exceeding the store's key
	// budget fails with MEMORY_BUDGET and leaves the store unchanged
	// and consistent.
	InsertIfAbsent(ctx context.Context, key state.Key, layer int) (bool, error)

	// RecordPredecessor records how key was first reached. The first
	// recorded link wins; later calls for the same key are no-ops,
	// preserving first-discovery semantics under parallel expansion.
	RecordPredecessor(ctx context.Context, key, parent state.Key, gen int) error

	// Predecessor returns the recorded link for key. The second return
	// is false when no link was recorded.
	Predecessor(ctx context.Context, key state.Key) (Link, bool, error)

	// CloseLayer finalizes layer for iteration. Layers must be closed
	// in increasing order starting at 0; anything else fails with
	// LAYER_CLOSED.
	CloseLayer(ctx context.Context, layer int) error

	// Layer returns the keys first discovered in the given closed
	// layer, in insertion order.
	Layer(ctx context.Context, layer int) ([]state.Key, error)

	// Layers returns the number of closed layers.
	Layers(ctx context.Context) (int, error)

	// Len returns the number of discovered keys across all layers.
	Len(ctx context.Context) (int, error)

	// Close releases backend resources. The store is unusable after.
	Close() error
}
