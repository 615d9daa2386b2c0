package frontier

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cayleygo/cayleygo/pkg/core/state"
	"github.com/cayleygo/cayleygo/pkg/errors"
	"github.com/cayleygo/cayleygo/pkg/observability"
)

// DefaultShards is the shard count used when NewShardedStore is given a
// non-positive count.
const DefaultShards = 16

// ShardedStore partitions visited keys across shards by key fingerprint,
// so parallel workers contend on per-shard locks instead of one global
// mutex. Layer membership is identical to MemoryStore; only the
// insertion order within a layer depends on shard interleaving, which
// callers must already tolerate when expanding in parallel.
type ShardedStore struct {
	shards  []storeShard
	count   atomic.Int64
	closed  atomic.Int64 // highest closed layer, -1 before any close
	closeMu sync.RWMutex // held shared by inserts, exclusive by CloseLayer
	maxKeys int
}

type storeShard struct {
	mu      sync.Mutex
	visited map[state.Key]int
	layers  [][]state.Key
	preds   map[state.Key]Link
}

// NewShardedStore creates a store with the given shard count (0 or
// negative picks DefaultShards). maxKeys caps the visited-set size
// across all shards; the cap is enforced to within the number of
// concurrent inserters. 0 means unbounded.
func NewShardedStore(shards, maxKeys int) *ShardedStore {
	if shards <= 0 {
		shards = DefaultShards
	}
	s := &ShardedStore{
		shards:  make([]storeShard, shards),
		maxKeys: maxKeys,
	}
	s.closed.Store(-1)
	for i := range s.shards {
		s.shards[i].visited = make(map[state.Key]int)
		s.shards[i].preds = make(map[state.Key]Link)
	}
	return s
}

func (s *ShardedStore) shard(key state.Key) *storeShard {
	return &s.shards[state.Fingerprint(key)%uint64(len(s.shards))]
}

// Contains reports whether key has been discovered.
func (s *ShardedStore) Contains(ctx context.Context, key state.Key) (bool, error) {
	sh := s.shard(key)
	sh.mu.Lock()
	_, ok := sh.visited[key]
	sh.mu.Unlock()
	return ok, nil
}

// InsertIfAbsent records key as first discovered in layer. The close lock
// is held for the whole insert, so once CloseLayer returns no insert into
// that layer is still in flight.
func (s *ShardedStore) InsertIfAbsent(ctx context.Context, key state.Key, layer int) (bool, error) {
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()

	if int64(layer) <= s.closed.Load() {
		return false, errors.New(errors.ErrCodeLayerClosed, "layer %d is closed", layer)
	}

	sh := s.shard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.visited[key]; ok {
		observability.Store().OnInsert(ctx, layer, false)
		return false, nil
	}
	if s.maxKeys > 0 && s.count.Load() >= int64(s.maxKeys) {
		return false, errors.New(errors.ErrCodeMemoryBudget, "visited set reached its cap of %d keys", s.maxKeys)
	}

	sh.visited[key] = layer
	for len(sh.layers) <= layer {
		sh.layers = append(sh.layers, nil)
	}
	sh.layers[layer] = append(sh.layers[layer], key)
	s.count.Add(1)
	observability.Store().OnInsert(ctx, layer, true)
	return true, nil
}

// RecordPredecessor records how key was first reached. First link wins.
func (s *ShardedStore) RecordPredecessor(ctx context.Context, key, parent state.Key, gen int) error {
	sh := s.shard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.preds[key]; !ok {
		sh.preds[key] = Link{Parent: parent, Gen: gen}
	}
	return nil
}

// Predecessor returns the recorded link for key.
func (s *ShardedStore) Predecessor(ctx context.Context, key state.Key) (Link, bool, error) {
	sh := s.shard(key)
	sh.mu.Lock()
	l, ok := sh.preds[key]
	sh.mu.Unlock()
	return l, ok, nil
}

// CloseLayer finalizes layer. Layers close in increasing order from 0.
func (s *ShardedStore) CloseLayer(ctx context.Context, layer int) error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if int64(layer) != s.closed.Load()+1 {
		return errors.New(errors.ErrCodeLayerClosed, "cannot close layer %d: next closable layer is %d", layer, s.closed.Load()+1)
	}
	s.closed.Store(int64(layer))

	var size int
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		if layer < len(sh.layers) {
			size += len(sh.layers[layer])
		}
		sh.mu.Unlock()
	}
	observability.Store().OnLayerClosed(ctx, layer, size)
	return nil
}

// Layer returns the keys of a closed layer, grouped by shard in shard
// order. Within-layer ordering is unspecified for sharded stores.
func (s *ShardedStore) Layer(ctx context.Context, layer int) ([]state.Key, error) {
	if layer < 0 || int64(layer) > s.closed.Load() {
		return nil, errors.New(errors.ErrCodeLayerClosed, "layer %d is not closed", layer)
	}
	var out []state.Key
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		if layer < len(sh.layers) {
			out = append(out, sh.layers[layer]...)
		}
		sh.mu.Unlock()
	}
	return out, nil
}

// Layers returns the number of closed layers.
func (s *ShardedStore) Layers(ctx context.Context) (int, error) {
	return int(s.closed.Load()) + 1, nil
}

// Len returns the number of discovered keys.
func (s *ShardedStore) Len(ctx context.Context) (int, error) {
	return int(s.count.Load()), nil
}

// Close releases the shard maps.
func (s *ShardedStore) Close() error {
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		sh.visited = nil
		sh.layers = nil
		sh.preds = nil
		sh.mu.Unlock()
	}
	return nil
}

// Ensure ShardedStore implements Store.
var _ Store = (*ShardedStore)(nil)
