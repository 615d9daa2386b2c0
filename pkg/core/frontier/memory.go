package frontier

import (
	"context"
	"sync"

	"github.com/cayleygo/cayleygo/pkg/core/state"
	"github.com/cayleygo/cayleygo/pkg/errors"
	"github.com/cayleygo/cayleygo/pkg/observability"
)

// MemoryStore is the default in-process Store: a single mutex-guarded
// map plus per-layer key slices.
type MemoryStore struct {
	mu      sync.Mutex
	visited map[state.Key]int // key -> layer of first discovery
	layers  [][]state.Key     // layer -> keys in insertion order
	preds   map[state.Key]Link
	closed  int // highest closed layer, -1 before any close
	maxKeys int // 0 means unbounded
}

// NewMemoryStore creates an in-memory store. maxKeys caps the visited
// set size (the memory budget); 0 means unbounded.
func NewMemoryStore(maxKeys int) *MemoryStore {
	return &MemoryStore{
		visited: make(map[state.Key]int),
		preds:   make(map[state.Key]Link),
		closed:  -1,
		maxKeys: maxKeys,
	}
}

// Contains reports whether key has been discovered.
func (s *MemoryStore) Contains(ctx context.Context, key state.Key) (bool, error) {
	s.mu.Lock()
	_, ok := s.visited[key]
	s.mu.Unlock()
	return ok, nil
}

// InsertIfAbsent records key as first discovered in layer.
func (s *MemoryStore) InsertIfAbsent(ctx context.Context, key state.Key, layer int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if layer <= s.closed {
		return false, errors.New(errors.ErrCodeLayerClosed, "layer %d is closed", layer)
	}
	if _, ok := s.visited[key]; ok {
		observability.Store().OnInsert(ctx, layer, false)
		return false, nil
	}
	if s.maxKeys > 0 && len(s.visited) >= s.maxKeys {
		return false, errors.New(errors.ErrCodeMemoryBudget, "visited set reached its cap of %d keys", s.maxKeys)
	}

	s.visited[key] = layer
	for len(s.layers) <= layer {
		s.layers = append(s.layers, nil)
	}
	s.layers[layer] = append(s.layers[layer], key)
	observability.Store().OnInsert(ctx, layer, true)
	return true, nil
}

// RecordPredecessor records how key was first reached. First link wins.
func (s *MemoryStore) RecordPredecessor(ctx context.Context, key, parent state.Key, gen int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.preds[key]; !ok {
		s.preds[key] = Link{Parent: parent, Gen: gen}
	}
	return nil
}

// Predecessor returns the recorded link for key.
func (s *MemoryStore) Predecessor(ctx context.Context, key state.Key) (Link, bool, error) {
	s.mu.Lock()
	l, ok := s.preds[key]
	s.mu.Unlock()
	return l, ok, nil
}

// CloseLayer finalizes layer. Layers close in increasing order from 0.
func (s *MemoryStore) CloseLayer(ctx context.Context, layer int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if layer != s.closed+1 {
		return errors.New(errors.ErrCodeLayerClosed, "cannot close layer %d: next closable layer is %d", layer, s.closed+1)
	}
	s.closed = layer
	var size int
	if layer < len(s.layers) {
		size = len(s.layers[layer])
	}
	observability.Store().OnLayerClosed(ctx, layer, size)
	return nil
}

// Layer returns the keys of a closed layer in insertion order.
func (s *MemoryStore) Layer(ctx context.Context, layer int) ([]state.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if layer < 0 || layer > s.closed {
		return nil, errors.New(errors.ErrCodeLayerClosed, "layer %d is not closed", layer)
	}
	if layer >= len(s.layers) {
		return nil, nil
	}
	return append([]state.Key(nil), s.layers[layer]...), nil
}

// Layers returns the number of closed layers.
func (s *MemoryStore) Layers(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed + 1, nil
}

// Len returns the number of discovered keys.
func (s *MemoryStore) Len(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visited), nil
}

// Close releases the maps.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visited = nil
	s.layers = nil
	s.preds = nil
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
