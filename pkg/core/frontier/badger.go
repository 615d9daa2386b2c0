package frontier

import (
	"context"
	"encoding/binary"
	"sync"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/cayleygo/cayleygo/pkg/core/state"
	"github.com/cayleygo/cayleygo/pkg/errors"
	"github.com/cayleygo/cayleygo/pkg/observability"
)

// Key prefixes in the Badger keyspace.
var (
	prefixVisited = []byte("v:")
	prefixLayer   = []byte("l:")
	prefixPred    = []byte("p:")
	metaClosed    = []byte("m:closed")
)

// BadgerConfig holds configuration for a disk-backed store.
type BadgerConfig struct {
	// Path is the directory for the Badger files. Ignored when InMemory
	// is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence). Useful for
	// testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability. Leave false
	// for searches that can be rerun from scratch.
	SyncWrites bool

	// MaxKeys caps the visited-set size; 0 means unbounded.
	MaxKeys int
}

// BadgerStore is a disk-backed Store. It bounds RAM independent of search
// depth and survives process restarts: reopening the same path resumes
// from the last closed layer, which makes it the checkpointing layer on
// top of the in-memory core.
//
// Mutations are serialized by a store-level mutex rather than relying on
// Badger's optimistic transactions, so InsertIfAbsent keeps strict
// compare-and-insert semantics without conflict retries.
type BadgerStore struct {
	db      *badger.DB
	mu      sync.Mutex
	count   int // discovered keys, recounted at open
	closed  int // highest closed layer, -1 before any close
	maxKeys int
}

// NewBadgerStore opens (or reopens) a disk-backed store. Reopening a path
// restores the visited set, layers, predecessor links, and the closed-
// layer watermark; an exploration can resume by re-expanding the last
// closed layer.
func NewBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "open badger store at %q", cfg.Path)
	}

	s := &BadgerStore{
		db:      db,
		closed:  -1,
		maxKeys: cfg.MaxKeys,
	}
	if err := s.restore(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// restore loads the closed-layer watermark and recounts discovered keys.
func (s *BadgerStore) restore() error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaClosed)
		if err == nil {
			if err := item.Value(func(val []byte) error {
				s.closed = int(int64(binary.BigEndian.Uint64(val)))
				return nil
			}); err != nil {
				return err
			}
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefixVisited})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			s.count++
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "restore badger store")
	}
	return nil
}

func visitedKey(key state.Key) []byte {
	return append(append([]byte(nil), prefixVisited...), key...)
}

func predKey(key state.Key) []byte {
	return append(append([]byte(nil), prefixPred...), key...)
}

// layerKey orders layer entries by (layer, seq) under the l: prefix.
func layerKey(layer int, seq uint64) []byte {
	b := make([]byte, len(prefixLayer)+4+8)
	copy(b, prefixLayer)
	binary.BigEndian.PutUint32(b[len(prefixLayer):], uint32(layer))
	binary.BigEndian.PutUint64(b[len(prefixLayer)+4:], seq)
	return b
}

func encodeInt64(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

// encodeLink serializes a predecessor link as gen (8 bytes, two's
// complement) followed by the parent key bytes.
func encodeLink(l Link) []byte {
	b := make([]byte, 8+len(l.Parent))
	binary.BigEndian.PutUint64(b, uint64(int64(l.Gen)))
	copy(b[8:], l.Parent)
	return b
}

func decodeLink(b []byte) (Link, error) {
	if len(b) < 8 {
		return Link{}, errors.New(errors.ErrCodeStore, "predecessor record too short: %d bytes", len(b))
	}
	return Link{
		Gen:    int(int64(binary.BigEndian.Uint64(b[:8]))),
		Parent: state.Key(append([]byte(nil), b[8:]...)),
	}, nil
}

// Contains reports whether key has been discovered.
func (s *BadgerStore) Contains(ctx context.Context, key state.Key) (bool, error) {
	var ok bool
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(visitedKey(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		ok = true
		return nil
	})
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeStore, err, "contains")
	}
	return ok, nil
}

// InsertIfAbsent records key as first discovered in layer.
func (s *BadgerStore) InsertIfAbsent(ctx context.Context, key state.Key, layer int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if layer <= s.closed {
		return false, errors.New(errors.ErrCodeLayerClosed, "layer %d is closed", layer)
	}

	inserted := false
	err := s.db.Update(func(txn *badger.Txn) error {
		vk := visitedKey(key)
		_, err := txn.Get(vk)
		if err == nil {
			return nil // already discovered
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		if s.maxKeys > 0 && s.count >= s.maxKeys {
			return errors.New(errors.ErrCodeMemoryBudget, "visited set reached its cap of %d keys", s.maxKeys)
		}
		if err := txn.Set(vk, encodeInt64(int64(layer))); err != nil {
			return err
		}
		if err := txn.Set(layerKey(layer, uint64(s.count)), []byte(key)); err != nil {
			return err
		}
		inserted = true
		return nil
	})
	if err != nil {
		if errors.Is(err, errors.ErrCodeMemoryBudget) {
			return false, err
		}
		return false, errors.Wrap(errors.ErrCodeStore, err, "insert key into layer %d", layer)
	}
	if inserted {
		s.count++
	}
	observability.Store().OnInsert(ctx, layer, inserted)
	return inserted, nil
}

// RecordPredecessor records how key was first reached. First link wins.
func (s *BadgerStore) RecordPredecessor(ctx context.Context, key, parent state.Key, gen int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		pk := predKey(key)
		_, err := txn.Get(pk)
		if err == nil {
			return nil // first link wins
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		return txn.Set(pk, encodeLink(Link{Parent: parent, Gen: gen}))
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "record predecessor")
	}
	return nil
}

// Predecessor returns the recorded link for key.
func (s *BadgerStore) Predecessor(ctx context.Context, key state.Key) (Link, bool, error) {
	var link Link
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(predKey(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			l, err := decodeLink(val)
			if err != nil {
				return err
			}
			link = l
			found = true
			return nil
		})
	})
	if err != nil {
		return Link{}, false, errors.Wrap(errors.ErrCodeStore, err, "predecessor lookup")
	}
	return link, found, nil
}

// CloseLayer finalizes layer and persists the watermark.
func (s *BadgerStore) CloseLayer(ctx context.Context, layer int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if layer != s.closed+1 {
		return errors.New(errors.ErrCodeLayerClosed, "cannot close layer %d: next closable layer is %d", layer, s.closed+1)
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(metaClosed, encodeInt64(int64(layer)))
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "close layer %d", layer)
	}
	s.closed = layer

	size := 0
	keys, err := s.layerKeys(layer)
	if err == nil {
		size = len(keys)
	}
	observability.Store().OnLayerClosed(ctx, layer, size)
	return nil
}

// Layer returns the keys of a closed layer in insertion order.
func (s *BadgerStore) Layer(ctx context.Context, layer int) ([]state.Key, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if layer < 0 || layer > closed {
		return nil, errors.New(errors.ErrCodeLayerClosed, "layer %d is not closed", layer)
	}
	return s.layerKeys(layer)
}

func (s *BadgerStore) layerKeys(layer int) ([]state.Key, error) {
	prefix := layerKey(layer, 0)[:len(prefixLayer)+4]
	var out []state.Key
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix, PrefetchValues: true})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := it.Item().Value(func(val []byte) error {
				out = append(out, state.Key(append([]byte(nil), val...)))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "iterate layer %d", layer)
	}
	return out, nil
}

// Layers returns the number of closed layers.
func (s *BadgerStore) Layers(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed + 1, nil
}

// Len returns the number of discovered keys.
func (s *BadgerStore) Len(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count, nil
}

// Close flushes and closes the underlying database.
func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "close badger store")
	}
	return nil
}

// Ensure BadgerStore implements Store.
var _ Store = (*BadgerStore)(nil)
