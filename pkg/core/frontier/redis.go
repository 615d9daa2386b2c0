package frontier

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/cayleygo/cayleygo/pkg/core/state"
	"github.com/cayleygo/cayleygo/pkg/errors"
	"github.com/cayleygo/cayleygo/pkg/observability"
)

// RedisStore shares one visited set across worker processes. Dedup rides
// on SETNX, which gives the same atomic compare-and-insert guarantee as
// the in-process stores: exactly one worker anywhere wins the insert for
// a key.
//
// Layer closing is coordinated by whichever process drives the search;
// Redis only enforces dedup atomicity, and the key budget is best-effort
// across processes (a handful of concurrent inserts may land past the
// cap before every worker observes it).
type RedisStore struct {
	client    redis.UniversalClient
	namespace string
	mu        sync.Mutex
	closed    int
	maxKeys   int
}

// NewRedisStore creates a store on an existing Redis client. namespace
// isolates concurrent searches sharing one Redis instance; use a fresh
// namespace (for example a run ID) per search. maxKeys caps the visited
// set; 0 means unbounded.
func NewRedisStore(client redis.UniversalClient, namespace string, maxKeys int) *RedisStore {
	return &RedisStore{
		client:    client,
		namespace: namespace,
		closed:    -1,
		maxKeys:   maxKeys,
	}
}

func (s *RedisStore) key(kind string, parts ...string) string {
	k := "cayley:" + s.namespace + ":" + kind
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

// Contains reports whether key has been discovered.
func (s *RedisStore) Contains(ctx context.Context, key state.Key) (bool, error) {
	n, err := s.client.Exists(ctx, s.key("v", string(key))).Result()
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeStore, err, "contains")
	}
	return n > 0, nil
}

// InsertIfAbsent records key as first discovered in layer.
func (s *RedisStore) InsertIfAbsent(ctx context.Context, key state.Key, layer int) (bool, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if layer <= closed {
		return false, errors.New(errors.ErrCodeLayerClosed, "layer %d is closed", layer)
	}

	if s.maxKeys > 0 {
		count, err := s.client.Get(ctx, s.key("count")).Int64()
		if err != nil && err != redis.Nil {
			return false, errors.Wrap(errors.ErrCodeStore, err, "read key count")
		}
		if count >= int64(s.maxKeys) {
			return false, errors.New(errors.ErrCodeMemoryBudget, "visited set reached its cap of %d keys", s.maxKeys)
		}
	}

	inserted, err := s.client.SetNX(ctx, s.key("v", string(key)), layer, 0).Result()
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeStore, err, "insert key into layer %d", layer)
	}
	if inserted {
		pipe := s.client.Pipeline()
		pipe.RPush(ctx, s.key("l", strconv.Itoa(layer)), string(key))
		pipe.Incr(ctx, s.key("count"))
		if _, err := pipe.Exec(ctx); err != nil {
			return false, errors.Wrap(errors.ErrCodeStore, err, "append key to layer %d", layer)
		}
	}
	observability.Store().OnInsert(ctx, layer, inserted)
	return inserted, nil
}

// RecordPredecessor records how key was first reached. First link wins
// via HSETNX.
func (s *RedisStore) RecordPredecessor(ctx context.Context, key, parent state.Key, gen int) error {
	val := encodeRedisLink(Link{Parent: parent, Gen: gen})
	if err := s.client.HSetNX(ctx, s.key("p"), string(key), val).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "record predecessor")
	}
	return nil
}

// Predecessor returns the recorded link for key.
func (s *RedisStore) Predecessor(ctx context.Context, key state.Key) (Link, bool, error) {
	val, err := s.client.HGet(ctx, s.key("p"), string(key)).Result()
	if err == redis.Nil {
		return Link{}, false, nil
	}
	if err != nil {
		return Link{}, false, errors.Wrap(errors.ErrCodeStore, err, "predecessor lookup")
	}
	link, err := decodeRedisLink(val)
	if err != nil {
		return Link{}, false, err
	}
	return link, true, nil
}

// CloseLayer finalizes layer. Layers close in increasing order from 0.
func (s *RedisStore) CloseLayer(ctx context.Context, layer int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if layer != s.closed+1 {
		return errors.New(errors.ErrCodeLayerClosed, "cannot close layer %d: next closable layer is %d", layer, s.closed+1)
	}
	if err := s.client.Set(ctx, s.key("closed"), layer, 0).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "close layer %d", layer)
	}
	s.closed = layer

	size, err := s.client.LLen(ctx, s.key("l", strconv.Itoa(layer))).Result()
	if err != nil {
		size = 0
	}
	observability.Store().OnLayerClosed(ctx, layer, int(size))
	return nil
}

// Layer returns the keys of a closed layer in insertion order.
func (s *RedisStore) Layer(ctx context.Context, layer int) ([]state.Key, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if layer < 0 || layer > closed {
		return nil, errors.New(errors.ErrCodeLayerClosed, "layer %d is not closed", layer)
	}
	vals, err := s.client.LRange(ctx, s.key("l", strconv.Itoa(layer)), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "iterate layer %d", layer)
	}
	out := make([]state.Key, len(vals))
	for i, v := range vals {
		out[i] = state.Key(v)
	}
	return out, nil
}

// Layers returns the number of closed layers.
func (s *RedisStore) Layers(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed + 1, nil
}

// Len returns the number of discovered keys.
func (s *RedisStore) Len(ctx context.Context) (int, error) {
	count, err := s.client.Get(ctx, s.key("count")).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStore, err, "read key count")
	}
	return count, nil
}

// Close releases nothing: the Redis client is owned by the caller, and
// the namespaced keys stay behind for other workers or later inspection.
func (s *RedisStore) Close() error {
	return nil
}

// Purge deletes every key in the store's namespace. Call it after the
// last worker of a search is done with the store.
func (s *RedisStore) Purge(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.key("")+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "purge namespace %q", s.namespace)
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "purge namespace %q", s.namespace)
	}
	return nil
}

// encodeRedisLink serializes a link as "<gen>|<parent>". Parent keys are
// binary-safe in Redis strings; gen comes first so decoding can split on
// the first separator only.
func encodeRedisLink(l Link) string {
	return fmt.Sprintf("%d|%s", l.Gen, string(l.Parent))
}

func decodeRedisLink(v string) (Link, error) {
	for i := 0; i < len(v); i++ {
		if v[i] == '|' {
			gen, err := strconv.Atoi(v[:i])
			if err != nil {
				return Link{}, errors.New(errors.ErrCodeStore, "malformed predecessor record %q", v)
			}
			return Link{Gen: gen, Parent: state.Key(v[i+1:])}, nil
		}
	}
	return Link{}, errors.New(errors.ErrCodeStore, "malformed predecessor record %q", v)
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
