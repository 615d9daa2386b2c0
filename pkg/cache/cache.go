// Package cache provides result caching for search runs and heuristic scores.
//
// The cache stores serialized search results keyed by a content hash of the
// run inputs (generators, start state, options), so repeated explorations of
// the same graph are served without re-running BFS. It also backs the
// memoizing heuristic scorer, which caches scores per state key.
//
// Backends:
//   - MemoryCache: in-process map, for scorers and tests
//   - FileCache: filesystem entries with TTL metadata, for long-lived runs
//   - NullCache: disables caching
//
// Keys are generated through the Keyer interface so multi-tenant callers can
// prefix their own namespaces (see ScopedKeyer).
package cache

import (
	"context"
	"time"
)

// TTLs for the different cached artifact kinds.
const (
	// TTLSearch is how long serialized search results stay valid. Search
	// results are pure functions of their inputs, so the TTL exists only
	// to bound disk usage.
	TTLSearch = 30 * 24 * time.Hour

	// TTLScore is how long memoized heuristic scores stay valid. Scores
	// from an external model may drift between model versions, so this
	// is deliberately shorter.
	TTLScore = 24 * time.Hour
)

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SearchKeyOpts are the options that affect search-result identity.
// Two runs with the same graph hash but different options must map to
// different cache keys.
type SearchKeyOpts struct {
	Mode              string // "bfs" or "beam"
	MaxDepth          int
	MemoryBudget      int
	BeamWidth         int
	RoundLimit        int
	TrackPredecessors bool
	ReturnEdges       bool
}

// Keyer generates cache keys for the different artifact kinds.
type Keyer interface {
	// SearchKey generates a key for a serialized search result.
	// graphHash identifies the generator set and start state.
	SearchKey(graphHash string, opts SearchKeyOpts) string

	// ScoreKey generates a key for a memoized heuristic score.
	// scorerID distinguishes scorer implementations and model versions.
	ScoreKey(scorerID, stateKey string) string
}

// DefaultKeyer generates unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SearchKey generates a key for a serialized search result.
func (k *DefaultKeyer) SearchKey(graphHash string, opts SearchKeyOpts) string {
	return hashKey("search", graphHash, opts)
}

// ScoreKey generates a key for a memoized heuristic score.
func (k *DefaultKeyer) ScoreKey(scorerID, stateKey string) string {
	return hashKey("score", scorerID, stateKey)
}
