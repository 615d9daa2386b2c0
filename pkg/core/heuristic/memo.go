package heuristic

import (
	"context"
	"strconv"
	"time"

	"github.com/cayleygo/cayleygo/pkg/cache"
	"github.com/cayleygo/cayleygo/pkg/core/state"
	"github.com/cayleygo/cayleygo/pkg/observability"
)

// Memo wraps a Scorer with a cache.Cache so that repeated scores of the
// same state hit storage instead of the underlying estimator. Beam
// search revisits states across rounds and across runs; for expensive
// scorers (remote models) memoization dominates wall time.
//
// Cache entries are namespaced by the inner scorer's ID via the Keyer,
// so swapping the model invalidates nothing and collides with nothing.
// Cache failures are swallowed: a miss or a broken backend falls
// through to the inner scorer.
type Memo struct {
	inner Scorer
	cache cache.Cache
	keyer cache.Keyer
	codec *state.Codec
	ttl   time.Duration
}

// NewMemo creates a memoizing wrapper around inner. The codec turns
// states into stable cache keys; it must be the same codec the search
// uses. A nil cache yields a pass-through wrapper.
func NewMemo(inner Scorer, c cache.Cache, keyer cache.Keyer, codec *state.Codec) *Memo {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Memo{
		inner: inner,
		cache: c,
		keyer: keyer,
		codec: codec,
		ttl:   cache.TTLScore,
	}
}

// WithTTL overrides the default score TTL.
func (m *Memo) WithTTL(ttl time.Duration) *Memo {
	m.ttl = ttl
	return m
}

// ID returns the inner scorer's ID. Memoization does not change what a
// score means, so the wrapper is transparent to key derivation.
func (m *Memo) ID() string { return m.inner.ID() }

// Score returns the cached score when present, otherwise delegates to
// the inner scorer and stores the result.
func (m *Memo) Score(ctx context.Context, s state.State) (float64, error) {
	start := time.Now()

	key, err := m.codec.Encode(s)
	if err != nil {
		return 0, err
	}
	ck := m.keyer.ScoreKey(m.inner.ID(), string(key))

	if data, ok, err := m.cache.Get(ctx, ck); err == nil && ok {
		if v, perr := strconv.ParseFloat(string(data), 64); perr == nil {
			observability.Scorer().OnScore(ctx, true, time.Since(start))
			return v, nil
		}
	}

	v, err := m.inner.Score(ctx, s)
	if err != nil {
		return 0, err
	}

	_ = m.cache.Set(ctx, ck, strconv.AppendFloat(nil, v, 'g', -1, 64), m.ttl)
	observability.Scorer().OnScore(ctx, false, time.Since(start))
	return v, nil
}

var _ Scorer = (*Memo)(nil)
