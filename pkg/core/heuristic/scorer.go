// Package heuristic defines pluggable state scorers for beam search.
//
// A scorer estimates how far a state is from the target; lower is closer.
// The engine treats scorers as opaque, side-effect-free estimators: it
// never trains them, and caching across runs is the scorer's own concern
// (see Memo). Trained models, hand-written admissible heuristics, and
// trivial constant scorers all satisfy the same one-method contract.
package heuristic

import (
	"context"

	"github.com/cayleygo/cayleygo/pkg/core/state"
	"github.com/cayleygo/cayleygo/pkg/errors"
)

// Scorer estimates the remaining distance from a state to the target.
// Implementations must be safe for concurrent use and must not mutate
// the state.
type Scorer interface {
	// ID identifies the scorer implementation and version. It
	// namespaces memoized scores, so two models that score differently
	// must have different IDs.
	ID() string

	// Score returns the estimated distance to target; lower is closer.
	Score(ctx context.Context, s state.State) (float64, error)
}

// Hamming scores a state by the number of positions that differ from the
// target state. On permutation puzzles this is a cheap, admissible-ish
// baseline: every generator application changes at most a bounded number
// of positions.
type Hamming struct {
	target state.State
}

// NewHamming creates a Hamming-distance scorer against target.
func NewHamming(target state.State) *Hamming {
	return &Hamming{target: target.Clone()}
}

// ID identifies the scorer.
func (h *Hamming) ID() string { return "hamming-v1" }

// Score counts mismatched positions.
func (h *Hamming) Score(ctx context.Context, s state.State) (float64, error) {
	if len(s) != len(h.target) {
		return 0, errors.New(errors.ErrCodeInvalidState, "state has %d elements, scorer target has %d", len(s), len(h.target))
	}
	d := 0
	for i := range s {
		if s[i] != h.target[i] {
			d++
		}
	}
	return float64(d), nil
}

// Constant scores every state the same. Useful in tests: beam search
// with a constant scorer degrades to breadth-first expansion truncated
// by beam width, with ties resolved by insertion order.
type Constant struct {
	value float64
}

// NewConstant creates a scorer that always returns value.
func NewConstant(value float64) *Constant {
	return &Constant{value: value}
}

// ID identifies the scorer.
func (c *Constant) ID() string { return "constant-v1" }

// Score returns the fixed value for any state.
func (c *Constant) Score(ctx context.Context, s state.State) (float64, error) {
	return c.value, nil
}

var (
	_ Scorer = (*Hamming)(nil)
	_ Scorer = (*Constant)(nil)
)
