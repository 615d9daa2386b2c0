// Package search implements the exploration engine: layered BFS over an
// implicit Cayley graph, heuristic beam search, and path reconstruction
// from recorded predecessor links.
//
// The graph is never materialized. A [Graph] bundles a generator set, a
// start state, and the codec that turns states into dedup keys; edges
// exist only as (generator, state) pairs produced during expansion.
// Explorers push discovered keys into a [frontier.Store], which is the
// sole authority on first discovery.
//
// # Explorers
//
//   - [BFS] visits every reachable state in breadth-first layers and is
//     the only explorer whose "not found" proves absence (when it runs
//     to completion).
//   - [Beam] keeps a bounded pool of the most promising states per
//     round, guided by a [heuristic.Scorer]. It trades completeness for
//     memory: a found path is valid but not guaranteed shortest, and an
//     exhausted beam proves nothing.
//
// Both return a [Result]; budget stops (memory, timeout, depth) are
// reported in [Result.Status], not as errors.
package search

import (
	"github.com/cayleygo/cayleygo/pkg/core/gens"
	"github.com/cayleygo/cayleygo/pkg/core/state"
	"github.com/cayleygo/cayleygo/pkg/errors"
)

// Graph is an implicit Cayley graph: a generator set acting on states of
// a fixed size, rooted at a start state. Immutable after construction
// and safe to share across searches.
type Graph struct {
	Gens  *gens.Set
	Codec *state.Codec
	Start state.State
}

// NewGraph creates a graph for the given generator set. A nil start
// defaults to the identity permutation of the set's state size. Start
// values must lie in [0, n); repeated values are allowed, which models
// colored-pattern states where several positions are interchangeable.
func NewGraph(set *gens.Set, start state.State) (*Graph, error) {
	if set == nil {
		return nil, errors.New(errors.ErrCodeInvalidGenerator, "generator set is required")
	}
	n := set.N()
	if start == nil {
		start = state.Identity(n)
	} else {
		if len(start) != n {
			return nil, errors.New(errors.ErrCodeInvalidState, "start state has %d elements, generators act on %d", len(start), n)
		}
		if err := errors.ValidateStateValues([]int(start), n); err != nil {
			return nil, err
		}
		start = start.Clone()
	}
	codec, err := state.NewCodec(n, n-1)
	if err != nil {
		return nil, err
	}
	return &Graph{Gens: set, Codec: codec, Start: start}, nil
}

// StartKey returns the encoded start state.
func (g *Graph) StartKey() state.Key {
	return g.Codec.MustEncode(g.Start)
}
