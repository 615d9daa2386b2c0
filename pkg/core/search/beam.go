package search

import (
	"context"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/cayleygo/cayleygo/pkg/core/frontier"
	"github.com/cayleygo/cayleygo/pkg/core/heuristic"
	"github.com/cayleygo/cayleygo/pkg/core/state"
	"github.com/cayleygo/cayleygo/pkg/errors"
	"github.com/cayleygo/cayleygo/pkg/observability"
)

// beamEntry is one pooled candidate with its cached score.
type beamEntry struct {
	state state.State
	key   state.Key
	score float64
}

// Beam runs heuristic beam search from the start state. Each round it
// expands every pooled state through every generator, deduplicates new
// keys through the store, scores them, and keeps the best BeamWidth by
// score (lower is better, ties broken by discovery order).
//
// Beam trades completeness for memory: a path found is valid but not
// guaranteed shortest, and an exhausted pool (StatusBeamExhausted) is a
// normal outcome that proves nothing about the target's absence. Only
// BFS run to completion can assert absence.
func Beam(ctx context.Context, g *Graph, store frontier.Store, scorer heuristic.Scorer, opts Options) (*Result, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidOptions, "graph is required")
	}
	if store == nil {
		return nil, errors.New(errors.ErrCodeInvalidOptions, "store is required")
	}
	if scorer == nil {
		return nil, errors.New(errors.ErrCodeInvalidOptions, "scorer is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.WindowDedup {
		return nil, errors.New(errors.ErrCodeInvalidOptions, "WindowDedup applies to BFS only")
	}
	width := opts.BeamWidth
	if width == 0 {
		width = DefaultBeamWidth
	}
	roundLimit := opts.RoundLimit
	if roundLimit == 0 {
		roundLimit = DefaultRoundLimit
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	started := time.Now()
	res := newResult()

	startKey := g.StartKey()
	inserted, err := store.InsertIfAbsent(ctx, startKey, 0)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, errors.New(errors.ErrCodeStore, "store already contains the start state, searches need a fresh store")
	}
	if opts.TrackPredecessors {
		if err := store.RecordPredecessor(ctx, startKey, "", frontier.RootGenerator); err != nil {
			return nil, err
		}
	}
	if err := store.CloseLayer(ctx, 0); err != nil {
		return nil, err
	}

	startScore, err := scorer.Score(ctx, g.Start)
	if err != nil {
		return nil, err
	}
	pool := []beamEntry{{state: g.Start.Clone(), key: startKey, score: startScore}}
	res.recordLayer(opts, 0, []state.Key{startKey})

	finish := func(status Status, foundKey state.Key, foundDepth int) (*Result, error) {
		res.Status = status
		res.FoundKey = foundKey
		res.FoundDepth = foundDepth
		res.Elapsed = time.Since(started)
		observability.Search().OnSearchComplete(ctx, string(status), res.TotalStates(), res.Elapsed, nil)
		return res, nil
	}

	if opts.Target != nil && opts.Target(g.Start) {
		return finish(StatusTargetFound, startKey, 0)
	}

	dst := make(state.State, g.Gens.N())
	for round := 1; round <= roundLimit; round++ {
		observability.Search().OnRoundStart(ctx, round, len(pool))
		roundStarted := time.Now()

		if ctx.Err() != nil {
			return finish(StatusTimeout, "", -1)
		}

		var candidates []beamEntry
		for _, e := range pool {
			for gi := 0; gi < g.Gens.Size(); gi++ {
				g.Gens.ApplyInto(gi, e.state, dst)
				key := g.Codec.MustEncode(dst)

				if opts.ReturnEdges {
					res.Edges = append(res.Edges, Edge{From: e.key, To: key, Gen: gi})
				}

				inserted, err := store.InsertIfAbsent(ctx, key, round)
				if err != nil {
					if errors.IsBudget(err) {
						return finish(StatusMemoryBudget, "", -1)
					}
					return nil, err
				}
				if !inserted {
					continue
				}
				if opts.TrackPredecessors {
					if err := store.RecordPredecessor(ctx, key, e.key, gi); err != nil {
						return nil, err
					}
				}

				succ := dst.Clone()
				if opts.Target != nil && opts.Target(succ) {
					if err := store.CloseLayer(ctx, round); err != nil {
						return nil, err
					}
					res.LayerSizes = append(res.LayerSizes, len(candidates)+1)
					res.ensureLastLayer(round, []state.Key{key})
					return finish(StatusTargetFound, key, round)
				}
				score, err := scorer.Score(ctx, succ)
				if err != nil {
					return nil, err
				}
				candidates = append(candidates, beamEntry{state: succ, key: key, score: score})
			}
		}
		if err := store.CloseLayer(ctx, round); err != nil {
			return nil, err
		}

		if len(candidates) == 0 {
			res.LayerSizes = append(res.LayerSizes, 0)
			return finish(StatusBeamExhausted, "", -1)
		}

		if opts.UnorderedTies {
			rand.Shuffle(len(candidates), func(i, j int) {
				candidates[i], candidates[j] = candidates[j], candidates[i]
			})
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].score < candidates[j].score
		})
		discovered := len(candidates)
		if len(candidates) > width {
			candidates = candidates[:width]
		}
		pool = candidates

		res.LayerSizes = append(res.LayerSizes, discovered)
		kept := make([]state.Key, len(pool))
		for i, e := range pool {
			kept[i] = e.key
		}
		if opts.MaxLayerSizeToStore == 0 || len(kept) <= opts.MaxLayerSizeToStore {
			res.Layers[round] = kept
		}

		observability.Search().OnRoundComplete(ctx, round, len(pool), pool[0].score, time.Since(roundStarted))
	}

	return finish(StatusRoundLimit, "", -1)
}
