package search

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cayleygo/cayleygo/pkg/core/frontier"
	"github.com/cayleygo/cayleygo/pkg/core/state"
	"github.com/cayleygo/cayleygo/pkg/errors"
	"github.com/cayleygo/cayleygo/pkg/observability"
)

// BFS explores the graph breadth-first from the start state, one layer
// at a time. Layer d holds exactly the states at distance d from the
// start; every state is discovered once, in the first layer it can be
// reached in.
//
// The store deduplicates and keeps per-layer bookkeeping; with
// opts.WindowDedup the store must be nil and dedup runs against the
// previous two layers only (valid only for inverse-closed generator
// sets). Budget stops surface as Result.Status, never as errors; errors
// are reserved for invalid inputs and broken stores.
func BFS(ctx context.Context, g *Graph, store frontier.Store, opts Options) (*Result, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidOptions, "graph is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.WindowDedup {
		if store != nil {
			return nil, errors.New(errors.ErrCodeInvalidOptions, "WindowDedup keeps its own layer window and does not use a store")
		}
		if !g.Gens.InverseClosed() {
			return nil, errors.New(errors.ErrCodeInvalidGenerator, "WindowDedup requires an inverse-closed generator set")
		}
	} else if store == nil {
		return nil, errors.New(errors.ErrCodeInvalidOptions, "store is required")
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	run := &bfsRun{g: g, store: store, opts: opts, window: opts.WindowDedup}
	if run.window {
		run.prev = map[state.Key]struct{}{}
		run.curr = map[state.Key]struct{}{}
		run.next = map[state.Key]struct{}{}
	}

	started := time.Now()
	res := newResult()

	startKey := g.StartKey()
	if run.window {
		run.curr[startKey] = struct{}{}
		run.seen = 1
	} else {
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
	}
	if opts.Target != nil && opts.Target(g.Start) {
		run.found = true
		run.foundKey = startKey
	}

	frontierStates := []state.State{g.Start.Clone()}
	frontierKeys := []state.Key{startKey}
	depth := 0
	var status Status

	for {
		observability.Search().OnLayerStart(ctx, depth, len(frontierStates))
		layerStarted := time.Now()

		res.recordLayer(opts, depth, frontierKeys)
		if !run.window {
			if err := store.CloseLayer(ctx, depth); err != nil {
				return nil, err
			}
		}

		if run.found {
			status = StatusTargetFound
			break
		}
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			status = StatusMaxDepth
			break
		}
		if opts.MaxLayerSizeToExplore > 0 && len(frontierStates) > opts.MaxLayerSizeToExplore {
			status = StatusLayerTooLarge
			break
		}
		if ctx.Err() != nil {
			status = StatusTimeout
			break
		}
		if stop, err := run.overBudget(ctx); err != nil {
			return nil, err
		} else if stop {
			status = StatusMemoryBudget
			break
		}

		nextStates, nextKeys, edges, err := run.expandLayer(ctx, depth, frontierStates, frontierKeys)
		if err != nil {
			if errors.IsBudget(err) {
				status = StatusMemoryBudget
				break
			}
			if err == context.DeadlineExceeded || err == context.Canceled {
				status = StatusTimeout
				break
			}
			return nil, err
		}
		res.Edges = append(res.Edges, edges...)
		observability.Search().OnLayerComplete(ctx, depth, len(nextKeys), time.Since(layerStarted))

		if len(nextKeys) == 0 {
			status = StatusComplete
			break
		}

		if opts.UnorderedTies {
			rand.Shuffle(len(nextKeys), func(i, j int) {
				nextKeys[i], nextKeys[j] = nextKeys[j], nextKeys[i]
				nextStates[i], nextStates[j] = nextStates[j], nextStates[i]
			})
		}

		run.rotate()
		frontierStates, frontierKeys = nextStates, nextKeys
		depth++
	}

	res.ensureLastLayer(depth, frontierKeys)
	res.Status = status
	res.Complete = status == StatusComplete
	if status == StatusTargetFound {
		res.FoundKey = run.foundKey
		res.FoundDepth = depth
	}
	res.Elapsed = time.Since(started)
	observability.Search().OnSearchComplete(ctx, string(status), res.TotalStates(), res.Elapsed, nil)
	return res, nil
}

// bfsRun holds the shared mutable state of one BFS invocation.
type bfsRun struct {
	g     *Graph
	store frontier.Store
	opts  Options

	foundMu  sync.Mutex
	found    bool
	foundKey state.Key

	// Window-dedup state. prev/curr/next are the only visited sets the
	// search keeps in this mode; seen counts total discoveries for the
	// memory budget.
	window           bool
	windowMu         sync.Mutex
	prev, curr, next map[state.Key]struct{}
	seen             int
}

// insert is the single dedup point: it reports whether key is a first
// discovery at the given layer.
func (r *bfsRun) insert(ctx context.Context, key state.Key, layer int) (bool, error) {
	if !r.window {
		return r.store.InsertIfAbsent(ctx, key, layer)
	}

	r.windowMu.Lock()
	defer r.windowMu.Unlock()
	if _, ok := r.prev[key]; ok {
		return false, nil
	}
	if _, ok := r.curr[key]; ok {
		return false, nil
	}
	if _, ok := r.next[key]; ok {
		return false, nil
	}
	if r.opts.MemoryBudget > 0 && r.seen >= r.opts.MemoryBudget {
		return false, errors.New(errors.ErrCodeMemoryBudget, "discovered %d keys, budget is %d", r.seen, r.opts.MemoryBudget)
	}
	r.next[key] = struct{}{}
	r.seen++
	return true, nil
}

// rotate slides the dedup window forward one layer.
func (r *bfsRun) rotate() {
	if !r.window {
		return
	}
	r.windowMu.Lock()
	r.prev, r.curr, r.next = r.curr, r.next, map[state.Key]struct{}{}
	r.windowMu.Unlock()
}

// overBudget reports whether the discovered-key count exceeds the
// option budget. The window path enforces its budget in insert.
func (r *bfsRun) overBudget(ctx context.Context) (bool, error) {
	if r.window || r.opts.MemoryBudget <= 0 {
		return false, nil
	}
	n, err := r.store.Len(ctx)
	if err != nil {
		return false, err
	}
	return n >= r.opts.MemoryBudget, nil
}

// markFound records the first target hit; later hits are ignored.
func (r *bfsRun) markFound(key state.Key) {
	r.foundMu.Lock()
	if !r.found {
		r.found = true
		r.foundKey = key
	}
	r.foundMu.Unlock()
}

// chunkResult is one worker's share of an expanded layer.
type chunkResult struct {
	states []state.State
	keys   []state.Key
	edges  []Edge
}

// expandLayer applies every generator to every frontier state and
// returns the next layer: states and keys inserted for the first time,
// in discovery order. The frontier is chunked across workers; the store
// is the only shared mutation point, so the resulting key set is
// identical for any worker count.
func (r *bfsRun) expandLayer(ctx context.Context, depth int, states []state.State, keys []state.Key) ([]state.State, []state.Key, []Edge, error) {
	workers := r.opts.workers()
	if workers > len(states) {
		workers = len(states)
	}
	chunkSize := (len(states) + workers - 1) / workers
	chunks := make([]chunkResult, workers)

	grp, gctx := errgroup.WithContext(ctx)
	for c := 0; c < workers; c++ {
		lo := c * chunkSize
		hi := lo + chunkSize
		if hi > len(states) {
			hi = len(states)
		}
		out := &chunks[c]
		srcStates := states[lo:hi]
		srcKeys := keys[lo:hi]

		grp.Go(func() error {
			dst := make(state.State, r.g.Gens.N())
			for b, src := range srcStates {
				if err := gctx.Err(); err != nil {
					return err
				}
				for gi := 0; gi < r.g.Gens.Size(); gi++ {
					r.g.Gens.ApplyInto(gi, src, dst)
					key := r.g.Codec.MustEncode(dst)

					if r.opts.ReturnEdges {
						out.edges = append(out.edges, Edge{From: srcKeys[b], To: key, Gen: gi})
					}

					inserted, err := r.insert(gctx, key, depth+1)
					if err != nil {
						return err
					}
					if !inserted {
						continue
					}
					if r.opts.TrackPredecessors {
						if err := r.store.RecordPredecessor(gctx, key, srcKeys[b], gi); err != nil {
							return err
						}
					}
					succ := dst.Clone()
					out.states = append(out.states, succ)
					out.keys = append(out.keys, key)
					if r.opts.Target != nil && r.opts.Target(succ) {
						r.markFound(key)
					}
				}
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, nil, nil, err
	}

	var (
		nextStates []state.State
		nextKeys   []state.Key
		edges      []Edge
	)
	for _, c := range chunks {
		nextStates = append(nextStates, c.states...)
		nextKeys = append(nextKeys, c.keys...)
		edges = append(edges, c.edges...)
	}
	return nextStates, nextKeys, edges, nil
}
