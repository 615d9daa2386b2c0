package search

import (
	"time"

	"github.com/cayleygo/cayleygo/pkg/core/state"
)

// Status explains how a search ended. Budget stops are statuses, not
// errors: a search that ran out of memory or time still hands back
// everything it discovered.
type Status string

const (
	// StatusComplete means BFS exhausted the reachable component. Only
	// this status lets "target not found" prove absence.
	StatusComplete Status = "complete"

	// StatusTargetFound means a state satisfying the target predicate
	// was discovered.
	StatusTargetFound Status = "target_found"

	// StatusMaxDepth means BFS stopped at the configured depth.
	StatusMaxDepth Status = "max_depth"

	// StatusLayerTooLarge means a layer exceeded MaxLayerSizeToExplore
	// and was recorded but not expanded.
	StatusLayerTooLarge Status = "layer_too_large"

	// StatusMemoryBudget means the discovered-key budget was hit. The
	// result covers all layers closed before the stop.
	StatusMemoryBudget Status = "memory_budget"

	// StatusTimeout means the search ran out of wall time.
	StatusTimeout Status = "timeout"

	// StatusBeamExhausted means the beam pool emptied without reaching
	// a target. A normal outcome, and no proof of absence.
	StatusBeamExhausted Status = "beam_exhausted"

	// StatusRoundLimit means Beam hit its round bound.
	StatusRoundLimit Status = "round_limit"
)

// Edge is one explicit edge of the explored graph, collected when
// ReturnEdges is set. Gen indexes into the graph's generator set.
type Edge struct {
	From state.Key
	To   state.Key
	Gen  int
}

// Result is the outcome of a search. LayerSizes is always complete for
// the explored depth; Layers holds key lists subject to
// MaxLayerSizeToStore. For Beam, a "layer" is the set of keys first
// discovered in a round, and Layers holds the kept pool per round.
type Result struct {
	LayerSizes []int
	Layers     map[int][]state.Key
	Status     Status
	Complete   bool

	// FoundKey and FoundDepth are set when Status is StatusTargetFound.
	// FoundDepth is -1 otherwise. For Beam, FoundDepth is the round the
	// target was reached in, a path-length upper bound rather than a
	// distance.
	FoundKey   state.Key
	FoundDepth int

	Edges   []Edge
	Elapsed time.Duration
}

// GrowthFunction returns a copy of the layer sizes, the growth function
// of the graph from the start state.
func (r *Result) GrowthFunction() []int {
	return append([]int(nil), r.LayerSizes...)
}

// TotalStates returns the number of distinct states discovered.
func (r *Result) TotalStates() int {
	total := 0
	for _, n := range r.LayerSizes {
		total += n
	}
	return total
}

// newResult creates an empty result with the not-found sentinel set.
func newResult() *Result {
	return &Result{
		Layers:     make(map[int][]state.Key),
		FoundDepth: -1,
	}
}

// recordLayer appends the layer size and stores its keys when within
// the MaxLayerSizeToStore knob. Layer 0 is always stored; the final
// layer is backfilled via ensureLastLayer on termination.
func (r *Result) recordLayer(opts Options, depth int, keys []state.Key) {
	r.LayerSizes = append(r.LayerSizes, len(keys))
	if depth == 0 || opts.MaxLayerSizeToStore == 0 || len(keys) <= opts.MaxLayerSizeToStore {
		r.Layers[depth] = append([]state.Key(nil), keys...)
	}
}

// ensureLastLayer backfills the final layer's keys when the size knob
// skipped them during recording.
func (r *Result) ensureLastLayer(depth int, keys []state.Key) {
	if _, ok := r.Layers[depth]; !ok {
		r.Layers[depth] = append([]state.Key(nil), keys...)
	}
}
