package search

import (
	"time"

	"github.com/cayleygo/cayleygo/pkg/core/state"
	"github.com/cayleygo/cayleygo/pkg/errors"
)

// Default option values. Zero values in Options mean "use the default"
// for sized knobs and "unlimited" for budgets.
const (
	// DefaultBeamWidth is the pool size Beam keeps per round.
	DefaultBeamWidth = 100

	// DefaultRoundLimit bounds Beam rounds when the caller sets none.
	// Beam has no natural termination on infinite-diameter inputs, so
	// unlike BFS it always carries a round bound.
	DefaultRoundLimit = 1000
)

// Options configures a search. The zero value is valid for BFS; call
// DefaultOptions for a populated baseline. Budgets of 0 mean unlimited.
type Options struct {
	// MaxDepth stops BFS after exploring this layer depth. 0 = no limit.
	MaxDepth int

	// MaxLayerSizeToStore drops the key list of layers larger than this
	// from the Result (their sizes are always kept). The first and the
	// final layer are stored regardless. 0 = store every layer.
	MaxLayerSizeToStore int

	// MaxLayerSizeToExplore stops the search when a layer exceeds this
	// size, before expanding it. 0 = no limit.
	MaxLayerSizeToExplore int

	// MemoryBudget caps the total number of discovered keys. When hit,
	// the search stops with StatusMemoryBudget and a usable partial
	// result. Stores may carry a budget of their own; either triggers
	// the same stop. 0 = no limit.
	MemoryBudget int

	// TrackPredecessors records a first-discovery link per key so that
	// ReconstructPath can recover generator paths afterwards. Costs one
	// link per state.
	TrackPredecessors bool

	// Timeout bounds wall time for the whole search. 0 = none.
	Timeout time.Duration

	// Workers is the number of goroutines expanding a BFS frontier.
	// 0 or 1 runs single-threaded. The set of keys per layer is
	// deterministic for any worker count; within-layer order is only
	// deterministic for a single worker.
	Workers int

	// Target, when non-nil, stops the search as soon as a discovered
	// state satisfies it. The found key and depth land in the Result.
	Target func(state.State) bool

	// UnorderedTies randomizes within-layer expansion order (BFS) and
	// equal-score candidate order (Beam). The default is deterministic
	// generator-index order.
	UnorderedTies bool

	// WindowDedup switches BFS to deduplicating against the previous
	// two layers only, instead of the full visited set. Correct only on
	// inverse-closed generator sets, where a successor of layer d can
	// live no earlier than layer d-1; BFS rejects other sets with
	// INVALID_GENERATOR. Memory drops from all-visited to three layers.
	// Incompatible with TrackPredecessors and with a backing store.
	WindowDedup bool

	// ReturnEdges collects every generated edge (from, generator, to),
	// materializing the explicit graph in the Result. Memory grows with
	// edge count; intended for export of small graphs.
	ReturnEdges bool

	// BeamWidth is the Beam pool size. Ignored by BFS.
	BeamWidth int

	// RoundLimit bounds Beam rounds. Ignored by BFS.
	RoundLimit int
}

// DefaultOptions returns the baseline configuration: unlimited BFS with
// a single worker, and Beam defaults populated.
func DefaultOptions() Options {
	return Options{
		BeamWidth:  DefaultBeamWidth,
		RoundLimit: DefaultRoundLimit,
	}
}

// Validate checks option consistency. Explorers call it on entry.
func (o Options) Validate() error {
	if o.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "MaxDepth cannot be negative, got %d", o.MaxDepth)
	}
	if o.MaxLayerSizeToStore < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "MaxLayerSizeToStore cannot be negative, got %d", o.MaxLayerSizeToStore)
	}
	if o.MaxLayerSizeToExplore < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "MaxLayerSizeToExplore cannot be negative, got %d", o.MaxLayerSizeToExplore)
	}
	if o.MemoryBudget < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "MemoryBudget cannot be negative, got %d", o.MemoryBudget)
	}
	if o.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "Timeout cannot be negative, got %s", o.Timeout)
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "Workers cannot be negative, got %d", o.Workers)
	}
	if o.BeamWidth < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "BeamWidth cannot be negative, got %d", o.BeamWidth)
	}
	if o.RoundLimit < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "RoundLimit cannot be negative, got %d", o.RoundLimit)
	}
	if o.WindowDedup && o.TrackPredecessors {
		return errors.New(errors.ErrCodeInvalidOptions, "WindowDedup discards old layers and cannot track predecessors")
	}
	return nil
}

// workers returns the effective worker count.
func (o Options) workers() int {
	if o.Workers < 1 {
		return 1
	}
	return o.Workers
}
