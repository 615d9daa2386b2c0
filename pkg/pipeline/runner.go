package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/cayleygo/cayleygo/pkg/cache"
	"github.com/cayleygo/cayleygo/pkg/core/frontier"
	"github.com/cayleygo/cayleygo/pkg/core/gens"
	"github.com/cayleygo/cayleygo/pkg/core/heuristic"
	"github.com/cayleygo/cayleygo/pkg/core/search"
	"github.com/cayleygo/cayleygo/pkg/core/state"
	"github.com/cayleygo/cayleygo/pkg/errors"
	"github.com/cayleygo/cayleygo/pkg/graph"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store run results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → search → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	logger := opts.Logger

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Build
	buildStart := time.Now()
	g, err := r.BuildGraph(opts)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "build graph")
	}
	result.Graph = g
	result.GraphHash = graphHash(opts)
	result.Stats.BuildTime = time.Since(buildStart)

	logger.Info("built graph",
		"run_id", result.RunID,
		"generators", g.Gens.Size(),
		"state_size", g.Gens.N(),
		"inverse_closed", g.Gens.InverseClosed(),
		"duration", result.Stats.BuildTime)

	// Stage 2: Search
	searchStart := time.Now()
	exported, res, hit, err := r.SearchWithCacheInfo(ctx, g, opts, result.GraphHash)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "search")
	}
	result.Search = res
	result.Exported = exported
	result.CacheInfo.SearchHit = hit
	result.Stats.SearchTime = time.Since(searchStart)
	result.Stats.Layers = len(exported.LayerSizes)
	for _, n := range exported.LayerSizes {
		result.Stats.States += n
	}

	logger.Info("explored graph",
		"run_id", result.RunID,
		"mode", opts.Mode,
		"status", exported.Status,
		"states", result.Stats.States,
		"layers", result.Stats.Layers,
		"cache_hit", hit,
		"duration", result.Stats.SearchTime)

	// Stage 3: Export
	exportStart := time.Now()
	artifacts, err := Export(exported, opts.Formats)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "export")
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)

	logger.Info("exported outputs",
		"run_id", result.RunID,
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// BuildGraph validates the generator definitions and constructs the
// implicit graph.
func (r *Runner) BuildGraph(opts Options) (*search.Graph, error) {
	set, err := gens.NewSetNamed(opts.Generators, opts.GeneratorNames)
	if err != nil {
		return nil, err
	}
	var start state.State
	if opts.Start != nil {
		start = state.State(opts.Start)
	}
	return search.NewGraph(set, start)
}

// SearchWithCacheInfo runs the search stage with caching and reports
// whether the result came from cache. On a hit the raw search.Result is
// nil; the explored layers are available in the returned document.
func (r *Runner) SearchWithCacheInfo(ctx context.Context, g *search.Graph, opts Options, hash string) (graph.Graph, *search.Result, bool, error) {
	cacheKey := r.Keyer.SearchKey(hash, opts.SearchKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := graph.UnmarshalGraph(data); err == nil {
				return cached, nil, true, nil
			}
			// A corrupt entry falls through to a fresh search.
		}
	}

	res, err := r.runSearch(ctx, g, opts)
	if err != nil {
		return graph.Graph{}, nil, false, err
	}
	exported, err := graph.FromResult(g, res)
	if err != nil {
		return graph.Graph{}, nil, false, err
	}

	if data, err := graph.MarshalGraph(exported); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLSearch)
	}

	return exported, res, false, nil
}

// Search is a convenience wrapper that discards the cache hit info.
func (r *Runner) Search(ctx context.Context, g *search.Graph, opts Options) (graph.Graph, *search.Result, error) {
	exported, res, _, err := r.SearchWithCacheInfo(ctx, g, opts, graphHash(opts))
	return exported, res, err
}

// Export serializes an explored graph into the requested formats.
func Export(g graph.Graph, formats []string) (map[string][]byte, error) {
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(formats))
	for _, f := range formats {
		switch f {
		case FormatJSON:
			data, err := graph.MarshalGraph(g)
			if err != nil {
				return nil, err
			}
			artifacts[f] = data
		case FormatDOT:
			artifacts[f] = []byte(graph.ToDOT(g))
		}
	}
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// runSearch dispatches to the configured explorer with a run-scoped
// store when none is injected.
func (r *Runner) runSearch(ctx context.Context, g *search.Graph, opts Options) (*search.Result, error) {
	store := opts.Store
	if store == nil {
		store = frontier.NewMemoryStore(0)
		defer store.Close()
	}

	searchOpts := opts.searchOptions()
	if !opts.IsBeam() {
		return search.BFS(ctx, g, store, searchOpts)
	}

	scorer := opts.Scorer
	if scorer == nil {
		scorer = heuristic.NewHamming(state.State(opts.Target))
	}
	return search.Beam(ctx, g, store, scorer, searchOpts)
}

// graphHash fingerprints every input that affects which states a search
// discovers: the build inputs plus the target and layer-size knobs.
// Timing and worker options deliberately stay out, layer membership
// does not depend on them.
func graphHash(opts Options) string {
	data, _ := json.Marshal(struct {
		Generators      [][]int  `json:"generators"`
		Names           []string `json:"names,omitempty"`
		Start           []int    `json:"start,omitempty"`
		Target          []int    `json:"target,omitempty"`
		MaxStoreLayer   int      `json:"max_store_layer,omitempty"`
		MaxExploreLayer int      `json:"max_explore_layer,omitempty"`
	}{
		Generators:      opts.Generators,
		Names:           opts.GeneratorNames,
		Start:           opts.Start,
		Target:          opts.Target,
		MaxStoreLayer:   opts.MaxLayerSizeToStore,
		MaxExploreLayer: opts.MaxLayerSizeToExplore,
	})
	return cache.Hash(data)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
