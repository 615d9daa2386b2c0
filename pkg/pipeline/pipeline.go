// Package pipeline provides the core exploration pipeline.
//
// This package implements the complete build → search → export pipeline
// so that services, workers, and tools share one code path. By
// centralizing this logic, we ensure consistent behavior across entry
// points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: validate generators and construct the implicit graph
//  2. Search: run BFS or beam search against a visited-state store
//  3. Export: serialize the explored graph to the requested formats
//
// Each stage can be run independently or as part of the complete
// pipeline. Search results are cached by a content hash of the run
// inputs, so repeated explorations are served without re-searching.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Generators: [][]int{{1, 0, 2}, {0, 2, 1}},
//	    Mode:       pipeline.ModeBFS,
//	    Formats:    []string{pipeline.FormatJSON},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc := result.Artifacts[pipeline.FormatJSON]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/cayleygo/cayleygo/pkg/cache"
	"github.com/cayleygo/cayleygo/pkg/core/frontier"
	"github.com/cayleygo/cayleygo/pkg/core/heuristic"
	"github.com/cayleygo/cayleygo/pkg/core/search"
	"github.com/cayleygo/cayleygo/pkg/core/state"
	"github.com/cayleygo/cayleygo/pkg/errors"
	"github.com/cayleygo/cayleygo/pkg/graph"
)

// =============================================================================
// Default Values - Single Source of Truth for Callers
// =============================================================================

// Search modes.
const (
	ModeBFS  = "bfs"
	ModeBeam = "beam"
)

// DefaultMode is the search mode used when none is given.
const DefaultMode = ModeBFS

// Format constants for export formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidModes is the set of supported search modes.
var ValidModes = map[string]bool{
	ModeBFS:  true,
	ModeBeam: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	Generators     [][]int  `json:"generators"`
	GeneratorNames []string `json:"generator_names,omitempty"`
	Start          []int    `json:"start,omitempty"` // defaults to the identity permutation

	// Search options
	Mode                  string        `json:"mode,omitempty"` // "bfs" or "beam"
	Target                []int         `json:"target,omitempty"`
	MaxDepth              int           `json:"max_depth,omitempty"`
	MaxLayerSizeToStore   int           `json:"max_layer_size_to_store,omitempty"`
	MaxLayerSizeToExplore int           `json:"max_layer_size_to_explore,omitempty"`
	MemoryBudget          int           `json:"memory_budget,omitempty"`
	TrackPredecessors     bool          `json:"track_predecessors,omitempty"`
	Timeout               time.Duration `json:"timeout,omitempty"`
	Workers               int           `json:"workers,omitempty"`
	BeamWidth             int           `json:"beam_width,omitempty"`
	RoundLimit            int           `json:"round_limit,omitempty"`
	ReturnEdges           bool          `json:"return_edges,omitempty"`
	Refresh               bool          `json:"refresh,omitempty"`

	// Export options
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger      `json:"-"` // stage logs for this run; the runner's logger when nil
	Store  frontier.Store   `json:"-"` // injected store; a fresh MemoryStore per run when nil
	Scorer heuristic.Scorer `json:"-"` // beam scorer; Hamming distance to Target when nil

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this pipeline execution.
	RunID string

	// Graph is the built implicit graph. Nil on a cache hit.
	Graph *search.Graph

	// Search is the raw search result. Nil on a cache hit; the explored
	// layers are still available through Exported.
	Search *search.Result

	// GraphHash is the content hash of the build inputs.
	GraphHash string

	// Exported is the serialized explored graph.
	Exported graph.Graph

	// Artifacts contains exported outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the search came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	States     int
	Layers     int
	BuildTime  time.Duration
	SearchTime time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks cache hits for the pipeline stages.
type CacheInfo struct {
	SearchHit bool // Whether the search result came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that an export format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidOptions, "invalid format: %q (must be one of: json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all export formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMode checks that a search mode is valid.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return errors.New(errors.ErrCodeInvalidOptions, "invalid mode: %q (must be one of: bfs, beam)", mode)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Generators) == 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "generators are required")
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if o.Mode == ModeBeam && o.Target == nil && o.Scorer == nil {
		return errors.New(errors.ErrCodeInvalidOptions, "beam mode requires a target or an explicit scorer")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.searchOptions().Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// searchOptions maps the pipeline configuration onto search options.
func (o *Options) searchOptions() search.Options {
	opts := search.DefaultOptions()
	opts.MaxDepth = o.MaxDepth
	opts.MaxLayerSizeToStore = o.MaxLayerSizeToStore
	opts.MaxLayerSizeToExplore = o.MaxLayerSizeToExplore
	opts.MemoryBudget = o.MemoryBudget
	opts.TrackPredecessors = o.TrackPredecessors
	opts.Timeout = o.Timeout
	opts.Workers = o.Workers
	opts.ReturnEdges = o.ReturnEdges
	if o.BeamWidth > 0 {
		opts.BeamWidth = o.BeamWidth
	}
	if o.RoundLimit > 0 {
		opts.RoundLimit = o.RoundLimit
	}
	if o.Target != nil {
		want := state.State(o.Target)
		opts.Target = func(s state.State) bool { return s.Equal(want) }
	}
	return opts
}

// SearchKeyOpts returns cache key options for the search stage.
func (o *Options) SearchKeyOpts() cache.SearchKeyOpts {
	return cache.SearchKeyOpts{
		Mode:              o.Mode,
		MaxDepth:          o.MaxDepth,
		MemoryBudget:      o.MemoryBudget,
		BeamWidth:         o.BeamWidth,
		RoundLimit:        o.RoundLimit,
		TrackPredecessors: o.TrackPredecessors,
		ReturnEdges:       o.ReturnEdges,
	}
}

// IsBeam returns true if this run uses beam search.
func (o *Options) IsBeam() bool {
	return o.Mode == ModeBeam
}
