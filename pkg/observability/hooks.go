// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about search execution and frontier-store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSearchHooks(&mySearchHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run searches
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Search().OnLayerStart(ctx, depth, frontierSize)
//	// ... expand layer ...
//	observability.Search().OnLayerComplete(ctx, depth, discovered, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Search Hooks
// =============================================================================

// SearchHooks receives events from BFS and beam-search execution.
//
// OnLayerComplete doubles as the keep-alive callback between layers: it
// fires once per closed layer (BFS) or finished round (beam search), so
// a hook can feed watchdogs or emit progress for long searches.
type SearchHooks interface {
	// BFS layer events
	OnLayerStart(ctx context.Context, depth int, frontierSize int)
	OnLayerComplete(ctx context.Context, depth int, discovered int, duration time.Duration)

	// Beam-search round events
	OnRoundStart(ctx context.Context, round int, poolSize int)
	OnRoundComplete(ctx context.Context, round int, kept int, bestScore float64, duration time.Duration)

	// OnSearchComplete records the end of a search with its final status string.
	OnSearchComplete(ctx context.Context, status string, totalStates int, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from frontier-store operations.
type StoreHooks interface {
	// OnInsert records an InsertIfAbsent outcome. inserted is false for
	// duplicate keys (dedup hits).
	OnInsert(ctx context.Context, layer int, inserted bool)

	// OnLayerClosed records a layer being finalized with its size.
	OnLayerClosed(ctx context.Context, layer int, size int)
}

// =============================================================================
// Scorer Hooks
// =============================================================================

// ScorerHooks receives events from heuristic scoring.
type ScorerHooks interface {
	// OnScore records a scorer invocation.
	OnScore(ctx context.Context, cached bool, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSearchHooks is a no-op implementation of SearchHooks.
type NoopSearchHooks struct{}

func (NoopSearchHooks) OnLayerStart(context.Context, int, int)                          {}
func (NoopSearchHooks) OnLayerComplete(context.Context, int, int, time.Duration)        {}
func (NoopSearchHooks) OnRoundStart(context.Context, int, int)                          {}
func (NoopSearchHooks) OnRoundComplete(context.Context, int, int, float64, time.Duration) {
}
func (NoopSearchHooks) OnSearchComplete(context.Context, string, int, time.Duration, error) {
}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnInsert(context.Context, int, bool)    {}
func (NoopStoreHooks) OnLayerClosed(context.Context, int, int) {}

// NoopScorerHooks is a no-op implementation of ScorerHooks.
type NoopScorerHooks struct{}

func (NoopScorerHooks) OnScore(context.Context, bool, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	searchHooks SearchHooks = NoopSearchHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	scorerHooks ScorerHooks = NoopScorerHooks{}
	hooksMu     sync.RWMutex
)

// SetSearchHooks registers custom search hooks.
// This should be called once at application startup before any searches run.
func SetSearchHooks(h SearchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		searchHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetScorerHooks registers custom scorer hooks.
// This should be called once at application startup before any scoring.
func SetScorerHooks(h ScorerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scorerHooks = h
	}
}

// Search returns the registered search hooks.
func Search() SearchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return searchHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Scorer returns the registered scorer hooks.
func Scorer() ScorerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scorerHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	searchHooks = NoopSearchHooks{}
	storeHooks = NoopStoreHooks{}
	scorerHooks = NoopScorerHooks{}
}
