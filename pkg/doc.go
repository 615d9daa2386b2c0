// Package pkg provides the core libraries for the cayleygo search engine.
//
// # Overview
//
// cayleygo explores Cayley graphs: state-transition graphs generated by
// repeatedly applying a fixed set of permutation generators to a start
// state. The graph is never materialized; neighbors are computed on the
// fly from (generator index, state). The pkg directory is organized into
// three main areas:
//
//  1. [core] - Domain logic (states, generators, frontier stores, search)
//  2. [pipeline] - Orchestration (build → search → export)
//  3. [graph] - Serialization of explored graphs (JSON, DOT)
//
// # Architecture
//
// The typical data flow through cayleygo:
//
//	Generator definitions + start state
//	         ↓
//	    [core/gens] package (validate, expand neighbors)
//	         ↓
//	    [core/search] package (BFS or beam search)
//	         ↓         ↘
//	    [core/frontier] (deduplication, layers, predecessors)
//	         ↓
//	    [graph] JSON/DOT output
//
// # Quick Start
//
// Explore the Cayley graph of S_3 generated by adjacent transpositions:
//
//	import (
//	    "context"
//	    "github.com/cayleygo/cayleygo/pkg/core/frontier"
//	    "github.com/cayleygo/cayleygo/pkg/core/gens"
//	    "github.com/cayleygo/cayleygo/pkg/core/search"
//	)
//
//	set, _ := gens.NewSet([][]int{{1, 0, 2}, {0, 2, 1}})
//	g, _ := search.NewGraph(set, nil) // start defaults to identity
//	store := frontier.NewMemoryStore(0)
//	res, _ := search.BFS(context.Background(), g, store, search.Options{})
//	fmt.Println(res.LayerSizes) // [1 2 2 1]
//
// # Main Packages
//
// ## Core Domain Logic
//
// [core/state] - State values and the bit-packing codec that turns a
// state into a fixed-width, fully reversible key used for deduplication.
//
// [core/gens] - Generator sets: ordered, immutable collections of
// permutations with an allocation-free application hot path and batched
// neighbor expansion.
//
// [core/frontier] - Deduplicated visited-state stores with per-layer
// sequences and optional predecessor links. Backends: in-memory,
// sharded in-memory, BadgerDB (disk), Redis (shared across processes).
//
// [core/search] - Layer-by-layer BFS, bounded-width beam search, and
// path reconstruction from predecessor links.
//
// [core/heuristic] - Pluggable state scorers for beam search (Hamming
// distance, constants, memoized wrappers).
//
// ## Serialization
//
// [graph] - Serialization types for explored graphs: JSON documents of
// layers and edges, plus Graphviz DOT text export.
//
// ## Infrastructure
//
// [pipeline] - Complete search pipeline (build → search → export) with
// result caching, run IDs, and structured logging.
//
// [cache] - Result cache with memory, file, and null backends.
//
// [errors] - Structured error codes shared across all layers.
//
// [observability] - Hooks for search and store events without binding
// the core to any metrics backend.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                 # All tests
//	go test ./pkg/core/search/...     # Specific package
//	go test -bench . ./pkg/core/gens  # Hot-path benchmarks
//
// [core]: https://pkg.go.dev/github.com/cayleygo/cayleygo/pkg/core
// [core/state]: https://pkg.go.dev/github.com/cayleygo/cayleygo/pkg/core/state
// [core/gens]: https://pkg.go.dev/github.com/cayleygo/cayleygo/pkg/core/gens
// [core/frontier]: https://pkg.go.dev/github.com/cayleygo/cayleygo/pkg/core/frontier
// [core/search]: https://pkg.go.dev/github.com/cayleygo/cayleygo/pkg/core/search
// [core/heuristic]: https://pkg.go.dev/github.com/cayleygo/cayleygo/pkg/core/heuristic
// [graph]: https://pkg.go.dev/github.com/cayleygo/cayleygo/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/cayleygo/cayleygo/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/cayleygo/cayleygo/pkg/cache
// [errors]: https://pkg.go.dev/github.com/cayleygo/cayleygo/pkg/errors
// [observability]: https://pkg.go.dev/github.com/cayleygo/cayleygo/pkg/observability
package pkg
