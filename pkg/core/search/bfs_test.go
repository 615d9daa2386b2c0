package search

import (
	"context"
	"sort"
	"testing"

	"github.com/cayleygo/cayleygo/pkg/core/frontier"
	"github.com/cayleygo/cayleygo/pkg/core/gens"
	"github.com/cayleygo/cayleygo/pkg/core/state"
	"github.com/cayleygo/cayleygo/pkg/errors"
)

// swapGraph builds the S3 Cayley graph generated by the adjacent
// transpositions (0 1) and (1 2), rooted at the identity.
func swapGraph(t *testing.T) *Graph {
	t.Helper()
	set, err := gens.NewSet([][]int{{1, 0, 2}, {0, 2, 1}})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	g, err := NewGraph(set, nil)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return g
}

// s4Graph builds S4 under its three adjacent transpositions, 24 states.
func s4Graph(t *testing.T) *Graph {
	t.Helper()
	set, err := gens.NewSet([][]int{
		{1, 0, 2, 3},
		{0, 2, 1, 3},
		{0, 1, 3, 2},
	})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	g, err := NewGraph(set, nil)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return g
}

// layerStates decodes a result layer into sorted state strings like "102".
func layerStates(t *testing.T, g *Graph, res *Result, depth int) []string {
	t.Helper()
	keys, ok := res.Layers[depth]
	if !ok {
		t.Fatalf("layer %d not stored in result", depth)
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		s, err := g.Codec.Decode(k)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		var buf []byte
		for _, v := range s {
			buf = append(buf, byte('0'+v))
		}
		out[i] = string(buf)
	}
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBFSSwapLayers(t *testing.T) {
	ctx := context.Background()
	g := swapGraph(t)
	store := frontier.NewMemoryStore(0)
	defer store.Close()

	res, err := BFS(ctx, g, store, DefaultOptions())
	if err != nil {
		t.Fatalf("BFS: %v", err)
	}

	if !res.Complete || res.Status != StatusComplete {
		t.Errorf("Status = %v, Complete = %v, want complete", res.Status, res.Complete)
	}
	wantSizes := []int{1, 2, 2, 1}
	if got := res.GrowthFunction(); !equalInts(got, wantSizes) {
		t.Fatalf("GrowthFunction = %v, want %v", got, wantSizes)
	}

	wantLayers := [][]string{
		{"012"},
		{"021", "102"},
		{"120", "201"},
		{"210"},
	}
	for depth, want := range wantLayers {
		if got := layerStates(t, g, res, depth); !equalStrings(got, want) {
			t.Errorf("layer %d = %v, want %v", depth, got, want)
		}
	}

	if res.TotalStates() != 6 {
		t.Errorf("TotalStates = %d, want 6", res.TotalStates())
	}
	n, err := store.Len(ctx)
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != 6 {
		t.Errorf("store.Len = %d, want 6; states must be discovered at most once", n)
	}
}

func TestBFSMaxDepth(t *testing.T) {
	ctx := context.Background()
	g := swapGraph(t)
	store := frontier.NewMemoryStore(0)
	defer store.Close()

	opts := DefaultOptions()
	opts.MaxDepth = 1
	res, err := BFS(ctx, g, store, opts)
	if err != nil {
		t.Fatalf("BFS: %v", err)
	}
	if res.Status != StatusMaxDepth {
		t.Errorf("Status = %v, want %v", res.Status, StatusMaxDepth)
	}
	if res.Complete {
		t.Error("Complete = true for a depth-bounded search")
	}
	if got := res.GrowthFunction(); !equalInts(got, []int{1, 2}) {
		t.Errorf("GrowthFunction = %v, want [1 2]", got)
	}
}

func TestBFSTargetAndPath(t *testing.T) {
	ctx := context.Background()
	g := swapGraph(t)
	store := frontier.NewMemoryStore(0)
	defer store.Close()

	want := state.State{2, 1, 0}
	opts := DefaultOptions()
	opts.TrackPredecessors = true
	opts.Target = func(s state.State) bool { return s.Equal(want) }

	res, err := BFS(ctx, g, store, opts)
	if err != nil {
		t.Fatalf("BFS: %v", err)
	}
	if res.Status != StatusTargetFound {
		t.Fatalf("Status = %v, want %v", res.Status, StatusTargetFound)
	}
	if res.FoundDepth != 3 {
		t.Errorf("FoundDepth = %d, want 3", res.FoundDepth)
	}

	path, err := ReconstructPath(ctx, store, res.FoundKey)
	if err != nil {
		t.Fatalf("ReconstructPath: %v", err)
	}
	if len(path) != res.FoundDepth {
		t.Errorf("path length %d, want %d", len(path), res.FoundDepth)
	}
	got, err := ReplayPath(g, path)
	if err != nil {
		t.Fatalf("ReplayPath: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("replayed path ends at %v, want %v", got, want)
	}
}

func TestBFSPathNotRecorded(t *testing.T) {
	ctx := context.Background()
	g := swapGraph(t)
	store := frontier.NewMemoryStore(0)
	defer store.Close()

	res, err := BFS(ctx, g, store, DefaultOptions())
	if err != nil {
		t.Fatalf("BFS: %v", err)
	}
	_, err = ReconstructPath(ctx, store, res.Layers[3][0])
	if errors.GetCode(err) != errors.ErrCodePathNotRecorded {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodePathNotRecorded)
	}
}

func TestBFSMemoryBudgetPartialResult(t *testing.T) {
	ctx := context.Background()
	g := s4Graph(t)

	t.Run("store budget", func(t *testing.T) {
		store := frontier.NewMemoryStore(5)
		defer store.Close()

		res, err := BFS(ctx, g, store, DefaultOptions())
		if err != nil {
			t.Fatalf("BFS: %v", err)
		}
		if res.Status != StatusMemoryBudget {
			t.Errorf("Status = %v, want %v", res.Status, StatusMemoryBudget)
		}
		if res.Complete {
			t.Error("Complete = true after budget stop")
		}
		if res.TotalStates() == 0 {
			t.Error("budget stop lost all discovered layers")
		}
		// Layers closed before the stop stay readable.
		closed, err := store.Layers(ctx)
		if err != nil {
			t.Fatalf("Layers: %v", err)
		}
		for d := 0; d < closed; d++ {
			if _, err := store.Layer(ctx, d); err != nil {
				t.Errorf("Layer(%d) after budget stop: %v", d, err)
			}
		}
	})

	t.Run("option budget", func(t *testing.T) {
		store := frontier.NewMemoryStore(0)
		defer store.Close()

		opts := DefaultOptions()
		opts.MemoryBudget = 4
		res, err := BFS(ctx, g, store, opts)
		if err != nil {
			t.Fatalf("BFS: %v", err)
		}
		if res.Status != StatusMemoryBudget {
			t.Errorf("Status = %v, want %v", res.Status, StatusMemoryBudget)
		}
	})
}

func TestBFSWindowDedup(t *testing.T) {
	ctx := context.Background()
	g := swapGraph(t)

	opts := DefaultOptions()
	opts.WindowDedup = true
	res, err := BFS(ctx, g, nil, opts)
	if err != nil {
		t.Fatalf("BFS: %v", err)
	}
	if !res.Complete {
		t.Errorf("Status = %v, want complete", res.Status)
	}
	if got := res.GrowthFunction(); !equalInts(got, []int{1, 2, 2, 1}) {
		t.Errorf("GrowthFunction = %v, want [1 2 2 1]", got)
	}
}

func TestBFSWindowDedupRequiresInverseClosure(t *testing.T) {
	// A single 3-cycle is not inverse-closed.
	set, err := gens.NewSet([][]int{{1, 2, 0}})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	g, err := NewGraph(set, nil)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}

	opts := DefaultOptions()
	opts.WindowDedup = true
	_, err = BFS(context.Background(), g, nil, opts)
	if errors.GetCode(err) != errors.ErrCodeInvalidGenerator {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidGenerator)
	}
}

func TestBFSParallelLayerSetsDeterministic(t *testing.T) {
	ctx := context.Background()
	g := s4Graph(t)

	run := func(workers int) *Result {
		store := frontier.NewShardedStore(0, 0)
		defer store.Close()
		opts := DefaultOptions()
		opts.Workers = workers
		res, err := BFS(ctx, g, store, opts)
		if err != nil {
			t.Fatalf("BFS(workers=%d): %v", workers, err)
		}
		return res
	}

	serial := run(1)
	parallel := run(4)

	if !equalInts(serial.GrowthFunction(), parallel.GrowthFunction()) {
		t.Fatalf("growth functions differ: %v vs %v", serial.GrowthFunction(), parallel.GrowthFunction())
	}
	for depth := range serial.LayerSizes {
		a := layerStates(t, g, serial, depth)
		b := layerStates(t, g, parallel, depth)
		if !equalStrings(a, b) {
			t.Errorf("layer %d differs: %v vs %v", depth, a, b)
		}
	}
	if serial.TotalStates() != 24 {
		t.Errorf("TotalStates = %d, want 24", serial.TotalStates())
	}
}

func TestBFSReturnEdges(t *testing.T) {
	ctx := context.Background()
	g := swapGraph(t)
	store := frontier.NewMemoryStore(0)
	defer store.Close()

	opts := DefaultOptions()
	opts.ReturnEdges = true
	res, err := BFS(ctx, g, store, opts)
	if err != nil {
		t.Fatalf("BFS: %v", err)
	}
	// Every state emits one edge per generator; the final empty
	// expansion adds the last layer's edges too.
	if len(res.Edges) != 6*g.Gens.Size() {
		t.Errorf("got %d edges, want %d", len(res.Edges), 6*g.Gens.Size())
	}
	for _, e := range res.Edges {
		if e.Gen < 0 || e.Gen >= g.Gens.Size() {
			t.Errorf("edge generator %d out of range", e.Gen)
		}
	}
}

func TestBFSUnorderedTiesSameLayerSets(t *testing.T) {
	ctx := context.Background()
	g := swapGraph(t)

	store1 := frontier.NewMemoryStore(0)
	defer store1.Close()
	ordered, err := BFS(ctx, g, store1, DefaultOptions())
	if err != nil {
		t.Fatalf("BFS: %v", err)
	}

	store2 := frontier.NewMemoryStore(0)
	defer store2.Close()
	opts := DefaultOptions()
	opts.UnorderedTies = true
	shuffled, err := BFS(ctx, g, store2, opts)
	if err != nil {
		t.Fatalf("BFS: %v", err)
	}

	for depth := range ordered.LayerSizes {
		a := layerStates(t, g, ordered, depth)
		b := layerStates(t, g, shuffled, depth)
		if !equalStrings(a, b) {
			t.Errorf("layer %d differs under UnorderedTies: %v vs %v", depth, a, b)
		}
	}
}

func TestBFSCanceledContext(t *testing.T) {
	g := swapGraph(t)
	store := frontier.NewMemoryStore(0)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := BFS(ctx, g, store, DefaultOptions())
	if err != nil {
		t.Fatalf("BFS: %v", err)
	}
	if res.Status != StatusTimeout {
		t.Errorf("Status = %v, want %v", res.Status, StatusTimeout)
	}
}

func TestBFSInvalidInputs(t *testing.T) {
	ctx := context.Background()
	g := swapGraph(t)

	t.Run("nil store", func(t *testing.T) {
		_, err := BFS(ctx, g, nil, DefaultOptions())
		if errors.GetCode(err) != errors.ErrCodeInvalidOptions {
			t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidOptions)
		}
	})
	t.Run("nil graph", func(t *testing.T) {
		_, err := BFS(ctx, nil, frontier.NewMemoryStore(0), DefaultOptions())
		if errors.GetCode(err) != errors.ErrCodeInvalidOptions {
			t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidOptions)
		}
	})
	t.Run("window with predecessors", func(t *testing.T) {
		opts := DefaultOptions()
		opts.WindowDedup = true
		opts.TrackPredecessors = true
		_, err := BFS(ctx, g, nil, opts)
		if errors.GetCode(err) != errors.ErrCodeInvalidOptions {
			t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidOptions)
		}
	})
	t.Run("negative depth", func(t *testing.T) {
		opts := DefaultOptions()
		opts.MaxDepth = -1
		_, err := BFS(ctx, g, frontier.NewMemoryStore(0), opts)
		if errors.GetCode(err) != errors.ErrCodeInvalidOptions {
			t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidOptions)
		}
	})
}

func TestNewGraphDefaults(t *testing.T) {
	set, err := gens.NewSet([][]int{{1, 0, 2}})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}

	g, err := NewGraph(set, nil)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	if !g.Start.Equal(state.Identity(3)) {
		t.Errorf("default start = %v, want identity", g.Start)
	}

	if _, err := NewGraph(set, state.State{0, 1}); errors.GetCode(err) != errors.ErrCodeInvalidState {
		t.Errorf("short start: code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidState)
	}
	if _, err := NewGraph(set, state.State{0, 1, 7}); errors.GetCode(err) != errors.ErrCodeInvalidState {
		t.Errorf("out-of-range start: code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidState)
	}

	// Repeated values model colored patterns and are allowed.
	if _, err := NewGraph(set, state.State{0, 0, 1}); err != nil {
		t.Errorf("colored start rejected: %v", err)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
