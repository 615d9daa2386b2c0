package search

import (
	"context"
	"testing"

	"github.com/cayleygo/cayleygo/pkg/core/frontier"
	"github.com/cayleygo/cayleygo/pkg/core/heuristic"
	"github.com/cayleygo/cayleygo/pkg/core/state"
	"github.com/cayleygo/cayleygo/pkg/errors"
)

func TestBeamFindsTargetWithPath(t *testing.T) {
	ctx := context.Background()
	g := s4Graph(t)
	store := frontier.NewMemoryStore(0)
	defer store.Close()

	want := state.State{3, 2, 1, 0}
	opts := DefaultOptions()
	opts.TrackPredecessors = true
	opts.Target = func(s state.State) bool { return s.Equal(want) }

	res, err := Beam(ctx, g, store, heuristic.NewHamming(want), opts)
	if err != nil {
		t.Fatalf("Beam: %v", err)
	}
	if res.Status != StatusTargetFound {
		t.Fatalf("Status = %v, want %v", res.Status, StatusTargetFound)
	}
	if res.FoundDepth < 1 {
		t.Errorf("FoundDepth = %d, want >= 1", res.FoundDepth)
	}

	path, err := ReconstructPath(ctx, store, res.FoundKey)
	if err != nil {
		t.Fatalf("ReconstructPath: %v", err)
	}
	got, err := ReplayPath(g, path)
	if err != nil {
		t.Fatalf("ReplayPath: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("replayed path ends at %v, want %v", got, want)
	}
}

func TestBeamTargetAtStart(t *testing.T) {
	ctx := context.Background()
	g := swapGraph(t)
	store := frontier.NewMemoryStore(0)
	defer store.Close()

	opts := DefaultOptions()
	opts.Target = func(s state.State) bool { return s.Equal(g.Start) }

	res, err := Beam(ctx, g, store, heuristic.NewConstant(0), opts)
	if err != nil {
		t.Fatalf("Beam: %v", err)
	}
	if res.Status != StatusTargetFound || res.FoundDepth != 0 {
		t.Errorf("Status = %v, FoundDepth = %d, want target at depth 0", res.Status, res.FoundDepth)
	}
}

func TestBeamExhaustedIsNormal(t *testing.T) {
	ctx := context.Background()
	g := swapGraph(t)
	store := frontier.NewMemoryStore(0)
	defer store.Close()

	// No target and a wide beam: the pool empties once all six states
	// are visited. That is a normal status, not an error.
	res, err := Beam(ctx, g, store, heuristic.NewConstant(0), DefaultOptions())
	if err != nil {
		t.Fatalf("Beam: %v", err)
	}
	if res.Status != StatusBeamExhausted {
		t.Errorf("Status = %v, want %v", res.Status, StatusBeamExhausted)
	}
	if res.Complete {
		t.Error("Complete = true, beam search never proves completeness")
	}
	if res.TotalStates() != 6 {
		t.Errorf("TotalStates = %d, want 6", res.TotalStates())
	}
}

func TestBeamWidthBoundsPool(t *testing.T) {
	ctx := context.Background()
	g := s4Graph(t)
	store := frontier.NewMemoryStore(0)
	defer store.Close()

	opts := DefaultOptions()
	opts.BeamWidth = 2
	res, err := Beam(ctx, g, store, heuristic.NewConstant(0), opts)
	if err != nil {
		t.Fatalf("Beam: %v", err)
	}
	for round := 1; round < len(res.LayerSizes); round++ {
		if kept, ok := res.Layers[round]; ok && len(kept) > 2 {
			t.Errorf("round %d kept %d entries, beam width is 2", round, len(kept))
		}
	}
}

func TestBeamTieStability(t *testing.T) {
	ctx := context.Background()
	g := swapGraph(t)
	store := frontier.NewMemoryStore(0)
	defer store.Close()

	// With a constant scorer every candidate ties; the kept pool must
	// preserve discovery order: generator 0 then generator 1 from the
	// start state.
	opts := DefaultOptions()
	opts.BeamWidth = 2
	opts.RoundLimit = 1
	res, err := Beam(ctx, g, store, heuristic.NewConstant(1), opts)
	if err != nil {
		t.Fatalf("Beam: %v", err)
	}

	wantFirst := g.Codec.MustEncode(state.State{1, 0, 2})
	wantSecond := g.Codec.MustEncode(state.State{0, 2, 1})
	kept := res.Layers[1]
	if len(kept) != 2 || kept[0] != wantFirst || kept[1] != wantSecond {
		t.Errorf("round 1 pool = %v, want [%v %v] in discovery order", kept, wantFirst, wantSecond)
	}
}

func TestBeamRoundLimit(t *testing.T) {
	ctx := context.Background()
	g := s4Graph(t)
	store := frontier.NewMemoryStore(0)
	defer store.Close()

	opts := DefaultOptions()
	opts.RoundLimit = 1
	res, err := Beam(ctx, g, store, heuristic.NewConstant(0), opts)
	if err != nil {
		t.Fatalf("Beam: %v", err)
	}
	if res.Status != StatusRoundLimit {
		t.Errorf("Status = %v, want %v", res.Status, StatusRoundLimit)
	}
	if len(res.LayerSizes) != 2 {
		t.Errorf("explored %d rounds, want start plus 1", len(res.LayerSizes)-1)
	}
}

func TestBeamMemoryBudget(t *testing.T) {
	ctx := context.Background()
	g := s4Graph(t)
	store := frontier.NewMemoryStore(3)
	defer store.Close()

	res, err := Beam(ctx, g, store, heuristic.NewConstant(0), DefaultOptions())
	if err != nil {
		t.Fatalf("Beam: %v", err)
	}
	if res.Status != StatusMemoryBudget {
		t.Errorf("Status = %v, want %v", res.Status, StatusMemoryBudget)
	}
}

func TestBeamInvalidInputs(t *testing.T) {
	ctx := context.Background()
	g := swapGraph(t)

	t.Run("nil scorer", func(t *testing.T) {
		_, err := Beam(ctx, g, frontier.NewMemoryStore(0), nil, DefaultOptions())
		if errors.GetCode(err) != errors.ErrCodeInvalidOptions {
			t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidOptions)
		}
	})
	t.Run("window dedup", func(t *testing.T) {
		opts := DefaultOptions()
		opts.WindowDedup = true
		_, err := Beam(ctx, g, frontier.NewMemoryStore(0), heuristic.NewConstant(0), opts)
		if errors.GetCode(err) != errors.ErrCodeInvalidOptions {
			t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidOptions)
		}
	})
}
