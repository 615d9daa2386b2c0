package heuristic

import (
	"context"
	"testing"

	"github.com/cayleygo/cayleygo/pkg/cache"
	"github.com/cayleygo/cayleygo/pkg/core/state"
	"github.com/cayleygo/cayleygo/pkg/errors"
)

func TestHammingScore(t *testing.T) {
	target := state.State{0, 1, 2, 3}

	tests := []struct {
		name string
		in   state.State
		want float64
	}{
		{name: "identical", in: state.State{0, 1, 2, 3}, want: 0},
		{name: "one off", in: state.State{0, 1, 3, 2}, want: 2},
		{name: "all off", in: state.State{1, 2, 3, 0}, want: 4},
	}

	h := NewHamming(target)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Score(context.Background(), tt.in)
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			if got != tt.want {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHammingLengthMismatch(t *testing.T) {
	h := NewHamming(state.State{0, 1, 2})
	_, err := h.Score(context.Background(), state.State{0, 1})
	if errors.GetCode(err) != errors.ErrCodeInvalidState {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidState)
	}
}

func TestHammingTargetIsolated(t *testing.T) {
	target := state.State{0, 1, 2}
	h := NewHamming(target)
	target[0] = 9

	got, err := h.Score(context.Background(), state.State{0, 1, 2})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got != 0 {
		t.Errorf("Score = %v after mutating caller's target, want 0", got)
	}
}

func TestConstantScore(t *testing.T) {
	c := NewConstant(7.5)
	for _, s := range []state.State{{0}, {1, 0}, {2, 1, 0}} {
		got, err := c.Score(context.Background(), s)
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		if got != 7.5 {
			t.Errorf("Score(%v) = %v, want 7.5", s, got)
		}
	}
}

// countingScorer records how many times Score is invoked.
type countingScorer struct {
	calls int
	value float64
}

func (c *countingScorer) ID() string { return "counting-v1" }

func (c *countingScorer) Score(ctx context.Context, s state.State) (float64, error) {
	c.calls++
	return c.value, nil
}

func TestMemoCachesScores(t *testing.T) {
	ctx := context.Background()
	codec, err := state.NewCodec(3, 2)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	inner := &countingScorer{value: 3.25}
	m := NewMemo(inner, cache.NewMemoryCache(), cache.NewDefaultKeyer(), codec)

	s := state.State{2, 0, 1}
	for i := 0; i < 3; i++ {
		got, err := m.Score(ctx, s)
		if err != nil {
			t.Fatalf("Score #%d: %v", i, err)
		}
		if got != 3.25 {
			t.Errorf("Score #%d = %v, want 3.25", i, got)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner scorer called %d times, want 1", inner.calls)
	}
}

func TestMemoDistinctStates(t *testing.T) {
	ctx := context.Background()
	codec, err := state.NewCodec(3, 2)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	inner := &countingScorer{value: 1}
	m := NewMemo(inner, cache.NewMemoryCache(), cache.NewDefaultKeyer(), codec)

	if _, err := m.Score(ctx, state.State{0, 1, 2}); err != nil {
		t.Fatalf("Score: %v", err)
	}
	if _, err := m.Score(ctx, state.State{1, 0, 2}); err != nil {
		t.Fatalf("Score: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner scorer called %d times, want 2", inner.calls)
	}
}

func TestMemoNilCachePassesThrough(t *testing.T) {
	ctx := context.Background()
	codec, err := state.NewCodec(2, 1)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	inner := &countingScorer{value: 2}
	m := NewMemo(inner, nil, nil, codec)

	for i := 0; i < 2; i++ {
		if _, err := m.Score(ctx, state.State{1, 0}); err != nil {
			t.Fatalf("Score: %v", err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("inner scorer called %d times, want 2 with null cache", inner.calls)
	}
}
