package search

import (
	"context"

	"github.com/cayleygo/cayleygo/pkg/core/frontier"
	"github.com/cayleygo/cayleygo/pkg/core/state"
	"github.com/cayleygo/cayleygo/pkg/errors"
)

// ReconstructPath walks the predecessor links recorded for target back
// to the start state and returns the generator indices in application
// order: replaying them from the start yields target. For a BFS-filled
// store the path is shortest; for Beam it is whatever the search found.
//
// Fails with PATH_NOT_RECORDED when the search ran without
// TrackPredecessors or never discovered target.
func ReconstructPath(ctx context.Context, store frontier.Store, target state.Key) ([]int, error) {
	if store == nil {
		return nil, errors.New(errors.ErrCodeInvalidOptions, "store is required")
	}

	total, err := store.Len(ctx)
	if err != nil {
		return nil, err
	}

	path := []int{}
	key := target
	// A link chain through distinct keys cannot be longer than the
	// store; anything longer means corrupted links.
	for steps := 0; ; steps++ {
		if steps > total {
			return nil, errors.New(errors.ErrCodeInternal, "predecessor chain for %q exceeds %d stored keys", target, total)
		}
		link, ok, err := store.Predecessor(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New(errors.ErrCodePathNotRecorded, "no predecessor link for key %q, search must run with TrackPredecessors", key)
		}
		if link.IsRoot() {
			break
		}
		path = append(path, link.Gen)
		key = link.Parent
	}

	// Links were walked target-to-root; flip to application order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// ReplayPath applies the generator indices in order to the graph's
// start state and returns the resulting state. Used to verify
// reconstructed paths.
func ReplayPath(g *Graph, path []int) (state.State, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidOptions, "graph is required")
	}
	cur := g.Start.Clone()
	for _, gi := range path {
		next, err := g.Gens.Apply(gi, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
