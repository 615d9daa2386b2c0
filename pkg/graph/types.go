package graph

import (
	"slices"
	"strconv"
	"strings"

	"github.com/cayleygo/cayleygo/pkg/core/gens"
	"github.com/cayleygo/cayleygo/pkg/core/search"
	"github.com/cayleygo/cayleygo/pkg/errors"
)

// =============================================================================
// Graph - Explored Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for explored Cayley
// graphs. Used for storage, caching, and downstream tooling.
//
// The format is human-readable and deterministic: serializing the same
// exploration twice produces identical bytes. Node IDs are the
// comma-joined state values (e.g. "1,0,2"), the same format generator
// auto-names use.
type Graph struct {
	Generators []Generator `json:"generators"`
	Start      string      `json:"start"`
	Status     string      `json:"status"`
	Complete   bool        `json:"complete"`
	LayerSizes []int       `json:"layer_sizes"`
	Nodes      []Node      `json:"nodes"`
	Edges      []Edge      `json:"edges,omitempty"`
}

// Generator is a serialized generator: its name and permutation.
type Generator struct {
	Name string `json:"name"`
	Perm []int  `json:"perm"`
}

// Node is one explored state with the layer it was discovered in.
type Node struct {
	ID    string `json:"id"`
	State []int  `json:"state"`
	Layer int    `json:"layer"`
}

// Edge is a directed edge labeled with its generator index.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Gen  int    `json:"gen"`
}

// =============================================================================
// Result → Graph Conversion
// =============================================================================

// FromResult converts an explored graph and its search result into the
// serialization format. Nodes are emitted layer by layer, sorted by ID
// within each layer for deterministic output. Layers whose key lists
// were dropped by MaxLayerSizeToStore contribute to LayerSizes only.
func FromResult(g *search.Graph, res *search.Result) (Graph, error) {
	out := Graph{
		Generators: make([]Generator, g.Gens.Size()),
		Start:      stateID(g.Start),
		Status:     string(res.Status),
		Complete:   res.Complete,
		LayerSizes: res.GrowthFunction(),
	}
	for i := range out.Generators {
		gen, err := g.Gens.Generator(i)
		if err != nil {
			return Graph{}, err
		}
		out.Generators[i] = Generator{Name: gen.Name, Perm: gen.Perm}
	}

	for depth := 0; depth < len(res.LayerSizes); depth++ {
		keys, ok := res.Layers[depth]
		if !ok {
			continue
		}
		layerNodes := make([]Node, len(keys))
		for i, k := range keys {
			s, err := g.Codec.Decode(k)
			if err != nil {
				return Graph{}, err
			}
			layerNodes[i] = Node{ID: stateID(s), State: s, Layer: depth}
		}
		slices.SortFunc(layerNodes, func(a, b Node) int {
			return strings.Compare(a.ID, b.ID)
		})
		out.Nodes = append(out.Nodes, layerNodes...)
	}

	if len(res.Edges) > 0 {
		out.Edges = make([]Edge, len(res.Edges))
		for i, e := range res.Edges {
			from, err := g.Codec.Decode(e.From)
			if err != nil {
				return Graph{}, err
			}
			to, err := g.Codec.Decode(e.To)
			if err != nil {
				return Graph{}, err
			}
			out.Edges[i] = Edge{From: stateID(from), To: stateID(to), Gen: e.Gen}
		}
	}

	return out, nil
}

// GeneratorSet rebuilds the generator set from the serialized form,
// re-running full validation.
func (g Graph) GeneratorSet() (*gens.Set, error) {
	perms := make([][]int, len(g.Generators))
	names := make([]string, len(g.Generators))
	for i, gen := range g.Generators {
		perms[i] = gen.Perm
		names[i] = gen.Name
	}
	return gens.NewSetNamed(perms, names)
}

// Validate checks internal consistency: generators parse, edge
// generator indices are in range, and node layers fit LayerSizes.
func (g Graph) Validate() error {
	if _, err := g.GeneratorSet(); err != nil {
		return err
	}
	for _, n := range g.Nodes {
		if n.Layer < 0 || n.Layer >= len(g.LayerSizes) {
			return errors.New(errors.ErrCodeInvalidState, "node %s has layer %d, graph has %d layers", n.ID, n.Layer, len(g.LayerSizes))
		}
	}
	for _, e := range g.Edges {
		if e.Gen < 0 || e.Gen >= len(g.Generators) {
			return errors.New(errors.ErrCodeInvalidGenerator, "edge %s->%s has generator %d, graph has %d generators", e.From, e.To, e.Gen, len(g.Generators))
		}
	}
	return nil
}

// stateID renders a state as comma-joined values.
func stateID(s []int) string {
	var b strings.Builder
	for i, v := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}
