package graph

import (
	"bytes"
	"fmt"
)

// ToDOT returns a Graphviz DOT representation of the explored graph.
//
// The DOT format can be rendered with Graphviz tools (dot, neato, etc.).
// The output is a complete DOT digraph: one node per explored state,
// clustered by BFS layer, and one labeled edge per collected edge.
//
// Node representation:
//   - the start state: doublecircle shape
//   - all other states: box shape, labeled with the state values
//
// Edges carry the generator name as label. Graphs explored without
// ReturnEdges render as layered node clusters with no edges, which
// still visualizes the growth function.
func ToDOT(g Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph cayley {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, shape=box, style=\"filled,rounded\", fillcolor=white];\n\n")

	byLayer := map[int][]Node{}
	maxLayer := -1
	for _, n := range g.Nodes {
		byLayer[n.Layer] = append(byLayer[n.Layer], n)
		if n.Layer > maxLayer {
			maxLayer = n.Layer
		}
	}

	for layer := 0; layer <= maxLayer; layer++ {
		nodes := byLayer[layer]
		if len(nodes) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  subgraph cluster_layer_%d {\n", layer)
		fmt.Fprintf(&buf, "    label=\"layer %d\";\n", layer)
		buf.WriteString("    color=gray;\n")
		for _, n := range nodes {
			if n.ID == g.Start {
				fmt.Fprintf(&buf, "    %q [shape=doublecircle];\n", n.ID)
			} else {
				fmt.Fprintf(&buf, "    %q;\n", n.ID)
			}
		}
		buf.WriteString("  }\n")
	}

	if len(g.Edges) > 0 {
		buf.WriteString("\n")
		for _, e := range g.Edges {
			label := ""
			if e.Gen >= 0 && e.Gen < len(g.Generators) {
				label = g.Generators[e.Gen].Name
			}
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, label)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}
