package fractal

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// Closure returns every symmetry reachable from the identity by composing
// elements of gens, in breadth-first discovery order starting with the
// identity. For dihedral generators the closure has at most 8 elements; the
// hard ceiling is the 24 bijections on 4 cells.
//
// Non-bijective generators are skipped: composition only makes sense inside
// the permutation group.
func Closure(gens []Symmetry) []Symmetry {
	valid := make([]Symmetry, 0, len(gens))
	for _, g := range gens {
		if g.IsBijection() {
			valid = append(valid, g)
		}
	}

	seen := map[Symmetry]bool{Identity(): true}
	order := []Symmetry{Identity()}
	for i := 0; i < len(order); i++ {
		for _, g := range valid {
			next := order[i].Compose(g)
			if !seen[next] {
				seen[next] = true
				order = append(order, next)
			}
		}
	}
	return order
}

// CayleyDOT returns a Graphviz DOT digraph of the composition structure of
// the pattern's symmetries: one node per element of the closure, one edge per
// (element, generator) pair, labeled and colored by generator.
//
// The output renders with any Graphviz tool or programmatically with
// [RenderCayleySVG]. Duplicate generators are drawn once.
func CayleyDOT(p Pattern) string {
	gens := dedupe(p.Symmetries())
	elements := Closure(gens)

	index := make(map[Symmetry]int, len(elements))
	for i, s := range elements {
		index[s] = i
	}

	var buf bytes.Buffer
	buf.WriteString("digraph Cayley {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, shape=box, style=\"filled,rounded\", fillcolor=white];\n")

	for i, s := range elements {
		fmt.Fprintf(&buf, "  n%d [label=%q];\n", i, s.String())
	}
	buf.WriteString("\n")

	for gi, g := range gens {
		color := edgeColors[gi%len(edgeColors)]
		for i, s := range elements {
			fmt.Fprintf(&buf, "  n%d -> n%d [label=%q, color=%q, fontcolor=%q];\n",
				i, index[s.Compose(g)], g.String(), color, color)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// edgeColors distinguishes generators in the Cayley diagram.
var edgeColors = []string{"#2a9d8f", "#e76f51", "#577590", "#e9c46a"}

func dedupe(syms [4]Symmetry) []Symmetry {
	seen := map[Symmetry]bool{}
	out := make([]Symmetry, 0, 4)
	for _, s := range syms {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// RenderCayleySVG renders the pattern's Cayley diagram as an SVG image via
// Graphviz. Errors are wrapped with context and suitable for errors.Is
// unwrapping. Requires the Graphviz runtime used by goccy/go-graphviz.
func RenderCayleySVG(ctx context.Context, p Pattern) ([]byte, error) {
	dot := CayleyDOT(p)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
