package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/rpni/pkg/automaton"
	"github.com/aretw0/rpni/pkg/domain"
	"github.com/aretw0/rpni/pkg/layout"
)

// GenerateDOT produces a Graphviz DOT representation of the automaton.
// When positions are given, every placed state is pinned with a pos attribute
// (in points, y growing downwards as on screen), for use with neato -n.
func GenerateDOT(a *automaton.Automaton, positions map[domain.Code]layout.Point) string {
	var sb strings.Builder

	sb.WriteString("digraph Automaton {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=circle];\n")
	sb.WriteString("\n")

	var height float64
	for _, p := range positions {
		height = max(height, p.Y)
	}

	for _, st := range a.States() {
		attrs := []string{fmt.Sprintf("label=%q", st.DisplayName())}
		if st.Accepting {
			attrs = append(attrs, "shape=doublecircle")
		}
		switch {
		case st.Red:
			attrs = append(attrs, `style=filled`, `fillcolor="#ffcdd2"`)
		case st.Blue:
			attrs = append(attrs, `style=filled`, `fillcolor="#bbdefb"`)
		}
		if p, ok := positions[st.Code]; ok {
			attrs = append(attrs, fmt.Sprintf(`pos="%.1f,%.1f!"`, p.X, height-p.Y))
		}
		fmt.Fprintf(&sb, "  %q [%s];\n", st.Code.String(), strings.Join(attrs, ", "))

		if st.Start {
			fmt.Fprintf(&sb, "  \"start_%s\" [shape=point];\n", st.Code)
			fmt.Fprintf(&sb, "  \"start_%s\" -> %q;\n", st.Code, st.Code.String())
		}
	}
	sb.WriteString("\n")

	for _, code := range a.Codes() {
		for _, e := range edges(a, code) {
			fmt.Fprintf(&sb, "  %q -> %q [label=%q];\n", code.String(), e.to.String(), strings.Join(e.symbols, ", "))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}
