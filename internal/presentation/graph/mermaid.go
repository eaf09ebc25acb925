package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/rpni/pkg/automaton"
	"github.com/aretw0/rpni/pkg/domain"
)

// Overlay highlights states on top of the automaton, e.g. the operands of a replayed step.
type Overlay struct {
	Current []domain.Code
}

// edge groups the symbols of parallel transitions.
type edge struct {
	to      domain.Code
	symbols []string
}

// edges returns the outgoing transitions of code with parallel ones folded into a single edge.
func edges(a *automaton.Automaton, code domain.Code) []edge {
	var out []edge
	index := make(map[domain.Code]int)
	for _, t := range a.Transitions(code) {
		i, ok := index[t.To]
		if !ok {
			i = len(out)
			index[t.To] = i
			out = append(out, edge{to: t.To})
		}
		out[i].symbols = append(out[i].symbols, string(t.Symbol))
	}
	return out
}

// GenerateMermaid produces a Mermaid flowchart of the automaton.
// It applies semantic styling:
// - Accepting: (((Double circle)))
// - Other: ((Circle))
// - Start: an entry arrow from an invisible point
// - Red and Blue states get their own classes.
func GenerateMermaid(a *automaton.Automaton, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	var red, blue []string
	for _, st := range a.States() {
		id := mermaidID(st.Code)

		opener, closer := "((", "))"
		if st.Accepting {
			opener, closer = "(((", ")))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, escape(st.DisplayName()), closer)

		if st.Start {
			fmt.Fprintf(&sb, "    start_%s[ ] --> %s\n", id, id)
			fmt.Fprintf(&sb, "    style start_%s fill:none,stroke:none\n", id)
		}
		switch {
		case st.Red:
			red = append(red, id)
		case st.Blue:
			blue = append(blue, id)
		}
	}

	for _, code := range a.Codes() {
		for _, e := range edges(a, code) {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", mermaidID(code), escape(strings.Join(e.symbols, ", ")), mermaidID(e.to))
		}
	}

	sb.WriteString("\n    %% Search Styles\n")
	// Force black text (color:#000) for contrast regardless of theme.
	sb.WriteString("    classDef red fill:#ffcdd2,stroke:#c62828,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef blue fill:#bbdefb,stroke:#1565c0,stroke-width:2px,color:#000;\n")
	if len(red) > 0 {
		fmt.Fprintf(&sb, "    class %s red;\n", strings.Join(red, ","))
	}
	if len(blue) > 0 {
		fmt.Fprintf(&sb, "    class %s blue;\n", strings.Join(blue, ","))
	}

	if overlay != nil && len(overlay.Current) > 0 {
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		seen := make(map[domain.Code]bool)
		var ids []string
		for _, c := range overlay.Current {
			if seen[c] || !a.Has(c) {
				continue
			}
			seen[c] = true
			ids = append(ids, mermaidID(c))
		}
		if len(ids) > 0 {
			fmt.Fprintf(&sb, "    class %s current;\n", strings.Join(ids, ","))
		}
	}

	return sb.String()
}

func mermaidID(c domain.Code) string {
	return "s" + c.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
