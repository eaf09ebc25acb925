// Package layout assigns display labels and screen positions to the states of an automaton.
//
// Both passes walk the automaton depth-first from its start state. States the
// start state cannot reach, such as the other chains of a union of traces, are
// handled as additional roots: first the ones flagged as start, then the rest,
// in state order.
package layout

import (
	"strconv"

	"github.com/aretw0/rpni/pkg/automaton"
	"github.com/aretw0/rpni/pkg/domain"
)

// Point is a screen position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type frame struct {
	code    domain.Code
	x, y    float64
	targets []domain.Code
	next    int
}

// Relabel sets the label of every state to its depth-first pre-order index,
// starting at "0". It returns the number of states labeled.
func Relabel(a *automaton.Automaton) (int, error) {
	roots, err := Roots(a)
	if err != nil {
		return 0, err
	}

	id := 0
	visited := make(map[domain.Code]bool)
	label := func(code domain.Code) error {
		st, err := a.State(code)
		if err != nil {
			return err
		}
		visited[code] = true
		st.Label = strconv.Itoa(id)
		id++
		return nil
	}

	for _, root := range roots {
		if visited[root] {
			continue
		}
		if err := label(root); err != nil {
			return id, err
		}
		stack := []*frame{{code: root, targets: a.Children(root)}}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.next >= len(top.targets) {
				stack = stack[:len(stack)-1]
				continue
			}
			child := top.targets[top.next]
			top.next++
			if visited[child] {
				continue
			}
			if err := label(child); err != nil {
				return id, err
			}
			stack = append(stack, &frame{code: child, targets: a.Children(child)})
		}
	}
	return id, nil
}

// Positions spreads the states over a width x height canvas.
//
// Columns follow depth and rows follow the leaves of the spanning tree: a
// state sits one column right of its parent, and each sibling subtree is
// shifted down by as many rows as it has leaves.
func Positions(a *automaton.Automaton, width, height float64) (map[domain.Code]Point, error) {
	roots, err := Roots(a)
	if err != nil {
		return nil, err
	}

	rows, cols := 0, 0
	for _, root := range roots {
		rows += a.HeightFrom(root)
		cols = max(cols, a.WidthFrom(root))
	}
	incrX := width / float64(cols+1)
	incrY := height / float64(rows+1)

	pos := make(map[domain.Code]Point, a.Len())
	y := incrY
	for _, root := range roots {
		if _, done := pos[root]; done {
			continue
		}
		pos[root] = Point{X: incrX, Y: y}
		stack := []*frame{{code: root, x: incrX, y: y, targets: a.Children(root)}}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.next >= len(top.targets) {
				stack = stack[:len(stack)-1]
				continue
			}
			child := top.targets[top.next]
			top.next++
			if _, done := pos[child]; done {
				continue
			}
			p := Point{X: top.x + incrX, Y: top.y}
			pos[child] = p
			top.y += float64(a.HeightFrom(child)) * incrY
			stack = append(stack, &frame{code: child, x: p.X, y: p.Y, targets: a.Children(child)})
		}
		y += float64(a.HeightFrom(root)) * incrY
	}
	return pos, nil
}

// Roots returns the start state followed by the roots of the parts of the
// automaton it cannot reach.
func Roots(a *automaton.Automaton) ([]domain.Code, error) {
	start, err := a.Start()
	if err != nil {
		return nil, err
	}

	covered := map[domain.Code]bool{start: true}
	cover := func(code domain.Code) {
		covered[code] = true
		for _, d := range a.Descendants(code) {
			covered[d] = true
		}
	}
	cover(start)
	roots := []domain.Code{start}

	states := a.States()
	for _, st := range states {
		if st.Start && !covered[st.Code] {
			roots = append(roots, st.Code)
			cover(st.Code)
		}
	}
	for _, st := range states {
		if !covered[st.Code] {
			roots = append(roots, st.Code)
			cover(st.Code)
		}
	}
	return roots, nil
}
