package automaton

import (
	"github.com/aretw0/rpni/pkg/domain"
)

// Traversals below run on an explicit stack with a visited set: merges turn the
// prefix tree into an arbitrary graph, self-loops and cycles included.

type walkFrame struct {
	code    domain.Code
	targets []domain.Code
	next    int
	acc     int
}

func (a *Automaton) targets(code domain.Code) []domain.Code {
	list := a.trans[code]
	out := make([]domain.Code, len(list))
	for i, t := range list {
		out[i] = t.To
	}
	return out
}

// Descendants returns every state reachable from code through at least one
// transition, in depth-first pre-order. code itself is never part of the result.
func (a *Automaton) Descendants(code domain.Code) []domain.Code {
	visited := map[domain.Code]bool{code: true}
	var res []domain.Code
	stack := []*walkFrame{{code: code, targets: a.targets(code)}}
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
		visited[child] = true
		res = append(res, child)
		stack = append(stack, &walkFrame{code: child, targets: a.targets(child)})
	}
	return res
}

// Ascendants returns every live state that is not a descendant of code, in
// insertion order.
//
// This is the complement of Descendants, not an ancestor search: it contains
// code itself (unless code lies on a cycle) and states unrelated to code.
func (a *Automaton) Ascendants(code domain.Code) []domain.Code {
	desc := make(map[domain.Code]bool)
	for _, d := range a.Descendants(code) {
		desc[d] = true
	}
	var res []domain.Code
	for _, c := range a.order {
		if !desc[c] {
			res = append(res, c)
		}
	}
	return res
}

// Height returns the number of leaves of the depth-first spanning tree rooted
// at the start state. It is a layout metric.
func (a *Automaton) Height() (int, error) {
	if !a.hasStart {
		return 0, domain.ErrUndefinedStart
	}
	return a.HeightFrom(a.start), nil
}

// HeightFrom is Height for the spanning tree rooted at code.
func (a *Automaton) HeightFrom(code domain.Code) int {
	visited := make(map[domain.Code]bool)

	// enter returns (value, nil) for a leaf, or a frame to expand.
	enter := func(c domain.Code) (int, *walkFrame) {
		visited[c] = true
		targets := a.targets(c)
		for _, t := range targets {
			if !visited[t] {
				return 0, &walkFrame{code: c, targets: targets}
			}
		}
		return 1, nil
	}

	v, root := enter(code)
	if root == nil {
		return v
	}
	stack := []*walkFrame{root}
	for {
		top := stack[len(stack)-1]
		if top.next >= len(top.targets) {
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return top.acc
			}
			stack[len(stack)-1].acc += top.acc
			continue
		}
		child := top.targets[top.next]
		top.next++
		if visited[child] {
			continue
		}
		if v, f := enter(child); f != nil {
			stack = append(stack, f)
		} else {
			top.acc += v
		}
	}
}

// Width returns the depth, in states, of the depth-first spanning tree rooted
// at the start state. It is a layout metric.
func (a *Automaton) Width() (int, error) {
	if !a.hasStart {
		return 0, domain.ErrUndefinedStart
	}
	return a.WidthFrom(a.start), nil
}

// WidthFrom is Width for the spanning tree rooted at code.
func (a *Automaton) WidthFrom(code domain.Code) int {
	visited := map[domain.Code]bool{code: true}
	stack := []*walkFrame{{code: code, targets: a.targets(code)}}
	for {
		top := stack[len(stack)-1]
		if top.next >= len(top.targets) {
			stack = stack[:len(stack)-1]
			width := 1 + top.acc
			if len(stack) == 0 {
				return width
			}
			parent := stack[len(stack)-1]
			parent.acc = max(parent.acc, width)
			continue
		}
		child := top.targets[top.next]
		top.next++
		if visited[child] {
			continue
		}
		visited[child] = true
		stack = append(stack, &walkFrame{code: child, targets: a.targets(child)})
	}
}
