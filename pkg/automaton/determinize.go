package automaton

import (
	"fmt"

	"github.com/aretw0/rpni/pkg/domain"
)

// IsDeterministic reports whether no two outgoing transitions of the state share a symbol.
// The state is re-resolved by identity, so a code taken from a clone is accepted.
func (a *Automaton) IsDeterministic(code domain.Code) (bool, error) {
	live, err := a.Resolve(code)
	if err != nil {
		return false, err
	}
	return a.isDeterministic(live), nil
}

func (a *Automaton) isDeterministic(code domain.Code) bool {
	seen := make(map[domain.Symbol]bool)
	for _, t := range a.trans[code] {
		if seen[t.Symbol] {
			return false
		}
		seen[t.Symbol] = true
	}
	return true
}

// Determinize merges the targets of same-symbol transitions until every state
// reachable from the start state has at most one transition per symbol.
//
// States are visited depth-first from the start. For a non-deterministic state,
// the first target of each duplicated symbol is kept as reference and the other
// targets are merged out into it. A merge can break a state that was already
// visited, so passes are repeated until one completes without merging.
func (a *Automaton) Determinize() error {
	start, err := a.Start()
	if err != nil {
		return err
	}
	a.record(domain.OpDeterminize, fmt.Sprintf("Determinize from %d", start), start)

	for {
		merged, err := a.determinizePass()
		if err != nil {
			return err
		}
		if !merged {
			return nil
		}
	}
}

func (a *Automaton) determinizePass() (bool, error) {
	visited := make(map[domain.Code]bool)
	merged := false

	enter := func(code domain.Code) (*walkFrame, error) {
		visited[code] = true
		for a.Has(code) && !a.isDeterministic(code) {
			if err := a.determinizeState(code); err != nil {
				return nil, err
			}
			merged = true
		}
		return &walkFrame{code: code, targets: a.targets(code)}, nil
	}

	root, err := enter(a.start)
	if err != nil {
		return false, err
	}
	stack := []*walkFrame{root}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next >= len(top.targets) {
			stack = stack[:len(stack)-1]
			continue
		}
		child := top.targets[top.next]
		top.next++
		if visited[child] || !a.Has(child) {
			continue
		}
		f, err := enter(child)
		if err != nil {
			return false, err
		}
		stack = append(stack, f)
	}
	return merged, nil
}

// determinizeState performs one round of merges on the duplicated symbols of code.
func (a *Automaton) determinizeState(code domain.Code) error {
	var symbols []domain.Symbol
	groups := make(map[domain.Symbol][]domain.Code)
	for _, t := range a.trans[code] {
		if _, ok := groups[t.Symbol]; !ok {
			symbols = append(symbols, t.Symbol)
		}
		groups[t.Symbol] = append(groups[t.Symbol], t.To)
	}

	for _, sym := range symbols {
		targets := groups[sym]
		for i := 1; i < len(targets); i++ {
			// Earlier merges of this round may already have folded either side.
			ref, err := a.Resolve(targets[0])
			if err != nil {
				return fmt.Errorf("determinize %d: %w", code, err)
			}
			other, err := a.Resolve(targets[i])
			if err != nil {
				return fmt.Errorf("determinize %d: %w", code, err)
			}
			if ref == other {
				continue
			}
			if err := a.MergeOut(ref, other, a); err != nil {
				return fmt.Errorf("determinize %d: %w", code, err)
			}
		}
	}
	return nil
}
