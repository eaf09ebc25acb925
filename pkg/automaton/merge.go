package automaton

import (
	"fmt"

	"github.com/aretw0/rpni/pkg/domain"
)

// MergeOut folds state s2 of src into state s1 of a.
//
// The outgoing transitions of s2 are re-homed onto s1, descendants of s2 that a
// does not know yet are imported along with their transitions, every transition
// of a targeting s2 is rewritten to target s1, s2 is removed from src (and from
// a), and finally s1 absorbs the flags of s2.
//
// src may be a different automaton than a. This is how prefix trees are folded
// together: s1 and s2 are then the start states of their automata.
// Both codes must be live; use Merge to go through identity resolution.
func (a *Automaton) MergeOut(s1, s2 domain.Code, src *Automaton) error {
	if err := a.mergeOut(s1, s2, src); err != nil {
		return err
	}
	a.record(domain.OpMergeOut, fmt.Sprintf("Merge-out %d into %d", s2, s1), s1, s2)
	return nil
}

// Merge collapses s2 into s1 within a.
func (a *Automaton) Merge(s1, s2 domain.Code) error {
	return a.MergeFrom(s1, s2, a)
}

// MergeFrom is the full merge: both operands are first resolved by identity
// (s1 in a, s2 in parent), so codes captured before a clone or before earlier
// merges remain usable. Transition and descendant import then follow MergeOut.
func (a *Automaton) MergeFrom(s1, s2 domain.Code, parent *Automaton) error {
	r1, err := a.Resolve(s1)
	if err != nil {
		return fmt.Errorf("merge target: %w", err)
	}
	r2, err := parent.Resolve(s2)
	if err != nil {
		return fmt.Errorf("merge source: %w", err)
	}
	if err := a.mergeOut(r1, r2, parent); err != nil {
		return err
	}
	a.record(domain.OpMerge, fmt.Sprintf("Merge %d into %d", r2, r1), r1, r2)
	return nil
}

func (a *Automaton) mergeOut(s1, s2 domain.Code, src *Automaton) error {
	target, ok := a.states[s1]
	if !ok {
		return fmt.Errorf("%w: %d", domain.ErrStateNotFound, s1)
	}
	absorbedPtr, ok := src.states[s2]
	if !ok {
		return fmt.Errorf("%w: %d", domain.ErrStateNotFound, s2)
	}
	if src == a && s1 == s2 {
		return nil
	}
	absorbed := *absorbedPtr

	// 1. Re-home outgoing transitions
	a.trans[s1] = append(a.trans[s1], src.trans[s2]...)

	// 2. Import descendants unknown to a
	if src != a {
		for _, d := range src.Descendants(s2) {
			if _, known := a.states[d]; known {
				continue
			}
			a.addState(*src.states[d])
			a.trans[d] = append([]domain.Transition(nil), src.trans[d]...)
		}
	}

	// 3. Reroute incoming transitions
	for _, c := range a.order {
		list := a.trans[c]
		rewritten := false
		for i := range list {
			if list[i].To == s2 {
				list[i].To = s1
				rewritten = true
			}
		}
		if rewritten || c == s1 {
			a.trans[c] = dedupe(list)
		}
	}

	// 4. Drop s2
	wasStart := a.hasStart && a.start == s2
	wasCursor := !a.outOfBounds && a.cursor == s2
	if src != a {
		src.RemoveState(s2)
	}
	if s2 != s1 {
		a.RemoveState(s2)
	}

	// 5. Absorb flags
	target.Absorb(absorbed)
	if s2 != s1 {
		a.forwards[s2] = s1
	}
	if wasStart {
		a.start = s1
		a.hasStart = true
	}
	if wasCursor {
		a.cursor = s1
		a.outOfBounds = false
	}
	return nil
}

// dedupe removes transitions identical to an earlier one in the same list.
func dedupe(list []domain.Transition) []domain.Transition {
	if len(list) < 2 {
		return list
	}
	seen := make(map[domain.Transition]bool, len(list))
	kept := list[:0]
	for _, t := range list {
		if seen[t] {
			continue
		}
		seen[t] = true
		kept = append(kept, t)
	}
	return kept
}
