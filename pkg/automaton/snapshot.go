package automaton

import (
	"fmt"

	"github.com/aretw0/rpni/pkg/domain"
)

// Snapshot returns the serializable form of the automaton.
func (a *Automaton) Snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		States:      a.States(),
		Transitions: make(map[domain.Code][]domain.Transition),
	}
	for _, c := range a.order {
		if list := a.trans[c]; len(list) > 0 {
			snap.Transitions[c] = append([]domain.Transition(nil), list...)
		}
	}
	if a.hasStart {
		start := a.start
		snap.Start = &start
	}
	if len(a.forwards) > 0 {
		snap.Forwards = make(map[domain.Code]domain.Code, len(a.forwards))
		for k, v := range a.forwards {
			snap.Forwards[k] = v
		}
	}
	return snap
}

// FromSnapshot rebuilds an automaton. The identity counter is advanced past
// every restored code, merged-away ones included, so new states never reuse one.
func FromSnapshot(snap domain.Snapshot, opts ...Option) (*Automaton, error) {
	a := New(opts...)
	for _, s := range snap.States {
		a.AddState(s)
		a.ids.Reserve(s.Code)
	}
	for _, c := range a.order {
		for _, t := range snap.Transitions[c] {
			if err := a.Connect(c, t.To, t.Symbol); err != nil {
				return nil, fmt.Errorf("restore transition %d -%s-> %d: %w", c, t.Symbol, t.To, err)
			}
		}
	}
	for from := range snap.Transitions {
		if !a.Has(from) {
			return nil, fmt.Errorf("restore transitions: %w: %d", domain.ErrUnknownState, from)
		}
	}
	for k, v := range snap.Forwards {
		a.forwards[k] = v
		a.ids.Reserve(k)
		a.ids.Reserve(v)
	}
	if snap.Start != nil {
		if err := a.SetStart(*snap.Start); err != nil {
			return nil, fmt.Errorf("restore start: %w", err)
		}
	}
	return a, nil
}
