package automaton

import "github.com/aretw0/rpni/pkg/domain"

// GoToStart resets the cursor to the start state.
// Without a start state the cursor is out of bounds.
func (a *Automaton) GoToStart() {
	if !a.hasStart {
		a.outOfBounds = true
		return
	}
	a.cursor = a.start
	a.outOfBounds = false
}

// Feed follows the first transition labeled sym from the cursor.
// If there is none the cursor leaves the automaton, and every further Feed is a
// no-op until GoToStart.
func (a *Automaton) Feed(sym domain.Symbol) {
	if a.outOfBounds {
		return
	}
	for _, t := range a.trans[a.cursor] {
		if t.Symbol == sym {
			a.cursor = t.To
			return
		}
	}
	a.outOfBounds = true
}

// IsFinished reports whether the cursor rests on an accepting state.
func (a *Automaton) IsFinished() bool {
	if a.outOfBounds {
		return false
	}
	s, ok := a.states[a.cursor]
	return ok && s.Accepting
}

// OutOfBounds reports whether the cursor has left the automaton.
func (a *Automaton) OutOfBounds() bool {
	return a.outOfBounds
}

// Cursor returns the code under the cursor, or false when out of bounds.
func (a *Automaton) Cursor() (domain.Code, bool) {
	if a.outOfBounds {
		return 0, false
	}
	return a.cursor, true
}

// Accepts runs ex from the start state and reports whether it ends on an accepting state.
func (a *Automaton) Accepts(ex domain.Example) bool {
	a.GoToStart()
	for _, sym := range ex {
		a.Feed(sym)
	}
	return a.IsFinished()
}
