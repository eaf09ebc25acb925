package domain

import "strconv"

// Code is the stable identity of a state.
// Clones of an automaton reuse the codes of the original, so a Code names
// "the same logical state" across clone boundaries.
type Code int

// String implements fmt.Stringer.
func (c Code) String() string {
	return strconv.Itoa(int(c))
}

// State is a node of an automaton.
// Two states are the same logical state iff their codes are equal.
type State struct {
	Code Code `json:"code"`

	// Label is cosmetic. It is rewritten by relabeling and concatenated on merge,
	// nothing in the learner depends on it.
	Label string `json:"label,omitempty"`

	Start     bool `json:"start,omitempty"`
	Accepting bool `json:"accepting,omitempty"`

	// Red and Blue mark the RPNI search phase of the state.
	Red  bool `json:"red,omitempty"`
	Blue bool `json:"blue,omitempty"`
}

// Absorb folds the flags of other into s, as when other is merged into s.
// Start, Accepting and Red become the logical OR; Blue is left untouched.
func (s *State) Absorb(other State) {
	switch {
	case s.Label == "":
		s.Label = other.Label
	case other.Label != "":
		s.Label += "," + other.Label
	}
	s.Start = s.Start || other.Start
	s.Accepting = s.Accepting || other.Accepting
	s.Red = s.Red || other.Red
}

// DisplayName returns the label if set, otherwise the code.
func (s State) DisplayName() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Code.String()
}
