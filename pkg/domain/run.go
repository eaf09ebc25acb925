package domain

import "time"

// Snapshot is the serializable form of an automaton.
// States are listed in the automaton's insertion order.
type Snapshot struct {
	States      []State               `json:"states"`
	Transitions map[Code][]Transition `json:"transitions"`
	Start       *Code                 `json:"start,omitempty"`
	Forwards    map[Code]Code         `json:"forwards,omitempty"`
}

// Run is the persisted outcome of one learning run.
type Run struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Positive int `json:"positive"`
	Negative int `json:"negative"`

	// Initial is the union of the positive trace chains, the starting point of Log.
	Initial    Snapshot    `json:"initial"`
	PTA        Snapshot    `json:"pta"`
	Hypothesis Snapshot    `json:"hypothesis"`
	Log        []Operation `json:"log,omitempty"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		States: append([]State(nil), s.States...),
	}
	if s.Transitions != nil {
		out.Transitions = make(map[Code][]Transition, len(s.Transitions))
		for k, v := range s.Transitions {
			out.Transitions[k] = append([]Transition(nil), v...)
		}
	}
	if s.Start != nil {
		start := *s.Start
		out.Start = &start
	}
	if s.Forwards != nil {
		out.Forwards = make(map[Code]Code, len(s.Forwards))
		for k, v := range s.Forwards {
			out.Forwards[k] = v
		}
	}
	return out
}

// Clone returns a deep copy of the run.
func (r *Run) Clone() *Run {
	out := *r
	out.Initial = r.Initial.Clone()
	out.PTA = r.PTA.Clone()
	out.Hypothesis = r.Hypothesis.Clone()
	if r.Log != nil {
		out.Log = make([]Operation, len(r.Log))
		for i, op := range r.Log {
			op.Codes = append([]Code(nil), op.Codes...)
			out.Log[i] = op
		}
	}
	return &out
}
