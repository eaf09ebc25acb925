package automaton

import (
	"fmt"

	"github.com/aretw0/rpni/pkg/domain"
	"github.com/aretw0/rpni/pkg/identity"
)

// Automaton is an arena of states keyed by their identity code, plus the
// ordered outgoing transitions of each state.
//
// All structural operations work on codes, never on state pointers, so the same
// code can be used against any clone of the automaton.
// An Automaton is not safe for concurrent use.
type Automaton struct {
	states map[domain.Code]*domain.State
	trans  map[domain.Code][]domain.Transition
	// order keeps iteration deterministic (insertion order of live states).
	order []domain.Code
	// forwards maps a merged-away code to the code that absorbed it.
	forwards map[domain.Code]domain.Code

	start    domain.Code
	hasStart bool

	cursor      domain.Code
	outOfBounds bool

	ids      *identity.Counter
	recorder domain.Recorder
}

// Option defines a functional option for configuring an Automaton.
type Option func(*Automaton)

// WithCounter sets the identity counter used to mint codes (default: identity.Default).
func WithCounter(c *identity.Counter) Option {
	return func(a *Automaton) {
		a.ids = c
	}
}

// WithRecorder registers a recorder for the mutations performed on the automaton.
// Clones inherit the recorder.
func WithRecorder(r domain.Recorder) Option {
	return func(a *Automaton) {
		a.recorder = r
	}
}

// New creates an empty automaton.
func New(opts ...Option) *Automaton {
	a := &Automaton{
		states:      make(map[domain.Code]*domain.State),
		trans:       make(map[domain.Code][]domain.Transition),
		forwards:    make(map[domain.Code]domain.Code),
		outOfBounds: true,
		ids:         identity.Default,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetRecorder replaces the recorder. A nil recorder disables recording.
func (a *Automaton) SetRecorder(r domain.Recorder) {
	a.recorder = r
}

// Counter returns the identity counter of the automaton.
func (a *Automaton) Counter() *identity.Counter {
	return a.ids
}

func (a *Automaton) record(kind domain.OperationKind, note string, codes ...domain.Code) {
	if a.recorder == nil {
		return
	}
	a.recorder.Record(domain.Operation{Kind: kind, Note: note, Codes: codes})
}

// NewState mints a fresh code and adds an unflagged state for it.
func (a *Automaton) NewState() domain.Code {
	code := a.ids.Allocate()
	a.addState(domain.State{Code: code})
	return code
}

// AddState adds a copy of s under its own code. Adding a code that is already
// live is a no-op.
func (a *Automaton) AddState(s domain.State) {
	if _, ok := a.states[s.Code]; ok {
		return
	}
	a.addState(s)
}

func (a *Automaton) addState(s domain.State) {
	st := s
	a.states[s.Code] = &st
	a.trans[s.Code] = nil
	a.order = append(a.order, s.Code)
}

// RemoveState deletes the state and every transition, from any state, that targets it.
func (a *Automaton) RemoveState(code domain.Code) {
	if _, ok := a.states[code]; !ok {
		return
	}
	for _, c := range a.order {
		list := a.trans[c]
		kept := list[:0]
		for _, t := range list {
			if t.To != code {
				kept = append(kept, t)
			}
		}
		a.trans[c] = kept
	}
	delete(a.states, code)
	delete(a.trans, code)
	for i, c := range a.order {
		if c == code {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	if a.hasStart && a.start == code {
		a.hasStart = false
	}
	if a.cursor == code {
		a.outOfBounds = true
	}
}

// Has reports whether code names a live state.
func (a *Automaton) Has(code domain.Code) bool {
	_, ok := a.states[code]
	return ok
}

// State returns the live state for code.
// The returned pointer belongs to this automaton; clones hold their own copies.
func (a *Automaton) State(code domain.Code) (*domain.State, error) {
	s, ok := a.states[code]
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrStateNotFound, code)
	}
	return s, nil
}

// Resolve returns the live code standing for code: code itself if it is live,
// otherwise the state that absorbed it (following successive merges).
func (a *Automaton) Resolve(code domain.Code) (domain.Code, error) {
	cur := code
	for range len(a.forwards) + 1 {
		if _, ok := a.states[cur]; ok {
			return cur, nil
		}
		next, ok := a.forwards[cur]
		if !ok {
			break
		}
		cur = next
	}
	return 0, fmt.Errorf("%w: %d", domain.ErrStateNotFound, code)
}

// Codes returns the live codes in insertion order.
func (a *Automaton) Codes() []domain.Code {
	out := make([]domain.Code, len(a.order))
	copy(out, a.order)
	return out
}

// States returns copies of the live states in insertion order.
func (a *Automaton) States() []domain.State {
	out := make([]domain.State, 0, len(a.order))
	for _, c := range a.order {
		out = append(out, *a.states[c])
	}
	return out
}

// Len returns the number of live states.
func (a *Automaton) Len() int {
	return len(a.order)
}

// Transitions returns a copy of the outgoing transitions of code, in order.
func (a *Automaton) Transitions(code domain.Code) []domain.Transition {
	list := a.trans[code]
	if len(list) == 0 {
		return nil
	}
	out := make([]domain.Transition, len(list))
	copy(out, list)
	return out
}

// Children returns the distinct targets of code's transitions, in order of first appearance.
func (a *Automaton) Children(code domain.Code) []domain.Code {
	seen := make(map[domain.Code]bool)
	var out []domain.Code
	for _, t := range a.trans[code] {
		if !seen[t.To] {
			seen[t.To] = true
			out = append(out, t.To)
		}
	}
	return out
}

// Connect appends a transition from -> to labeled sym.
func (a *Automaton) Connect(from, to domain.Code, sym domain.Symbol) error {
	if _, ok := a.states[from]; !ok {
		return fmt.Errorf("%w: %d", domain.ErrUnknownState, from)
	}
	if _, ok := a.states[to]; !ok {
		return fmt.Errorf("%w: %d", domain.ErrUnknownState, to)
	}
	a.trans[from] = append(a.trans[from], domain.Transition{Symbol: sym, To: to})
	return nil
}

// Start returns the start state's code.
func (a *Automaton) Start() (domain.Code, error) {
	if !a.hasStart {
		return 0, domain.ErrUndefinedStart
	}
	return a.start, nil
}

// SetStart designates code as the start state, flags it and moves the cursor there.
func (a *Automaton) SetStart(code domain.Code) error {
	s, ok := a.states[code]
	if !ok {
		return fmt.Errorf("%w: %d", domain.ErrUnknownState, code)
	}
	s.Start = true
	a.start = code
	a.hasStart = true
	a.GoToStart()
	return nil
}

// ResolveStart re-designates the start state by scanning for the first state flagged Start.
func (a *Automaton) ResolveStart() error {
	for _, c := range a.order {
		if a.states[c].Start {
			a.start = c
			a.hasStart = true
			a.GoToStart()
			a.record(domain.OpResolveStart, fmt.Sprintf("Start state is %d", c), c)
			return nil
		}
	}
	a.hasStart = false
	return domain.ErrUndefinedStart
}

// Clone deep-copies the automaton. Every state keeps its code; the identity
// counter does not move.
func (a *Automaton) Clone() *Automaton {
	c := &Automaton{
		states:      make(map[domain.Code]*domain.State, len(a.states)),
		trans:       make(map[domain.Code][]domain.Transition, len(a.trans)),
		order:       make([]domain.Code, 0, len(a.order)),
		forwards:    make(map[domain.Code]domain.Code, len(a.forwards)),
		start:       a.start,
		hasStart:    a.hasStart,
		cursor:      a.cursor,
		outOfBounds: a.outOfBounds,
		ids:         a.ids,
		recorder:    a.recorder,
	}
	for _, code := range a.order {
		st := *a.states[code]
		st.Code = a.ids.Duplicate(code)
		c.addState(st)
	}
	for _, code := range a.order {
		if list := a.trans[code]; len(list) > 0 {
			c.trans[code] = append([]domain.Transition(nil), list...)
		}
	}
	for k, v := range a.forwards {
		c.forwards[k] = v
	}
	return c
}

// Union builds one automaton holding every state and transition of parts.
// Its start state is the start of the first part that has one.
func Union(parts ...*Automaton) *Automaton {
	var opts []Option
	if len(parts) > 0 {
		opts = append(opts, WithCounter(parts[0].ids))
	}
	u := New(opts...)
	for _, p := range parts {
		for _, code := range p.order {
			u.AddState(*p.states[code])
		}
	}
	for _, p := range parts {
		for _, code := range p.order {
			u.trans[code] = append(u.trans[code], p.trans[code]...)
		}
		if !u.hasStart && p.hasStart {
			u.start = p.start
			u.hasStart = true
			u.GoToStart()
		}
	}
	return u
}
