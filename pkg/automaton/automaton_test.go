package automaton_test

import (
	"testing"

	"github.com/aretw0/rpni/pkg/automaton"
	"github.com/aretw0/rpni/pkg/domain"
	"github.com/aretw0/rpni/pkg/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain builds start -s1-> q1 -s2-> ... -sn-> qn with qn accepting.
func chain(t *testing.T, ids *identity.Counter, syms ...domain.Symbol) (*automaton.Automaton, []domain.Code) {
	t.Helper()
	a := automaton.New(automaton.WithCounter(ids))
	prev := a.NewState()
	require.NoError(t, a.SetStart(prev))
	codes := []domain.Code{prev}
	for _, s := range syms {
		next := a.NewState()
		require.NoError(t, a.Connect(prev, next, s))
		codes = append(codes, next)
		prev = next
	}
	st, err := a.State(prev)
	require.NoError(t, err)
	st.Accepting = true
	return a, codes
}

func TestAutomaton_Connect_UnknownState(t *testing.T) {
	a := automaton.New(automaton.WithCounter(&identity.Counter{}))
	s0 := a.NewState()

	err := a.Connect(s0, 99, "a")
	assert.ErrorIs(t, err, domain.ErrUnknownState)

	err = a.Connect(99, s0, "a")
	assert.ErrorIs(t, err, domain.ErrUnknownState)
	assert.Empty(t, a.Transitions(s0))
}

func TestAutomaton_Start_Undefined(t *testing.T) {
	a := automaton.New(automaton.WithCounter(&identity.Counter{}))
	a.NewState()

	_, err := a.Start()
	assert.ErrorIs(t, err, domain.ErrUndefinedStart)
	assert.ErrorIs(t, a.Determinize(), domain.ErrUndefinedStart)
	_, err = a.Height()
	assert.ErrorIs(t, err, domain.ErrUndefinedStart)
	_, err = a.Width()
	assert.ErrorIs(t, err, domain.ErrUndefinedStart)
}

func TestAutomaton_Feed(t *testing.T) {
	a, _ := chain(t, &identity.Counter{}, "a", "b")

	t.Run("Accepting Trace", func(t *testing.T) {
		a.GoToStart()
		a.Feed("a")
		a.Feed("b")
		assert.True(t, a.IsFinished())
	})

	t.Run("Prefix Is Not Accepting", func(t *testing.T) {
		a.GoToStart()
		a.Feed("a")
		assert.False(t, a.IsFinished())
		assert.False(t, a.OutOfBounds())
	})

	t.Run("Out Of Bounds Is Sticky", func(t *testing.T) {
		a.GoToStart()
		a.Feed("z")
		assert.True(t, a.OutOfBounds())
		assert.False(t, a.IsFinished())

		// Feeding the rest of a valid trace does not bring the cursor back.
		a.Feed("a")
		a.Feed("b")
		assert.False(t, a.IsFinished())

		a.GoToStart()
		assert.False(t, a.OutOfBounds())
		assert.True(t, a.Accepts(domain.Example{"a", "b"}))
	})
}

func TestAutomaton_Clone(t *testing.T) {
	ids := &identity.Counter{}
	a, codes := chain(t, ids, "a", "b", "c")
	require.NoError(t, a.Connect(codes[3], codes[1], "d"))

	before := ids.Peek()
	c := a.Clone()

	t.Run("Counter Unchanged", func(t *testing.T) {
		assert.Equal(t, before, ids.Peek())
	})

	t.Run("Same Structure", func(t *testing.T) {
		assert.Equal(t, a.Snapshot(), c.Snapshot())
		start, err := c.Start()
		require.NoError(t, err)
		assert.Equal(t, codes[0], start)
	})

	t.Run("Independently Mutable", func(t *testing.T) {
		orig := a.Snapshot()

		require.NoError(t, c.Merge(codes[1], codes[2]))
		st, err := c.State(codes[0])
		require.NoError(t, err)
		st.Red = true

		assert.Equal(t, orig, a.Snapshot())
		assert.True(t, a.Has(codes[2]))
		assert.False(t, c.Has(codes[2]))
	})
}

func TestAutomaton_Descendants_Cycle(t *testing.T) {
	a, codes := chain(t, &identity.Counter{}, "a", "b")
	// q2 -c-> q0 closes a cycle through the start state.
	require.NoError(t, a.Connect(codes[2], codes[0], "c"))
	extra := a.NewState()

	assert.Equal(t, []domain.Code{codes[1], codes[2]}, a.Descendants(codes[0]))
	assert.Equal(t, []domain.Code{codes[2], codes[0]}, a.Descendants(codes[1]))

	// Ascendants is the complement of Descendants.
	assert.Equal(t, []domain.Code{codes[0], extra}, a.Ascendants(codes[0]))
	assert.Equal(t, []domain.Code{codes[1], extra}, a.Ascendants(codes[1]))
}

func TestAutomaton_HeightWidth(t *testing.T) {
	a := automaton.New(automaton.WithCounter(&identity.Counter{}))
	s0, s1, s2, s3, s4 := a.NewState(), a.NewState(), a.NewState(), a.NewState(), a.NewState()
	require.NoError(t, a.SetStart(s0))
	require.NoError(t, a.Connect(s0, s1, "a"))
	require.NoError(t, a.Connect(s1, s2, "b"))
	require.NoError(t, a.Connect(s1, s3, "c"))
	require.NoError(t, a.Connect(s0, s4, "d"))
	// A back edge must not be followed.
	require.NoError(t, a.Connect(s3, s0, "e"))

	h, err := a.Height()
	require.NoError(t, err)
	assert.Equal(t, 3, h)

	w, err := a.Width()
	require.NoError(t, err)
	assert.Equal(t, 3, w)

	assert.Equal(t, 2, a.HeightFrom(s1))
}

func TestAutomaton_MergeOut_AcrossAutomata(t *testing.T) {
	ids := &identity.Counter{}
	ref, r := chain(t, ids, "a")
	other, o := chain(t, ids, "a", "b")

	require.NoError(t, ref.MergeOut(r[0], o[0], other))

	assert.False(t, other.Has(o[0]), "source start state must be removed from its automaton")
	assert.Equal(t, 4, ref.Len())
	assert.Equal(t, []domain.Transition{{Symbol: "a", To: r[1]}, {Symbol: "a", To: o[1]}}, ref.Transitions(r[0]))

	require.NoError(t, ref.Determinize())
	assert.Equal(t, 3, ref.Len())
	assert.True(t, ref.Accepts(domain.Example{"a"}))
	assert.True(t, ref.Accepts(domain.Example{"a", "b"}))
	assert.False(t, ref.Accepts(domain.Example{"b"}))
}

func TestAutomaton_MergeOut_EmptyTraceAbsorbsAccepting(t *testing.T) {
	ids := &identity.Counter{}
	ref, r := chain(t, ids, "a")
	empty, e := chain(t, ids)

	require.NoError(t, ref.MergeOut(r[0], e[0], empty))

	st, err := ref.State(r[0])
	require.NoError(t, err)
	assert.True(t, st.Accepting)
	assert.True(t, st.Start)
	assert.True(t, ref.Accepts(domain.Example{}))
}

func TestAutomaton_Merge_Identity(t *testing.T) {
	a := automaton.New(automaton.WithCounter(&identity.Counter{}))
	s0, x, y, z, w := a.NewState(), a.NewState(), a.NewState(), a.NewState(), a.NewState()
	require.NoError(t, a.SetStart(s0))
	require.NoError(t, a.Connect(s0, x, "a"))
	require.NoError(t, a.Connect(s0, y, "b"))
	require.NoError(t, a.Connect(x, z, "c"))
	require.NoError(t, a.Connect(y, w, "d"))
	xs, err := a.State(x)
	require.NoError(t, err)
	xs.Accepting = true

	require.NoError(t, a.Merge(y, x))

	_, err = a.State(x)
	assert.ErrorIs(t, err, domain.ErrStateNotFound)

	resolved, err := a.Resolve(x)
	require.NoError(t, err)
	assert.Equal(t, y, resolved)
	assert.Equal(t, a.Transitions(y), a.Transitions(resolved))
	assert.Equal(t, []domain.Transition{{Symbol: "d", To: w}, {Symbol: "c", To: z}}, a.Transitions(y))

	// Incoming edges of x now point at y.
	assert.Equal(t, []domain.Transition{{Symbol: "a", To: y}, {Symbol: "b", To: y}}, a.Transitions(s0))

	ys, err := a.State(y)
	require.NoError(t, err)
	assert.True(t, ys.Accepting)

	_, err = a.Resolve(1000)
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
}

func TestAutomaton_Merge_SelfLoop(t *testing.T) {
	a, codes := chain(t, &identity.Counter{}, "a", "a")

	require.NoError(t, a.Merge(codes[0], codes[1]))

	// q0 -a-> q1 became a self-loop, q1 -a-> q2 moved onto q0.
	assert.ElementsMatch(t,
		[]domain.Transition{{Symbol: "a", To: codes[0]}, {Symbol: "a", To: codes[2]}},
		a.Transitions(codes[0]))
	det, err := a.IsDeterministic(codes[0])
	require.NoError(t, err)
	assert.False(t, det)

	require.NoError(t, a.Determinize())
	start, err := a.Start()
	require.NoError(t, err)
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, []domain.Transition{{Symbol: "a", To: start}}, a.Transitions(start))
	assert.True(t, a.Accepts(domain.Example{}))
	assert.True(t, a.Accepts(domain.Example{"a", "a", "a"}))
}

func TestAutomaton_Determinize(t *testing.T) {
	a := automaton.New(automaton.WithCounter(&identity.Counter{}))
	s0, s1, s2, s3, s4 := a.NewState(), a.NewState(), a.NewState(), a.NewState(), a.NewState()
	require.NoError(t, a.SetStart(s0))
	require.NoError(t, a.Connect(s0, s1, "a"))
	require.NoError(t, a.Connect(s0, s2, "a"))
	require.NoError(t, a.Connect(s1, s3, "b"))
	require.NoError(t, a.Connect(s2, s4, "b"))
	require.NoError(t, a.Connect(s2, s0, "c"))
	st, err := a.State(s4)
	require.NoError(t, err)
	st.Accepting = true

	require.NoError(t, a.Determinize())

	for _, code := range a.Codes() {
		det, err := a.IsDeterministic(code)
		require.NoError(t, err)
		assert.True(t, det, "state %d is not deterministic", code)
	}
	assert.Equal(t, 3, a.Len())
	assert.False(t, a.Has(s2))
	assert.False(t, a.Has(s4))

	r, err := a.Resolve(s2)
	require.NoError(t, err)
	assert.Equal(t, s1, r)
	r, err = a.Resolve(s4)
	require.NoError(t, err)
	assert.Equal(t, s3, r)

	assert.True(t, a.Accepts(domain.Example{"a", "b"}))
	assert.True(t, a.Accepts(domain.Example{"a", "c", "a", "b"}))
	assert.False(t, a.Accepts(domain.Example{"a"}))
}

func TestAutomaton_Determinize_StartMergedAway(t *testing.T) {
	a := automaton.New(automaton.WithCounter(&identity.Counter{}))
	s0, s1 := a.NewState(), a.NewState()
	require.NoError(t, a.SetStart(s0))
	// s0 -a-> s1 listed before s0 -a-> s0: s0 itself is folded into s1.
	require.NoError(t, a.Connect(s0, s1, "a"))
	require.NoError(t, a.Connect(s0, s0, "a"))

	require.NoError(t, a.Determinize())

	start, err := a.Start()
	require.NoError(t, err)
	assert.Equal(t, s1, start)
	st, err := a.State(start)
	require.NoError(t, err)
	assert.True(t, st.Start)
	assert.Equal(t, []domain.Transition{{Symbol: "a", To: s1}}, a.Transitions(s1))
}

func TestAutomaton_ResolveStart(t *testing.T) {
	a := automaton.New(automaton.WithCounter(&identity.Counter{}))
	a.NewState()
	s1 := a.NewState()
	assert.ErrorIs(t, a.ResolveStart(), domain.ErrUndefinedStart)

	st, err := a.State(s1)
	require.NoError(t, err)
	st.Start = true

	require.NoError(t, a.ResolveStart())
	start, err := a.Start()
	require.NoError(t, err)
	assert.Equal(t, s1, start)
}

func TestAutomaton_RemoveState(t *testing.T) {
	a, codes := chain(t, &identity.Counter{}, "a", "b")
	require.NoError(t, a.Connect(codes[0], codes[2], "c"))

	a.RemoveState(codes[2])

	assert.False(t, a.Has(codes[2]))
	assert.Equal(t, []domain.Transition{{Symbol: "a", To: codes[1]}}, a.Transitions(codes[0]))
	assert.Empty(t, a.Transitions(codes[1]))
}

func TestAutomaton_SnapshotRestore(t *testing.T) {
	ids := &identity.Counter{}
	a, codes := chain(t, ids, "a", "b")
	require.NoError(t, a.Merge(codes[1], codes[2]))

	restoredIDs := &identity.Counter{}
	b, err := automaton.FromSnapshot(a.Snapshot(), automaton.WithCounter(restoredIDs))
	require.NoError(t, err)

	assert.Equal(t, a.Snapshot(), b.Snapshot())
	r, err := b.Resolve(codes[2])
	require.NoError(t, err)
	assert.Equal(t, codes[1], r)

	// Fresh states never collide with restored codes, merged-away ones included.
	fresh := b.NewState()
	assert.Greater(t, int(fresh), int(codes[2]))
	r, err = b.Resolve(codes[2])
	require.NoError(t, err)
	assert.Equal(t, codes[1], r, "merged-away code still forwards to its absorber")

	bad := domain.Snapshot{
		States:      []domain.State{{Code: 1}},
		Transitions: map[domain.Code][]domain.Transition{1: {{Symbol: "a", To: 2}}},
	}
	_, err = automaton.FromSnapshot(bad, automaton.WithCounter(&identity.Counter{}))
	assert.ErrorIs(t, err, domain.ErrUnknownState)
}

func TestAutomaton_RestoreReservesForwardedCodes(t *testing.T) {
	// The merged-away code is the highest one the snapshot mentions.
	snap := domain.Snapshot{
		States:      []domain.State{{Code: 0, Start: true}, {Code: 1, Accepting: true}},
		Transitions: map[domain.Code][]domain.Transition{0: {{Symbol: "a", To: 1}}},
		Start:       new(domain.Code),
		Forwards:    map[domain.Code]domain.Code{2: 1},
	}
	ids := &identity.Counter{}
	a, err := automaton.FromSnapshot(snap, automaton.WithCounter(ids))
	require.NoError(t, err)

	assert.Equal(t, domain.Code(3), ids.Peek())
	fresh := a.NewState()
	assert.NotEqual(t, domain.Code(2), fresh)

	r, err := a.Resolve(2)
	require.NoError(t, err)
	assert.Equal(t, domain.Code(1), r)
}

func TestAutomaton_Recorder(t *testing.T) {
	var ops []domain.Operation
	ids := &identity.Counter{}
	a := automaton.New(automaton.WithCounter(ids), automaton.WithRecorder(domain.RecorderFunc(func(op domain.Operation) {
		ops = append(ops, op)
	})))
	s0, s1, s2 := a.NewState(), a.NewState(), a.NewState()
	require.NoError(t, a.SetStart(s0))
	require.NoError(t, a.Connect(s0, s1, "a"))
	require.NoError(t, a.Connect(s0, s2, "a"))

	require.NoError(t, a.Clone().Determinize())

	require.Len(t, ops, 2)
	assert.Equal(t, domain.OpDeterminize, ops[0].Kind)
	assert.Equal(t, domain.OpMergeOut, ops[1].Kind)
	assert.Equal(t, []domain.Code{s1, s2}, ops[1].Codes)
}
