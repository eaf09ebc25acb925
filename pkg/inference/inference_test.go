package inference_test

import (
	"testing"

	"github.com/aretw0/rpni/pkg/automaton"
	"github.com/aretw0/rpni/pkg/domain"
	"github.com/aretw0/rpni/pkg/identity"
	"github.com/aretw0/rpni/pkg/inference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func examples(traces ...[]domain.Symbol) *domain.ExampleSet {
	set := domain.NewExampleSet()
	for _, tr := range traces {
		set.Add(domain.Example(tr))
	}
	return set
}

func buildPTA(t *testing.T, positives *domain.ExampleSet) *automaton.Automaton {
	t.Helper()
	chains, err := inference.Chains(positives, automaton.WithCounter(&identity.Counter{}))
	require.NoError(t, err)
	pta, err := inference.BuildPTA(chains)
	require.NoError(t, err)
	return pta
}

func assertDeterministic(t *testing.T, a *automaton.Automaton) {
	t.Helper()
	for _, code := range a.Codes() {
		det, err := a.IsDeterministic(code)
		require.NoError(t, err)
		assert.True(t, det, "state %d has duplicate symbols", code)
	}
}

func TestChain(t *testing.T) {
	c, err := inference.Chain(domain.Example{"a", "b"}, automaton.WithCounter(&identity.Counter{}))
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.True(t, c.Accepts(domain.Example{"a", "b"}))
	assert.False(t, c.Accepts(domain.Example{"a"}))

	empty, err := inference.Chain(domain.Example{}, automaton.WithCounter(&identity.Counter{}))
	require.NoError(t, err)
	assert.Equal(t, 1, empty.Len())
	assert.True(t, empty.Accepts(domain.Example{}))
}

func TestBuildPTA_NoTraces(t *testing.T) {
	_, err := inference.BuildPTA(nil)
	assert.ErrorIs(t, err, domain.ErrNoTraces)
}

func TestBuildPTA_SharedPrefix(t *testing.T) {
	pta := buildPTA(t, examples([]domain.Symbol{"a", "b"}, []domain.Symbol{"a", "c"}))

	start, err := pta.Start()
	require.NoError(t, err)
	assert.Equal(t, 4, pta.Len())

	out := pta.Transitions(start)
	require.Len(t, out, 1)
	assert.Equal(t, domain.Symbol("a"), out[0].Symbol)

	mid := pta.Transitions(out[0].To)
	require.Len(t, mid, 2)
	assert.Equal(t, domain.Symbol("b"), mid[0].Symbol)
	assert.Equal(t, domain.Symbol("c"), mid[1].Symbol)
	for _, tr := range mid {
		st, err := pta.State(tr.To)
		require.NoError(t, err)
		assert.True(t, st.Accepting)
	}
}

func TestBuildPTA_Exactness(t *testing.T) {
	positives := examples(
		[]domain.Symbol{"a", "b", "a"},
		[]domain.Symbol{"a", "b"},
		[]domain.Symbol{"b"},
		[]domain.Symbol{},
		[]domain.Symbol{"a", "a", "b"},
	)
	pta := buildPTA(t, positives)

	assertDeterministic(t, pta)
	for _, ex := range positives.All() {
		assert.True(t, pta.Accepts(ex), "trace %s must be accepted", ex)
	}
	for _, ex := range []domain.Example{{"a"}, {"a", "a"}, {"b", "b"}, {"c"}, {"a", "b", "a", "a"}} {
		assert.False(t, pta.Accepts(ex), "trace %s must be rejected", ex)
	}
	// 1 start + a, ab, aba, b, aa, aab
	assert.Equal(t, 7, pta.Len())
}

func TestConsistent(t *testing.T) {
	pta := buildPTA(t, examples([]domain.Symbol{"a"}, []domain.Symbol{"b", "c"}))

	ok, ex := inference.Consistent(pta, examples([]domain.Symbol{"b"}, []domain.Symbol{"c"}))
	assert.True(t, ok)
	assert.Nil(t, ex)

	ok, ex = inference.Consistent(pta, examples([]domain.Symbol{"b"}, []domain.Symbol{"b", "c"}, []domain.Symbol{"a"}))
	assert.False(t, ok)
	assert.Equal(t, domain.Example{"b", "c"}, ex)
}

func TestRunRPNI_NoGeneralizationPossible(t *testing.T) {
	// The only positive trace is also negative: the prefix tree itself is
	// inconsistent, so every merge is rejected and the tree comes back as is.
	pta := buildPTA(t, examples([]domain.Symbol{"a", "b"}))
	negatives := examples([]domain.Symbol{"a", "b"})

	h, err := inference.RunRPNI(pta, negatives)
	require.NoError(t, err)

	assert.Equal(t, pta.Codes(), h.Codes())
	for _, code := range pta.Codes() {
		assert.Equal(t, pta.Transitions(code), h.Transitions(code))
		orig, err := pta.State(code)
		require.NoError(t, err)
		learned, err := h.State(code)
		require.NoError(t, err)
		assert.Equal(t, orig.Accepting, learned.Accepting)
		assert.True(t, learned.Red, "every state ends red")
		assert.False(t, learned.Blue)
	}
	assert.True(t, h.Accepts(domain.Example{"a", "b"}), "positive traces stay accepted")
	assert.False(t, h.Accepts(domain.Example{"a"}))
}

func TestRunRPNI_Generalizes(t *testing.T) {
	pta := buildPTA(t, examples([]domain.Symbol{"a"}, []domain.Symbol{"a", "a"}))
	before := pta.Snapshot()

	var ops []domain.Operation
	h, err := inference.RunRPNI(pta, examples([]domain.Symbol{}), inference.WithRecorder(
		domain.RecorderFunc(func(op domain.Operation) { ops = append(ops, op) }),
	))
	require.NoError(t, err)

	t.Run("Learns a+", func(t *testing.T) {
		assert.Equal(t, 2, h.Len())
		assertDeterministic(t, h)
		assert.False(t, h.Accepts(domain.Example{}))
		assert.True(t, h.Accepts(domain.Example{"a"}))
		assert.True(t, h.Accepts(domain.Example{"a", "a", "a", "a"}))
	})

	t.Run("PTA Untouched", func(t *testing.T) {
		assert.Equal(t, before, pta.Snapshot())
	})

	t.Run("Operation Log", func(t *testing.T) {
		kinds := make([]domain.OperationKind, len(ops))
		for i, op := range ops {
			kinds[i] = op.Kind
		}
		assert.Equal(t, []domain.OperationKind{
			domain.OpPromoteRed, domain.OpMarkBlue,
			domain.OpMerge, domain.OpDeterminize, domain.OpMergeOut, domain.OpRollback,
			domain.OpPromoteRed, domain.OpMarkBlue,
			domain.OpMerge, domain.OpDeterminize, domain.OpRollback,
			domain.OpMerge, domain.OpDeterminize, domain.OpCommit, domain.OpMarkBlue,
		}, kinds)
	})
}

func TestRunRPNI_Safety(t *testing.T) {
	// Strings over {a, b} with an even number of a's.
	positives := examples(
		[]domain.Symbol{},
		[]domain.Symbol{"b"},
		[]domain.Symbol{"a", "a"},
		[]domain.Symbol{"b", "b"},
		[]domain.Symbol{"a", "b", "a"},
		[]domain.Symbol{"a", "a", "b"},
		[]domain.Symbol{"b", "a", "a"},
		[]domain.Symbol{"a", "a", "a", "a"},
	)
	negatives := examples(
		[]domain.Symbol{"a"},
		[]domain.Symbol{"a", "b"},
		[]domain.Symbol{"b", "a"},
		[]domain.Symbol{"a", "a", "a"},
		[]domain.Symbol{"b", "a", "b"},
		[]domain.Symbol{"a", "b", "b"},
	)
	pta := buildPTA(t, positives)

	h, err := inference.RunRPNI(pta, negatives)
	require.NoError(t, err)

	assertDeterministic(t, h)
	assert.LessOrEqual(t, h.Len(), pta.Len())
	for _, ex := range negatives.All() {
		assert.False(t, h.Accepts(ex), "negative %s accepted", ex)
	}
	for _, ex := range positives.All() {
		assert.True(t, h.Accepts(ex), "positive %s rejected", ex)
	}
}

func TestRunRPNI_UndefinedStart(t *testing.T) {
	a := automaton.New(automaton.WithCounter(&identity.Counter{}))
	a.NewState()

	_, err := inference.RunRPNI(a, domain.NewExampleSet())
	assert.ErrorIs(t, err, domain.ErrUndefinedStart)
}

func TestRunRPNI_FrontierFollowsMergedState(t *testing.T) {
	// Determinize can move a subtree under a red state other than the merged
	// one. Only the merged state's children are queued, so that subtree is
	// never visited and its states end up neither red nor blue.
	positives := examples(
		[]domain.Symbol{"c", "c"},
		[]domain.Symbol{"b", "c", "b"},
		[]domain.Symbol{"b", "a", "c", "b"},
	)
	negatives := examples([]domain.Symbol{}, []domain.Symbol{"c"})
	pta := buildPTA(t, positives)

	h, err := inference.RunRPNI(pta, negatives)
	require.NoError(t, err)

	assertDeterministic(t, h)
	for _, ex := range positives.All() {
		assert.True(t, h.Accepts(ex), "positive %s rejected", ex)
	}
	for _, ex := range negatives.All() {
		assert.False(t, h.Accepts(ex), "negative %s accepted", ex)
	}

	start, err := h.Start()
	require.NoError(t, err)
	var unvisited []domain.Code
	for _, code := range append([]domain.Code{start}, h.Descendants(start)...) {
		st, err := h.State(code)
		require.NoError(t, err)
		if !st.Red && !st.Blue {
			unvisited = append(unvisited, code)
		}
	}
	assert.NotEmpty(t, unvisited, "a reachable state is left outside the red and blue sets")
}
