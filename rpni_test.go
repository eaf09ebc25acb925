package rpni_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/rpni"
	"github.com/aretw0/rpni/internal/metrics"
	"github.com/aretw0/rpni/pkg/domain"
	"github.com/aretw0/rpni/pkg/identity"
	"github.com/aretw0/rpni/pkg/journal"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func learnAPlus(t *testing.T, opts ...rpni.Option) *rpni.Result {
	t.Helper()
	opts = append([]rpni.Option{rpni.WithCounter(&identity.Counter{})}, opts...)
	res, err := rpni.New(opts...).Learn(
		domain.NewExampleSet(domain.Example{"a"}, domain.Example{"a", "a"}),
		domain.NewExampleSet(domain.Example{}),
	)
	require.NoError(t, err)
	return res
}

func TestLearn(t *testing.T) {
	res := learnAPlus(t)

	t.Run("Hypothesis", func(t *testing.T) {
		assert.Equal(t, 2, res.Hypothesis.Len())
		assert.False(t, res.Hypothesis.Accepts(domain.Example{}))
		assert.True(t, res.Hypothesis.Accepts(domain.Example{"a", "a", "a"}))
	})

	t.Run("Prefix Tree Labels", func(t *testing.T) {
		start, err := res.PTA.Start()
		require.NoError(t, err)
		st, err := res.PTA.State(start)
		require.NoError(t, err)
		assert.Equal(t, "0,2", st.Label)
		assert.Equal(t, 3, res.PTA.Len())
	})

	t.Run("Chains Untouched", func(t *testing.T) {
		assert.Equal(t, 5, res.Chains.Len())
	})

	t.Run("Counts", func(t *testing.T) {
		assert.Equal(t, 2, res.Positive)
		assert.Equal(t, 1, res.Negative)
	})

	t.Run("Replay Reaches Hypothesis", func(t *testing.T) {
		p := res.Player()
		got, err := p.Seek(p.Len())
		require.NoError(t, err)
		assert.ElementsMatch(t, res.Hypothesis.Codes(), got.Codes())
		for _, code := range got.Codes() {
			assert.Equal(t, res.Hypothesis.Transitions(code), got.Transitions(code))
		}
	})
}

func TestLearn_NoTraces(t *testing.T) {
	_, err := rpni.New().Learn(domain.NewExampleSet(), domain.NewExampleSet())
	assert.ErrorIs(t, err, domain.ErrNoTraces)
}

func TestLearn_Recorders(t *testing.T) {
	log := journal.NewLog()
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	res := learnAPlus(t, rpni.WithRecorder(log), rpni.WithMetrics(collector))
	assert.Equal(t, res.Log, log.Operations())

	expected := fmt.Sprintf(`
# HELP rpni_hypothesis_states Number of states of the last learned hypothesis
# TYPE rpni_hypothesis_states gauge
rpni_hypothesis_states %d
`, res.Hypothesis.Len())
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "rpni_hypothesis_states"))

	// Later edits to the result are not recorded.
	n := log.Len()
	start, err := res.Hypothesis.Start()
	require.NoError(t, err)
	require.NoError(t, res.Hypothesis.Merge(start, start))
	assert.Equal(t, n, log.Len())
}

func TestFromRun(t *testing.T) {
	res := learnAPlus(t)
	now := time.Now()

	run := res.Run("run-1", now)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, len(res.Log), len(run.Log))

	restored, err := rpni.FromRun(run)
	require.NoError(t, err)
	assert.Equal(t, res.Hypothesis.Snapshot(), restored.Hypothesis.Snapshot())
	assert.True(t, restored.Hypothesis.Accepts(domain.Example{"a", "a"}))

	// The restored run still replays.
	p := restored.Player()
	_, err = p.Seek(p.Len())
	assert.NoError(t, err)
}

func TestRunner(t *testing.T) {
	t.Run("Headless", func(t *testing.T) {
		res := learnAPlus(t)
		var out bytes.Buffer
		r := rpni.NewRunner()
		r.Output = &out
		r.Headless = true

		require.NoError(t, r.Run(res.Player()))
		got := out.String()
		assert.Contains(t, got, "## Step 0/")
		assert.Contains(t, got, fmt.Sprintf("## Step %d/%d", len(res.Log), len(res.Log)))
		assert.NotContains(t, got, "n: next")
	})

	t.Run("Interactive", func(t *testing.T) {
		res := learnAPlus(t)
		var out bytes.Buffer
		r := rpni.NewRunner()
		r.Input = strings.NewReader("n\n\np\nzz\nq\n")
		r.Output = &out

		require.NoError(t, r.Run(res.Player()))
		got := out.String()
		assert.Equal(t, 2, strings.Count(got, "## Step 1/"))
		assert.Equal(t, 1, strings.Count(got, "## Step 2/"))
		assert.Contains(t, got, `Unknown command "zz"`)
		assert.Contains(t, got, "Bye!")
	})

	t.Run("Renderer", func(t *testing.T) {
		res := learnAPlus(t)
		var out bytes.Buffer
		r := rpni.NewRunner()
		r.Output = &out
		r.Headless = true
		r.Renderer = func(s string) (string, error) { return strings.ToUpper(s), nil }

		require.NoError(t, r.Run(res.Player()))
		assert.Contains(t, out.String(), "## STEP 0/")
	})

	t.Run("Missing IO", func(t *testing.T) {
		assert.Error(t, rpni.NewRunner().Run(learnAPlus(t).Player()))
	})
}
