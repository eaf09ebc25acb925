package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/rpni/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRunStoreContract runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract.
func RunRunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		run := sampleRun(runID)

		err := store.Save(ctx, run)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, run.ID, loaded.ID)
		assert.Equal(t, run.Positive, loaded.Positive)
		assert.Equal(t, run.Negative, loaded.Negative)
		assert.True(t, run.CreatedAt.Equal(loaded.CreatedAt), "CreatedAt should survive persistence")
		assert.Equal(t, run.PTA, loaded.PTA)
		assert.Equal(t, run.Hypothesis, loaded.Hypothesis)
		assert.Equal(t, run.Log, loaded.Log)
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		loaded.Hypothesis.States[0].Accepting = true
		loaded.Log[0].Kind = domain.OpRollback

		again, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.False(t, again.Hypothesis.States[0].Accepting)
		assert.Equal(t, domain.OpPromoteRed, again.Log[0].Kind)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sampleRun(runID))
		require.NoError(t, err)

		err = store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")

		assert.NoError(t, store.Delete(ctx, runID), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		_ = store.Save(ctx, sampleRun(id1))
		_ = store.Save(ctx, sampleRun(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		runs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, id1)
		assert.Contains(t, runs, id2)
	})
}

// sampleRun is the outcome of learning a+ from {a, aa} against {ε}.
func sampleRun(id string) *domain.Run {
	start, loop := domain.Code(0), domain.Code(1)
	return &domain.Run{
		ID:        id,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Positive:  2,
		Negative:  1,
		Initial: domain.Snapshot{
			States: []domain.State{
				{Code: 0, Label: "0", Start: true},
				{Code: 1, Label: "1", Accepting: true},
				{Code: 2, Label: "2", Start: true},
				{Code: 3, Label: "3"},
				{Code: 4, Label: "4", Accepting: true},
			},
			Transitions: map[domain.Code][]domain.Transition{
				0: {{Symbol: "a", To: 1}},
				2: {{Symbol: "a", To: 3}},
				3: {{Symbol: "a", To: 4}},
			},
			Start: &start,
		},
		PTA: domain.Snapshot{
			States: []domain.State{
				{Code: 0, Label: "0,2", Start: true},
				{Code: 1, Label: "1,3", Accepting: true},
				{Code: 4, Label: "4", Accepting: true},
			},
			Transitions: map[domain.Code][]domain.Transition{
				0: {{Symbol: "a", To: 1}},
				1: {{Symbol: "a", To: 4}},
			},
			Start:    &start,
			Forwards: map[domain.Code]domain.Code{2: 0, 3: 1},
		},
		Hypothesis: domain.Snapshot{
			States: []domain.State{
				{Code: 0, Label: "0,2", Start: true, Red: true},
				{Code: 1, Label: "1,3,4", Accepting: true, Red: true},
			},
			Transitions: map[domain.Code][]domain.Transition{
				0: {{Symbol: "a", To: 1}},
				1: {{Symbol: "a", To: 1}},
			},
			Start:    &start,
			Forwards: map[domain.Code]domain.Code{2: 0, 3: 1, 4: 1},
		},
		Log: []domain.Operation{
			{Kind: domain.OpPromoteRed, Note: "State 0 is red", Codes: []domain.Code{start}},
			{Kind: domain.OpMarkBlue, Note: "Children of 0 are blue", Codes: []domain.Code{start}},
			{Kind: domain.OpCommit, Note: "Merged 4 into 1", Codes: []domain.Code{loop}},
		},
	}
}
