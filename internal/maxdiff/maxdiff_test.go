package maxdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bwsample/pkg/types"
)

func TestScore(t *testing.T) {
	abcd := []string{"A", "B", "C", "D"}
	batch := []types.Observation{
		types.NewObservation([]int{1, 0, 0, 2}, abcd),
		types.NewObservation([]int{1, 0, 0, 2}, abcd),
		types.NewObservation([]int{2, 0, 0, 1}, abcd),
		types.NewObservation([]int{0, 1, 2, 0}, abcd),
		types.NewObservation([]int{0, 1, 0, 2}, abcd),
	}

	got, err := Score(batch)
	require.NoError(t, err)
	require.Len(t, got, 4)

	var ids []types.ItemID
	var scores []float64
	for _, r := range got {
		ids = append(ids, r.ID)
		scores = append(scores, r.Score)
	}
	assert.Equal(t, []types.ItemID{"B", "A", "C", "D"}, ids)
	assert.InDeltaSlice(t, []float64{0.4, 0.2, -0.2, -0.4}, scores, 1e-12)
	assert.Equal(t, 1, got[0].Position)
	assert.Equal(t, 1, got[0].Index)
}

func TestScoreMissingChoices(t *testing.T) {
	got, err := Score([]types.Observation{
		types.NewObservation([]int{1, 0, 0}, []string{"x", "y", "z"}),
		types.NewObservation([]int{0, 0, 0}, []string{"x", "y", "z"}),
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, types.ItemID("x"), got[0].ID)
	assert.Equal(t, 0.5, got[0].Score)
	assert.Equal(t, types.ItemID("y"), got[1].ID, "ties ordered by ID")
	assert.Zero(t, got[2].Score)
}

func TestScoreInvalid(t *testing.T) {
	_, err := Score([]types.Observation{
		types.NewObservation([]int{1, 2}, []string{"a", "b"}),
		types.NewObservation([]int{1}, []string{"a", "b"}),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidInput)
	assert.Contains(t, err.Error(), "observation 1")
}

func TestScoreEmpty(t *testing.T) {
	got, err := Score(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
