package ranking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bwsample/internal/calibrate"
	"github.com/pdiddy/bwsample/internal/counting"
	"github.com/pdiddy/bwsample/pkg/types"
)

func fixtureCounts(t *testing.T) types.PairCounts {
	t.Helper()
	abcd := []string{"A", "B", "C", "D"}
	batch := []types.Observation{
		types.NewObservation([]int{1, 0, 0, 2}, abcd),
		types.NewObservation([]int{1, 0, 0, 2}, abcd),
		types.NewObservation([]int{2, 0, 0, 1}, abcd),
		types.NewObservation([]int{0, 1, 2, 0}, abcd),
		types.NewObservation([]int{0, 1, 0, 2}, abcd),
	}
	res, err := counting.Count(batch, counting.CountOptions{Logical: true})
	require.NoError(t, err)
	return res.Aggregate
}

// triangle is a three-item tournament with A > B > C by wins.
func triangle() types.PairCounts {
	return types.PairCounts{
		{Winner: "A", Loser: "B"}: 2, {Winner: "B", Loser: "A"}: 1,
		{Winner: "B", Loser: "C"}: 2, {Winner: "C", Loser: "B"}: 1,
		{Winner: "A", Loser: "C"}: 2, {Winner: "C", Loser: "A"}: 1,
	}
}

func TestRankEveryMethod(t *testing.T) {
	counts := fixtureCounts(t)
	for _, m := range Methods() {
		for _, avg := range []Avg{AvgAll, AvgExist} {
			for _, cal := range calibrate.Methods() {
				name := string(m) + "/" + string(avg) + "/" + string(cal)
				t.Run(name, func(t *testing.T) {
					res, err := Rank(counts, Options{Method: m, Avg: avg, Calibration: cal})
					require.NoError(t, err)
					require.Len(t, res.Positions, 4)
					require.Len(t, res.IDs, 4)
					require.Len(t, res.Metrics, 4)
					require.Len(t, res.Scores, 4)

					unique := map[types.ItemID]bool{}
					for _, id := range res.IDs {
						unique[id] = true
					}
					assert.Len(t, unique, 4)
					assert.ElementsMatch(t, []int{0, 1, 2, 3}, res.Positions)

					for k := range res.Metrics {
						assert.False(t, math.IsNaN(res.Metrics[k]) || math.IsInf(res.Metrics[k], 0))
						assert.False(t, math.IsNaN(res.Scores[k]))
						if k > 0 {
							assert.GreaterOrEqual(t, res.Metrics[k-1], res.Metrics[k])
							assert.GreaterOrEqual(t, res.Scores[k-1], res.Scores[k])
						}
					}
					assert.Equal(t, m, res.Info.Method)
				})
			}
		}
	}
}

func TestRankTriangleOrder(t *testing.T) {
	for _, m := range Methods() {
		t.Run(string(m), func(t *testing.T) {
			res, err := Rank(triangle(), Options{Method: m})
			require.NoError(t, err)
			assert.Equal(t, []types.ItemID{"A", "B", "C"}, res.IDs)
		})
	}
}

func TestRatioAveraging(t *testing.T) {
	counts := types.PairCounts{
		{Winner: "A", Loser: "B"}: 3,
		{Winner: "B", Loser: "A"}: 1,
		{Winner: "B", Loser: "C"}: 2,
	}

	res, err := Rank(counts, Options{Method: Ratio, Avg: AvgExist})
	require.NoError(t, err)
	assert.Equal(t, []types.ItemID{"A", "B", "C"}, res.IDs)
	assert.InDeltaSlice(t, []float64{0.75, 0.625, 0}, res.Metrics, 1e-12)

	res, err = Rank(counts, Options{Method: Ratio, Avg: AvgAll})
	require.NoError(t, err)
	assert.Equal(t, []types.ItemID{"B", "A", "C"}, res.IDs)
	assert.InDeltaSlice(t, []float64{1.25 / 3, 0.25, 0}, res.Metrics, 1e-12)
	assert.Equal(t, AvgAll, res.Info.Avg)
}

func TestPValueSignificance(t *testing.T) {
	counts := types.PairCounts{{Winner: "A", Loser: "B"}: 4}

	exact, err := Rank(counts, Options{Method: PValue})
	require.NoError(t, err)
	// chi-square statistic 4 with one degree of freedom
	assert.Equal(t, []types.ItemID{"A", "B"}, exact.IDs)
	assert.InDelta(t, 1-0.0455, exact.Metrics[0], 1e-3)
	assert.Zero(t, exact.Metrics[1])

	approx, err := Rank(counts, Options{Method: Hoaglin})
	require.NoError(t, err)
	assert.Equal(t, exact.IDs, approx.IDs)
	assert.InDelta(t, exact.Metrics[0], approx.Metrics[0], 0.05)
}

func TestPValueSkipsEvenSplits(t *testing.T) {
	counts := types.PairCounts{{Winner: "A", Loser: "B"}: 2, {Winner: "B", Loser: "A"}: 2}
	res, err := Rank(counts, Options{Method: PValue})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, res.Metrics)
	assert.Equal(t, []types.ItemID{"A", "B"}, res.IDs, "ties keep index order")
}

func TestHoaglinMonotone(t *testing.T) {
	prev := hoaglinPValue(0)
	assert.LessOrEqual(t, prev, 1.0)
	for x := 0.5; x < 30; x += 0.5 {
		p := hoaglinPValue(x)
		assert.Less(t, p, prev)
		prev = p
	}
}

func TestBTLConverges(t *testing.T) {
	for _, noPrefit := range []bool{false, true} {
		res, err := Rank(triangle(), Options{Method: BTL, NoPrefit: noPrefit})
		require.NoError(t, err)
		assert.True(t, res.Info.Converged)
		assert.Positive(t, res.Info.Iterations)

		var sum float64
		for _, v := range res.Metrics {
			sum += v
		}
		assert.InDelta(t, 1, sum, 1e-9)
	}
}

func TestBTLIterationCap(t *testing.T) {
	res, err := Rank(triangle(), Options{Method: BTL, MaxIter: 1, Tol: 1e-300})
	require.NoError(t, err)
	assert.False(t, res.Info.Converged)
	assert.Equal(t, 1, res.Info.Iterations)
	assert.NotEmpty(t, res.Info.Notes)
}

func TestTransIsDistribution(t *testing.T) {
	res, err := Rank(fixtureCounts(t), Options{Method: Trans, Rounds: 5})
	require.NoError(t, err)
	var sum float64
	for _, v := range res.Metrics {
		assert.Greater(t, v, -1e-12)
		sum += v
	}
	assert.InDelta(t, 1, sum, 1e-9)
	assert.Equal(t, 5, res.Info.Iterations)
}

func TestRankEmpty(t *testing.T) {
	res, err := Rank(types.PairCounts{}, Options{})
	require.NoError(t, err)
	assert.Empty(t, res.IDs)
	assert.Equal(t, PValue, res.Info.Method)
}

func TestRankUnsupportedNames(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"method", Options{Method: "elo"}},
		{"avg", Options{Avg: "median"}},
		{"calibration", Options{Calibration: "logit"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Rank(triangle(), tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrUnsupportedMethod)
		})
	}
}

func TestParseMethodAliases(t *testing.T) {
	tests := map[string]Method{
		"approx":     Hoaglin,
		"transition": Trans,
		"ratio":      Ratio,
		"":           PValue,
	}
	for name, want := range tests {
		got, err := ParseMethod(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestResultRanking(t *testing.T) {
	res, err := Rank(triangle(), Options{Method: Ratio})
	require.NoError(t, err)
	r := res.Ranking()
	require.Len(t, r, 3)
	assert.Equal(t, 1, r[0].Position)
	assert.Equal(t, types.ItemID("A"), r[0].ID)
	assert.Equal(t, res.Scores[2], r[2].Score)
}
