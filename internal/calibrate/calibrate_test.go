package calibrate

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bwsample/pkg/types"
)

func argsort(x []float64) []int {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })
	return idx
}

func TestAdjustPreservesOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	random := make([]float64, 1000)
	for i := range random {
		random[i] = rng.Float64()
	}
	outliers := make([]float64, 0, 102)
	for i := 1; i <= 100; i++ {
		outliers = append(outliers, float64(i))
	}
	outliers = append(outliers, 2e6, 1e6)

	inputs := map[string][]float64{
		"random":   random,
		"outliers": outliers,
		"fixture":  {0.1, 0.3, 0.5, 0.7},
		"reverse":  {0.7, 0.5, 0.3, 0.1},
	}

	for _, m := range Methods() {
		for name, x := range inputs {
			t.Run(string(m)+"/"+name, func(t *testing.T) {
				got, err := Adjust(x, nil, m)
				require.NoError(t, err)
				require.Len(t, got, len(x))
				assert.Equal(t, argsort(x), argsort(got))
			})
		}
	}
}

func TestAdjustWithExplicitLabels(t *testing.T) {
	x := []float64{0.1, 0.3, 0.5, 0.7}
	labels := []bool{false, false, false, true}
	for _, m := range []Method{Platt, Isotonic} {
		got, err := Adjust(x, labels, m)
		require.NoError(t, err)
		assert.Equal(t, argsort(x), argsort(got), "method %s", m)
	}
}

func TestAdjustTiesStayEqual(t *testing.T) {
	x := []float64{0.2, 0.5, 0.2, 0.9}
	for _, m := range Methods() {
		got, err := Adjust(x, nil, m)
		require.NoError(t, err)
		assert.Equal(t, got[0], got[2], "method %s", m)
	}
}

func TestMinMax(t *testing.T) {
	got, err := Adjust([]float64{2, 4, 6}, nil, MinMax)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.5, 1}, got, 1e-12)

	got, err = Adjust([]float64{3, 3}, nil, MinMax)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, got)
}

func TestQuantile(t *testing.T) {
	got, err := Adjust([]float64{0.1, 0.3, 0.5, 0.7}, nil, Quantile)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 1.0 / 3, 2.0 / 3, 1}, got, 1e-12)
}

func TestSig3IQRCentredOnMedian(t *testing.T) {
	got, err := Adjust([]float64{1, 2, 3, 4, 5}, nil, Sig3IQR)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got[2], 1e-12)

	got, err = Adjust([]float64{7, 7, 7}, nil, Sig3IQR)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, got)
}

func TestSig3IQRSeparatesOutliers(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 2e6, 1e6, -3e6}
	got, err := Adjust(x, nil, Sig3IQR)
	require.NoError(t, err)
	assert.Greater(t, got[5], got[6])
	assert.Greater(t, got[6], got[4])
	assert.Less(t, got[7], got[0])
	for _, v := range got {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestPlattSymmetricFit(t *testing.T) {
	z := []float64{-1.5, -1, -0.5, -0.25, 0.25, 0.5, 1, 1.5}
	target := make([]float64, len(z))
	for i, v := range z {
		if v > 0 {
			target[i] = 5.0 / 6
		} else {
			target[i] = 1.0 / 6
		}
	}
	a, b := fitSigmoid(z, target)
	assert.Greater(t, a, 0.0)
	assert.InDelta(t, 0, b, 1e-6)

	got, err := Adjust([]float64{1, 2, 3, 4, 6, 7, 8, 9}, nil, Platt)
	require.NoError(t, err)
	assert.Less(t, got[0], 0.5)
	assert.Greater(t, got[7], 0.5)
	assert.InDelta(t, 1, got[0]+got[7], 1e-6)
}

func TestAdjustEmpty(t *testing.T) {
	for _, m := range Methods() {
		got, err := Adjust(nil, nil, m)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestAdjustLengthMismatch(t *testing.T) {
	_, err := Adjust([]float64{1, 2}, []bool{true}, Platt)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidInput))
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		name    string
		want    Method
		wantErr bool
	}{
		{"", MinMax, false},
		{"minmax", MinMax, false},
		{"isotonic", Isotonic, false},
		{"logistic", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMethod(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrUnsupportedMethod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Adjust([]float64{1}, nil, Method("bogus"))
	assert.ErrorIs(t, err, types.ErrUnsupportedMethod)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, []bool{false, false, true, true}, Labels([]float64{0.1, 0.3, 0.5, 0.7}))
}
