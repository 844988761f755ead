// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ranking

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/pdiddy/bwsample/internal/sparse"
)

// transEstimator simulates a Markov chain that moves from an item to the
// items preferred over it. The generator has rate c_ji/Σ_k c_ki for i→j,
// its exponential is the transition matrix, and the metric is the state
// distribution after Rounds steps from uniform.
type transEstimator struct{}

func (transEstimator) estimate(m *sparse.DOK, opts Options, info *Info) []float64 {
	n, _ := m.Dims()
	gen := generator(m)

	var trans mat.Dense
	trans.Exp(gen)

	x := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x.SetVec(i, 1/float64(n))
	}
	y := mat.NewVecDense(n, nil)
	for r := 0; r < opts.Rounds; r++ {
		y.MulVec(trans.T(), x)
		x, y = y, x
	}
	info.Iterations = opts.Rounds

	out := make([]float64, n)
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out
}

// generator builds the row-normalised transposed count matrix with -1 on
// the diagonal. Rows of items that never lost stay zero.
func generator(m *sparse.DOK) *mat.Dense {
	n, _ := m.Dims()
	g := mat.NewDense(n, n, nil)
	m.T().DoNonZero(func(i, j int, v float64) {
		if i != j {
			g.Set(i, j, v)
		}
	})
	for i := 0; i < n; i++ {
		row := g.RawRowView(i)
		sum := floats.Sum(row)
		if sum == 0 {
			continue
		}
		for j := range row {
			row[j] /= sum
		}
		row[i] = -1
	}
	return g
}
