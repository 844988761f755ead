// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ranking

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/pdiddy/bwsample/internal/sparse"
)

// btlEstimator fits Bradley-Terry-Luce strengths γ with P(i>j) =
// γi/(γi+γj) by the minorisation-maximisation update
//
//	γi ← wi / Σj nij/(γi+γj)
//
// where wi is the number of wins of i and nij the comparisons of i and j.
type btlEstimator struct{}

func (btlEstimator) estimate(m *sparse.DOK, opts Options, info *Info) []float64 {
	n, _ := m.Dims()

	wins := make([]float64, n)
	// cmp holds n_ij = c_ij + c_ji off the diagonal.
	cmp := sparse.NewDOK(n)
	m.DoNonZero(func(i, j int, v float64) {
		if i == j {
			return
		}
		wins[i] += v
		cmp.Inc(i, j, v)
		cmp.Inc(j, i, v)
	})
	comparisons := cmp.ToCSR()

	gamma := btlStart(m, opts)
	next := make([]float64, n)
	info.Converged = false
	for iter := 1; iter <= opts.MaxIter; iter++ {
		for i := 0; i < n; i++ {
			var denom float64
			comparisons.DoRowNonZero(i, func(j int, nij float64) {
				if s := gamma[i] + gamma[j]; s > 0 {
					denom += nij / s
				}
			})
			if denom > 0 {
				next[i] = wins[i] / denom
			} else {
				next[i] = gamma[i]
			}
		}
		if sum := floats.Sum(next); sum > 0 {
			floats.Scale(1/sum, next)
		}

		delta := 0.0
		for i := range next {
			delta = math.Max(delta, math.Abs(next[i]-gamma[i]))
		}
		gamma, next = next, gamma
		info.Iterations = iter
		if delta < opts.Tol {
			info.Converged = true
			break
		}
	}
	if !info.Converged {
		info.note("btl stopped after %d iterations without converging", info.Iterations)
	}
	return gamma
}

// btlStart returns normalised starting strengths: min-max scaled ratio
// scores when prefitting, uniform otherwise or when the ratio scores are
// all equal.
func btlStart(m *sparse.DOK, opts Options) []float64 {
	n, _ := m.Dims()
	gamma := make([]float64, n)
	if !opts.NoPrefit {
		r := averageRows(ratios(m).ToCSR(), AvgExist)
		lo, hi := floats.Min(r), floats.Max(r)
		if hi > lo {
			for i, v := range r {
				gamma[i] = (v - lo) / (hi - lo)
			}
		}
	}
	sum := floats.Sum(gamma)
	if sum == 0 {
		for i := range gamma {
			gamma[i] = 1 / float64(n)
		}
		return gamma
	}
	floats.Scale(1/sum, gamma)
	return gamma
}
