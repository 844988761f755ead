// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ranking

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pdiddy/bwsample/internal/sparse"
)

// pvalueEstimator credits the winner of every unevenly split pair with the
// significance 1-p of a one-df chi-square test against an even split.
type pvalueEstimator struct {
	approx bool
}

var chiSquare1 = distuv.ChiSquared{K: 1}

func (e pvalueEstimator) estimate(m *sparse.DOK, opts Options, _ *Info) []float64 {
	n, _ := m.Dims()
	p := sparse.NewDOK(n)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			f1, f2 := m.At(i, j), m.At(j, i)
			fe := (f1 + f2) / 2
			if fe <= 0 || f1 == f2 {
				continue
			}
			x := ((f1-fe)*(f1-fe) + (f2-fe)*(f2-fe)) / fe
			sig := 1 - e.pvalue(x)
			if f1 > f2 {
				p.Set(i, j, sig)
			} else {
				p.Set(j, i, sig)
			}
		}
	}
	return averageRows(p.ToCSR(), opts.Avg)
}

func (e pvalueEstimator) pvalue(x float64) float64 {
	if e.approx {
		return hoaglinPValue(x)
	}
	return chiSquare1.Survival(x)
}

// hoaglinPValue approximates the upper tail of a one-df chi-square
// statistic as 10^-(((√x + 0.6) / 2.25)²).
func hoaglinPValue(x float64) float64 {
	z := (math.Sqrt(x) + 0.6) / 2.25
	return math.Min(1, math.Pow(10, -z*z))
}
