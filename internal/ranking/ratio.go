// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ranking

import "github.com/pdiddy/bwsample/internal/sparse"

// ratioEstimator scores each item by the share of its comparisons it won.
type ratioEstimator struct{}

func (ratioEstimator) estimate(m *sparse.DOK, opts Options, _ *Info) []float64 {
	return averageRows(ratios(m).ToCSR(), opts.Avg)
}

// ratios returns c_ij/(c_ij+c_ji) for every nonzero off-diagonal c_ij.
func ratios(m *sparse.DOK) *sparse.DOK {
	n, _ := m.Dims()
	r := sparse.NewDOK(n)
	m.DoNonZero(func(i, j int, v float64) {
		if i == j {
			return
		}
		r.Set(i, j, v/(v+m.At(j, i)))
	})
	return r
}

// averageRows sums each row and normalises it by avg. Rows without
// entries score 0.
func averageRows(c *sparse.CSR, avg Avg) []float64 {
	n, _ := c.Dims()
	out := make([]float64, n)
	for i := range out {
		sum := c.RowSum(i)
		switch avg {
		case AvgAll:
			out[i] = sum / float64(n)
		default:
			if k := c.RowNNZ(i); k > 0 {
				out[i] = sum / float64(k)
			}
		}
	}
	return out
}
