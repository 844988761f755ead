// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ranking

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/pdiddy/bwsample/internal/sparse"
)

const (
	powerMaxIter = 1000
	powerTol     = 1e-12
)

// eigenEstimator scores items by the dominant eigenvector of a pairwise
// comparison matrix in the Saaty sense: the counts with a unit diagonal
// plus the transposed reciprocals of the nonzero counts.
type eigenEstimator struct{}

func (eigenEstimator) estimate(m *sparse.DOK, _ Options, info *Info) []float64 {
	a := comparisonMatrix(m)
	v, ok := dominantEigenvector(a)
	if !ok {
		info.note("eigen decomposition failed, used power iteration")
		v = powerIteration(a)
	}
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			info.note("eigenvector is not finite, metric set to 0")
			return make([]float64, len(v))
		}
	}
	if sum := floats.Sum(v); sum > 0 {
		floats.Scale(1/sum, v)
	}
	return v
}

func comparisonMatrix(m *sparse.DOK) *mat.Dense {
	n, _ := m.Dims()
	c := m.ToDense()
	for i := 0; i < n; i++ {
		c.Set(i, i, 1)
	}
	a := mat.NewDense(n, n, nil)
	a.Apply(func(i, j int, v float64) float64 {
		r := c.At(j, i)
		if r != 0 {
			return c.At(i, j) + 1/r
		}
		return c.At(i, j)
	}, a)
	return a
}

// dominantEigenvector returns |Re v| for the eigenvector of the eigenvalue
// with the largest real part.
func dominantEigenvector(a *mat.Dense) ([]float64, bool) {
	var eig mat.Eigen
	if !eig.Factorize(a, mat.EigenRight) {
		return nil, false
	}
	values := eig.Values(nil)
	k := 0
	for i, v := range values {
		if real(v) > real(values[k]) {
			k = i
		}
	}
	var vecs mat.CDense
	eig.VectorsTo(&vecs)

	n, _ := a.Dims()
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Abs(real(vecs.At(i, k)))
	}
	if cmplx.IsNaN(values[k]) {
		return nil, false
	}
	return out, true
}

func powerIteration(a *mat.Dense) []float64 {
	n, _ := a.Dims()
	x := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x.SetVec(i, 1/float64(n))
	}
	y := mat.NewVecDense(n, nil)
	for iter := 0; iter < powerMaxIter; iter++ {
		y.MulVec(a, x)
		sum := mat.Sum(y)
		if sum == 0 {
			break
		}
		y.ScaleVec(1/sum, y)
		diff := 0.0
		for i := 0; i < n; i++ {
			diff = math.Max(diff, math.Abs(y.AtVec(i)-x.AtVec(i)))
		}
		x, y = y, x
		if diff < powerTol {
			break
		}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Abs(x.AtVec(i))
	}
	return out
}
