// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package calibrate

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

const (
	plattMaxIter = 100
	plattGradTol = 1e-10
	plattMinA    = 1e-6
	plattMaxA    = 8
	plattMaxB    = 8
)

// platt fits a logistic curve σ(a·z + b) of the standardised metric z
// against labels, using Platt's smoothed targets. The slope is kept
// positive so the output follows the input order.
func platt(x []float64, labels []bool) []float64 {
	n := len(x)
	out := make([]float64, n)
	mu, sd := stat.MeanStdDev(x, nil)
	if n < 2 || sd == 0 || math.IsNaN(sd) {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	z := make([]float64, n)
	for i, v := range x {
		z[i] = (v - mu) / sd
	}

	var pos, neg float64
	for _, l := range labels {
		if l {
			pos++
		} else {
			neg++
		}
	}
	a, b := 1.0, 0.0
	if pos > 0 && neg > 0 {
		hi, lo := (pos+1)/(pos+2), 1/(neg+2)
		target := make([]float64, n)
		for i, l := range labels {
			if l {
				target[i] = hi
			} else {
				target[i] = lo
			}
		}
		a, b = fitSigmoid(z, target)
	}
	a = math.Min(math.Max(a, plattMinA), plattMaxA)
	b = math.Min(math.Max(b, -plattMaxB), plattMaxB)

	for i := range z {
		out[i] = logistic(a*z[i] + b)
	}
	return out
}

// fitSigmoid minimises the cross entropy of σ(a·z + b) against target with
// gonum's Newton method. A failed fit falls back to the identity slope.
func fitSigmoid(z, target []float64) (a, b float64) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return crossEntropy(z, target, x[0], x[1])
		},
		Grad: func(grad, x []float64) {
			grad[0], grad[1] = 0, 0
			for i := range z {
				d := logistic(x[0]*z[i]+x[1]) - target[i]
				grad[0] += d * z[i]
				grad[1] += d
			}
		},
		Hess: func(hess *mat.SymDense, x []float64) {
			var haa, hab, hbb float64
			for i := range z {
				p := logistic(x[0]*z[i] + x[1])
				w := math.Max(p*(1-p), 1e-12)
				haa += w * z[i] * z[i]
				hab += w * z[i]
				hbb += w
			}
			hess.SetSym(0, 0, haa)
			hess.SetSym(0, 1, hab)
			hess.SetSym(1, 1, hbb)
		},
	}
	settings := &optimize.Settings{
		MajorIterations:   plattMaxIter,
		GradientThreshold: plattGradTol,
	}

	res, err := optimize.Minimize(problem, []float64{1, 0}, settings, &optimize.Newton{})
	if res == nil || (err != nil && res.Status == optimize.Failure) {
		return 1, 0
	}
	a, b = res.X[0], res.X[1]
	if math.IsNaN(a) || math.IsNaN(b) {
		return 1, 0
	}
	return a, b
}

func crossEntropy(z, target []float64, a, b float64) float64 {
	var f float64
	for i := range z {
		t := a*z[i] + b
		// log(1 + e^t) computed without overflow
		var softplus float64
		if t > 0 {
			softplus = t + math.Log1p(math.Exp(-t))
		} else {
			softplus = math.Log1p(math.Exp(t))
		}
		f += softplus - target[i]*t
	}
	return f
}
