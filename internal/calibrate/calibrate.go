// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package calibrate rescales raw ranking metrics into comparable scores.
// Every transform preserves the order of its input: distinct metrics map
// to distinct scores in the same order, equal metrics to equal scores.
package calibrate

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pdiddy/bwsample/pkg/types"
)

// Method selects a calibration transform.
type Method string

const (
	MinMax   Method = "minmax"
	Quantile Method = "quantile"
	Sig3IQR  Method = "sig3iqr"
	Platt    Method = "platt"
	Isotonic Method = "isotonic"
)

// Methods lists the supported transforms.
func Methods() []Method {
	return []Method{MinMax, Quantile, Sig3IQR, Platt, Isotonic}
}

// ParseMethod resolves a calibration name. The empty name selects MinMax.
func ParseMethod(name string) (Method, error) {
	if name == "" {
		return MinMax, nil
	}
	for _, m := range Methods() {
		if string(m) == name {
			return m, nil
		}
	}
	supported := make([]string, 0, len(Methods()))
	for _, m := range Methods() {
		supported = append(supported, string(m))
	}
	return "", &types.UnsupportedMethodError{Kind: "calibration", Name: name, Supported: supported}
}

// Supervised reports whether m fits against binary labels.
func (m Method) Supervised() bool {
	return m == Platt || m == Isotonic
}

// Labels derives binary labels from a metric: true where the metric is at
// or above its median.
func Labels(metric []float64) []bool {
	labels := make([]bool, len(metric))
	if len(metric) == 0 {
		return labels
	}
	med := quantile(sortedCopy(metric), 0.5)
	for i, x := range metric {
		labels[i] = x >= med
	}
	return labels
}

// Adjust applies m to metric and returns scores in the same order. labels
// are used by the supervised methods; nil derives them with Labels.
func Adjust(metric []float64, labels []bool, m Method) ([]float64, error) {
	if labels != nil && len(labels) != len(metric) {
		return nil, &types.InvalidInputError{
			Reason: fmt.Sprintf("labels and metric must have the same length (%d != %d)", len(labels), len(metric)),
		}
	}
	if len(metric) == 0 {
		return []float64{}, nil
	}
	if m.Supervised() && labels == nil {
		labels = Labels(metric)
	}

	switch m {
	case MinMax:
		return minmax(metric), nil
	case Quantile:
		return quantileTransform(metric), nil
	case Sig3IQR:
		return sig3iqr(metric), nil
	case Platt:
		return platt(metric, labels), nil
	case Isotonic:
		return isotonic(metric, labels), nil
	}
	_, err := ParseMethod(string(m))
	return nil, err
}

func sortedCopy(x []float64) []float64 {
	s := make([]float64, len(x))
	copy(s, x)
	sort.Float64s(s)
	return s
}

// quantile returns the p-quantile of sorted data, interpolating linearly
// between the order statistics at (n-1)·p.
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

func logistic(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// minmax maps the metric onto [0, 1]. A constant metric maps to zeros.
func minmax(x []float64) []float64 {
	out := make([]float64, len(x))
	lo, hi := floats.Min(x), floats.Max(x)
	if hi == lo {
		return out
	}
	for i, v := range x {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

// quantileTransform maps each value to its empirical CDF position,
// rank/(n-1), with ties sharing their average rank.
func quantileTransform(x []float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	if n == 1 {
		out[0] = 0.5
		return out
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return x[order[a]] < x[order[b]] })

	for lo := 0; lo < n; {
		hi := lo
		for hi+1 < n && x[order[hi+1]] == x[order[lo]] {
			hi++
		}
		rank := float64(lo+hi) / 2
		for k := lo; k <= hi; k++ {
			out[order[k]] = rank / float64(n-1)
		}
		lo = hi + 1
	}
	return out
}

// sigWeight is the share of a median-centred linear rescaling blended into
// the sig3iqr logistic. Outliers saturate the logistic to 1 or 0; the
// linear part keeps them apart and leaves the median at 0.5.
const sigWeight = 0.01

// sig3iqr squashes the metric with a logistic centred on the median, scaled
// so that the Tukey fences (1.5 IQR from the median) land at ±3.
func sig3iqr(x []float64) []float64 {
	out := make([]float64, len(x))
	s := sortedCopy(x)
	med := quantile(s, 0.5)
	scale := 1.5 * (quantile(s, 0.75) - quantile(s, 0.25))
	if scale == 0 && len(x) > 1 {
		scale = stat.StdDev(x, nil)
	}
	if scale == 0 || math.IsNaN(scale) {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	dev := math.Max(med-s[0], s[len(s)-1]-med)
	for i, v := range x {
		out[i] = (1-sigWeight)*logistic(3*(v-med)/scale) + sigWeight*(0.5+(v-med)/(2*dev))
	}
	return out
}
