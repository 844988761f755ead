// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ranking turns aggregated pair counts into a total order of items
// with a raw metric and a calibrated score per item.
package ranking

import (
	"fmt"
	"math"
	"sort"

	"github.com/pdiddy/bwsample/internal/calibrate"
	"github.com/pdiddy/bwsample/internal/sparse"
	"github.com/pdiddy/bwsample/pkg/types"
)

// Method selects the estimator.
type Method string

const (
	Ratio   Method = "ratio"
	PValue  Method = "pvalue"
	Hoaglin Method = "hoaglin"
	BTL     Method = "btl"
	Eigen   Method = "eigen"
	Trans   Method = "trans"
)

var methodAliases = map[string]Method{
	"ratios":     Ratio,
	"approx":     Hoaglin,
	"transition": Trans,
}

// Methods lists the supported estimators.
func Methods() []Method {
	return []Method{Ratio, PValue, Hoaglin, BTL, Eigen, Trans}
}

// ParseMethod resolves an estimator name or alias. The empty name selects
// PValue.
func ParseMethod(name string) (Method, error) {
	if name == "" {
		return PValue, nil
	}
	if m, ok := methodAliases[name]; ok {
		return m, nil
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
	return "", &types.UnsupportedMethodError{Kind: "method", Name: name, Supported: supported}
}

// Avg selects how row sums are normalised by the ratio and pvalue
// estimators.
type Avg string

const (
	// AvgAll divides by the number of items.
	AvgAll Avg = "all"
	// AvgExist divides by the number of items the row was compared with.
	AvgExist Avg = "exist"
)

// ParseAvg resolves an averaging mode. The empty name selects AvgExist.
func ParseAvg(name string) (Avg, error) {
	switch Avg(name) {
	case "":
		return AvgExist, nil
	case AvgAll, AvgExist:
		return Avg(name), nil
	}
	return "", &types.UnsupportedMethodError{Kind: "avg", Name: name, Supported: []string{string(AvgAll), string(AvgExist)}}
}

// Options configures Rank. Zero fields take their defaults.
type Options struct {
	Method      Method
	Avg         Avg
	Calibration calibrate.Method

	// MaxIter and Tol bound the btl iteration.
	MaxIter int
	Tol     float64

	// NoPrefit starts btl from uniform strengths instead of ratio scores.
	NoPrefit bool

	// Rounds is the number of trans simulation steps.
	Rounds int
}

const (
	defaultMaxIter = 1000
	defaultTol     = 1e-8
	defaultRounds  = 3
)

// resolve validates o and fills in defaults.
func (o Options) resolve() (Options, error) {
	m, err := ParseMethod(string(o.Method))
	if err != nil {
		return o, err
	}
	avg, err := ParseAvg(string(o.Avg))
	if err != nil {
		return o, err
	}
	cal, err := calibrate.ParseMethod(string(o.Calibration))
	if err != nil {
		return o, err
	}
	o.Method, o.Avg, o.Calibration = m, avg, cal
	if o.MaxIter <= 0 {
		o.MaxIter = defaultMaxIter
	}
	if o.Tol <= 0 {
		o.Tol = defaultTol
	}
	if o.Rounds <= 0 {
		o.Rounds = defaultRounds
	}
	return o, nil
}

// Info describes how a ranking was computed.
type Info struct {
	Method      Method           `json:"method"`
	Avg         Avg              `json:"avg,omitempty"`
	Calibration calibrate.Method `json:"calibration"`

	// Converged and Iterations are set by iterative estimators.
	Converged  bool `json:"converged"`
	Iterations int  `json:"iterations,omitempty"`

	Notes []string `json:"notes,omitempty"`
}

func (i *Info) note(format string, args ...any) {
	i.Notes = append(i.Notes, fmt.Sprintf(format, args...))
}

// Result is a ranking in descending order of preference. Positions holds
// the item index of each rank within the sorted ID universe; IDs, Metrics
// and Scores are aligned with Positions.
type Result struct {
	Positions []int          `json:"positions"`
	IDs       []types.ItemID `json:"ids"`
	Metrics   []float64      `json:"metrics"`
	Scores    []float64      `json:"scores"`
	Info      Info           `json:"info"`
}

// Ranking returns the result as a list of ranked items.
func (r Result) Ranking() types.Ranking {
	out := make(types.Ranking, len(r.Positions))
	for k := range r.Positions {
		out[k] = types.RankedItem{
			Position: k + 1,
			Index:    r.Positions[k],
			ID:       r.IDs[k],
			Metric:   r.Metrics[k],
			Score:    r.Scores[k],
		}
	}
	return out
}

// estimator computes one raw metric per row of the comparison matrix.
type estimator interface {
	estimate(m *sparse.DOK, opts Options, info *Info) []float64
}

func estimatorFor(m Method) estimator {
	switch m {
	case Ratio:
		return ratioEstimator{}
	case PValue:
		return pvalueEstimator{}
	case Hoaglin:
		return pvalueEstimator{approx: true}
	case BTL:
		return btlEstimator{}
	case Eigen:
		return eigenEstimator{}
	case Trans:
		return transEstimator{}
	}
	return nil
}

// Rank orders the items of p by the selected estimator. Unknown method,
// avg or calibration names fail before any computation.
func Rank(p types.PairCounts, opts Options) (Result, error) {
	opts, err := opts.resolve()
	if err != nil {
		return Result{}, err
	}
	info := Info{Method: opts.Method, Calibration: opts.Calibration}
	if opts.Method == Ratio || opts.Method == PValue || opts.Method == Hoaglin {
		info.Avg = opts.Avg
	}

	m, ids := sparse.FromPairs(p)
	if len(ids) == 0 {
		return Result{Positions: []int{}, IDs: []types.ItemID{}, Metrics: []float64{}, Scores: []float64{}, Info: info}, nil
	}

	metric := estimatorFor(opts.Method).estimate(m, opts, &info)
	for i, v := range metric {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			info.note("non-finite metric for %q replaced by 0", ids[i])
			metric[i] = 0
		}
	}

	scores, err := calibrate.Adjust(metric, nil, opts.Calibration)
	if err != nil {
		return Result{}, fmt.Errorf("calibrating %s metric: %w", opts.Method, err)
	}

	order := make([]int, len(metric))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return metric[order[a]] > metric[order[b]] })

	res := Result{
		Positions: order,
		IDs:       make([]types.ItemID, len(order)),
		Metrics:   make([]float64, len(order)),
		Scores:    make([]float64, len(order)),
		Info:      info,
	}
	for k, i := range order {
		res.IDs[k] = ids[i]
		res.Metrics[k] = metric[i]
		res.Scores[k] = scores[i]
	}
	return res, nil
}
