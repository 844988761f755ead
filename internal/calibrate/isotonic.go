// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package calibrate

import "sort"

// isoWeight is the share of the min-max metric blended into the isotonic
// fit. The fit alone is a step function; the blend separates items that
// land on the same step.
const isoWeight = 0.01

type block struct {
	sum, weight float64
	first, last int // range in sorted order
}

// isotonic fits a non-decreasing step function of the metric to the labels
// with the pool-adjacent-violators algorithm, then blends in the min-max
// metric so distinct inputs stay distinct.
func isotonic(x []float64, labels []bool) []float64 {
	n := len(x)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return x[order[a]] < x[order[b]] })

	// Equal inputs start in one block so they get one fitted value.
	var blocks []block
	for k, idx := range order {
		y := 0.0
		if labels[idx] {
			y = 1
		}
		if len(blocks) > 0 && x[order[blocks[len(blocks)-1].last]] == x[idx] {
			top := &blocks[len(blocks)-1]
			top.sum += y
			top.weight++
			top.last = k
			continue
		}
		blocks = append(blocks, block{sum: y, weight: 1, first: k, last: k})
	}

	stack := make([]block, 0, len(blocks))
	for _, bl := range blocks {
		stack = append(stack, bl)
		for len(stack) > 1 {
			top, prev := stack[len(stack)-1], stack[len(stack)-2]
			if prev.sum/prev.weight <= top.sum/top.weight {
				break
			}
			stack = stack[:len(stack)-2]
			stack = append(stack, block{
				sum:    prev.sum + top.sum,
				weight: prev.weight + top.weight,
				first:  prev.first,
				last:   top.last,
			})
		}
	}

	fit := make([]float64, n)
	for _, bl := range stack {
		v := bl.sum / bl.weight
		for k := bl.first; k <= bl.last; k++ {
			fit[order[k]] = v
		}
	}

	mm := minmax(x)
	out := make([]float64, n)
	for i := range out {
		out[i] = (1-isoWeight)*fit[i] + isoWeight*mm[i]
	}
	return out
}
