// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Category labels the source of a counted pair.
type Category string

// Direct extraction categories.
const (
	DirectBestWorst  Category = "bw" // BEST > WORST
	DirectBestOther  Category = "bn" // BEST > NOT
	DirectOtherWorst Category = "nw" // NOT > WORST
)

// Logical inference categories, named by the states (s1, s2) of the item
// shared by the two observations.
const (
	LogicalNN Category = "nn"
	LogicalNB Category = "nb"
	LogicalNW Category = "nw"
	LogicalBN Category = "bn"
	LogicalBW Category = "bw"
	LogicalWN Category = "wn"
	LogicalWB Category = "wb"
)

// DirectCategories returns the direct extraction categories in fixed order.
func DirectCategories() []Category {
	return []Category{DirectBestWorst, DirectBestOther, DirectOtherWorst}
}

// LogicalCategories returns the logical inference categories in fixed order.
func LogicalCategories() []Category {
	return []Category{LogicalNN, LogicalNB, LogicalNW, LogicalBN, LogicalBW, LogicalWN, LogicalWB}
}

// Detail breaks an aggregate down by category.
type Detail map[Category]PairCounts

// Tally is an accumulator of directed pair counts together with their
// per-category breakdown. The caller owns a Tally across calls; nothing in
// this module keeps hidden state between invocations.
type Tally struct {
	Counts PairCounts `json:"counts" yaml:"counts"`
	Detail Detail     `json:"detail" yaml:"detail"`
}

// NewTally returns an empty tally with a bucket for each category.
func NewTally(categories ...Category) *Tally {
	t := &Tally{Counts: PairCounts{}, Detail: Detail{}}
	for _, c := range categories {
		t.Detail[c] = PairCounts{}
	}
	return t
}

// NewDirectTally returns an empty tally with the direct categories.
func NewDirectTally() *Tally { return NewTally(DirectCategories()...) }

// NewLogicalTally returns an empty tally with the logical categories.
func NewLogicalTally() *Tally { return NewTally(LogicalCategories()...) }

// Ensure fills in nil maps and missing buckets so that a decoded or
// partially built tally can be accumulated into.
func (t *Tally) Ensure(categories ...Category) *Tally {
	if t.Counts == nil {
		t.Counts = PairCounts{}
	}
	if t.Detail == nil {
		t.Detail = Detail{}
	}
	for _, c := range categories {
		if t.Detail[c] == nil {
			t.Detail[c] = PairCounts{}
		}
	}
	return t
}

// Record counts p once in the aggregate and once in the bucket of c.
func (t *Tally) Record(c Category, p Pair) {
	t.Counts.Inc(p)
	bucket := t.Detail[c]
	if bucket == nil {
		bucket = PairCounts{}
		t.Detail[c] = bucket
	}
	bucket.Inc(p)
}

// Merge adds o into t.
func (t *Tally) Merge(o *Tally) {
	if o == nil {
		return
	}
	t.Ensure()
	t.Counts.MergeFrom(o.Counts)
	for c, counts := range o.Detail {
		bucket := t.Detail[c]
		if bucket == nil {
			bucket = PairCounts{}
			t.Detail[c] = bucket
		}
		bucket.MergeFrom(counts)
	}
}

// Clone returns an independent copy of t.
func (t *Tally) Clone() *Tally {
	out := &Tally{Counts: t.Counts.Clone(), Detail: make(Detail, len(t.Detail))}
	for c, counts := range t.Detail {
		out.Detail[c] = counts.Clone()
	}
	return out
}
