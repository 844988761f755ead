// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sparse converts directed pair counts into an indexed square
// comparison matrix. Construction uses a dictionary of keys (DOK); the
// estimators read a compressed-row (CSR) view or a gonum dense view.
package sparse

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/pdiddy/bwsample/pkg/types"
)

// Key is a (row, col) coordinate.
type Key struct {
	Row, Col int
}

// DOK is a square sparse matrix in dictionary-of-keys form. Only nonzero
// cells are stored.
type DOK struct {
	n    int
	data map[Key]float64
}

// NewDOK returns an empty n×n matrix.
func NewDOK(n int) *DOK {
	return &DOK{n: n, data: make(map[Key]float64)}
}

// FromPairs builds the comparison matrix of p. The returned IDs are the
// sorted union of all winners and losers; cell (i, j) holds the count of
// ids[i] > ids[j].
func FromPairs(p types.PairCounts) (*DOK, []types.ItemID) {
	ids := p.IDs()
	index := make(map[types.ItemID]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	m := NewDOK(len(ids))
	for k, v := range p {
		if v == 0 {
			continue
		}
		m.Set(index[k.Winner], index[k.Loser], float64(v))
	}
	return m, ids
}

// Dims returns the matrix size.
func (m *DOK) Dims() (r, c int) { return m.n, m.n }

// At returns the value at (i, j).
func (m *DOK) At(i, j int) float64 {
	return m.data[Key{i, j}]
}

// Set stores v at (i, j). Setting zero removes the cell.
func (m *DOK) Set(i, j int, v float64) {
	if i < 0 || j < 0 || i >= m.n || j >= m.n {
		panic(mat.ErrIndexOutOfRange)
	}
	if v == 0 {
		delete(m.data, Key{i, j})
		return
	}
	m.data[Key{i, j}] = v
}

// Inc adds v to the value at (i, j).
func (m *DOK) Inc(i, j int, v float64) {
	m.Set(i, j, m.At(i, j)+v)
}

// NNZ returns the number of stored cells.
func (m *DOK) NNZ() int { return len(m.data) }

// DoNonZero calls fn for each stored cell in row-major order.
func (m *DOK) DoNonZero(fn func(i, j int, v float64)) {
	for _, k := range m.keys() {
		fn(k.Row, k.Col, m.data[k])
	}
}

func (m *DOK) keys() []Key {
	keys := make([]Key, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].Row != keys[b].Row {
			return keys[a].Row < keys[b].Row
		}
		return keys[a].Col < keys[b].Col
	})
	return keys
}

// RowSums returns the sum of each row.
func (m *DOK) RowSums() []float64 {
	sums := make([]float64, m.n)
	for k, v := range m.data {
		sums[k.Row] += v
	}
	return sums
}

// T returns the transpose as a new matrix.
func (m *DOK) T() *DOK {
	out := NewDOK(m.n)
	for k, v := range m.data {
		out.data[Key{k.Col, k.Row}] = v
	}
	return out
}

// ToDense returns a gonum dense copy.
func (m *DOK) ToDense() *mat.Dense {
	if m.n == 0 {
		return &mat.Dense{}
	}
	d := mat.NewDense(m.n, m.n, nil)
	for k, v := range m.data {
		d.Set(k.Row, k.Col, v)
	}
	return d
}

// ToCSR returns the compressed-row form.
func (m *DOK) ToCSR() *CSR {
	keys := m.keys()
	c := &CSR{
		n:      m.n,
		indptr: make([]int, m.n+1),
		ind:    make([]int, len(keys)),
		data:   make([]float64, len(keys)),
	}
	for i, k := range keys {
		c.indptr[k.Row+1]++
		c.ind[i] = k.Col
		c.data[i] = m.data[k]
	}
	for i := 0; i < m.n; i++ {
		c.indptr[i+1] += c.indptr[i]
	}
	return c
}

// CSR is a square sparse matrix in compressed sparse row form. Column
// indices within a row are ascending.
type CSR struct {
	n      int
	indptr []int
	ind    []int
	data   []float64
}

// Dims returns the matrix size.
func (c *CSR) Dims() (r, cols int) { return c.n, c.n }

// At returns the value at (i, j).
func (c *CSR) At(i, j int) float64 {
	lo, hi := c.indptr[i], c.indptr[i+1]
	k := sort.SearchInts(c.ind[lo:hi], j) + lo
	if k < hi && c.ind[k] == j {
		return c.data[k]
	}
	return 0
}

// RowNNZ returns the number of stored cells in row i.
func (c *CSR) RowNNZ(i int) int {
	return c.indptr[i+1] - c.indptr[i]
}

// RowSum returns the sum of row i.
func (c *CSR) RowSum(i int) float64 {
	var s float64
	for k := c.indptr[i]; k < c.indptr[i+1]; k++ {
		s += c.data[k]
	}
	return s
}

// DoRowNonZero calls fn for each stored cell of row i.
func (c *CSR) DoRowNonZero(i int, fn func(j int, v float64)) {
	for k := c.indptr[i]; k < c.indptr[i+1]; k++ {
		fn(c.ind[k], c.data[k])
	}
}

// MulVec returns c·x.
func (c *CSR) MulVec(x []float64) []float64 {
	if len(x) != c.n {
		panic(mat.ErrShape)
	}
	y := make([]float64, c.n)
	for i := 0; i < c.n; i++ {
		var s float64
		for k := c.indptr[i]; k < c.indptr[i+1]; k++ {
			s += c.data[k] * x[c.ind[k]]
		}
		y[i] = s
	}
	return y
}
