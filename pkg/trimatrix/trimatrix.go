// Package trimatrix stores a dense symmetric K×K matrix with an
// implicit zero diagonal as a packed upper-triangular array of length
// K(K-1)/2 (component F). Used for the inter-centroid distance matrix
// Elkan's algorithm recomputes every iteration.
package trimatrix

import "fmt"

// Matrix is a packed symmetric matrix; the zero value is not usable,
// call New.
type Matrix struct {
	k    int
	data []float64
}

// New returns a K×K symmetric matrix, every entry initialized to 0.
func New(k int) *Matrix {
	if k < 0 {
		panic("trimatrix: k must be non-negative")
	}
	return &Matrix{k: k, data: make([]float64, k*(k-1)/2)}
}

// K returns the matrix dimension.
func (m *Matrix) K() int {
	return m.k
}

// Get returns the value at (i,j); Get(i,i) is always 0.
func (m *Matrix) Get(i, j int) float64 {
	if i == j {
		return 0
	}
	idx, ok := m.index(i, j)
	if !ok {
		panic(fmt.Sprintf("trimatrix: index (%d,%d) out of range for K=%d", i, j, m.k))
	}
	return m.data[idx]
}

// Set stores v at (i,j) and, symmetrically, at (j,i). Setting the
// diagonal is a no-op (it is always implicitly 0).
func (m *Matrix) Set(i, j int, v float64) {
	if i == j {
		return
	}
	idx, ok := m.index(i, j)
	if !ok {
		panic(fmt.Sprintf("trimatrix: index (%d,%d) out of range for K=%d", i, j, m.k))
	}
	m.data[idx] = v
}

// index reduces (i,j) to its canonical (min,max) pair and returns the
// packed offset into the upper-triangular store.
func (m *Matrix) index(i, j int) (int, bool) {
	if i < 0 || i >= m.k || j < 0 || j >= m.k {
		return 0, false
	}
	if i > j {
		i, j = j, i
	}
	// Row i occupies entries for columns i+1..k-1: offset of row i is
	// i*k - i*(i+1)/2, then add (j-i-1) within the row.
	offset := i*m.k - i*(i+1)/2 + (j - i - 1)
	return offset, true
}

// Row returns the distances from centroid i to every other centroid,
// d(i,i)=0, in O(K).
func (m *Matrix) Row(i int) []float64 {
	out := make([]float64, m.k)
	for j := 0; j < m.k; j++ {
		out[j] = m.Get(i, j)
	}
	return out
}
