// Package metric provides the two distance strategies the k-means
// engine can be parameterized with (component G): earth-mover's
// distance for equal-total-mass histograms, and Euclidean distance
// for the river OCHS feature matrix. Both are pure functions over two
// equal-length vectors; callers guarantee compatible lengths.
package metric

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Distance is a pairwise distance strategy over equal-length float64
// vectors.
type Distance interface {
	// Distance returns d(p,q). p and q must have the same length.
	Distance(p, q []float64) float64
}

// EMD is the one-dimensional, equal-total-mass earth-mover's
// distance: the prefix-sum recurrence δ0=0, δi = δ(i-1) + p[i-1] -
// q[i-1], summed as Σ|δi|. Correct only when Σp == Σq, which holds
// for every histogram-LUT row by construction.
type EMD struct{}

func (EMD) Distance(p, q []float64) float64 {
	var delta, total float64
	for i := range p {
		delta += p[i] - q[i]
		total += math.Abs(delta)
	}
	return total
}

// Euclidean is sqrt(Σ (p[i]-q[i])^2), accumulated in float64
// regardless of the caller's original element type. Delegates to
// gonum's L-norm reduction with L=2.
type Euclidean struct{}

func (Euclidean) Distance(p, q []float64) float64 {
	return floats.Distance(p, q, 2)
}
