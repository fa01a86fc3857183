// Package kmeans implements the clustering engine (component H):
// k-means++ / random-sum / random-probability initializers, Elkan's
// triangle-inequality-accelerated Lloyd iteration with empty-cluster
// repair, and multi-restart selection. Directly ported from the
// reference's Elkan implementation (see original_source/ai/src/
// clustering/k_means.h), generalized from a template parameter over
// point element type to float64 throughout — callers widen integer
// histogram counts into a float64 mat.Dense themselves, which is
// gonum's native element type and covers the "generic accumulator"
// guidance without a hand-rolled numeric-type parameter.
package kmeans

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/adriftdev/holdem-abstractor/pkg/metric"
	"github.com/adriftdev/holdem-abstractor/pkg/trimatrix"
)

// Init identifies which initializer MultipleRestarts should use for
// each trial.
type Init int

const (
	PlusPlus Init = iota
	RandomSum
	RandomProb
)

// Logger receives Elkan's per-iteration progress when verbose logging
// is requested; callers wire this to zerolog at the cmd/ layer.
type Logger interface {
	Iteration(n int, loss, shift float64)
	EmptyClusterRepair(count int)
}

// NopLogger discards every event.
type NopLogger struct{}

func (NopLogger) Iteration(int, float64, float64) {}
func (NopLogger) EmptyClusterRepair(int)          {}

// Clusterer holds the mutable state of one k-means run: target
// cluster count, distance strategy, and (once initialized or fit)
// centroids, assignments, and loss.
type Clusterer struct {
	k       int
	dist    metric.Distance
	workers int

	centroids   *mat.Dense // K x D
	assignments []int
	loss        float64
}

// New returns a Clusterer with no centroids yet; Elkan runs
// InitPlusPlus automatically if it is called without a prior Init.
func New(k int, dist metric.Distance) *Clusterer {
	return &Clusterer{k: k, dist: dist, loss: math.Inf(1)}
}

// WithWorkers overrides the concurrency used by Elkan's per-point
// steps; 0 (the default) means runtime.GOMAXPROCS(0).
func (c *Clusterer) WithWorkers(w int) *Clusterer {
	c.workers = w
	return c
}

// SetCentroids installs an explicit initial centroid matrix (K x D),
// bypassing every initializer. Used by callers supplying their own
// seed points (e.g. tests pinned to literal reference fixtures).
func (c *Clusterer) SetCentroids(centroids *mat.Dense) {
	c.centroids = centroids
}

func (c *Clusterer) Centroids() *mat.Dense    { return c.centroids }
func (c *Clusterer) Assignments() []int       { return c.assignments }
func (c *Clusterer) Loss() float64            { return c.loss }

func (c *Clusterer) numWorkers(n int) int {
	w := c.workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

func rowOf(m *mat.Dense, i int) []float64 {
	_, cols := m.Dims()
	return mat.Row(nil, i, m)[:cols]
}

// InitPlusPlus selects K distinct seed rows from data using the
// standard D^2 sampling rule: the first seed is uniform, every
// subsequent seed is drawn with probability proportional to its
// squared distance from the nearest previously selected seed.
func (c *Clusterer) InitPlusPlus(data *mat.Dense, rng *rand.Rand) {
	n, d := data.Dims()
	sqDists := make([]float64, n)
	for i := range sqDists {
		sqDists[i] = math.Inf(1)
	}
	sqSum := float64(n)

	chosen := make([]int, c.k)
	for ci := 0; ci < c.k; ci++ {
		selection := rng.Float64()
		chosen[ci] = plusPlusIter(data, c.dist, sqDists, &sqSum, selection)
	}

	centroids := mat.NewDense(c.k, d, nil)
	for ci, rowIdx := range chosen {
		centroids.SetRow(ci, rowOf(data, rowIdx))
	}
	c.centroids = centroids
}

// plusPlusIter runs one D^2-sampling draw: it walks data in row
// order accumulating probability mass until selection falls within
// the current row's share, then updates sqDists/sqSum to reflect the
// newly chosen point becoming an additional candidate centroid.
func plusPlusIter(data *mat.Dense, dist metric.Distance, sqDists []float64, sqSum *float64, selection float64) int {
	n, _ := data.Dims()
	newCluster := 0
	cumulative := 0.0
	for x := 0; x < n; x++ {
		if math.IsInf(sqDists[x], 1) {
			cumulative += 1.0 / float64(n)
		} else {
			cumulative += sqDists[x] / *sqSum
		}
		if selection < cumulative {
			newCluster = x
			break
		}
	}

	newRow := rowOf(data, newCluster)
	*sqSum = 0
	for x := 0; x < n; x++ {
		d := dist.Distance(newRow, rowOf(data, x))
		sq := d * d
		if sq < sqDists[x] {
			sqDists[x] = sq
		}
		*sqSum += sqDists[x]
	}
	return newCluster
}

// InitRandomSum produces centroids whose component sum matches the
// sum of data's first row, filled by repeatedly drawing a random
// bucket and a random mass in [0, remaining] until exhausted.
func (c *Clusterer) InitRandomSum(data *mat.Dense, rng *rand.Rand) {
	_, d := data.Dims()
	var rowSum float64
	for j := 0; j < d; j++ {
		rowSum += data.At(0, j)
	}

	centroids := mat.NewDense(c.k, d, nil)
	for ci := 0; ci < c.k; ci++ {
		remaining := rowSum
		for remaining > 0 {
			bucket := rng.IntN(d)
			amount := rng.Float64() * (rowSum + 1)
			if amount > remaining {
				amount = remaining
			}
			centroids.Set(ci, bucket, centroids.At(ci, bucket)+amount)
			remaining -= amount
		}
	}
	c.centroids = centroids
}

// InitRandomProb fills every centroid component with an independent
// uniform [0,1) sample.
func (c *Clusterer) InitRandomProb(data *mat.Dense, rng *rand.Rand) {
	_, d := data.Dims()
	centroids := mat.NewDense(c.k, d, nil)
	for ci := 0; ci < c.k; ci++ {
		for j := 0; j < d; j++ {
			centroids.Set(ci, j, rng.Float64())
		}
	}
	c.centroids = centroids
}

// Elkan runs Elkan's accelerated Lloyd iteration to convergence. If
// no centroids are present, it first runs InitPlusPlus using rng.
func (c *Clusterer) Elkan(ctx context.Context, data *mat.Dense, rng *rand.Rand, logger Logger) error {
	if logger == nil {
		logger = NopLogger{}
	}
	n, d := data.Dims()
	if c.centroids == nil {
		c.InitPlusPlus(data, rng)
	}
	k := c.k

	upper := make([]float64, n)
	loose := make([]bool, n)
	lower := mat.NewDense(n, k, nil)
	assignments := make([]int, n)

	// Initial assignment pass (lemma 1, same structure as steady-state
	// step 2 but against a fresh, fully-loose upper bound).
	clusterDists := trimatrix.New(k)
	recomputeClusterDists(c.centroids, c.dist, clusterDists)
	for x := 0; x < n; x++ {
		xr := rowOf(data, x)
		d0 := c.dist.Distance(xr, rowOf(c.centroids, 0))
		upper[x] = d0
		lower.Set(x, 0, d0)
		best := 0
		for cp := 1; cp < k; cp++ {
			if clusterDists.Get(best, cp)/2 >= upper[x] {
				continue
			}
			dxc := c.dist.Distance(xr, rowOf(c.centroids, cp))
			lower.Set(x, cp, dxc)
			if dxc < upper[x] {
				best = cp
				upper[x] = dxc
			}
		}
		assignments[x] = best
	}

	iteration := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		halfMin := make([]float64, k)
		recomputeClusterDists(c.centroids, c.dist, clusterDists)
		for c1 := 0; c1 < k; c1++ {
			min := math.Inf(1)
			for c2 := 0; c2 < k; c2++ {
				if c1 == c2 {
					continue
				}
				if v := clusterDists.Get(c1, c2) / 2; v < min {
					min = v
				}
			}
			halfMin[c1] = min
		}

		if err := reassignPoints(ctx, c.numWorkers(n), data, c.centroids, c.dist, clusterDists, halfMin, upper, lower, loose, assignments); err != nil {
			return err
		}

		sums := mat.NewDense(k, d, nil)
		counts := make([]int, k)
		for x := 0; x < n; x++ {
			cx := assignments[x]
			addRow(sums, cx, rowOf(data, x))
			counts[cx]++
		}

		var empty []int
		for ci := 0; ci < k; ci++ {
			if counts[ci] == 0 {
				empty = append(empty, ci)
			}
		}
		if len(empty) > 0 {
			logger.EmptyClusterRepair(len(empty))
			repairEmptyClusters(data, empty, upper, assignments, sums, counts, rng)
		}

		for ci := 0; ci < k; ci++ {
			if counts[ci] == 0 {
				return fmt.Errorf("kmeans: cluster %d still empty after repair", ci)
			}
			row := sums.RawRowView(ci)
			for j := range row {
				row[j] /= float64(counts[ci])
			}
		}

		shift := make([]float64, k)
		for ci := 0; ci < k; ci++ {
			shift[ci] = c.dist.Distance(rowOf(c.centroids, ci), sums.RawRowView(ci))
		}

		if err := widenBounds(ctx, c.numWorkers(n), lower, upper, loose, assignments, shift); err != nil {
			return err
		}

		converged := mat.Equal(c.centroids, sums)
		c.centroids = sums
		c.assignments = assignments
		c.loss = computeLoss(data, c.centroids, assignments, c.dist)

		iteration++
		maxShift := 0.0
		for _, s := range shift {
			if s > maxShift {
				maxShift = s
			}
		}
		logger.Iteration(iteration, c.loss, maxShift)

		if converged {
			return nil
		}
	}
}

func recomputeClusterDists(centroids *mat.Dense, dist metric.Distance, out *trimatrix.Matrix) {
	k := out.K()
	for c1 := 0; c1 < k; c1++ {
		for c2 := c1 + 1; c2 < k; c2++ {
			out.Set(c1, c2, dist.Distance(rowOf(centroids, c1), rowOf(centroids, c2)))
		}
	}
}

func addRow(m *mat.Dense, row int, v []float64) {
	r := m.RawRowView(row)
	for j := range v {
		r[j] += v[j]
	}
}

// reassignPoints implements steps 2 and 3(i-iii)/3a/3b of Elkan's
// iteration over disjoint point ranges, one goroutine per range.
func reassignPoints(ctx context.Context, workers int, data, centroids *mat.Dense, dist metric.Distance, clusterDists *trimatrix.Matrix, halfMin []float64, upper []float64, lower *mat.Dense, loose []bool, assignments []int) error {
	n, _ := data.Dims()
	chunk := (n + workers - 1) / workers
	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			for x := lo; x < hi; x++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				reassignOne(x, data, centroids, dist, clusterDists, halfMin, upper, lower, loose, assignments)
			}
			return nil
		})
	}
	return g.Wait()
}

func reassignOne(x int, data, centroids *mat.Dense, dist metric.Distance, clusterDists *trimatrix.Matrix, halfMin []float64, upper []float64, lower *mat.Dense, loose []bool, assignments []int) {
	cx := assignments[x]
	if upper[x] <= halfMin[cx] {
		return
	}
	xr := rowOf(data, x)
	k := clusterDists.K()

	for c := 0; c < k; c++ {
		if c == cx {
			continue
		}
		if upper[x] <= lower.At(x, c) || upper[x] <= clusterDists.Get(cx, c)/2 {
			continue
		}
		if loose[x] {
			dcx := dist.Distance(xr, rowOf(centroids, cx))
			upper[x] = dcx
			lower.Set(x, cx, dcx)
			loose[x] = false
		}
		if upper[x] > lower.At(x, c) || upper[x] > clusterDists.Get(cx, c)/2 {
			dxc := dist.Distance(xr, rowOf(centroids, c))
			lower.Set(x, c, dxc)
			if dxc < upper[x] {
				cx = c
				upper[x] = dxc
			}
		}
	}
	assignments[x] = cx
}

// repairEmptyClusters performs one k-means++-style donor selection per
// empty cluster: a point is drawn with probability proportional to the
// square of its current upper bound on the distance to its centroid,
// then moved from its cluster's running sum into the empty cluster's.
// The bound equals the exact distance only for points whose distance
// reassignPoints recomputed; for points it skipped, the bound can
// exceed the exact distance, and the weight is not recomputed here.
func repairEmptyClusters(data *mat.Dense, empty []int, upper []float64, assignments []int, sums *mat.Dense, counts []int, rng *rand.Rand) {
	n, _ := data.Dims()
	sq := make([]float64, n)
	var total float64
	for x := 0; x < n; x++ {
		sq[x] = upper[x] * upper[x]
		total += sq[x]
	}

	for _, emptyCluster := range empty {
		donor := 0
		if total <= 0 {
			donor = rng.IntN(n)
		} else {
			selection := rng.Float64() * total
			cumulative := 0.0
			for x := 0; x < n; x++ {
				cumulative += sq[x]
				if selection < cumulative {
					donor = x
					break
				}
			}
		}

		oldCluster := assignments[donor]
		row := rowOf(data, donor)

		oldSum := sums.RawRowView(oldCluster)
		newSum := sums.RawRowView(emptyCluster)
		for j := range row {
			oldSum[j] -= row[j]
			newSum[j] += row[j]
		}
		counts[oldCluster]--
		counts[emptyCluster]++
		assignments[donor] = emptyCluster

		total -= sq[donor]
		sq[donor] = 0
	}
}

func widenBounds(ctx context.Context, workers int, lower *mat.Dense, upper []float64, loose []bool, assignments []int, shift []float64) error {
	n, k := lower.Dims()
	chunk := (n + workers - 1) / workers
	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			for x := lo; x < hi; x++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				for c := 0; c < k; c++ {
					widened := lower.At(x, c) - shift[c]
					if widened < 0 {
						widened = 0
					}
					lower.Set(x, c, widened)
				}
				upper[x] += shift[assignments[x]]
				loose[x] = true
			}
			return nil
		})
	}
	return g.Wait()
}

func computeLoss(data, centroids *mat.Dense, assignments []int, dist metric.Distance) float64 {
	n, _ := data.Dims()
	var sum float64
	for x := 0; x < n; x++ {
		d := dist.Distance(rowOf(data, x), rowOf(centroids, assignments[x]))
		sum += d * d
	}
	return sum / float64(n)
}

// MultipleRestarts runs restarts independent clusterings, each with a
// fresh sub-seed derived from a single top-level seed via a
// reproducible seed-stream RNG, and keeps the lowest-loss result.
func MultipleRestarts(ctx context.Context, data *mat.Dense, k int, dist metric.Distance, restarts int, initializer Init, seed uint64, verbose bool, logger Logger) (*Clusterer, error) {
	if logger == nil {
		logger = NopLogger{}
	}
	stream := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))

	var best *Clusterer
	bestLoss := math.Inf(1)

	for t := 0; t < restarts; t++ {
		trial := New(k, dist)
		trialRNG := rand.New(rand.NewPCG(stream.Uint64(), stream.Uint64()))

		switch initializer {
		case PlusPlus:
			trial.InitPlusPlus(data, trialRNG)
		case RandomSum:
			trial.InitRandomSum(data, trialRNG)
		case RandomProb:
			trial.InitRandomProb(data, trialRNG)
		}

		elkanRNG := rand.New(rand.NewPCG(stream.Uint64(), stream.Uint64()))
		if err := trial.Elkan(ctx, data, elkanRNG, logger); err != nil {
			return nil, fmt.Errorf("kmeans: restart %d: %w", t, err)
		}

		if trial.loss < bestLoss {
			bestLoss = trial.loss
			best = trial
		}
	}
	return best, nil
}
