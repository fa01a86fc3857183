// Package lut builds the round-scoped feature-matrix lookup tables
// (component E) consumed by clustering: a histogram-of-equity matrix
// for preflop/flop/turn, a direct OCHS matrix for river, and an
// OCHS-accumulated matrix for preflop. Every builder walks canonical
// indices already known to the indexer and completes each one to a
// full river hand via pkg/combin, looking up precomputed showdown
// rows rather than re-evaluating hands — the showdown table (built by
// pkg/showdown over the full river domain) must already cover every
// river id a completion can produce, or the builder returns a data-
// integrity error instead of minting rows past the table's bounds.
package lut

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/adriftdev/holdem-abstractor/pkg/cards"
	"github.com/adriftdev/holdem-abstractor/pkg/combin"
	"github.com/adriftdev/holdem-abstractor/pkg/indexer"
	"github.com/adriftdev/holdem-abstractor/pkg/oppcluster"
	"github.com/adriftdev/holdem-abstractor/pkg/showdown"
)

// ProgressFunc is called after each completed row, with the row's
// canonical index.
type ProgressFunc func(i uint64)

// Options controls concurrency and observability, shared across every
// builder in this package.
type Options struct {
	Workers  int
	Progress ProgressFunc
}

func resolveWorkers(requested, n int) int {
	w := requested
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

// missingBoardCards is 5 minus the number of board cards already fixed
// at round r (the simulation cards needed to complete a full river
// hand). River itself has none, so it is never a histogram round.
func missingBoardCards(r indexer.Round) int {
	return 5 - r.BoardSize()
}

// BuildHistogram computes the N_round x buckets equity-histogram
// matrix for round (Preflop, Flop, or Turn): for each canonical index,
// every completion to a full river hand is binned by the completed
// hand's EHS into one of buckets equal-width buckets.
func BuildHistogram(ctx context.Context, ix *indexer.Indexer, round indexer.Round, table []showdown.Row, buckets int, opts Options) (*mat.Dense, error) {
	if round == indexer.River {
		return nil, fmt.Errorf("lut: BuildHistogram does not apply to the river round")
	}
	n := ix.Count(round)
	out := mat.NewDense(n, buckets, nil)

	workers := resolveWorkers(opts.Workers, n)
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
			missing := missingBoardCards(round)
			enum := combin.New(missing, nil)
			for i := lo; i < hi; i++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				row, err := histogramRow(ix, round, table, enum, uint64(i), buckets)
				if err != nil {
					return fmt.Errorf("lut: histogram round %s index %d: %w", round, i, err)
				}
				out.SetRow(i, row)
				if opts.Progress != nil {
					opts.Progress(uint64(i))
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func histogramRow(ix *indexer.Indexer, round indexer.Round, table []showdown.Row, enum *combin.Enumerator, i uint64, buckets int) ([]float64, error) {
	hole, board := ix.Unindex(round, i)

	exclude := make([]int, 0, 7)
	for _, c := range hole {
		exclude = append(exclude, isoIndex(c))
	}
	for _, c := range board {
		exclude = append(exclude, isoIndex(c))
	}
	enum.Reset(exclude)

	row := make([]float64, buckets)
	for !enum.Done() {
		completion := enum.Current()
		fullBoard := append(append([]cards.Card(nil), board...), indicesToCards(completion)...)

		riverID := ix.IndexRound(indexer.River, hole, fullBoard)
		if riverID >= uint64(len(table)) {
			return nil, fmt.Errorf("river id %d from completion has no showdown row (table has %d rows); the showdown table must be built over the full river domain before the histogram LUT", riverID, len(table))
		}

		ehs := table[riverID].EHS
		bucket := int(ehs * float64(buckets))
		if bucket >= buckets {
			bucket = buckets - 1
		}
		row[bucket]++

		enum.Advance()
	}
	return row, nil
}

// BuildOCHSRiver computes the N_river x O river OCHS matrix directly
// from the showdown table: row i, column k is
// table[i].OCHSWins[k] / table[i].OCHSTotals[k]. A zero total for any
// (i,k) is a data-integrity error, not an imputed value.
func BuildOCHSRiver(table []showdown.Row) (*mat.Dense, error) {
	n := len(table)
	out := mat.NewDense(n, oppcluster.NumClusters, nil)
	for i, row := range table {
		for k := 0; k < oppcluster.NumClusters; k++ {
			if row.OCHSTotals[k] == 0 {
				return nil, fmt.Errorf("lut: river index %d cluster %d has zero ochs_totals; outside the canonical domain", i, k)
			}
			out.Set(i, k, row.OCHSWins[k]/row.OCHSTotals[k])
		}
	}
	return out, nil
}

// BuildOCHSPreflop computes the 169 x O preflop OCHS matrix: for each
// preflop canonical index, accumulate OCHS win/total sums across every
// 5-card completion to a river hand, then divide cluster-wise.
func BuildOCHSPreflop(ctx context.Context, ix *indexer.Indexer, table []showdown.Row, opts Options) (*mat.Dense, error) {
	n := ix.Count(indexer.Preflop)
	out := mat.NewDense(n, oppcluster.NumClusters, nil)

	workers := resolveWorkers(opts.Workers, n)
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
			enum := combin.New(5, nil)
			for i := lo; i < hi; i++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				row, err := ochsPreflopRow(ix, table, enum, uint64(i))
				if err != nil {
					return fmt.Errorf("lut: ochs preflop index %d: %w", i, err)
				}
				out.SetRow(i, row)
				if opts.Progress != nil {
					opts.Progress(uint64(i))
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func ochsPreflopRow(ix *indexer.Indexer, table []showdown.Row, enum *combin.Enumerator, i uint64) ([]float64, error) {
	hole, _ := ix.Unindex(indexer.Preflop, i)

	exclude := []int{isoIndex(hole[0]), isoIndex(hole[1])}
	enum.Reset(exclude)

	var wins, totals [oppcluster.NumClusters]float64
	for !enum.Done() {
		completion := enum.Current()
		board := indicesToCards(completion)

		riverID := ix.IndexRound(indexer.River, hole, board)
		if riverID >= uint64(len(table)) {
			return nil, fmt.Errorf("river id %d from completion has no showdown row (table has %d rows)", riverID, len(table))
		}
		row := table[riverID]
		for k := 0; k < oppcluster.NumClusters; k++ {
			wins[k] += row.OCHSWins[k]
			totals[k] += row.OCHSTotals[k]
		}
		enum.Advance()
	}

	out := make([]float64, oppcluster.NumClusters)
	for k := 0; k < oppcluster.NumClusters; k++ {
		if totals[k] == 0 {
			return nil, fmt.Errorf("cluster %d accumulated zero total across completions", k)
		}
		out[k] = wins[k] / totals[k]
	}
	return out, nil
}

func isoIndex(c cards.Card) int {
	return 4*int(c.Rank) + int(c.Suit)
}

func indicesToCards(idx []int) []cards.Card {
	out := make([]cards.Card, len(idx))
	for i, v := range idx {
		out[i] = cards.NewCard(cards.Rank(v/4), cards.Suit(v%4))
	}
	return out
}
