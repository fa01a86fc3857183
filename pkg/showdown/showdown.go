// Package showdown builds the river showdown table (component D):
// for every canonical river situation, the hero's expected hand
// strength against a uniformly drawn opposing hand, plus that
// equity's breakdown across the opponent's preflop cluster. The outer
// loop over river canonical indices is grounded on the teacher's
// river-equity loop in pkg/equity, generalized from "equity vs a
// supplied range" to "equity vs every remaining two-card hand,
// partitioned by opponent cluster" and parallelized with an errgroup.
package showdown

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/adriftdev/holdem-abstractor/pkg/cards"
	"github.com/adriftdev/holdem-abstractor/pkg/combin"
	"github.com/adriftdev/holdem-abstractor/pkg/eval"
	"github.com/adriftdev/holdem-abstractor/pkg/indexer"
	"github.com/adriftdev/holdem-abstractor/pkg/oppcluster"
)

// Row is one canonical river index's showdown record.
type Row struct {
	EHS        float64
	OCHSWins   [oppcluster.NumClusters]float64
	OCHSTotals [oppcluster.NumClusters]float64
}

// numOpposingHands is the number of two-card opposing hands enumerable
// once hero's 2 hole cards and the 5 board cards are fixed:
// C(52-7,2) = C(45,2) = 990.
const numOpposingHands = 990

// ProgressFunc is called after each completed row, with the row's
// canonical index. Builders that don't need progress reporting pass
// nil.
type ProgressFunc func(r uint64)

// Options controls the table builder's concurrency and observability.
type Options struct {
	// Workers bounds the number of concurrent goroutines; 0 means
	// runtime.GOMAXPROCS(0).
	Workers int
	Progress ProgressFunc
}

// Build computes the showdown table for every canonical river index
// known to ix (ix must already have its River id space fully
// populated, typically by having driven ix.Index/IndexRound across
// every (hole,board) combination during an earlier enumeration pass).
func Build(ctx context.Context, ix *indexer.Indexer, opts Options) ([]Row, error) {
	n := ix.Count(indexer.River)
	rows := make([]Row, n)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

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
			return buildRange(gctx, ix, rows, lo, hi, opts.Progress)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// buildRange fills rows[lo:hi] using a scratch enumerator private to
// this worker, so no synchronization is needed across workers.
func buildRange(ctx context.Context, ix *indexer.Indexer, rows []Row, lo, hi int, progress ProgressFunc) error {
	enum := combin.New(2, nil)
	for r := lo; r < hi; r++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		row, err := buildOne(ix, enum, uint64(r))
		if err != nil {
			return fmt.Errorf("showdown: river index %d: %w", r, err)
		}
		rows[r] = row
		if progress != nil {
			progress(uint64(r))
		}
	}
	return nil
}

func buildOne(ix *indexer.Indexer, enum *combin.Enumerator, r uint64) (Row, error) {
	hole, board := ix.Unindex(indexer.River, r)
	if len(hole) != 2 || len(board) != 5 {
		return Row{}, fmt.Errorf("malformed river representative: %d hole, %d board", len(hole), len(board))
	}

	heroSK := cards.ToSKSlice(append(append([]cards.Card(nil), hole...), board...))
	heroInts := skToInts(heroSK)
	heroRank := eval.Rank(heroInts)

	exclude := make([]int, 0, 7)
	for _, c := range hole {
		exclude = append(exclude, c.ISOIndex())
	}
	for _, c := range board {
		exclude = append(exclude, c.ISOIndex())
	}
	enum.Reset(exclude)

	var row Row
	enumerated := 0
	for !enum.Done() {
		pair := enum.Current()
		o1 := cards.CardFromISOIndex(pair[0])
		o2 := cards.CardFromISOIndex(pair[1])

		villainSK := cards.ToSKSlice([]cards.Card{o1, o2, board[0], board[1], board[2], board[3], board[4]})
		villainRank := eval.Rank(skToInts(villainSK))

		var contribution float64
		switch {
		case heroRank > villainRank:
			contribution = 1.0
		case heroRank == villainRank:
			contribution = 0.5
		}

		cluster := oppcluster.Cluster(o1, o2)
		row.EHS += contribution
		row.OCHSWins[cluster] += contribution
		row.OCHSTotals[cluster]++
		enumerated++

		enum.Advance()
	}

	if enumerated != numOpposingHands {
		return Row{}, fmt.Errorf("expected %d opposing hands, enumerated %d", numOpposingHands, enumerated)
	}
	row.EHS /= numOpposingHands
	return row, nil
}

func skToInts(sk []cards.SKCard) []int {
	out := make([]int, len(sk))
	for i, c := range sk {
		out[i] = int(c)
	}
	return out
}

// rowWidth is the flat column count of a persisted Row: EHS, then
// OCHSWins, then OCHSTotals, each oppcluster.NumClusters wide.
const rowWidth = 1 + 2*oppcluster.NumClusters

// ToMatrix flattens a showdown table into a dense matrix for
// persistence via pkg/persist: row i holds
// [EHS, wins[0..N), totals[0..N)].
func ToMatrix(rows []Row) *mat.Dense {
	m := mat.NewDense(len(rows), rowWidth, nil)
	for i, r := range rows {
		m.Set(i, 0, r.EHS)
		for k := 0; k < oppcluster.NumClusters; k++ {
			m.Set(i, 1+k, r.OCHSWins[k])
			m.Set(i, 1+oppcluster.NumClusters+k, r.OCHSTotals[k])
		}
	}
	return m
}

// FromMatrix reconstructs a showdown table from a matrix produced by
// ToMatrix.
func FromMatrix(m *mat.Dense) ([]Row, error) {
	n, cols := m.Dims()
	if cols != rowWidth {
		return nil, fmt.Errorf("showdown: matrix has %d columns, want %d", cols, rowWidth)
	}
	rows := make([]Row, n)
	for i := range rows {
		rows[i].EHS = m.At(i, 0)
		for k := 0; k < oppcluster.NumClusters; k++ {
			rows[i].OCHSWins[k] = m.At(i, 1+k)
			rows[i].OCHSTotals[k] = m.At(i, 1+oppcluster.NumClusters+k)
		}
	}
	return rows, nil
}
