// Package rounds implements the round driver (component J): load a
// round's feature matrix, cluster it with the round-appropriate
// distance metric, and persist the resulting assignment vector.
package rounds

import (
	"context"
	"fmt"

	"github.com/adriftdev/holdem-abstractor/pkg/indexer"
	"github.com/adriftdev/holdem-abstractor/pkg/kmeans"
	"github.com/adriftdev/holdem-abstractor/pkg/metric"
	"github.com/adriftdev/holdem-abstractor/pkg/persist"
)

// Options configures one round's clustering run.
type Options struct {
	Restarts int
	Seed     uint64
	Verbose  bool
	Logger   kmeans.Logger
}

// distanceFor returns the round-appropriate metric: EMD for the
// histogram-based flop/turn LUTs, Euclidean for the river OCHS LUT.
func distanceFor(round indexer.Round) (metric.Distance, error) {
	switch round {
	case indexer.Flop, indexer.Turn:
		return metric.EMD{}, nil
	case indexer.River:
		return metric.Euclidean{}, nil
	default:
		return nil, fmt.Errorf("rounds: %s is not a clustered round", round)
	}
}

// Run loads the feature matrix at lutPath, clusters it into k
// clusters, and writes the resulting assignment vector to
// assignmentsPath.
func Run(ctx context.Context, round indexer.Round, lutPath string, k int, opts Options, assignmentsPath string) error {
	dist, err := distanceFor(round)
	if err != nil {
		return err
	}

	data, err := persist.ReadMatrix(lutPath)
	if err != nil {
		return fmt.Errorf("rounds: %s: %w", round, err)
	}

	restarts := opts.Restarts
	if restarts <= 0 {
		restarts = 10
	}

	best, err := kmeans.MultipleRestarts(ctx, data, k, dist, restarts, kmeans.PlusPlus, opts.Seed, opts.Verbose, opts.Logger)
	if err != nil {
		return fmt.Errorf("rounds: %s: %w", round, err)
	}

	if err := persist.WriteInts(assignmentsPath, best.Assignments()); err != nil {
		return fmt.Errorf("rounds: %s: %w", round, err)
	}
	return nil
}
