// Command clustering reads a round's feature-matrix LUT and writes
// its k-means cluster assignment vector.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/adriftdev/holdem-abstractor/pkg/config"
	"github.com/adriftdev/holdem-abstractor/pkg/indexer"
	"github.com/adriftdev/holdem-abstractor/pkg/kmeans"
	"github.com/adriftdev/holdem-abstractor/pkg/rounds"
)

var cli struct {
	ConfigPath string `help:"Path to a pipeline config YAML file." type:"path"`
	Seed       uint64 `help:"Top-level seed for the restart stream." default:"1"`
	Verbose    bool   `short:"v" help:"Log per-iteration Elkan progress."`

	Flop  flopCmd  `cmd:"" help:"Cluster the flop histogram LUT."`
	Turn  turnCmd  `cmd:"" help:"Cluster the turn histogram LUT."`
	River riverCmd `cmd:"" help:"Cluster the river OCHS LUT."`
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if !verbose {
		level = zerolog.WarnLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("clustering"),
		kong.Description("K-means clustering over a round's feature LUT."),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// zerologKMeansLogger adapts zerolog.Logger to kmeans.Logger.
type zerologKMeansLogger struct {
	log zerolog.Logger
}

func (z zerologKMeansLogger) Iteration(n int, loss, shift float64) {
	z.log.Info().Int("iteration", n).Float64("loss", loss).Float64("max_shift", shift).Msg("elkan iteration")
}

func (z zerologKMeansLogger) EmptyClusterRepair(count int) {
	z.log.Warn().Int("count", count).Msg("empty cluster repair")
}

// RoundCmd clusters one round's LUT into its configured cluster count.
type RoundCmd struct {
	LUTPath         string `arg:"" help:"Path to the round's feature-matrix LUT."`
	AssignmentsPath string `arg:"" help:"Output path for the cluster assignment vector."`
	Clusters        int    `help:"Override the configured cluster count (0 = use config)."`
}

func (c *RoundCmd) run(round indexer.Round, roundName string) error {
	log := newLogger(cli.Verbose)

	cfg, err := config.Load(cli.ConfigPath)
	if err != nil {
		return fmt.Errorf("clustering %s: %w", roundName, err)
	}

	k := c.Clusters
	if k <= 0 {
		k = cfg.ClustersFor(roundName)
	}
	if k <= 0 {
		return fmt.Errorf("clustering %s: no cluster count configured", roundName)
	}

	opts := rounds.Options{
		Restarts: cfg.Restarts,
		Seed:     cli.Seed,
		Verbose:  cli.Verbose,
		Logger:   zerologKMeansLogger{log: log},
	}

	log.Info().Str("lut", c.LUTPath).Int("clusters", k).Int("restarts", opts.Restarts).Msg("clustering round")
	if err := rounds.Run(context.Background(), round, c.LUTPath, k, opts, c.AssignmentsPath); err != nil {
		return fmt.Errorf("clustering %s: %w", roundName, err)
	}
	log.Info().Str("path", c.AssignmentsPath).Msg("cluster assignments written")
	return nil
}

// flopCmd / turnCmd / riverCmd bind RoundCmd to a concrete round so
// each kong subcommand dispatches correctly.
type flopCmd struct{ RoundCmd }

func (c *flopCmd) Run() error { return c.run(indexer.Flop, "flop") }

type turnCmd struct{ RoundCmd }

func (c *turnCmd) Run() error { return c.run(indexer.Turn, "turn") }

type riverCmd struct{ RoundCmd }

func (c *riverCmd) Run() error { return c.run(indexer.River, "river") }

var _ kmeans.Logger = zerologKMeansLogger{}
