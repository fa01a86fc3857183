// Command hand-strengths builds the showdown table and the
// preflop/flop/turn/river feature-matrix LUTs the clustering stage
// consumes.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/cheggaaa/pb/v3"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/adriftdev/holdem-abstractor/pkg/indexer"
	"github.com/adriftdev/holdem-abstractor/pkg/lut"
	"github.com/adriftdev/holdem-abstractor/pkg/persist"
	"github.com/adriftdev/holdem-abstractor/pkg/showdown"
)

var cli struct {
	Verbose bool `short:"v" help:"Show progress bars and per-stage logging."`

	Showdown    ShowdownCmd    `cmd:"" help:"Build the river showdown table."`
	Preflop     PreflopCmd     `cmd:"" help:"Build the preflop histogram LUT."`
	Flop        FlopCmd        `cmd:"" help:"Build the flop histogram LUT."`
	Turn        TurnCmd        `cmd:"" help:"Build the turn histogram LUT."`
	River       RiverCmd       `cmd:"" help:"Build the river OCHS LUT."`
	OCHSPreflop OCHSPreflopCmd `cmd:"ochs_preflop" help:"Build the preflop OCHS LUT."`
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
		kong.Name("hand-strengths"),
		kong.Description("Showdown table and round LUT builder."),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// ShowdownCmd builds the full river showdown table.
type ShowdownCmd struct {
	Output string `arg:"" help:"Output path for the showdown table." default:"showdown.bin"`
}

func (c *ShowdownCmd) Run() error {
	log := newLogger(cli.Verbose)
	ix := indexer.New()

	log.Info().Msg("populating river canonical index space")
	ix.Populate(indexer.River)
	n := ix.Count(indexer.River)
	log.Info().Int("rows", n).Msg("river index space populated")

	bar := newBar(n)
	if bar != nil {
		defer bar.Finish()
	}

	rows, err := showdown.Build(context.Background(), ix, showdown.Options{
		Progress: func(uint64) { incr(bar) },
	})
	if err != nil {
		return fmt.Errorf("hand-strengths showdown: %w", err)
	}

	if err := persist.WriteMatrix(c.Output, showdown.ToMatrix(rows)); err != nil {
		return fmt.Errorf("hand-strengths showdown: %w", err)
	}
	log.Info().Str("path", c.Output).Int("rows", len(rows)).Msg("showdown table written")
	return nil
}

func newBar(total int) *pb.ProgressBar {
	if !cli.Verbose {
		return nil
	}
	return pb.StartNew(total)
}

func incr(bar *pb.ProgressBar) {
	if bar != nil {
		bar.Increment()
	}
}

func loadShowdownTable(path string) ([]showdown.Row, error) {
	m, err := persist.ReadMatrix(path)
	if err != nil {
		return nil, err
	}
	return showdown.FromMatrix(m)
}

// histogramCmd is embedded by the three histogram-round subcommands
// (Preflop, Flop, Turn); only the bound round differs.
type histogramCmd struct {
	ShowdownPath string `arg:"" help:"Path to the showdown table produced by 'showdown'."`
	Output       string `arg:"" help:"Output path for this round's histogram LUT."`
	Buckets      int    `help:"Histogram bucket count." default:"50"`
}

func (c *histogramCmd) run(round indexer.Round) error {
	log := newLogger(cli.Verbose)

	table, err := loadShowdownTable(c.ShowdownPath)
	if err != nil {
		return fmt.Errorf("hand-strengths %s: %w", round, err)
	}

	ix := indexer.New()
	ix.Populate(round)
	ix.Populate(indexer.River)

	n := ix.Count(round)
	bar := newBar(n)
	if bar != nil {
		defer bar.Finish()
	}

	m, err := lut.BuildHistogram(context.Background(), ix, round, table, c.Buckets, lut.Options{
		Progress: func(uint64) { incr(bar) },
	})
	if err != nil {
		return fmt.Errorf("hand-strengths %s: %w", round, err)
	}

	if err := persist.WriteMatrix(c.Output, m); err != nil {
		return fmt.Errorf("hand-strengths %s: %w", round, err)
	}
	log.Info().Str("path", c.Output).Msg("histogram LUT written")
	return nil
}

// PreflopCmd builds the preflop histogram LUT.
type PreflopCmd struct{ histogramCmd }

func (c *PreflopCmd) Run() error { return c.run(indexer.Preflop) }

// FlopCmd builds the flop histogram LUT.
type FlopCmd struct{ histogramCmd }

func (c *FlopCmd) Run() error { return c.run(indexer.Flop) }

// TurnCmd builds the turn histogram LUT.
type TurnCmd struct{ histogramCmd }

func (c *TurnCmd) Run() error { return c.run(indexer.Turn) }

// RiverCmd builds the river OCHS LUT directly from the showdown
// table; unlike the histogram rounds it needs no completion walk.
type RiverCmd struct {
	ShowdownPath string `arg:"" help:"Path to the showdown table produced by 'showdown'."`
	Output       string `arg:"" help:"Output path for the river OCHS LUT."`
}

func (c *RiverCmd) Run() error {
	log := newLogger(cli.Verbose)

	table, err := loadShowdownTable(c.ShowdownPath)
	if err != nil {
		return fmt.Errorf("hand-strengths river: %w", err)
	}

	m, err := lut.BuildOCHSRiver(table)
	if err != nil {
		return fmt.Errorf("hand-strengths river: %w", err)
	}

	if err := persist.WriteMatrix(c.Output, m); err != nil {
		return fmt.Errorf("hand-strengths river: %w", err)
	}
	log.Info().Str("path", c.Output).Msg("river OCHS LUT written")
	return nil
}

// OCHSPreflopCmd builds the preflop OCHS LUT.
type OCHSPreflopCmd struct {
	ShowdownPath string `arg:"" help:"Path to the showdown table produced by 'showdown'."`
	Output       string `arg:"" help:"Output path for the preflop OCHS LUT."`
}

func (c *OCHSPreflopCmd) Run() error {
	log := newLogger(cli.Verbose)

	table, err := loadShowdownTable(c.ShowdownPath)
	if err != nil {
		return fmt.Errorf("hand-strengths ochs_preflop: %w", err)
	}

	ix := indexer.New()
	ix.Populate(indexer.Preflop)
	ix.Populate(indexer.River)

	n := ix.Count(indexer.Preflop)
	bar := newBar(n)
	if bar != nil {
		defer bar.Finish()
	}

	var m *mat.Dense
	m, err = lut.BuildOCHSPreflop(context.Background(), ix, table, lut.Options{
		Progress: func(uint64) { incr(bar) },
	})
	if err != nil {
		return fmt.Errorf("hand-strengths ochs_preflop: %w", err)
	}

	if err := persist.WriteMatrix(c.Output, m); err != nil {
		return fmt.Errorf("hand-strengths ochs_preflop: %w", err)
	}
	log.Info().Str("path", c.Output).Msg("preflop OCHS LUT written")
	return nil
}
