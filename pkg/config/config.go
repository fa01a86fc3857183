// Package config loads the pipeline's YAML configuration (component
// K): per-round cluster counts, restart count, rollout sample cap,
// output directory, and worker count. A zero-value Config (no file
// present) falls back to the reference defaults so the CLIs run
// out of the box.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// RoundConfig holds the cluster count for one clustered round.
type RoundConfig struct {
	Clusters int `yaml:"clusters"`
}

// Config is the top-level pipeline configuration document.
type Config struct {
	Rounds struct {
		Flop  RoundConfig `yaml:"flop"`
		Turn  RoundConfig `yaml:"turn"`
		River RoundConfig `yaml:"river"`
	} `yaml:"rounds"`

	Restarts   int    `yaml:"restarts"`
	RolloutCap int    `yaml:"rollout_cap"`
	OutputDir  string `yaml:"output_dir"`
	Workers    int    `yaml:"workers"`
}

// Default returns the reference pipeline's defaults: 200 clusters for
// flop/turn/river (preflop is not clustered), 10 restarts, a rollout
// cap of 0 (meaning exhaustive enumeration, no sampling), output
// written to "./abstraction-out", and worker count matched to
// GOMAXPROCS.
func Default() Config {
	var c Config
	c.Rounds.Flop.Clusters = 200
	c.Rounds.Turn.Clusters = 200
	c.Rounds.River.Clusters = 200
	c.Restarts = 10
	c.RolloutCap = 0
	c.OutputDir = "./abstraction-out"
	c.Workers = runtime.GOMAXPROCS(0)
	return c
}

// Load reads and merges a YAML document at path over Default(); a
// missing file is not an error and yields Default() unchanged.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	return c, nil
}

// ClustersFor returns the configured cluster count for a round name
// ("flop", "turn", "river"); any other name (notably "preflop")
// returns 0, meaning "not clustered".
func (c Config) ClustersFor(round string) int {
	switch round {
	case "flop":
		return c.Rounds.Flop.Clusters
	case "turn":
		return c.Rounds.Turn.Clusters
	case "river":
		return c.Rounds.River.Clusters
	default:
		return 0
	}
}
