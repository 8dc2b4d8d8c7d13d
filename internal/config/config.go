// Package config loads the simulator's run configuration from a YAML file,
// using the same gopkg.in/yaml.v3 library the teacher's sibling projects in
// this repo pull in for config loading. Command-line parsing itself is an
// external collaborator (see cmd/fillsim); this package owns only the
// decoded shape and its defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ModeName is the run mode as written in config/CLI, mapped onto sim.Mode
// by the caller (internal/config does not import internal/sim, to keep the
// dependency graph leaf-ward).
type ModeName string

const (
	ModeTopsFills ModeName = "tops_fills"
	ModeQueue     ModeName = "queue"
)

// Config is the engine's full run configuration.
type Config struct {
	MDLatencyNS   uint64   `yaml:"md_latency_ns"`
	ExchLatencyNS uint64   `yaml:"exch_latency_ns"`
	Mode          ModeName `yaml:"mode"`

	TopsFile   string `yaml:"tops_file"`
	FillsFile  string `yaml:"fills_file"`
	EventsFile string `yaml:"events_file"`
	OutputFile string `yaml:"output_file"`

	Strategy string                 `yaml:"strategy"`
	Params   map[string]interface{} `yaml:"strategy_params"`
}

// Default returns a Config populated with the spec's documented defaults.
func Default() Config {
	return Config{
		MDLatencyNS:   1000,
		ExchLatencyNS: 10000,
		Mode:          ModeTopsFills,
		Strategy:      "basic",
	}
}

// Load reads and decodes a YAML config file, filling in any field the file
// omits with its default.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the recognized options for internal consistency.
func (c Config) Validate() error {
	if c.Mode != ModeTopsFills && c.Mode != ModeQueue {
		return fmt.Errorf("unrecognized mode %q", c.Mode)
	}
	if c.Mode == ModeTopsFills && (c.TopsFile == "" || c.FillsFile == "") {
		return fmt.Errorf("tops_fills mode requires tops_file and fills_file")
	}
	if c.Mode == ModeQueue && c.EventsFile == "" {
		return fmt.Errorf("queue mode requires events_file")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output_file is required")
	}
	return nil
}
