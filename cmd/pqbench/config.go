package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// config mirrors the TOML shape documented for pqbench: every field has a
// sensible default, so a caller may supply an empty or partial file.
type config struct {
	Queue          string `toml:"queue"`
	InsertThreads  int    `toml:"insert_threads"`
	RemoveThreads  int    `toml:"remove_threads"`
	InsertsPer     int    `toml:"inserts_per_thread"`
	RemovesPer     int    `toml:"removes_per_thread"`
	MeanInsertUs   int    `toml:"mean_insert_interarrival_us"`
	MeanRemoveUs   int    `toml:"mean_remove_interarrival_us"`
	PriorityRange  int    `toml:"priority_range"`
	FineCapacity   int    `toml:"fine_capacity"`
	LogLevel       string `toml:"log_level"`
	TraceOutput    string `toml:"trace_output"`
}

func defaultConfig() config {
	return config{
		Queue:         "skiplist",
		InsertThreads: 4,
		RemoveThreads: 2,
		InsertsPer:    100,
		RemovesPer:    200,
		MeanInsertUs:  500,
		MeanRemoveUs:  750,
		PriorityRange: 1000,
		FineCapacity:  1024,
		LogLevel:      "info",
		TraceOutput:   "trace.log",
	}
}

// loadConfig decodes path over top of the defaults. Unknown keys are a
// startup error (detected through MetaData.Undecoded), a
// typo'd field in a benchmarking config being a worse failure mode than a
// loud one.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("pqbench: decoding %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("pqbench: %s: unknown field %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c config) validate() error {
	switch c.Queue {
	case "coarse", "fine", "skiplist":
	default:
		return fmt.Errorf("pqbench: %w: %q", errUnknownQueueKind, c.Queue)
	}
	if c.InsertThreads < 0 || c.RemoveThreads < 0 {
		return fmt.Errorf("pqbench: thread counts must be non-negative")
	}
	if c.PriorityRange <= 0 {
		return fmt.Errorf("pqbench: priority_range must be positive")
	}
	if c.Queue == "fine" && c.FineCapacity <= 0 {
		return fmt.Errorf("pqbench: fine_capacity must be positive")
	}
	return nil
}
