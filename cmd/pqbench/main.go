// Command pqbench drives one of the three priority queue implementations
// under a synthetic multi-producer/multi-consumer workload and reports
// aggregate operation latencies. It never reaches into a queue's internals:
// it only calls the public Insert/RemoveMin operations each package
// exports.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "./pqbench.toml", "path to a pqbench TOML config file")
	verbose := flag.Bool("verbose", false, "enable debug-level logging")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02T15:04:05.000Z07:00"}).
		With().Timestamp().Logger()

	if err := run(*configPath, *verbose, logger); err != nil {
		logger.Error().Err(err).Msg("pqbench failed")
		os.Exit(1)
	}
}

func run(configPath string, verbose bool, logger zerolog.Logger) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("pqbench: log_level %q: %w", cfg.LogLevel, err)
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	logger = logger.Level(level)

	trace, closeTrace, err := openTraceSink(cfg.TraceOutput)
	if err != nil {
		return err
	}
	defer closeTrace()

	logger.Info().
		Str("queue", cfg.Queue).
		Int("insert_threads", cfg.InsertThreads).
		Int("remove_threads", cfg.RemoveThreads).
		Msg("starting run")

	d := newDriver(cfg)
	insertTotalUs, removeTotalUs, err := runWorkload(cfg, d, trace)
	if err != nil {
		return fmt.Errorf("pqbench: workload: %w", err)
	}

	logger.Info().
		Int64("insert_total_us", insertTotalUs).
		Int64("remove_total_us", removeTotalUs).
		Msg("average execution time (insert)")
	fmt.Printf("Average execution time (insert): %d us total across %d ops\n",
		insertTotalUs, cfg.InsertThreads*cfg.InsertsPer)
	fmt.Printf("Average execution time (removeMin): %d us total across %d ops\n",
		removeTotalUs, cfg.RemoveThreads*cfg.RemovesPer)

	return nil
}

// openTraceSink returns the per-operation trace logger and a cleanup func.
// "-" routes traces to stderr; any other value is opened as a truncated
// output file.
func openTraceSink(path string) (zerolog.Logger, func(), error) {
	if path == "-" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger(), func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("pqbench: opening trace_output %s: %w", path, err)
	}
	return zerolog.New(f).With().Timestamp().Logger(), func() { f.Close() }, nil
}
