// Command knighttour reads a knight's-figure-tour input file and reports the
// shortest move sequence the distributed branch-and-bound engine finds that
// visits every marked target, within the file's declared upper bound.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/gitrdm/knighttour/internal/boardio"
	"github.com/gitrdm/knighttour/pkg/engine"
)

// The CLI takes a single positional argument (the input file path) plus
// three scalar flags (-workers, -min-pool, -v); that surface is not worth a
// library like cobra or pflag, so stdlib flag parses it and produces the
// usage message on misuse.
func main() {
	workers := flag.Int("workers", 0, "number of search workers (0 = runtime.NumCPU())")
	minPool := flag.Int("min-pool", 0, "minimum frontier pool size before dispatch begins (0 = default)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <input-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	fileName := flag.Arg(0)

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if err := run(fileName, *workers, *minPool, log); err != nil {
		log.Error().Err(err).Msg("knighttour failed")
		os.Exit(1)
	}
}

func run(fileName string, workers, minPool int, log zerolog.Logger) error {
	f, err := os.Open(fileName)
	if err != nil {
		return errors.Wrap(err, "opening input file")
	}
	defer f.Close()

	board, err := boardio.Parse(f)
	if err != nil {
		return errors.Wrap(err, "parsing input file")
	}
	log.Debug().
		Int("size", board.Size).
		Int("upper_bound", board.UpperBound).
		Str("start", board.Start.String()).
		Int("targets", board.Targets.Len()).
		Msg("board parsed")

	originalTargets := board.Targets.Clone()

	cfg := engine.DefaultConfig()
	if workers > 0 {
		cfg.NumWorkers = workers
	}
	if minPool > 0 {
		cfg.MinPoolSize = minPool
	}
	coordinator := engine.NewCoordinator(cfg, log)

	start := time.Now()
	witness, err := coordinator.Solve(context.Background(), board.Size, board.Start, board.Targets, board.UpperBound)
	elapsed := time.Since(start)
	if err != nil {
		return errors.Wrap(err, "solving")
	}

	fmt.Println(boardio.FormatResult(fileName, elapsed.Seconds(), witness, originalTargets))
	return nil
}
