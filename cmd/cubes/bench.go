package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cubes/internal/bbs"
	"github.com/vovakirdan/cubes/internal/cubes"
)

var (
	flagIterations int
	flagSamples    int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the piece generator",
	Long: `Time the Blum Blum Shub generator against math/rand and print a few
sample piece indices drawn from it.

--seed pins the generator state; otherwise it is seeded from entropy.

Examples:
  cubes bench
  cubes bench --iterations 10000000 --seed 42`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntVar(&flagIterations, "iterations", 1_000_000, "Number of draws per generator")
	benchCmd.Flags().IntVar(&flagSamples, "samples", 10, "Number of sample piece indices to print")
}

func runBench(_ *cobra.Command, _ []string) error {
	if flagIterations <= 0 {
		return fmt.Errorf("--iterations must be positive, got %d", flagIterations)
	}

	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	reseeds := 0
	gen := bbs.New(cfg.Seed, bbs.WithReseedHook(func(s uint32) {
		reseeds++
		logger.Debug("generator reseeded", "state", s)
	}))
	seed := gen.Begin()

	var sink float64
	start := time.Now()
	for i := 0; i < flagIterations; i++ {
		sink += gen.Float64()
	}
	bbsTime := time.Since(start)

	start = time.Now()
	for i := 0; i < flagIterations; i++ {
		sink += rand.Float64() //#nosec G404 -- comparison baseline only
	}
	randTime := time.Since(start)
	logger.Debug("bench finished", "sink", sink)

	fmt.Printf("Seed:          %d\n", seed)
	fmt.Printf("Iterations:    %d\n", flagIterations)
	fmt.Printf("BBS time:      %s (%s/draw, %d reseeds)\n",
		bbsTime, perDraw(bbsTime, flagIterations), reseeds)
	fmt.Printf("math/rand time: %s (%s/draw)\n", randTime, perDraw(randTime, flagIterations))
	fmt.Println()

	for i := 0; i < flagSamples; i++ {
		idx := int(gen.Float64() * float64(cubes.KindCount))
		fmt.Printf("Generated block index: %d (%s)\n", idx, cubes.Kind(idx))
	}
	return nil
}

func perDraw(d time.Duration, n int) time.Duration {
	return d / time.Duration(n)
}
