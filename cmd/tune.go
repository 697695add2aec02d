package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/clbench/internal/bench"
	"github.com/cwbudde/clbench/internal/tune"
)

var (
	tuneFlags  benchFlags
	tuneIters  int
	tunePop    int
	tuneSeed   int64
	maxGroup   int
	exhaustive bool
)

var tuneCmd = &cobra.Command{
	Use:   "tune",
	Short: "Search for the fastest work-group size",
	Long: `Measures the parallel dispatch at power-of-two work-group sizes that divide
the vector size. By default a mayfly optimizer chooses which sizes to try;
--exhaustive measures all of them.`,
	Args: cobra.NoArgs,
	RunE: runTune,
}

func init() {
	tuneFlags.register(tuneCmd)
	tuneCmd.Flags().IntVar(&tuneIters, "iters", tune.DefaultIterations, "Optimizer iterations")
	tuneCmd.Flags().IntVar(&tunePop, "pop", tune.DefaultPopulation, "Optimizer population size (at least 20)")
	tuneCmd.Flags().Int64Var(&tuneSeed, "seed", 42, "Random seed")
	tuneCmd.Flags().IntVar(&maxGroup, "max-group", 0, "Largest work-group size to try (default: device maximum)")
	tuneCmd.Flags().BoolVar(&exhaustive, "exhaustive", false, "Measure every candidate instead of searching")
	rootCmd.AddCommand(tuneCmd)
}

func runTune(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	reporter := bench.NewConsoleReporter(out)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tuneFlags.apply(cmd, &cfg)
	// Every candidate is checked at dispatch; the session only needs a
	// size that passes validation.
	cfg.WorkGroupSize = 1
	cfg.Logger = logger
	cfg.Reporter = reporter

	source, err := bench.ResolveSource(cfg)
	if err != nil {
		return err
	}
	s, err := bench.Open(cfg, source)
	if err != nil {
		reporter.Failure(err)
		return reportedError{err}
	}
	defer s.Close()

	limit := s.Device().MaxWorkGroupSize
	if maxGroup > 0 && (limit <= 0 || maxGroup < limit) {
		limit = maxGroup
	}
	candidates := tune.Candidates(cfg.VectorSize, limit)

	var opt tune.Optimizer
	if !exhaustive {
		opt = tune.NewMayfly(tuneIters, tunePop, tuneSeed)
	}
	res, err := tune.WorkGroupSize(opt, candidates, s.MeasureParallel, logger.With("run_id", s.RunID()))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WORK-GROUP\tELAPSED\tSTATUS")
	for _, t := range res.Trials {
		status := "ok"
		if t.Err != nil {
			status = t.Err.Error()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", t.GroupSize, t.Elapsed, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Best work-group size: %d (%s, %d of %d candidates measured)\n",
		res.GroupSize, res.Elapsed, len(res.Trials), len(candidates))
	return nil
}
