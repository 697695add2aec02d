package main

import (
	"github.com/spf13/cobra"

	"github.com/cwbudde/clbench/internal/bench"
)

var (
	runFlags    benchFlags
	groupSize   int
	repeat      int
	metricsFile string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the sequential and parallel executors and verify both",
	Long: `Builds the kernel for the first matching device, computes the vector
operation sequentially on the host and as one parallel dispatch, verifies
both results and prints the time each took. Exits non-zero on any failure.`,
	Args: cobra.NoArgs,
	RunE: runBenchmark,
}

func init() {
	runFlags.register(runCmd)
	runCmd.Flags().IntVarP(&groupSize, "work-group", "g", bench.DefaultWorkGroupSize, "Work-items per work-group; must divide --vector-size")
	runCmd.Flags().IntVar(&repeat, "repeat", 1, "Number of parallel runs to time")
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	rootCmd.AddCommand(runCmd)
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	reporter := bench.NewConsoleReporter(cmd.OutOrStdout())

	cfg, err := loadConfig()
	if err != nil {
		reporter.Failure(err)
		return reportedError{err}
	}
	runFlags.apply(cmd, &cfg)
	if cmd.Flags().Changed("work-group") {
		cfg.WorkGroupSize = groupSize
	}
	if cmd.Flags().Changed("repeat") {
		cfg.Repeat = repeat
	}
	if cmd.Flags().Changed("metrics-file") {
		cfg.MetricsFile = metricsFile
	}
	cfg.Logger = logger
	cfg.Reporter = reporter

	source, err := bench.ResolveSource(cfg)
	if err != nil {
		reporter.Failure(err)
		return reportedError{err}
	}

	logger.Info("Starting benchmark",
		"vector_size", cfg.VectorSize,
		"work_group", cfg.WorkGroupSize,
		"variant", cfg.Variant,
		"backend", cfg.Backend,
	)
	if _, err := bench.Run(cfg, source); err != nil {
		return reportedError{err}
	}
	return nil
}
