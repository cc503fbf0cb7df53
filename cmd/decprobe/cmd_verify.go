package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"decprobe/internal/verify"
)

var (
	flagMaxInteger    int64
	flagDecimalPlaces int
	flagWorkers       int
	flagBatchSize     int64
)

// verifyCmd runs the exhaustive sweep
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Exhaustively verify decimal round trips over the configured range",
	Long: `Sweeps every index in [0, maxInteger*10^decimalPlaces - 1), verifying
that each decimal value survives text formatting and JSON transport
without precision loss.

Parameters come from the config file (see --config), overridden by
DECPROBE_* environment variables and finally by the flags below. The
reference range (one billion integers, six decimal places) covers just
under 10^15 values and takes a while; start with something like

  decprobe verify --max-integer 10000 --decimal-places 4

Exit status is 0 when the full range verifies, non-zero on the first
precision mismatch or worker fault.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().Int64Var(&flagMaxInteger, "max-integer", 0, "Exclusive upper bound on the integral part")
	verifyCmd.Flags().IntVar(&flagDecimalPlaces, "decimal-places", -1, "Fixed fractional digit count")
	verifyCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Parallel workers (default: host parallelism)")
	verifyCmd.Flags().Int64Var(&flagBatchSize, "batch-size", 0, "Checks between progress flushes")
}

func runVerify(cmd *cobra.Command, args []string) error {
	// flags win over config file and environment
	if cmd.Flags().Changed("max-integer") {
		cfg.Run.MaxInteger = flagMaxInteger
	}
	if cmd.Flags().Changed("decimal-places") {
		cfg.Run.DecimalPlaces = flagDecimalPlaces
	}
	if cmd.Flags().Changed("workers") {
		cfg.Run.Workers = flagWorkers
	}
	if cmd.Flags().Changed("batch-size") {
		cfg.Run.BatchSize = flagBatchSize
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	tick, err := cfg.Tick()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	coord := verify.NewCoordinator(verify.Config{
		MaxInteger:    cfg.Run.MaxInteger,
		DecimalPlaces: cfg.Run.DecimalPlaces,
		Workers:       cfg.Run.Workers,
		BatchSize:     cfg.Run.BatchSize,
		TickInterval:  tick,
	}, logger)

	coord.SetProgressFunc(func(fraction float64) {
		line := fmt.Sprintf("%s %6.2f%%", renderBar(fraction, 40), fraction*100)
		fmt.Fprintf(os.Stderr, "\r%s", styleProgress.Render(line))
	})

	report, runErr := coord.Run(ctx)
	fmt.Fprintln(os.Stderr)

	if runErr != nil {
		var mismatch *verify.MismatchError
		var fault *verify.WorkerFaultError
		switch {
		case errors.As(runErr, &mismatch):
			fmt.Println(styleError.Render("PRECISION MISMATCH"))
			fmt.Printf("  index:        %d\n", mismatch.Index)
			fmt.Printf("  serialized:   %v\n", mismatch.Serialized)
			fmt.Printf("  deserialized: %v\n", mismatch.Deserialized)
		case errors.As(runErr, &fault):
			fmt.Println(styleError.Render(fmt.Sprintf("WORKER %d FAULTED", fault.WorkerID)))
			fmt.Printf("  cause: %v\n", fault.Cause)
		default:
			fmt.Println(styleError.Render("RUN ABORTED"))
			fmt.Printf("  %v\n", runErr)
		}
		return runErr
	}

	fmt.Println(styleSuccess.Render(fmt.Sprintf("VERIFIED %d values", report.Total)))
	fmt.Println(styleMuted.Render(fmt.Sprintf("workers=%d duration=%s run=%s",
		report.Workers, report.Duration.Round(time.Millisecond), report.RunID)))

	if logger != nil {
		logger.Info("verify command finished",
			zap.Int64("total", report.Total),
			zap.Duration("duration", report.Duration))
	}
	return nil
}
