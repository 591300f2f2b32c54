// Command measurebench runs the measure sample programs and reports the
// overhead of every record policy.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/zeebo/errs"
	"github.com/zeebo/measure"
)

// Error is the class of errors returned by the commands.
var Error = errs.Class("measurebench")

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
	With().Timestamp().Logger()

type config struct {
	loops     uint64
	backend   string
	csv       string
	logLevel  string
	calibrate time.Duration
	addr      string
	interval  time.Duration
}

func main() {
	var cfg config

	rootCmd := &cobra.Command{
		Use:   "measurebench",
		Short: "Runs measure samples and overhead benchmarks",
		Long: `measurebench exercises every record policy on a chosen clock backend and
prints the collected report. The report can also be written as CSV, exported
in the InfluxDB line protocol, or served over HTTP with Prometheus metrics.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(&cfg)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.Uint64Var(&cfg.loops, "loops", 1<<22, "Iterations of the innermost loops")
	flags.StringVar(&cfg.backend, "backend", "mono", "Clock backend: "+strings.Join(backendNames(), ", "))
	flags.StringVar(&cfg.csv, "csv", measure.DefaultCSVFile, "CSV report file (empty to skip)")
	flags.StringVar(&cfg.logLevel, "log-level", "info", "Log level")
	flags.DurationVar(&cfg.calibrate, "calibrate", 0, "Calibrate the cycle counter for this long before running (0 = lazily)")

	samplesCmd := &cobra.Command{
		Use:   "samples",
		Short: "Run the sample programs and the recursion check",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := runnerFor(cfg.backend)
			if err != nil {
				return err
			}
			if err := r.samples(cfg.loops); err != nil {
				return err
			}
			return r.report(cmd.OutOrStdout(), cfg.csv)
		},
	}

	overheadCmd := &cobra.Command{
		Use:   "overhead",
		Short: "Report the time every policy adds to a call",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := runnerFor(cfg.backend)
			if err != nil {
				return err
			}
			if err := r.overhead(cmd.OutOrStdout(), cfg.loops); err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), measure.DatabaseFor[measure.Mono](), cfg.csv)
		},
	}

	fluxCmd := &cobra.Command{
		Use:   "flux",
		Short: "Run the sample programs and write every database as line protocol",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := runnerFor(cfg.backend)
			if err != nil {
				return err
			}
			if err := r.samples(cfg.loops); err != nil {
				return err
			}
			return writeFlux(cmd.OutOrStdout())
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve live reports while running the samples in a loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := runnerFor(cfg.backend)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()
			return serve(ctx, cfg, r)
		},
	}
	serveCmd.Flags().StringVar(&cfg.addr, "addr", "localhost:8080", "Address to listen on")
	serveCmd.Flags().DurationVar(&cfg.interval, "interval", time.Second, "Pause between sample runs")

	rootCmd.AddCommand(samplesCmd, overheadCmd, fluxCmd, serveCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("failed")
		os.Exit(1)
	}
}

// setup configures logging and the cycle counter from the flags.
func setup(cfg *config) error {
	level, err := zerolog.ParseLevel(cfg.logLevel)
	if err != nil {
		return Error.Wrap(err)
	}
	log = log.Level(level)

	if cfg.calibrate > 0 {
		hz := measure.CalibrateTSC(cfg.calibrate)
		measure.SetTSCFrequency(hz)
		log.Info().Uint64("hz", hz).Dur("window", cfg.calibrate).Msg("calibrated cycle counter")
	}

	if !measure.Enabled {
		log.Warn().Msg("built with nomeasure: every report will be empty")
	}
	return nil
}
