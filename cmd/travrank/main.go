// Command travrank converts provider race-card exports and ranks their
// starters from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/travrank/internal/adapters/reference"
	app "github.com/okian/travrank/internal/app"
	"github.com/okian/travrank/internal/config"
	"github.com/okian/travrank/pkg/logger"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	driversFile string
	tracksFile  string
	horsesFile  string
	logLevel    string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "travrank",
		Short:         "Normalize harness-racing cards and rank their starters",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.InitWithWriter(cmd.ErrOrStderr(), logger.FormatText); err != nil {
				return err
			}
			return logger.SetLevelString(opts.logLevel)
		},
	}

	root.PersistentFlags().StringVar(&opts.driversFile, "drivers", "", "driver ratings file (default: drivers_file from config)")
	root.PersistentFlags().StringVar(&opts.tracksFile, "tracks", "", "track data file (default: tracks_file from config)")
	root.PersistentFlags().StringVar(&opts.horsesFile, "horses", "", "horse history file (default: horses_file from config)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(driversCmd(opts))
	root.AddCommand(convertCmd(opts))
	root.AddCommand(analyzeCmd(opts))

	return root
}

// startService loads configuration, applies flag overrides and starts the
// analysis service.
func startService(cmd *cobra.Command, opts *options) (*app.Service, error) {
	ctx := cmd.Context()
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	paths := reference.Paths{
		Drivers: firstNonEmpty(opts.driversFile, cfg.DriversFile),
		Tracks:  firstNonEmpty(opts.tracksFile, cfg.TracksFile),
		Horses:  firstNonEmpty(opts.horsesFile, cfg.HorsesFile),
	}
	svc := app.New(
		app.WithLogger(logger.Named("cli")),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithWeights(cfg.Weights),
		app.WithReferencePaths(paths),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
