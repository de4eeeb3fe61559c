// Package cli wires the ls-ephemeris commands: positional queries,
// light-time observations, visibility planning, cache management, and
// the terminal orrery.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-ephemeris/internal/config"
	"github.com/litescript/ls-ephemeris/internal/logging"
)

var (
	cfgFile      string
	logLevelFlag string
	sourceFlag   string

	cfg *config.Config
	log *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ls-ephemeris",
	Short: "Solar system ephemerides in the terminal",
	Long: `ls-ephemeris computes positions and observations of the Sun, the
planets, Pluto, and the Moon from a built-in analytic theory or from
JPL Horizons state vectors fitted into Chebyshev arcs.

Positions chain through the segment registry to a common root, and
observations solve for light travel time so the reported direction is
where the body appeared, not where it is.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
		if cmd.Root().PersistentFlags().Changed("log-level") {
			cfg.Logging.Level = logLevelFlag
		}
		if cmd.Root().PersistentFlags().Changed("source") {
			cfg.Source.Kind = sourceFlag
		}
		log = logging.New(logging.ParseLevel(cfg.Logging.Level))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", "", "ephemeris source: analytic or horizons")
}

// Execute runs the root command under a context cancelled by SIGINT or
// SIGTERM, so an in-flight Horizons fetch aborts cleanly on Ctrl-C.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
