package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"connectome/pkg/config"
	"connectome/pkg/logging"
)

var version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "connectome",
		Short: "Estimate brain connectomes and evaluate their reproducibility",
		Long: `connectome turns tractography streamlines and regional timeseries into
region-level brain graphs, and measures how well repeated scans of the same
subject can be told apart from scans of other subjects (discriminability).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "connectome.yaml", "Path to YAML configuration")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log build progress")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json (overrides config)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newDWICmd(),
		newFuncCmd(),
		newDiscrimCmd(),
		newSummaryCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "connectome version %s\n", version)
		},
	}
}

// loadSettings reads the configuration named by --config and applies the
// global flag overrides.
func loadSettings(cmd *cobra.Command) (*config.Config, *logging.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Output.Verbose, _ = cmd.Flags().GetBool("verbose")
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		cfg.Output.LogFormat = format
	}

	level := slog.LevelInfo
	if cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	return cfg, logging.New(cmd.ErrOrStderr(), cfg.Output.LogFormat, level), nil
}
