package main

import (
	"fmt"
	"os"

	"github.com/aretw0/rpni"
	"github.com/aretw0/rpni/internal/cli"
	"github.com/aretw0/rpni/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rpni",
	Short: "rpni learns deterministic automata from example traces",
	Long: `rpni builds a prefix tree acceptor from positive traces and generalizes it
with the RPNI red/blue state merging algorithm, never accepting a negative trace.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override (debug, info, warn, error)")
}

func newApp(cmd *cobra.Command) (*cli.App, error) {
	path, _ := cmd.Flags().GetString("config")
	level, _ := cmd.Flags().GetString("log-level")
	return cli.NewApp(path, level)
}

// addTraceFlags registers the trace file flags shared by commands that learn.
func addTraceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("positive", "p", "", "Positive trace file (default from config)")
	cmd.Flags().StringP("negative", "n", "", "Negative trace file, '-' for none (default from config)")
}

// learnFromFlags reads the trace files named by the flags and learns from them.
func learnFromFlags(cmd *cobra.Command, app *cli.App, opts ...rpni.Option) (*rpni.Result, error) {
	posPath, _ := cmd.Flags().GetString("positive")
	negPath, _ := cmd.Flags().GetString("negative")
	pos, neg, err := app.LoadTraces(posPath, negPath)
	if err != nil {
		return nil, err
	}
	return app.Learner(opts...).Learn(pos, neg)
}
