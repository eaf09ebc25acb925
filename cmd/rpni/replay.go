package main

import (
	"os"

	"github.com/aretw0/rpni"
	"github.com/aretw0/rpni/internal/cli"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay [run-id]",
	Short: "Step through the learning of an automaton",
	Long: `Replays the operation log of a stored run, or of a fresh run learned from
the trace files when no run id is given, one merge at a time.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		headless, _ := cmd.Flags().GetBool("headless")

		var result *rpni.Result
		if len(args) == 1 {
			result, err = loadResult(app, args[0])
		} else {
			result, err = learnFromFlags(cmd, app)
		}
		if err != nil {
			return err
		}

		return cli.Replay(result, cli.ReplayOptions{
			Input:    os.Stdin,
			Output:   os.Stdout,
			Headless: headless,
		})
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	addTraceFlags(replayCmd)
	replayCmd.Flags().Bool("headless", false, "Print every step without waiting for input")
}
