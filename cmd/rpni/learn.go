package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/rpni/internal/presentation/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Learn an automaton from trace files",
	Long: `Builds the prefix tree of the positive traces, generalizes it with RPNI and
prints the learned automaton. With --save the run is stored for later inspection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		save, _ := cmd.Flags().GetBool("save")
		showLog, _ := cmd.Flags().GetBool("log")

		result, err := learnFromFlags(cmd, app)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if showLog {
			for i, op := range result.Log {
				fmt.Fprintf(out, "%4d %s %s\n", i+1, tui.Badge(string(op.Kind)), op.Note)
			}
			fmt.Fprintln(out)
		}

		text, err := app.Render(result.Hypothesis, format, false)
		if err != nil {
			return err
		}
		fmt.Fprint(out, text)

		if !save {
			return nil
		}
		store, closeStore, err := app.OpenStore()
		if err != nil {
			return err
		}
		defer closeStore()

		id := uuid.NewString()
		if err := store.Save(context.Background(), result.Run(id, time.Now().UTC())); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved run %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(learnCmd)
	addTraceFlags(learnCmd)
	learnCmd.Flags().StringP("format", "f", "", "Output format: mermaid, dot or json (default from config)")
	learnCmd.Flags().Bool("save", false, "Store the run")
	learnCmd.Flags().Bool("log", false, "Print the operation log before the automaton")
}
