package main

import (
	"context"
	"fmt"

	"github.com/aretw0/rpni"
	"github.com/aretw0/rpni/internal/cli"
	"github.com/aretw0/rpni/pkg/automaton"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <run-id>",
	Short: "Export a stored automaton",
	Long:  `Loads a stored run and prints one of its automata as Mermaid, DOT or JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		stage, _ := cmd.Flags().GetString("stage")
		format, _ := cmd.Flags().GetString("format")
		relabel, _ := cmd.Flags().GetBool("relabel")

		result, err := loadResult(app, args[0])
		if err != nil {
			return err
		}

		var aut *automaton.Automaton
		switch stage {
		case "hypothesis":
			aut = result.Hypothesis
		case "pta":
			aut = result.PTA
		case "initial":
			aut = result.Chains
		default:
			return fmt.Errorf("unknown stage %q", stage)
		}

		text, err := app.Render(aut, format, relabel)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("stage", "hypothesis", "Automaton to export: hypothesis, pta or initial")
	graphCmd.Flags().StringP("format", "f", "", "Output format: mermaid, dot or json (default from config)")
	graphCmd.Flags().Bool("relabel", false, "Rename states to their depth-first order")
}

// loadResult restores a stored run from the configured store.
func loadResult(app *cli.App, id string) (*rpni.Result, error) {
	store, closeStore, err := app.OpenStore()
	if err != nil {
		return nil, err
	}
	defer closeStore()

	run, err := store.Load(context.Background(), id)
	if err != nil {
		return nil, err
	}
	return rpni.FromRun(run)
}
