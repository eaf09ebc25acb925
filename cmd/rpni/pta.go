package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ptaCmd = &cobra.Command{
	Use:   "pta",
	Short: "Print the prefix tree acceptor of the positive traces",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")

		result, err := learnFromFlags(cmd, app)
		if err != nil {
			return err
		}
		text, err := app.Render(result.PTA, format, false)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ptaCmd)
	addTraceFlags(ptaCmd)
	ptaCmd.Flags().StringP("format", "f", "", "Output format: mermaid, dot or json (default from config)")
}
