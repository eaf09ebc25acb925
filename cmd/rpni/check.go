package main

import (
	"fmt"

	"github.com/aretw0/rpni/pkg/adapters/tracefile"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <run-id>",
	Short: "Run traces through a stored automaton",
	Long:  `Prints "accept" or "reject" for every trace of the file, as judged by the learned automaton of the run.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("file")

		traces, err := tracefile.Load(path)
		if err != nil {
			return err
		}
		result, err := loadResult(app, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, ex := range traces.All() {
			verdict := "reject"
			if result.Hypothesis.Accepts(ex) {
				verdict = "accept"
			}
			fmt.Fprintf(out, "%s\t%s\n", verdict, tracefile.FormatLine(ex))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringP("file", "f", "", "Trace file to check")
	_ = checkCmd.MarkFlagRequired("file")
}
