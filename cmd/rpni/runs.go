package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		store, closeStore, err := app.OpenStore()
		if err != nil {
			return err
		}
		defer closeStore()

		ctx := context.Background()
		ids, err := store.List(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tPOSITIVE\tNEGATIVE\tSTATES")
		for _, id := range ids {
			run, err := store.Load(ctx, id)
			if err != nil {
				app.Logger.Warn("skipping run", "id", id, "error", err)
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"),
				run.Positive, run.Negative, len(run.Hypothesis.States))
		}
		return w.Flush()
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		store, closeStore, err := app.OpenStore()
		if err != nil {
			return err
		}
		defer closeStore()
		return store.Delete(context.Background(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(deleteCmd)
}
