package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/rpni"
	"github.com/aretw0/rpni/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of rpni",
	Run: func(cmd *cobra.Command, args []string) {
		tui.PrintBanner(cmd.OutOrStdout())
		fmt.Fprintf(cmd.OutOrStdout(), "rpni version %s\n", strings.TrimSpace(rpni.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
