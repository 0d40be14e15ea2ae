package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ppadl",
	Short: "Audit hook engine for embedded language runtimes",
	Long:  "Inspects and verifies the event trails produced by the ppadl audit hook engine:\nhash-chain verification, live tailing, indexed queries, and the event catalogue.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
