package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "arbodash",
		Short:         "Arbovirus surveillance dashboard tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.register(rootCmd)

	rootCmd.AddCommand(
		newSummaryCmd(opts),
		newSynthesisCmd(opts),
		newExportCmd(opts),
		newITSCmd(opts),
		newDiDCmd(opts),
		newRewriteCmd(opts),
	)
	return rootCmd
}
