package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of slicer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "slicer %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\n", commit)
		fmt.Fprintf(cmd.OutOrStdout(), "built:  %s\n", date)
		fmt.Fprintf(cmd.OutOrStdout(), "go:     %s\n", runtime.Version())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
