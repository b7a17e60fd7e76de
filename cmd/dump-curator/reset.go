package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dump-curator/internal/export"
	"github.com/pdiddy/dump-curator/pkg/types"
)

var resetCmd = &cobra.Command{
	Use:   "reset [document]",
	Short: "Set every entry's added flag to false",
	Long: `Reset rewrites an output document with every added flag set to false,
so the whole collection can be imported again. The document must exist.
Without an argument the configured output path is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	path := extractConfig().OutputPath
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		path = types.DefaultOutputPath
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Reading %s\n", path)

	summary, err := export.Reset(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Total entries: %d\n", summary.Total)
	fmt.Fprintf(out, "Before reset: added=true %d, added=false %d\n",
		summary.AddedBefore, summary.Total-summary.AddedBefore)
	fmt.Fprintf(out, "Reset %d entries to added=false\n", summary.Total)
	return nil
}
