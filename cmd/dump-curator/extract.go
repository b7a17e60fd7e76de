// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dump-curator/internal/export"
	"github.com/pdiddy/dump-curator/internal/pipeline"
	"github.com/pdiddy/dump-curator/pkg/types"
)

// sampleCount is the number of entries printed after a run.
const sampleCount = 5

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a curated entry collection from a SQL dump",
	Long: `Extract scans a SQL dump for (id, verified, votes, 'author', 'date', 'body')
tuples, cleans each body, drops unverified entries, entries outside the
length bounds, and entries rejected by the language or content policy, then
writes a bounded selection: voted entries by vote count, followed by unvoted
entries in a seeded random order.

Running extract twice on the same dump with the same seed writes the same
document.`,
	RunE: runExtract,
}

func init() {
	defaults := types.DefaultExtractConfig()

	extractCmd.Flags().String("input", defaults.InputPath, "SQL dump to scan")
	extractCmd.Flags().String("output", defaults.OutputPath, "output document path")
	extractCmd.Flags().String("format", string(defaults.Format), "output format: json or yaml")
	extractCmd.Flags().Int("max-count", defaults.MaxCount, "maximum number of exported entries")
	extractCmd.Flags().Int("min-length", defaults.MinLength, "minimum text length in characters")
	extractCmd.Flags().Int("max-length", defaults.MaxLength, "maximum text length in characters")
	extractCmd.Flags().Int64("seed", defaults.Seed, "seed for ordering unvoted entries")
	extractCmd.Flags().String("source", defaults.Source, "provenance label attached to every entry")
	extractCmd.Flags().String("policy", "", "YAML policy file replacing the built-in indicator and denylist data")

	for key, flag := range map[string]string{
		"input":       "input",
		"output":      "output",
		"format":      "format",
		"max_count":   "max-count",
		"min_length":  "min-length",
		"max_length":  "max-length",
		"seed":        "seed",
		"source":      "source",
		"policy_file": "policy",
	} {
		mustBind(key, extractCmd.Flags().Lookup(flag))
	}

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := extractConfig()

	out := cmd.OutOrStdout()
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "Parsing %s dump\n", cfg.Source)
	fmt.Fprintln(out, rule)

	entries, summary, err := pipeline.Run(context.Background(), cfg, logger)
	if err != nil {
		return err
	}

	summary.Fprint(out)
	fmt.Fprintf(out, "Saved to: %s\n", cfg.OutputPath)

	fmt.Fprintln(out, "\n"+rule)
	fmt.Fprintln(out, "STATISTICS")
	fmt.Fprintln(out, rule)
	summary.Stats.Fprint(out)

	if len(entries) > 0 {
		fmt.Fprintln(out, "\n"+rule)
		fmt.Fprintln(out, "SAMPLE ENTRIES")
		fmt.Fprintln(out, rule)
		export.FprintSamples(out, entries, sampleCount)
	}

	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "warning: no entries were selected")
	}
	return nil
}
