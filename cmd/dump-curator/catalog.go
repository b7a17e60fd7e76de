// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dump-curator/internal/catalog"
	"github.com/pdiddy/dump-curator/internal/export"
	"github.com/pdiddy/dump-curator/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the SQLite candidate catalog (import, status)",
	Long: `Catalog keeps a SQLite database of candidates picked from an output
document. Use subcommands to import a document or inspect the catalog.`,
}

// --- import subcommand ---

var catalogImportCmd = &cobra.Command{
	Use:   "import [document]",
	Short: "Import not-yet-added entries from an output document",
	Long: `Import picks entries whose added flag is false and whose text fits the
length bounds, orders them like extract does (voted first, then seeded
random), and inserts up to --limit of them as pending candidates. Entries
already in the catalog are skipped. Imported entries are marked added=true
in the document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalogImport,
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	path := extractConfig().OutputPath
	if len(args) == 1 {
		path = args[0]
	}
	cfg := catalogConfig()
	out := cmd.OutOrStdout()

	entries, err := export.Read(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Read %d entries from %s\n", len(entries), path)

	cat, err := catalog.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer cat.Close()

	ctx := context.Background()

	if clearPending, _ := cmd.Flags().GetBool("clear-pending"); clearPending {
		n, err := cat.DeletePending(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %d pending candidates\n", n)
	}

	summary, err := cat.Import(ctx, entries)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Eligible: %d, selected: %d, inserted: %d, skipped (existing): %d\n",
		summary.Eligible, summary.Selected, summary.Inserted, summary.Skipped)

	if len(summary.Indexes) == 0 {
		return nil
	}
	marked, err := export.MarkAdded(path, summary.Indexes)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Marked %d entries as added in %s (run %s)\n", marked, path, summary.RunID)
	return nil
}

// --- status subcommand ---

var catalogStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show candidate counts per status",
	RunE:  runCatalogStatus,
}

func runCatalogStatus(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Open(catalogConfig(), logger)
	if err != nil {
		return err
	}
	defer cat.Close()

	counts, err := cat.Counts(context.Background())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(counts) == 0 {
		fmt.Fprintln(out, "Catalog is empty.")
		return nil
	}

	statuses := make([]string, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, string(s))
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		fmt.Fprintf(out, "%-10s %d\n", s, counts[catalog.Status(s)])
	}
	return nil
}

func init() {
	defaults := types.DefaultCatalogConfig()

	catalogCmd.PersistentFlags().String("db", defaults.DBPath, "SQLite catalog database")
	mustBind("catalog.db", catalogCmd.PersistentFlags().Lookup("db"))

	catalogImportCmd.Flags().Int("limit", defaults.Limit, "maximum entries imported per run")
	catalogImportCmd.Flags().String("language", defaults.Language, "language code stored with each candidate")
	catalogImportCmd.Flags().Int("min-length", defaults.MinLength, "minimum text length in characters")
	catalogImportCmd.Flags().Int("max-length", defaults.MaxLength, "maximum text length in characters")
	catalogImportCmd.Flags().Int64("seed", defaults.Seed, "seed for ordering unvoted entries")
	catalogImportCmd.Flags().Bool("clear-pending", true, "delete pending candidates before importing")

	mustBind("catalog.limit", catalogImportCmd.Flags().Lookup("limit"))
	mustBind("catalog.language", catalogImportCmd.Flags().Lookup("language"))
	mustBind("catalog.min_length", catalogImportCmd.Flags().Lookup("min-length"))
	mustBind("catalog.max_length", catalogImportCmd.Flags().Lookup("max-length"))
	mustBind("catalog.seed", catalogImportCmd.Flags().Lookup("seed"))

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogStatusCmd)

	rootCmd.AddCommand(catalogCmd)
}
