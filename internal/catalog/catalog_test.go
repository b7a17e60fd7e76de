// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dump-curator/pkg/types"
)

func testConfig(t *testing.T) types.CatalogConfig {
	t.Helper()
	cfg := types.DefaultCatalogConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "db", "catalog.db")
	return cfg
}

func openTest(t *testing.T, cfg types.CatalogConfig) *Catalog {
	t.Helper()
	c, err := Open(cfg, log.NewNopLogger())
	require.NoError(t, err)
	c.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { c.Close() })
	return c
}

func entry(index, votes int, text string) types.Entry {
	return types.Entry{
		Index:  index,
		Text:   text,
		Votes:  votes,
		Date:   "2009-01-01",
		Author: "anna",
		Source: types.DefaultSource,
	}
}

func longText(i int) string {
	return fmt.Sprintf("Ein hinreichend langer Witz mit der Nummer %d.", i)
}

func TestExternalID(t *testing.T) {
	assert.Equal(t, "schlechtewitzefront:42", ExternalID(entry(42, 0, "x")))
}

func TestEligible(t *testing.T) {
	c := openTest(t, testConfig(t))

	added := entry(1, 0, longText(1))
	added.Added = true

	tests := []struct {
		name  string
		entry types.Entry
		want  bool
	}{
		{"fresh in bounds", entry(1, 0, longText(1)), true},
		{"already added", added, false},
		{"too short", entry(2, 0, "kurz"), false},
		{"too long", entry(3, 0, strings.Repeat("a", 701)), false},
		{"length in runes", entry(4, 0, strings.Repeat("ä", 700)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Eligible(tt.entry))
		})
	}
}

func TestImport(t *testing.T) {
	cfg := testConfig(t)
	cfg.Limit = 3
	c := openTest(t, cfg)
	ctx := context.Background()

	added := entry(5, 9, longText(5))
	added.Added = true
	entries := []types.Entry{
		entry(1, 0, longText(1)),
		entry(2, 7, longText(2)),
		entry(3, 0, longText(3)),
		entry(4, 2, longText(4)),
		added,
		entry(6, 0, "zu kurz"),
	}

	summary, err := c.Import(ctx, entries)
	require.NoError(t, err)

	_, err = uuid.Parse(summary.RunID)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Eligible)
	assert.Equal(t, 3, summary.Selected)
	assert.Equal(t, 3, summary.Inserted)
	assert.Zero(t, summary.Skipped)
	require.Len(t, summary.Indexes, 3)
	// Voted entries are picked first.
	assert.Equal(t, []int{2, 4}, summary.Indexes[:2])
	assert.Contains(t, []int{1, 3}, summary.Indexes[2])

	counts, err := c.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[Status]int{StatusPending: 3}, counts)

	var language, status, runID, created string
	require.NoError(t, c.db.QueryRow(
		`SELECT language, status, run_id, created_at FROM candidates WHERE external_id = ?`,
		"schlechtewitzefront:2",
	).Scan(&language, &status, &runID, &created))
	assert.Equal(t, "de", language)
	assert.Equal(t, string(StatusPending), status)
	assert.Equal(t, summary.RunID, runID)
	assert.Equal(t, "2026-03-01T12:00:00Z", created)

	var inserted int
	require.NoError(t, c.db.QueryRow(
		`SELECT inserted FROM import_runs WHERE id = ?`, summary.RunID,
	).Scan(&inserted))
	assert.Equal(t, 3, inserted)
}

func TestImportSkipsExisting(t *testing.T) {
	c := openTest(t, testConfig(t))
	ctx := context.Background()

	entries := []types.Entry{entry(1, 1, longText(1)), entry(2, 0, longText(2))}

	first, err := c.Import(ctx, entries)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Inserted)

	second, err := c.Import(ctx, entries)
	require.NoError(t, err)
	assert.Zero(t, second.Inserted)
	assert.Equal(t, 2, second.Skipped)
	assert.Empty(t, second.Indexes)

	counts, err := c.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[StatusPending])
}

func TestImportReachesEntriesBeyondReviewedOnes(t *testing.T) {
	cfg := testConfig(t)
	cfg.Limit = 2
	c := openTest(t, cfg)
	ctx := context.Background()

	entries := make([]types.Entry, 6)
	for i := range entries {
		entries[i] = entry(i+1, 0, longText(i+1))
	}

	first, err := c.Import(ctx, entries)
	require.NoError(t, err)
	require.Equal(t, 2, first.Inserted)

	_, err = c.db.Exec(`UPDATE candidates SET status = ?`, string(StatusApproved))
	require.NoError(t, err)

	// The document was reset, so every entry is eligible again.
	seen := map[int]bool{}
	for _, i := range first.Indexes {
		seen[i] = true
	}
	for round := 0; round < 2; round++ {
		summary, err := c.Import(ctx, entries)
		require.NoError(t, err)
		assert.Equal(t, 6, summary.Eligible)
		assert.Equal(t, 2*(round+1), summary.Skipped)
		require.Equal(t, 2, summary.Inserted, "round %d", round)
		for _, i := range summary.Indexes {
			assert.False(t, seen[i], "entry %d imported twice", i)
			seen[i] = true
		}
		_, err = c.db.Exec(`UPDATE candidates SET status = ?`, string(StatusApproved))
		require.NoError(t, err)
	}
	assert.Len(t, seen, 6)

	last, err := c.Import(ctx, entries)
	require.NoError(t, err)
	assert.Zero(t, last.Inserted)
	assert.Equal(t, 6, last.Skipped)
}

func TestImportNothingEligible(t *testing.T) {
	c := openTest(t, testConfig(t))

	summary, err := c.Import(context.Background(), []types.Entry{entry(1, 0, "kurz")})
	require.NoError(t, err)
	assert.Zero(t, summary.Eligible)
	assert.Zero(t, summary.Inserted)

	counts, err := c.Counts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestImportManyEntriesBatchesLookups(t *testing.T) {
	cfg := testConfig(t)
	cfg.Limit = 1200
	c := openTest(t, cfg)
	ctx := context.Background()

	entries := make([]types.Entry, 1100)
	for i := range entries {
		entries[i] = entry(i+1, i%3, longText(i+1))
	}

	first, err := c.Import(ctx, entries)
	require.NoError(t, err)
	assert.Equal(t, 1100, first.Inserted)

	second, err := c.Import(ctx, entries)
	require.NoError(t, err)
	assert.Equal(t, 1100, second.Skipped)
}

func TestDeletePending(t *testing.T) {
	c := openTest(t, testConfig(t))
	ctx := context.Background()

	_, err := c.Import(ctx, []types.Entry{
		entry(1, 0, longText(1)),
		entry(2, 0, longText(2)),
		entry(3, 0, longText(3)),
	})
	require.NoError(t, err)

	_, err = c.db.Exec(`UPDATE candidates SET status = ? WHERE external_id = ?`,
		string(StatusApproved), "schlechtewitzefront:1")
	require.NoError(t, err)

	n, err := c.DeletePending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	counts, err := c.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[Status]int{StatusApproved: 1}, counts)

	// Deleted candidates can be imported again; approved ones are skipped.
	summary, err := c.Import(ctx, []types.Entry{entry(1, 0, longText(1)), entry(2, 0, longText(2))})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, []int{2}, summary.Indexes)
}

func TestOpenExisting(t *testing.T) {
	cfg := testConfig(t)

	c, err := Open(cfg, log.NewNopLogger())
	require.NoError(t, err)
	_, err = c.Import(context.Background(), []types.Entry{entry(1, 0, longText(1))})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	reopened := openTest(t, cfg)
	counts, err := reopened.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, counts[StatusPending])
}
