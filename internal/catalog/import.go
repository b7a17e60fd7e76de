// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/pdiddy/dump-curator/internal/selector"
	"github.com/pdiddy/dump-curator/pkg/types"
)

// lookupBatch bounds the number of bound parameters per IN query.
const lookupBatch = 500

// ImportSummary holds counts from one import run.
type ImportSummary struct {
	RunID    string
	Eligible int
	Selected int
	Inserted int

	// Skipped counts eligible entries already in the catalog.
	Skipped int

	// Indexes lists the dump indexes of inserted entries, in import order.
	Indexes []int
}

// ExternalID returns the catalog key of an entry: the lower-cased source
// label and the dump index.
func ExternalID(e types.Entry) string {
	return strings.ToLower(e.Source) + ":" + strconv.Itoa(e.Index)
}

// Eligible reports whether an entry may be imported: not yet added and
// within the configured length bounds.
func (c *Catalog) Eligible(e types.Entry) bool {
	return !e.Added && c.cfg.Contains(utf8.RuneCountInString(e.Text))
}

// Import drops eligible entries already in the catalog, in any status,
// then selects up to cfg.Limit of the rest with the two-tier policy and
// inserts them as pending candidates. The whole batch is one transaction.
func (c *Catalog) Import(ctx context.Context, entries []types.Entry) (ImportSummary, error) {
	eligible := lo.Filter(entries, func(e types.Entry, _ int) bool { return c.Eligible(e) })
	summary := ImportSummary{
		RunID:    uuid.NewString(),
		Eligible: len(eligible),
	}
	if len(eligible) == 0 {
		level.Warn(c.logger).Log("msg", "no eligible entries to import")
		return summary, nil
	}

	ids := lo.Map(eligible, func(e types.Entry, _ int) string { return ExternalID(e) })
	existing, err := c.existingIDs(ctx, ids)
	if err != nil {
		return summary, err
	}
	fresh := lo.Filter(eligible, func(e types.Entry, _ int) bool { return !existing[ExternalID(e)] })
	summary.Skipped = len(eligible) - len(fresh)

	picked := selector.Select(fresh, func(e types.Entry) int { return e.Votes }, selector.Options{
		MaxCount: c.cfg.Limit,
		Seed:     c.cfg.Seed,
	}).Selected
	summary.Selected = len(picked)
	summary.Inserted = len(picked)

	if len(picked) < c.cfg.Limit {
		level.Warn(c.logger).Log("msg", "fewer new entries than the import limit",
			"new", len(fresh), "limit", c.cfg.Limit)
	}
	if len(picked) == 0 {
		level.Info(c.logger).Log("msg", "no new candidates to import", "skipped", summary.Skipped)
		return summary, nil
	}

	if err := c.insert(ctx, summary, picked); err != nil {
		return ImportSummary{}, err
	}

	summary.Indexes = lo.Map(picked, func(e types.Entry, _ int) int { return e.Index })
	level.Info(c.logger).Log("msg", "imported candidates", "run", summary.RunID,
		"inserted", summary.Inserted, "skipped", summary.Skipped)
	return summary, nil
}

func (c *Catalog) existingIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	found := make(map[string]bool)
	for _, batch := range lo.Chunk(ids, lookupBatch) {
		query, args, err := sq.Select("external_id").
			From(candidatesTable).
			Where(sq.Eq{"external_id": batch}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("building lookup: %w", err)
		}

		rows, err := c.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("querying existing candidates: %w", err)
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning id: %w", err)
			}
			found[id] = true
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("iterating existing candidates: %w", err)
		}
		rows.Close()
	}
	return found, nil
}

func (c *Catalog) insert(ctx context.Context, summary ImportSummary, fresh []types.Entry) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := c.now().UTC().Format(time.RFC3339)

	query, args, err := sq.Insert(runsTable).
		Columns("id", "origin", "started_at", "eligible", "inserted", "skipped").
		Values(summary.RunID, fresh[0].Source, now, summary.Eligible, summary.Inserted, summary.Skipped).
		ToSql()
	if err != nil {
		return fmt.Errorf("building run insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("recording import run: %w", err)
	}

	for _, e := range fresh {
		query, args, err := sq.Insert(candidatesTable).
			Columns("external_id", "source_index", "text", "language", "votes",
				"date", "author", "origin", "status", "run_id", "created_at").
			Values(ExternalID(e), e.Index, e.Text, c.cfg.Language, e.Votes,
				e.Date, e.Author, e.Source, string(StatusPending), summary.RunID, now).
			ToSql()
		if err != nil {
			return fmt.Errorf("building candidate insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting candidate %s: %w", ExternalID(e), err)
		}
	}

	return tx.Commit()
}
