// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one extraction: dump → records → cleaned
// candidates → admission gate → selection → output document.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/pdiddy/dump-curator/internal/classify"
	"github.com/pdiddy/dump-curator/internal/clean"
	"github.com/pdiddy/dump-curator/internal/dump"
	"github.com/pdiddy/dump-curator/internal/export"
	"github.com/pdiddy/dump-curator/internal/selector"
	"github.com/pdiddy/dump-curator/pkg/types"
)

// Summary holds the counts of one run at each filtering stage.
type Summary struct {
	Found       int
	Unverified  int
	OutOfBounds int
	// Rejected counts gate rejections by classifier name.
	Rejected map[string]int
	Admitted int
	Voted    int
	Unvoted  int
	Selected int
	Stats    export.Stats
}

// RejectedTotal returns the number of gate rejections.
func (s Summary) RejectedTotal() int {
	n := 0
	for _, c := range s.Rejected {
		n += c
	}
	return n
}

// Fprint writes the stage counts.
func (s Summary) Fprint(w io.Writer) {
	fmt.Fprintf(w, "Found %d total entries in dump\n", s.Found)
	fmt.Fprintf(w, "  - unverified:         %d\n", s.Unverified)
	fmt.Fprintf(w, "  - outside length:     %d\n", s.OutOfBounds)
	fmt.Fprintf(w, "  - rejected (moderation): %d\n", s.Rejected["moderation"])
	fmt.Fprintf(w, "  - rejected (language):   %d\n", s.Rejected["language"])
	fmt.Fprintf(w, "After filtering: %d entries\n", s.Admitted)
	fmt.Fprintf(w, "  - with votes > 0: %d\n", s.Voted)
	fmt.Fprintf(w, "  - with votes = 0: %d\n", s.Unvoted)
	fmt.Fprintf(w, "Selected %d entries for export\n", s.Selected)
}

// Admit scans text and returns the candidates that pass the verification
// flag, the length bounds and the gate, in dump order. A bad record only
// ever drops itself.
func Admit(ctx context.Context, text string, bounds types.LengthBounds, gate *classify.Gate) ([]types.Candidate, Summary, error) {
	summary := Summary{Rejected: map[string]int{}}
	var admitted []types.Candidate

	for rec := range dump.Records(text) {
		if err := ctx.Err(); err != nil {
			return nil, summary, err
		}
		summary.Found++

		if !rec.IsVerified() {
			summary.Unverified++
			continue
		}

		body := clean.Clean(dump.Unescape(rec.Body))
		if !bounds.Contains(utf8.RuneCountInString(body)) {
			summary.OutOfBounds++
			continue
		}

		if ok, by := gate.Admit(body); !ok {
			summary.Rejected[by]++
			continue
		}

		admitted = append(admitted, types.Candidate{
			ID:     rec.ID,
			Votes:  rec.Votes,
			Author: rec.Author,
			Date:   rec.Date,
			Text:   body,
		})
	}

	summary.Admitted = len(admitted)
	return admitted, summary, nil
}

// Process runs the in-memory part of a run: admission, selection and
// finalisation. Nothing is read or written.
func Process(ctx context.Context, text string, cfg types.ExtractConfig, gate *classify.Gate) ([]types.Entry, Summary, error) {
	admitted, summary, err := Admit(ctx, text, cfg.LengthBounds, gate)
	if err != nil {
		return nil, summary, err
	}

	result := selector.Select(admitted, func(c types.Candidate) int { return c.Votes }, selector.Options{
		MaxCount: cfg.MaxCount,
		Seed:     cfg.Seed,
	})
	summary.Voted = result.Voted
	summary.Unvoted = result.Unvoted
	summary.Selected = len(result.Selected)

	entries := export.Finalize(result.Selected, cfg.Source)
	summary.Stats = export.ComputeStats(entries)
	return entries, summary, nil
}

// Run performs a full extraction described by cfg and writes the output
// document. A missing dump aborts before anything is written.
func Run(ctx context.Context, cfg types.ExtractConfig, logger log.Logger) ([]types.Entry, Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Summary{}, err
	}

	policy, err := classify.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, Summary{}, err
	}

	level.Info(logger).Log("msg", "reading dump", "path", cfg.InputPath)
	text, err := dump.ReadDump(cfg.InputPath)
	if err != nil {
		return nil, Summary{}, err
	}

	entries, summary, err := Process(ctx, text, cfg, policy.NewGate())
	if err != nil {
		return nil, summary, err
	}
	level.Info(logger).Log("msg", "selection done",
		"found", summary.Found, "admitted", summary.Admitted, "selected", summary.Selected)

	if err := export.Write(cfg.OutputPath, cfg.Format, entries); err != nil {
		return nil, summary, err
	}
	level.Info(logger).Log("msg", "output written", "path", cfg.OutputPath, "entries", len(entries))

	return entries, summary, nil
}
