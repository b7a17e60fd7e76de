package export

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/pdiddy/dump-curator/pkg/types"
)

// Stats summarises an exported collection. It is reported only and never
// feeds back into selection.
type Stats struct {
	Count     int
	MinLength int
	MaxLength int
	AvgLength int
	WithVotes int
}

// ComputeStats measures text lengths in runes. The average is truncated.
func ComputeStats(entries []types.Entry) Stats {
	if len(entries) == 0 {
		return Stats{}
	}
	lengths := lo.Map(entries, func(e types.Entry, _ int) int {
		return utf8.RuneCountInString(e.Text)
	})
	return Stats{
		Count:     len(entries),
		MinLength: lo.Min(lengths),
		MaxLength: lo.Max(lengths),
		AvgLength: lo.Sum(lengths) / len(lengths),
		WithVotes: lo.CountBy(entries, func(e types.Entry) bool { return e.Votes > 0 }),
	}
}

// Fprint writes the statistics block.
func (s Stats) Fprint(w io.Writer) {
	fmt.Fprintf(w, "Total entries in output: %d\n", s.Count)
	if s.Count == 0 {
		return
	}
	fmt.Fprintf(w, "Text length - min: %d, max: %d, avg: %d\n", s.MinLength, s.MaxLength, s.AvgLength)
	fmt.Fprintf(w, "Entries with votes > 0: %d\n", s.WithVotes)
}

// sampleWidth is the number of runes shown per sample entry.
const sampleWidth = 150

// FprintSamples writes the first n entries, truncated for display.
func FprintSamples(w io.Writer, entries []types.Entry, n int) {
	for i, e := range entries[:min(n, len(entries))] {
		text := e.Text
		if utf8.RuneCountInString(text) > sampleWidth {
			text = string([]rune(text)[:sampleWidth]) + "..."
		}
		text = strings.ReplaceAll(text, "\n", " ")
		fmt.Fprintf(w, "\n[%d] (votes: %d)\n    %s\n", i+1, e.Votes, text)
	}
}
