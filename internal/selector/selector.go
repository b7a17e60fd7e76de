// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selector bounds and orders admitted entries.
//
// Entries with votes come first, most votes first, ties kept in input
// order. Unvoted entries follow in a seeded random order. The result is
// cut to the configured cap. For the same input and seed the output is
// identical on every run.
package selector

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/samber/lo"
)

// Options controls a selection.
type Options struct {
	// MaxCount caps the output. Zero or negative means no cap.
	MaxCount int

	// Seed initialises the shuffle of unvoted entries.
	Seed int64
}

// Result is a selection with the tier sizes seen before truncation.
type Result[T any] struct {
	Selected []T
	Voted    int
	Unvoted  int
}

// Select applies the two-tier policy to items. votes extracts the vote
// count of an item. items is not modified.
func Select[T any](items []T, votes func(T) int, opts Options) Result[T] {
	voted := lo.Filter(items, func(item T, _ int) bool { return votes(item) > 0 })
	unvoted := lo.Reject(items, func(item T, _ int) bool { return votes(item) > 0 })

	slices.SortStableFunc(voted, func(a, b T) int {
		return cmp.Compare(votes(b), votes(a))
	})

	rng := newRand(opts.Seed)
	rng.Shuffle(len(unvoted), func(i, j int) {
		unvoted[i], unvoted[j] = unvoted[j], unvoted[i]
	})

	selected := make([]T, 0, len(voted)+len(unvoted))
	selected = append(selected, voted...)
	selected = append(selected, unvoted...)
	if opts.MaxCount > 0 && len(selected) > opts.MaxCount {
		selected = selected[:opts.MaxCount]
	}

	return Result[T]{
		Selected: selected,
		Voted:    len(voted),
		Unvoted:  len(unvoted),
	}
}

// newRand returns a generator owned by one selection; global random
// state is never touched.
func newRand(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}
