// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"

	"github.com/samber/lo"
)

// ResetSummary reports the added flags of a document before a reset.
type ResetSummary struct {
	Total       int
	AddedBefore int
}

// Reset sets every entry's added flag to false and writes the document
// back in place. Only the added flags change; other keys, their order and
// their values are written back as read. The document must already exist.
func Reset(path string) (ResetSummary, error) {
	doc, err := loadFlagDocument(path)
	if err != nil {
		return ResetSummary{}, err
	}

	summary := ResetSummary{
		Total:       doc.Len(),
		AddedBefore: lo.CountBy(lo.Range(doc.Len()), doc.Added),
	}
	for i := range doc.Len() {
		doc.SetAdded(i, false)
	}

	if err := saveFlagDocument(path, doc); err != nil {
		return summary, fmt.Errorf("resetting %s: %w", path, err)
	}
	return summary, nil
}

// MarkAdded sets added=true on the entries whose index is in indexes and
// writes the document back, leaving everything else untouched. It returns
// how many entries were marked.
func MarkAdded(path string, indexes []int) (int, error) {
	doc, err := loadFlagDocument(path)
	if err != nil {
		return 0, err
	}

	want := lo.SliceToMap(indexes, func(i int) (int, struct{}) { return i, struct{}{} })
	marked := 0
	for i := range doc.Len() {
		index, ok := doc.Index(i)
		if !ok {
			continue
		}
		if _, hit := want[index]; hit && !doc.Added(i) {
			doc.SetAdded(i, true)
			marked++
		}
	}
	if marked == 0 {
		return 0, nil
	}

	if err := saveFlagDocument(path, doc); err != nil {
		return 0, fmt.Errorf("marking entries in %s: %w", path, err)
	}
	return marked, nil
}

func saveFlagDocument(path string, doc flagDocument) error {
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}
