// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RawRecord is one tuple recovered from the dump:
// (id, verified, votes, 'author', 'date', 'body').
// Body still carries the dump's quote escaping.
type RawRecord struct {
	ID       int
	Verified int
	Votes    int
	Author   string
	Date     string
	Body     string
}

// IsVerified reports whether the record carries the verification flag 1.
func (r RawRecord) IsVerified() bool {
	return r.Verified == 1
}

// Candidate is a RawRecord whose body has been unescaped and cleaned.
// Text never contains markup tags, runs of 3+ newlines, or runs of 2+ spaces.
type Candidate struct {
	ID     int
	Votes  int
	Author string
	Date   string
	Text   string
}

// Entry is the persisted output unit. Field names match the documents
// written by earlier runs, so consumers can diff across runs.
type Entry struct {
	// Index is the numeric identifier from the dump.
	Index int `json:"index" yaml:"index"`

	// Text is the cleaned entry body.
	Text string `json:"texto" yaml:"texto"`

	// Votes is the vote count recorded in the dump.
	Votes int `json:"votos" yaml:"votos"`

	// Date is the raw date string from the dump.
	Date string `json:"fecha" yaml:"fecha"`

	// Author is the raw author handle from the dump.
	Author string `json:"usuario" yaml:"usuario"`

	// Added is set by downstream importers once the entry has been consumed.
	// Extraction always writes false.
	Added bool `json:"added" yaml:"added"`

	// Source is the provenance label of the dump.
	Source string `json:"origen" yaml:"origen"`
}
