// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dump recovers entry records from a SQL dump.
//
// A record is one value tuple of an INSERT statement:
//
//	(id, verified, votes, 'author', 'date', 'body')
//
// The body may contain quotes escaped either with a backslash or by
// doubling. Anything between tuples is skipped.
package dump

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/pdiddy/dump-curator/pkg/types"
)

// ErrInputMissing is returned by ReadDump when the dump file does not exist.
var ErrInputMissing = errors.New("dump file not found")

// tuplePattern matches one record. The body alternation consumes any
// non-quote, non-backslash rune, any backslash escape, or a doubled
// quote, so escaped quotes never end the match.
var tuplePattern = regexp.MustCompile(
	`\((\d+), (\d+), (\d+), '([^']*)', '([^']*)', '((?:[^'\\]|\\.|'')*)'\)`)

// ReadDump reads the whole dump into memory. Invalid UTF-8 sequences are
// replaced with U+FFFD rather than failing the read.
func ReadDump(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrInputMissing, path)
		}
		return "", fmt.Errorf("reading dump %s: %w", path, err)
	}
	text, err := unicode.UTF8.NewDecoder().String(string(data))
	if err != nil {
		return "", fmt.Errorf("decoding dump %s: %w", path, err)
	}
	return text, nil
}

// Records returns the tuples found in text, in order of appearance.
// The sequence is lazy and can be ranged over any number of times.
func Records(text string) iter.Seq[types.RawRecord] {
	return func(yield func(types.RawRecord) bool) {
		offset := 0
		for offset < len(text) {
			loc := tuplePattern.FindStringSubmatchIndex(text[offset:])
			if loc == nil {
				return
			}
			rec, ok := toRecord(text[offset:], loc)
			offset += loc[1]
			if !ok {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// Count returns the number of tuples in text.
func Count(text string) int {
	n := 0
	for range Records(text) {
		n++
	}
	return n
}

// toRecord converts submatch offsets into a RawRecord. Integers too large
// for int are reported as not ok and the tuple is skipped.
func toRecord(s string, loc []int) (types.RawRecord, bool) {
	group := func(i int) string { return s[loc[2*i]:loc[2*i+1]] }

	id, err := strconv.Atoi(group(1))
	if err != nil {
		return types.RawRecord{}, false
	}
	verified, err := strconv.Atoi(group(2))
	if err != nil {
		return types.RawRecord{}, false
	}
	votes, err := strconv.Atoi(group(3))
	if err != nil {
		return types.RawRecord{}, false
	}

	return types.RawRecord{
		ID:       id,
		Verified: verified,
		Votes:    votes,
		Author:   group(4),
		Date:     group(5),
		Body:     group(6),
	}, true
}

// Unescape resolves the two quote escapes used in the body field:
// backslash-quote first, then doubled quotes.
func Unescape(body string) string {
	body = strings.ReplaceAll(body, `\'`, `'`)
	return strings.ReplaceAll(body, `''`, `'`)
}
