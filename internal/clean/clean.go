// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package clean turns raw entry bodies into plain text: it resolves
// character references and strips presentational markup.
package clean

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

var (
	decimalRef = regexp.MustCompile(`&#(\d+);`)
	hexRef     = regexp.MustCompile(`&#x([0-9a-fA-F]+);`)

	lineBreakTag = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTag       = regexp.MustCompile(`<[^>]+>`)
	newlineRun   = regexp.MustCompile(`\n{3,}`)
	spaceRun     = regexp.MustCompile(` {2,}`)
)

// Clean decodes character references and strips markup.
func Clean(s string) string {
	return StripMarkup(DecodeEntities(s))
}

// DecodeEntities resolves named, decimal and hexadecimal character
// references. A second sweep resolves numeric references the first pass
// left literal. References that do not name a valid code point are kept.
func DecodeEntities(s string) string {
	s = html.UnescapeString(s)
	if !strings.Contains(s, "&#") {
		return s
	}
	s = decimalRef.ReplaceAllStringFunc(s, func(ref string) string {
		return resolveRef(ref, decimalRef, 10)
	})
	return hexRef.ReplaceAllStringFunc(s, func(ref string) string {
		return resolveRef(ref, hexRef, 16)
	})
}

func resolveRef(ref string, pattern *regexp.Regexp, base int) string {
	digits := pattern.FindStringSubmatch(ref)[1]
	n, err := strconv.ParseInt(digits, base, 32)
	if err != nil {
		return ref
	}
	r := rune(n)
	if !utf8.ValidRune(r) {
		return ref
	}
	return string(r)
}

// StripMarkup converts <br> variants to newlines, drops every other tag,
// removes carriage returns, collapses runs of three or more newlines to
// two and runs of spaces to one, then trims. StripMarkup is idempotent.
func StripMarkup(s string) string {
	s = lineBreakTag.ReplaceAllString(s, "\n")
	s = anyTag.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\r", "")
	s = newlineRun.ReplaceAllString(s, "\n\n")
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
