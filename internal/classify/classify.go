// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify decides whether a cleaned entry is admitted to the
// output. Each heuristic is a Classifier; a Gate admits text only when
// every classifier accepts it.
package classify

import (
	"strings"
	"unicode/utf8"
)

// Verdict is the outcome of a classification.
type Verdict bool

const (
	Accept Verdict = true
	Reject Verdict = false
)

// Classifier is a pure, stateless text heuristic. Implementations must
// return the same Verdict for the same text.
type Classifier interface {
	Name() string
	Classify(text string) Verdict
}

// Language scores text against target-language and foreign-language
// indicator sets.
type Language struct {
	policy LanguagePolicy
}

// NewLanguage returns a Language classifier. Indicators are expected in
// lower case; ParsePolicy guarantees that.
func NewLanguage(p LanguagePolicy) *Language {
	return &Language{policy: p}
}

// Name implements Classifier.
func (l *Language) Name() string { return "language" }

// Scores returns how many target and foreign indicators occur in text.
// Each indicator counts once regardless of repetitions.
func (l *Language) Scores(text string) (target, foreign int) {
	lower := strings.ToLower(text)
	return countPresent(lower, l.policy.Target), countPresent(lower, l.policy.Foreign)
}

// Classify implements Classifier. Rules, in order:
//  1. clearly foreign (foreign > threshold, target < minimum) rejects;
//  2. no target marker in text longer than EvidenceLength rejects;
//  3. no target marker but some foreign marker rejects;
//  4. everything else is accepted.
//
// Rule 3 applies at any length, so EvidenceLength only governs texts with
// no marker of either kind; a short text with a single foreign marker and
// no target marker is rejected regardless of it.
func (l *Language) Classify(text string) Verdict {
	target, foreign := l.Scores(text)

	if foreign > l.policy.ForeignThreshold && target < l.policy.TargetMinimum {
		return Reject
	}
	if target == 0 && utf8.RuneCountInString(text) > l.policy.EvidenceLength {
		return Reject
	}
	if target == 0 && foreign > 0 {
		return Reject
	}
	return Accept
}

// Moderator rejects text containing any denylisted substring.
// Matching is by substring, not whole word, so it over-rejects.
type Moderator struct {
	denylist []string
}

// NewModerator returns a Moderator for p.
func NewModerator(p ModerationPolicy) *Moderator {
	return &Moderator{denylist: p.Denylist}
}

// Name implements Classifier.
func (m *Moderator) Name() string { return "moderation" }

// Classify implements Classifier.
func (m *Moderator) Classify(text string) Verdict {
	if m.Match(text) != "" {
		return Reject
	}
	return Accept
}

// Match returns the first denylisted term found in text, or "".
func (m *Moderator) Match(text string) string {
	lower := strings.ToLower(text)
	for _, term := range m.denylist {
		if strings.Contains(lower, term) {
			return term
		}
	}
	return ""
}

// Gate composes classifiers by conjunction.
type Gate struct {
	classifiers []Classifier
}

// NewGate returns a Gate that consults classifiers in order.
func NewGate(classifiers ...Classifier) *Gate {
	return &Gate{classifiers: classifiers}
}

// Admit reports whether every classifier accepts text. When text is
// rejected, rejectedBy names the first classifier that rejected it.
func (g *Gate) Admit(text string) (ok bool, rejectedBy string) {
	for _, c := range g.classifiers {
		if c.Classify(text) == Reject {
			return false, c.Name()
		}
	}
	return true, ""
}

func countPresent(text string, indicators []string) int {
	n := 0
	for _, ind := range indicators {
		if strings.Contains(text, ind) {
			n++
		}
	}
	return n
}
