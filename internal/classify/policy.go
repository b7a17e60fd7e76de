// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed default_policy.yaml
var defaultPolicyYAML []byte

// Policy is the data behind the admission gate: indicator lists, the
// denylist, and the language thresholds.
type Policy struct {
	Language   LanguagePolicy   `yaml:"language"`
	Moderation ModerationPolicy `yaml:"moderation"`
}

// LanguagePolicy configures the Language classifier.
type LanguagePolicy struct {
	// ForeignThreshold: more foreign markers than this, with fewer than
	// TargetMinimum target markers, classifies text as foreign.
	ForeignThreshold int `yaml:"foreign_threshold"`

	// TargetMinimum is the target marker count that outweighs foreign evidence.
	TargetMinimum int `yaml:"target_minimum"`

	// EvidenceLength is the rune length above which text without any
	// target marker is rejected.
	EvidenceLength int `yaml:"evidence_length"`

	Target  []string `yaml:"target"`
	Foreign []string `yaml:"foreign"`
}

// ModerationPolicy configures the Moderator.
type ModerationPolicy struct {
	Denylist []string `yaml:"denylist"`
}

// DefaultPolicy returns the embedded German policy.
func DefaultPolicy() Policy {
	p, err := ParsePolicy(defaultPolicyYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded policy: %v", err))
	}
	return p
}

// LoadPolicy reads a policy document from path. An empty path returns the
// embedded default.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("reading policy %s: %w", path, err)
	}
	p, err := ParsePolicy(data)
	if err != nil {
		return Policy{}, fmt.Errorf("policy %s: %w", path, err)
	}
	return p, nil
}

// ParsePolicy decodes a YAML policy and lowercases every indicator.
func ParsePolicy(data []byte) (Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("parsing policy: %w", err)
	}
	if len(p.Language.Target) == 0 {
		return Policy{}, fmt.Errorf("parsing policy: language.target is empty")
	}
	p.Language.Target = lowerAll(p.Language.Target)
	p.Language.Foreign = lowerAll(p.Language.Foreign)
	p.Moderation.Denylist = lowerAll(p.Moderation.Denylist)
	return p, nil
}

func lowerAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t == "" {
			continue
		}
		out = append(out, strings.ToLower(t))
	}
	return out
}

// NewGate builds the standard gate for p: moderation, then language.
func (p Policy) NewGate() *Gate {
	return NewGate(NewModerator(p.Moderation), NewLanguage(p.Language))
}
