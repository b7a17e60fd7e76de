package types

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid configuration")

// OutputFormat selects the serialization of the exported collection.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// Defaults for ExtractConfig.
const (
	DefaultInputPath  = "/tmp/witze.sql"
	DefaultOutputPath = "witze_schlechtewitzefront.json"
	DefaultMaxCount   = 5000
	DefaultMinLength  = 30
	DefaultMaxLength  = 700
	DefaultSeed       = 42
	DefaultSource     = "Schlechtewitzefront"
)

// LengthBounds is an inclusive range of text lengths measured in runes.
type LengthBounds struct {
	// MinLength is the shortest accepted text (default 30).
	MinLength int `json:"min_length" yaml:"min_length" mapstructure:"min_length"`

	// MaxLength is the longest accepted text (default 700).
	MaxLength int `json:"max_length" yaml:"max_length" mapstructure:"max_length"`
}

// Contains reports whether n lies within the bounds.
func (b LengthBounds) Contains(n int) bool {
	return n >= b.MinLength && n <= b.MaxLength
}

// ExtractConfig holds settings for one extraction run.
type ExtractConfig struct {
	LengthBounds `yaml:",inline" mapstructure:",squash"`

	// InputPath is the dump file to scan.
	InputPath string `json:"input" yaml:"input" mapstructure:"input"`

	// OutputPath is where the selected collection is written.
	OutputPath string `json:"output" yaml:"output" mapstructure:"output"`

	// Format selects json (default) or yaml output.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`

	// MaxCount caps the number of exported entries (default 5000).
	MaxCount int `json:"max_count" yaml:"max_count" mapstructure:"max_count"`

	// Seed feeds the shuffle of unvoted entries (default 42).
	Seed int64 `json:"seed" yaml:"seed" mapstructure:"seed"`

	// Source is the provenance label attached to every exported entry.
	Source string `json:"source" yaml:"source" mapstructure:"source"`

	// PolicyFile optionally replaces the embedded classification policy.
	PolicyFile string `json:"policy_file,omitempty" yaml:"policy_file,omitempty" mapstructure:"policy_file"`
}

// DefaultExtractConfig returns the settings the original dump was curated with.
func DefaultExtractConfig() ExtractConfig {
	return ExtractConfig{
		LengthBounds: LengthBounds{MinLength: DefaultMinLength, MaxLength: DefaultMaxLength},
		InputPath:    DefaultInputPath,
		OutputPath:   DefaultOutputPath,
		Format:       FormatJSON,
		MaxCount:     DefaultMaxCount,
		Seed:         DefaultSeed,
		Source:       DefaultSource,
	}
}

// Validate checks that the configuration can drive a run.
func (c ExtractConfig) Validate() error {
	switch {
	case c.InputPath == "":
		return fmt.Errorf("%w: input path is empty", ErrInvalidConfig)
	case c.OutputPath == "":
		return fmt.Errorf("%w: output path is empty", ErrInvalidConfig)
	case c.MaxCount <= 0:
		return fmt.Errorf("%w: max_count must be positive, got %d", ErrInvalidConfig, c.MaxCount)
	case c.MinLength < 0:
		return fmt.Errorf("%w: min_length must not be negative, got %d", ErrInvalidConfig, c.MinLength)
	case c.MinLength > c.MaxLength:
		return fmt.Errorf("%w: min_length %d exceeds max_length %d", ErrInvalidConfig, c.MinLength, c.MaxLength)
	case c.Source == "":
		return fmt.Errorf("%w: source label is empty", ErrInvalidConfig)
	}
	switch c.Format {
	case FormatJSON, FormatYAML, "":
	default:
		return fmt.Errorf("%w: unsupported format %q: use json or yaml", ErrInvalidConfig, c.Format)
	}
	return nil
}

// CatalogConfig holds settings for importing an exported collection into
// the SQLite candidate catalog.
type CatalogConfig struct {
	LengthBounds `yaml:",inline" mapstructure:",squash"`

	// DBPath is the SQLite database file.
	DBPath string `json:"db" yaml:"db" mapstructure:"db"`

	// Language is the language code stored with each candidate (e.g. "de").
	Language string `json:"language" yaml:"language" mapstructure:"language"`

	// Limit caps the number of entries imported per run (default 500).
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`

	// Seed orders unvoted entries before the limit is applied.
	Seed int64 `json:"seed" yaml:"seed" mapstructure:"seed"`
}

// DefaultCatalogConfig returns the settings used by the import step.
func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		LengthBounds: LengthBounds{MinLength: DefaultMinLength, MaxLength: DefaultMaxLength},
		DBPath:       "catalog.db",
		Language:     "de",
		Limit:        500,
		Seed:         DefaultSeed,
	}
}
