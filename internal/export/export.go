// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export turns selected candidates into output entries and reads
// and writes the output document.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dump-curator/pkg/types"
)

// ErrOutputMissing is returned when an output document to be read does not exist.
var ErrOutputMissing = errors.New("output document not found")

// Finalize attaches the provenance label and the initial added flag to
// each candidate. Order is preserved.
func Finalize(candidates []types.Candidate, source string) []types.Entry {
	entries := make([]types.Entry, len(candidates))
	for i, c := range candidates {
		entries[i] = types.Entry{
			Index:  c.ID,
			Text:   c.Text,
			Votes:  c.Votes,
			Date:   c.Date,
			Author: c.Author,
			Added:  false,
			Source: source,
		}
	}
	return entries
}

// FormatFor infers the document format from the file extension.
// Anything other than .yaml or .yml is JSON.
func FormatFor(path string) types.OutputFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return types.FormatYAML
	default:
		return types.FormatJSON
	}
}

// Write serializes entries to path in the given format. An empty format
// is inferred from the extension.
func Write(path string, format types.OutputFormat, entries []types.Entry) error {
	if format == "" {
		format = FormatFor(path)
	}
	if entries == nil {
		entries = []types.Entry{}
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case types.FormatJSON:
		data, err = marshalJSON(entries)
	case types.FormatYAML:
		data, err = yaml.Marshal(entries)
		if err != nil {
			err = fmt.Errorf("marshaling YAML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// marshalJSON indents with two spaces and leaves non-ASCII text and
// markup characters unescaped.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// writeAtomic writes to a temp file next to path and renames it into
// place, so readers never see a partial document.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// Read loads an output document. The format is inferred from the
// extension. A missing file wraps ErrOutputMissing.
func Read(path string) ([]types.Entry, error) {
	data, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	var entries []types.Entry
	switch FormatFor(path) {
	case types.FormatYAML:
		err = yaml.Unmarshal(data, &entries)
	default:
		err = json.Unmarshal(data, &entries)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return entries, nil
}

func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrOutputMissing, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
