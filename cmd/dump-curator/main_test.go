package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dump-curator/internal/export"
)

const cliDump = `INSERT INTO ` + "`witze`" + ` VALUES
(1, 0, 9, 'anna', '2009-01-01', 'Das ist ein unverifizierter Witz über nichts Besonderes.'),
(2, 1, 5, 'bert', '2009-01-02', 'Warum ist die Banane krumm? Weil sie sich vor Gott gebückt hat.'),
(3, 1, 0, 'carl', '2009-01-03', 'Why did the chicken cross the road?');
`

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--log-level", "none"))
	require.NoError(t, rootCmd.Execute(), "args %v: %s", args, out.String())
	return out.String()
}

func TestCLIRoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "witze.sql")
	output := filepath.Join(dir, "witze.json")
	db := filepath.Join(dir, "catalog.db")
	require.NoError(t, os.WriteFile(input, []byte(cliDump), 0o644))

	out := execute(t, "extract", "--input", input, "--output", output)
	assert.Contains(t, out, "Found 3 total entries in dump")
	assert.Contains(t, out, "Selected 1 entries for export")
	assert.Contains(t, out, "Banane")

	entries, err := export.Read(output)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Added)

	out = execute(t, "catalog", "import", output, "--db", db)
	assert.Contains(t, out, "inserted: 1")

	entries, err = export.Read(output)
	require.NoError(t, err)
	assert.True(t, entries[0].Added)

	out = execute(t, "catalog", "status", "--db", db)
	assert.Contains(t, out, "pending")

	out = execute(t, "reset", output)
	assert.Contains(t, out, "added=true 1, added=false 0")

	entries, err = export.Read(output)
	require.NoError(t, err)
	assert.False(t, entries[0].Added)
}

func TestCLIVersion(t *testing.T) {
	out := execute(t, "version")
	assert.Equal(t, "dump-curator dev\n", out)
}
