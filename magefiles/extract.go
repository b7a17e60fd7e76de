//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var (
	sampleDump   = filepath.Join("data", "sample.sql")
	sampleOutput = filepath.Join("output", "sample.json")
)

// sampleTuples is a small dump covering the interesting paths: an
// unverified entry, a voted German entry, an English entry, markup,
// entities and both quote escapes.
const sampleTuples = `-- sample dump for local runs
INSERT INTO ` + "`witze`" + ` VALUES
(1, 0, 9, 'anna', '2009-01-01', 'Das ist ein unverifizierter Witz über nichts Besonderes.'),
(2, 1, 5, 'bert', '2009-01-02', 'Warum ist die Banane krumm? Weil sie sich vor Gott gebückt hat.'),
(3, 1, 0, 'carl', '2009-01-03', 'Why did the chicken cross the road?'),
(4, 1, 0, 'dora', '2009-01-04', 'Er sagt: \'Hallo\'<br />und sie sagt: ''Tsch&uuml;ss'', weil sie nach Hause geht.'),
(5, 1, 2, 'emil', '2009-01-05', '<b>Treffen sich zwei J&auml;ger.</b> Beide tot.');
`

// Sample writes a small dump to data/sample.sql.
func Sample() error {
	mg.Deps(Init)
	if err := os.WriteFile(sampleDump, []byte(sampleTuples), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", sampleDump, err)
	}
	fmt.Printf("Wrote %s\n", sampleDump)
	return nil
}

// Extract builds the binary and runs an extraction over the sample dump.
func Extract() error {
	mg.Deps(Build, Sample)
	return sh.RunV(binPath, "extract", "--input", sampleDump, "--output", sampleOutput)
}

// Reset clears the added flags in the sample output.
func Reset() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "reset", sampleOutput)
}
