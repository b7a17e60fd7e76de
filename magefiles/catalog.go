//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Catalog groups targets for the SQLite candidate catalog.
type Catalog mg.Namespace

var sampleCatalog = filepath.Join("data", "catalog.db")

// Import loads the sample output into the sample catalog.
func (Catalog) Import() error {
	mg.Deps(Extract)
	return sh.RunV(binPath, "catalog", "import", sampleOutput, "--db", sampleCatalog)
}

// Status prints candidate counts of the sample catalog.
func (Catalog) Status() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "catalog", "status", "--db", sampleCatalog)
}
