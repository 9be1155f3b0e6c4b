package storage

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationFS returns the embedded SQL migrations as a flat filesystem.
func MigrationFS() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic("migrations are embedded at build time: " + err.Error())
	}
	return sub
}
