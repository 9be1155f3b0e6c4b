package migration

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func migrationsFS(migrations map[string]string) fstest.MapFS {
	mapFS := fstest.MapFS{}
	for name, content := range migrations {
		mapFS[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return mapFS
}

func TestGetCurrentVersionFreshDatabase(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationsFS(map[string]string{
		"001_test.sql": "CREATE TABLE test (id INTEGER);",
	}))

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 on a fresh database, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationsFS(map[string]string{
		"001_init.sql":    "CREATE TABLE test1 (id INTEGER);",
		"002_update.sql":  "ALTER TABLE test1 ADD COLUMN name TEXT;",
		"003_another.sql": "CREATE TABLE test2 (id INTEGER);",
		"README.md":       "not a migration",
	}))

	migrations, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}

	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "init" {
		t.Errorf("migration 0: expected version 1 and name 'init', got version %d and name %q", migrations[0].Version, migrations[0].Name)
	}
	if migrations[2].Version != 3 || migrations[2].Name != "another" {
		t.Errorf("migration 2: expected version 3 and name 'another', got version %d and name %q", migrations[2].Version, migrations[2].Name)
	}
}

func TestReadMigrationFilesRejectsBadNames(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name  string
		files map[string]string
	}{
		{"no version prefix", map[string]string{"init.sql": "SELECT 1;"}},
		{"non-numeric version", map[string]string{"abc_init.sql": "SELECT 1;"}},
		{"zero version", map[string]string{"000_init.sql": "SELECT 1;"}},
		{"duplicate version", map[string]string{
			"001_a.sql": "SELECT 1;",
			"001_b.sql": "SELECT 1;",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(db, migrationsFS(tt.files))
			if _, err := runner.ReadMigrationFiles(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestApplyMigrationsFromScratch(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationsFS(map[string]string{
		"001_init.sql":  "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);",
		"002_posts.sql": "CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER);",
	}))

	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("expected 2 migrations applied, got %d", applied)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2 after migrating, got %d", version)
	}

	// Both tables exist
	for _, table := range []string{"users", "posts"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("expected table %s to exist: %v", table, err)
		}
	}

	// Re-applying is a no-op
	applied, err = runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second ApplyMigrations failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected no migrations on second run, got %d", applied)
	}
}

func TestApplyMigrationsRollsBackOnFailure(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationsFS(map[string]string{
		"001_init.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY);",
		"002_bad.sql":  "THIS IS NOT SQL;",
	}))

	applied, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected the bad migration to fail")
	}
	if applied != 1 {
		t.Errorf("expected 1 migration applied before the failure, got %d", applied)
	}

	// Version stays at the last successful migration
	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("expected version 1 after a failed migration, got %d", version)
	}
}

func TestValidateVersionRejectsNewerDatabase(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationsFS(map[string]string{
		"001_init.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY);",
	}))

	if err := runner.EnsureSchemaVersionTable(); err != nil {
		t.Fatalf("failed to create schema_version table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (99)"); err != nil {
		t.Fatalf("failed to set version: %v", err)
	}

	if err := runner.ValidateVersion(); err == nil {
		t.Error("expected validation to reject a database newer than the application")
	}
}
