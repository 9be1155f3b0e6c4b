package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/techtalk/routinely/internal/models"
)

func TestJSONStoreDropsCorruptRecordsOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	good := models.DailyProgress{UserID: "ada", Date: "2025-03-10", CompletedItems: []string{"prayer"}}
	bad := models.DailyProgress{UserID: "ada", Date: "not-a-date", CompletedItems: []string{"prayer"}}
	for _, rec := range []models.DailyProgress{good, bad} {
		if err := store.SaveProgress(rec); err != nil {
			t.Fatalf("failed to save progress: %v", err)
		}
	}

	// A fresh load drops the malformed record and keeps the rest
	reloaded := NewJSONStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}

	records, err := reloaded.ListProgress("ada")
	if err != nil {
		t.Fatalf("failed to list progress: %v", err)
	}
	if len(records) != 1 || records[0].Date != "2025-03-10" {
		t.Errorf("expected only the well-formed record to survive, got %+v", records)
	}
}

func TestSQLiteStoreTreatsCorruptRecordAsAbsent(t *testing.T) {
	store := setupTestSQLiteStore(t)

	_, err := store.GetDB().Exec(`
		INSERT INTO daily_progress (user_id, date, completed_items, last_updated)
		VALUES ('ada', '2025-03-10', '{not json', '2025-03-10T09:00:00Z')`)
	if err != nil {
		t.Fatalf("failed to insert corrupt row: %v", err)
	}

	if _, err := store.GetProgress("ada", "2025-03-10"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected a corrupt record to read as absent, got %v", err)
	}

	records, err := store.ListProgress("ada")
	if err != nil {
		t.Fatalf("failed to list progress: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected the corrupt record to be skipped, got %+v", records)
	}
}
