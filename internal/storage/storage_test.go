package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/techtalk/routinely/internal/models"
)

func setupTestJSONStore(t *testing.T) *JSONStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.json")
	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize JSON store: %v", err)
	}
	return store
}

func setupTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.db")
	store := NewSQLiteStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize SQLite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// forEachBackend runs the same scenario against both storage backends.
func forEachBackend(t *testing.T, fn func(t *testing.T, store Provider)) {
	t.Run("json", func(t *testing.T) {
		fn(t, setupTestJSONStore(t))
	})
	t.Run("sqlite", func(t *testing.T) {
		fn(t, setupTestSQLiteStore(t))
	})
}

func TestSettingsRoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Provider) {
		settings, err := store.GetSettings()
		if err != nil {
			t.Fatalf("failed to get default settings: %v", err)
		}
		if settings.ReferenceTimezone == "" {
			t.Error("expected a default reference timezone")
		}

		settings.ReferenceTimezone = "Europe/Berlin"
		settings.AuthorizedUsers = []string{"Ada", "Grace"}
		if err := store.SaveSettings(settings); err != nil {
			t.Fatalf("failed to save settings: %v", err)
		}

		got, err := store.GetSettings()
		if err != nil {
			t.Fatalf("failed to reload settings: %v", err)
		}
		if got.ReferenceTimezone != "Europe/Berlin" {
			t.Errorf("expected Europe/Berlin, got %s", got.ReferenceTimezone)
		}
		if len(got.AuthorizedUsers) != 2 {
			t.Errorf("expected 2 authorized users, got %v", got.AuthorizedUsers)
		}
	})
}

func TestUserRoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Provider) {
		now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		user := models.User{
			ID:         "ada-1234",
			Name:       "Ada",
			CreatedAt:  now,
			LastActive: now,
		}
		if err := store.SaveUser(user); err != nil {
			t.Fatalf("failed to save user: %v", err)
		}

		got, err := store.GetUser("ada-1234")
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if got.Name != "Ada" {
			t.Errorf("expected name Ada, got %s", got.Name)
		}
		if !got.CreatedAt.Equal(now) {
			t.Errorf("expected created_at %v, got %v", now, got.CreatedAt)
		}

		// Lookup by name is case-insensitive
		got, err = store.GetUserByName("ADA")
		if err != nil {
			t.Fatalf("failed to get user by name: %v", err)
		}
		if got.ID != "ada-1234" {
			t.Errorf("expected id ada-1234, got %s", got.ID)
		}

		if _, err := store.GetUser("nobody"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for unknown user, got %v", err)
		}
		if _, err := store.GetUserByName("nobody"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for unknown name, got %v", err)
		}
	})
}

func TestCurrentUserRoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Provider) {
		if _, err := store.CurrentUser(); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound before anyone logs in, got %v", err)
		}

		if err := store.SetCurrentUser("ada-1234"); err != nil {
			t.Fatalf("failed to set current user: %v", err)
		}
		id, err := store.CurrentUser()
		if err != nil {
			t.Fatalf("failed to get current user: %v", err)
		}
		if id != "ada-1234" {
			t.Errorf("expected ada-1234, got %s", id)
		}

		// Clearing logs everyone out
		if err := store.SetCurrentUser(""); err != nil {
			t.Fatalf("failed to clear current user: %v", err)
		}
		if _, err := store.CurrentUser(); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after logout, got %v", err)
		}
	})
}

func TestProgressRoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Provider) {
		rec := models.DailyProgress{
			UserID:         "ada-1234",
			Date:           "2025-03-10",
			CompletedItems: []string{"prayer", "study"},
			LastUpdated:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		}
		if err := store.SaveProgress(rec); err != nil {
			t.Fatalf("failed to save progress: %v", err)
		}

		got, err := store.GetProgress("ada-1234", "2025-03-10")
		if err != nil {
			t.Fatalf("failed to get progress: %v", err)
		}
		if len(got.CompletedItems) != 2 {
			t.Errorf("expected 2 completed items, got %v", got.CompletedItems)
		}

		if _, err := store.GetProgress("ada-1234", "2025-03-11"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for missing date, got %v", err)
		}

		// Records from other users stay invisible
		other := models.DailyProgress{UserID: "bob-1", Date: "2025-03-10", CompletedItems: []string{"work"}}
		if err := store.SaveProgress(other); err != nil {
			t.Fatalf("failed to save progress: %v", err)
		}
		records, err := store.ListProgress("ada-1234")
		if err != nil {
			t.Fatalf("failed to list progress: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("expected 1 record for ada, got %d", len(records))
		}

		if err := store.DeleteProgress("ada-1234", "2025-03-10"); err != nil {
			t.Fatalf("failed to delete progress: %v", err)
		}
		if _, err := store.GetProgress("ada-1234", "2025-03-10"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestHistoryRoundTripAndLimit(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Provider) {
		dates := []string{"2025-03-01", "2025-03-02", "2025-03-03", "2025-03-04"}
		for i, date := range dates {
			err := store.SaveHistory(models.HistoricalData{
				UserID:         "ada-1234",
				Date:           date,
				CompletedItems: []string{"prayer"},
				CompletionRate: 13,
				Streak:         i + 1,
			})
			if err != nil {
				t.Fatalf("failed to save history: %v", err)
			}
		}

		got, err := store.GetHistory("ada-1234", "2025-03-03")
		if err != nil {
			t.Fatalf("failed to get history: %v", err)
		}
		if got.Streak != 3 {
			t.Errorf("expected streak 3, got %d", got.Streak)
		}

		// Limit keeps the most recent entries, ascending by date
		records, err := store.ListHistory("ada-1234", 2)
		if err != nil {
			t.Fatalf("failed to list history: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		if records[0].Date != "2025-03-03" || records[1].Date != "2025-03-04" {
			t.Errorf("expected the two most recent dates in order, got %s and %s",
				records[0].Date, records[1].Date)
		}

		all, err := store.ListHistory("ada-1234", 0)
		if err != nil {
			t.Fatalf("failed to list history: %v", err)
		}
		if len(all) != 4 {
			t.Errorf("expected 4 records with no limit, got %d", len(all))
		}
	})
}

func TestArchiveProgressMovesRecord(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Provider) {
		rec := models.DailyProgress{
			UserID:         "ada-1234",
			Date:           "2025-03-10",
			CompletedItems: []string{"prayer", "study", "work"},
			LastUpdated:    time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC),
		}
		if err := store.SaveProgress(rec); err != nil {
			t.Fatalf("failed to save progress: %v", err)
		}

		err := store.ArchiveProgress(models.HistoricalData{
			UserID:         "ada-1234",
			Date:           "2025-03-10",
			CompletedItems: rec.CompletedItems,
			CompletionRate: 38,
			Streak:         1,
		})
		if err != nil {
			t.Fatalf("failed to archive progress: %v", err)
		}

		if _, err := store.GetProgress("ada-1234", "2025-03-10"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected the live record to be gone, got %v", err)
		}
		hist, err := store.GetHistory("ada-1234", "2025-03-10")
		if err != nil {
			t.Fatalf("expected the archived record in history: %v", err)
		}
		if hist.CompletionRate != 38 || len(hist.CompletedItems) != 3 {
			t.Errorf("archived record mismatch: %+v", hist)
		}
	})
}

func TestInitRefusesExistingJSONStore(t *testing.T) {
	store := setupTestJSONStore(t)
	if err := store.Init(); err == nil {
		t.Error("expected a second init to fail")
	}
}

func TestLoadFailsBeforeInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	store := NewJSONStore(path)
	if err := store.Load(); err == nil {
		t.Error("expected load of a missing store to fail")
	}

	dbPath := filepath.Join(t.TempDir(), "missing.db")
	sqlite := NewSQLiteStore(dbPath)
	if err := sqlite.Load(); err == nil {
		t.Error("expected load of a missing database to fail")
	}
}
