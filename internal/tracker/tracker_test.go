package tracker

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/techtalk/routinely/internal/catalog"
	"github.com/techtalk/routinely/internal/clock"
	"github.com/techtalk/routinely/internal/models"
	"github.com/techtalk/routinely/internal/storage"
)

// newTestTracker builds a tracker over a JSON store with a pinned clock.
// Mutating *now moves the tracker's idea of today.
func newTestTracker(t *testing.T, now *time.Time) (*Tracker, storage.Provider) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "store.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}

	clk, err := clock.NewAt("UTC", func() time.Time { return *now })
	if err != nil {
		t.Fatalf("failed to build test clock: %v", err)
	}

	return New(store, catalog.Default(), clk), store
}

func TestEnsureTodayRecordCreatesEmptyRecord(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) // a Monday
	trk, store := newTestTracker(t, &now)

	rec, err := trk.EnsureTodayRecord("user-1")
	if err != nil {
		t.Fatalf("failed to ensure today's record: %v", err)
	}
	if rec.Date != "2025-03-10" {
		t.Errorf("expected date 2025-03-10, got %s", rec.Date)
	}
	if len(rec.CompletedItems) != 0 {
		t.Errorf("expected empty completed items, got %v", rec.CompletedItems)
	}

	// A second call must return the same record, not a fresh one
	if _, err := trk.ToggleItem("user-1", "prayer"); err != nil {
		t.Fatalf("failed to toggle: %v", err)
	}
	rec, err = trk.EnsureTodayRecord("user-1")
	if err != nil {
		t.Fatalf("failed to re-ensure today's record: %v", err)
	}
	if !rec.Completed("prayer") {
		t.Error("re-ensuring today's record lost the toggle")
	}

	// Exactly one live record exists
	records, err := store.ListProgress("user-1")
	if err != nil {
		t.Fatalf("failed to list progress: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected exactly one live record, got %d", len(records))
	}
}

func TestToggleItemRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) // Monday
	trk, _ := newTestTracker(t, &now)

	rec, err := trk.ToggleItem("user-1", "prayer")
	if err != nil {
		t.Fatalf("failed to toggle on: %v", err)
	}
	if !rec.Completed("prayer") {
		t.Error("expected prayer to be completed after first toggle")
	}

	rec, err = trk.ToggleItem("user-1", "prayer")
	if err != nil {
		t.Fatalf("failed to toggle off: %v", err)
	}
	if rec.Completed("prayer") {
		t.Error("expected prayer to be uncompleted after second toggle")
	}
}

func TestToggleItemRejectsInvalidItems(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) // Monday
	trk, _ := newTestTracker(t, &now)

	if _, err := trk.ToggleItem("user-1", "juggling"); !errors.Is(err, ErrInvalidItem) {
		t.Errorf("expected ErrInvalidItem for unknown item, got %v", err)
	}

	// Fasting is only active on Wednesdays and Fridays
	if _, err := trk.ToggleItem("user-1", "fasting"); !errors.Is(err, ErrInvalidItem) {
		t.Errorf("expected ErrInvalidItem for off-day item, got %v", err)
	}

	now = time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC) // Wednesday
	if _, err := trk.ToggleItem("user-1", "fasting"); err != nil {
		t.Errorf("expected fasting to toggle on Wednesday, got %v", err)
	}
}

func TestDailyResetArchivesStaleRecord(t *testing.T) {
	now := time.Date(2025, 3, 6, 20, 0, 0, 0, time.UTC) // Thursday, 8 active items
	trk, store := newTestTracker(t, &now)

	// Two archived days leading up to the stale one
	for _, date := range []string{"2025-03-04", "2025-03-05"} {
		err := store.SaveHistory(models.HistoricalData{
			UserID:         "user-1",
			Date:           date,
			CompletedItems: []string{"prayer"},
			CompletionRate: 13,
			Streak:         1,
		})
		if err != nil {
			t.Fatalf("failed to seed history: %v", err)
		}
	}

	// Thursday's live record with 3 of 8 items done
	for _, item := range []string{"prayer", "study", "hygiene"} {
		if _, err := trk.ToggleItem("user-1", item); err != nil {
			t.Fatalf("failed to toggle %s: %v", item, err)
		}
	}

	// Cross the day boundary
	now = time.Date(2025, 3, 7, 8, 0, 0, 0, time.UTC)

	archived, err := trk.CheckAndPerformDailyReset("user-1")
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if !archived {
		t.Fatal("expected the stale record to be archived")
	}

	hist, err := store.GetHistory("user-1", "2025-03-06")
	if err != nil {
		t.Fatalf("archived record missing from history: %v", err)
	}
	if hist.CompletionRate != 38 { // round(300 / 8)
		t.Errorf("expected completion rate 38, got %d", hist.CompletionRate)
	}
	if hist.Streak != 3 {
		t.Errorf("expected streak 3 (archived day plus two history days), got %d", hist.Streak)
	}
	if len(hist.CompletedItems) != 3 {
		t.Errorf("expected 3 completed items, got %v", hist.CompletedItems)
	}

	// The live copy is gone
	if _, err := store.GetProgress("user-1", "2025-03-06"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected live record to be deleted, got %v", err)
	}

	// A second reset with nothing stale is a no-op
	archived, err = trk.CheckAndPerformDailyReset("user-1")
	if err != nil {
		t.Fatalf("second reset failed: %v", err)
	}
	if archived {
		t.Error("expected second reset to archive nothing")
	}
}

func TestDailyResetArchivesAfterMultiDayGap(t *testing.T) {
	now := time.Date(2025, 3, 7, 20, 0, 0, 0, time.UTC)
	trk, store := newTestTracker(t, &now)

	if _, err := trk.ToggleItem("user-1", "prayer"); err != nil {
		t.Fatalf("failed to toggle: %v", err)
	}

	// The user doesn't come back for five days
	now = time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)

	rec, err := trk.EnsureTodayRecord("user-1")
	if err != nil {
		t.Fatalf("failed to ensure today's record: %v", err)
	}
	if rec.Date != "2025-03-12" {
		t.Errorf("expected fresh record for 2025-03-12, got %s", rec.Date)
	}

	if _, err := store.GetHistory("user-1", "2025-03-07"); err != nil {
		t.Errorf("expected the stale record to land in history despite the gap: %v", err)
	}
}

func TestStreakCountsConsecutiveDays(t *testing.T) {
	now := time.Date(2025, 3, 7, 20, 0, 0, 0, time.UTC)
	trk, store := newTestTracker(t, &now)

	for _, date := range []string{"2025-03-05", "2025-03-06"} {
		err := store.SaveHistory(models.HistoricalData{
			UserID:         "user-1",
			Date:           date,
			CompletedItems: []string{"study"},
			CompletionRate: 13,
			Streak:         1,
		})
		if err != nil {
			t.Fatalf("failed to seed history: %v", err)
		}
	}

	if _, err := trk.ToggleItem("user-1", "prayer"); err != nil {
		t.Fatalf("failed to toggle: %v", err)
	}

	streak, err := trk.Streak("user-1", "2025-03-07")
	if err != nil {
		t.Fatalf("streak failed: %v", err)
	}
	if streak != 3 {
		t.Errorf("expected streak 3, got %d", streak)
	}
}

func TestStreakBreaksOnGapsAndEmptyDays(t *testing.T) {
	now := time.Date(2025, 3, 7, 20, 0, 0, 0, time.UTC)
	trk, store := newTestTracker(t, &now)

	// 03-05 completed, 03-06 missing entirely
	err := store.SaveHistory(models.HistoricalData{
		UserID:         "user-1",
		Date:           "2025-03-05",
		CompletedItems: []string{"study"},
		CompletionRate: 13,
		Streak:         1,
	})
	if err != nil {
		t.Fatalf("failed to seed history: %v", err)
	}

	if _, err := trk.ToggleItem("user-1", "prayer"); err != nil {
		t.Fatalf("failed to toggle: %v", err)
	}

	streak, err := trk.Streak("user-1", "2025-03-07")
	if err != nil {
		t.Fatalf("streak failed: %v", err)
	}
	if streak != 1 {
		t.Errorf("expected gap to break the streak at 1, got %d", streak)
	}

	// A day with a record but zero completed items also breaks the streak
	if _, err := trk.EnsureTodayRecord("user-2"); err != nil {
		t.Fatalf("failed to ensure record: %v", err)
	}
	streak, err = trk.Streak("user-2", "2025-03-07")
	if err != nil {
		t.Fatalf("streak failed: %v", err)
	}
	if streak != 0 {
		t.Errorf("expected streak 0 for an empty day, got %d", streak)
	}

	// Two active days on top of a zero-completion day count 2, not 3
	histories := []models.HistoricalData{
		{UserID: "user-3", Date: "2025-03-05", CompletedItems: []string{}, CompletionRate: 0, Streak: 0},
		{UserID: "user-3", Date: "2025-03-06", CompletedItems: []string{"study"}, CompletionRate: 13, Streak: 1},
	}
	for _, h := range histories {
		if err := store.SaveHistory(h); err != nil {
			t.Fatalf("failed to seed history: %v", err)
		}
	}
	if _, err := trk.ToggleItem("user-3", "prayer"); err != nil {
		t.Fatalf("failed to toggle: %v", err)
	}
	streak, err = trk.Streak("user-3", "2025-03-07")
	if err != nil {
		t.Fatalf("streak failed: %v", err)
	}
	if streak != 2 {
		t.Errorf("expected the zero-completion day to cap the streak at 2, got %d", streak)
	}
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"none done", 0, 8, 0},
		{"quarter done", 2, 8, 25},
		{"all done", 8, 8, 100},
		{"rounds up", 3, 8, 38},
		{"rounds half up", 1, 8, 13},
		{"zero denominator guarded", 0, 0, 0},
		{"completed with no active items", 2, 0, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompletionRate(tt.completed, tt.total); got != tt.want {
				t.Errorf("CompletionRate(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
			}
		})
	}
}
