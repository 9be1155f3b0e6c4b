package tracker

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/techtalk/routinely/internal/catalog"
	"github.com/techtalk/routinely/internal/clock"
	"github.com/techtalk/routinely/internal/constants"
	"github.com/techtalk/routinely/internal/models"
	"github.com/techtalk/routinely/internal/storage"
)

// ErrInvalidItem is returned when a toggle names an item that is not part of
// the checklist for the record's date.
var ErrInvalidItem = errors.New("invalid routine item")

// Tracker is the daily-progress lifecycle engine. It owns the day-boundary
// transition: exactly one live record per user at a time, stale records
// archived into history with their completion rate and streak.
type Tracker struct {
	store   storage.Provider
	catalog *catalog.Catalog
	clock   clock.Clock
}

func New(store storage.Provider, cat *catalog.Catalog, clk clock.Clock) *Tracker {
	return &Tracker{
		store:   store,
		catalog: cat,
		clock:   clk,
	}
}

// EnsureTodayRecord returns the live record for (userID, today), creating an
// empty one if absent. Any stale record for the user is archived first, so a
// successful return guarantees the user has exactly one live record and it
// is dated today.
func (t *Tracker) EnsureTodayRecord(userID string) (models.DailyProgress, error) {
	today := t.clock.CurrentDate()

	rec, err := t.store.GetProgress(userID, today)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.DailyProgress{}, fmt.Errorf("failed to read today's progress: %w", err)
	}

	if _, err := t.CheckAndPerformDailyReset(userID); err != nil {
		return models.DailyProgress{}, err
	}

	rec = models.DailyProgress{
		UserID:         userID,
		Date:           today,
		CompletedItems: []string{},
		LastUpdated:    t.clock.Now(),
	}
	if err := t.store.SaveProgress(rec); err != nil {
		return models.DailyProgress{}, fmt.Errorf("failed to create today's progress: %w", err)
	}

	log.Debug("created progress record", "user", userID, "date", today)
	return rec, nil
}

// CheckAndPerformDailyReset archives every live record of the user whose
// date is no longer today, regardless of how many days have elapsed since.
// Each stale record becomes a historical entry carrying its completion rate
// and the streak ending on its own date, and the live copy is removed.
// Calling it again with no new stale record is a no-op returning false.
func (t *Tracker) CheckAndPerformDailyReset(userID string) (bool, error) {
	today := t.clock.CurrentDate()

	records, err := t.store.ListProgress(userID)
	if err != nil {
		return false, fmt.Errorf("failed to list progress: %w", err)
	}

	archived := false
	for _, rec := range records {
		if rec.Date == today {
			continue
		}

		rate := CompletionRate(len(rec.CompletedItems), t.catalog.ActiveCount(rec.Date))

		// Streak is computed while the live record still exists so the
		// archived day counts itself.
		streak, err := t.Streak(userID, rec.Date)
		if err != nil {
			return archived, err
		}

		hist := models.HistoricalData{
			UserID:         rec.UserID,
			Date:           rec.Date,
			CompletedItems: rec.CompletedItems,
			CompletionRate: rate,
			Streak:         streak,
		}
		if err := t.store.ArchiveProgress(hist); err != nil {
			return archived, fmt.Errorf("failed to archive progress for %s: %w", rec.Date, err)
		}

		log.Info("archived stale progress",
			"user", userID, "date", rec.Date, "rate", rate, "streak", streak)
		archived = true
	}

	return archived, nil
}

// ToggleItem flips the completion state of an item on today's record. The
// item must be active on the record's date; unknown or off-day items fail
// with ErrInvalidItem.
func (t *Tracker) ToggleItem(userID, itemID string) (models.DailyProgress, error) {
	rec, err := t.EnsureTodayRecord(userID)
	if err != nil {
		return models.DailyProgress{}, err
	}

	if !t.catalog.ActiveOn(itemID, rec.Date) {
		return models.DailyProgress{}, fmt.Errorf("%w: %s is not on the checklist for %s", ErrInvalidItem, itemID, rec.Date)
	}

	rec.Toggle(itemID)
	rec.LastUpdated = t.clock.Now()

	if err := t.store.SaveProgress(rec); err != nil {
		return models.DailyProgress{}, fmt.Errorf("failed to save progress: %w", err)
	}

	return rec, nil
}

// Streak counts consecutive days with at least one completed item, walking
// backward from anchorDate. The live record is consulted before history for
// each date. The walk is bounded so sparse or corrupted data can't make it
// run away.
func (t *Tracker) Streak(userID, anchorDate string) (int, error) {
	anchor, err := time.Parse(constants.DateFormat, anchorDate)
	if err != nil {
		return 0, fmt.Errorf("invalid anchor date %q: %w", anchorDate, err)
	}

	streak := 0
	for i := 0; i < constants.MaxStreakLookbackDays; i++ {
		date := anchor.AddDate(0, 0, -i).Format(constants.DateFormat)

		count, found, err := t.completedCount(userID, date)
		if err != nil {
			return 0, err
		}
		if !found || count == 0 {
			break
		}
		streak++
	}

	return streak, nil
}

// completedCount looks up the record for a date, live first then archived,
// and returns how many items it has completed.
func (t *Tracker) completedCount(userID, date string) (int, bool, error) {
	if rec, err := t.store.GetProgress(userID, date); err == nil {
		return len(rec.CompletedItems), true, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return 0, false, fmt.Errorf("failed to read progress for %s: %w", date, err)
	}

	if hist, err := t.store.GetHistory(userID, date); err == nil {
		return len(hist.CompletedItems), true, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return 0, false, fmt.Errorf("failed to read history for %s: %w", date, err)
	}

	return 0, false, nil
}

// CompletedCountOn reports the completed-item count for a date from either
// keyspace. Used by the weekly aggregator.
func (t *Tracker) CompletedCountOn(userID, date string) (int, bool, error) {
	return t.completedCount(userID, date)
}

// RecordOn returns the completed items for a date, live or archived.
func (t *Tracker) RecordOn(userID, date string) ([]string, bool, error) {
	if rec, err := t.store.GetProgress(userID, date); err == nil {
		return rec.CompletedItems, true, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to read progress for %s: %w", date, err)
	}

	if hist, err := t.store.GetHistory(userID, date); err == nil {
		return hist.CompletedItems, true, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to read history for %s: %w", date, err)
	}

	return nil, false, nil
}

// Catalog exposes the routine catalog the engine was built with.
func (t *Tracker) Catalog() *catalog.Catalog {
	return t.catalog
}

// Clock exposes the engine's clock.
func (t *Tracker) Clock() clock.Clock {
	return t.clock
}

// CompletionRate returns round(100 * completed / total). The denominator is
// guarded to at least 1 so dates with no active items can't divide by zero.
func CompletionRate(completed, total int) int {
	if total < 1 {
		total = 1
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
