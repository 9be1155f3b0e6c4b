package models

import (
	"slices"
	"time"
)

// DailyProgress is the live record of a user's checklist for a single day.
// At most one live record exists per (UserID, Date); a record whose date is
// no longer today is stale and gets archived into HistoricalData.
type DailyProgress struct {
	UserID         string    `json:"user_id"`
	Date           string    `json:"date"` // YYYY-MM-DD format
	CompletedItems []string  `json:"completed_items"`
	LastUpdated    time.Time `json:"last_updated"`
}

// Completed reports whether the given routine item is marked done.
func (p *DailyProgress) Completed(itemID string) bool {
	return slices.Contains(p.CompletedItems, itemID)
}

// Toggle flips the completion state of the given routine item.
func (p *DailyProgress) Toggle(itemID string) {
	if i := slices.Index(p.CompletedItems, itemID); i >= 0 {
		p.CompletedItems = slices.Delete(p.CompletedItems, i, i+1)
		return
	}
	p.CompletedItems = append(p.CompletedItems, itemID)
}

// HistoricalData is the immutable archive of a past day's progress. Written
// once during the day-boundary reset and never mutated afterwards; streaks
// and weekly reports read from it.
type HistoricalData struct {
	UserID         string   `json:"user_id"`
	Date           string   `json:"date"` // YYYY-MM-DD format
	CompletedItems []string `json:"completed_items"`
	CompletionRate int      `json:"completion_rate"` // 0-100
	Streak         int      `json:"streak"`          // consecutive active days ending at Date
}
