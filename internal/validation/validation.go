package validation

import (
	"fmt"
	"time"

	"github.com/techtalk/routinely/internal/catalog"
	"github.com/techtalk/routinely/internal/constants"
	"github.com/techtalk/routinely/internal/models"
	"github.com/techtalk/routinely/internal/storage"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidDate     ConflictType = "invalid_date"
	ConflictUnknownItem     ConflictType = "unknown_item"
	ConflictDuplicateItem   ConflictType = "duplicate_item"
	ConflictRateOutOfRange  ConflictType = "rate_out_of_range"
	ConflictNegativeStreak  ConflictType = "negative_streak"
	ConflictDuplicateUserID ConflictType = "duplicate_user_id"
)

// Conflict represents a detected problem in stored data
type Conflict struct {
	Type        ConflictType
	Description string
	UserID      string
	Date        string // YYYY-MM-DD format (if applicable)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator checks stored records against the catalog and data model
type Validator struct {
	catalog *catalog.Catalog
}

func New(cat *catalog.Catalog) *Validator {
	return &Validator{catalog: cat}
}

// CheckProgress validates a single progress record's shape.
func (v *Validator) CheckProgress(rec models.DailyProgress) []Conflict {
	var conflicts []Conflict

	if _, err := time.Parse(constants.DateFormat, rec.Date); err != nil {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictInvalidDate,
			Description: fmt.Sprintf("progress record for %s has invalid date %q", rec.UserID, rec.Date),
			UserID:      rec.UserID,
			Date:        rec.Date,
		})
	}

	seen := make(map[string]bool)
	for _, itemID := range rec.CompletedItems {
		if seen[itemID] {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictDuplicateItem,
				Description: fmt.Sprintf("progress for %s on %s lists item %q twice", rec.UserID, rec.Date, itemID),
				UserID:      rec.UserID,
				Date:        rec.Date,
			})
		}
		seen[itemID] = true

		if !v.catalog.Has(itemID) {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictUnknownItem,
				Description: fmt.Sprintf("progress for %s on %s references unknown item %q", rec.UserID, rec.Date, itemID),
				UserID:      rec.UserID,
				Date:        rec.Date,
			})
		}
	}

	return conflicts
}

// CheckHistory validates a single archived record.
func (v *Validator) CheckHistory(rec models.HistoricalData) []Conflict {
	var conflicts []Conflict

	if _, err := time.Parse(constants.DateFormat, rec.Date); err != nil {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictInvalidDate,
			Description: fmt.Sprintf("historical record for %s has invalid date %q", rec.UserID, rec.Date),
			UserID:      rec.UserID,
			Date:        rec.Date,
		})
	}

	if rec.CompletionRate < 0 || rec.CompletionRate > 100 {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictRateOutOfRange,
			Description: fmt.Sprintf("historical record for %s on %s has completion rate %d", rec.UserID, rec.Date, rec.CompletionRate),
			UserID:      rec.UserID,
			Date:        rec.Date,
		})
	}

	if rec.Streak < 0 {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictNegativeStreak,
			Description: fmt.Sprintf("historical record for %s on %s has negative streak %d", rec.UserID, rec.Date, rec.Streak),
			UserID:      rec.UserID,
			Date:        rec.Date,
		})
	}

	return conflicts
}

// ValidateStore scans every user's records for conflicts.
func (v *Validator) ValidateStore(store storage.Provider) (ValidationResult, error) {
	result := ValidationResult{Conflicts: []Conflict{}}

	users, err := store.GetAllUsers()
	if err != nil {
		return result, fmt.Errorf("failed to load users: %w", err)
	}

	ids := make(map[string]bool)
	for _, user := range users {
		if ids[user.ID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateUserID,
				Description: fmt.Sprintf("duplicate user id %s", user.ID),
				UserID:      user.ID,
			})
		}
		ids[user.ID] = true
	}

	for _, user := range users {
		progress, err := store.ListProgress(user.ID)
		if err != nil {
			return result, fmt.Errorf("failed to list progress for %s: %w", user.ID, err)
		}
		for _, rec := range progress {
			result.Conflicts = append(result.Conflicts, v.CheckProgress(rec)...)
		}

		history, err := store.ListHistory(user.ID, 0)
		if err != nil {
			return result, fmt.Errorf("failed to list history for %s: %w", user.ID, err)
		}
		for _, rec := range history {
			result.Conflicts = append(result.Conflicts, v.CheckHistory(rec)...)
		}
	}

	return result, nil
}
