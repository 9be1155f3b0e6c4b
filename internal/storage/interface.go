package storage

import (
	"errors"

	"github.com/techtalk/routinely/internal/models"
)

// ErrNotFound is returned when a requested user or record does not exist in
// the store. Callers branch on it with errors.Is; any other error means the
// persistence layer itself is unavailable.
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (Settings, error)
	SaveSettings(Settings) error

	// Users
	SaveUser(models.User) error
	GetUser(id string) (models.User, error)
	GetUserByName(name string) (models.User, error)
	GetAllUsers() ([]models.User, error)

	// Session
	SetCurrentUser(id string) error
	CurrentUser() (string, error)

	// Live daily progress
	SaveProgress(models.DailyProgress) error
	GetProgress(userID, date string) (models.DailyProgress, error)
	ListProgress(userID string) ([]models.DailyProgress, error)
	DeleteProgress(userID, date string) error

	// Archived history
	SaveHistory(models.HistoricalData) error
	GetHistory(userID, date string) (models.HistoricalData, error)
	ListHistory(userID string, limit int) ([]models.HistoricalData, error)

	// ArchiveProgress writes the historical entry and deletes the live
	// record for the same (user, date) in a single unit where the backend
	// supports it.
	ArchiveProgress(models.HistoricalData) error

	// Utils
	GetConfigPath() string
}
