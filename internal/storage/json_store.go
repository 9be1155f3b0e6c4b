package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/techtalk/routinely/internal/constants"
	"github.com/techtalk/routinely/internal/models"
)

// Store is the on-disk JSON document. The layout mirrors the browser-era
// storage keys: users, keyed daily progress, keyed historical data, and the
// active user id.
type Store struct {
	Version        int                               `json:"version"`
	Settings       Settings                          `json:"settings"`
	Users          []models.User                     `json:"users"`
	DailyProgress  map[string]models.DailyProgress   `json:"daily_progress"`
	HistoricalData map[string]models.HistoricalData  `json:"historical_data"`
	CurrentUser    string                            `json:"current_user,omitempty"`
}

type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &Store{
		Version:        1,
		Settings:       DefaultSettings(),
		Users:          []models.User{},
		DailyProgress:  make(map[string]models.DailyProgress),
		HistoricalData: make(map[string]models.HistoricalData),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'routinely init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	// Ensure maps are initialized
	if s.store.DailyProgress == nil {
		s.store.DailyProgress = make(map[string]models.DailyProgress)
	}
	if s.store.HistoricalData == nil {
		s.store.HistoricalData = make(map[string]models.HistoricalData)
	}
	if s.store.Settings.ReferenceTimezone == "" {
		s.store.Settings.ReferenceTimezone = constants.DefaultTimezone
	}

	s.dropCorruptRecords()

	return nil
}

// dropCorruptRecords removes stored records that fail basic shape checks.
// A corrupt record is treated as absent rather than crashing the lifecycle
// engine; the drop is logged so the data loss is visible.
func (s *JSONStore) dropCorruptRecords() {
	for key, rec := range s.store.DailyProgress {
		if _, err := time.Parse(constants.DateFormat, rec.Date); err != nil || rec.UserID == "" {
			log.Warn("dropping corrupt daily progress record", "key", key, "date", rec.Date)
			delete(s.store.DailyProgress, key)
		}
	}
	for key, rec := range s.store.HistoricalData {
		if _, err := time.Parse(constants.DateFormat, rec.Date); err != nil || rec.UserID == "" {
			log.Warn("dropping corrupt historical record", "key", key, "date", rec.Date)
			delete(s.store.HistoricalData, key)
		}
	}
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) GetSettings() (Settings, error) {
	if s.store == nil {
		return Settings{}, fmt.Errorf("storage not loaded")
	}
	return s.store.Settings, nil
}

func (s *JSONStore) SaveSettings(settings Settings) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Settings = settings
	return s.save()
}

func (s *JSONStore) SaveUser(user models.User) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	for i, u := range s.store.Users {
		if u.ID == user.ID {
			s.store.Users[i] = user
			return s.save()
		}
	}
	s.store.Users = append(s.store.Users, user)
	return s.save()
}

func (s *JSONStore) GetUser(id string) (models.User, error) {
	if s.store == nil {
		return models.User{}, fmt.Errorf("storage not loaded")
	}

	for _, u := range s.store.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
}

func (s *JSONStore) GetUserByName(name string) (models.User, error) {
	if s.store == nil {
		return models.User{}, fmt.Errorf("storage not loaded")
	}

	for _, u := range s.store.Users {
		if strings.EqualFold(u.Name, name) {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user %q: %w", name, ErrNotFound)
}

func (s *JSONStore) GetAllUsers() ([]models.User, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	users := make([]models.User, len(s.store.Users))
	copy(users, s.store.Users)
	return users, nil
}

func (s *JSONStore) SetCurrentUser(id string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.CurrentUser = id
	return s.save()
}

func (s *JSONStore) CurrentUser() (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("storage not loaded")
	}
	if s.store.CurrentUser == "" {
		return "", fmt.Errorf("current user: %w", ErrNotFound)
	}
	return s.store.CurrentUser, nil
}

func (s *JSONStore) SaveProgress(progress models.DailyProgress) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.DailyProgress[recordKey(progress.UserID, progress.Date)] = progress
	return s.save()
}

func (s *JSONStore) GetProgress(userID, date string) (models.DailyProgress, error) {
	if s.store == nil {
		return models.DailyProgress{}, fmt.Errorf("storage not loaded")
	}

	progress, ok := s.store.DailyProgress[recordKey(userID, date)]
	if !ok {
		return models.DailyProgress{}, fmt.Errorf("progress for %s on %s: %w", userID, date, ErrNotFound)
	}
	return progress, nil
}

func (s *JSONStore) ListProgress(userID string) ([]models.DailyProgress, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	var records []models.DailyProgress
	for _, rec := range s.store.DailyProgress {
		if rec.UserID == userID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
	return records, nil
}

func (s *JSONStore) DeleteProgress(userID, date string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	delete(s.store.DailyProgress, recordKey(userID, date))
	return s.save()
}

func (s *JSONStore) SaveHistory(data models.HistoricalData) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.HistoricalData[recordKey(data.UserID, data.Date)] = data
	return s.save()
}

func (s *JSONStore) GetHistory(userID, date string) (models.HistoricalData, error) {
	if s.store == nil {
		return models.HistoricalData{}, fmt.Errorf("storage not loaded")
	}

	data, ok := s.store.HistoricalData[recordKey(userID, date)]
	if !ok {
		return models.HistoricalData{}, fmt.Errorf("history for %s on %s: %w", userID, date, ErrNotFound)
	}
	return data, nil
}

func (s *JSONStore) ListHistory(userID string, limit int) ([]models.HistoricalData, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}

	var records []models.HistoricalData
	for _, rec := range s.store.HistoricalData {
		if rec.UserID == userID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

// ArchiveProgress records the historical entry and removes the live record
// in one file write, so a crash can't leave the archive without the delete.
func (s *JSONStore) ArchiveProgress(data models.HistoricalData) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.HistoricalData[recordKey(data.UserID, data.Date)] = data
	delete(s.store.DailyProgress, recordKey(data.UserID, data.Date))
	return s.save()
}

// GetConfigPath returns the path to the underlying storage file.
//
// Concurrency note:
//   - JSONStore is not safe for concurrent use by multiple goroutines
//     without external synchronization.
//   - Running multiple routinely processes that share the same storage path
//     at the same time is not supported; last write wins.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
