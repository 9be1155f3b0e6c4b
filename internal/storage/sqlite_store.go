package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"github.com/techtalk/routinely/internal/migration"
	"github.com/techtalk/routinely/internal/models"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	runner := migration.NewRunner(s.db, MigrationFS())
	if _, err := runner.ApplyMigrations(func(msg string) {
		log.Debug(msg)
	}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize default settings if not present
	if _, err := s.GetSettings(); err != nil {
		if err := s.SaveSettings(DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'routinely init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	runner := migration.NewRunner(s.db, MigrationFS())
	if err := runner.ValidateVersion(); err != nil {
		return err
	}

	// Apply any pending migrations on load so upgrades are seamless
	if _, err := runner.ApplyMigrations(func(msg string) {
		log.Debug(msg)
	}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetSettings() (Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return Settings{}, err
	}
	defer rows.Close()

	settings := Settings{}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Settings{}, err
		}
		switch key {
		case "reference_timezone":
			settings.ReferenceTimezone = value
		case "authorized_users":
			if err := json.Unmarshal([]byte(value), &settings.AuthorizedUsers); err != nil {
				return Settings{}, fmt.Errorf("parsing authorized_users: %w", err)
			}
		}
		count++
	}

	if count == 0 {
		return Settings{}, fmt.Errorf("settings not found")
	}

	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings Settings) error {
	allowlist, err := json.Marshal(settings.AuthorizedUsers)
	if err != nil {
		return fmt.Errorf("failed to marshal authorized_users: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.Exec("reference_timezone", settings.ReferenceTimezone); err != nil {
		return err
	}
	if _, err := stmt.Exec("authorized_users", string(allowlist)); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) SaveUser(user models.User) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO users (id, name, created_at, last_active, pin_hash, has_pin)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name,
		user.CreatedAt.UTC().Format(time.RFC3339),
		user.LastActive.UTC().Format(time.RFC3339),
		user.PinHash, user.HasPinSetup,
	)
	return err
}

func (s *SQLiteStore) GetUser(id string) (models.User, error) {
	row := s.db.QueryRow(
		"SELECT id, name, created_at, last_active, pin_hash, has_pin FROM users WHERE id = ?", id)
	return scanUser(row, id)
}

func (s *SQLiteStore) GetUserByName(name string) (models.User, error) {
	row := s.db.QueryRow(
		"SELECT id, name, created_at, last_active, pin_hash, has_pin FROM users WHERE name = ? COLLATE NOCASE", name)
	return scanUser(row, name)
}

func scanUser(row *sql.Row, ref string) (models.User, error) {
	var u models.User
	var createdAt, lastActive string

	err := row.Scan(&u.ID, &u.Name, &createdAt, &lastActive, &u.PinHash, &u.HasPinSetup)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user %s: %w", ref, ErrNotFound)
		}
		return models.User{}, err
	}

	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	u.LastActive, _ = time.Parse(time.RFC3339, lastActive)
	return u, nil
}

func (s *SQLiteStore) GetAllUsers() ([]models.User, error) {
	rows, err := s.db.Query(
		"SELECT id, name, created_at, last_active, pin_hash, has_pin FROM users ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		var createdAt, lastActive string
		if err := rows.Scan(&u.ID, &u.Name, &createdAt, &lastActive, &u.PinHash, &u.HasPinSetup); err != nil {
			return nil, err
		}
		u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		u.LastActive, _ = time.Parse(time.RFC3339, lastActive)
		users = append(users, u)
	}

	return users, rows.Err()
}

func (s *SQLiteStore) SetCurrentUser(id string) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO app_state (key, value) VALUES ('current_user', ?)", id)
	return err
}

func (s *SQLiteStore) CurrentUser() (string, error) {
	var id string
	err := s.db.QueryRow("SELECT value FROM app_state WHERE key = 'current_user'").Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("current user: %w", ErrNotFound)
		}
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("current user: %w", ErrNotFound)
	}
	return id, nil
}

func (s *SQLiteStore) SaveProgress(progress models.DailyProgress) error {
	items, err := json.Marshal(progress.CompletedItems)
	if err != nil {
		return fmt.Errorf("failed to marshal completed items: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO daily_progress (user_id, date, completed_items, last_updated)
		VALUES (?, ?, ?, ?)`,
		progress.UserID, progress.Date, string(items),
		progress.LastUpdated.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) GetProgress(userID, date string) (models.DailyProgress, error) {
	row := s.db.QueryRow(`
		SELECT user_id, date, completed_items, last_updated
		FROM daily_progress WHERE user_id = ? AND date = ?`, userID, date)

	var p models.DailyProgress
	var items, lastUpdated string
	err := row.Scan(&p.UserID, &p.Date, &items, &lastUpdated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DailyProgress{}, fmt.Errorf("progress for %s on %s: %w", userID, date, ErrNotFound)
		}
		return models.DailyProgress{}, err
	}

	if err := json.Unmarshal([]byte(items), &p.CompletedItems); err != nil {
		// Corrupt record: treat as absent rather than failing the engine.
		log.Warn("corrupt completed_items in daily progress", "user", userID, "date", date)
		return models.DailyProgress{}, fmt.Errorf("progress for %s on %s: %w", userID, date, ErrNotFound)
	}
	p.LastUpdated, _ = time.Parse(time.RFC3339, lastUpdated)
	return p, nil
}

func (s *SQLiteStore) ListProgress(userID string) ([]models.DailyProgress, error) {
	rows, err := s.db.Query(`
		SELECT user_id, date, completed_items, last_updated
		FROM daily_progress WHERE user_id = ? ORDER BY date`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.DailyProgress
	for rows.Next() {
		var p models.DailyProgress
		var items, lastUpdated string
		if err := rows.Scan(&p.UserID, &p.Date, &items, &lastUpdated); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(items), &p.CompletedItems); err != nil {
			log.Warn("skipping corrupt daily progress record", "user", p.UserID, "date", p.Date)
			continue
		}
		p.LastUpdated, _ = time.Parse(time.RFC3339, lastUpdated)
		records = append(records, p)
	}

	return records, rows.Err()
}

func (s *SQLiteStore) DeleteProgress(userID, date string) error {
	_, err := s.db.Exec(
		"DELETE FROM daily_progress WHERE user_id = ? AND date = ?", userID, date)
	return err
}

func (s *SQLiteStore) SaveHistory(data models.HistoricalData) error {
	items, err := json.Marshal(data.CompletedItems)
	if err != nil {
		return fmt.Errorf("failed to marshal completed items: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO historical_data (user_id, date, completed_items, completion_rate, streak)
		VALUES (?, ?, ?, ?, ?)`,
		data.UserID, data.Date, string(items), data.CompletionRate, data.Streak,
	)
	return err
}

func (s *SQLiteStore) GetHistory(userID, date string) (models.HistoricalData, error) {
	row := s.db.QueryRow(`
		SELECT user_id, date, completed_items, completion_rate, streak
		FROM historical_data WHERE user_id = ? AND date = ?`, userID, date)

	var h models.HistoricalData
	var items string
	err := row.Scan(&h.UserID, &h.Date, &items, &h.CompletionRate, &h.Streak)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.HistoricalData{}, fmt.Errorf("history for %s on %s: %w", userID, date, ErrNotFound)
		}
		return models.HistoricalData{}, err
	}

	if err := json.Unmarshal([]byte(items), &h.CompletedItems); err != nil {
		log.Warn("corrupt completed_items in historical data", "user", userID, "date", date)
		return models.HistoricalData{}, fmt.Errorf("history for %s on %s: %w", userID, date, ErrNotFound)
	}
	return h, nil
}

func (s *SQLiteStore) ListHistory(userID string, limit int) ([]models.HistoricalData, error) {
	query := `
		SELECT user_id, date, completed_items, completion_rate, streak
		FROM historical_data WHERE user_id = ? ORDER BY date`
	args := []any{userID}
	if limit > 0 {
		// Most recent N, returned in ascending date order
		query = `
			SELECT user_id, date, completed_items, completion_rate, streak FROM (
				SELECT user_id, date, completed_items, completion_rate, streak
				FROM historical_data WHERE user_id = ? ORDER BY date DESC LIMIT ?
			) ORDER BY date`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.HistoricalData
	for rows.Next() {
		var h models.HistoricalData
		var items string
		if err := rows.Scan(&h.UserID, &h.Date, &items, &h.CompletionRate, &h.Streak); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(items), &h.CompletedItems); err != nil {
			log.Warn("skipping corrupt historical record", "user", h.UserID, "date", h.Date)
			continue
		}
		records = append(records, h)
	}

	return records, rows.Err()
}

// ArchiveProgress writes the historical entry and deletes the matching live
// record inside one transaction, so the day-boundary transition can't leave
// a duplicate or a gap behind.
func (s *SQLiteStore) ArchiveProgress(data models.HistoricalData) error {
	items, err := json.Marshal(data.CompletedItems)
	if err != nil {
		return fmt.Errorf("failed to marshal completed items: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO historical_data (user_id, date, completed_items, completion_rate, streak)
		VALUES (?, ?, ?, ?, ?)`,
		data.UserID, data.Date, string(items), data.CompletionRate, data.Streak,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(
		"DELETE FROM daily_progress WHERE user_id = ? AND date = ?", data.UserID, data.Date,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}
