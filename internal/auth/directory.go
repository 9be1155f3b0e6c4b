package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/techtalk/routinely/internal/clock"
	"github.com/techtalk/routinely/internal/models"
	"github.com/techtalk/routinely/internal/storage"
)

// ErrNotAuthorized is returned when a name is not on the login allowlist.
var ErrNotAuthorized = errors.New("user is not authorized")

// userIDNamespace seeds the deterministic id derivation. Changing it would
// orphan every stored record, so it is fixed for the life of the data.
var userIDNamespace = uuid.MustParse("6f8df0b2-3a88-4c1b-9a5e-24c05c0f4d11")

// NormalizeName collapses a display name to its identity form.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// UserID derives a stable identifier from a name: the slugified name plus a
// deterministic UUID over its normalized form. The same normalized name
// always produces the same id, with no external state.
func UserID(name string) string {
	normalized := NormalizeName(name)
	slug := strings.Join(strings.Fields(normalized), "-")
	return fmt.Sprintf("%s-%s", slug, uuid.NewSHA1(userIDNamespace, []byte(normalized)))
}

// Directory resolves names to users, enforcing the allowlist and keeping
// LastActive fresh.
type Directory struct {
	store storage.Provider
	clock clock.Clock
}

func NewDirectory(store storage.Provider, clk clock.Clock) *Directory {
	return &Directory{store: store, clock: clk}
}

// Authorized reports whether the name may log in. An empty allowlist means
// open access.
func Authorized(settings storage.Settings, name string) bool {
	if len(settings.AuthorizedUsers) == 0 {
		return true
	}
	normalized := NormalizeName(name)
	for _, allowed := range settings.AuthorizedUsers {
		if NormalizeName(allowed) == normalized {
			return true
		}
	}
	return false
}

// Login resolves the name to its user, creating the user on first visit,
// and refreshes LastActive. The caller still has to pass the PIN gate if
// the user has one set.
func (d *Directory) Login(name string) (models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.User{}, fmt.Errorf("name must not be empty")
	}

	settings, err := d.store.GetSettings()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if !Authorized(settings, name) {
		return models.User{}, fmt.Errorf("%w: %s", ErrNotAuthorized, name)
	}

	now := d.clock.Now()

	user, err := d.store.GetUserByName(name)
	if errors.Is(err, storage.ErrNotFound) {
		user = models.User{
			ID:         UserID(name),
			Name:       name,
			CreatedAt:  now,
			LastActive: now,
		}
		if err := d.store.SaveUser(user); err != nil {
			return models.User{}, fmt.Errorf("failed to create user: %w", err)
		}
		log.Info("created user", "name", name, "id", user.ID)
		return user, nil
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to look up user: %w", err)
	}

	user.LastActive = now
	if err := d.store.SaveUser(user); err != nil {
		return models.User{}, fmt.Errorf("failed to refresh user: %w", err)
	}
	return user, nil
}
