package storage

import (
	"fmt"

	"github.com/techtalk/routinely/internal/constants"
)

// Settings are the deployment-time knobs persisted alongside the data.
// ReferenceTimezone pins day-boundary computation; AuthorizedUsers is the
// login allowlist (empty list means open access).
type Settings struct {
	ReferenceTimezone string   `json:"reference_timezone"`
	AuthorizedUsers   []string `json:"authorized_users,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		ReferenceTimezone: constants.DefaultTimezone,
	}
}

// recordKey builds the "{userId}_{date}" key used by both keyspaces.
func recordKey(userID, date string) string {
	return fmt.Sprintf("%s_%s", userID, date)
}
