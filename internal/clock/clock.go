package clock

import (
	"fmt"
	"time"

	"github.com/techtalk/routinely/internal/constants"
)

// Clock supplies the current date and timestamp in a fixed reference
// timezone, so day boundaries are deterministic regardless of where the
// process runs. Test doubles implement this to pin time.
type Clock interface {
	Now() time.Time
	CurrentDate() string // YYYY-MM-DD in the reference timezone
}

type WallClock struct {
	loc   *time.Location
	nowFn func() time.Time
}

// New returns a wall clock pinned to the given IANA timezone. An empty
// timezone falls back to the default reference timezone.
func New(timezone string) (*WallClock, error) {
	if timezone == "" {
		timezone = constants.DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid reference timezone %q: %w", timezone, err)
	}
	return &WallClock{loc: loc, nowFn: time.Now}, nil
}

// NewAt returns a wall clock whose current time comes from nowFn. Used by
// tests to make day boundaries reproducible.
func NewAt(timezone string, nowFn func() time.Time) (*WallClock, error) {
	c, err := New(timezone)
	if err != nil {
		return nil, err
	}
	c.nowFn = nowFn
	return c, nil
}

func (c *WallClock) Now() time.Time {
	return c.nowFn().In(c.loc)
}

func (c *WallClock) CurrentDate() string {
	return c.Now().Format(constants.DateFormat)
}
