package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/techtalk/routinely/internal/auth"
	"github.com/techtalk/routinely/internal/catalog"
	"github.com/techtalk/routinely/internal/clock"
	"github.com/techtalk/routinely/internal/models"
	"github.com/techtalk/routinely/internal/storage"
	"github.com/techtalk/routinely/internal/tracker"
)

type Context struct {
	Store   storage.Provider
	Catalog *catalog.Catalog
	Debug   bool
}

// Session bundles the collaborators built on top of a loaded store.
type Session struct {
	Store   storage.Provider
	Catalog *catalog.Catalog
	Clock   clock.Clock
	Tracker *tracker.Tracker
	Dir     *auth.Directory
}

// open loads the store and wires the engine against the persisted settings.
func (ctx *Context) open() (*Session, error) {
	if err := ctx.Store.Load(); err != nil {
		return nil, err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	clk, err := clock.New(settings.ReferenceTimezone)
	if err != nil {
		return nil, err
	}

	return &Session{
		Store:   ctx.Store,
		Catalog: ctx.Catalog,
		Clock:   clk,
		Tracker: tracker.New(ctx.Store, ctx.Catalog, clk),
		Dir:     auth.NewDirectory(ctx.Store, clk),
	}, nil
}

// requireCurrentUser resolves the logged-in user or explains how to log in.
func (s *Session) requireCurrentUser() (models.User, error) {
	id, err := s.Store.CurrentUser()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, fmt.Errorf("no user logged in, run 'routinely login <name>' first")
		}
		return models.User{}, fmt.Errorf("failed to read current user: %w", err)
	}

	user, err := s.Store.GetUser(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, fmt.Errorf("logged-in user %s no longer exists, run 'routinely login <name>'", id)
		}
		return models.User{}, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

// checklistLine renders one item of the daily checklist.
func checklistLine(item catalog.Item, done bool) string {
	box := "[ ]"
	if done {
		box = "[x]"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s %s", box, item.Icon, item.Name)
	if item.Description != "" {
		fmt.Fprintf(&b, " - %s", item.Description)
	}
	return b.String()
}
