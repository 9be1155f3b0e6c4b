package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/techtalk/routinely/internal/catalog"
	"github.com/techtalk/routinely/internal/cli"
	"github.com/techtalk/routinely/internal/logger"
	"github.com/techtalk/routinely/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Store file path." type:"path" default:"~/.config/routinely/routinely.db"`
	Catalog string `help:"Optional JSON file overriding the built-in routine items." type:"path"`
	Debug   bool   `help:"Enable debug logging."`

	Init    cli.InitCmd    `cmd:"" help:"Initialize routinely storage."`
	Tui     cli.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Login   cli.LoginCmd   `cmd:"" help:"Log in (creating the user on first login)."`
	Logout  cli.LogoutCmd  `cmd:"" help:"Log out the current user."`
	Today   cli.TodayCmd   `cmd:"" help:"Show today's checklist."`
	Toggle  cli.ToggleCmd  `cmd:"" help:"Toggle a routine item for today."`
	Reset   cli.ResetCmd   `cmd:"" help:"Archive stale progress into history."`
	Report  cli.ReportCmd  `cmd:"" help:"Show the weekly report."`
	History cli.HistoryCmd `cmd:"" help:"Show archived days."`
	Users   cli.UsersCmd   `cmd:"" help:"List known users."`
	Pin     cli.PinCmd     `cmd:"" help:"Manage the current user's PIN."`
	Backup  cli.BackupCmd  `cmd:"" help:"Manage store backups."`
	Doctor  cli.DoctorCmd  `cmd:"" help:"Run health diagnostics."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("routinely"),
		kong.Description("Daily routine tracker with streaks and weekly reports"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Storage backend is chosen by extension
	var store storage.Provider
	if strings.HasSuffix(CLI.Config, ".json") {
		store = storage.NewJSONStore(CLI.Config)
	} else {
		store = storage.NewSQLiteStore(CLI.Config)
	}

	cat := catalog.Default()
	if CLI.Catalog != "" {
		var err error
		cat, err = catalog.FromFile(CLI.Catalog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	appCtx := &cli.Context{
		Store:   store,
		Catalog: cat,
		Debug:   CLI.Debug,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
