package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/techtalk/routinely/internal/catalog"
	"github.com/techtalk/routinely/internal/models"
	"github.com/techtalk/routinely/internal/report"
	"github.com/techtalk/routinely/internal/tracker"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateWeek
)

const stateCount = 2

type Model struct {
	tracker *tracker.Tracker
	builder *report.Builder
	user    models.User

	state    SessionState
	keys     KeyMap
	help     help.Model
	quitting bool
	width    int
	height   int

	// Today tab
	cursor  int
	items   []catalog.Item
	rec     models.DailyProgress
	streak  int
	loadErr string

	// Week tab
	weekOffset int
	weekReport models.WeeklyReport
	weekErr    string
}

func NewModel(t *tracker.Tracker, user models.User) Model {
	m := Model{
		tracker: t,
		builder: report.NewBuilder(t),
		user:    user,
		state:   StateToday,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}

	m.refreshToday()
	m.refreshWeek()
	return m
}

// refreshToday reloads today's record, visible items, and the streak.
func (m *Model) refreshToday() {
	rec, err := m.tracker.EnsureTodayRecord(m.user.ID)
	if err != nil {
		m.loadErr = err.Error()
		return
	}
	m.loadErr = ""
	m.rec = rec
	m.items = m.tracker.Catalog().ItemsFor(rec.Date)
	if m.cursor >= len(m.items) {
		m.cursor = 0
	}

	streak, err := m.tracker.Streak(m.user.ID, rec.Date)
	if err != nil {
		m.loadErr = err.Error()
		return
	}
	m.streak = streak
}

func (m *Model) refreshWeek() {
	rep, err := m.builder.Build(m.user.ID, m.weekOffset)
	if err != nil {
		m.weekErr = err.Error()
		return
	}
	m.weekErr = ""
	m.weekReport = rep
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateToday:
		keys = append(keys, m.keys.Toggle)
	case StateWeek:
		keys = append(keys, m.keys.PrevWeek, m.keys.NextWeek)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case StateToday:
		actions = []key.Binding{m.keys.Toggle}
	case StateWeek:
		actions = []key.Binding{m.keys.PrevWeek, m.keys.NextWeek}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}
