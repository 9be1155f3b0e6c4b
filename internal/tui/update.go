package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % stateCount
			if m.state == StateWeek {
				m.refreshWeek()
			}
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + stateCount) % stateCount
			if m.state == StateWeek {
				m.refreshWeek()
			}
		default:
			switch m.state {
			case StateToday:
				m.updateToday(msg)
			case StateWeek:
				m.updateWeek(msg)
			}
		}
	}

	return m, nil
}

func (m *Model) updateToday(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor >= len(m.items) {
			return
		}
		rec, err := m.tracker.ToggleItem(m.user.ID, m.items[m.cursor].ID)
		if err != nil {
			m.loadErr = err.Error()
			return
		}
		m.loadErr = ""
		m.rec = rec

		streak, err := m.tracker.Streak(m.user.ID, rec.Date)
		if err == nil {
			m.streak = streak
		}
	}
}

func (m *Model) updateWeek(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.PrevWeek):
		m.weekOffset++
		m.refreshWeek()
	case key.Matches(msg, m.keys.NextWeek):
		if m.weekOffset > 0 {
			m.weekOffset--
			m.refreshWeek()
		}
	}
}
