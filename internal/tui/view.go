package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/techtalk/routinely/internal/report"
	"github.com/techtalk/routinely/internal/tracker"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateToday:
		content = m.viewToday()
	case StateWeek:
		content = m.viewWeek()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Today", "Week"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewToday() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s's routine for %s", m.user.Name, m.rec.Date)))
	b.WriteString("\n\n")

	if m.loadErr != "" {
		b.WriteString(errorStyle.Render("Error: " + m.loadErr))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		box := "[ ]"
		style := pendingStyle
		if m.rec.Completed(item.ID) {
			box = "[x]"
			style = doneStyle
		}

		line := fmt.Sprintf("%s %s %s", box, item.Icon, item.Name)
		b.WriteString(cursor + style.Render(line) + "\n")
	}

	rate := tracker.CompletionRate(len(m.rec.CompletedItems), len(m.items))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d of %d done (%d%%)", len(m.rec.CompletedItems), len(m.items), rate))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("   streak: %d day(s)", m.streak)))

	return docStyle.Render(b.String())
}

func (m Model) viewWeek() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (week of %s)", report.WeekTitle(m.weekOffset), m.weekReport.WeekStart)))
	b.WriteString("\n\n")

	if m.weekErr != "" {
		b.WriteString(errorStyle.Render("Error: " + m.weekErr))
		return docStyle.Render(b.String())
	}

	for _, day := range m.weekReport.PerDay {
		bar := strings.Repeat("█", day.CompletionRate/10)
		style := pendingStyle
		if day.CompletionRate > 0 {
			style = doneStyle
		}
		b.WriteString(fmt.Sprintf("  %s %3d%% %s\n", day.DayName, day.CompletionRate, style.Render(bar)))
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Average: %d%%   Active days: %d/7\n", m.weekReport.WeeklyAverage, m.weekReport.ActiveDays))
	if m.weekReport.BestDay.CompletionRate > 0 {
		b.WriteString(fmt.Sprintf("  Best day: %s (%d%%)\n", m.weekReport.BestDay.DayName, m.weekReport.BestDay.CompletionRate))
	}

	b.WriteString("\n" + mutedStyle.Render("  Per task:") + "\n")
	for _, task := range m.weekReport.PerTask {
		b.WriteString(fmt.Sprintf("  %s %-12s %d/7 (%d%%)\n", task.Icon, task.Name, task.CompletedDays, task.Percentage))
	}

	return docStyle.Render(b.String())
}
