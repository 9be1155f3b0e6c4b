package cli

import (
	"fmt"
	"strings"

	"github.com/techtalk/routinely/internal/report"
)

type ReportCmd struct {
	Week int `help:"How many weeks back (0 = this week)." default:"0"`
}

func (c *ReportCmd) Run(ctx *Context) error {
	sess, err := ctx.open()
	if err != nil {
		return err
	}
	defer sess.Store.Close()

	user, err := sess.requireCurrentUser()
	if err != nil {
		return err
	}

	// Roll any stale record into history first so the report sees it
	if _, err := sess.Tracker.CheckAndPerformDailyReset(user.ID); err != nil {
		return err
	}

	builder := report.NewBuilder(sess.Tracker)
	rep, err := builder.Build(user.ID, c.Week)
	if err != nil {
		return err
	}

	fmt.Printf("Weekly Report for %s (%s, week of %s)\n\n", user.Name, report.WeekTitle(c.Week), rep.WeekStart)

	for _, day := range rep.PerDay {
		bar := strings.Repeat("█", day.CompletionRate/10)
		marker := " "
		if day.Date == rep.BestDay.Date && rep.BestDay.CompletionRate > 0 {
			marker = "*"
		}
		fmt.Printf("  %s %s %3d%% %-10s %s\n", day.DayName, day.Date, day.CompletionRate, bar, marker)
	}

	fmt.Printf("\n  Weekly average: %d%%\n", rep.WeeklyAverage)
	fmt.Printf("  Active days:    %d of 7\n", rep.ActiveDays)
	if rep.BestDay.CompletionRate > 0 {
		fmt.Printf("  Best day:       %s (%d%%)\n", rep.BestDay.DayName, rep.BestDay.CompletionRate)
	}

	fmt.Println("\n  Per task:")
	for _, task := range rep.PerTask {
		fmt.Printf("    %-12s %d/7 days (%d%%)\n", task.Name, task.CompletedDays, task.Percentage)
	}

	return nil
}
