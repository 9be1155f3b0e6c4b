package cli

import (
	"fmt"
	"strings"
)

type HistoryCmd struct {
	Limit int `help:"Maximum number of archived days to show." default:"14"`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	sess, err := ctx.open()
	if err != nil {
		return err
	}
	defer sess.Store.Close()

	user, err := sess.requireCurrentUser()
	if err != nil {
		return err
	}

	// Make sure any stale live record has been rolled into history
	if _, err := sess.Tracker.CheckAndPerformDailyReset(user.ID); err != nil {
		return err
	}

	records, err := sess.Store.ListHistory(user.ID, c.Limit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No archived days yet.")
		return nil
	}

	fmt.Printf("History for %s (most recent %d):\n\n", user.Name, len(records))
	for _, rec := range records {
		bar := strings.Repeat("█", rec.CompletionRate/10)
		fmt.Printf("  %s %3d%% (streak %d) %s\n", rec.Date, rec.CompletionRate, rec.Streak, bar)
	}
	return nil
}
