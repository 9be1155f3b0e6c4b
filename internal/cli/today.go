package cli

import (
	"fmt"

	"github.com/techtalk/routinely/internal/tracker"
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	sess, err := ctx.open()
	if err != nil {
		return err
	}
	defer sess.Store.Close()

	user, err := sess.requireCurrentUser()
	if err != nil {
		return err
	}

	rec, err := sess.Tracker.EnsureTodayRecord(user.ID)
	if err != nil {
		return err
	}

	items := sess.Catalog.ItemsFor(rec.Date)
	rate := tracker.CompletionRate(len(rec.CompletedItems), len(items))

	streak, err := sess.Tracker.Streak(user.ID, rec.Date)
	if err != nil {
		return err
	}

	fmt.Printf("%s's routine for %s\n\n", user.Name, rec.Date)
	for _, item := range items {
		fmt.Println(checklistLine(item, rec.Completed(item.ID)))
	}
	fmt.Printf("\n%d of %d done (%d%%), streak: %d day(s)\n",
		len(rec.CompletedItems), len(items), rate, streak)

	return nil
}
