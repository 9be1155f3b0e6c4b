package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/techtalk/routinely/internal/tracker"
)

type ToggleCmd struct {
	Item string `arg:"" help:"Routine item id to toggle (e.g. prayer, study)."`
}

func (c *ToggleCmd) Run(ctx *Context) error {
	sess, err := ctx.open()
	if err != nil {
		return err
	}
	defer sess.Store.Close()

	user, err := sess.requireCurrentUser()
	if err != nil {
		return err
	}

	itemID := strings.ToLower(strings.TrimSpace(c.Item))
	rec, err := sess.Tracker.ToggleItem(user.ID, itemID)
	if err != nil {
		if errors.Is(err, tracker.ErrInvalidItem) {
			var ids []string
			for _, item := range sess.Catalog.ItemsFor(sess.Clock.CurrentDate()) {
				ids = append(ids, item.ID)
			}
			return fmt.Errorf("%q is not on today's checklist (available: %s)", itemID, strings.Join(ids, ", "))
		}
		return err
	}

	state := "not done"
	if rec.Completed(itemID) {
		state = "done"
	}

	total := sess.Catalog.ActiveCount(rec.Date)
	fmt.Printf("%s is now %s. %d of %d items done today.\n",
		itemID, state, len(rec.CompletedItems), total)
	return nil
}
