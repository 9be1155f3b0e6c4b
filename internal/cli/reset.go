package cli

import "fmt"

type ResetCmd struct{}

func (c *ResetCmd) Run(ctx *Context) error {
	sess, err := ctx.open()
	if err != nil {
		return err
	}
	defer sess.Store.Close()

	user, err := sess.requireCurrentUser()
	if err != nil {
		return err
	}

	archived, err := sess.Tracker.CheckAndPerformDailyReset(user.ID)
	if err != nil {
		return err
	}

	if archived {
		fmt.Println("Archived stale progress into history.")
	} else {
		fmt.Println("Nothing to archive; today's record is current.")
	}
	return nil
}
