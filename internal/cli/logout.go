package cli

import (
	"errors"
	"fmt"

	"github.com/techtalk/routinely/internal/storage"
)

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *Context) error {
	sess, err := ctx.open()
	if err != nil {
		return err
	}
	defer sess.Store.Close()

	userID, err := sess.Store.CurrentUser()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Println("Nobody is logged in.")
			return nil
		}
		return err
	}

	name := userID
	if user, err := sess.Store.GetUser(userID); err == nil {
		name = user.Name
	}

	if err := sess.Store.SetCurrentUser(""); err != nil {
		return fmt.Errorf("failed to clear current user: %w", err)
	}

	fmt.Printf("Logged out %s.\n", name)
	return nil
}
