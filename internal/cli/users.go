package cli

import (
	"fmt"

	"github.com/techtalk/routinely/internal/constants"
)

type UsersCmd struct{}

func (c *UsersCmd) Run(ctx *Context) error {
	sess, err := ctx.open()
	if err != nil {
		return err
	}
	defer sess.Store.Close()

	users, err := sess.Store.GetAllUsers()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		fmt.Println("No users yet. Run 'routinely login <name>' to create one.")
		return nil
	}

	currentID, _ := sess.Store.CurrentUser()

	for _, user := range users {
		marker := " "
		if user.ID == currentID {
			marker = "*"
		}
		pin := ""
		if user.HasPinSetup {
			pin = " (PIN)"
		}
		fmt.Printf("%s %s%s\n", marker, user.Name, pin)
		fmt.Printf("    id: %s\n", user.ID)
		fmt.Printf("    last active: %s\n", user.LastActive.Format(constants.DateFormat))
	}
	return nil
}
