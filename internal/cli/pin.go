package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/techtalk/routinely/internal/auth"
)

type PinCmd struct {
	Set    PinSetCmd    `cmd:"" help:"Set up a PIN for the current user."`
	Change PinChangeCmd `cmd:"" help:"Change the current user's PIN."`
	Remove PinRemoveCmd `cmd:"" help:"Remove the current user's PIN."`
}

type PinSetCmd struct{}

func (c *PinSetCmd) Run(ctx *Context) error {
	sess, err := ctx.open()
	if err != nil {
		return err
	}
	defer sess.Store.Close()

	user, err := sess.requireCurrentUser()
	if err != nil {
		return err
	}
	if user.HasPinSetup {
		return fmt.Errorf("a PIN is already set; use 'routinely pin change' instead")
	}

	pin, err := promptNewPin("Choose a 4-digit PIN")
	if err != nil {
		return err
	}
	if err := sess.Dir.SetPin(user.ID, pin); err != nil {
		return err
	}

	fmt.Println("PIN set. You'll be asked for it on your next login.")
	return nil
}

type PinChangeCmd struct{}

func (c *PinChangeCmd) Run(ctx *Context) error {
	sess, err := ctx.open()
	if err != nil {
		return err
	}
	defer sess.Store.Close()

	user, err := sess.requireCurrentUser()
	if err != nil {
		return err
	}
	if !user.HasPinSetup {
		return fmt.Errorf("no PIN is set; use 'routinely pin set' first")
	}

	current, err := promptPin("Current PIN")
	if err != nil {
		return err
	}
	next, err := promptNewPin("New 4-digit PIN")
	if err != nil {
		return err
	}

	ok, err := sess.Dir.ChangePin(user.ID, current, next)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("current PIN did not match; PIN unchanged")
	}

	fmt.Println("PIN changed.")
	return nil
}

type PinRemoveCmd struct{}

func (c *PinRemoveCmd) Run(ctx *Context) error {
	sess, err := ctx.open()
	if err != nil {
		return err
	}
	defer sess.Store.Close()

	user, err := sess.requireCurrentUser()
	if err != nil {
		return err
	}
	if !user.HasPinSetup {
		return fmt.Errorf("no PIN is set for %s", user.Name)
	}

	current, err := promptPin("Current PIN")
	if err != nil {
		return err
	}

	ok, err := sess.Dir.RemovePin(user.ID, current)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("current PIN did not match; PIN unchanged")
	}

	fmt.Println("PIN removed. Logins no longer require one.")
	return nil
}

func promptPin(title string) (string, error) {
	var pin string
	input := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Validate(func(s string) error {
			if !auth.ValidPin(s) {
				return auth.ErrInvalidPin
			}
			return nil
		}).
		Value(&pin)
	if err := input.Run(); err != nil {
		return "", err
	}
	return pin, nil
}

// promptNewPin asks twice and insists the entries match.
func promptNewPin(title string) (string, error) {
	pin, err := promptPin(title)
	if err != nil {
		return "", err
	}
	confirm, err := promptPin("Confirm PIN")
	if err != nil {
		return "", err
	}
	if pin != confirm {
		return "", fmt.Errorf("PINs did not match")
	}
	return pin, nil
}
