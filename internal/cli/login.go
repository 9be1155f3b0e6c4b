package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/techtalk/routinely/internal/auth"
)

const maxPinAttempts = 3

type LoginCmd struct {
	Name string `arg:"" optional:"" help:"Your name. Prompted for when omitted."`
}

func (c *LoginCmd) Run(ctx *Context) error {
	sess, err := ctx.open()
	if err != nil {
		return err
	}
	defer sess.Store.Close()

	name := c.Name
	if name == "" {
		input := huh.NewInput().
			Title("What's your name?").
			Value(&name)
		if err := input.Run(); err != nil {
			return err
		}
	}

	user, err := sess.Dir.Login(name)
	if err != nil {
		if errors.Is(err, auth.ErrNotAuthorized) {
			return fmt.Errorf("%s is not on the authorized user list", name)
		}
		return err
	}

	if user.HasPinSetup {
		if !promptAndVerifyPin(sess, user.ID) {
			return fmt.Errorf("incorrect PIN")
		}
	}

	if err := sess.Store.SetCurrentUser(user.ID); err != nil {
		return fmt.Errorf("failed to set current user: %w", err)
	}

	// Roll the day over and make sure today's record exists
	rec, err := sess.Tracker.EnsureTodayRecord(user.ID)
	if err != nil {
		return err
	}

	total := sess.Catalog.ActiveCount(rec.Date)
	fmt.Printf("Welcome back, %s!\n", user.Name)
	fmt.Printf("Today (%s): %d of %d items done.\n", rec.Date, len(rec.CompletedItems), total)
	return nil
}

// promptAndVerifyPin gives the user a few attempts at their PIN.
func promptAndVerifyPin(sess *Session, userID string) bool {
	for attempt := 1; attempt <= maxPinAttempts; attempt++ {
		var pin string
		input := huh.NewInput().
			Title("Enter your 4-digit PIN").
			EchoMode(huh.EchoModePassword).
			Validate(func(s string) error {
				if !auth.ValidPin(s) {
					return auth.ErrInvalidPin
				}
				return nil
			}).
			Value(&pin)
		if err := input.Run(); err != nil {
			return false
		}

		if sess.Dir.VerifyPin(userID, pin) {
			return true
		}
		if attempt < maxPinAttempts {
			fmt.Printf("Incorrect PIN. %d attempt(s) left.\n", maxPinAttempts-attempt)
		}
	}
	return false
}
