package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/techtalk/routinely/internal/constants"
)

// ErrInvalidPin is returned when a PIN is not exactly four digits.
var ErrInvalidPin = errors.New("PIN must be exactly 4 digits")

// ValidPin reports whether the string is a well-formed PIN.
func ValidPin(pin string) bool {
	if len(pin) != constants.PinLength {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// SetPin stores a one-way hash of the PIN on the user record. Once a PIN
// exists it can only be replaced via ChangePin or cleared via RemovePin,
// both of which require the current PIN.
func (d *Directory) SetPin(userID, pin string) error {
	if !ValidPin(pin) {
		return ErrInvalidPin
	}

	user, err := d.store.GetUser(userID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}

	user.PinHash = string(hash)
	user.HasPinSetup = true
	if err := d.store.SaveUser(user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// VerifyPin compares the supplied PIN against the stored hash. It returns
// false, never an error, when the user has no PIN set or the PIN doesn't
// match; a mismatch is an expected outcome, not a failure.
func (d *Directory) VerifyPin(userID, pin string) bool {
	user, err := d.store.GetUser(userID)
	if err != nil || !user.HasPinSetup || user.PinHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PinHash), []byte(pin)) == nil
}

// ChangePin replaces the PIN, succeeding only if the current PIN verifies.
// Returns false without mutating state otherwise.
func (d *Directory) ChangePin(userID, currentPin, newPin string) (bool, error) {
	if !d.VerifyPin(userID, currentPin) {
		return false, nil
	}
	if err := d.SetPin(userID, newPin); err != nil {
		return false, err
	}
	return true, nil
}

// RemovePin clears the PIN, gated on verifying the current one. Returns
// false without mutating state when verification fails.
func (d *Directory) RemovePin(userID, currentPin string) (bool, error) {
	if !d.VerifyPin(userID, currentPin) {
		return false, nil
	}

	user, err := d.store.GetUser(userID)
	if err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}

	user.PinHash = ""
	user.HasPinSetup = false
	if err := d.store.SaveUser(user); err != nil {
		return false, fmt.Errorf("failed to save user: %w", err)
	}
	return true, nil
}
