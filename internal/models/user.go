package models

import "time"

// User identifies a person tracking their routine. The ID is derived
// deterministically from the normalized name, so entering the same name
// always resolves to the same user.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	LastActive  time.Time `json:"last_active"`
	PinHash     string    `json:"pin_hash,omitempty"`
	HasPinSetup bool      `json:"has_pin_setup"`
}
