// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// Account is the core entity in the system: an identity, its credential and its session flag.
type Account struct {
	ID           int64     `json:"id"`        // Numeric identifier assigned by the store on creation; never reused.
	FirstName    string    `json:"firstName"` // Capitalized single word.
	LastName     string    `json:"lastName"`  // Capitalized single word.
	Email        string    `json:"email"`     // Unique across all accounts; the sole login key.
	PasswordHash string    `json:"-"`         // Output of the credential codec, never plaintext.
	LoggedIn     bool      `json:"loggedIn"`  // Binary session flag, false at creation.
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FullName returns "First Last".
func (a *Account) FullName() string {
	return a.FirstName + " " + a.LastName
}
