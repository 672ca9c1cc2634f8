// Package domain contains the core entities of the Milluki catalog.
package domain

import "time"

// User represents a registered identity.
//
// Users do not carry a list of their collections: ownership is recorded on
// the Collection (owner email) and membership is answered by querying the
// store. Keeping a second, independently mutable list on the user would
// require two writes per collection create and can go stale after deletes.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// InitTimestamps sets creation and update times for a new user.
func (u *User) InitTimestamps() {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
}
