package domain

import "time"

// User is anyone who can authenticate: customers, agents and admins.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal returns the identity used for authorization decisions.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, IsAdmin: u.IsAdmin}
}
