package domain

import "time"

// Principal is the authenticated caller. It is built once per request by the
// auth middleware and passed explicitly to every service call.
type Principal struct {
	ID      string
	IsAdmin bool
}

// Token represents issued access token metadata.
type Token struct {
	ID        string
	SubjectID string
	IsAdmin   bool
	ExpiresAt time.Time
	IssuedAt  time.Time
}
