package domain

import "time"

// Response is a reply posted on a ticket thread.
type Response struct {
	ID        string
	TicketID  string
	AuthorID  string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Ticket is populated when the parent is eager-loaded.
	Ticket *Ticket
}
