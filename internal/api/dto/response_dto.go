package dto

import "time"

// CreateResponseRequest payload. TicketID is taken from the path on nested
// routes.
type CreateResponseRequest struct {
	TicketID string `json:"ticket_id"`
	Content  string `json:"content"`
}

// UpdateResponseRequest payload.
type UpdateResponseRequest struct {
	Content *string `json:"content"`
}

// ResponseDetail represents a reply on a ticket.
type ResponseDetail struct {
	ID        string         `json:"id"`
	TicketID  string         `json:"ticket_id"`
	AuthorID  string         `json:"author_id"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Ticket    *TicketSummary `json:"ticket,omitempty"`
}
