package dto

import (
	"time"

	"github.com/customer-care/ticket-api/internal/domain"
)

// CreateTicketRequest payload. Owner fields in the body are ignored.
type CreateTicketRequest struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Status      *domain.TicketStatus   `json:"status"`
	Priority    *domain.TicketPriority `json:"priority"`
	AssigneeID  *string                `json:"assignee_id"`
	CategoryID  *string                `json:"category_id"`
}

// UpdateTicketRequest is a partial update; absent fields are left alone.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Status      *domain.TicketStatus   `json:"status"`
	Priority    *domain.TicketPriority `json:"priority"`
	AssigneeID  *string                `json:"assignee_id"`
	CategoryID  *string                `json:"category_id"`
}

// TicketSummary response.
type TicketSummary struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	OwnerID     string                `json:"owner_id"`
	AssigneeID  *string               `json:"assignee_id"`
	CategoryID  *string               `json:"category_id"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// TicketDetail is a ticket with its responses.
type TicketDetail struct {
	TicketSummary
	Responses []ResponseDetail `json:"responses"`
}
