package events

import (
	"time"

	"github.com/customer-care/ticket-api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventTicketUpdated   EventType = "ticket_updated"
	EventTicketDeleted   EventType = "ticket_deleted"
	EventResponseCreated EventType = "response_created"
	EventResponseUpdated EventType = "response_updated"
	EventResponseDeleted EventType = "response_deleted"
)

// AllEventTypes lists every event the services publish.
var AllEventTypes = []EventType{
	EventTicketCreated,
	EventTicketUpdated,
	EventTicketDeleted,
	EventResponseCreated,
	EventResponseUpdated,
	EventResponseDeleted,
}

// Actor identifies who caused an event.
type Actor struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
}

// ActorFrom converts a principal into event actor metadata.
func ActorFrom(p domain.Principal) Actor {
	return Actor{UserID: p.ID, IsAdmin: p.IsAdmin}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	OwnerID  string                `json:"owner_id"`
	Title    string                `json:"title"`
	Status   domain.TicketStatus   `json:"status"`
	Priority domain.TicketPriority `json:"priority"`
}

// TicketUpdatedPayload lists the fields an update changed.
type TicketUpdatedPayload struct {
	Changed   []string            `json:"changed"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	OwnerID   string `json:"owner_id"`
	Responses int    `json:"responses"`
}

// ResponsePayload is shared by the response events.
type ResponsePayload struct {
	ResponseID  string `json:"response_id"`
	AuthorID    string `json:"author_id"`
	BodyPreview string `json:"body_preview,omitempty"`
}
