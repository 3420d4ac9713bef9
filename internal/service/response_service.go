package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/customer-care/ticket-api/internal/domain"
	"github.com/customer-care/ticket-api/internal/events"
	"github.com/customer-care/ticket-api/internal/repository"
	apperrors "github.com/customer-care/ticket-api/pkg/util/errorutil"
)

const previewLength = 120

// ResponseService coordinates replies on tickets.
type ResponseService struct {
	responses repository.ResponseRepository
	tickets   repository.TicketRepository
	events    publisher
	logger    *zap.Logger
}

// ResponseDependencies bundles repositories for response service.
type ResponseDependencies struct {
	ResponseRepo repository.ResponseRepository
	TicketRepo   repository.TicketRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// ResponseCreateInput describes a new reply. Any author supplied by the
// caller is ignored.
type ResponseCreateInput struct {
	TicketID string
	Content  string
}

// ResponsePatch is a partial update of a response.
type ResponsePatch struct {
	Content *string
}

// NewResponseService constructs the service.
func NewResponseService(deps ResponseDependencies) *ResponseService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseService{
		responses: deps.ResponseRepo,
		tickets:   deps.TicketRepo,
		events:    publisher{dispatcher: deps.Dispatcher, logger: logger},
		logger:    logger,
	}
}

// ListResponses returns all responses with their parent ticket.
func (s *ResponseService) ListResponses(ctx context.Context) ([]domain.Response, error) {
	responses, err := s.responses.ListAll(ctx)
	if err != nil {
		return nil, repoError(err, "response", "")
	}
	return responses, nil
}

// ListResponsesForTicket returns a ticket's responses in creation order.
func (s *ResponseService) ListResponsesForTicket(ctx context.Context, ticketID string) ([]domain.Response, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, repoError(err, "ticket", ticketID)
	}
	responses, err := s.responses.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, repoError(err, "response", "")
	}
	return responses, nil
}

// GetResponse fetches a single response.
func (s *ResponseService) GetResponse(ctx context.Context, responseID string) (*domain.Response, error) {
	resp, err := s.responses.GetByID(ctx, responseID)
	if err != nil {
		return nil, repoError(err, "response", responseID)
	}
	return resp, nil
}

// CreateResponse appends a reply authored by the caller to an existing ticket.
func (s *ResponseService) CreateResponse(ctx context.Context, principal domain.Principal, input ResponseCreateInput) (*domain.Response, error) {
	resp := &domain.Response{
		TicketID: strings.TrimSpace(input.TicketID),
		AuthorID: principal.ID,
		Content:  strings.TrimSpace(input.Content),
	}

	problems := fieldErrors{}
	if resp.TicketID == "" {
		problems.add("ticket_id", "the ticket id field is required")
	}
	if resp.Content == "" {
		problems.add("content", "the content field is required")
	}
	if err := problems.err(); err != nil {
		return nil, err
	}

	ticket, err := s.tickets.GetByID(ctx, resp.TicketID)
	if err != nil {
		return nil, repoError(err, "ticket", resp.TicketID)
	}
	// The ticket may vanish between the lookup and the insert.
	if err := s.responses.Create(ctx, resp); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": resp.TicketID})
		}
		return nil, repoError(err, "response", resp.ID)
	}
	parent := *ticket
	parent.Responses = nil
	resp.Ticket = &parent

	s.events.publish(ctx, events.Event{
		Type:     events.EventResponseCreated,
		TicketID: resp.TicketID,
		Actor:    events.ActorFrom(principal),
		Payload: events.ResponsePayload{
			ResponseID:  resp.ID,
			AuthorID:    resp.AuthorID,
			BodyPreview: stringPreview(resp.Content, previewLength),
		},
	})
	return resp, nil
}

// UpdateResponse changes the content of a response. Only its author or an
// admin may do so.
func (s *ResponseService) UpdateResponse(ctx context.Context, principal domain.Principal, responseID string, patch ResponsePatch) (*domain.Response, error) {
	resp, err := s.authorizedResponse(ctx, principal, responseID, "update")
	if err != nil {
		return nil, err
	}
	if patch.Content == nil {
		return resp, nil
	}

	content := strings.TrimSpace(*patch.Content)
	if content == "" {
		return nil, fieldErrors{"content": "the content field is required"}.err()
	}
	resp.Content = content
	if err := s.responses.Update(ctx, resp); err != nil {
		return nil, repoError(err, "response", responseID)
	}

	s.events.publish(ctx, events.Event{
		Type:     events.EventResponseUpdated,
		TicketID: resp.TicketID,
		Actor:    events.ActorFrom(principal),
		Payload: events.ResponsePayload{
			ResponseID:  resp.ID,
			AuthorID:    resp.AuthorID,
			BodyPreview: stringPreview(resp.Content, previewLength),
		},
	})
	return resp, nil
}

// DeleteResponse removes a response.
func (s *ResponseService) DeleteResponse(ctx context.Context, principal domain.Principal, responseID string) error {
	resp, err := s.authorizedResponse(ctx, principal, responseID, "delete")
	if err != nil {
		return err
	}
	if err := s.responses.Delete(ctx, resp.ID); err != nil {
		return repoError(err, "response", responseID)
	}

	s.events.publish(ctx, events.Event{
		Type:     events.EventResponseDeleted,
		TicketID: resp.TicketID,
		Actor:    events.ActorFrom(principal),
		Payload: events.ResponsePayload{
			ResponseID: resp.ID,
			AuthorID:   resp.AuthorID,
		},
	})
	return nil
}

func (s *ResponseService) authorizedResponse(ctx context.Context, principal domain.Principal, responseID, action string) (*domain.Response, error) {
	resp, err := s.responses.GetByID(ctx, responseID)
	if err != nil {
		return nil, repoError(err, "response", responseID)
	}
	if !authorize(principal, resp.AuthorID) {
		return nil, forbidden("response", action)
	}
	return resp, nil
}

func forbidden(resource, action string) error {
	return apperrors.NewForbidden("you do not have permission to " + action + " this " + resource)
}
