package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/customer-care/ticket-api/internal/domain"
	"github.com/customer-care/ticket-api/internal/events"
	"github.com/customer-care/ticket-api/internal/repository"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	events     publisher
	logger     *zap.Logger
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// TicketListQuery selects one page of tickets. Non-positive values fall back
// to the first page and the default page size.
type TicketListQuery struct {
	Page     int
	PageSize int
}

// TicketCreateInput describes ticket creation payload. Any owner supplied by
// the caller is ignored.
type TicketCreateInput struct {
	Title       string
	Description string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	AssigneeID  *string
	CategoryID  *string
}

// TicketPatch is a partial update; nil fields are left untouched. An empty
// AssigneeID or CategoryID clears the reference.
type TicketPatch struct {
	Title       *string
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	AssigneeID  *string
	CategoryID  *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		categories: deps.CategoryRepo,
		events:     publisher{dispatcher: deps.Dispatcher, logger: logger},
		logger:     logger,
	}
}

// ListTickets returns every ticket to admins and only their own to everyone else.
func (s *TicketService) ListTickets(ctx context.Context, principal domain.Principal, query TicketListQuery) (repository.Page[domain.Ticket], error) {
	filter := repository.TicketFilter{Page: query.Page, PageSize: query.PageSize}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = repository.DefaultPageSize
	}
	if !principal.IsAdmin {
		owner := principal.ID
		filter.OwnerID = &owner
	}
	page, err := s.tickets.List(ctx, filter)
	if err != nil {
		return repository.Page[domain.Ticket]{}, repoError(err, "ticket", "")
	}
	return page, nil
}

// GetTicket fetches a ticket with its responses.
func (s *TicketService) GetTicket(ctx context.Context, principal domain.Principal, ticketID string) (*domain.Ticket, error) {
	return s.authorizedTicket(ctx, principal, ticketID, "view")
}

// CreateTicket creates a ticket owned by the caller.
func (s *TicketService) CreateTicket(ctx context.Context, principal domain.Principal, input TicketCreateInput) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
		Priority:    domain.TicketPriorityMedium,
		OwnerID:     principal.ID,
	}

	problems := fieldErrors{}
	validateTitle(problems, ticket.Title)
	if ticket.Description == "" {
		problems.add("description", "the description field is required")
	}
	if input.Status != nil {
		ticket.Status = *input.Status
	}
	if input.Priority != nil {
		ticket.Priority = *input.Priority
	}
	validateEnums(problems, ticket)
	ticket.AssigneeID = s.resolveAssignee(ctx, problems, input.AssigneeID)
	ticket.CategoryID = s.resolveCategory(ctx, problems, input.CategoryID)
	if err := problems.err(); err != nil {
		return nil, err
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, repoError(err, "ticket", ticket.ID)
	}
	ticket.Responses = []domain.Response{}

	s.logger.Info("ticket created", zap.String("ticket_id", ticket.ID), zap.String("owner_id", ticket.OwnerID))
	s.events.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.ActorFrom(principal),
		Payload: events.TicketCreatedPayload{
			OwnerID:  ticket.OwnerID,
			Title:    ticket.Title,
			Status:   ticket.Status,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// UpdateTicket applies a partial update. The owner never changes.
func (s *TicketService) UpdateTicket(ctx context.Context, principal domain.Principal, ticketID string, patch TicketPatch) (*domain.Ticket, error) {
	ticket, err := s.authorizedTicket(ctx, principal, ticketID, "update")
	if err != nil {
		return nil, err
	}

	updated := *ticket
	var changed []string
	problems := fieldErrors{}

	if patch.Title != nil {
		updated.Title = strings.TrimSpace(*patch.Title)
		validateTitle(problems, updated.Title)
		if updated.Title != ticket.Title {
			changed = append(changed, "title")
		}
	}
	if patch.Description != nil {
		updated.Description = strings.TrimSpace(*patch.Description)
		if updated.Description == "" {
			problems.add("description", "the description field is required")
		}
		if updated.Description != ticket.Description {
			changed = append(changed, "description")
		}
	}
	if patch.Status != nil {
		updated.Status = *patch.Status
		if updated.Status != ticket.Status {
			changed = append(changed, "status")
		}
	}
	if patch.Priority != nil {
		updated.Priority = *patch.Priority
		if updated.Priority != ticket.Priority {
			changed = append(changed, "priority")
		}
	}
	validateEnums(problems, &updated)
	if patch.AssigneeID != nil {
		updated.AssigneeID = s.resolveAssignee(ctx, problems, patch.AssigneeID)
		if !sameRef(updated.AssigneeID, ticket.AssigneeID) {
			changed = append(changed, "assignee_id")
		}
	}
	if patch.CategoryID != nil {
		updated.CategoryID = s.resolveCategory(ctx, problems, patch.CategoryID)
		if !sameRef(updated.CategoryID, ticket.CategoryID) {
			changed = append(changed, "category_id")
		}
	}
	if err := problems.err(); err != nil {
		return nil, err
	}

	if err := s.tickets.Update(ctx, &updated); err != nil {
		return nil, repoError(err, "ticket", ticketID)
	}

	s.events.publish(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: updated.ID,
		Actor:    events.ActorFrom(principal),
		Payload: events.TicketUpdatedPayload{
			Changed:   changed,
			OldStatus: ticket.Status,
			NewStatus: updated.Status,
		},
	})
	return &updated, nil
}

// DeleteTicket removes a ticket together with its responses.
func (s *TicketService) DeleteTicket(ctx context.Context, principal domain.Principal, ticketID string) error {
	ticket, err := s.authorizedTicket(ctx, principal, ticketID, "delete")
	if err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		return repoError(err, "ticket", ticketID)
	}

	s.logger.Info("ticket deleted", zap.String("ticket_id", ticket.ID), zap.Int("responses", len(ticket.Responses)))
	s.events.publish(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
		Actor:    events.ActorFrom(principal),
		Payload: events.TicketDeletedPayload{
			OwnerID:   ticket.OwnerID,
			Responses: len(ticket.Responses),
		},
	})
	return nil
}

// authorizedTicket loads a ticket and applies the owner-or-admin rule.
func (s *TicketService) authorizedTicket(ctx context.Context, principal domain.Principal, ticketID, action string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, repoError(err, "ticket", ticketID)
	}
	if !authorize(principal, ticket.OwnerID) {
		return nil, forbidden("ticket", action)
	}
	return ticket, nil
}

func (s *TicketService) resolveAssignee(ctx context.Context, problems fieldErrors, id *string) *string {
	ref := normalizeRef(id)
	if ref == nil || s.users == nil {
		return ref
	}
	if _, err := s.users.GetByID(ctx, *ref); err != nil {
		problems.add("assignee_id", "the selected assignee is invalid")
	}
	return ref
}

func (s *TicketService) resolveCategory(ctx context.Context, problems fieldErrors, id *string) *string {
	ref := normalizeRef(id)
	if ref == nil || s.categories == nil {
		return ref
	}
	if _, err := s.categories.GetByID(ctx, *ref); err != nil {
		problems.add("category_id", "the selected category is invalid")
	}
	return ref
}

func validateTitle(problems fieldErrors, title string) {
	switch {
	case title == "":
		problems.add("title", "the title field is required")
	case utf8.RuneCountInString(title) > domain.MaxTitleLength:
		problems.add("title", "the title may not be greater than 255 characters")
	}
}

func validateEnums(problems fieldErrors, ticket *domain.Ticket) {
	if !ticket.Status.Valid() {
		problems.add("status", "the selected status is invalid")
	}
	if !ticket.Priority.Valid() {
		problems.add("priority", "the selected priority is invalid")
	}
}

func normalizeRef(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
