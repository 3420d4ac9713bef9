package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/customer-care/ticket-api/internal/api/dto"
	"github.com/customer-care/ticket-api/internal/auth"
	"github.com/customer-care/ticket-api/internal/domain"
	apperrors "github.com/customer-care/ticket-api/pkg/util/errorutil"
)

func currentPrincipal(c *fiber.Ctx) (domain.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.Principal{}, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

// parseInt returns def for missing, malformed or non-positive values.
func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		OwnerID:     ticket.OwnerID,
		AssigneeID:  ticket.AssigneeID,
		CategoryID:  ticket.CategoryID,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket) dto.TicketDetail {
	responses := make([]dto.ResponseDetail, 0, len(ticket.Responses))
	for i := range ticket.Responses {
		responses = append(responses, responseDetail(&ticket.Responses[i]))
	}
	return dto.TicketDetail{TicketSummary: ticketSummary(ticket), Responses: responses}
}

func responseDetail(resp *domain.Response) dto.ResponseDetail {
	out := dto.ResponseDetail{
		ID:        resp.ID,
		TicketID:  resp.TicketID,
		AuthorID:  resp.AuthorID,
		Content:   resp.Content,
		CreatedAt: resp.CreatedAt,
		UpdatedAt: resp.UpdatedAt,
	}
	if resp.Ticket != nil {
		summary := ticketSummary(resp.Ticket)
		out.Ticket = &summary
	}
	return out
}

func responseDetails(responses []domain.Response) []dto.ResponseDetail {
	out := make([]dto.ResponseDetail, 0, len(responses))
	for i := range responses {
		out = append(out, responseDetail(&responses[i]))
	}
	return out
}

func userProfile(user *domain.User) dto.UserProfile {
	return dto.UserProfile{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
}

func categoryDetail(category *domain.Category) dto.CategoryDetail {
	return dto.CategoryDetail{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}
