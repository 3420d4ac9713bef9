package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/customer-care/ticket-api/internal/api/dto"
	"github.com/customer-care/ticket-api/internal/service"
)

// ResponsesHandler manages ticket reply endpoints.
type ResponsesHandler struct {
	service *service.ResponseService
}

// NewResponsesHandler constructs handler.
func NewResponsesHandler(responseService *service.ResponseService) *ResponsesHandler {
	return &ResponsesHandler{service: responseService}
}

// ListResponses GET /api/responses.
func (h *ResponsesHandler) ListResponses(c *fiber.Ctx) error {
	responses, err := h.service.ListResponses(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.Success("Responses retrieved successfully", responseDetails(responses)))
}

// ListTicketResponses GET /api/tickets/:ticketId/responses.
func (h *ResponsesHandler) ListTicketResponses(c *fiber.Ctx) error {
	responses, err := h.service.ListResponsesForTicket(c.UserContext(), c.Params("ticketId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.Success("Responses retrieved successfully", responseDetails(responses)))
}

// CreateResponse POST /api/responses and POST /api/tickets/:ticketId/responses.
func (h *ResponsesHandler) CreateResponse(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateResponseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if ticketID := c.Params("ticketId"); ticketID != "" {
		req.TicketID = ticketID
	}
	resp, err := h.service.CreateResponse(c.UserContext(), principal, service.ResponseCreateInput{
		TicketID: req.TicketID,
		Content:  req.Content,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Success("Response created successfully", responseDetail(resp)))
}

// GetResponse GET /api/responses/:id.
func (h *ResponsesHandler) GetResponse(c *fiber.Ctx) error {
	resp, err := h.service.GetResponse(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.Success("Response retrieved successfully", responseDetail(resp)))
}

// UpdateResponse PUT /api/responses/:id.
func (h *ResponsesHandler) UpdateResponse(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateResponseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.service.UpdateResponse(c.UserContext(), principal, c.Params("id"), service.ResponsePatch{Content: req.Content})
	if err != nil {
		return err
	}
	return c.JSON(dto.Success("Response updated successfully", responseDetail(resp)))
}

// DeleteResponse DELETE /api/responses/:id.
func (h *ResponsesHandler) DeleteResponse(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteResponse(c.UserContext(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.Success("Response deleted successfully", nil))
}
