package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/support-desk/helpdesk/internal/api/dto"
	"github.com/support-desk/helpdesk/internal/auth"
	"github.com/support-desk/helpdesk/internal/observability"
	"github.com/support-desk/helpdesk/internal/service"
)

// TicketsHandler manages end-user ticket endpoints. Mutations require a
// resolved session; listing falls open to an empty collection instead.
type TicketsHandler struct {
	service  *service.TicketService
	eventLog *observability.EventLogger
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, eventLog *observability.EventLogger) *TicketsHandler {
	if eventLog == nil {
		eventLog = observability.NewEventLogger(nil)
	}
	return &TicketsHandler{service: ticketService, eventLog: eventLog}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		h.eventLog.LogEvent("Unauthorized ticket creation attempt", observability.CategoryTicket,
			nil, observability.SeverityWarning, nil)
		return actionFailure(c, http.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return actionFailure(c, http.StatusBadRequest, "Missing required fields: subject, description, priority")
	}

	input := service.TicketCreateInput{
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    req.Priority,
	}
	if _, err := h.service.Create(c.Context(), user.ID, input); err != nil {
		return actionError(c, err, "Failed to create ticket")
	}
	return c.Status(http.StatusCreated).JSON(dto.ActionResponse{
		Success: true,
		Message: "Ticket created successfully",
	})
}

// List GET /tickets. An unauthenticated caller gets an empty list, not
// an error; so does a caller whose fetch failed. Deliberate fail-open.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		h.eventLog.LogEvent("Unauthorized ticket list access", observability.CategoryTicket,
			nil, observability.SeverityWarning, nil)
		return c.JSON(fiber.Map{"data": []dto.TicketResponse{}})
	}

	tickets, err := h.service.ListOwned(c.Context(), user.ID)
	if err != nil {
		return c.JSON(fiber.Map{"data": []dto.TicketResponse{}})
	}

	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.FromTicket(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /tickets/:id. Value-or-none: an unknown or non-numeric id
// answers with no data, never an error.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		h.eventLog.LogEvent("Ticket not found: invalid id", observability.CategoryTicket,
			map[string]any{"raw_id": c.Params("id")}, observability.SeverityWarning, nil)
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"data": nil})
	}

	ticket, err := h.service.Get(c.Context(), id)
	if err != nil || ticket == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"data": nil})
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// Close POST /tickets/:id/close.
func (h *TicketsHandler) Close(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		h.eventLog.LogEvent("Unauthorized ticket close attempt", observability.CategoryTicket,
			map[string]any{"raw_id": c.Params("id")}, observability.SeverityWarning, nil)
		return actionFailure(c, http.StatusUnauthorized, "Unauthorized")
	}

	// a non-numeric id cannot name an owned ticket; answer exactly like
	// an ownership mismatch
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return actionFailure(c, http.StatusUnauthorized, "You are not authorized to close this ticket")
	}

	if _, err := h.service.Close(c.Context(), user.ID, id); err != nil {
		return actionError(c, err, "Failed to close ticket")
	}
	return c.JSON(dto.ActionResponse{
		Success: true,
		Message: "Ticket closed successfully",
	})
}
