package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/common"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/services"
)

// TimeTicketHandlers handles HTTP requests for field time tickets.
type TimeTicketHandlers struct {
	timeTicketService services.TimeTicketService
}

func NewTimeTicketHandlers(timeTicketService services.TimeTicketService) *TimeTicketHandlers {
	return &TimeTicketHandlers{timeTicketService: timeTicketService}
}

// TimeTicketRequest is the create/update payload. The classification tags
// are opaque text carried onto generated invoice line items.
type TimeTicketRequest struct {
	ClientID      uuid.UUID   `json:"client_id" validate:"required"`
	TicketDate    string      `json:"ticket_date" validate:"required"`
	JobCode       *string     `json:"job_code"`
	ServicePoint  *string     `json:"service_point"`
	AFENumber     *string     `json:"afe_number"`
	LOENumber     *string     `json:"loe_number"`
	WellName      *string     `json:"well_name"`
	WellNumber    *string     `json:"well_number"`
	Description   string      `json:"description" validate:"required"`
	RegularHours  money.Hours `json:"regular_hours"`
	OvertimeHours money.Hours `json:"overtime_hours"`
}

func (r *TimeTicketRequest) apply(ticket *models.TimeTicket, ticketDate time.Time) {
	ticket.ClientID = r.ClientID
	ticket.TicketDate = ticketDate
	ticket.JobCode = r.JobCode
	ticket.ServicePoint = r.ServicePoint
	ticket.AFENumber = r.AFENumber
	ticket.LOENumber = r.LOENumber
	ticket.WellName = r.WellName
	ticket.WellNumber = r.WellNumber
	ticket.Description = r.Description
	ticket.RegularHours = r.RegularHours
	ticket.OvertimeHours = r.OvertimeHours
}

func sendTimeTicketError(c echo.Context, err error, fallback string) error {
	if errors.Is(err, services.ErrNotFound) {
		return common.SendNotFoundError(c, "time ticket")
	}
	if strings.Contains(err.Error(), "submitted") {
		return common.SendConflictError(c, err.Error())
	}
	return common.SendServerError(c, fallback)
}

// CreateTimeTicket handles POST /time-tickets
func (h *TimeTicketHandlers) CreateTimeTicket(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req TimeTicketRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "request", err.Error())
	}

	ticketDate, err := common.ValidateDateFormat(req.TicketDate, "ticket_date")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	ticket := &models.TimeTicket{
		ID:     uuid.New(),
		UserID: userID,
	}
	req.apply(ticket, ticketDate)

	if err := h.timeTicketService.Create(ctx, ticket); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "client")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, ticket)
}

// GetTimeTicket handles GET /time-tickets/:id
func (h *TimeTicketHandlers) GetTimeTicket(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	ticket, err := h.timeTicketService.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "time ticket")
		}
		return common.SendServerError(c, "Failed to retrieve time ticket")
	}

	return c.JSON(http.StatusOK, ticket)
}

// UpdateTimeTicket handles PUT /time-tickets/:id
// Submitted tickets are locked.
func (h *TimeTicketHandlers) UpdateTimeTicket(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req TimeTicketRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "request", err.Error())
	}

	ticketDate, err := common.ValidateDateFormat(req.TicketDate, "ticket_date")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	ticket, err := h.timeTicketService.GetByID(ctx, userID, id)
	if err != nil {
		return sendTimeTicketError(c, err, "Failed to retrieve time ticket")
	}

	req.apply(ticket, ticketDate)
	if err := h.timeTicketService.Update(ctx, ticket); err != nil {
		return sendTimeTicketError(c, err, "Failed to update time ticket")
	}

	return c.JSON(http.StatusOK, ticket)
}

// DeleteTimeTicket handles DELETE /time-tickets/:id
func (h *TimeTicketHandlers) DeleteTimeTicket(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.timeTicketService.Delete(ctx, userID, id); err != nil {
		return sendTimeTicketError(c, err, "Failed to delete time ticket")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListTimeTickets handles GET /time-tickets
func (h *TimeTicketHandlers) ListTimeTickets(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	var status *models.TimeTicketStatus
	if raw := c.QueryParam("status"); raw != "" {
		s := models.TimeTicketStatus(raw)
		if s != models.TimeTicketStatusOpen && s != models.TimeTicketStatusSubmitted {
			return common.SendValidationError(c, "status", "unknown time ticket status")
		}
		status = &s
	}

	tickets, err := h.timeTicketService.List(ctx, userID, status, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list time tickets")
	}

	return c.JSON(http.StatusOK, tickets)
}

// SubmitTimeTicketRequest carries the invoice parameters for submission.
type SubmitTimeTicketRequest struct {
	TaxRate decimal.Decimal `json:"tax_rate"`
	DueDate string          `json:"due_date" validate:"required"`
}

// SubmitTimeTicket handles POST /time-tickets/:id/submit
// Submission generates a draft invoice priced at the user's regular and
// overtime rates and locks the ticket.
func (h *TimeTicketHandlers) SubmitTimeTicket(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req SubmitTimeTicketRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "due_date", err.Error())
	}

	dueDate, err := common.ValidateDateFormat(req.DueDate, "due_date")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.timeTicketService.Submit(ctx, userID, id, req.TaxRate, dueDate)
	if err != nil {
		return sendTimeTicketError(c, err, "Failed to submit time ticket")
	}

	return c.JSON(http.StatusCreated, invoice)
}
