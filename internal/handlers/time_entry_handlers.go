package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/common"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/services"
)

// TimeEntryHandlers handles HTTP requests for tracked time.
type TimeEntryHandlers struct {
	timeEntryService services.TimeEntryService
}

func NewTimeEntryHandlers(timeEntryService services.TimeEntryService) *TimeEntryHandlers {
	return &TimeEntryHandlers{timeEntryService: timeEntryService}
}

// TimeEntryRequest is the create/update payload.
type TimeEntryRequest struct {
	ClientID    uuid.UUID   `json:"client_id" validate:"required"`
	ProjectID   *uuid.UUID  `json:"project_id"`
	EntryDate   string      `json:"entry_date" validate:"required"`
	Hours       money.Hours `json:"hours"`
	Description string      `json:"description" validate:"required"`
}

// sendTimeEntryError maps immutability failures onto HTTP responses.
func sendTimeEntryError(c echo.Context, err error, fallback string) error {
	if errors.Is(err, services.ErrNotFound) {
		return common.SendNotFoundError(c, "time entry")
	}
	if strings.Contains(err.Error(), "billed time entries") {
		return common.SendConflictError(c, err.Error())
	}
	return common.SendServerError(c, fallback)
}

// CreateTimeEntry handles POST /time-entries
func (h *TimeEntryHandlers) CreateTimeEntry(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req TimeEntryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "request", err.Error())
	}

	entryDate, err := common.ValidateDateFormat(req.EntryDate, "entry_date")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	entry := &models.TimeEntry{
		ID:          uuid.New(),
		UserID:      userID,
		ClientID:    req.ClientID,
		ProjectID:   req.ProjectID,
		EntryDate:   entryDate,
		Hours:       req.Hours,
		Description: req.Description,
	}

	if err := h.timeEntryService.Create(ctx, entry); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "client")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, entry)
}

// GetTimeEntry handles GET /time-entries/:id
func (h *TimeEntryHandlers) GetTimeEntry(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	entry, err := h.timeEntryService.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "time entry")
		}
		return common.SendServerError(c, "Failed to retrieve time entry")
	}

	return c.JSON(http.StatusOK, entry)
}

// UpdateTimeEntry handles PUT /time-entries/:id
// Billed entries are immutable until their invoice is deleted.
func (h *TimeEntryHandlers) UpdateTimeEntry(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req TimeEntryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "request", err.Error())
	}

	entryDate, err := common.ValidateDateFormat(req.EntryDate, "entry_date")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	entry, err := h.timeEntryService.GetByID(ctx, userID, id)
	if err != nil {
		return sendTimeEntryError(c, err, "Failed to retrieve time entry")
	}

	entry.ClientID = req.ClientID
	entry.ProjectID = req.ProjectID
	entry.EntryDate = entryDate
	entry.Hours = req.Hours
	entry.Description = req.Description

	if err := h.timeEntryService.Update(ctx, entry); err != nil {
		return sendTimeEntryError(c, err, "Failed to update time entry")
	}

	return c.JSON(http.StatusOK, entry)
}

// DeleteTimeEntry handles DELETE /time-entries/:id
func (h *TimeEntryHandlers) DeleteTimeEntry(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.timeEntryService.Delete(ctx, userID, id); err != nil {
		return sendTimeEntryError(c, err, "Failed to delete time entry")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListTimeEntries handles GET /time-entries
func (h *TimeEntryHandlers) ListTimeEntries(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	var clientID *uuid.UUID
	if raw := c.QueryParam("client_id"); raw != "" {
		id, err := common.ValidateUUID(raw, "client_id")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		clientID = &id
	}

	entries, err := h.timeEntryService.List(ctx, userID, clientID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list time entries")
	}

	return c.JSON(http.StatusOK, entries)
}

// ListUnbilled handles GET /time-entries/unbilled
// Requires a client_id query parameter; returns entries not yet invoiced.
func (h *TimeEntryHandlers) ListUnbilled(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	clientID, err := common.ValidateUUID(c.QueryParam("client_id"), "client_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	entries, err := h.timeEntryService.ListUnbilled(ctx, userID, clientID)
	if err != nil {
		return common.SendServerError(c, "Failed to list unbilled time entries")
	}

	return c.JSON(http.StatusOK, entries)
}
