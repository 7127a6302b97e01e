package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/common"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/services"
)

// ClientHandlers handles HTTP requests for billable clients.
type ClientHandlers struct {
	clientService services.ClientService
}

func NewClientHandlers(clientService services.ClientService) *ClientHandlers {
	return &ClientHandlers{clientService: clientService}
}

// ClientRequest is the create/update payload.
type ClientRequest struct {
	Name         string  `json:"name" validate:"required"`
	ContactName  *string `json:"contact_name"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phone"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	Province     *string `json:"province"`
	PostalCode   *string `json:"postal_code"`
}

func (r *ClientRequest) apply(client *models.Client) {
	client.Name = r.Name
	client.ContactName = r.ContactName
	client.Email = r.Email
	client.Phone = r.Phone
	client.AddressLine1 = r.AddressLine1
	client.AddressLine2 = r.AddressLine2
	client.City = r.City
	client.Province = r.Province
	client.PostalCode = r.PostalCode
}

// CreateClient handles POST /clients
func (h *ClientHandlers) CreateClient(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ClientRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "request", err.Error())
	}

	client := &models.Client{
		ID:     uuid.New(),
		UserID: userID,
	}
	req.apply(client)

	if err := h.clientService.Create(ctx, client); err != nil {
		return common.SendServerError(c, "Failed to create client")
	}

	return c.JSON(http.StatusCreated, client)
}

// GetClient handles GET /clients/:id
func (h *ClientHandlers) GetClient(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	client, err := h.clientService.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "client")
		}
		return common.SendServerError(c, "Failed to retrieve client")
	}

	return c.JSON(http.StatusOK, client)
}

// UpdateClient handles PUT /clients/:id
func (h *ClientHandlers) UpdateClient(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req ClientRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "request", err.Error())
	}

	client, err := h.clientService.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "client")
		}
		return common.SendServerError(c, "Failed to retrieve client")
	}

	req.apply(client)
	if err := h.clientService.Update(ctx, client); err != nil {
		return common.SendServerError(c, "Failed to update client")
	}

	return c.JSON(http.StatusOK, client)
}

// DeleteClient handles DELETE /clients/:id
func (h *ClientHandlers) DeleteClient(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.clientService.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "client")
		}
		return common.SendServerError(c, "Failed to delete client")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListClients handles GET /clients
func (h *ClientHandlers) ListClients(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	clients, err := h.clientService.List(ctx, userID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list clients")
	}

	return c.JSON(http.StatusOK, clients)
}
