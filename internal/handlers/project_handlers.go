package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/common"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/services"
)

// ProjectHandlers handles HTTP requests for projects.
type ProjectHandlers struct {
	projectService services.ProjectService
}

func NewProjectHandlers(projectService services.ProjectService) *ProjectHandlers {
	return &ProjectHandlers{projectService: projectService}
}

// ProjectRequest is the create/update payload.
type ProjectRequest struct {
	ClientID    uuid.UUID   `json:"client_id" validate:"required"`
	Name        string      `json:"name" validate:"required"`
	Description *string     `json:"description"`
	HourlyRate  money.Money `json:"hourly_rate"`
	Active      *bool       `json:"active"`
}

// CreateProject handles POST /projects
func (h *ProjectHandlers) CreateProject(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "request", err.Error())
	}
	if req.HourlyRate.IsNegative() {
		return common.SendValidationError(c, "hourly_rate", "hourly rate cannot be negative")
	}

	project := &models.Project{
		ID:          uuid.New(),
		UserID:      userID,
		ClientID:    req.ClientID,
		Name:        req.Name,
		Description: req.Description,
		HourlyRate:  req.HourlyRate,
		Active:      true,
	}
	if req.Active != nil {
		project.Active = *req.Active
	}

	if err := h.projectService.Create(ctx, project); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "client")
		}
		return common.SendServerError(c, "Failed to create project")
	}

	return c.JSON(http.StatusCreated, project)
}

// GetProject handles GET /projects/:id
func (h *ProjectHandlers) GetProject(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	project, err := h.projectService.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "project")
		}
		return common.SendServerError(c, "Failed to retrieve project")
	}

	return c.JSON(http.StatusOK, project)
}

// UpdateProject handles PUT /projects/:id
func (h *ProjectHandlers) UpdateProject(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "request", err.Error())
	}
	if req.HourlyRate.IsNegative() {
		return common.SendValidationError(c, "hourly_rate", "hourly rate cannot be negative")
	}

	project, err := h.projectService.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "project")
		}
		return common.SendServerError(c, "Failed to retrieve project")
	}

	project.ClientID = req.ClientID
	project.Name = req.Name
	project.Description = req.Description
	project.HourlyRate = req.HourlyRate
	if req.Active != nil {
		project.Active = *req.Active
	}

	if err := h.projectService.Update(ctx, project); err != nil {
		return common.SendServerError(c, "Failed to update project")
	}

	return c.JSON(http.StatusOK, project)
}

// DeleteProject handles DELETE /projects/:id
func (h *ProjectHandlers) DeleteProject(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.projectService.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "project")
		}
		return common.SendServerError(c, "Failed to delete project")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListProjects handles GET /projects
func (h *ProjectHandlers) ListProjects(c echo.Context) error {
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

	projects, err := h.projectService.List(ctx, userID, clientID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list projects")
	}

	return c.JSON(http.StatusOK, projects)
}
