package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/common"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/services"
)

// AuditLogsHandlers exposes the per-user activity trail.
type AuditLogsHandlers struct {
	auditSvc services.AuditLogsService
}

func NewAuditLogsHandlers(auditSvc services.AuditLogsService) *AuditLogsHandlers {
	return &AuditLogsHandlers{auditSvc: auditSvc}
}

// ListAuditLogs handles GET /audit-logs
// Optional entity_type and action query parameters narrow the listing.
func (h *AuditLogsHandlers) ListAuditLogs(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	var entityType, action *string
	if raw := c.QueryParam("entity_type"); raw != "" {
		entityType = &raw
	}
	if raw := c.QueryParam("action"); raw != "" {
		action = &raw
	}

	logs, err := h.auditSvc.List(ctx, userID, entityType, action, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list audit logs")
	}

	return c.JSON(http.StatusOK, logs)
}

// EntityHistory handles GET /audit-logs/:entityType/:entityId
func (h *AuditLogsHandlers) EntityHistory(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	entityType := c.Param("entityType")
	entityID := c.Param("entityId")
	if err := common.ValidateRequiredString(entityType, "entityType"); err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := common.ValidateRequiredString(entityID, "entityId"); err != nil {
		return common.SendClientError(c, err.Error())
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	logs, err := h.auditSvc.EntityHistory(ctx, userID, entityType, entityID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to load entity history")
	}

	return c.JSON(http.StatusOK, logs)
}
