package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/analytics"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/common"
)

// AnalyticsHandlers exposes the cached per-user billing summary.
type AnalyticsHandlers struct {
	analyticsSvc *analytics.Service
}

func NewAnalyticsHandlers(analyticsSvc *analytics.Service) *AnalyticsHandlers {
	return &AnalyticsHandlers{analyticsSvc: analyticsSvc}
}

// GetSummary handles GET /analytics/summary
func (h *AnalyticsHandlers) GetSummary(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	summary, err := h.analyticsSvc.Get(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Failed to compute analytics summary")
	}

	return c.JSON(http.StatusOK, summary)
}

// RefreshSummary handles POST /analytics/summary/refresh
// Bypasses the cache and recomputes from current invoices.
func (h *AnalyticsHandlers) RefreshSummary(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	summary, err := h.analyticsSvc.Refresh(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Failed to refresh analytics summary")
	}

	return c.JSON(http.StatusOK, summary)
}
