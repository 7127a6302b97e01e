package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/caching"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/services"
)

// HealthHandlers handles health check and monitoring endpoints.
type HealthHandlers struct {
	db       *pgxpool.Pool
	cacheSvc caching.CacheService
	minioSvc services.MinioService
	started  time.Time
	version  string
}

func NewHealthHandlers(db *pgxpool.Pool, cacheSvc caching.CacheService, minioSvc services.MinioService, version string) *HealthHandlers {
	return &HealthHandlers{
		db:       db,
		cacheSvc: cacheSvc,
		minioSvc: minioSvc,
		started:  time.Now(),
		version:  version,
	}
}

// HealthStatus is the overall health report.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

// HealthCheck handles GET /health
// Probes the database, cache, and object storage; a failing dependency
// degrades the report but the endpoint itself still responds.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Version:   h.version,
	}

	checks := map[string]func(context.Context) error{
		"database": h.checkDatabase,
		"redis":    h.checkRedis,
		"storage":  h.checkStorage,
	}
	for name, check := range checks {
		if err := check(ctx); err != nil {
			health.Services[name] = "unhealthy"
			health.Status = "degraded"
		} else {
			health.Services[name] = "healthy"
		}
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusPartialContent
	}
	return c.JSON(statusCode, health)
}

// Readiness handles GET /ready for orchestrator probes.
func (h *HealthHandlers) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.checkDatabase(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

func (h *HealthHandlers) checkDatabase(ctx context.Context) error {
	return h.db.Ping(ctx)
}

func (h *HealthHandlers) checkRedis(ctx context.Context) error {
	if err := h.cacheSvc.SetString(ctx, "health:ping", "ok", 30*time.Second); err != nil {
		return err
	}
	_, err := h.cacheSvc.GetString(ctx, "health:ping")
	return err
}

func (h *HealthHandlers) checkStorage(ctx context.Context) error {
	return h.minioSvc.EnsureBucketExists(ctx, InvoiceBucket)
}
