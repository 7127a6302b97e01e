package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/analytics"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/caching"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/common"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/config"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/handlers"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/jobs/background"
	appMiddleware "github.com/TekToro-IIoT/invoicing-portal-sub000/internal/middleware"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/repositories"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/services"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/pkg/database"
)

const version = "1.0.0"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") == "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	minioSvc, err := services.NewMinioService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to object storage")
	}
	for _, bucket := range []string{handlers.InvoiceBucket, handlers.LogoBucket} {
		if err := minioSvc.EnsureBucketExists(ctx, bucket); err != nil {
			log.Fatal().Err(err).Str("bucket", bucket).Msg("failed to ensure bucket")
		}
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	clientRepo := repositories.NewClientRepo(pool)
	companyRepo := repositories.NewCompanyRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	projectRepo := repositories.NewProjectRepo(pool)
	timeEntryRepo := repositories.NewTimeEntryRepo(pool)
	timeTicketRepo := repositories.NewTimeTicketRepo(pool)
	auditLogsRepo := repositories.NewAuditLogsRepo(pool)

	// Services
	auditSvc := services.NewAuditLogsService(auditLogsRepo)
	authSvc := services.NewAuthService(userRepo, cacheSvc, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	clientSvc := services.NewClientService(clientRepo, cacheSvc, auditSvc)
	companySvc := services.NewCompanyService(companyRepo, cacheSvc, auditSvc)
	invoiceSvc := services.NewInvoiceService(invoiceRepo, clientRepo, companyRepo, userRepo, timeEntryRepo, cacheSvc, auditSvc, cfg.DefaultInvoiceScope)
	projectSvc := services.NewProjectService(projectRepo, clientRepo)
	timeEntrySvc := services.NewTimeEntryService(timeEntryRepo, clientRepo)
	timeTicketSvc := services.NewTimeTicketService(timeTicketRepo, userRepo, invoiceSvc, auditSvc)
	analyticsSvc := analytics.NewService(invoiceRepo, cacheSvc)

	// Background jobs: overdue sweep and analytics refresh
	scheduler, err := background.NewJobScheduler(analyticsSvc, invoiceRepo, userRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create job scheduler")
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Warn().Err(err).Msg("job scheduler shutdown failed")
		}
	}()

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, userRepo)
	clientHandlers := handlers.NewClientHandlers(clientSvc)
	companyHandlers := handlers.NewCompanyHandlers(companySvc, minioSvc)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceSvc, clientSvc, companySvc, minioSvc)
	projectHandlers := handlers.NewProjectHandlers(projectSvc)
	timeEntryHandlers := handlers.NewTimeEntryHandlers(timeEntrySvc)
	timeTicketHandlers := handlers.NewTimeTicketHandlers(timeTicketSvc)
	analyticsHandlers := handlers.NewAnalyticsHandlers(analyticsSvc)
	auditLogsHandlers := handlers.NewAuditLogsHandlers(auditSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, minioSvc, version)

	e := echo.New()
	e.HideBanner = true
	e.Validator = common.NewRequestValidator()
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORS())

	// Public routes
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/ready", healthHandlers.Readiness)

	auth := e.Group("/auth")
	auth.Use(appMiddleware.RateLimit(cacheSvc, 20, time.Minute))
	auth.POST("/register", authHandlers.Register)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)
	auth.POST("/logout", authHandlers.Logout)

	// Authenticated API
	api := e.Group("/api/v1", appMiddleware.JWTMiddleware(cfg.JWTSecret))

	api.GET("/auth/me", authHandlers.Me)
	api.PUT("/auth/me", authHandlers.UpdateProfile)

	api.POST("/clients", clientHandlers.CreateClient)
	api.GET("/clients", clientHandlers.ListClients)
	api.GET("/clients/:id", clientHandlers.GetClient)
	api.PUT("/clients/:id", clientHandlers.UpdateClient)
	api.DELETE("/clients/:id", clientHandlers.DeleteClient)

	api.POST("/companies", companyHandlers.CreateCompany)
	api.GET("/companies", companyHandlers.ListCompanies)
	api.GET("/companies/default", companyHandlers.GetDefaultCompany)
	api.GET("/companies/:id", companyHandlers.GetCompany)
	api.PUT("/companies/:id", companyHandlers.UpdateCompany)
	api.DELETE("/companies/:id", companyHandlers.DeleteCompany)
	api.PUT("/companies/:id/default", companyHandlers.SetDefaultCompany)
	api.POST("/companies/:id/logo", companyHandlers.UploadLogo)
	api.GET("/companies/:id/logo", companyHandlers.GetLogoURL)

	api.POST("/invoices", invoiceHandlers.CreateInvoice)
	api.GET("/invoices", invoiceHandlers.ListInvoices)
	api.POST("/invoices/from-unbilled", invoiceHandlers.CreateFromUnbilled)
	api.GET("/invoices/master/:year/:month", invoiceHandlers.MasterInvoice)
	api.GET("/invoices/master/:year/:month/pdf", invoiceHandlers.MasterInvoicePDF)
	api.GET("/invoices/master/:year/:month/client/:clientId", invoiceHandlers.MasterInvoice)
	api.GET("/invoices/master/:year/:month/client/:clientId/pdf", invoiceHandlers.MasterInvoicePDF)
	api.GET("/invoices/:id", invoiceHandlers.GetInvoice)
	api.PUT("/invoices/:id", invoiceHandlers.UpdateInvoice)
	api.DELETE("/invoices/:id", invoiceHandlers.DeleteInvoice)
	api.PATCH("/invoices/:id/status", invoiceHandlers.UpdateInvoiceStatus)
	api.GET("/invoices/:id/pdf", invoiceHandlers.RenderInvoicePDF)

	api.POST("/projects", projectHandlers.CreateProject)
	api.GET("/projects", projectHandlers.ListProjects)
	api.GET("/projects/:id", projectHandlers.GetProject)
	api.PUT("/projects/:id", projectHandlers.UpdateProject)
	api.DELETE("/projects/:id", projectHandlers.DeleteProject)

	api.POST("/time-entries", timeEntryHandlers.CreateTimeEntry)
	api.GET("/time-entries", timeEntryHandlers.ListTimeEntries)
	api.GET("/time-entries/unbilled", timeEntryHandlers.ListUnbilled)
	api.GET("/time-entries/:id", timeEntryHandlers.GetTimeEntry)
	api.PUT("/time-entries/:id", timeEntryHandlers.UpdateTimeEntry)
	api.DELETE("/time-entries/:id", timeEntryHandlers.DeleteTimeEntry)

	api.POST("/time-tickets", timeTicketHandlers.CreateTimeTicket)
	api.GET("/time-tickets", timeTicketHandlers.ListTimeTickets)
	api.GET("/time-tickets/:id", timeTicketHandlers.GetTimeTicket)
	api.PUT("/time-tickets/:id", timeTicketHandlers.UpdateTimeTicket)
	api.DELETE("/time-tickets/:id", timeTicketHandlers.DeleteTimeTicket)
	api.POST("/time-tickets/:id/submit", timeTicketHandlers.SubmitTimeTicket)

	api.GET("/analytics/summary", analyticsHandlers.GetSummary)
	api.POST("/analytics/summary/refresh", analyticsHandlers.RefreshSummary)

	api.GET("/audit-logs", auditLogsHandlers.ListAuditLogs)
	api.GET("/audit-logs/:entityType/:entityId", auditLogsHandlers.EntityHistory)

	// Serve until interrupted, then drain in-flight requests.
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("version", version).Msg("invoicing portal started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
