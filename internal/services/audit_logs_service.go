package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/repositories"
)

// AuditLogsService records and queries mutation history for billing entities.
type AuditLogsService interface {
	LogActivity(ctx context.Context, userID uuid.UUID, entityType, entityID, action string, detail *string) error
	List(ctx context.Context, userID uuid.UUID, entityType, action *string, limit, offset int) ([]*models.AuditLog, error)
	EntityHistory(ctx context.Context, userID uuid.UUID, entityType, entityID string, limit, offset int) ([]*models.AuditLog, error)
}

type auditLogsService struct {
	auditLogsRepo repositories.AuditLogsRepository
}

func NewAuditLogsService(auditLogsRepo repositories.AuditLogsRepository) AuditLogsService {
	return &auditLogsService{auditLogsRepo: auditLogsRepo}
}

// LogActivity appends an audit entry. Failures are logged but never
// propagated; audit writes must not fail the mutation they describe.
func (s *auditLogsService) LogActivity(ctx context.Context, userID uuid.UUID, entityType, entityID, action string, detail *string) error {
	if entityType == "" || action == "" {
		return errors.New("entity_type and action are required")
	}

	entry := &models.AuditLog{
		ID:         uuid.New(),
		UserID:     userID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Detail:     detail,
	}
	if err := s.auditLogsRepo.Create(ctx, entry); err != nil {
		log.Warn().Err(err).Str("entity_type", entityType).Str("action", action).Msg("failed to write audit log")
	}
	return nil
}

func (s *auditLogsService) List(ctx context.Context, userID uuid.UUID, entityType, action *string, limit, offset int) ([]*models.AuditLog, error) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	return s.auditLogsRepo.List(ctx, userID, entityType, action, limit, offset)
}

func (s *auditLogsService) EntityHistory(ctx context.Context, userID uuid.UUID, entityType, entityID string, limit, offset int) ([]*models.AuditLog, error) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	return s.auditLogsRepo.ListByEntity(ctx, userID, entityType, entityID, limit, offset)
}
