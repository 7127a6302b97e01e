package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
)

type AuditLogsRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, userID uuid.UUID, entityType, action *string, limit, offset int) ([]*models.AuditLog, error)
	ListByEntity(ctx context.Context, userID uuid.UUID, entityType, entityID string, limit, offset int) ([]*models.AuditLog, error)
}

type auditLogsRepo struct {
	db DB
}

func NewAuditLogsRepo(db DB) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

func (r *auditLogsRepo) Create(ctx context.Context, log *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, user_id, entity_type, entity_id, action, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, log.ID, log.UserID, log.EntityType, log.EntityID, log.Action, log.Detail)
	return err
}

func (r *auditLogsRepo) List(ctx context.Context, userID uuid.UUID, entityType, action *string, limit, offset int) ([]*models.AuditLog, error) {
	query := `
		SELECT id, user_id, entity_type, entity_id, action, detail, created_at
		FROM audit_logs
		WHERE user_id = $1
		  AND ($2::text IS NULL OR entity_type = $2)
		  AND ($3::text IS NULL OR action = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := r.db.Query(ctx, query, userID, entityType, action, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		l := &models.AuditLog{}
		if err := rows.Scan(&l.ID, &l.UserID, &l.EntityType, &l.EntityID, &l.Action, &l.Detail, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *auditLogsRepo) ListByEntity(ctx context.Context, userID uuid.UUID, entityType, entityID string, limit, offset int) ([]*models.AuditLog, error) {
	query := `
		SELECT id, user_id, entity_type, entity_id, action, detail, created_at
		FROM audit_logs
		WHERE user_id = $1 AND entity_type = $2 AND entity_id = $3
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := r.db.Query(ctx, query, userID, entityType, entityID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		l := &models.AuditLog{}
		if err := rows.Scan(&l.ID, &l.UserID, &l.EntityType, &l.EntityID, &l.Action, &l.Detail, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
