package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records a mutation against one of the billing entities.
type AuditLog struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	EntityType string    `json:"entity_type" db:"entity_type"`
	EntityID   string    `json:"entity_id" db:"entity_id"`
	Action     string    `json:"action" db:"action"`
	Detail     *string   `json:"detail" db:"detail"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Action constants for audit logs
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
	ActionStatus = "STATUS"
	ActionSubmit = "SUBMIT"
)
