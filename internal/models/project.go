package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
)

// Project groups time entries under a client with a default hourly rate.
type Project struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	UserID      uuid.UUID   `json:"user_id" db:"user_id"`
	ClientID    uuid.UUID   `json:"client_id" db:"client_id"`
	Name        string      `json:"name" db:"name"`
	Description *string     `json:"description" db:"description"`
	HourlyRate  money.Money `json:"hourly_rate" db:"hourly_rate"`
	Active      bool        `json:"active" db:"active"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}
