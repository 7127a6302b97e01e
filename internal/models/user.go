package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
)

// User is the tenant: every client, company, invoice, and time record is
// scoped to its owning user.
type User struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	Email        string      `json:"email" db:"email"`
	PasswordHash string      `json:"-" db:"password_hash"` // Never serialize in JSON
	FirstName    string      `json:"first_name" db:"first_name"`
	LastName     string      `json:"last_name" db:"last_name"`
	RegularRate  money.Money `json:"regular_rate" db:"regular_rate"`
	OvertimeRate money.Money `json:"overtime_rate" db:"overtime_rate"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}
