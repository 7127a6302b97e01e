package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
)

// TimeEntry is one tracked block of billable time. Once pulled onto an
// invoice it is marked billed and linked to the invoice.
type TimeEntry struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	UserID      uuid.UUID   `json:"user_id" db:"user_id"`
	ClientID    uuid.UUID   `json:"client_id" db:"client_id"`
	ProjectID   *uuid.UUID  `json:"project_id" db:"project_id"`
	EntryDate   time.Time   `json:"entry_date" db:"entry_date"`
	Hours       money.Hours `json:"hours" db:"hours"`
	Description string      `json:"description" db:"description"`
	Billed      bool        `json:"billed" db:"billed"`
	InvoiceID   *uuid.UUID  `json:"invoice_id" db:"invoice_id"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}
