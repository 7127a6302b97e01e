package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
)

// TimeTicketStatus enumerates time ticket states.
type TimeTicketStatus string

const (
	TimeTicketStatusOpen      TimeTicketStatus = "open"
	TimeTicketStatusSubmitted TimeTicketStatus = "submitted"
)

// TimeTicket is the field time-capture form. Submitting a ticket generates
// a draft invoice priced at the owning user's regular/overtime rates; the
// well and AFE/LOE tags are carried onto the invoice line items as-is.
type TimeTicket struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	UserID        uuid.UUID        `json:"user_id" db:"user_id"`
	ClientID      uuid.UUID        `json:"client_id" db:"client_id"`
	TicketDate    time.Time        `json:"ticket_date" db:"ticket_date"`
	JobCode       *string          `json:"job_code" db:"job_code"`
	ServicePoint  *string          `json:"service_point" db:"service_point"`
	AFENumber     *string          `json:"afe_number" db:"afe_number"`
	LOENumber     *string          `json:"loe_number" db:"loe_number"`
	WellName      *string          `json:"well_name" db:"well_name"`
	WellNumber    *string          `json:"well_number" db:"well_number"`
	Description   string           `json:"description" db:"description"`
	RegularHours  money.Hours      `json:"regular_hours" db:"regular_hours"`
	OvertimeHours money.Hours      `json:"overtime_hours" db:"overtime_hours"`
	Status        TimeTicketStatus `json:"status" db:"status"`
	InvoiceID     *uuid.UUID       `json:"invoice_id" db:"invoice_id"`
	SubmittedAt   *time.Time       `json:"submitted_at" db:"submitted_at"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}
