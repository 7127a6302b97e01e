package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
)

// InvoiceStatus enumerates invoice states. Transitions are deliberately
// unconstrained: any status may be set to any other.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// Valid reports whether s is one of the known invoice statuses.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// Invoice is a single bill to one client. Subtotal, tax amount, and total
// are always recomputed from the line items before persisting.
type Invoice struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	UserID               uuid.UUID       `json:"user_id" db:"user_id"`
	ClientID             uuid.UUID       `json:"client_id" db:"client_id"`
	InvoiceNumber        string          `json:"invoice_number" db:"invoice_number"`
	IssueDate            time.Time       `json:"issue_date" db:"issue_date"`
	DueDate              time.Time       `json:"due_date" db:"due_date"`
	Subtotal             money.Money     `json:"subtotal" db:"subtotal"`
	TaxRate              decimal.Decimal `json:"tax_rate" db:"tax_rate"`
	TaxAmount            money.Money     `json:"tax_amount" db:"tax_amount"`
	Total                money.Money     `json:"total" db:"total"`
	Status               InvoiceStatus   `json:"status" db:"status"`
	Notes                *string         `json:"notes" db:"notes"`
	EquipmentDescription *string         `json:"equipment_description" db:"equipment_description"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`

	// Populated when the invoice is loaded with detail.
	LineItems []*InvoiceLineItem `json:"line_items,omitempty" db:"-"`
}

// InvoiceLineItem is one billable row: rate × (hours + quantity). The
// classification tags (job code, service point, AFE/LOE, well) are opaque
// text with no computational role.
type InvoiceLineItem struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	InvoiceID    uuid.UUID   `json:"invoice_id" db:"invoice_id"`
	TimeEntryID  *uuid.UUID  `json:"time_entry_id" db:"time_entry_id"`
	JobCode      *string     `json:"job_code" db:"job_code"`
	ServicePoint *string     `json:"service_point" db:"service_point"`
	AFENumber    *string     `json:"afe_number" db:"afe_number"`
	LOENumber    *string     `json:"loe_number" db:"loe_number"`
	WellName     *string     `json:"well_name" db:"well_name"`
	WellNumber   *string     `json:"well_number" db:"well_number"`
	Description  string      `json:"description" db:"description"`
	Rate         money.Money `json:"rate" db:"rate"`
	Hours        money.Hours `json:"hours" db:"hours"`
	Quantity     money.Hours `json:"quantity" db:"quantity"`
	Amount       money.Money `json:"amount" db:"amount"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}
