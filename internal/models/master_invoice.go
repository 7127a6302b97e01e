package models

import (
	"github.com/google/uuid"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
)

// MasterInvoice is the derived monthly summary grouping invoices by client.
// It is computed on demand from current invoice state and never persisted.
type MasterInvoice struct {
	Year        int                  `json:"year"`
	Month       int                  `json:"month"`
	ClientID    *uuid.UUID           `json:"client_id,omitempty"`
	Invoices    []*Invoice           `json:"invoices"`
	Groups      []*MasterClientGroup `json:"groups"`
	TotalAmount money.Money          `json:"total_amount"`
}

// MasterClientGroup is the per-client breakdown of a master invoice.
// ClientName falls back to a "Client <id>" placeholder when the client
// record no longer exists.
type MasterClientGroup struct {
	ClientID   uuid.UUID   `json:"client_id"`
	ClientName string      `json:"client_name"`
	Client     *Client     `json:"client,omitempty"`
	Invoices   []*Invoice  `json:"invoices"`
	Subtotal   money.Money `json:"subtotal"`
}
