package billing

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
)

// BuildMasterInvoice groups the given invoices (already selected for one
// calendar month and tenant, optionally one client) by client and sums
// their persisted totals. Group order follows the first-seen invoice per
// client. An empty invoice set is a valid, empty aggregate, not an error.
//
// Summation uses each invoice's stored total; totals are never re-derived
// from line items here, so rounding applied at invoice creation is
// inherited as-is.
func BuildMasterInvoice(year, month int, clientID *uuid.UUID, invoices []*models.Invoice, clients map[uuid.UUID]*models.Client) *models.MasterInvoice {
	master := &models.MasterInvoice{
		Year:        year,
		Month:       month,
		ClientID:    clientID,
		Invoices:    invoices,
		Groups:      []*models.MasterClientGroup{},
		TotalAmount: money.Zero,
	}

	byClient := make(map[uuid.UUID]*models.MasterClientGroup)
	for _, inv := range invoices {
		group, ok := byClient[inv.ClientID]
		if !ok {
			group = &models.MasterClientGroup{
				ClientID:   inv.ClientID,
				ClientName: fmt.Sprintf("Client %s", inv.ClientID),
				Subtotal:   money.Zero,
			}
			if client, found := clients[inv.ClientID]; found {
				group.Client = client
				group.ClientName = client.Name
			}
			byClient[inv.ClientID] = group
			master.Groups = append(master.Groups, group)
		}
		group.Invoices = append(group.Invoices, inv)
		group.Subtotal = group.Subtotal.Add(inv.Total)
		master.TotalAmount = master.TotalAmount.Add(inv.Total)
	}

	return master
}
