package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, status *models.InvoiceStatus, limit, offset int) ([]*models.Invoice, error)
	ListByPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time, clientID *uuid.UUID) ([]*models.Invoice, error)
	ListNumbersByPrefix(ctx context.Context, userID uuid.UUID, prefix string) ([]string, error)
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status models.InvoiceStatus) error
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

type invoiceRepo struct {
	db DB
}

func NewInvoiceRepo(db DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceColumns = `id, user_id, client_id, invoice_number, issue_date, due_date, subtotal, tax_rate, tax_amount, total, status, notes, equipment_description, created_at, updated_at`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	inv := &models.Invoice{}
	err := row.Scan(&inv.ID, &inv.UserID, &inv.ClientID, &inv.InvoiceNumber, &inv.IssueDate, &inv.DueDate, &inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.Total, &inv.Status, &inv.Notes, &inv.EquipmentDescription, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Create inserts the invoice and its line items in one transaction. A
// duplicate invoice number (unique index on user_id, invoice_number) is
// reported as ErrDuplicateInvoiceNumber.
func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO invoices (id, user_id, client_id, invoice_number, issue_date, due_date, subtotal, tax_rate, tax_amount, total, status, notes, equipment_description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	`
	_, err = tx.Exec(ctx, query, invoice.ID, invoice.UserID, invoice.ClientID, invoice.InvoiceNumber, invoice.IssueDate, invoice.DueDate, invoice.Subtotal, invoice.TaxRate, invoice.TaxAmount, invoice.Total, invoice.Status, invoice.Notes, invoice.EquipmentDescription)
	if isUniqueViolation(err) {
		return fmt.Errorf("invoice number %s: %w", invoice.InvoiceNumber, ErrDuplicateInvoiceNumber)
	}
	if err != nil {
		return err
	}

	if err := insertLineItems(ctx, tx, invoice.ID, invoice.LineItems); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertLineItems(ctx context.Context, tx pgx.Tx, invoiceID uuid.UUID, items []*models.InvoiceLineItem) error {
	query := `
		INSERT INTO invoice_line_items (id, invoice_id, time_entry_id, job_code, service_point, afe_number, loe_number, well_name, well_number, description, rate, hours, quantity, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
	`
	for _, item := range items {
		item.InvoiceID = invoiceID
		if _, err := tx.Exec(ctx, query, item.ID, item.InvoiceID, item.TimeEntryID, item.JobCode, item.ServicePoint, item.AFENumber, item.LOENumber, item.WellName, item.WellNumber, item.Description, item.Rate, item.Hours, item.Quantity, item.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id = $1 AND id = $2`
	invoice, err := scanInvoice(r.db.QueryRow(ctx, query, userID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	items, err := r.lineItems(ctx, id)
	if err != nil {
		return nil, err
	}
	invoice.LineItems = items
	return invoice, nil
}

func (r *invoiceRepo) lineItems(ctx context.Context, invoiceID uuid.UUID) ([]*models.InvoiceLineItem, error) {
	query := `
		SELECT id, invoice_id, time_entry_id, job_code, service_point, afe_number, loe_number, well_name, well_number, description, rate, hours, quantity, amount, created_at
		FROM invoice_line_items
		WHERE invoice_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.InvoiceLineItem
	for rows.Next() {
		item := &models.InvoiceLineItem{}
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.TimeEntryID, &item.JobCode, &item.ServicePoint, &item.AFENumber, &item.LOENumber, &item.WellName, &item.WellNumber, &item.Description, &item.Rate, &item.Hours, &item.Quantity, &item.Amount, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Update rewrites the invoice row and replaces its line items in one
// transaction; totals arrive already recomputed by the service.
func (r *invoiceRepo) Update(ctx context.Context, invoice *models.Invoice) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE invoices
		SET client_id = $1, issue_date = $2, due_date = $3, subtotal = $4, tax_rate = $5, tax_amount = $6, total = $7, status = $8, notes = $9, equipment_description = $10, updated_at = NOW()
		WHERE user_id = $11 AND id = $12
	`
	tag, err := tx.Exec(ctx, query, invoice.ClientID, invoice.IssueDate, invoice.DueDate, invoice.Subtotal, invoice.TaxRate, invoice.TaxAmount, invoice.Total, invoice.Status, invoice.Notes, invoice.EquipmentDescription, invoice.UserID, invoice.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_line_items WHERE invoice_id = $1`, invoice.ID); err != nil {
		return err
	}
	if err := insertLineItems(ctx, tx, invoice.ID, invoice.LineItems); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Delete removes the invoice; line items cascade, and any time entries
// pulled onto the invoice are released back to unbilled.
func (r *invoiceRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE time_entries SET billed = FALSE, invoice_id = NULL, updated_at = NOW() WHERE user_id = $1 AND invoice_id = $2`, userID, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM invoice_line_items WHERE invoice_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM invoices WHERE user_id = $1 AND id = $2`, userID, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *invoiceRepo) List(ctx context.Context, userID uuid.UUID, status *models.InvoiceStatus, limit, offset int) ([]*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE user_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY issue_date DESC, invoice_number DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, userID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

// ListByPeriod selects invoices whose issue date falls inside [start, end],
// optionally restricted to one client. Feeds the master invoice aggregator.
func (r *invoiceRepo) ListByPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time, clientID *uuid.UUID) ([]*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE user_id = $1 AND issue_date BETWEEN $2 AND $3 AND ($4::uuid IS NULL OR client_id = $4)
		ORDER BY issue_date ASC, invoice_number ASC
	`
	rows, err := r.db.Query(ctx, query, userID, start, end, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

// ListNumbersByPrefix returns the tenant's invoice numbers starting with
// the given prefix (e.g. "INV-TDS-2025-"), for the numbering policy scan.
func (r *invoiceRepo) ListNumbersByPrefix(ctx context.Context, userID uuid.UUID, prefix string) ([]string, error) {
	query := `SELECT invoice_number FROM invoices WHERE user_id = $1 AND invoice_number LIKE $2 || '%'`
	rows, err := r.db.Query(ctx, query, userID, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var num string
		if err := rows.Scan(&num); err != nil {
			return nil, err
		}
		numbers = append(numbers, num)
	}
	return numbers, rows.Err()
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status models.InvoiceStatus) error {
	query := `UPDATE invoices SET status = $1, updated_at = NOW() WHERE user_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, status, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// MarkOverdue flips sent invoices past their due date to overdue, across
// all tenants. Used by the nightly background job.
func (r *invoiceRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	query := `UPDATE invoices SET status = $1, updated_at = NOW() WHERE status = $2 AND due_date < $3`
	tag, err := r.db.Exec(ctx, query, models.InvoiceStatusOverdue, models.InvoiceStatusSent, asOf)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
