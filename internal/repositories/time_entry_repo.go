package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
)

type TimeEntryRepository interface {
	Create(ctx context.Context, entry *models.TimeEntry) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.TimeEntry, error)
	Update(ctx context.Context, entry *models.TimeEntry) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, clientID *uuid.UUID, limit, offset int) ([]*models.TimeEntry, error)
	ListUnbilled(ctx context.Context, userID, clientID uuid.UUID) ([]*models.TimeEntry, error)
	MarkBilled(ctx context.Context, userID uuid.UUID, entryIDs []uuid.UUID, invoiceID uuid.UUID) error
}

type timeEntryRepo struct {
	db DB
}

func NewTimeEntryRepo(db DB) TimeEntryRepository {
	return &timeEntryRepo{db: db}
}

const timeEntryColumns = `id, user_id, client_id, project_id, entry_date, hours, description, billed, invoice_id, created_at, updated_at`

func scanTimeEntry(row pgx.Row) (*models.TimeEntry, error) {
	e := &models.TimeEntry{}
	err := row.Scan(&e.ID, &e.UserID, &e.ClientID, &e.ProjectID, &e.EntryDate, &e.Hours, &e.Description, &e.Billed, &e.InvoiceID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *timeEntryRepo) Create(ctx context.Context, entry *models.TimeEntry) error {
	query := `
		INSERT INTO time_entries (id, user_id, client_id, project_id, entry_date, hours, description, billed, invoice_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, entry.ID, entry.UserID, entry.ClientID, entry.ProjectID, entry.EntryDate, entry.Hours, entry.Description, entry.Billed, entry.InvoiceID)
	return err
}

func (r *timeEntryRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE user_id = $1 AND id = $2`
	entry, err := scanTimeEntry(r.db.QueryRow(ctx, query, userID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return entry, err
}

func (r *timeEntryRepo) Update(ctx context.Context, entry *models.TimeEntry) error {
	query := `
		UPDATE time_entries
		SET client_id = $1, project_id = $2, entry_date = $3, hours = $4, description = $5, updated_at = NOW()
		WHERE user_id = $6 AND id = $7
	`
	_, err := r.db.Exec(ctx, query, entry.ClientID, entry.ProjectID, entry.EntryDate, entry.Hours, entry.Description, entry.UserID, entry.ID)
	return err
}

func (r *timeEntryRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM time_entries WHERE user_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, userID, id)
	return err
}

func (r *timeEntryRepo) List(ctx context.Context, userID uuid.UUID, clientID *uuid.UUID, limit, offset int) ([]*models.TimeEntry, error) {
	query := `
		SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE user_id = $1 AND ($2::uuid IS NULL OR client_id = $2)
		ORDER BY entry_date DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, userID, clientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.TimeEntry
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ListUnbilled returns a client's unbilled time entries, oldest first, for
// pulling onto a new invoice.
func (r *timeEntryRepo) ListUnbilled(ctx context.Context, userID, clientID uuid.UUID) ([]*models.TimeEntry, error) {
	query := `
		SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE user_id = $1 AND client_id = $2 AND billed = FALSE
		ORDER BY entry_date ASC
	`
	rows, err := r.db.Query(ctx, query, userID, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.TimeEntry
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *timeEntryRepo) MarkBilled(ctx context.Context, userID uuid.UUID, entryIDs []uuid.UUID, invoiceID uuid.UUID) error {
	if len(entryIDs) == 0 {
		return nil
	}
	query := `UPDATE time_entries SET billed = TRUE, invoice_id = $1, updated_at = NOW() WHERE user_id = $2 AND id = ANY($3)`
	_, err := r.db.Exec(ctx, query, invoiceID, userID, entryIDs)
	return err
}
