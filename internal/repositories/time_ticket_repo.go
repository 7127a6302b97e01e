package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
)

type TimeTicketRepository interface {
	Create(ctx context.Context, ticket *models.TimeTicket) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.TimeTicket, error)
	Update(ctx context.Context, ticket *models.TimeTicket) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, status *models.TimeTicketStatus, limit, offset int) ([]*models.TimeTicket, error)
	MarkSubmitted(ctx context.Context, userID, id, invoiceID uuid.UUID, submittedAt time.Time) error
}

type timeTicketRepo struct {
	db DB
}

func NewTimeTicketRepo(db DB) TimeTicketRepository {
	return &timeTicketRepo{db: db}
}

const timeTicketColumns = `id, user_id, client_id, ticket_date, job_code, service_point, afe_number, loe_number, well_name, well_number, description, regular_hours, overtime_hours, status, invoice_id, submitted_at, created_at, updated_at`

func scanTimeTicket(row pgx.Row) (*models.TimeTicket, error) {
	t := &models.TimeTicket{}
	err := row.Scan(&t.ID, &t.UserID, &t.ClientID, &t.TicketDate, &t.JobCode, &t.ServicePoint, &t.AFENumber, &t.LOENumber, &t.WellName, &t.WellNumber, &t.Description, &t.RegularHours, &t.OvertimeHours, &t.Status, &t.InvoiceID, &t.SubmittedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *timeTicketRepo) Create(ctx context.Context, ticket *models.TimeTicket) error {
	query := `
		INSERT INTO time_tickets (id, user_id, client_id, ticket_date, job_code, service_point, afe_number, loe_number, well_name, well_number, description, regular_hours, overtime_hours, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, ticket.ID, ticket.UserID, ticket.ClientID, ticket.TicketDate, ticket.JobCode, ticket.ServicePoint, ticket.AFENumber, ticket.LOENumber, ticket.WellName, ticket.WellNumber, ticket.Description, ticket.RegularHours, ticket.OvertimeHours, ticket.Status)
	return err
}

func (r *timeTicketRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.TimeTicket, error) {
	query := `SELECT ` + timeTicketColumns + ` FROM time_tickets WHERE user_id = $1 AND id = $2`
	ticket, err := scanTimeTicket(r.db.QueryRow(ctx, query, userID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return ticket, err
}

func (r *timeTicketRepo) Update(ctx context.Context, ticket *models.TimeTicket) error {
	query := `
		UPDATE time_tickets
		SET client_id = $1, ticket_date = $2, job_code = $3, service_point = $4, afe_number = $5, loe_number = $6, well_name = $7, well_number = $8, description = $9, regular_hours = $10, overtime_hours = $11, updated_at = NOW()
		WHERE user_id = $12 AND id = $13
	`
	_, err := r.db.Exec(ctx, query, ticket.ClientID, ticket.TicketDate, ticket.JobCode, ticket.ServicePoint, ticket.AFENumber, ticket.LOENumber, ticket.WellName, ticket.WellNumber, ticket.Description, ticket.RegularHours, ticket.OvertimeHours, ticket.UserID, ticket.ID)
	return err
}

func (r *timeTicketRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM time_tickets WHERE user_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, userID, id)
	return err
}

func (r *timeTicketRepo) List(ctx context.Context, userID uuid.UUID, status *models.TimeTicketStatus, limit, offset int) ([]*models.TimeTicket, error) {
	query := `
		SELECT ` + timeTicketColumns + `
		FROM time_tickets
		WHERE user_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY ticket_date DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, userID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*models.TimeTicket
	for rows.Next() {
		ticket, err := scanTimeTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

func (r *timeTicketRepo) MarkSubmitted(ctx context.Context, userID, id, invoiceID uuid.UUID, submittedAt time.Time) error {
	query := `
		UPDATE time_tickets
		SET status = $1, invoice_id = $2, submitted_at = $3, updated_at = NOW()
		WHERE user_id = $4 AND id = $5 AND status = $6
	`
	tag, err := r.db.Exec(ctx, query, models.TimeTicketStatusSubmitted, invoiceID, submittedAt, userID, id, models.TimeTicketStatusOpen)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
