package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/repositories"
)

// TimeTicketService manages field time tickets. Submitting a ticket turns
// it into a draft invoice priced at the owning user's regular and overtime
// rates, with the ticket's well and AFE/LOE tags carried onto the line items.
type TimeTicketService interface {
	Create(ctx context.Context, ticket *models.TimeTicket) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.TimeTicket, error)
	Update(ctx context.Context, ticket *models.TimeTicket) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, status *models.TimeTicketStatus, limit, offset int) ([]*models.TimeTicket, error)
	Submit(ctx context.Context, userID, id uuid.UUID, taxRate decimal.Decimal, dueDate time.Time) (*models.Invoice, error)
}

type timeTicketService struct {
	timeTicketRepo repositories.TimeTicketRepository
	userRepo       repositories.UserRepository
	invoiceSvc     InvoiceService
	auditSvc       AuditLogsService
}

func NewTimeTicketService(timeTicketRepo repositories.TimeTicketRepository, userRepo repositories.UserRepository, invoiceSvc InvoiceService, auditSvc AuditLogsService) TimeTicketService {
	return &timeTicketService{
		timeTicketRepo: timeTicketRepo,
		userRepo:       userRepo,
		invoiceSvc:     invoiceSvc,
		auditSvc:       auditSvc,
	}
}

func (s *timeTicketService) Create(ctx context.Context, ticket *models.TimeTicket) error {
	if ticket.RegularHours.IsNegative() || ticket.OvertimeHours.IsNegative() {
		return errors.New("ticket hours cannot be negative")
	}
	if ticket.RegularHours.IsZero() && ticket.OvertimeHours.IsZero() {
		return errors.New("ticket must record some hours")
	}

	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	ticket.Status = models.TimeTicketStatusOpen
	ticket.InvoiceID = nil
	ticket.SubmittedAt = nil

	if err := s.timeTicketRepo.Create(ctx, ticket); err != nil {
		return fmt.Errorf("failed to create time ticket: %w", err)
	}
	return nil
}

func (s *timeTicketService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.TimeTicket, error) {
	ticket, err := s.timeTicketRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get time ticket: %w", err)
	}
	if ticket == nil {
		return nil, ErrNotFound
	}
	return ticket, nil
}

func (s *timeTicketService) Update(ctx context.Context, ticket *models.TimeTicket) error {
	existing, err := s.timeTicketRepo.GetByID(ctx, ticket.UserID, ticket.ID)
	if err != nil {
		return fmt.Errorf("failed to get time ticket: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}
	if existing.Status == models.TimeTicketStatusSubmitted {
		return errors.New("submitted tickets cannot be edited")
	}

	if err := s.timeTicketRepo.Update(ctx, ticket); err != nil {
		return fmt.Errorf("failed to update time ticket: %w", err)
	}
	return nil
}

func (s *timeTicketService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	existing, err := s.timeTicketRepo.GetByID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to get time ticket: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}
	if existing.Status == models.TimeTicketStatusSubmitted {
		return errors.New("submitted tickets cannot be deleted")
	}

	if err := s.timeTicketRepo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete time ticket: %w", err)
	}
	return nil
}

func (s *timeTicketService) List(ctx context.Context, userID uuid.UUID, status *models.TimeTicketStatus, limit, offset int) ([]*models.TimeTicket, error) {
	return s.timeTicketRepo.List(ctx, userID, status, limit, offset)
}

// Submit generates a draft invoice from the ticket and marks the ticket
// submitted. Regular and overtime hours become separate line items priced
// at the user's respective rates; an overtime line only appears when
// overtime hours were recorded.
func (s *timeTicketService) Submit(ctx context.Context, userID, id uuid.UUID, taxRate decimal.Decimal, dueDate time.Time) (*models.Invoice, error) {
	ticket, err := s.timeTicketRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get time ticket: %w", err)
	}
	if ticket == nil {
		return nil, ErrNotFound
	}
	if ticket.Status == models.TimeTicketStatusSubmitted {
		return nil, errors.New("ticket already submitted")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	invoice := &models.Invoice{
		ID:        uuid.New(),
		UserID:    userID,
		ClientID:  ticket.ClientID,
		IssueDate: time.Now(),
		DueDate:   dueDate,
		TaxRate:   taxRate,
		Status:    models.InvoiceStatusDraft,
	}

	if !ticket.RegularHours.IsZero() {
		invoice.LineItems = append(invoice.LineItems, s.ticketLineItem(ticket, invoice.ID, ticket.Description, user.RegularRate, ticket.RegularHours))
	}
	if !ticket.OvertimeHours.IsZero() {
		invoice.LineItems = append(invoice.LineItems, s.ticketLineItem(ticket, invoice.ID, ticket.Description+" (overtime)", user.OvertimeRate, ticket.OvertimeHours))
	}

	if err := s.invoiceSvc.Create(ctx, invoice); err != nil {
		return nil, err
	}

	// If marking fails the invoice already persisted and the ticket stays
	// open, so a later submit attempt produces a second invoice.
	now := time.Now()
	if err := s.timeTicketRepo.MarkSubmitted(ctx, userID, id, invoice.ID, now); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("ticket already submitted")
		}
		return nil, fmt.Errorf("failed to mark ticket submitted: %w", err)
	}

	s.auditSvc.LogActivity(ctx, userID, "time_tickets", id.String(), models.ActionSubmit, strPtr(invoice.InvoiceNumber))
	return invoice, nil
}

func (s *timeTicketService) ticketLineItem(ticket *models.TimeTicket, invoiceID uuid.UUID, description string, rate money.Money, hours money.Hours) *models.InvoiceLineItem {
	return &models.InvoiceLineItem{
		ID:           uuid.New(),
		InvoiceID:    invoiceID,
		JobCode:      ticket.JobCode,
		ServicePoint: ticket.ServicePoint,
		AFENumber:    ticket.AFENumber,
		LOENumber:    ticket.LOENumber,
		WellName:     ticket.WellName,
		WellNumber:   ticket.WellNumber,
		Description:  description,
		Rate:         rate,
		Hours:        hours,
	}
}
