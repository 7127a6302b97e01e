package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/billing"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/caching"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/common"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/repositories"
)

// InvoiceService owns the invoice lifecycle: creation with computed totals
// and a generated number, recomputation on update, status changes, the pull
// of unbilled time entries onto a draft, and the derived monthly master
// invoice.
type InvoiceService interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, status *models.InvoiceStatus, limit, offset int) ([]*models.Invoice, error)
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status models.InvoiceStatus) error
	MasterInvoice(ctx context.Context, userID uuid.UUID, year, month int, clientID *uuid.UUID) (*models.MasterInvoice, error)
	CreateFromUnbilled(ctx context.Context, userID, clientID uuid.UUID, taxRate decimal.Decimal, issueDate, dueDate time.Time) (*models.Invoice, error)
}

type invoiceService struct {
	invoiceRepo   repositories.InvoiceRepository
	clientRepo    repositories.ClientRepository
	companyRepo   repositories.CompanyRepository
	userRepo      repositories.UserRepository
	timeEntryRepo repositories.TimeEntryRepository
	cacheSvc      caching.CacheService
	auditSvc      AuditLogsService
	defaultScope  string
}

func NewInvoiceService(
	invoiceRepo repositories.InvoiceRepository,
	clientRepo repositories.ClientRepository,
	companyRepo repositories.CompanyRepository,
	userRepo repositories.UserRepository,
	timeEntryRepo repositories.TimeEntryRepository,
	cacheSvc caching.CacheService,
	auditSvc AuditLogsService,
	defaultScope string,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:   invoiceRepo,
		clientRepo:    clientRepo,
		companyRepo:   companyRepo,
		userRepo:      userRepo,
		timeEntryRepo: timeEntryRepo,
		cacheSvc:      cacheSvc,
		auditSvc:      auditSvc,
		defaultScope:  defaultScope,
	}
}

// numberingScope resolves the SCOPE token of generated invoice numbers from
// the user's default company short code, falling back to the configured
// default when no company exists.
func (s *invoiceService) numberingScope(ctx context.Context, userID uuid.UUID) (string, error) {
	company, err := s.companyRepo.GetDefault(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve numbering scope: %w", err)
	}
	if company != nil && company.ShortCode != "" {
		return strings.ToUpper(company.ShortCode), nil
	}
	return s.defaultScope, nil
}

// priceLineItems recomputes every line item amount and the invoice totals.
// Persisted amounts are never trusted as input.
func priceLineItems(invoice *models.Invoice) error {
	if len(invoice.LineItems) == 0 {
		return billing.ErrEmptyInvoice
	}

	amounts := make([]money.Money, 0, len(invoice.LineItems))
	for _, item := range invoice.LineItems {
		amount, err := billing.LineItemAmount(item.Rate, item.Hours, item.Quantity)
		if err != nil {
			return err
		}
		item.Amount = amount
		amounts = append(amounts, amount)
	}

	totals, err := billing.ComputeTotals(amounts, invoice.TaxRate)
	if err != nil {
		return err
	}
	invoice.Subtotal = totals.Subtotal
	invoice.TaxAmount = totals.TaxAmount
	invoice.Total = totals.Total
	return nil
}

// Create prices the line items, generates the next invoice number in the
// user's scope, and persists the invoice. A unique-constraint rejection
// from a concurrent creation surfaces as ErrDuplicateInvoiceNumber; the
// caller decides whether to retry.
func (s *invoiceService) Create(ctx context.Context, invoice *models.Invoice) error {
	client, err := s.clientRepo.GetByID(ctx, invoice.UserID, invoice.ClientID)
	if err != nil {
		return fmt.Errorf("failed to look up client: %w", err)
	}
	if client == nil {
		return ErrNotFound
	}

	if err := priceLineItems(invoice); err != nil {
		return err
	}

	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	if invoice.IssueDate.IsZero() {
		invoice.IssueDate = time.Now()
	}
	if invoice.Status == "" {
		invoice.Status = models.InvoiceStatusDraft
	}
	if !invoice.Status.Valid() {
		return fmt.Errorf("invalid invoice status %q", invoice.Status)
	}

	if invoice.InvoiceNumber == "" {
		scope, err := s.numberingScope(ctx, invoice.UserID)
		if err != nil {
			return err
		}
		year := invoice.IssueDate.Year()
		prefix := fmt.Sprintf("%s-%s-%d-", billing.NumberPrefix, scope, year)
		existing, err := s.invoiceRepo.ListNumbersByPrefix(ctx, invoice.UserID, prefix)
		if err != nil {
			return fmt.Errorf("failed to list invoice numbers: %w", err)
		}
		invoice.InvoiceNumber = billing.NextInvoiceNumber(scope, year, existing)
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		if errors.Is(err, repositories.ErrDuplicateInvoiceNumber) {
			return err
		}
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	s.cacheSvc.DeleteInvoiceAnalytics(ctx, invoice.UserID)
	s.auditSvc.LogActivity(ctx, invoice.UserID, "invoices", invoice.ID.String(), models.ActionCreate, strPtr(invoice.InvoiceNumber))
	return nil
}

func (s *invoiceService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	if invoice == nil {
		return nil, ErrNotFound
	}
	return invoice, nil
}

// Update reprices the line items and rewrites the invoice. The invoice
// number is immutable here.
func (s *invoiceService) Update(ctx context.Context, invoice *models.Invoice) error {
	existing, err := s.invoiceRepo.GetByID(ctx, invoice.UserID, invoice.ID)
	if err != nil {
		return fmt.Errorf("failed to get invoice: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}

	invoice.InvoiceNumber = existing.InvoiceNumber
	if invoice.Status == "" {
		invoice.Status = existing.Status
	}
	if !invoice.Status.Valid() {
		return fmt.Errorf("invalid invoice status %q", invoice.Status)
	}

	if err := priceLineItems(invoice); err != nil {
		return err
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	s.cacheSvc.DeleteInvoiceAnalytics(ctx, invoice.UserID)
	s.auditSvc.LogActivity(ctx, invoice.UserID, "invoices", invoice.ID.String(), models.ActionUpdate, nil)
	return nil
}

// Delete removes the invoice and releases any time entries billed on it.
func (s *invoiceService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	existing, err := s.invoiceRepo.GetByID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to get invoice: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}

	if err := s.invoiceRepo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	s.cacheSvc.DeleteInvoiceAnalytics(ctx, userID)
	s.auditSvc.LogActivity(ctx, userID, "invoices", id.String(), models.ActionDelete, nil)
	return nil
}

func (s *invoiceService) List(ctx context.Context, userID uuid.UUID, status *models.InvoiceStatus, limit, offset int) ([]*models.Invoice, error) {
	return s.invoiceRepo.List(ctx, userID, status, limit, offset)
}

// UpdateStatus sets the status. Any known status may follow any other;
// there is no transition graph.
func (s *invoiceService) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status models.InvoiceStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid invoice status %q", status)
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, userID, id, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update invoice status: %w", err)
	}

	s.cacheSvc.DeleteInvoiceAnalytics(ctx, userID)
	s.auditSvc.LogActivity(ctx, userID, "invoices", id.String(), models.ActionStatus, strPtr(string(status)))
	return nil
}

// MasterInvoice assembles the monthly summary from current invoice state.
// It is recomputed on every call and never cached or persisted, so edits to
// underlying invoices are always reflected.
func (s *invoiceService) MasterInvoice(ctx context.Context, userID uuid.UUID, year, month int, clientID *uuid.UUID) (*models.MasterInvoice, error) {
	if err := common.ValidateYearMonth(year, month); err != nil {
		return nil, err
	}
	start, end := common.MonthWindow(year, month)

	invoices, err := s.invoiceRepo.ListByPeriod(ctx, userID, start, end, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices for period: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(invoices))
	seen := make(map[uuid.UUID]bool)
	for _, inv := range invoices {
		if !seen[inv.ClientID] {
			seen[inv.ClientID] = true
			ids = append(ids, inv.ClientID)
		}
	}

	clients, err := s.clientRepo.GetByIDs(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}

	return billing.BuildMasterInvoice(year, month, clientID, invoices, clients), nil
}

// CreateFromUnbilled pulls every unbilled time entry for the client onto a
// new draft invoice priced at the user's regular rate, then marks the
// entries billed.
func (s *invoiceService) CreateFromUnbilled(ctx context.Context, userID, clientID uuid.UUID, taxRate decimal.Decimal, issueDate, dueDate time.Time) (*models.Invoice, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	entries, err := s.timeEntryRepo.ListUnbilled(ctx, userID, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unbilled time entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, billing.ErrEmptyInvoice
	}

	invoice := &models.Invoice{
		ID:        uuid.New(),
		UserID:    userID,
		ClientID:  clientID,
		IssueDate: issueDate,
		DueDate:   dueDate,
		TaxRate:   taxRate,
		Status:    models.InvoiceStatusDraft,
	}

	entryIDs := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		entryID := entry.ID
		invoice.LineItems = append(invoice.LineItems, &models.InvoiceLineItem{
			ID:          uuid.New(),
			InvoiceID:   invoice.ID,
			TimeEntryID: &entryID,
			Description: entry.Description,
			Rate:        user.RegularRate,
			Hours:       entry.Hours,
		})
		entryIDs = append(entryIDs, entry.ID)
	}

	if err := s.Create(ctx, invoice); err != nil {
		return nil, err
	}

	// If marking fails the invoice already persisted and the entries stay
	// unbilled; a retry picks them up again via ListUnbilled.
	if err := s.timeEntryRepo.MarkBilled(ctx, userID, entryIDs, invoice.ID); err != nil {
		return nil, fmt.Errorf("failed to mark time entries billed: %w", err)
	}

	return invoice, nil
}

func strPtr(s string) *string {
	return &s
}
