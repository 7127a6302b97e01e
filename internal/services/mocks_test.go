package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
)

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) List(ctx context.Context, userID uuid.UUID, status *models.InvoiceStatus, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, userID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListByPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time, clientID *uuid.UUID) ([]*models.Invoice, error) {
	args := m.Called(ctx, userID, start, end, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListNumbersByPrefix(ctx context.Context, userID uuid.UUID, prefix string) ([]string, error) {
	args := m.Called(ctx, userID, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockInvoiceRepository) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status models.InvoiceStatus) error {
	args := m.Called(ctx, userID, id, status)
	return args.Error(0)
}

func (m *MockInvoiceRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Client, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockClientRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Client, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Client), args.Error(1)
}

func (m *MockClientRepository) GetByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.Client, error) {
	args := m.Called(ctx, userID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*models.Client), args.Error(1)
}

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) Create(ctx context.Context, company *models.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Company, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyRepository) GetDefault(ctx context.Context, userID uuid.UUID) (*models.Company, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyRepository) Update(ctx context.Context, company *models.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockCompanyRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Company, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Company), args.Error(1)
}

func (m *MockCompanyRepository) SetDefault(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockCompanyRepository) UpdateLogoKey(ctx context.Context, userID, id uuid.UUID, logoKey string) error {
	args := m.Called(ctx, userID, id, logoKey)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ListIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockTimeEntryRepository struct {
	mock.Mock
}

func (m *MockTimeEntryRepository) Create(ctx context.Context, entry *models.TimeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTimeEntryRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.TimeEntry, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) Update(ctx context.Context, entry *models.TimeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTimeEntryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockTimeEntryRepository) List(ctx context.Context, userID uuid.UUID, clientID *uuid.UUID, limit, offset int) ([]*models.TimeEntry, error) {
	args := m.Called(ctx, userID, clientID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) ListUnbilled(ctx context.Context, userID, clientID uuid.UUID) ([]*models.TimeEntry, error) {
	args := m.Called(ctx, userID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) MarkBilled(ctx context.Context, userID uuid.UUID, entryIDs []uuid.UUID, invoiceID uuid.UUID) error {
	args := m.Called(ctx, userID, entryIDs, invoiceID)
	return args.Error(0)
}

type MockTimeTicketRepository struct {
	mock.Mock
}

func (m *MockTimeTicketRepository) Create(ctx context.Context, ticket *models.TimeTicket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTimeTicketRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.TimeTicket, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimeTicket), args.Error(1)
}

func (m *MockTimeTicketRepository) Update(ctx context.Context, ticket *models.TimeTicket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTimeTicketRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockTimeTicketRepository) List(ctx context.Context, userID uuid.UUID, status *models.TimeTicketStatus, limit, offset int) ([]*models.TimeTicket, error) {
	args := m.Called(ctx, userID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TimeTicket), args.Error(1)
}

func (m *MockTimeTicketRepository) MarkSubmitted(ctx context.Context, userID, id, invoiceID uuid.UUID, submittedAt time.Time) error {
	args := m.Called(ctx, userID, id, invoiceID, submittedAt)
	return args.Error(0)
}

type MockAuditLogsRepository struct {
	mock.Mock
}

func (m *MockAuditLogsRepository) Create(ctx context.Context, log *models.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditLogsRepository) List(ctx context.Context, userID uuid.UUID, entityType, action *string, limit, offset int) ([]*models.AuditLog, error) {
	args := m.Called(ctx, userID, entityType, action, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *MockAuditLogsRepository) ListByEntity(ctx context.Context, userID uuid.UUID, entityType, entityID string, limit, offset int) ([]*models.AuditLog, error) {
	args := m.Called(ctx, userID, entityType, entityID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

// noopCache satisfies caching.CacheService without a Redis connection.
type noopCache struct{}

func (noopCache) GetClient(ctx context.Context, userID, clientID uuid.UUID) (*models.Client, error) {
	return nil, nil
}

func (noopCache) SetClient(ctx context.Context, userID uuid.UUID, client *models.Client, ttl time.Duration) error {
	return nil
}

func (noopCache) DeleteClient(ctx context.Context, userID, clientID uuid.UUID) error { return nil }

func (noopCache) GetCompany(ctx context.Context, userID, companyID uuid.UUID) (*models.Company, error) {
	return nil, nil
}

func (noopCache) SetCompany(ctx context.Context, userID uuid.UUID, company *models.Company, ttl time.Duration) error {
	return nil
}

func (noopCache) DeleteCompany(ctx context.Context, userID, companyID uuid.UUID) error { return nil }

func (noopCache) GetInvoiceAnalytics(ctx context.Context, userID uuid.UUID) (map[string]interface{}, error) {
	return nil, nil
}

func (noopCache) SetInvoiceAnalytics(ctx context.Context, userID uuid.UUID, analytics map[string]interface{}, ttl time.Duration) error {
	return nil
}

func (noopCache) DeleteInvoiceAnalytics(ctx context.Context, userID uuid.UUID) error { return nil }

func (noopCache) InvalidateUserCache(ctx context.Context, userID uuid.UUID) error { return nil }

func (noopCache) InvalidateAllCache(ctx context.Context) error { return nil }

func (noopCache) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return false, nil
}

func (noopCache) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	return nil
}

func (noopCache) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return nil
}

func (noopCache) GetString(ctx context.Context, key string) (string, error) { return "", io.EOF }

func (noopCache) Delete(ctx context.Context, key string) error { return nil }

// noopAudit satisfies AuditLogsService for tests that don't assert on audit writes.
type noopAudit struct{}

func (noopAudit) LogActivity(ctx context.Context, userID uuid.UUID, entityType, entityID, action string, detail *string) error {
	return nil
}

func (noopAudit) List(ctx context.Context, userID uuid.UUID, entityType, action *string, limit, offset int) ([]*models.AuditLog, error) {
	return nil, nil
}

func (noopAudit) EntityHistory(ctx context.Context, userID uuid.UUID, entityType, entityID string, limit, offset int) ([]*models.AuditLog, error) {
	return nil, nil
}
