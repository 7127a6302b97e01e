package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
)

type mockInvoiceRepo struct {
	mock.Mock
}

func (m *mockInvoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) Update(ctx context.Context, invoice *models.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *mockInvoiceRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockInvoiceRepo) List(ctx context.Context, userID uuid.UUID, status *models.InvoiceStatus, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, userID, status, limit, offset)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) ListByPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time, clientID *uuid.UUID) ([]*models.Invoice, error) {
	args := m.Called(ctx, userID, start, end, clientID)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) ListNumbersByPrefix(ctx context.Context, userID uuid.UUID, prefix string) ([]string, error) {
	args := m.Called(ctx, userID, prefix)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockInvoiceRepo) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status models.InvoiceStatus) error {
	return m.Called(ctx, userID, id, status).Error(0)
}

func (m *mockInvoiceRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

type mapCache struct {
	data map[uuid.UUID]map[string]interface{}
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[uuid.UUID]map[string]interface{})}
}

func (c *mapCache) GetClient(ctx context.Context, userID, clientID uuid.UUID) (*models.Client, error) {
	return nil, nil
}

func (c *mapCache) SetClient(ctx context.Context, userID uuid.UUID, client *models.Client, ttl time.Duration) error {
	return nil
}

func (c *mapCache) DeleteClient(ctx context.Context, userID, clientID uuid.UUID) error { return nil }

func (c *mapCache) GetCompany(ctx context.Context, userID, companyID uuid.UUID) (*models.Company, error) {
	return nil, nil
}

func (c *mapCache) SetCompany(ctx context.Context, userID uuid.UUID, company *models.Company, ttl time.Duration) error {
	return nil
}

func (c *mapCache) DeleteCompany(ctx context.Context, userID, companyID uuid.UUID) error { return nil }

func (c *mapCache) GetInvoiceAnalytics(ctx context.Context, userID uuid.UUID) (map[string]interface{}, error) {
	return c.data[userID], nil
}

func (c *mapCache) SetInvoiceAnalytics(ctx context.Context, userID uuid.UUID, analytics map[string]interface{}, ttl time.Duration) error {
	c.data[userID] = analytics
	return nil
}

func (c *mapCache) DeleteInvoiceAnalytics(ctx context.Context, userID uuid.UUID) error {
	delete(c.data, userID)
	return nil
}

func (c *mapCache) InvalidateUserCache(ctx context.Context, userID uuid.UUID) error {
	delete(c.data, userID)
	return nil
}

func (c *mapCache) InvalidateAllCache(ctx context.Context) error { return nil }

func (c *mapCache) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return false, nil
}

func (c *mapCache) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	return nil
}

func (c *mapCache) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return nil
}

func (c *mapCache) GetString(ctx context.Context, key string) (string, error) { return "", nil }

func (c *mapCache) Delete(ctx context.Context, key string) error { return nil }

func TestCompute_SummarizesByStatus(t *testing.T) {
	repo := &mockInvoiceRepo{}
	userID := uuid.New()

	repo.On("List", mock.Anything, userID, (*models.InvoiceStatus)(nil), listPageSize, 0).
		Return([]*models.Invoice{
			{Status: models.InvoiceStatusPaid, Total: money.MoneyFromFloat(924)},
			{Status: models.InvoiceStatusSent, Total: money.MoneyFromFloat(300)},
			{Status: models.InvoiceStatusOverdue, Total: money.MoneyFromFloat(150.50)},
			{Status: models.InvoiceStatusDraft, Total: money.MoneyFromFloat(75)},
		}, nil)

	svc := NewService(repo, newMapCache())
	summary, err := svc.Compute(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.InvoiceCount)
	assert.Equal(t, 1, summary.PaidCount)
	assert.Equal(t, 1, summary.OverdueCount)
	assert.Equal(t, "1449.50", summary.TotalBilled)
	assert.Equal(t, "924.00", summary.TotalPaid)
	assert.Equal(t, "450.50", summary.Outstanding)
	assert.Equal(t, "362.38", summary.AverageTotal)
	repo.AssertExpectations(t)
}

func TestGet_CachesAfterFirstCompute(t *testing.T) {
	repo := &mockInvoiceRepo{}
	userID := uuid.New()

	repo.On("List", mock.Anything, userID, (*models.InvoiceStatus)(nil), listPageSize, 0).
		Return([]*models.Invoice{
			{Status: models.InvoiceStatusPaid, Total: money.MoneyFromFloat(100)},
		}, nil).Once()

	svc := NewService(repo, newMapCache())

	first, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)

	// Second call is served from the cache; List is not hit again.
	second, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, first.TotalBilled, second.TotalBilled)
	assert.Equal(t, first.InvoiceCount, second.InvoiceCount)
	repo.AssertExpectations(t)
}
