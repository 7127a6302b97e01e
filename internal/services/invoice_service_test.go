package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/billing"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/repositories"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	invoiceRepo   *MockInvoiceRepository
	clientRepo    *MockClientRepository
	companyRepo   *MockCompanyRepository
	userRepo      *MockUserRepository
	timeEntryRepo *MockTimeEntryRepository
	service       InvoiceService

	userID   uuid.UUID
	clientID uuid.UUID
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.invoiceRepo = &MockInvoiceRepository{}
	suite.clientRepo = &MockClientRepository{}
	suite.companyRepo = &MockCompanyRepository{}
	suite.userRepo = &MockUserRepository{}
	suite.timeEntryRepo = &MockTimeEntryRepository{}
	suite.service = NewInvoiceService(
		suite.invoiceRepo,
		suite.clientRepo,
		suite.companyRepo,
		suite.userRepo,
		suite.timeEntryRepo,
		noopCache{},
		noopAudit{},
		"GEN",
	)
	suite.userID = uuid.New()
	suite.clientID = uuid.New()

	suite.invoiceRepo.Test(suite.T())
	suite.clientRepo.Test(suite.T())
	suite.companyRepo.Test(suite.T())
}

func (suite *InvoiceServiceTestSuite) TearDownTest() {
	suite.invoiceRepo.AssertExpectations(suite.T())
	suite.clientRepo.AssertExpectations(suite.T())
	suite.companyRepo.AssertExpectations(suite.T())
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}

func (suite *InvoiceServiceTestSuite) expectClient() {
	suite.clientRepo.On("GetByID", mock.Anything, suite.userID, suite.clientID).
		Return(&models.Client{ID: suite.clientID, UserID: suite.userID, Name: "Acme Ops"}, nil)
}

func (suite *InvoiceServiceTestSuite) newInvoice(taxRate decimal.Decimal, items ...*models.InvoiceLineItem) *models.Invoice {
	return &models.Invoice{
		UserID:    suite.userID,
		ClientID:  suite.clientID,
		IssueDate: time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2026, 6, 13, 0, 0, 0, 0, time.UTC),
		TaxRate:   taxRate,
		LineItems: items,
	}
}

func (suite *InvoiceServiceTestSuite) TestCreate_ComputesTotalsAndNumber() {
	ctx := context.Background()
	suite.expectClient()

	suite.companyRepo.On("GetDefault", mock.Anything, suite.userID).
		Return(&models.Company{ID: uuid.New(), UserID: suite.userID, Name: "Acme Field Services", ShortCode: "ACME", IsDefault: true}, nil)
	suite.invoiceRepo.On("ListNumbersByPrefix", mock.Anything, suite.userID, "INV-ACME-2026-").
		Return([]string{"INV-ACME-2026-001", "INV-ACME-2026-002"}, nil)

	suite.invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Invoice")).Return(nil).Run(func(args mock.Arguments) {
		inv := args.Get(1).(*models.Invoice)
		assert.Equal(suite.T(), "INV-ACME-2026-003", inv.InvoiceNumber)
		assert.Equal(suite.T(), models.InvoiceStatusDraft, inv.Status)
		assert.Equal(suite.T(), "300", inv.Subtotal.Decimal().String())
		assert.Equal(suite.T(), "30", inv.TaxAmount.Decimal().String())
		assert.Equal(suite.T(), "330", inv.Total.Decimal().String())
		assert.True(suite.T(), inv.LineItems[0].Amount.Equal(money.MoneyFromFloat(300)))
	})

	invoice := suite.newInvoice(decimal.NewFromInt(10), &models.InvoiceLineItem{
		Description: "Wellsite supervision",
		Rate:        money.MoneyFromFloat(100),
		Hours:       money.HoursFromFloat(2),
		Quantity:    money.HoursFromFloat(1),
	})

	err := suite.service.Create(ctx, invoice)
	assert.NoError(suite.T(), err)
}

func (suite *InvoiceServiceTestSuite) TestCreate_ScopeFallsBackWithoutCompany() {
	ctx := context.Background()
	suite.expectClient()

	suite.companyRepo.On("GetDefault", mock.Anything, suite.userID).Return(nil, nil)
	suite.invoiceRepo.On("ListNumbersByPrefix", mock.Anything, suite.userID, "INV-GEN-2026-").
		Return([]string{}, nil)
	suite.invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Invoice")).Return(nil).Run(func(args mock.Arguments) {
		inv := args.Get(1).(*models.Invoice)
		assert.Equal(suite.T(), "INV-GEN-2026-001", inv.InvoiceNumber)
	})

	invoice := suite.newInvoice(decimal.Zero, &models.InvoiceLineItem{
		Description: "Consulting",
		Rate:        money.MoneyFromFloat(150),
		Hours:       money.HoursFromFloat(5),
	})

	err := suite.service.Create(ctx, invoice)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "750", invoice.Total.Decimal().String())
}

func (suite *InvoiceServiceTestSuite) TestCreate_EmptyInvoiceRejected() {
	ctx := context.Background()
	suite.expectClient()

	invoice := suite.newInvoice(decimal.Zero)
	err := suite.service.Create(ctx, invoice)
	assert.ErrorIs(suite.T(), err, billing.ErrEmptyInvoice)
}

func (suite *InvoiceServiceTestSuite) TestCreate_InvalidLineItemRejected() {
	ctx := context.Background()
	suite.expectClient()

	invoice := suite.newInvoice(decimal.Zero, &models.InvoiceLineItem{
		Description: "Broken row",
		Rate:        money.MoneyFromFloat(-10),
		Hours:       money.HoursFromFloat(1),
	})
	err := suite.service.Create(ctx, invoice)
	assert.ErrorIs(suite.T(), err, billing.ErrInvalidLineItem)
}

func (suite *InvoiceServiceTestSuite) TestCreate_DuplicateNumberSurfaces() {
	ctx := context.Background()
	suite.expectClient()

	suite.companyRepo.On("GetDefault", mock.Anything, suite.userID).Return(nil, nil)
	suite.invoiceRepo.On("ListNumbersByPrefix", mock.Anything, suite.userID, "INV-GEN-2026-").
		Return([]string{"INV-GEN-2026-007"}, nil)
	suite.invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Invoice")).
		Return(repositories.ErrDuplicateInvoiceNumber)

	invoice := suite.newInvoice(decimal.Zero, &models.InvoiceLineItem{
		Description: "Racer",
		Rate:        money.MoneyFromFloat(100),
		Hours:       money.HoursFromFloat(1),
	})

	err := suite.service.Create(ctx, invoice)
	assert.ErrorIs(suite.T(), err, repositories.ErrDuplicateInvoiceNumber)
}

func (suite *InvoiceServiceTestSuite) TestCreate_UnknownClientRejected() {
	ctx := context.Background()
	suite.clientRepo.On("GetByID", mock.Anything, suite.userID, suite.clientID).Return(nil, nil)

	invoice := suite.newInvoice(decimal.Zero, &models.InvoiceLineItem{
		Description: "Orphan",
		Rate:        money.MoneyFromFloat(100),
		Hours:       money.HoursFromFloat(1),
	})
	err := suite.service.Create(ctx, invoice)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *InvoiceServiceTestSuite) TestUpdateStatus_AnyTransitionAllowed() {
	ctx := context.Background()
	invoiceID := uuid.New()

	// paid back to draft is permitted; there is no transition graph
	suite.invoiceRepo.On("UpdateStatus", mock.Anything, suite.userID, invoiceID, models.InvoiceStatusDraft).Return(nil)

	err := suite.service.UpdateStatus(ctx, suite.userID, invoiceID, models.InvoiceStatusDraft)
	assert.NoError(suite.T(), err)
}

func (suite *InvoiceServiceTestSuite) TestUpdateStatus_UnknownStatusRejected() {
	ctx := context.Background()
	err := suite.service.UpdateStatus(ctx, suite.userID, uuid.New(), models.InvoiceStatus("archived"))
	assert.Error(suite.T(), err)
}

func (suite *InvoiceServiceTestSuite) TestMasterInvoice_GroupsAndTotals() {
	ctx := context.Background()
	otherClient := uuid.New()

	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	invoices := []*models.Invoice{
		{ID: uuid.New(), UserID: suite.userID, ClientID: suite.clientID, Total: money.MoneyFromFloat(750)},
		{ID: uuid.New(), UserID: suite.userID, ClientID: otherClient, Total: money.MoneyFromFloat(300)},
		{ID: uuid.New(), UserID: suite.userID, ClientID: suite.clientID, Total: money.MoneyFromFloat(1050)},
	}

	suite.invoiceRepo.On("ListByPeriod", mock.Anything, suite.userID, start, end, (*uuid.UUID)(nil)).
		Return(invoices, nil)
	suite.clientRepo.On("GetByIDs", mock.Anything, suite.userID, []uuid.UUID{suite.clientID, otherClient}).
		Return(map[uuid.UUID]*models.Client{
			suite.clientID: {ID: suite.clientID, Name: "Acme Ops"},
		}, nil)

	master, err := suite.service.MasterInvoice(ctx, suite.userID, 2026, 5, nil)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), master.Groups, 2)
	assert.Equal(suite.T(), "Acme Ops", master.Groups[0].ClientName)
	assert.Equal(suite.T(), "1800", master.Groups[0].Subtotal.Decimal().String())
	// Missing client record falls back to a placeholder name
	assert.Equal(suite.T(), "Client "+otherClient.String(), master.Groups[1].ClientName)
	assert.Equal(suite.T(), "2100", master.TotalAmount.Decimal().String())
}

func (suite *InvoiceServiceTestSuite) TestMasterInvoice_RejectsBadMonth() {
	ctx := context.Background()
	_, err := suite.service.MasterInvoice(ctx, suite.userID, 2026, 13, nil)
	assert.Error(suite.T(), err)
}

func (suite *InvoiceServiceTestSuite) TestCreateFromUnbilled_BuildsDraftAndMarksBilled() {
	ctx := context.Background()

	suite.userRepo.On("GetByID", mock.Anything, suite.userID).
		Return(&models.User{ID: suite.userID, RegularRate: money.MoneyFromFloat(120)}, nil)

	entryID := uuid.New()
	suite.timeEntryRepo.On("ListUnbilled", mock.Anything, suite.userID, suite.clientID).
		Return([]*models.TimeEntry{
			{ID: entryID, UserID: suite.userID, ClientID: suite.clientID, Hours: money.HoursFromFloat(4), Description: "Rig move"},
		}, nil)

	suite.expectClient()
	suite.companyRepo.On("GetDefault", mock.Anything, suite.userID).Return(nil, nil)
	suite.invoiceRepo.On("ListNumbersByPrefix", mock.Anything, suite.userID, mock.AnythingOfType("string")).
		Return([]string{}, nil)
	suite.invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Invoice")).Return(nil)
	suite.timeEntryRepo.On("MarkBilled", mock.Anything, suite.userID, []uuid.UUID{entryID}, mock.AnythingOfType("uuid.UUID")).Return(nil)

	invoice, err := suite.service.CreateFromUnbilled(ctx, suite.userID, suite.clientID, decimal.Zero, time.Now(), time.Now().AddDate(0, 1, 0))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.InvoiceStatusDraft, invoice.Status)
	assert.Len(suite.T(), invoice.LineItems, 1)
	assert.Equal(suite.T(), "480", invoice.Total.Decimal().String())
}

func (suite *InvoiceServiceTestSuite) TestCreateFromUnbilled_NothingToBill() {
	ctx := context.Background()

	suite.userRepo.On("GetByID", mock.Anything, suite.userID).
		Return(&models.User{ID: suite.userID, RegularRate: money.MoneyFromFloat(120)}, nil)
	suite.timeEntryRepo.On("ListUnbilled", mock.Anything, suite.userID, suite.clientID).
		Return([]*models.TimeEntry{}, nil)

	_, err := suite.service.CreateFromUnbilled(ctx, suite.userID, suite.clientID, decimal.Zero, time.Now(), time.Now())
	assert.ErrorIs(suite.T(), err, billing.ErrEmptyInvoice)
}
