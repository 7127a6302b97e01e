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

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
)

type TimeTicketServiceTestSuite struct {
	suite.Suite
	ticketRepo    *MockTimeTicketRepository
	userRepo      *MockUserRepository
	invoiceRepo   *MockInvoiceRepository
	clientRepo    *MockClientRepository
	companyRepo   *MockCompanyRepository
	timeEntryRepo *MockTimeEntryRepository
	service       TimeTicketService

	userID   uuid.UUID
	clientID uuid.UUID
}

func (suite *TimeTicketServiceTestSuite) SetupTest() {
	suite.ticketRepo = &MockTimeTicketRepository{}
	suite.userRepo = &MockUserRepository{}
	suite.invoiceRepo = &MockInvoiceRepository{}
	suite.clientRepo = &MockClientRepository{}
	suite.companyRepo = &MockCompanyRepository{}
	suite.timeEntryRepo = &MockTimeEntryRepository{}

	invoiceSvc := NewInvoiceService(
		suite.invoiceRepo,
		suite.clientRepo,
		suite.companyRepo,
		suite.userRepo,
		suite.timeEntryRepo,
		noopCache{},
		noopAudit{},
		"GEN",
	)
	suite.service = NewTimeTicketService(suite.ticketRepo, suite.userRepo, invoiceSvc, noopAudit{})
	suite.userID = uuid.New()
	suite.clientID = uuid.New()

	suite.ticketRepo.Test(suite.T())
}

func (suite *TimeTicketServiceTestSuite) TearDownTest() {
	suite.ticketRepo.AssertExpectations(suite.T())
}

func TestTimeTicketServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TimeTicketServiceTestSuite))
}

func (suite *TimeTicketServiceTestSuite) openTicket() *models.TimeTicket {
	well := "Berland 7-12"
	return &models.TimeTicket{
		ID:            uuid.New(),
		UserID:        suite.userID,
		ClientID:      suite.clientID,
		TicketDate:    time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC),
		WellName:      &well,
		Description:   "Completions supervision",
		RegularHours:  money.HoursFromFloat(8),
		OvertimeHours: money.HoursFromFloat(2),
		Status:        models.TimeTicketStatusOpen,
	}
}

func (suite *TimeTicketServiceTestSuite) TestSubmit_GeneratesDraftInvoice() {
	ctx := context.Background()
	ticket := suite.openTicket()

	suite.ticketRepo.On("GetByID", mock.Anything, suite.userID, ticket.ID).Return(ticket, nil)
	suite.userRepo.On("GetByID", mock.Anything, suite.userID).
		Return(&models.User{ID: suite.userID, RegularRate: money.MoneyFromFloat(110), OvertimeRate: money.MoneyFromFloat(165)}, nil)

	suite.clientRepo.On("GetByID", mock.Anything, suite.userID, suite.clientID).
		Return(&models.Client{ID: suite.clientID, UserID: suite.userID, Name: "Acme Ops"}, nil)
	suite.companyRepo.On("GetDefault", mock.Anything, suite.userID).Return(nil, nil)
	suite.invoiceRepo.On("ListNumbersByPrefix", mock.Anything, suite.userID, mock.AnythingOfType("string")).
		Return([]string{}, nil)
	suite.invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Invoice")).Return(nil)
	suite.ticketRepo.On("MarkSubmitted", mock.Anything, suite.userID, ticket.ID, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("time.Time")).Return(nil)

	invoice, err := suite.service.Submit(ctx, suite.userID, ticket.ID, decimal.Zero, time.Now().AddDate(0, 1, 0))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.InvoiceStatusDraft, invoice.Status)
	assert.Len(suite.T(), invoice.LineItems, 2)

	// 8h at regular plus 2h at overtime, tags carried from the ticket
	assert.Equal(suite.T(), "880", invoice.LineItems[0].Amount.Decimal().String())
	assert.Equal(suite.T(), "330", invoice.LineItems[1].Amount.Decimal().String())
	assert.Equal(suite.T(), "1210", invoice.Total.Decimal().String())
	assert.Equal(suite.T(), ticket.WellName, invoice.LineItems[0].WellName)
	assert.Contains(suite.T(), invoice.LineItems[1].Description, "overtime")
}

func (suite *TimeTicketServiceTestSuite) TestSubmit_NoOvertimeYieldsOneLine() {
	ctx := context.Background()
	ticket := suite.openTicket()
	ticket.OvertimeHours = money.Hours{}

	suite.ticketRepo.On("GetByID", mock.Anything, suite.userID, ticket.ID).Return(ticket, nil)
	suite.userRepo.On("GetByID", mock.Anything, suite.userID).
		Return(&models.User{ID: suite.userID, RegularRate: money.MoneyFromFloat(110), OvertimeRate: money.MoneyFromFloat(165)}, nil)

	suite.clientRepo.On("GetByID", mock.Anything, suite.userID, suite.clientID).
		Return(&models.Client{ID: suite.clientID, UserID: suite.userID, Name: "Acme Ops"}, nil)
	suite.companyRepo.On("GetDefault", mock.Anything, suite.userID).Return(nil, nil)
	suite.invoiceRepo.On("ListNumbersByPrefix", mock.Anything, suite.userID, mock.AnythingOfType("string")).
		Return([]string{}, nil)
	suite.invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Invoice")).Return(nil)
	suite.ticketRepo.On("MarkSubmitted", mock.Anything, suite.userID, ticket.ID, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("time.Time")).Return(nil)

	invoice, err := suite.service.Submit(ctx, suite.userID, ticket.ID, decimal.Zero, time.Now())
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), invoice.LineItems, 1)
	assert.Equal(suite.T(), "880", invoice.Total.Decimal().String())
}

func (suite *TimeTicketServiceTestSuite) TestSubmit_AlreadySubmittedRejected() {
	ctx := context.Background()
	ticket := suite.openTicket()
	ticket.Status = models.TimeTicketStatusSubmitted

	suite.ticketRepo.On("GetByID", mock.Anything, suite.userID, ticket.ID).Return(ticket, nil)

	_, err := suite.service.Submit(ctx, suite.userID, ticket.ID, decimal.Zero, time.Now())
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "already submitted")
}

func (suite *TimeTicketServiceTestSuite) TestCreate_RequiresHours() {
	ctx := context.Background()
	ticket := suite.openTicket()
	ticket.RegularHours = money.Hours{}
	ticket.OvertimeHours = money.Hours{}

	err := suite.service.Create(ctx, ticket)
	assert.Error(suite.T(), err)
}

func (suite *TimeTicketServiceTestSuite) TestUpdate_SubmittedTicketLocked() {
	ctx := context.Background()
	ticket := suite.openTicket()
	submitted := *ticket
	submitted.Status = models.TimeTicketStatusSubmitted

	suite.ticketRepo.On("GetByID", mock.Anything, suite.userID, ticket.ID).Return(&submitted, nil)

	err := suite.service.Update(ctx, ticket)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "submitted")
}
