package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/repositories"
)

type CompanyServiceTestSuite struct {
	suite.Suite
	companyRepo *MockCompanyRepository
	service     CompanyService

	userID uuid.UUID
}

func (suite *CompanyServiceTestSuite) SetupTest() {
	suite.companyRepo = &MockCompanyRepository{}
	suite.service = NewCompanyService(suite.companyRepo, noopCache{}, noopAudit{})
	suite.userID = uuid.New()

	suite.companyRepo.Test(suite.T())
}

func (suite *CompanyServiceTestSuite) TearDownTest() {
	suite.companyRepo.AssertExpectations(suite.T())
}

func TestCompanyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CompanyServiceTestSuite))
}

func (suite *CompanyServiceTestSuite) TestCreate_FirstCompanyBecomesDefault() {
	ctx := context.Background()

	suite.companyRepo.On("GetDefault", mock.Anything, suite.userID).Return(nil, nil)
	suite.companyRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Company")).Return(nil).Run(func(args mock.Arguments) {
		company := args.Get(1).(*models.Company)
		assert.True(suite.T(), company.IsDefault)
	})

	err := suite.service.Create(ctx, &models.Company{UserID: suite.userID, Name: "Acme Field Services", ShortCode: "ACME"})
	assert.NoError(suite.T(), err)
}

func (suite *CompanyServiceTestSuite) TestCreate_SecondCompanyIsNotDefault() {
	ctx := context.Background()

	suite.companyRepo.On("GetDefault", mock.Anything, suite.userID).
		Return(&models.Company{ID: uuid.New(), UserID: suite.userID, Name: "Existing", IsDefault: true}, nil)
	suite.companyRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Company")).Return(nil).Run(func(args mock.Arguments) {
		company := args.Get(1).(*models.Company)
		assert.False(suite.T(), company.IsDefault)
	})

	err := suite.service.Create(ctx, &models.Company{UserID: suite.userID, Name: "Side Venture", ShortCode: "SIDE"})
	assert.NoError(suite.T(), err)
}

func (suite *CompanyServiceTestSuite) TestGetDefault_MissingCompanyIsNotFound() {
	ctx := context.Background()

	suite.companyRepo.On("GetDefault", mock.Anything, suite.userID).Return(nil, nil)

	company, err := suite.service.GetDefault(ctx, suite.userID)
	assert.Nil(suite.T(), company)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *CompanyServiceTestSuite) TestSetDefault_MapsMissingCompany() {
	ctx := context.Background()
	companyID := uuid.New()

	suite.companyRepo.On("SetDefault", mock.Anything, suite.userID, companyID).
		Return(repositories.ErrCompanyNotFound)

	err := suite.service.SetDefault(ctx, suite.userID, companyID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *CompanyServiceTestSuite) TestDelete_DefaultCompanyProtected() {
	ctx := context.Background()
	companyID := uuid.New()

	suite.companyRepo.On("GetByID", mock.Anything, suite.userID, companyID).
		Return(&models.Company{ID: companyID, UserID: suite.userID, Name: "Acme", IsDefault: true}, nil)

	err := suite.service.Delete(ctx, suite.userID, companyID)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "default")
}

func (suite *CompanyServiceTestSuite) TestUpdate_DefaultFlagPreserved() {
	ctx := context.Background()
	companyID := uuid.New()

	suite.companyRepo.On("GetByID", mock.Anything, suite.userID, companyID).
		Return(&models.Company{ID: companyID, UserID: suite.userID, Name: "Acme", IsDefault: true}, nil)
	suite.companyRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Company")).Return(nil).Run(func(args mock.Arguments) {
		company := args.Get(1).(*models.Company)
		assert.True(suite.T(), company.IsDefault)
	})

	// Caller tries to drop the flag through a plain update
	err := suite.service.Update(ctx, &models.Company{ID: companyID, UserID: suite.userID, Name: "Acme Renamed", IsDefault: false})
	assert.NoError(suite.T(), err)
}
