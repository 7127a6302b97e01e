package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
)

type AuthServiceTestSuite struct {
	suite.Suite
	userRepo *MockUserRepository
	service  AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.userRepo = &MockUserRepository{}
	suite.service = NewAuthService(suite.userRepo, noopCache{}, "test-secret", 900, 86400)

	suite.userRepo.Test(suite.T())
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.userRepo.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (suite *AuthServiceTestSuite) TestRegister_HashesPassword() {
	ctx := context.Background()

	suite.userRepo.On("GetByEmail", ctx, "rig@example.com").Return(nil, nil)
	suite.userRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Run(func(args mock.Arguments) {
		user := args.Get(1).(*models.User)
		assert.NotEqual(suite.T(), "hunter2", user.PasswordHash)
		assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2")))
	})

	user, err := suite.service.Register(ctx, "rig@example.com", "hunter2", "Pat", "Singh")
	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, user.ID)
}

func (suite *AuthServiceTestSuite) TestRegister_DuplicateEmailRejected() {
	ctx := context.Background()

	suite.userRepo.On("GetByEmail", ctx, "rig@example.com").
		Return(&models.User{ID: uuid.New(), Email: "rig@example.com"}, nil)

	_, err := suite.service.Register(ctx, "rig@example.com", "hunter2", "Pat", "Singh")
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "already registered")
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPasswordRejected() {
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.DefaultCost)
	suite.userRepo.On("GetByEmail", ctx, "rig@example.com").
		Return(&models.User{ID: uuid.New(), Email: "rig@example.com", PasswordHash: string(hash)}, nil)

	_, err := suite.service.Login(ctx, "rig@example.com", "wrong")
	assert.Error(suite.T(), err)
}

func (suite *AuthServiceTestSuite) TestGenerateAndValidateToken() {
	ctx := context.Background()
	userID := uuid.New()

	tokens, err := suite.service.GenerateTokens(ctx, userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Bearer", tokens.TokenType)
	assert.NotEmpty(suite.T(), tokens.RefreshToken)

	claims, err := suite.service.ValidateToken(ctx, tokens.AccessToken)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), userID.String(), claims.UserID)
}

func (suite *AuthServiceTestSuite) TestValidateToken_RejectsForgedToken() {
	ctx := context.Background()

	other := NewAuthService(suite.userRepo, noopCache{}, "other-secret", 900, 86400)
	tokens, err := other.GenerateTokens(ctx, uuid.New())
	assert.NoError(suite.T(), err)

	_, err = suite.service.ValidateToken(ctx, tokens.AccessToken)
	assert.Error(suite.T(), err)
}
