package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/common"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/repositories"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/services"
)

// AuthHandlers handles registration, login, and token lifecycle endpoints.
type AuthHandlers struct {
	authService services.AuthService
	userRepo    repositories.UserRepository
}

func NewAuthHandlers(authService services.AuthService, userRepo repositories.UserRepository) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		userRepo:    userRepo,
	}
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /auth/register
func (h *AuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "request", err.Error())
	}

	user, err := h.authService.Register(ctx, req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendServerError(c, "Failed to register user")
	}

	return c.JSON(http.StatusCreated, user)
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "request", err.Error())
	}

	tokens, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return common.SendUnauthorizedError(c)
	}

	return c.JSON(http.StatusOK, tokens)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandlers) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "refresh_token", err.Error())
	}

	tokens, err := h.authService.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return common.SendUnauthorizedError(c)
	}

	return c.JSON(http.StatusOK, tokens)
}

// Logout handles POST /auth/logout
func (h *AuthHandlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.RefreshToken == "" {
		return common.SendValidationError(c, "refresh_token", "refresh_token is required")
	}

	if err := h.authService.RevokeRefreshToken(ctx, req.RefreshToken); err != nil {
		return common.SendServerError(c, "Failed to revoke token")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me handles GET /auth/me
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Failed to load profile")
	}
	if user == nil {
		return common.SendNotFoundError(c, "user")
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateProfileRequest updates the billing rates used when time tickets
// are submitted.
type UpdateProfileRequest struct {
	FirstName    string      `json:"first_name" validate:"required"`
	LastName     string      `json:"last_name" validate:"required"`
	RegularRate  money.Money `json:"regular_rate"`
	OvertimeRate money.Money `json:"overtime_rate"`
}

// UpdateProfile handles PUT /auth/me
func (h *AuthHandlers) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "request", err.Error())
	}
	if req.RegularRate.IsNegative() || req.OvertimeRate.IsNegative() {
		return common.SendValidationError(c, "rates", "billing rates cannot be negative")
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Failed to load profile")
	}
	if user == nil {
		return common.SendNotFoundError(c, "user")
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.RegularRate = req.RegularRate
	user.OvertimeRate = req.OvertimeRate

	if err := h.userRepo.Update(ctx, user); err != nil {
		return common.SendServerError(c, "Failed to update profile")
	}

	return c.JSON(http.StatusOK, user)
}
