package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/caching"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/repositories"
)

// AuthService handles registration, login, and JWT token management.
type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	GenerateTokens(ctx context.Context, userID uuid.UUID) (*models.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
	RevokeRefreshToken(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo   repositories.UserRepository
	cacheSvc   caching.CacheService
	jwtSecret  []byte
	tokenTTL   int // Access token TTL in seconds
	refreshTTL int // Refresh token TTL in seconds
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	UserID  string `json:"user_id"`
	TokenID string `json:"token_id"`
	jwt.RegisteredClaims
}

func NewAuthService(userRepo repositories.UserRepository, cacheSvc caching.CacheService, jwtSecret string, tokenTTLSeconds, refreshTTLSeconds int) AuthService {
	return &authService{
		userRepo:   userRepo,
		cacheSvc:   cacheSvc,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTLSeconds,
		refreshTTL: refreshTTLSeconds,
	}
}

// Register creates a new user with a bcrypt password hash.
func (s *authService) Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues a token pair.
func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	return s.GenerateTokens(ctx, user.ID)
}

// GenerateTokens generates access and refresh tokens for a user
func (s *authService) GenerateTokens(ctx context.Context, userID uuid.UUID) (*models.TokenResponse, error) {
	now := time.Now()
	tokenID := uuid.NewString()

	claims := TokenClaims{
		UserID:  userID.String(),
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "invoicing-portal",
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{"invoicing-api"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.tokenTTL) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessTokenString, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	refreshToken := s.generateSecureToken()
	refreshTokenHash := s.hashToken(refreshToken)

	refreshTokenData := fmt.Sprintf("%s:%s:%d", userID.String(), refreshTokenHash, now.Unix()+int64(s.refreshTTL))
	cacheKey := fmt.Sprintf("refresh_token:%s", refreshTokenHash)
	if err := s.cacheSvc.SetString(ctx, cacheKey, refreshTokenData, time.Duration(s.refreshTTL)*time.Second); err != nil {
		log.Warn().Err(err).Msg("failed to store refresh token")
		// Continue, access token issuance succeeded
	}

	return &models.TokenResponse{
		AccessToken:  accessTokenString,
		TokenType:    "Bearer",
		ExpiresIn:    s.tokenTTL,
		RefreshToken: refreshToken,
		UserID:       userID.String(),
		IssuedAt:     now,
	}, nil
}

// RefreshToken validates a refresh token and issues a new token pair.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	refreshTokenHash := s.hashToken(refreshToken)

	cacheKey := fmt.Sprintf("refresh_token:%s", refreshTokenHash)
	tokenData, err := s.cacheSvc.GetString(ctx, cacheKey)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token")
	}

	parts := strings.Split(tokenData, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid token data")
	}

	userIDStr, tokenHash, expiryStr := parts[0], parts[1], parts[2]
	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid token expiry")
	}

	if time.Now().Unix() > expiry {
		s.cacheSvc.Delete(ctx, cacheKey)
		return nil, fmt.Errorf("refresh token expired")
	}

	if tokenHash != refreshTokenHash {
		return nil, fmt.Errorf("invalid refresh token")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token")
	}

	// Rotate: the old refresh token is consumed
	if err := s.cacheSvc.Delete(ctx, cacheKey); err != nil {
		log.Warn().Err(err).Msg("failed to delete rotated refresh token")
	}

	return s.GenerateTokens(ctx, userID)
}

// ValidateToken validates JWT access token
func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	jwtToken, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if claims, ok := jwtToken.Claims.(*TokenClaims); ok && jwtToken.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token claims")
}

// RevokeRefreshToken deletes a stored refresh token.
func (s *authService) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	refreshTokenHash := s.hashToken(refreshToken)
	cacheKey := fmt.Sprintf("refresh_token:%s", refreshTokenHash)
	return s.cacheSvc.Delete(ctx, cacheKey)
}

// generateSecureToken generates a cryptographically secure random token
func (s *authService) generateSecureToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return base64.URLEncoding.EncodeToString(bytes)
}

// hashToken creates a SHA-256 hash of the token for secure storage
func (s *authService) hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
