package models

import "time"

// RefreshToken is a persisted refresh token; only the hash is stored.
type RefreshToken struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"user_id" db:"user_id"`
	TokenHash string     `json:"-" db:"token_hash"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	IssuedAt  time.Time  `json:"issued_at" db:"issued_at"`
	RevokedAt *time.Time `json:"revoked_at" db:"revoked_at"`
	IsRevoked bool       `json:"is_revoked" db:"is_revoked"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// TokenResponse is the access/refresh token pair returned on login and refresh.
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	RefreshToken string    `json:"refresh_token"`
	UserID       string    `json:"user_id"`
	IssuedAt     time.Time `json:"issued_at"`
}

// RefreshTokenRequest is the refresh grant payload.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
