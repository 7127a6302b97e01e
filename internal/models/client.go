package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a billable party.
type Client struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	ContactName  *string   `json:"contact_name" db:"contact_name"`
	Email        *string   `json:"email" db:"email"`
	Phone        *string   `json:"phone" db:"phone"`
	AddressLine1 *string   `json:"address_line1" db:"address_line1"`
	AddressLine2 *string   `json:"address_line2" db:"address_line2"`
	City         *string   `json:"city" db:"city"`
	Province     *string   `json:"province" db:"province"`
	PostalCode   *string   `json:"postal_code" db:"postal_code"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
