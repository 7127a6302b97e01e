package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the issuer's own business profile, used to populate invoice
// headers. Exactly one company per user is marked default; the short code
// becomes the SCOPE token of generated invoice numbers.
type Company struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	ShortCode    string    `json:"short_code" db:"short_code"`
	TaxID        *string   `json:"tax_id" db:"tax_id"`
	Email        *string   `json:"email" db:"email"`
	Phone        *string   `json:"phone" db:"phone"`
	AddressLine1 *string   `json:"address_line1" db:"address_line1"`
	AddressLine2 *string   `json:"address_line2" db:"address_line2"`
	City         *string   `json:"city" db:"city"`
	Province     *string   `json:"province" db:"province"`
	PostalCode   *string   `json:"postal_code" db:"postal_code"`
	LogoKey      *string   `json:"logo_key" db:"logo_key"`
	IsDefault    bool      `json:"is_default" db:"is_default"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
