package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Company, error)
	GetDefault(ctx context.Context, userID uuid.UUID) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Company, error)
	SetDefault(ctx context.Context, userID, id uuid.UUID) error
	UpdateLogoKey(ctx context.Context, userID, id uuid.UUID, logoKey string) error
}

type companyRepo struct {
	db DB
}

func NewCompanyRepo(db DB) CompanyRepository {
	return &companyRepo{db: db}
}

const companyColumns = `id, user_id, name, short_code, tax_id, email, phone, address_line1, address_line2, city, province, postal_code, logo_key, is_default, created_at, updated_at`

func scanCompany(row pgx.Row) (*models.Company, error) {
	company := &models.Company{}
	err := row.Scan(&company.ID, &company.UserID, &company.Name, &company.ShortCode, &company.TaxID, &company.Email, &company.Phone, &company.AddressLine1, &company.AddressLine2, &company.City, &company.Province, &company.PostalCode, &company.LogoKey, &company.IsDefault, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return company, nil
}

func (r *companyRepo) Create(ctx context.Context, company *models.Company) error {
	query := `
		INSERT INTO companies (id, user_id, name, short_code, tax_id, email, phone, address_line1, address_line2, city, province, postal_code, logo_key, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, company.ID, company.UserID, company.Name, company.ShortCode, company.TaxID, company.Email, company.Phone, company.AddressLine1, company.AddressLine2, company.City, company.Province, company.PostalCode, company.LogoKey, company.IsDefault)
	return err
}

func (r *companyRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE user_id = $1 AND id = $2`
	company, err := scanCompany(r.db.QueryRow(ctx, query, userID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return company, err
}

func (r *companyRepo) GetDefault(ctx context.Context, userID uuid.UUID) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE user_id = $1 AND is_default = TRUE`
	company, err := scanCompany(r.db.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return company, err
}

func (r *companyRepo) Update(ctx context.Context, company *models.Company) error {
	query := `
		UPDATE companies
		SET name = $1, short_code = $2, tax_id = $3, email = $4, phone = $5, address_line1 = $6, address_line2 = $7, city = $8, province = $9, postal_code = $10, updated_at = NOW()
		WHERE user_id = $11 AND id = $12
	`
	_, err := r.db.Exec(ctx, query, company.Name, company.ShortCode, company.TaxID, company.Email, company.Phone, company.AddressLine1, company.AddressLine2, company.City, company.Province, company.PostalCode, company.UserID, company.ID)
	return err
}

func (r *companyRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM companies WHERE user_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, userID, id)
	return err
}

func (r *companyRepo) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies
		WHERE user_id = $1
		ORDER BY is_default DESC, name ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, rows.Err()
}

// SetDefault makes one company the default and unsets every other one, in a
// single transaction so "exactly one default per user" holds across
// concurrent calls.
func (r *companyRepo) SetDefault(ctx context.Context, userID, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE companies SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default = TRUE`, userID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `UPDATE companies SET is_default = TRUE, updated_at = NOW() WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}

	return tx.Commit(ctx)
}

func (r *companyRepo) UpdateLogoKey(ctx context.Context, userID, id uuid.UUID, logoKey string) error {
	query := `UPDATE companies SET logo_key = $1, updated_at = NOW() WHERE user_id = $2 AND id = $3`
	_, err := r.db.Exec(ctx, query, logoKey, userID, id)
	return err
}
