package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
)

type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Client, error)
	GetByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.Client, error)
}

type clientRepo struct {
	db DB
}

func NewClientRepo(db DB) ClientRepository {
	return &clientRepo{db: db}
}

const clientColumns = `id, user_id, name, contact_name, email, phone, address_line1, address_line2, city, province, postal_code, created_at, updated_at`

func scanClient(row pgx.Row) (*models.Client, error) {
	client := &models.Client{}
	err := row.Scan(&client.ID, &client.UserID, &client.Name, &client.ContactName, &client.Email, &client.Phone, &client.AddressLine1, &client.AddressLine2, &client.City, &client.Province, &client.PostalCode, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *clientRepo) Create(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (id, user_id, name, contact_name, email, phone, address_line1, address_line2, city, province, postal_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, client.ID, client.UserID, client.Name, client.ContactName, client.Email, client.Phone, client.AddressLine1, client.AddressLine2, client.City, client.Province, client.PostalCode)
	return err
}

func (r *clientRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE user_id = $1 AND id = $2`
	client, err := scanClient(r.db.QueryRow(ctx, query, userID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return client, err
}

func (r *clientRepo) Update(ctx context.Context, client *models.Client) error {
	query := `
		UPDATE clients
		SET name = $1, contact_name = $2, email = $3, phone = $4, address_line1 = $5, address_line2 = $6, city = $7, province = $8, postal_code = $9, updated_at = NOW()
		WHERE user_id = $10 AND id = $11
	`
	_, err := r.db.Exec(ctx, query, client.Name, client.ContactName, client.Email, client.Phone, client.AddressLine1, client.AddressLine2, client.City, client.Province, client.PostalCode, client.UserID, client.ID)
	return err
}

func (r *clientRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM clients WHERE user_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, userID, id)
	return err
}

func (r *clientRepo) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE user_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

func (r *clientRepo) GetByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.Client, error) {
	clients := make(map[uuid.UUID]*models.Client, len(ids))
	if len(ids) == 0 {
		return clients, nil
	}

	query := `SELECT ` + clientColumns + ` FROM clients WHERE user_id = $1 AND id = ANY($2)`
	rows, err := r.db.Query(ctx, query, userID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients[client.ID] = client
	}
	return clients, rows.Err()
}
