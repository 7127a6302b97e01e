package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, clientID *uuid.UUID, limit, offset int) ([]*models.Project, error)
}

type projectRepo struct {
	db DB
}

func NewProjectRepo(db DB) ProjectRepository {
	return &projectRepo{db: db}
}

const projectColumns = `id, user_id, client_id, name, description, hourly_rate, active, created_at, updated_at`

func scanProject(row pgx.Row) (*models.Project, error) {
	p := &models.Project{}
	err := row.Scan(&p.ID, &p.UserID, &p.ClientID, &p.Name, &p.Description, &p.HourlyRate, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *projectRepo) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (id, user_id, client_id, name, description, hourly_rate, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, project.ID, project.UserID, project.ClientID, project.Name, project.Description, project.HourlyRate, project.Active)
	return err
}

func (r *projectRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE user_id = $1 AND id = $2`
	project, err := scanProject(r.db.QueryRow(ctx, query, userID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return project, err
}

func (r *projectRepo) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects
		SET client_id = $1, name = $2, description = $3, hourly_rate = $4, active = $5, updated_at = NOW()
		WHERE user_id = $6 AND id = $7
	`
	_, err := r.db.Exec(ctx, query, project.ClientID, project.Name, project.Description, project.HourlyRate, project.Active, project.UserID, project.ID)
	return err
}

func (r *projectRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM projects WHERE user_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, userID, id)
	return err
}

func (r *projectRepo) List(ctx context.Context, userID uuid.UUID, clientID *uuid.UUID, limit, offset int) ([]*models.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE user_id = $1 AND ($2::uuid IS NULL OR client_id = $2)
		ORDER BY name ASC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, userID, clientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}
