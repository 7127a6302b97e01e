package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/repositories"
)

// ProjectService manages projects grouping time entries under a client.
type ProjectService interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, clientID *uuid.UUID, limit, offset int) ([]*models.Project, error)
}

type projectService struct {
	projectRepo repositories.ProjectRepository
	clientRepo  repositories.ClientRepository
}

func NewProjectService(projectRepo repositories.ProjectRepository, clientRepo repositories.ClientRepository) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		clientRepo:  clientRepo,
	}
}

func (s *projectService) Create(ctx context.Context, project *models.Project) error {
	if project.Name == "" {
		return errors.New("project name is required")
	}

	client, err := s.clientRepo.GetByID(ctx, project.UserID, project.ClientID)
	if err != nil {
		return fmt.Errorf("failed to look up client: %w", err)
	}
	if client == nil {
		return ErrNotFound
	}

	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (s *projectService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, ErrNotFound
	}
	return project, nil
}

func (s *projectService) Update(ctx context.Context, project *models.Project) error {
	if project.Name == "" {
		return errors.New("project name is required")
	}

	existing, err := s.projectRepo.GetByID(ctx, project.UserID, project.ID)
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

func (s *projectService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	existing, err := s.projectRepo.GetByID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}

	if err := s.projectRepo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (s *projectService) List(ctx context.Context, userID uuid.UUID, clientID *uuid.UUID, limit, offset int) ([]*models.Project, error) {
	return s.projectRepo.List(ctx, userID, clientID, limit, offset)
}
