package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/caching"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/repositories"
)

const clientCacheTTL = 15 * time.Minute

// ClientService manages the user's billable clients.
type ClientService interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Client, error)
}

type clientService struct {
	clientRepo repositories.ClientRepository
	cacheSvc   caching.CacheService
	auditSvc   AuditLogsService
}

func NewClientService(clientRepo repositories.ClientRepository, cacheSvc caching.CacheService, auditSvc AuditLogsService) ClientService {
	return &clientService{
		clientRepo: clientRepo,
		cacheSvc:   cacheSvc,
		auditSvc:   auditSvc,
	}
}

func (s *clientService) Create(ctx context.Context, client *models.Client) error {
	if client.Name == "" {
		return errors.New("client name is required")
	}
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	s.auditSvc.LogActivity(ctx, client.UserID, "clients", client.ID.String(), models.ActionCreate, nil)
	return nil
}

func (s *clientService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Client, error) {
	if cached, err := s.cacheSvc.GetClient(ctx, userID, id); err == nil && cached != nil {
		return cached, nil
	}

	client, err := s.clientRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if client == nil {
		return nil, ErrNotFound
	}

	if err := s.cacheSvc.SetClient(ctx, userID, client, clientCacheTTL); err != nil {
		log.Debug().Err(err).Msg("failed to cache client")
	}
	return client, nil
}

func (s *clientService) Update(ctx context.Context, client *models.Client) error {
	if client.Name == "" {
		return errors.New("client name is required")
	}

	existing, err := s.clientRepo.GetByID(ctx, client.UserID, client.ID)
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	s.cacheSvc.DeleteClient(ctx, client.UserID, client.ID)
	s.auditSvc.LogActivity(ctx, client.UserID, "clients", client.ID.String(), models.ActionUpdate, nil)
	return nil
}

func (s *clientService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	existing, err := s.clientRepo.GetByID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}

	if err := s.clientRepo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	s.cacheSvc.DeleteClient(ctx, userID, id)
	s.auditSvc.LogActivity(ctx, userID, "clients", id.String(), models.ActionDelete, nil)
	return nil
}

func (s *clientService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Client, error) {
	return s.clientRepo.List(ctx, userID, limit, offset)
}
