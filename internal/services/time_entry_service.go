package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/repositories"
)

// TimeEntryService manages tracked billable time. Billed entries are
// immutable until their invoice is deleted, which releases them.
type TimeEntryService interface {
	Create(ctx context.Context, entry *models.TimeEntry) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.TimeEntry, error)
	Update(ctx context.Context, entry *models.TimeEntry) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, clientID *uuid.UUID, limit, offset int) ([]*models.TimeEntry, error)
	ListUnbilled(ctx context.Context, userID, clientID uuid.UUID) ([]*models.TimeEntry, error)
}

type timeEntryService struct {
	timeEntryRepo repositories.TimeEntryRepository
	clientRepo    repositories.ClientRepository
}

func NewTimeEntryService(timeEntryRepo repositories.TimeEntryRepository, clientRepo repositories.ClientRepository) TimeEntryService {
	return &timeEntryService{
		timeEntryRepo: timeEntryRepo,
		clientRepo:    clientRepo,
	}
}

func (s *timeEntryService) Create(ctx context.Context, entry *models.TimeEntry) error {
	if entry.Hours.IsNegative() || entry.Hours.IsZero() {
		return errors.New("hours must be positive")
	}

	client, err := s.clientRepo.GetByID(ctx, entry.UserID, entry.ClientID)
	if err != nil {
		return fmt.Errorf("failed to look up client: %w", err)
	}
	if client == nil {
		return ErrNotFound
	}

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.Billed = false
	entry.InvoiceID = nil

	if err := s.timeEntryRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to create time entry: %w", err)
	}
	return nil
}

func (s *timeEntryService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.TimeEntry, error) {
	entry, err := s.timeEntryRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get time entry: %w", err)
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	return entry, nil
}

func (s *timeEntryService) Update(ctx context.Context, entry *models.TimeEntry) error {
	if entry.Hours.IsNegative() || entry.Hours.IsZero() {
		return errors.New("hours must be positive")
	}

	existing, err := s.timeEntryRepo.GetByID(ctx, entry.UserID, entry.ID)
	if err != nil {
		return fmt.Errorf("failed to get time entry: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}
	if existing.Billed {
		return errors.New("billed time entries cannot be edited")
	}

	if err := s.timeEntryRepo.Update(ctx, entry); err != nil {
		return fmt.Errorf("failed to update time entry: %w", err)
	}
	return nil
}

func (s *timeEntryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	existing, err := s.timeEntryRepo.GetByID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to get time entry: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}
	if existing.Billed {
		return errors.New("billed time entries cannot be deleted")
	}

	if err := s.timeEntryRepo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}
	return nil
}

func (s *timeEntryService) List(ctx context.Context, userID uuid.UUID, clientID *uuid.UUID, limit, offset int) ([]*models.TimeEntry, error) {
	return s.timeEntryRepo.List(ctx, userID, clientID, limit, offset)
}

func (s *timeEntryService) ListUnbilled(ctx context.Context, userID, clientID uuid.UUID) ([]*models.TimeEntry, error) {
	return s.timeEntryRepo.ListUnbilled(ctx, userID, clientID)
}
