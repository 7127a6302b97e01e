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

const companyCacheTTL = 15 * time.Minute

// CompanyService manages the user's issuing companies. At most one company
// per user is the default; the default supplies the invoice numbering scope
// and the letterhead on rendered documents.
type CompanyService interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Company, error)
	GetDefault(ctx context.Context, userID uuid.UUID) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Company, error)
	SetDefault(ctx context.Context, userID, id uuid.UUID) error
	UpdateLogoKey(ctx context.Context, userID, id uuid.UUID, logoKey string) error
}

type companyService struct {
	companyRepo repositories.CompanyRepository
	cacheSvc    caching.CacheService
	auditSvc    AuditLogsService
}

func NewCompanyService(companyRepo repositories.CompanyRepository, cacheSvc caching.CacheService, auditSvc AuditLogsService) CompanyService {
	return &companyService{
		companyRepo: companyRepo,
		cacheSvc:    cacheSvc,
		auditSvc:    auditSvc,
	}
}

func (s *companyService) Create(ctx context.Context, company *models.Company) error {
	if company.Name == "" {
		return errors.New("company name is required")
	}
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}

	// The user's first company becomes the default automatically.
	existing, err := s.companyRepo.GetDefault(ctx, company.UserID)
	if err != nil {
		return fmt.Errorf("failed to check default company: %w", err)
	}
	if existing == nil {
		company.IsDefault = true
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	s.auditSvc.LogActivity(ctx, company.UserID, "companies", company.ID.String(), models.ActionCreate, nil)
	return nil
}

func (s *companyService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Company, error) {
	if cached, err := s.cacheSvc.GetCompany(ctx, userID, id); err == nil && cached != nil {
		return cached, nil
	}

	company, err := s.companyRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	if company == nil {
		return nil, ErrNotFound
	}

	if err := s.cacheSvc.SetCompany(ctx, userID, company, companyCacheTTL); err != nil {
		log.Debug().Err(err).Msg("failed to cache company")
	}
	return company, nil
}

func (s *companyService) GetDefault(ctx context.Context, userID uuid.UUID) (*models.Company, error) {
	company, err := s.companyRepo.GetDefault(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get default company: %w", err)
	}
	if company == nil {
		return nil, ErrNotFound
	}
	return company, nil
}

func (s *companyService) Update(ctx context.Context, company *models.Company) error {
	if company.Name == "" {
		return errors.New("company name is required")
	}

	existing, err := s.companyRepo.GetByID(ctx, company.UserID, company.ID)
	if err != nil {
		return fmt.Errorf("failed to get company: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}

	// Default flag only moves through SetDefault.
	company.IsDefault = existing.IsDefault

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}

	s.cacheSvc.DeleteCompany(ctx, company.UserID, company.ID)
	s.auditSvc.LogActivity(ctx, company.UserID, "companies", company.ID.String(), models.ActionUpdate, nil)
	return nil
}

func (s *companyService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	existing, err := s.companyRepo.GetByID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to get company: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}
	if existing.IsDefault {
		return errors.New("cannot delete the default company")
	}

	if err := s.companyRepo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	s.cacheSvc.DeleteCompany(ctx, userID, id)
	s.auditSvc.LogActivity(ctx, userID, "companies", id.String(), models.ActionDelete, nil)
	return nil
}

func (s *companyService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Company, error) {
	return s.companyRepo.List(ctx, userID, limit, offset)
}

// SetDefault moves the default flag to the given company. The repository
// performs the unset and set in one transaction so the user always has
// exactly one default.
func (s *companyService) SetDefault(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.companyRepo.SetDefault(ctx, userID, id); err != nil {
		if errors.Is(err, repositories.ErrCompanyNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to set default company: %w", err)
	}

	s.cacheSvc.InvalidateUserCache(ctx, userID)
	s.auditSvc.LogActivity(ctx, userID, "companies", id.String(), models.ActionUpdate, nil)
	return nil
}

func (s *companyService) UpdateLogoKey(ctx context.Context, userID, id uuid.UUID, logoKey string) error {
	if err := s.companyRepo.UpdateLogoKey(ctx, userID, id, logoKey); err != nil {
		return fmt.Errorf("failed to update company logo: %w", err)
	}
	s.cacheSvc.DeleteCompany(ctx, userID, id)
	return nil
}
