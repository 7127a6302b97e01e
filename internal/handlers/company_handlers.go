package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/common"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/services"
)

// LogoBucket is the object storage bucket for company letterhead logos.
const LogoBucket = "company-logos"

const logoURLExpiry = 15 * time.Minute

// CompanyHandlers handles HTTP requests for the issuer's business profiles.
type CompanyHandlers struct {
	companyService services.CompanyService
	minioSvc       services.MinioService
}

func NewCompanyHandlers(companyService services.CompanyService, minioSvc services.MinioService) *CompanyHandlers {
	return &CompanyHandlers{
		companyService: companyService,
		minioSvc:       minioSvc,
	}
}

// CompanyRequest is the create/update payload. The short code becomes the
// scope token of generated invoice numbers when the company is the default.
type CompanyRequest struct {
	Name         string  `json:"name" validate:"required"`
	ShortCode    string  `json:"short_code" validate:"required,alphanum,max=8"`
	TaxID        *string `json:"tax_id"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phone"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	Province     *string `json:"province"`
	PostalCode   *string `json:"postal_code"`
}

func (r *CompanyRequest) apply(company *models.Company) {
	company.Name = r.Name
	company.ShortCode = strings.ToUpper(strings.TrimSpace(r.ShortCode))
	company.TaxID = r.TaxID
	company.Email = r.Email
	company.Phone = r.Phone
	company.AddressLine1 = r.AddressLine1
	company.AddressLine2 = r.AddressLine2
	company.City = r.City
	company.Province = r.Province
	company.PostalCode = r.PostalCode
}

// CreateCompany handles POST /companies
func (h *CompanyHandlers) CreateCompany(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req CompanyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "request", err.Error())
	}

	company := &models.Company{
		ID:     uuid.New(),
		UserID: userID,
	}
	req.apply(company)

	if err := h.companyService.Create(ctx, company); err != nil {
		return common.SendServerError(c, "Failed to create company")
	}

	return c.JSON(http.StatusCreated, company)
}

// GetCompany handles GET /companies/:id
func (h *CompanyHandlers) GetCompany(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	company, err := h.companyService.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "company")
		}
		return common.SendServerError(c, "Failed to retrieve company")
	}

	return c.JSON(http.StatusOK, company)
}

// GetDefaultCompany handles GET /companies/default
func (h *CompanyHandlers) GetDefaultCompany(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	company, err := h.companyService.GetDefault(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "default company")
		}
		return common.SendServerError(c, "Failed to retrieve default company")
	}

	return c.JSON(http.StatusOK, company)
}

// UpdateCompany handles PUT /companies/:id
func (h *CompanyHandlers) UpdateCompany(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req CompanyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "request", err.Error())
	}

	company, err := h.companyService.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "company")
		}
		return common.SendServerError(c, "Failed to retrieve company")
	}

	req.apply(company)
	if err := h.companyService.Update(ctx, company); err != nil {
		return common.SendServerError(c, "Failed to update company")
	}

	return c.JSON(http.StatusOK, company)
}

// DeleteCompany handles DELETE /companies/:id
func (h *CompanyHandlers) DeleteCompany(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.companyService.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "company")
		}
		if strings.Contains(err.Error(), "default company") {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendServerError(c, "Failed to delete company")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListCompanies handles GET /companies
func (h *CompanyHandlers) ListCompanies(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	companies, err := h.companyService.List(ctx, userID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list companies")
	}

	return c.JSON(http.StatusOK, companies)
}

// SetDefaultCompany handles PUT /companies/:id/default
func (h *CompanyHandlers) SetDefaultCompany(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.companyService.SetDefault(ctx, userID, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "company")
		}
		return common.SendServerError(c, "Failed to set default company")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Default company updated"})
}

// UploadLogo handles POST /companies/:id/logo
// Accepts a multipart "logo" file, stores it in object storage, and records
// the object key on the company.
func (h *CompanyHandlers) UploadLogo(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if _, err := h.companyService.GetByID(ctx, userID, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "company")
		}
		return common.SendServerError(c, "Failed to retrieve company")
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return common.SendClientError(c, "logo file is required")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return common.SendValidationError(c, "logo", "logo must be a PNG or JPEG image")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectKey := fmt.Sprintf("%s/%s%s", userID, id, ext)
	if err := h.minioSvc.Upload(ctx, LogoBucket, objectKey, contentType, src, fileHeader.Size); err != nil {
		return common.SendServerError(c, "Failed to store logo")
	}

	if err := h.companyService.UpdateLogoKey(ctx, userID, id, objectKey); err != nil {
		return common.SendServerError(c, "Failed to record logo")
	}

	url, err := h.minioSvc.GetPresignedURL(ctx, LogoBucket, objectKey, logoURLExpiry)
	if err != nil {
		return common.SendServerError(c, "Failed to generate logo URL")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"logo_key": objectKey,
		"logo_url": url,
	})
}

// GetLogoURL handles GET /companies/:id/logo
func (h *CompanyHandlers) GetLogoURL(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	company, err := h.companyService.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "company")
		}
		return common.SendServerError(c, "Failed to retrieve company")
	}

	if company.LogoKey == nil || *company.LogoKey == "" {
		return common.SendNotFoundError(c, "logo")
	}

	url, err := h.minioSvc.GetPresignedURL(ctx, LogoBucket, *company.LogoKey, logoURLExpiry)
	if err != nil {
		return common.SendServerError(c, "Failed to generate logo URL")
	}

	return c.JSON(http.StatusOK, map[string]string{"logo_url": url})
}
