package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/billing"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/common"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/documents"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/money"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/repositories"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/services"
)

// InvoiceBucket is the object storage bucket for rendered invoice PDFs.
const InvoiceBucket = "invoices"

const pdfURLExpiry = 15 * time.Minute

// InvoiceHandlers handles HTTP requests for invoices, including PDF
// rendering and the monthly master invoice view.
type InvoiceHandlers struct {
	invoiceService services.InvoiceService
	clientService  services.ClientService
	companyService services.CompanyService
	minioSvc       services.MinioService
}

func NewInvoiceHandlers(
	invoiceService services.InvoiceService,
	clientService services.ClientService,
	companyService services.CompanyService,
	minioSvc services.MinioService,
) *InvoiceHandlers {
	return &InvoiceHandlers{
		invoiceService: invoiceService,
		clientService:  clientService,
		companyService: companyService,
		minioSvc:       minioSvc,
	}
}

// LineItemRequest is one billable row of an invoice payload. Amounts are
// never accepted from the client; they are recomputed server side.
type LineItemRequest struct {
	TimeEntryID  *uuid.UUID  `json:"time_entry_id"`
	JobCode      *string     `json:"job_code"`
	ServicePoint *string     `json:"service_point"`
	AFENumber    *string     `json:"afe_number"`
	LOENumber    *string     `json:"loe_number"`
	WellName     *string     `json:"well_name"`
	WellNumber   *string     `json:"well_number"`
	Description  string      `json:"description" validate:"required"`
	Rate         money.Money `json:"rate"`
	Hours        money.Hours `json:"hours"`
	Quantity     money.Hours `json:"quantity"`
}

// InvoiceRequest is the create/update payload.
type InvoiceRequest struct {
	ClientID             uuid.UUID         `json:"client_id" validate:"required"`
	IssueDate            string            `json:"issue_date"`
	DueDate              string            `json:"due_date" validate:"required"`
	TaxRate              decimal.Decimal   `json:"tax_rate"`
	Status               *string           `json:"status"`
	Notes                *string           `json:"notes"`
	EquipmentDescription *string           `json:"equipment_description"`
	LineItems            []LineItemRequest `json:"line_items" validate:"required,min=1,dive"`
}

func (r *InvoiceRequest) toModel(userID uuid.UUID) (*models.Invoice, error) {
	invoice := &models.Invoice{
		ID:                   uuid.New(),
		UserID:               userID,
		ClientID:             r.ClientID,
		TaxRate:              r.TaxRate,
		Notes:                r.Notes,
		EquipmentDescription: r.EquipmentDescription,
	}

	if r.IssueDate != "" {
		issueDate, err := common.ValidateDateFormat(r.IssueDate, "issue_date")
		if err != nil {
			return nil, err
		}
		invoice.IssueDate = issueDate
	}
	dueDate, err := common.ValidateDateFormat(r.DueDate, "due_date")
	if err != nil {
		return nil, err
	}
	invoice.DueDate = dueDate

	if r.Status != nil {
		invoice.Status = models.InvoiceStatus(*r.Status)
		if !invoice.Status.Valid() {
			return nil, fmt.Errorf("status %q is not a valid invoice status", *r.Status)
		}
	}

	for _, item := range r.LineItems {
		invoice.LineItems = append(invoice.LineItems, &models.InvoiceLineItem{
			ID:           uuid.New(),
			InvoiceID:    invoice.ID,
			TimeEntryID:  item.TimeEntryID,
			JobCode:      item.JobCode,
			ServicePoint: item.ServicePoint,
			AFENumber:    item.AFENumber,
			LOENumber:    item.LOENumber,
			WellName:     item.WellName,
			WellNumber:   item.WellNumber,
			Description:  item.Description,
			Rate:         item.Rate,
			Hours:        item.Hours,
			Quantity:     item.Quantity,
		})
	}
	return invoice, nil
}

// sendBillingError maps pricing failures onto HTTP responses.
func sendBillingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, billing.ErrEmptyInvoice):
		return common.SendValidationError(c, "line_items", "invoice must have at least one line item")
	case errors.Is(err, billing.ErrInvalidLineItem):
		return common.SendValidationError(c, "line_items", err.Error())
	case errors.Is(err, billing.ErrInvalidTaxRate):
		return common.SendValidationError(c, "tax_rate", err.Error())
	case errors.Is(err, repositories.ErrDuplicateInvoiceNumber):
		return common.SendConflictError(c, "Invoice number already exists")
	case errors.Is(err, services.ErrNotFound):
		return common.SendNotFoundError(c, "client")
	}
	return common.SendServerError(c, "Failed to save invoice")
}

// CreateInvoice handles POST /invoices
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req InvoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "request", err.Error())
	}

	invoice, err := req.toModel(userID)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.invoiceService.Create(ctx, invoice); err != nil {
		return sendBillingError(c, err)
	}

	return c.JSON(http.StatusCreated, invoice)
}

// GetInvoice handles GET /invoices/:id
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.invoiceService.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendServerError(c, "Failed to retrieve invoice")
	}

	return c.JSON(http.StatusOK, invoice)
}

// UpdateInvoice handles PUT /invoices/:id
// The invoice number is immutable; line items and totals are repriced.
func (h *InvoiceHandlers) UpdateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req InvoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "request", err.Error())
	}

	invoice, err := req.toModel(userID)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	invoice.ID = id
	for _, item := range invoice.LineItems {
		item.InvoiceID = id
	}

	if err := h.invoiceService.Update(ctx, invoice); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "invoice")
		}
		return sendBillingError(c, err)
	}

	return c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice handles DELETE /invoices/:id
// Deleting an invoice releases any time entries billed on it.
func (h *InvoiceHandlers) DeleteInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.invoiceService.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendServerError(c, "Failed to delete invoice")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListInvoices handles GET /invoices
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	var status *models.InvoiceStatus
	if raw := c.QueryParam("status"); raw != "" {
		s := models.InvoiceStatus(raw)
		if !s.Valid() {
			return common.SendValidationError(c, "status", "unknown invoice status")
		}
		status = &s
	}

	invoices, err := h.invoiceService.List(ctx, userID, status, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list invoices")
	}

	return c.JSON(http.StatusOK, invoices)
}

// UpdateInvoiceStatus handles PATCH /invoices/:id/status
// Transitions are unconstrained: any known status may replace any other.
func (h *InvoiceHandlers) UpdateInvoiceStatus(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "status", err.Error())
	}

	status := models.InvoiceStatus(req.Status)
	if !status.Valid() {
		return common.SendValidationError(c, "status", "unknown invoice status")
	}

	if err := h.invoiceService.UpdateStatus(ctx, userID, id, status); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendServerError(c, "Failed to update invoice status")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": req.Status})
}

// CreateFromUnbilledRequest builds a draft invoice from every unbilled time
// entry for a client.
type CreateFromUnbilledRequest struct {
	ClientID  uuid.UUID       `json:"client_id" validate:"required"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	IssueDate string          `json:"issue_date"`
	DueDate   string          `json:"due_date" validate:"required"`
}

// CreateFromUnbilled handles POST /invoices/from-unbilled
func (h *InvoiceHandlers) CreateFromUnbilled(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req CreateFromUnbilledRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "request", err.Error())
	}

	issueDate := time.Now()
	if req.IssueDate != "" {
		var err error
		issueDate, err = common.ValidateDateFormat(req.IssueDate, "issue_date")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
	}
	dueDate, err := common.ValidateDateFormat(req.DueDate, "due_date")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.invoiceService.CreateFromUnbilled(ctx, userID, req.ClientID, req.TaxRate, issueDate, dueDate)
	if err != nil {
		if errors.Is(err, billing.ErrEmptyInvoice) {
			return common.SendValidationError(c, "client_id", "client has no unbilled time entries")
		}
		return sendBillingError(c, err)
	}

	return c.JSON(http.StatusCreated, invoice)
}

// MasterInvoice handles GET /invoices/master/:year/:month
// An optional client_id query parameter narrows the aggregate to one client.
func (h *InvoiceHandlers) MasterInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	master, err := h.masterForRequest(c, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, master)
}

// MasterInvoicePDF handles GET /invoices/master/:year/:month/pdf
func (h *InvoiceHandlers) MasterInvoicePDF(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	master, err := h.masterForRequest(c, userID)
	if err != nil {
		return err
	}

	company, logo := h.letterhead(c, userID)
	if logo != nil {
		defer logo.Close()
	}

	pdfBytes, err := documents.RenderMasterInvoice(master, company, readerOrNil(logo))
	if err != nil {
		return common.SendServerError(c, "Failed to render master invoice")
	}

	objectKey := fmt.Sprintf("%s/master-%04d-%02d.pdf", userID, master.Year, master.Month)
	return h.servePDF(c, objectKey, pdfBytes)
}

// RenderInvoicePDF handles GET /invoices/:id/pdf
// Renders the persisted invoice, stores the PDF in object storage, and
// responds with a short-lived download URL.
func (h *InvoiceHandlers) RenderInvoicePDF(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.invoiceService.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendServerError(c, "Failed to retrieve invoice")
	}

	client, err := h.clientService.GetByID(ctx, userID, invoice.ClientID)
	if err != nil && !errors.Is(err, services.ErrNotFound) {
		return common.SendServerError(c, "Failed to retrieve client")
	}

	company, logo := h.letterhead(c, userID)
	if logo != nil {
		defer logo.Close()
	}

	pdfBytes, err := documents.RenderInvoice(invoice, client, company, readerOrNil(logo))
	if err != nil {
		return common.SendServerError(c, "Failed to render invoice")
	}

	objectKey := fmt.Sprintf("%s/%s.pdf", userID, invoice.InvoiceNumber)
	return h.servePDF(c, objectKey, pdfBytes)
}

// masterForRequest parses the year/month path and optional client filter,
// then builds the aggregate. Errors are already written to the response.
func (h *InvoiceHandlers) masterForRequest(c echo.Context, userID uuid.UUID) (*models.MasterInvoice, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return nil, common.SendValidationError(c, "year", "year must be a number")
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return nil, common.SendValidationError(c, "month", "month must be a number")
	}

	var clientID *uuid.UUID
	if raw := c.Param("clientId"); raw != "" {
		id, err := common.ValidateUUID(raw, "clientId")
		if err != nil {
			return nil, common.SendClientError(c, err.Error())
		}
		clientID = &id
	} else if raw := c.QueryParam("client_id"); raw != "" {
		id, err := common.ValidateUUID(raw, "client_id")
		if err != nil {
			return nil, common.SendClientError(c, err.Error())
		}
		clientID = &id
	}

	master, err := h.invoiceService.MasterInvoice(c.Request().Context(), userID, year, month, clientID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return nil, common.SendNotFoundError(c, "period")
		}
		return nil, common.SendValidationError(c, "period", err.Error())
	}
	return master, nil
}

// letterhead loads the default company and its logo for PDF rendering.
// Both are optional; a missing company yields a header-less document.
func (h *InvoiceHandlers) letterhead(c echo.Context, userID uuid.UUID) (*models.Company, io.ReadCloser) {
	ctx := c.Request().Context()

	company, err := h.companyService.GetDefault(ctx, userID)
	if err != nil || company == nil {
		return nil, nil
	}

	if company.LogoKey == nil || *company.LogoKey == "" {
		return company, nil
	}
	logo, err := h.minioSvc.GetObject(ctx, LogoBucket, *company.LogoKey)
	if err != nil {
		// Render without the logo rather than failing the document.
		return company, nil
	}
	return company, logo
}

// servePDF uploads the rendered document and responds with a presigned URL.
func (h *InvoiceHandlers) servePDF(c echo.Context, objectKey string, pdfBytes []byte) error {
	ctx := c.Request().Context()

	err := h.minioSvc.Upload(ctx, InvoiceBucket, objectKey, "application/pdf",
		bytes.NewReader(pdfBytes), int64(len(pdfBytes)))
	if err != nil {
		return common.SendServerError(c, "Failed to store document")
	}

	url, err := h.minioSvc.GetPresignedURL(ctx, InvoiceBucket, objectKey, pdfURLExpiry)
	if err != nil {
		return common.SendServerError(c, "Failed to generate download URL")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"object_key":   objectKey,
		"download_url": url,
	})
}

func readerOrNil(rc io.ReadCloser) io.Reader {
	if rc == nil {
		return nil
	}
	return rc
}
