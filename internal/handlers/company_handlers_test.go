package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/services"
)

func TestGetDefaultCompany_NoDefaultReturnsNotFound(t *testing.T) {
	companySvc := new(MockCompanyService)
	h := NewCompanyHandlers(companySvc, nil)
	userID := uuid.New()

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/companies/default", "", userID)

	companySvc.On("GetDefault", mock.Anything, userID).Return(nil, services.ErrNotFound)

	err := h.GetDefaultCompany(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	companySvc.AssertExpectations(t)
}

func TestGetDefaultCompany_ReturnsDefault(t *testing.T) {
	companySvc := new(MockCompanyService)
	h := NewCompanyHandlers(companySvc, nil)
	userID := uuid.New()

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/companies/default", "", userID)

	companySvc.On("GetDefault", mock.Anything, userID).
		Return(&models.Company{ID: uuid.New(), UserID: userID, Name: "Acme Field Services", ShortCode: "ACME", IsDefault: true}, nil)

	err := h.GetDefaultCompany(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acme Field Services")
	companySvc.AssertExpectations(t)
}
