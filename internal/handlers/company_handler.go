package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "protikar/internal/errors"
	"protikar/internal/models"
	"protikar/internal/pagination"
	"protikar/internal/services"
)

// CompanyHandler handles insurance company requests.
type CompanyHandler struct {
	companyService services.CompanyServicer
	auditService   services.AuditServicer
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(companyService services.CompanyServicer, auditService services.AuditServicer) *CompanyHandler {
	return &CompanyHandler{companyService: companyService, auditService: auditService}
}

// CreateCompanyRequest represents the payload for registering a company.
type CreateCompanyRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=200"`
	Email         string `json:"email" binding:"required,email,max=255"`
	Phone         string `json:"phone" binding:"max=30"`
	Address       string `json:"address" binding:"max=500"`
	LicenseNumber string `json:"license_number" binding:"max=50"`
}

// UpdateCompanyRequest represents the partial-update payload for a company.
type UpdateCompanyRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email         *string `json:"email" binding:"omitempty,email,max=255"`
	Phone         *string `json:"phone" binding:"omitempty,max=30"`
	Address       *string `json:"address" binding:"omitempty,max=500"`
	LicenseNumber *string `json:"license_number" binding:"omitempty,max=50"`
	IsActive      *bool   `json:"is_active"`
}

// ListCompanies returns a paginated list of companies
// @Summary     List companies
// @Tags        companies
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Company]
// @Router      /companies [get]
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.companyService.ListCompanies(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateCompany registers a new insurance company
// @Summary     Create a company
// @Tags        companies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCompanyRequest true "Company data"
// @Success     201 {object} models.Company
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	company, err := h.companyService.CreateCompany(req.Name, req.Email, req.Phone, req.Address, req.LicenseNumber)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID(c), "company.create", "company", company.ID, c.ClientIP(), c.Request.UserAgent(), "")

	c.JSON(http.StatusCreated, company)
}

// GetCompany returns a company by ID
// @Summary     Get a company
// @Tags        companies
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Company ID"
// @Success     200 {object} models.Company
// @Failure     404 {object} ErrorResponse "Company not found"
// @Router      /companies/{id} [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	company, err := h.companyService.GetCompanyByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, company)
}

// UpdateCompany applies a partial update to a company
// @Summary     Update a company
// @Tags        companies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Company ID"
// @Param       request body UpdateCompanyRequest true "Fields to update"
// @Success     200 {object} models.Company
// @Failure     404 {object} ErrorResponse "Company not found"
// @Router      /companies/{id} [patch]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	company, err := h.companyService.UpdateCompany(c.Param("id"), models.CompanyUpdate{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		LicenseNumber: req.LicenseNumber,
		IsActive:      req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID(c), "company.update", "company", company.ID, c.ClientIP(), c.Request.UserAgent(), "")

	c.JSON(http.StatusOK, company)
}

// DeleteCompany removes a company
// @Summary     Delete a company
// @Tags        companies
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Company ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Company not found"
// @Router      /companies/{id} [delete]
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	targetID := c.Param("id")
	if err := h.companyService.DeleteCompany(targetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID(c), "company.delete", "company", targetID, c.ClientIP(), c.Request.UserAgent(), "")

	c.Status(http.StatusNoContent)
}
