package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "protikar/internal/errors"
	"protikar/internal/models"
	"protikar/internal/pagination"
)

// companyService handles insurance company records.
type companyService struct {
	db *gorm.DB
}

// NewCompanyService creates a new CompanyServicer.
func NewCompanyService(db *gorm.DB) CompanyServicer {
	return &companyService{db: db}
}

// CreateCompany registers a new insurance company.
func (s *companyService) CreateCompany(name, email, phone, address, licenseNumber string) (*models.Company, error) {
	if name == "" || email == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name and email are required")
	}

	company := &models.Company{
		Name:          name,
		Email:         email,
		Phone:         phone,
		Address:       address,
		LicenseNumber: licenseNumber,
		IsActive:      true,
	}

	if err := s.db.Create(company).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return company, nil
}

// GetCompanyByID retrieves a company by ID
func (s *companyService) GetCompanyByID(id string) (*models.Company, error) {
	var company models.Company
	if err := s.db.First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCompanyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &company, nil
}

// ListCompanies retrieves a paginated list of companies in insertion order.
func (s *companyService) ListCompanies(page pagination.PageRequest) (*pagination.PageResponse[models.Company], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Company{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var companies []models.Company
	if err := s.db.Order("created_at ASC, id ASC").Scopes(pagination.Paginate(page)).Find(&companies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(companies, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateCompany applies a partial update to a company. It never creates a
// record: updating a missing ID returns ErrCompanyNotFound.
func (s *companyService) UpdateCompany(id string, update models.CompanyUpdate) (*models.Company, error) {
	company, err := s.GetCompanyByID(id)
	if err != nil {
		return nil, err
	}

	changes := update.Changes()
	if len(changes) == 0 {
		changes = map[string]any{"updated_at": time.Now()}
	}
	if err := s.db.Model(company).Updates(changes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetCompanyByID(id)
}

// DeleteCompany soft-deletes a company.
func (s *companyService) DeleteCompany(id string) error {
	result := s.db.Delete(&models.Company{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrCompanyNotFound
	}
	return nil
}
