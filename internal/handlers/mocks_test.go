package handlers

import (
	"github.com/gin-gonic/gin"

	"protikar/internal/middleware"
	"protikar/internal/models"
	"protikar/internal/pagination"
	"protikar/internal/services"
)

// mockUserService implements services.UserServicer with overridable
// function fields so each test stubs only what it needs.
type mockUserService struct {
	createUserFn            func(email, password, firstName, lastName string, role models.UserRole) (*models.User, error)
	getUserByIDFn           func(id string) (*models.User, error)
	getUserByEmailFn        func(email string) (*models.User, error)
	getUserWithProfileFn    func(id string) (*models.User, error)
	listUsersFn             func(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	updateUserFn            func(id string, update models.UserUpdate) (*models.User, error)
	deleteUserFn            func(id string) error
	authenticateFn          func(email, password string) (*models.User, error)
	createProfileFn         func(userID string, companyID *string, phone, address, nidNumber, department, designation string) (*models.UserProfile, error)
	getProfileByUserIDFn    func(userID string) (*models.UserProfile, error)
	updateProfileByUserIDFn func(userID string, update models.UserProfileUpdate) (*models.UserProfile, error)
}

func (m *mockUserService) CreateUser(email, password, firstName, lastName string, role models.UserRole) (*models.User, error) {
	return m.createUserFn(email, password, firstName, lastName, role)
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	return m.getUserByIDFn(id)
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	return m.getUserByEmailFn(email)
}

func (m *mockUserService) GetUserWithProfile(id string) (*models.User, error) {
	return m.getUserWithProfileFn(id)
}

func (m *mockUserService) ListUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	return m.listUsersFn(page)
}

func (m *mockUserService) UpdateUser(id string, update models.UserUpdate) (*models.User, error) {
	return m.updateUserFn(id, update)
}

func (m *mockUserService) DeleteUser(id string) error {
	return m.deleteUserFn(id)
}

func (m *mockUserService) Authenticate(email, password string) (*models.User, error) {
	return m.authenticateFn(email, password)
}

func (m *mockUserService) CreateProfile(userID string, companyID *string, phone, address, nidNumber, department, designation string) (*models.UserProfile, error) {
	return m.createProfileFn(userID, companyID, phone, address, nidNumber, department, designation)
}

func (m *mockUserService) GetProfileByUserID(userID string) (*models.UserProfile, error) {
	return m.getProfileByUserIDFn(userID)
}

func (m *mockUserService) UpdateProfileByUserID(userID string, update models.UserProfileUpdate) (*models.UserProfile, error) {
	return m.updateProfileByUserIDFn(userID, update)
}

// mockGrievanceService implements services.GrievanceServicer.
type mockGrievanceService struct {
	createGrievanceFn  func(input services.GrievanceInput) (*models.Grievance, error)
	getGrievanceByIDFn func(id string) (*models.Grievance, error)
	listGrievancesFn   func(filter services.GrievanceFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Grievance], error)
	updateGrievanceFn  func(id string, update models.GrievanceUpdate) (*models.Grievance, error)
	deleteGrievanceFn  func(id string) error
	addMessageFn       func(grievanceID, senderID, message string, isInternal bool) (*models.GrievanceMessage, error)
	listMessagesFn     func(grievanceID string, includeInternal bool) ([]models.GrievanceMessage, error)
}

func (m *mockGrievanceService) CreateGrievance(input services.GrievanceInput) (*models.Grievance, error) {
	return m.createGrievanceFn(input)
}

func (m *mockGrievanceService) GetGrievanceByID(id string) (*models.Grievance, error) {
	return m.getGrievanceByIDFn(id)
}

func (m *mockGrievanceService) ListGrievances(filter services.GrievanceFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Grievance], error) {
	return m.listGrievancesFn(filter, page)
}

func (m *mockGrievanceService) UpdateGrievance(id string, update models.GrievanceUpdate) (*models.Grievance, error) {
	return m.updateGrievanceFn(id, update)
}

func (m *mockGrievanceService) DeleteGrievance(id string) error {
	return m.deleteGrievanceFn(id)
}

func (m *mockGrievanceService) AddMessage(grievanceID, senderID, message string, isInternal bool) (*models.GrievanceMessage, error) {
	return m.addMessageFn(grievanceID, senderID, message, isInternal)
}

func (m *mockGrievanceService) ListMessages(grievanceID string, includeInternal bool) ([]models.GrievanceMessage, error) {
	return m.listMessagesFn(grievanceID, includeInternal)
}

// mockCompanyService implements services.CompanyServicer.
type mockCompanyService struct {
	createCompanyFn  func(name, email, phone, address, licenseNumber string) (*models.Company, error)
	getCompanyByIDFn func(id string) (*models.Company, error)
	listCompaniesFn  func(page pagination.PageRequest) (*pagination.PageResponse[models.Company], error)
	updateCompanyFn  func(id string, update models.CompanyUpdate) (*models.Company, error)
	deleteCompanyFn  func(id string) error
}

func (m *mockCompanyService) CreateCompany(name, email, phone, address, licenseNumber string) (*models.Company, error) {
	return m.createCompanyFn(name, email, phone, address, licenseNumber)
}

func (m *mockCompanyService) GetCompanyByID(id string) (*models.Company, error) {
	return m.getCompanyByIDFn(id)
}

func (m *mockCompanyService) ListCompanies(page pagination.PageRequest) (*pagination.PageResponse[models.Company], error) {
	return m.listCompaniesFn(page)
}

func (m *mockCompanyService) UpdateCompany(id string, update models.CompanyUpdate) (*models.Company, error) {
	return m.updateCompanyFn(id, update)
}

func (m *mockCompanyService) DeleteCompany(id string) error {
	return m.deleteCompanyFn(id)
}

// mockAnalyticsService implements services.AnalyticsServicer.
type mockAnalyticsService struct {
	dashboardFn func() (*services.Dashboard, error)
}

func (m *mockAnalyticsService) Dashboard() (*services.Dashboard, error) {
	return m.dashboardFn()
}

// mockAuditService records entries so tests can assert on what was logged.
type mockAuditService struct {
	entries []models.AuditLog
}

func (m *mockAuditService) Log(userID *string, action, resourceType, resourceID, ipAddress, userAgent, details string) {
	m.entries = append(m.entries, models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
	})
}

func (m *mockAuditService) List(limit int) ([]models.AuditLog, error) {
	if limit > 0 && limit < len(m.entries) {
		return m.entries[:limit], nil
	}
	return m.entries, nil
}

// asUser sets the auth context the way AuthMiddleware would after
// verifying a token.
func asUser(id string, role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Set(middleware.ContextRole, role)
		c.Next()
	}
}
