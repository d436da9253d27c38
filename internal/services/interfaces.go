package services

import (
	"time"

	"protikar/internal/models"
	"protikar/internal/pagination"
)

// UserServicer defines the contract for user, profile, and credential logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string, role models.UserRole) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserWithProfile(id string) (*models.User, error)
	ListUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	UpdateUser(id string, update models.UserUpdate) (*models.User, error)
	DeleteUser(id string) error
	Authenticate(email, password string) (*models.User, error)

	CreateProfile(userID string, companyID *string, phone, address, nidNumber, department, designation string) (*models.UserProfile, error)
	GetProfileByUserID(userID string) (*models.UserProfile, error)
	UpdateProfileByUserID(userID string, update models.UserProfileUpdate) (*models.UserProfile, error)
}

// CompanyServicer defines the contract for insurance company records.
type CompanyServicer interface {
	CreateCompany(name, email, phone, address, licenseNumber string) (*models.Company, error)
	GetCompanyByID(id string) (*models.Company, error)
	ListCompanies(page pagination.PageRequest) (*pagination.PageResponse[models.Company], error)
	UpdateCompany(id string, update models.CompanyUpdate) (*models.Company, error)
	DeleteCompany(id string) error
}

// GrievanceInput carries the fields accepted when filing a grievance.
type GrievanceInput struct {
	Title             string
	Description       string
	Category          string
	Priority          models.GrievancePriority
	SubmitterID       string
	AssignedCompanyID *string
	AssignedToID      *string
	PolicyNumber      string
	IncidentDate      *time.Time
}

// GrievanceFilter selects at most one foreign-key filter for listing
// grievances. When several are set, submitter wins over company over
// assignee.
type GrievanceFilter struct {
	SubmitterID string
	CompanyID   string
	AssigneeID  string
}

// GrievanceServicer defines the contract for the grievance lifecycle.
type GrievanceServicer interface {
	CreateGrievance(input GrievanceInput) (*models.Grievance, error)
	GetGrievanceByID(id string) (*models.Grievance, error)
	ListGrievances(filter GrievanceFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Grievance], error)
	UpdateGrievance(id string, update models.GrievanceUpdate) (*models.Grievance, error)
	DeleteGrievance(id string) error

	AddMessage(grievanceID, senderID, message string, isInternal bool) (*models.GrievanceMessage, error)
	ListMessages(grievanceID string, includeInternal bool) ([]models.GrievanceMessage, error)
}

// Dashboard aggregates grievance counts for the regulator's overview.
type Dashboard struct {
	TotalGrievances      int64            `json:"total_grievances"`
	TotalUsers           int64            `json:"total_users"`
	TotalCompanies       int64            `json:"total_companies"`
	GrievancesByStatus   map[string]int64 `json:"grievances_by_status"`
	GrievancesByPriority map[string]int64 `json:"grievances_by_priority"`
	GrievancesByCategory map[string]int64 `json:"grievances_by_category"`
}

// AnalyticsServicer defines the contract for dashboard aggregates.
type AnalyticsServicer interface {
	Dashboard() (*Dashboard, error)
}

// AuditServicer defines the contract for append-only audit logging.
type AuditServicer interface {
	Log(userID *string, action, resourceType, resourceID, ipAddress, userAgent, details string)
	List(limit int) ([]models.AuditLog, error)
}
