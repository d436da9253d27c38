package models

// UserRole represents the role a user plays in the grievance process
type UserRole string

const (
	RolePolicyholder     UserRole = "policyholder"
	RoleInsuranceCompany UserRole = "insurance_company"
	RoleIDRAAdmin        UserRole = "idra_admin"
	RoleSuperAdmin       UserRole = "super_admin"
)

// IsStaff reports whether the role belongs to regulator staff.
func (r UserRole) IsStaff() bool {
	return r == RoleIDRAAdmin || r == RoleSuperAdmin
}

// User represents any participant: policyholders, company staff, and
// regulator admins. Role-specific extension data lives on UserProfile.
type User struct {
	Base
	Email     string   `gorm:"uniqueIndex;not null" json:"email"`
	Password  string   `gorm:"not null" json:"-"`
	FirstName string   `gorm:"not null" json:"first_name"`
	LastName  string   `gorm:"not null" json:"last_name"`
	Role      UserRole `gorm:"not null" json:"role"`
	IsActive  bool     `gorm:"default:true" json:"is_active"`

	Profile *UserProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// UserUpdate holds the partial-update fields for a user. Only non-nil
// fields are applied; UpdatedAt is always refreshed.
type UserUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	Role      *UserRole
	IsActive  *bool
}

// Changes returns the non-nil fields as a column-value map for GORM Updates.
func (u UserUpdate) Changes() map[string]any {
	changes := map[string]any{}
	if u.Email != nil {
		changes["email"] = *u.Email
	}
	if u.FirstName != nil {
		changes["first_name"] = *u.FirstName
	}
	if u.LastName != nil {
		changes["last_name"] = *u.LastName
	}
	if u.Role != nil {
		changes["role"] = *u.Role
	}
	if u.IsActive != nil {
		changes["is_active"] = *u.IsActive
	}
	return changes
}
