package models

// Company represents a licensed insurance company that grievances can be
// filed against.
type Company struct {
	Base
	Name          string `gorm:"not null" json:"name"`
	Email         string `gorm:"not null" json:"email"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`
}

// CompanyUpdate holds the partial-update fields for a company.
type CompanyUpdate struct {
	Name          *string
	Email         *string
	Phone         *string
	Address       *string
	LicenseNumber *string
	IsActive      *bool
}

// Changes returns the non-nil fields as a column-value map for GORM Updates.
func (c CompanyUpdate) Changes() map[string]any {
	changes := map[string]any{}
	if c.Name != nil {
		changes["name"] = *c.Name
	}
	if c.Email != nil {
		changes["email"] = *c.Email
	}
	if c.Phone != nil {
		changes["phone"] = *c.Phone
	}
	if c.Address != nil {
		changes["address"] = *c.Address
	}
	if c.LicenseNumber != nil {
		changes["license_number"] = *c.LicenseNumber
	}
	if c.IsActive != nil {
		changes["is_active"] = *c.IsActive
	}
	return changes
}
