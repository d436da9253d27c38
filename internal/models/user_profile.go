package models

// UserProfile carries role-specific extension data attached 1:1 to a user.
// Insurance company staff link to their employer through CompanyID.
type UserProfile struct {
	Base
	UserID      string  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	CompanyID   *string `gorm:"type:uuid" json:"company_id,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Address     string  `json:"address,omitempty"`
	NIDNumber   string  `json:"nid_number,omitempty"`
	Department  string  `json:"department,omitempty"`
	Designation string  `json:"designation,omitempty"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// UserProfileUpdate holds the partial-update fields for a user profile.
type UserProfileUpdate struct {
	CompanyID   *string
	Phone       *string
	Address     *string
	NIDNumber   *string
	Department  *string
	Designation *string
}

// Changes returns the non-nil fields as a column-value map for GORM Updates.
func (p UserProfileUpdate) Changes() map[string]any {
	changes := map[string]any{}
	if p.CompanyID != nil {
		changes["company_id"] = *p.CompanyID
	}
	if p.Phone != nil {
		changes["phone"] = *p.Phone
	}
	if p.Address != nil {
		changes["address"] = *p.Address
	}
	if p.NIDNumber != nil {
		changes["nid_number"] = *p.NIDNumber
	}
	if p.Department != nil {
		changes["department"] = *p.Department
	}
	if p.Designation != nil {
		changes["designation"] = *p.Designation
	}
	return changes
}
