package models

import "time"

// GrievancePriority represents how urgently a grievance needs attention
type GrievancePriority string

const (
	PriorityLow    GrievancePriority = "low"
	PriorityMedium GrievancePriority = "medium"
	PriorityHigh   GrievancePriority = "high"
	PriorityUrgent GrievancePriority = "urgent"
)

// GrievanceStatus represents where a grievance sits in its lifecycle
type GrievanceStatus string

const (
	StatusSubmitted     GrievanceStatus = "submitted"
	StatusUnderReview   GrievanceStatus = "under_review"
	StatusInvestigating GrievanceStatus = "investigating"
	StatusResolved      GrievanceStatus = "resolved"
	StatusClosed        GrievanceStatus = "closed"
	StatusRejected      GrievanceStatus = "rejected"
)

// statusTransitions maps each status to the statuses it may move to.
// Closed is terminal.
var statusTransitions = map[GrievanceStatus][]GrievanceStatus{
	StatusSubmitted:     {StatusUnderReview, StatusInvestigating, StatusRejected},
	StatusUnderReview:   {StatusInvestigating, StatusResolved, StatusRejected},
	StatusInvestigating: {StatusUnderReview, StatusResolved, StatusRejected},
	StatusRejected:      {StatusResolved},
	StatusResolved:      {StatusClosed},
	StatusClosed:        {},
}

// CanTransition reports whether a grievance may move from one status to
// another. A no-op transition to the same status is always allowed.
func CanTransition(from, to GrievanceStatus) bool {
	if from == to {
		return true
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Grievance is a complaint filed by a policyholder against an insurance
// company, tracked through a status lifecycle.
type Grievance struct {
	Base
	Title             string            `gorm:"not null" json:"title"`
	Description       string            `gorm:"not null" json:"description"`
	Category          string            `gorm:"not null" json:"category"`
	Priority          GrievancePriority `gorm:"not null;default:'medium'" json:"priority"`
	Status            GrievanceStatus   `gorm:"not null;default:'submitted';index" json:"status"`
	SubmitterID       string            `gorm:"type:uuid;not null;index" json:"submitter_id"`
	AssignedCompanyID *string           `gorm:"type:uuid;index" json:"assigned_company_id,omitempty"`
	AssignedToID      *string           `gorm:"type:uuid;index" json:"assigned_to_id,omitempty"`
	PolicyNumber      string            `json:"policy_number,omitempty"`
	IncidentDate      *time.Time        `json:"incident_date,omitempty"`
	ResolutionDetails string            `json:"resolution_details,omitempty"`

	Submitter       *User              `gorm:"foreignKey:SubmitterID" json:"submitter,omitempty"`
	AssignedCompany *Company           `gorm:"foreignKey:AssignedCompanyID" json:"assigned_company,omitempty"`
	AssignedTo      *User              `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	Messages        []GrievanceMessage `gorm:"foreignKey:GrievanceID" json:"messages,omitempty"`
}

// GrievanceUpdate holds the partial-update fields for a grievance.
type GrievanceUpdate struct {
	Title             *string
	Description       *string
	Category          *string
	Priority          *GrievancePriority
	Status            *GrievanceStatus
	AssignedCompanyID *string
	AssignedToID      *string
	PolicyNumber      *string
	IncidentDate      *time.Time
	ResolutionDetails *string
}

// Changes returns the non-nil fields as a column-value map for GORM Updates.
func (g GrievanceUpdate) Changes() map[string]any {
	changes := map[string]any{}
	if g.Title != nil {
		changes["title"] = *g.Title
	}
	if g.Description != nil {
		changes["description"] = *g.Description
	}
	if g.Category != nil {
		changes["category"] = *g.Category
	}
	if g.Priority != nil {
		changes["priority"] = *g.Priority
	}
	if g.Status != nil {
		changes["status"] = *g.Status
	}
	if g.AssignedCompanyID != nil {
		changes["assigned_company_id"] = *g.AssignedCompanyID
	}
	if g.AssignedToID != nil {
		changes["assigned_to_id"] = *g.AssignedToID
	}
	if g.PolicyNumber != nil {
		changes["policy_number"] = *g.PolicyNumber
	}
	if g.IncidentDate != nil {
		changes["incident_date"] = *g.IncidentDate
	}
	if g.ResolutionDetails != nil {
		changes["resolution_details"] = *g.ResolutionDetails
	}
	return changes
}
