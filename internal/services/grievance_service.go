package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "protikar/internal/errors"
	"protikar/internal/models"
	"protikar/internal/pagination"
)

// grievanceService owns the grievance lifecycle and its message threads.
type grievanceService struct {
	db                *gorm.DB
	enforceStatusFlow bool
}

// NewGrievanceService creates a new GrievanceServicer. When
// enforceStatusFlow is set, status updates must follow the lifecycle state
// machine; otherwise any status can be patched onto any grievance.
func NewGrievanceService(db *gorm.DB, enforceStatusFlow bool) GrievanceServicer {
	return &grievanceService{db: db, enforceStatusFlow: enforceStatusFlow}
}

// CreateGrievance files a new grievance. The submitter must reference an
// existing user, and the assigned company and handler, when given, must
// exist too.
func (s *grievanceService) CreateGrievance(input GrievanceInput) (*models.Grievance, error) {
	if input.Title == "" || input.Description == "" || input.Category == "" || input.SubmitterID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title, description, category and submitter_id are required")
	}

	var submitterCount int64
	if err := s.db.Model(&models.User{}).Where("id = ?", input.SubmitterID).Count(&submitterCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if submitterCount == 0 {
		return nil, apperrors.ErrSubmitterNotFound
	}

	if input.AssignedCompanyID != nil {
		var count int64
		if err := s.db.Model(&models.Company{}).Where("id = ?", *input.AssignedCompanyID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrCompanyNotFound
		}
	}
	if input.AssignedToID != nil {
		var count int64
		if err := s.db.Model(&models.User{}).Where("id = ?", *input.AssignedToID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrUserNotFound
		}
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	grievance := &models.Grievance{
		Title:             input.Title,
		Description:       input.Description,
		Category:          input.Category,
		Priority:          priority,
		Status:            models.StatusSubmitted,
		SubmitterID:       input.SubmitterID,
		AssignedCompanyID: input.AssignedCompanyID,
		AssignedToID:      input.AssignedToID,
		PolicyNumber:      input.PolicyNumber,
		IncidentDate:      input.IncidentDate,
	}

	if err := s.db.Create(grievance).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return grievance, nil
}

// GetGrievanceByID retrieves a grievance joined with its submitter,
// assigned company, handler, and message thread. A grievance whose
// submitter row is gone is treated as corrupt and reported as not found.
func (s *grievanceService) GetGrievanceByID(id string) (*models.Grievance, error) {
	var grievance models.Grievance
	err := s.db.
		Preload("Submitter").
		Preload("AssignedCompany").
		Preload("AssignedTo").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&grievance, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGrievanceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if grievance.Submitter == nil {
		return nil, apperrors.ErrGrievanceNotFound
	}

	return &grievance, nil
}

// ListGrievances retrieves a paginated, join-resolved grievance list in
// insertion order. At most one foreign-key filter applies: submitter wins
// over company, company wins over assignee.
func (s *grievanceService) ListGrievances(filter GrievanceFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Grievance], error) {
	page.Defaults()

	base := s.db.Model(&models.Grievance{})
	switch {
	case filter.SubmitterID != "":
		base = base.Where("submitter_id = ?", filter.SubmitterID)
	case filter.CompanyID != "":
		base = base.Where("assigned_company_id = ?", filter.CompanyID)
	case filter.AssigneeID != "":
		base = base.Where("assigned_to_id = ?", filter.AssigneeID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var grievances []models.Grievance
	err := base.
		Preload("Submitter").
		Preload("AssignedCompany").
		Preload("AssignedTo").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Order("created_at ASC, id ASC").
		Scopes(pagination.Paginate(page)).
		Find(&grievances).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Rows whose submitter has been deleted are corrupt; drop them rather
	// than return a grievance with no submitter.
	valid := grievances[:0]
	for _, grievance := range grievances {
		if grievance.Submitter != nil {
			valid = append(valid, grievance)
		}
	}

	result := pagination.NewPageResponse(valid, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateGrievance applies a partial update to a grievance. It never creates
// a record, and when status-flow enforcement is on, a status change must be
// a legal lifecycle transition.
func (s *grievanceService) UpdateGrievance(id string, update models.GrievanceUpdate) (*models.Grievance, error) {
	var grievance models.Grievance
	if err := s.db.First(&grievance, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGrievanceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if update.Status != nil && s.enforceStatusFlow && !models.CanTransition(grievance.Status, *update.Status) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidStatusTransition,
			"cannot move grievance from "+string(grievance.Status)+" to "+string(*update.Status))
	}

	if update.AssignedCompanyID != nil {
		var count int64
		if err := s.db.Model(&models.Company{}).Where("id = ?", *update.AssignedCompanyID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrCompanyNotFound
		}
	}
	if update.AssignedToID != nil {
		var count int64
		if err := s.db.Model(&models.User{}).Where("id = ?", *update.AssignedToID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrUserNotFound
		}
	}

	changes := update.Changes()
	if len(changes) == 0 {
		changes = map[string]any{"updated_at": time.Now()}
	}
	if err := s.db.Model(&grievance).Updates(changes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var updated models.Grievance
	if err := s.db.First(&updated, "id = ?", id).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &updated, nil
}

// DeleteGrievance soft-deletes a grievance.
func (s *grievanceService) DeleteGrievance(id string) error {
	result := s.db.Delete(&models.Grievance{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrGrievanceNotFound
	}
	return nil
}

// AddMessage appends a message to a grievance's thread. Both the grievance
// and the sender must exist.
func (s *grievanceService) AddMessage(grievanceID, senderID, message string, isInternal bool) (*models.GrievanceMessage, error) {
	if message == "" || senderID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "sender_id and message are required")
	}

	var grievanceCount int64
	if err := s.db.Model(&models.Grievance{}).Where("id = ?", grievanceID).Count(&grievanceCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if grievanceCount == 0 {
		return nil, apperrors.ErrGrievanceNotFound
	}

	var senderCount int64
	if err := s.db.Model(&models.User{}).Where("id = ?", senderID).Count(&senderCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if senderCount == 0 {
		return nil, apperrors.ErrUserNotFound
	}

	msg := &models.GrievanceMessage{
		GrievanceID: grievanceID,
		SenderID:    senderID,
		Message:     message,
		IsInternal:  isInternal,
	}

	if err := s.db.Create(msg).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return msg, nil
}

// ListMessages retrieves a grievance's message thread in insertion order.
// Internal messages are excluded unless includeInternal is set.
func (s *grievanceService) ListMessages(grievanceID string, includeInternal bool) ([]models.GrievanceMessage, error) {
	var count int64
	if err := s.db.Model(&models.Grievance{}).Where("id = ?", grievanceID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrGrievanceNotFound
	}

	query := s.db.Where("grievance_id = ?", grievanceID)
	if !includeInternal {
		query = query.Where("is_internal = ?", false)
	}

	var messages []models.GrievanceMessage
	if err := query.Order("created_at ASC, id ASC").Find(&messages).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return messages, nil
}
