package services

import (
	"gorm.io/gorm"

	apperrors "protikar/internal/errors"
	"protikar/internal/logger"
	"protikar/internal/models"
)

// defaultAuditLimit bounds audit reads when no limit is given.
const defaultAuditLimit = 100

// auditService records who did what to which resource.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(userID *string, action, resourceType, resourceID, ipAddress, userAgent, details string) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// List returns the most recent audit entries, newest first.
func (s *auditService) List(limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > defaultAuditLimit {
		limit = defaultAuditLimit
	}

	var entries []models.AuditLog
	if err := s.db.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}
