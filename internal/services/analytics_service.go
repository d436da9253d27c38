package services

import (
	"gorm.io/gorm"

	apperrors "protikar/internal/errors"
	"protikar/internal/models"
)

// analyticsService computes dashboard aggregates. Tallies run as GROUP BY
// queries in the database rather than scans over loaded rows, so the cost
// stays bounded as the grievance set grows.
type analyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates a new AnalyticsServicer.
func NewAnalyticsService(db *gorm.DB) AnalyticsServicer {
	return &analyticsService{db: db}
}

type tallyRow struct {
	Key   string
	Count int64
}

// tally runs a GROUP BY count over the grievances table for one column.
func (s *analyticsService) tally(column string) (map[string]int64, error) {
	var rows []tallyRow
	err := s.db.Model(&models.Grievance{}).
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Key] = row.Count
	}
	return result, nil
}

// Dashboard returns entity totals and grievance tallies grouped by status,
// priority, and category.
func (s *analyticsService) Dashboard() (*Dashboard, error) {
	dashboard := &Dashboard{}

	if err := s.db.Model(&models.Grievance{}).Count(&dashboard.TotalGrievances).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.User{}).Count(&dashboard.TotalUsers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Company{}).Count(&dashboard.TotalCompanies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var err error
	if dashboard.GrievancesByStatus, err = s.tally("status"); err != nil {
		return nil, err
	}
	if dashboard.GrievancesByPriority, err = s.tally("priority"); err != nil {
		return nil, err
	}
	if dashboard.GrievancesByCategory, err = s.tally("category"); err != nil {
		return nil, err
	}

	return dashboard, nil
}
