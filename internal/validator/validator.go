// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"protikar/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("user_role", validateUserRole)
		_ = v.RegisterValidation("grievance_priority", validateGrievancePriority)
		_ = v.RegisterValidation("grievance_status", validateGrievanceStatus)
	}
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case models.RolePolicyholder, models.RoleInsuranceCompany, models.RoleIDRAAdmin, models.RoleSuperAdmin:
		return true
	}
	return false
}

func validateGrievancePriority(fl validator.FieldLevel) bool {
	switch models.GrievancePriority(fl.Field().String()) {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent:
		return true
	}
	return false
}

func validateGrievanceStatus(fl validator.FieldLevel) bool {
	switch models.GrievanceStatus(fl.Field().String()) {
	case models.StatusSubmitted, models.StatusUnderReview, models.StatusInvestigating,
		models.StatusResolved, models.StatusClosed, models.StatusRejected:
		return true
	}
	return false
}
