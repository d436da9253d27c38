package database

import (
	"fmt"
	"time"

	"protikar/internal/logger"
	"protikar/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password shared by every seeded demo account.
const DemoPassword = "demo123"

// Seed populates the demo fixture: 2 companies, 5 users, 2 profiles and
// 2 grievances. It is idempotent and does nothing when users already exist,
// so restarting against a persistent database never duplicates the fixture.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check for existing users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}
	password := string(hash)

	dhaka := &models.Company{
		Name:          "Dhaka Insurance Limited",
		Email:         "info@dhakainsurance.com",
		Phone:         "+880-2-123456789",
		Address:       "Dhaka, Bangladesh",
		LicenseNumber: "DI-2023-001",
		IsActive:      true,
	}
	bg := &models.Company{
		Name:          "Bangladesh General Insurance Company",
		Email:         "contact@bginsurance.com",
		Phone:         "+880-2-987654321",
		Address:       "Chittagong, Bangladesh",
		LicenseNumber: "BG-2023-002",
		IsActive:      true,
	}

	alice := &models.User{Email: "alice@example.com", Password: password, FirstName: "Alice", LastName: "Johnson", Role: models.RolePolicyholder, IsActive: true}
	bob := &models.User{Email: "bob@dhakainsurance.com", Password: password, FirstName: "Bob", LastName: "Smith", Role: models.RoleInsuranceCompany, IsActive: true}
	carol := &models.User{Email: "carol@bginsurance.com", Password: password, FirstName: "Carol", LastName: "Davis", Role: models.RoleInsuranceCompany, IsActive: true}
	david := &models.User{Email: "david@idra.gov.bd", Password: password, FirstName: "David", LastName: "Wilson", Role: models.RoleIDRAAdmin, IsActive: true}
	emma := &models.User{Email: "emma@example.com", Password: password, FirstName: "Emma", LastName: "Brown", Role: models.RolePolicyholder, IsActive: true}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, company := range []*models.Company{dhaka, bg} {
			if err := tx.Create(company).Error; err != nil {
				return err
			}
		}
		for _, user := range []*models.User{alice, bob, carol, david, emma} {
			if err := tx.Create(user).Error; err != nil {
				return err
			}
		}

		profiles := []*models.UserProfile{
			{UserID: bob.ID, CompanyID: &dhaka.ID, Phone: "+880-1711-123456", Address: "Dhaka, Bangladesh", Department: "Claims", Designation: "Manager"},
			{UserID: carol.ID, CompanyID: &bg.ID, Phone: "+880-1911-654321", Address: "Chittagong, Bangladesh", Department: "Customer Service", Designation: "Senior Officer"},
		}
		for _, profile := range profiles {
			if err := tx.Create(profile).Error; err != nil {
				return err
			}
		}

		claimIncident := time.Date(2023, time.August, 1, 0, 0, 0, 0, time.UTC)
		premiumIncident := time.Date(2023, time.September, 15, 0, 0, 0, 0, time.UTC)
		grievances := []*models.Grievance{
			{
				Title:             "Claim Settlement Delay",
				Description:       "My motor insurance claim has been pending for over 3 months without any response.",
				Category:          "Claim Settlement",
				Priority:          models.PriorityHigh,
				Status:            models.StatusUnderReview,
				SubmitterID:       alice.ID,
				AssignedCompanyID: &dhaka.ID,
				AssignedToID:      &bob.ID,
				PolicyNumber:      "POL-2023-001",
				IncidentDate:      &claimIncident,
			},
			{
				Title:             "Premium Calculation Error",
				Description:       "There seems to be an error in my life insurance premium calculation.",
				Category:          "Premium Issues",
				Priority:          models.PriorityMedium,
				Status:            models.StatusSubmitted,
				SubmitterID:       emma.ID,
				AssignedCompanyID: &bg.ID,
				AssignedToID:      &carol.ID,
				PolicyNumber:      "POL-2023-002",
				IncidentDate:      &premiumIncident,
			},
		}
		for _, grievance := range grievances {
			if err := tx.Create(grievance).Error; err != nil {
				return err
			}
		}

		logger.Get().Infow("seeded demo data",
			"companies", 2,
			"users", 5,
			"profiles", 2,
			"grievances", 2,
		)
		return nil
	})
}
