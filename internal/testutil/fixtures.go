package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"protikar/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext used for every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates an active user with the given role, a hashed
// password, and a unique email.
func CreateTestUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email, role)
}

// CreateTestUserWithEmail creates a user with the given email and role.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Test",
		LastName:  fmt.Sprintf("User%d", nextID()),
		Role:      role,
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCompany creates an active company with a unique name.
func CreateTestCompany(t *testing.T, db *gorm.DB) *models.Company {
	t.Helper()

	n := nextID()
	company := &models.Company{
		Name:          fmt.Sprintf("Test Insurance %d", n),
		Email:         fmt.Sprintf("company%d@test.com", n),
		LicenseNumber: fmt.Sprintf("TI-%04d", n),
		IsActive:      true,
	}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("failed to create test company: %v", err)
	}
	return company
}

// CreateTestProfile attaches a profile linking the user to the company.
// Pass nil for company to create an unlinked profile.
func CreateTestProfile(t *testing.T, db *gorm.DB, userID string, companyID *string) *models.UserProfile {
	t.Helper()

	profile := &models.UserProfile{
		UserID:     userID,
		CompanyID:  companyID,
		Department: "Claims",
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	return profile
}

// CreateTestGrievance files a grievance by the given submitter with default
// priority and status.
func CreateTestGrievance(t *testing.T, db *gorm.DB, submitterID string) *models.Grievance {
	t.Helper()

	grievance := &models.Grievance{
		Title:       fmt.Sprintf("Test Grievance %d", nextID()),
		Description: "Something went wrong with my policy.",
		Category:    "Claim Settlement",
		Priority:    models.PriorityMedium,
		Status:      models.StatusSubmitted,
		SubmitterID: submitterID,
	}
	if err := db.Create(grievance).Error; err != nil {
		t.Fatalf("failed to create test grievance: %v", err)
	}
	return grievance
}

// CreateTestMessage appends a message to a grievance's thread.
func CreateTestMessage(t *testing.T, db *gorm.DB, grievanceID, senderID string, isInternal bool) *models.GrievanceMessage {
	t.Helper()

	message := &models.GrievanceMessage{
		GrievanceID: grievanceID,
		SenderID:    senderID,
		Message:     fmt.Sprintf("Test message %d", nextID()),
		IsInternal:  isInternal,
	}
	if err := db.Create(message).Error; err != nil {
		t.Fatalf("failed to create test message: %v", err)
	}
	return message
}
