package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "protikar/internal/errors"
	"protikar/internal/models"
	"protikar/internal/pagination"
)

// dummyHash is compared against when no user matches the email, so login
// latency does not reveal whether an account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcrypt.DefaultCost)

// userService handles user, profile, and credential logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new user with a bcrypt-hashed password.
func (s *userService) CreateUser(email, password, firstName, lastName string, role models.UserRole) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:     strings.ToLower(email),
		Password:  string(hashedPassword),
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		IsActive:  true,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByEmail retrieves an active user by email
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserWithProfile retrieves a user joined with their profile and the
// profile's company. Profile stays nil when none exists, and the company
// stays nil when the profile has no company link.
func (s *userService) GetUserWithProfile(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Profile.Company").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// ListUsers retrieves a paginated list of users in insertion order.
func (s *userService) ListUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.User{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var users []models.User
	if err := s.db.Order("created_at ASC, id ASC").Scopes(pagination.Paginate(page)).Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(users, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateUser applies a partial update to a user. It never creates a record:
// updating a missing ID returns ErrUserNotFound.
func (s *userService) UpdateUser(id string, update models.UserUpdate) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if update.Email != nil {
		lowered := strings.ToLower(*update.Email)
		update.Email = &lowered

		var count int64
		if err := s.db.Model(&models.User{}).Where("email = ? AND id <> ?", lowered, id).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateEmail
		}
	}

	changes := update.Changes()
	if len(changes) == 0 {
		// A PATCH always refreshes updated_at, even when it changes nothing else.
		changes = map[string]any{"updated_at": time.Now()}
	}
	if err := s.db.Model(user).Updates(changes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetUserByID(id)
}

// DeleteUser soft-deletes a user.
func (s *userService) DeleteUser(id string) error {
	result := s.db.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Authenticate verifies credentials and returns the profile-joined user.
// Both the unknown-email and wrong-password paths cost one bcrypt compare,
// and both collapse into the same invalid-credentials error.
func (s *userService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, apperrors.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.GetUserWithProfile(user.ID)
}

// CreateProfile attaches role-specific extension data to a user. Each user
// may have at most one profile.
func (s *userService) CreateProfile(userID string, companyID *string, phone, address, nidNumber, department, designation string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user_id is required")
	}

	if _, err := s.GetUserByID(userID); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.UserProfile{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateProfile
	}

	if companyID != nil {
		var companyCount int64
		if err := s.db.Model(&models.Company{}).Where("id = ?", *companyID).Count(&companyCount).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if companyCount == 0 {
			return nil, apperrors.ErrCompanyNotFound
		}
	}

	profile := &models.UserProfile{
		UserID:      userID,
		CompanyID:   companyID,
		Phone:       phone,
		Address:     address,
		NIDNumber:   nidNumber,
		Department:  department,
		Designation: designation,
	}

	if err := s.db.Create(profile).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return profile, nil
}

// GetProfileByUserID retrieves the profile attached to a user.
func (s *userService) GetProfileByUserID(userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &profile, nil
}

// UpdateProfileByUserID applies a partial update to the profile attached to
// a user.
func (s *userService) UpdateProfileByUserID(userID string, update models.UserProfileUpdate) (*models.UserProfile, error) {
	profile, err := s.GetProfileByUserID(userID)
	if err != nil {
		return nil, err
	}

	if update.CompanyID != nil {
		var count int64
		if err := s.db.Model(&models.Company{}).Where("id = ?", *update.CompanyID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrCompanyNotFound
		}
	}

	changes := update.Changes()
	if len(changes) == 0 {
		changes = map[string]any{"updated_at": time.Now()}
	}
	if err := s.db.Model(profile).Updates(changes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetProfileByUserID(userID)
}
