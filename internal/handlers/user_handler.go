package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "protikar/internal/errors"
	"protikar/internal/middleware"
	"protikar/internal/models"
	"protikar/internal/pagination"
	"protikar/internal/services"
)

// UserHandler handles user and profile requests.
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// UpdateUserRequest represents the partial-update payload for a user.
type UpdateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email,max=255"`
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Role      *string `json:"role" binding:"omitempty,user_role"`
	IsActive  *bool   `json:"is_active"`
}

// CreateProfileRequest represents the payload for attaching a profile to a user.
type CreateProfileRequest struct {
	UserID      string  `json:"user_id" binding:"required,uuid"`
	CompanyID   *string `json:"company_id" binding:"omitempty,uuid"`
	Phone       string  `json:"phone" binding:"max=30"`
	Address     string  `json:"address" binding:"max=500"`
	NIDNumber   string  `json:"nid_number" binding:"max=30"`
	Department  string  `json:"department" binding:"max=100"`
	Designation string  `json:"designation" binding:"max=100"`
}

// UpdateProfileRequest represents the partial-update payload for a profile.
type UpdateProfileRequest struct {
	CompanyID   *string `json:"company_id" binding:"omitempty,uuid"`
	Phone       *string `json:"phone" binding:"omitempty,max=30"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	NIDNumber   *string `json:"nid_number" binding:"omitempty,max=30"`
	Department  *string `json:"department" binding:"omitempty,max=100"`
	Designation *string `json:"designation" binding:"omitempty,max=100"`
}

// ListUsers returns a paginated list of users
// @Summary     List users
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.User]
// @Router      /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.userService.ListUsers(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUser returns a user joined with their profile and company
// @Summary     Get a user with profile
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} models.User
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUserWithProfile(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser applies a partial update to a user
// @Summary     Update a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Param       request body UpdateUserRequest true "Fields to update"
// @Success     200 {object} models.User
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Access denied"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [patch]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	requesterID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	role, err := getRole(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	targetID := c.Param("id")
	if !middleware.CanManageUser(requesterID, role, targetID) {
		respondWithError(c, apperrors.ErrForbidden)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	// Only regulator staff may change roles or deactivate accounts.
	if (req.Role != nil || req.IsActive != nil) && !role.IsStaff() {
		respondWithError(c, apperrors.ErrForbidden)
		return
	}

	update := models.UserUpdate{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  req.IsActive,
	}
	if req.Role != nil {
		userRole := models.UserRole(*req.Role)
		update.Role = &userRole
	}

	user, err := h.userService.UpdateUser(targetID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID(c), "user.update", "user", targetID, c.ClientIP(), c.Request.UserAgent(), "")

	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user
// @Summary     Delete a user
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	targetID := c.Param("id")
	if err := h.userService.DeleteUser(targetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID(c), "user.delete", "user", targetID, c.ClientIP(), c.Request.UserAgent(), "")

	c.Status(http.StatusNoContent)
}

// CreateProfile attaches role-specific profile data to a user
// @Summary     Create a user profile
// @Tags        profiles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateProfileRequest true "Profile data"
// @Success     201 {object} models.UserProfile
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Profile already exists"
// @Router      /user-profiles [post]
func (h *UserHandler) CreateProfile(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	profile, err := h.userService.CreateProfile(req.UserID, req.CompanyID, req.Phone, req.Address, req.NIDNumber, req.Department, req.Designation)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID(c), "profile.create", "user_profile", profile.ID, c.ClientIP(), c.Request.UserAgent(), "")

	c.JSON(http.StatusCreated, profile)
}

// GetProfileByUser returns the profile attached to a user
// @Summary     Get a user's profile
// @Tags        profiles
// @Produce     json
// @Security    BearerAuth
// @Param       userId path string true "User ID"
// @Success     200 {object} models.UserProfile
// @Failure     404 {object} ErrorResponse "Profile not found"
// @Router      /user-profiles/user/{userId} [get]
func (h *UserHandler) GetProfileByUser(c *gin.Context) {
	profile, err := h.userService.GetProfileByUserID(c.Param("userId"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfileByUser applies a partial update to a user's profile
// @Summary     Update a user's profile
// @Tags        profiles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       userId path string true "User ID"
// @Param       request body UpdateProfileRequest true "Fields to update"
// @Success     200 {object} models.UserProfile
// @Failure     404 {object} ErrorResponse "Profile not found"
// @Router      /user-profiles/user/{userId} [patch]
func (h *UserHandler) UpdateProfileByUser(c *gin.Context) {
	requesterID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	role, err := getRole(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	targetUserID := c.Param("userId")
	if !middleware.CanManageUser(requesterID, role, targetUserID) {
		respondWithError(c, apperrors.ErrForbidden)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	profile, err := h.userService.UpdateProfileByUserID(targetUserID, models.UserProfileUpdate{
		CompanyID:   req.CompanyID,
		Phone:       req.Phone,
		Address:     req.Address,
		NIDNumber:   req.NIDNumber,
		Department:  req.Department,
		Designation: req.Designation,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID(c), "profile.update", "user_profile", profile.ID, c.ClientIP(), c.Request.UserAgent(), "")

	c.JSON(http.StatusOK, profile)
}
