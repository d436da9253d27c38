package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "protikar/internal/errors"
	"protikar/internal/middleware"
	"protikar/internal/models"
	"protikar/internal/pagination"
	"protikar/internal/services"
)

// GrievanceHandler handles grievance lifecycle and message thread requests.
type GrievanceHandler struct {
	grievanceService     services.GrievanceServicer
	auditService         services.AuditServicer
	hideInternalMessages bool
}

// NewGrievanceHandler creates a new GrievanceHandler. When
// hideInternalMessages is set, internal messages are stripped from
// policyholder reads.
func NewGrievanceHandler(grievanceService services.GrievanceServicer, auditService services.AuditServicer, hideInternalMessages bool) *GrievanceHandler {
	return &GrievanceHandler{
		grievanceService:     grievanceService,
		auditService:         auditService,
		hideInternalMessages: hideInternalMessages,
	}
}

// CreateGrievanceRequest represents the payload for filing a grievance.
type CreateGrievanceRequest struct {
	Title             string  `json:"title" binding:"required,min=1,max=200"`
	Description       string  `json:"description" binding:"required,min=1,max=5000"`
	Category          string  `json:"category" binding:"required,min=1,max=100"`
	Priority          string  `json:"priority" binding:"omitempty,grievance_priority"`
	SubmitterID       string  `json:"submitter_id" binding:"required,uuid"`
	AssignedCompanyID *string `json:"assigned_company_id" binding:"omitempty,uuid"`
	AssignedToID      *string `json:"assigned_to_id" binding:"omitempty,uuid"`
	PolicyNumber      string  `json:"policy_number" binding:"max=50"`
	IncidentDate      *string `json:"incident_date"`
}

// UpdateGrievanceRequest represents the partial-update payload for a grievance.
type UpdateGrievanceRequest struct {
	Title             *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description       *string `json:"description" binding:"omitempty,min=1,max=5000"`
	Category          *string `json:"category" binding:"omitempty,min=1,max=100"`
	Priority          *string `json:"priority" binding:"omitempty,grievance_priority"`
	Status            *string `json:"status" binding:"omitempty,grievance_status"`
	AssignedCompanyID *string `json:"assigned_company_id" binding:"omitempty,uuid"`
	AssignedToID      *string `json:"assigned_to_id" binding:"omitempty,uuid"`
	PolicyNumber      *string `json:"policy_number" binding:"omitempty,max=50"`
	IncidentDate      *string `json:"incident_date"`
	ResolutionDetails *string `json:"resolution_details" binding:"omitempty,max=5000"`
}

// CreateMessageRequest represents the payload for posting a thread message.
type CreateMessageRequest struct {
	SenderID   string `json:"sender_id" binding:"required,uuid"`
	Message    string `json:"message" binding:"required,min=1,max=5000"`
	IsInternal bool   `json:"is_internal"`
}

// parseIncidentDate parses an RFC 3339 or date-only incident date.
func parseIncidentDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, *value); err == nil {
			return &parsed, nil
		}
	}
	return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "incident_date must be RFC 3339 or YYYY-MM-DD")
}

// canAccessGrievance is the visibility rule for a single grievance:
// policyholders see only what they filed, everyone else sees everything.
func canAccessGrievance(requesterID string, role models.UserRole, grievance *models.Grievance) bool {
	if role == models.RolePolicyholder {
		return grievance.SubmitterID == requesterID
	}
	return true
}

// stripInternalMessages removes internal thread entries from a grievance.
func stripInternalMessages(grievance *models.Grievance) {
	visible := grievance.Messages[:0]
	for _, message := range grievance.Messages {
		if !message.IsInternal {
			visible = append(visible, message)
		}
	}
	grievance.Messages = visible
}

// ListGrievances returns grievances filtered by at most one foreign key
// @Summary     List grievances
// @Description List grievances, filtered by submitter, company, or assignee. Policyholders only see their own.
// @Tags        grievances
// @Produce     json
// @Security    BearerAuth
// @Param       submitter_id query string false "Filter by submitter"
// @Param       company_id query string false "Filter by assigned company"
// @Param       assignee_id query string false "Filter by assigned handler"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Grievance]
// @Router      /grievances [get]
func (h *GrievanceHandler) ListGrievances(c *gin.Context) {
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

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.GrievanceFilter{
		SubmitterID: firstQuery(c, "submitter_id", "submitterId"),
		CompanyID:   firstQuery(c, "company_id", "companyId"),
		AssigneeID:  firstQuery(c, "assignee_id", "assigneeId"),
	}

	// Policyholders are pinned to their own filings no matter what filters
	// they send.
	if role == models.RolePolicyholder {
		filter = services.GrievanceFilter{SubmitterID: requesterID}
	}

	result, err := h.grievanceService.ListGrievances(filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if h.hideInternalMessages && !middleware.CanViewInternalMessages(role) {
		for i := range result.Data {
			stripInternalMessages(&result.Data[i])
		}
	}

	c.JSON(http.StatusOK, result)
}

// CreateGrievance files a new grievance
// @Summary     File a grievance
// @Tags        grievances
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGrievanceRequest true "Grievance data"
// @Success     201 {object} models.Grievance
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /grievances [post]
func (h *GrievanceHandler) CreateGrievance(c *gin.Context) {
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

	var req CreateGrievanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	// Only regulator staff may file on someone else's behalf.
	if req.SubmitterID != requesterID && !role.IsStaff() {
		respondWithError(c, apperrors.ErrForbidden)
		return
	}

	incidentDate, err := parseIncidentDate(req.IncidentDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	grievance, err := h.grievanceService.CreateGrievance(services.GrievanceInput{
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Priority:          models.GrievancePriority(req.Priority),
		SubmitterID:       req.SubmitterID,
		AssignedCompanyID: req.AssignedCompanyID,
		AssignedToID:      req.AssignedToID,
		PolicyNumber:      req.PolicyNumber,
		IncidentDate:      incidentDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID(c), "grievance.create", "grievance", grievance.ID, c.ClientIP(), c.Request.UserAgent(), "")

	c.JSON(http.StatusCreated, grievance)
}

// GetGrievance returns a grievance with submitter, company, assignee, and messages
// @Summary     Get a grievance
// @Tags        grievances
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Grievance ID"
// @Success     200 {object} models.Grievance
// @Failure     404 {object} ErrorResponse "Grievance not found"
// @Router      /grievances/{id} [get]
func (h *GrievanceHandler) GetGrievance(c *gin.Context) {
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

	grievance, err := h.grievanceService.GetGrievanceByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	if !canAccessGrievance(requesterID, role, grievance) {
		respondWithError(c, apperrors.ErrForbidden)
		return
	}

	if h.hideInternalMessages && !middleware.CanViewInternalMessages(role) {
		stripInternalMessages(grievance)
	}

	c.JSON(http.StatusOK, grievance)
}

// UpdateGrievance applies a partial update to a grievance
// @Summary     Update a grievance
// @Tags        grievances
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Grievance ID"
// @Param       request body UpdateGrievanceRequest true "Fields to update"
// @Success     200 {object} models.Grievance
// @Failure     400 {object} ErrorResponse "Invalid input or illegal status transition"
// @Failure     404 {object} ErrorResponse "Grievance not found"
// @Router      /grievances/{id} [patch]
func (h *GrievanceHandler) UpdateGrievance(c *gin.Context) {
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

	var req UpdateGrievanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	grievance, err := h.grievanceService.GetGrievanceByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !canAccessGrievance(requesterID, role, grievance) {
		respondWithError(c, apperrors.ErrForbidden)
		return
	}

	// Triage fields are off limits to the submitter.
	triageChange := req.Status != nil || req.AssignedCompanyID != nil || req.AssignedToID != nil || req.ResolutionDetails != nil
	if triageChange && role == models.RolePolicyholder {
		respondWithError(c, apperrors.ErrForbidden)
		return
	}

	incidentDate, err := parseIncidentDate(req.IncidentDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	update := models.GrievanceUpdate{
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		AssignedCompanyID: req.AssignedCompanyID,
		AssignedToID:      req.AssignedToID,
		PolicyNumber:      req.PolicyNumber,
		IncidentDate:      incidentDate,
		ResolutionDetails: req.ResolutionDetails,
	}
	if req.Priority != nil {
		priority := models.GrievancePriority(*req.Priority)
		update.Priority = &priority
	}
	if req.Status != nil {
		status := models.GrievanceStatus(*req.Status)
		update.Status = &status
	}

	updated, err := h.grievanceService.UpdateGrievance(grievance.ID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID(c), "grievance.update", "grievance", updated.ID, c.ClientIP(), c.Request.UserAgent(), "")

	c.JSON(http.StatusOK, updated)
}

// DeleteGrievance removes a grievance
// @Summary     Delete a grievance
// @Tags        grievances
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Grievance ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Grievance not found"
// @Router      /grievances/{id} [delete]
func (h *GrievanceHandler) DeleteGrievance(c *gin.Context) {
	targetID := c.Param("id")
	if err := h.grievanceService.DeleteGrievance(targetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID(c), "grievance.delete", "grievance", targetID, c.ClientIP(), c.Request.UserAgent(), "")

	c.Status(http.StatusNoContent)
}

// ListMessages returns a grievance's message thread
// @Summary     List grievance messages
// @Description List a grievance's message thread in insertion order. Internal messages are hidden from policyholders.
// @Tags        grievances
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Grievance ID"
// @Success     200 {array} models.GrievanceMessage
// @Failure     404 {object} ErrorResponse "Grievance not found"
// @Router      /grievances/{id}/messages [get]
func (h *GrievanceHandler) ListMessages(c *gin.Context) {
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

	grievance, err := h.grievanceService.GetGrievanceByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !canAccessGrievance(requesterID, role, grievance) {
		respondWithError(c, apperrors.ErrForbidden)
		return
	}

	includeInternal := !h.hideInternalMessages || middleware.CanViewInternalMessages(role)
	messages, err := h.grievanceService.ListMessages(grievance.ID, includeInternal)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// CreateMessage posts a message to a grievance's thread
// @Summary     Post a grievance message
// @Tags        grievances
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Grievance ID"
// @Param       request body CreateMessageRequest true "Message data"
// @Success     201 {object} models.GrievanceMessage
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Grievance not found"
// @Router      /grievances/{id}/messages [post]
func (h *GrievanceHandler) CreateMessage(c *gin.Context) {
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

	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	// Messages are sent as oneself; regulator staff may post for others.
	if req.SenderID != requesterID && !role.IsStaff() {
		respondWithError(c, apperrors.ErrForbidden)
		return
	}

	// Policyholders cannot mark messages internal.
	if req.IsInternal && role == models.RolePolicyholder {
		respondWithError(c, apperrors.ErrForbidden)
		return
	}

	grievance, err := h.grievanceService.GetGrievanceByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !canAccessGrievance(requesterID, role, grievance) {
		respondWithError(c, apperrors.ErrForbidden)
		return
	}

	message, err := h.grievanceService.AddMessage(grievance.ID, req.SenderID, req.Message, req.IsInternal)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actorID(c), "grievance.message", "grievance_message", message.ID, c.ClientIP(), c.Request.UserAgent(), "")

	c.JSON(http.StatusCreated, message)
}
