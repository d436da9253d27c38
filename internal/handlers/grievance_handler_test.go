package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "protikar/internal/errors"
	"protikar/internal/models"
	"protikar/internal/pagination"
	"protikar/internal/services"
)

func newGrievanceRouter(svc *mockGrievanceService, audit *mockAuditService, actor string, role models.UserRole) *gin.Engine {
	handler := NewGrievanceHandler(svc, audit, true)
	router := gin.New()
	router.Use(asUser(actor, role))
	router.GET("/grievances", handler.ListGrievances)
	router.POST("/grievances", handler.CreateGrievance)
	router.GET("/grievances/:id", handler.GetGrievance)
	router.PATCH("/grievances/:id", handler.UpdateGrievance)
	router.GET("/grievances/:id/messages", handler.ListMessages)
	router.POST("/grievances/:id/messages", handler.CreateMessage)
	return router
}

func grievanceFixture(id, submitterID string) *models.Grievance {
	return &models.Grievance{
		Base:        models.Base{ID: id},
		Title:       "Claim Settlement Delay",
		Description: "Pending for 90 days",
		Category:    "claim_settlement",
		Priority:    models.PriorityHigh,
		Status:      models.StatusUnderReview,
		SubmitterID: submitterID,
		Submitter:   &models.User{Base: models.Base{ID: submitterID}},
	}
}

func TestListGrievancesHandler(t *testing.T) {
	t.Run("policyholder_pinned_to_own", func(t *testing.T) {
		var gotFilter services.GrievanceFilter
		svc := &mockGrievanceService{
			listGrievancesFn: func(filter services.GrievanceFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Grievance], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Grievance{}, 1, 20, 0)
				return &resp, nil
			},
		}
		router := newGrievanceRouter(svc, &mockAuditService{}, "alice-id", models.RolePolicyholder)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/grievances?submitter_id=somebody-else", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if gotFilter.SubmitterID != "alice-id" {
			t.Errorf("expected filter pinned to alice-id, got %q", gotFilter.SubmitterID)
		}
	})

	t.Run("staff_filter_passthrough_camelcase", func(t *testing.T) {
		var gotFilter services.GrievanceFilter
		svc := &mockGrievanceService{
			listGrievancesFn: func(filter services.GrievanceFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Grievance], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Grievance{}, 1, 20, 0)
				return &resp, nil
			},
		}
		router := newGrievanceRouter(svc, &mockAuditService{}, "admin-id", models.RoleIDRAAdmin)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/grievances?submitterId=alice-id", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if gotFilter.SubmitterID != "alice-id" {
			t.Errorf("expected camelCase filter to apply, got %q", gotFilter.SubmitterID)
		}
	})

	t.Run("internal_messages_stripped_for_policyholder", func(t *testing.T) {
		svc := &mockGrievanceService{
			listGrievancesFn: func(filter services.GrievanceFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Grievance], error) {
				grievance := *grievanceFixture("g-1", "alice-id")
				grievance.Messages = []models.GrievanceMessage{
					{Message: "public", IsInternal: false},
					{Message: "internal note", IsInternal: true},
				}
				resp := pagination.NewPageResponse([]models.Grievance{grievance}, 1, 20, 1)
				return &resp, nil
			},
		}
		router := newGrievanceRouter(svc, &mockAuditService{}, "alice-id", models.RolePolicyholder)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/grievances", nil)
		router.ServeHTTP(w, req)

		var resp pagination.PageResponse[models.Grievance]
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid body: %v", err)
		}
		if len(resp.Data) != 1 || len(resp.Data[0].Messages) != 1 {
			t.Fatalf("expected internal message stripped, got %+v", resp.Data)
		}
		if resp.Data[0].Messages[0].Message != "public" {
			t.Errorf("wrong surviving message: %+v", resp.Data[0].Messages)
		}
	})
}

func TestCreateGrievanceHandler(t *testing.T) {
	t.Run("policyholder_files_own", func(t *testing.T) {
		svc := &mockGrievanceService{
			createGrievanceFn: func(input services.GrievanceInput) (*models.Grievance, error) {
				return grievanceFixture("g-1", input.SubmitterID), nil
			},
		}
		audit := &mockAuditService{}
		router := newGrievanceRouter(svc, audit, "0198c5a0-0000-7000-8000-000000000001", models.RolePolicyholder)

		body, _ := json.Marshal(map[string]string{
			"title":        "Claim Settlement Delay",
			"description":  "Pending for 90 days",
			"category":     "claim_settlement",
			"submitter_id": "0198c5a0-0000-7000-8000-000000000001",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/grievances", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		if len(audit.entries) != 1 || audit.entries[0].Action != "grievance.create" {
			t.Errorf("expected grievance.create audit entry, got %+v", audit.entries)
		}
	})

	t.Run("policyholder_cannot_file_for_others", func(t *testing.T) {
		router := newGrievanceRouter(&mockGrievanceService{}, &mockAuditService{}, "0198c5a0-0000-7000-8000-000000000001", models.RolePolicyholder)

		body, _ := json.Marshal(map[string]string{
			"title":        "t",
			"description":  "d",
			"category":     "c",
			"submitter_id": "0198c5a0-0000-7000-8000-000000000002",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/grievances", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
	})

	t.Run("missing_fields", func(t *testing.T) {
		router := newGrievanceRouter(&mockGrievanceService{}, &mockAuditService{}, "0198c5a0-0000-7000-8000-000000000001", models.RolePolicyholder)

		body, _ := json.Marshal(map[string]string{
			"title":        "t",
			"submitter_id": "0198c5a0-0000-7000-8000-000000000001",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/grievances", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("bad_incident_date", func(t *testing.T) {
		router := newGrievanceRouter(&mockGrievanceService{}, &mockAuditService{}, "0198c5a0-0000-7000-8000-000000000001", models.RolePolicyholder)

		body, _ := json.Marshal(map[string]string{
			"title":         "t",
			"description":   "d",
			"category":      "c",
			"submitter_id":  "0198c5a0-0000-7000-8000-000000000001",
			"incident_date": "01/08/2023",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/grievances", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestGetGrievanceHandler(t *testing.T) {
	t.Run("foreign_grievance_forbidden_for_policyholder", func(t *testing.T) {
		svc := &mockGrievanceService{
			getGrievanceByIDFn: func(id string) (*models.Grievance, error) {
				return grievanceFixture(id, "somebody-else"), nil
			},
		}
		router := newGrievanceRouter(svc, &mockAuditService{}, "alice-id", models.RolePolicyholder)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/grievances/g-1", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
	})

	t.Run("staff_sees_all", func(t *testing.T) {
		svc := &mockGrievanceService{
			getGrievanceByIDFn: func(id string) (*models.Grievance, error) {
				return grievanceFixture(id, "somebody-else"), nil
			},
		}
		router := newGrievanceRouter(svc, &mockAuditService{}, "admin-id", models.RoleIDRAAdmin)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/grievances/g-1", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		svc := &mockGrievanceService{
			getGrievanceByIDFn: func(id string) (*models.Grievance, error) {
				return nil, apperrors.ErrGrievanceNotFound
			},
		}
		router := newGrievanceRouter(svc, &mockAuditService{}, "admin-id", models.RoleIDRAAdmin)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/grievances/missing", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}

func TestUpdateGrievanceHandler(t *testing.T) {
	t.Run("policyholder_cannot_triage", func(t *testing.T) {
		svc := &mockGrievanceService{
			getGrievanceByIDFn: func(id string) (*models.Grievance, error) {
				return grievanceFixture(id, "alice-id"), nil
			},
		}
		router := newGrievanceRouter(svc, &mockAuditService{}, "alice-id", models.RolePolicyholder)

		body, _ := json.Marshal(map[string]string{"status": "resolved"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/grievances/g-1", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
	})

	t.Run("policyholder_can_edit_description", func(t *testing.T) {
		svc := &mockGrievanceService{
			getGrievanceByIDFn: func(id string) (*models.Grievance, error) {
				return grievanceFixture(id, "alice-id"), nil
			},
			updateGrievanceFn: func(id string, update models.GrievanceUpdate) (*models.Grievance, error) {
				grievance := grievanceFixture(id, "alice-id")
				grievance.Description = *update.Description
				return grievance, nil
			},
		}
		audit := &mockAuditService{}
		router := newGrievanceRouter(svc, audit, "alice-id", models.RolePolicyholder)

		body, _ := json.Marshal(map[string]string{"description": "Updated details"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/grievances/g-1", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if len(audit.entries) != 1 || audit.entries[0].Action != "grievance.update" {
			t.Errorf("expected grievance.update audit entry, got %+v", audit.entries)
		}
	})

	t.Run("illegal_transition_surfaces_400", func(t *testing.T) {
		svc := &mockGrievanceService{
			getGrievanceByIDFn: func(id string) (*models.Grievance, error) {
				return grievanceFixture(id, "alice-id"), nil
			},
			updateGrievanceFn: func(id string, update models.GrievanceUpdate) (*models.Grievance, error) {
				return nil, apperrors.ErrInvalidStatusTransition
			},
		}
		router := newGrievanceRouter(svc, &mockAuditService{}, "admin-id", models.RoleIDRAAdmin)

		body, _ := json.Marshal(map[string]string{"status": "closed"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/grievances/g-1", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}

		var resp ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid error body: %v", err)
		}
		if resp.Error.Code != "INVALID_STATUS_TRANSITION" {
			t.Errorf("expected INVALID_STATUS_TRANSITION, got %s", resp.Error.Code)
		}
	})
}

func TestGrievanceMessagesHandler(t *testing.T) {
	t.Run("policyholder_gets_public_thread", func(t *testing.T) {
		var gotIncludeInternal bool
		svc := &mockGrievanceService{
			getGrievanceByIDFn: func(id string) (*models.Grievance, error) {
				return grievanceFixture(id, "alice-id"), nil
			},
			listMessagesFn: func(grievanceID string, includeInternal bool) ([]models.GrievanceMessage, error) {
				gotIncludeInternal = includeInternal
				return []models.GrievanceMessage{{Message: "public"}}, nil
			},
		}
		router := newGrievanceRouter(svc, &mockAuditService{}, "alice-id", models.RolePolicyholder)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/grievances/g-1/messages", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if gotIncludeInternal {
			t.Error("expected internal messages to be excluded for policyholder")
		}
	})

	t.Run("staff_gets_full_thread", func(t *testing.T) {
		var gotIncludeInternal bool
		svc := &mockGrievanceService{
			getGrievanceByIDFn: func(id string) (*models.Grievance, error) {
				return grievanceFixture(id, "alice-id"), nil
			},
			listMessagesFn: func(grievanceID string, includeInternal bool) ([]models.GrievanceMessage, error) {
				gotIncludeInternal = includeInternal
				return nil, nil
			},
		}
		router := newGrievanceRouter(svc, &mockAuditService{}, "bob-id", models.RoleInsuranceCompany)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/grievances/g-1/messages", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if !gotIncludeInternal {
			t.Error("expected internal messages to be included for company staff")
		}
	})

	t.Run("policyholder_cannot_post_internal", func(t *testing.T) {
		router := newGrievanceRouter(&mockGrievanceService{}, &mockAuditService{}, "0198c5a0-0000-7000-8000-000000000001", models.RolePolicyholder)

		body, _ := json.Marshal(map[string]any{
			"sender_id":   "0198c5a0-0000-7000-8000-000000000001",
			"message":     "note",
			"is_internal": true,
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/grievances/g-1/messages", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
	})

	t.Run("post_message", func(t *testing.T) {
		svc := &mockGrievanceService{
			getGrievanceByIDFn: func(id string) (*models.Grievance, error) {
				return grievanceFixture(id, "0198c5a0-0000-7000-8000-000000000001"), nil
			},
			addMessageFn: func(grievanceID, senderID, message string, isInternal bool) (*models.GrievanceMessage, error) {
				return &models.GrievanceMessage{
					Base:        models.Base{ID: "m-1"},
					GrievanceID: grievanceID,
					SenderID:    senderID,
					Message:     message,
					IsInternal:  isInternal,
				}, nil
			},
		}
		audit := &mockAuditService{}
		router := newGrievanceRouter(svc, audit, "0198c5a0-0000-7000-8000-000000000001", models.RolePolicyholder)

		body, _ := json.Marshal(map[string]any{
			"sender_id": "0198c5a0-0000-7000-8000-000000000001",
			"message":   "any update on my claim?",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/grievances/g-1/messages", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		if len(audit.entries) != 1 || audit.entries[0].Action != "grievance.message" {
			t.Errorf("expected grievance.message audit entry, got %+v", audit.entries)
		}
	})
}
