package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"protikar/internal/config"
	"protikar/internal/database"
	"protikar/internal/handlers"
	"protikar/internal/logger"
	"protikar/internal/middleware"
	"protikar/internal/models"
	"protikar/internal/services"
	"protikar/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
	config.Set(&config.Config{
		JWTSecret:            "integration-test-secret",
		JWTExpirationDur:     time.Hour,
		EnforceStatusFlow:    true,
		HideInternalMessages: true,
	})
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(database.Models...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite database, seeded with the demo fixture.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	if err := database.Seed(db); err != nil {
		t.Fatalf("failed to seed demo data: %v", err)
	}

	// Services
	userService := services.NewUserService(db)
	companyService := services.NewCompanyService(db)
	grievanceService := services.NewGrievanceService(db, true)
	analyticsService := services.NewAnalyticsService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	userHandler := handlers.NewUserHandler(userService, auditService)
	companyHandler := handlers.NewCompanyHandler(companyService, auditService)
	grievanceHandler := handlers.NewGrievanceHandler(grievanceService, auditService, true)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	adminOnly := middleware.RequireRole(models.RoleIDRAAdmin, models.RoleSuperAdmin)
	superAdminOnly := middleware.RequireRole(models.RoleSuperAdmin)

	users := protected.Group("/users")
	users.GET("", userHandler.ListUsers)
	users.GET("/:id", userHandler.GetUser)
	users.PATCH("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", superAdminOnly, userHandler.DeleteUser)

	profiles := protected.Group("/user-profiles")
	profiles.POST("", userHandler.CreateProfile)
	profiles.GET("/user/:userId", userHandler.GetProfileByUser)
	profiles.PATCH("/user/:userId", userHandler.UpdateProfileByUser)

	companies := protected.Group("/companies")
	companies.GET("", companyHandler.ListCompanies)
	companies.POST("", adminOnly, companyHandler.CreateCompany)
	companies.GET("/:id", companyHandler.GetCompany)
	companies.PATCH("/:id", adminOnly, companyHandler.UpdateCompany)
	companies.DELETE("/:id", superAdminOnly, companyHandler.DeleteCompany)

	grievances := protected.Group("/grievances")
	grievances.GET("", grievanceHandler.ListGrievances)
	grievances.POST("", grievanceHandler.CreateGrievance)
	grievances.GET("/:id", grievanceHandler.GetGrievance)
	grievances.PATCH("/:id", grievanceHandler.UpdateGrievance)
	grievances.DELETE("/:id", superAdminOnly, grievanceHandler.DeleteGrievance)
	grievances.GET("/:id/messages", grievanceHandler.ListMessages)
	grievances.POST("/:id/messages", grievanceHandler.CreateMessage)

	protected.GET("/analytics/dashboard", analyticsHandler.Dashboard)
	protected.GET("/audit-logs", adminOnly, analyticsHandler.ListAuditLogs)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// parseJSONArray parses the response body into a slice.
func parseJSONArray(t *testing.T, rec *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	var result []interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON array: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// loginUser logs in a seeded demo user and returns the token and user ID.
func (app *testApp) loginUser(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}
