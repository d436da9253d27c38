package main

import (
	"fmt"
	"net/http"
	"os"

	"protikar/internal/config"
	"protikar/internal/database"
	"protikar/internal/handlers"
	"protikar/internal/logger"
	"protikar/internal/middleware"
	"protikar/internal/models"
	"protikar/internal/services"
	"protikar/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "protikar/internal/docs" // Import swagger docs
)

// @title           Protikar API
// @version         1.0
// @description     Protikar is a grievance filing and tracking platform where policyholders complain against insurance companies and the regulator tracks resolution.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()
	if appConfig.SeedDemoData {
		if err := database.Seed(db); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	// Services
	userService := services.NewUserService(db)
	companyService := services.NewCompanyService(db)
	grievanceService := services.NewGrievanceService(db, appConfig.EnforceStatusFlow)
	analyticsService := services.NewAnalyticsService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	userHandler := handlers.NewUserHandler(userService, auditService)
	companyHandler := handlers.NewCompanyHandler(companyService, auditService)
	grievanceHandler := handlers.NewGrievanceHandler(grievanceService, auditService, appConfig.HideInternalMessages)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	adminOnly := middleware.RequireRole(models.RoleIDRAAdmin, models.RoleSuperAdmin)
	superAdminOnly := middleware.RequireRole(models.RoleSuperAdmin)

	// User routes
	users := protected.Group("/users")
	users.GET("", userHandler.ListUsers)
	users.GET("/:id", userHandler.GetUser)
	users.PATCH("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", superAdminOnly, userHandler.DeleteUser)

	// Profile routes
	profiles := protected.Group("/user-profiles")
	profiles.POST("", userHandler.CreateProfile)
	profiles.GET("/user/:userId", userHandler.GetProfileByUser)
	profiles.PATCH("/user/:userId", userHandler.UpdateProfileByUser)

	// Company routes
	companies := protected.Group("/companies")
	companies.GET("", companyHandler.ListCompanies)
	companies.POST("", adminOnly, companyHandler.CreateCompany)
	companies.GET("/:id", companyHandler.GetCompany)
	companies.PATCH("/:id", adminOnly, companyHandler.UpdateCompany)
	companies.DELETE("/:id", superAdminOnly, companyHandler.DeleteCompany)

	// Grievance routes
	grievances := protected.Group("/grievances")
	grievances.GET("", grievanceHandler.ListGrievances)
	grievances.POST("", grievanceHandler.CreateGrievance)
	grievances.GET("/:id", grievanceHandler.GetGrievance)
	grievances.PATCH("/:id", grievanceHandler.UpdateGrievance)
	grievances.DELETE("/:id", superAdminOnly, grievanceHandler.DeleteGrievance)
	grievances.GET("/:id/messages", grievanceHandler.ListMessages)
	grievances.POST("/:id/messages", grievanceHandler.CreateMessage)

	// Analytics routes
	protected.GET("/analytics/dashboard", analyticsHandler.Dashboard)
	protected.GET("/audit-logs", adminOnly, analyticsHandler.ListAuditLogs)

	log.Infof("Starting Protikar backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
