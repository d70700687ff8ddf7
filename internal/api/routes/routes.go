package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/atelier-studio/backend/internal/api/handlers"
	"github.com/atelier-studio/backend/internal/api/middleware"
	"github.com/atelier-studio/backend/internal/config"
	"github.com/atelier-studio/backend/internal/metrics"
	"github.com/atelier-studio/backend/internal/models"
	"github.com/atelier-studio/backend/internal/services"
)

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := db.AutoMigrate(
		&models.SubmissionLogEntry{},
		&models.ContactSubmission{},
		&models.EducationSubmission{},
		&models.User{},
		&models.NotificationProvider{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.GET("/api/v1/health", handlers.HealthHandler)

	api := router.Group("/api/v1")

	// Services
	auditService := services.NewAuditService(db)
	rateLimiter := services.NewRateLimitService(db)
	spamService := services.NewSpamService(db)
	notificationService := services.NewNotificationService(db)
	pipeline := services.NewSubmissionService(db, rateLimiter, spamService, notificationService)
	statsService := services.NewStatsService(db)
	authService := services.NewAuthService(db, cfg)
	recaptcha := services.NewGoogleRecaptcha(cfg.RecaptchaSecret)

	// Handlers
	contactHandler := handlers.NewContactHandler(pipeline, auditService, statsService, db)
	educationHandler := handlers.NewEducationHandler(pipeline, auditService, statsService, recaptcha, db)
	authHandler := handlers.NewAuthHandler(authService, cfg.IsProduction())
	providerHandler := handlers.NewNotificationProviderHandler(notificationService)

	// Public form intake
	api.POST("/contact", contactHandler.Submit)
	api.POST("/education", educationHandler.Submit)

	api.POST("/auth/login", authHandler.Login)

	// Admin back-office
	admin := api.Group("/")
	admin.Use(middleware.AdminAuth(middleware.AuthConfig{
		AuthService: authService,
		AdminAPIKey: cfg.AdminAPIKey,
	}))
	{
		admin.POST("/auth/logout", authHandler.Logout)
		admin.GET("/auth/me", authHandler.Me)
		admin.POST("/auth/change-password", authHandler.ChangePassword)

		admin.GET("/admin/contact/submissions", contactHandler.List)
		admin.GET("/admin/contact/submissions/:id", contactHandler.Get)
		admin.PATCH("/admin/contact/submissions/:id", contactHandler.Update)
		admin.DELETE("/admin/contact/submissions/:id", contactHandler.Delete)
		admin.GET("/admin/contact/stats", contactHandler.Stats)

		admin.GET("/admin/education/submissions", educationHandler.List)
		admin.GET("/admin/education/submissions/:id", educationHandler.Get)
		admin.PATCH("/admin/education/submissions/:id", educationHandler.Update)
		admin.DELETE("/admin/education/submissions/:id", educationHandler.Delete)
		admin.GET("/admin/education/stats", educationHandler.Stats)

		admin.GET("/admin/notification-providers", providerHandler.List)
		admin.POST("/admin/notification-providers", providerHandler.Create)
		admin.DELETE("/admin/notification-providers/:id", providerHandler.Delete)
	}

	return nil
}
