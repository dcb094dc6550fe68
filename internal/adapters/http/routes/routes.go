package routes

import (
	"time"

	"arogya-records/internal/adapters/http/handlers"
	"arogya-records/internal/adapters/http/middleware"
	"arogya-records/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, c *Container, cfg *config.Config) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg, c.Store, c.Redis)
	authHandler := handlers.NewAuthHandler(c.Auth, cfg)
	patientHandler := handlers.NewPatientHandler(c.Patients)
	userHandler := handlers.NewUserHandler(c.Users)

	// Health check & root routes
	app.Get("/", middleware.PublicCacheHeaders(5*time.Minute), healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", middleware.PublicCacheHeaders(5*time.Minute), healthHandler.APIInfo)

	session := middleware.SessionGuard(c.Auth, cfg.Cookie.Name)

	// ============================================================
	// Auth Routes (Public + Session)
	// ============================================================
	auth := apiV1.Group("/auth", middleware.NoCacheHeaders())
	auth.Post("/register", middleware.AuthRateLimiter(cfg.Server.AuthRateLimit), authHandler.Register)
	auth.Post("/login", middleware.AuthRateLimiter(cfg.Server.AuthRateLimit), authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", session, authHandler.Me)

	// ============================================================
	// Patient Routes
	// ============================================================
	patients := apiV1.Group("/patients", middleware.NoCacheHeaders(), session)
	patients.Get("/me", patientHandler.GetMe)
	patients.Patch("/me", patientHandler.UpdateMe)
	patients.Get("/:id", middleware.CareTeam(), patientHandler.GetByID)

	// ============================================================
	// Admin Routes
	// ============================================================
	users := apiV1.Group("/users", middleware.NoCacheHeaders(), session, middleware.AdminOnly())
	users.Get("/", userHandler.ListUsers)
}
