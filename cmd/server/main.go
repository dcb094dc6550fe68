package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"arogya-records/internal/adapters/http/middleware"
	"arogya-records/internal/adapters/http/routes"
	"arogya-records/internal/adapters/persistence/models"
	"arogya-records/internal/config"
	"arogya-records/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "arogya-records/docs" // Swagger docs
)

// @title Arogya Records API
// @version 1.0
// @description Healthcare records backend: registration, sessions and patient profiles

// @contact.name API Support

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration (fails without a JWT secret)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase(db)

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Optional Redis for the revocation list
	rdb, err := config.ConnectRedis(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	container, err := routes.NewContainer(db, rdb, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize services: %v", err)
	}

	// Seed roles
	if err := config.NewSeeder(container.Store).Run(context.Background()); err != nil {
		log.Fatalf("❌ Failed to seed roles: %v", err)
	}

	// Start Cron Service for revocation list cleanup
	cronService, err := services.NewCronService(container.Revocations, cfg.Revocation.PurgeCron)
	if err != nil {
		log.Fatalf("❌ Failed to schedule revocation purge: %v", err)
	}
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Arogya Records API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, container, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
