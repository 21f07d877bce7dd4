package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saeid-a/HealthMatchBack/internal/config"
	"github.com/saeid-a/HealthMatchBack/internal/database"
	"github.com/saeid-a/HealthMatchBack/internal/models"
	"github.com/saeid-a/HealthMatchBack/internal/repository"
	"github.com/saeid-a/HealthMatchBack/internal/routes"
	"github.com/saeid-a/HealthMatchBack/internal/services"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Connect to Database
	if cfg.DBUrl == "" {
		log.Fatal("DB_URL is required")
	}
	db, err := database.Connect(context.Background(), cfg.DBUrl)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// 3. Seed system accounts
	if err := seedSystemAccounts(context.Background(), cfg, db); err != nil {
		log.Fatalf("Failed to seed system accounts: %v", err)
	}

	// 4. Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(recover.New())

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	if err := routes.RegisterRoutes(app, cfg, db); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// 5. Start Server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func seedSystemAccounts(ctx context.Context, cfg *config.Config, db *pgxpool.Pool) error {
	seeder := services.NewSeedService(db, repository.NewUserRepository(db))
	return seeder.EnsureAccounts(ctx, []services.SeedAccount{
		{
			Email:    cfg.DefaultAdminEmail,
			Password: cfg.DefaultAdminPassword,
			Role:     models.RoleAdmin,
		},
		{
			Email:    cfg.AICoachEmail,
			Password: cfg.AICoachPassword,
			Role:     models.RoleCoach,
			FullName: cfg.AICoachName,
		},
	})
}
