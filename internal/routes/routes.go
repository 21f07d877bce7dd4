package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saeid-a/HealthMatchBack/internal/config"
	"github.com/saeid-a/HealthMatchBack/internal/handlers"
	"github.com/saeid-a/HealthMatchBack/internal/middleware"
	"github.com/saeid-a/HealthMatchBack/internal/models"
	"github.com/saeid-a/HealthMatchBack/internal/repository"
	"github.com/saeid-a/HealthMatchBack/internal/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) error {
	userRepo := repository.NewUserRepository(db)
	userProfileRepo := repository.NewUserProfileRepository(db)
	coachProfileRepo := repository.NewCoachProfileRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	weekRepo := repository.NewPlanWeekRepository(db)
	dayRepo := repository.NewPlanDayRepository(db)
	itemRepo := repository.NewPlanItemRepository(db)

	resolver := services.NewActorResolver(userProfileRepo, coachProfileRepo)
	guard := services.NewAccessGuard(matchRepo)
	matchService := services.NewMatchService(matchRepo, guard)
	planService := services.NewPlanService(db, weekRepo, dayRepo, itemRepo, guard)

	var generator services.PlanGenerator
	if cfg.AIConfigured() {
		generator = services.NewOpenAIPlanGenerator(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	aiPlanService := services.NewAiPlanService(
		generator,
		planService,
		matchRepo,
		userRepo,
		userProfileRepo,
		coachProfileRepo,
		cfg.AICoachEmail,
	)

	authHandler := handlers.NewAuthHandler(
		db,
		userRepo,
		userProfileRepo,
		coachProfileRepo,
		cfg.JWTSecret,
	)
	profileHandler := handlers.NewProfileHandler(userProfileRepo, coachProfileRepo)
	matchHandler := handlers.NewMatchHandler(matchService, resolver)
	planHandler := handlers.NewPlanHandler(planService, resolver)
	aiHandler := handlers.NewAiHandler(aiPlanService, resolver)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	users := authProtected.Group("/users")
	users.Get("/profile", profileHandler.GetMyUserProfile)
	users.Put("/profile", profileHandler.UpdateMyUserProfile)

	coaches := authProtected.Group("/coaches")
	coaches.Get("/profile", profileHandler.GetMyCoachProfile)
	coaches.Put("/profile", profileHandler.UpdateMyCoachProfile)

	matches := authProtected.Group("/matches")
	matches.Post("/request", matchHandler.CreateRequest)
	matches.Get("", matchHandler.ListMatches)
	matches.Get("/:id", matchHandler.GetMatch)
	matches.Post("/:id/accept", matchHandler.Accept)
	matches.Post("/:id/start", matchHandler.Start)
	matches.Post("/:id/end", matchHandler.End)
	matches.Post("/:id/reject", matchHandler.Reject)
	matches.Post("/:id/force-end", middleware.RoleRequired(models.RoleAdmin), matchHandler.ForceEnd)
	matches.Post("/:id/block", matchHandler.Block)
	matches.Post("/:id/report", matchHandler.Report)

	plans := authProtected.Group("/plans")
	plans.Post("/weeks", planHandler.CreateWeek)
	plans.Get("/weeks", planHandler.GetWeek)
	plans.Patch("/days/:dayId", planHandler.UpdateDay)
	plans.Post("/days/:dayId/items", planHandler.CreateItem)
	plans.Patch("/items/:itemId", planHandler.UpdateItem)
	plans.Post("/items/:itemId/status", planHandler.ChangeItemStatus)
	plans.Post("/items/:itemId/lock", planHandler.SetItemLock)
	plans.Delete("/items/:itemId", planHandler.DeleteItem)

	ai := authProtected.Group("/ai")
	ai.Post("/recommendations", aiHandler.CreateRecommendation)

	return registerDocsRoutes(app, cfg)
}
