package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/HealthMatchBack/internal/config"
)

type docEndpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
	Auth        string `json:"auth"`
}

var docEndpoints = []docEndpoint{
	{"POST", "/api/auth/register", "Create a user or coach account", "none"},
	{"POST", "/api/auth/login", "Exchange credentials for a token", "none"},
	{"GET", "/api/auth/me", "Current account with its profile", "bearer"},
	{"GET", "/api/v1/users/profile", "Own user profile", "bearer (user)"},
	{"PUT", "/api/v1/users/profile", "Update own user profile", "bearer (user)"},
	{"GET", "/api/v1/coaches/profile", "Own coach profile", "bearer (coach)"},
	{"PUT", "/api/v1/coaches/profile", "Update own coach profile", "bearer (coach)"},
	{"POST", "/api/v1/matches/request", "Request a coaching match", "bearer"},
	{"GET", "/api/v1/matches", "List own matches, optional ?status=", "bearer"},
	{"GET", "/api/v1/matches/:id", "Match detail", "bearer (participant)"},
	{"POST", "/api/v1/matches/:id/accept", "Accept a requested match", "bearer (participant)"},
	{"POST", "/api/v1/matches/:id/start", "Start an accepted match", "bearer (participant)"},
	{"POST", "/api/v1/matches/:id/end", "End an in-progress match, body {reason}", "bearer (participant)"},
	{"POST", "/api/v1/matches/:id/reject", "Reject a requested match, body {reason}", "bearer (participant)"},
	{"POST", "/api/v1/matches/:id/force-end", "Force-end any active match, body {reason}", "bearer (admin)"},
	{"POST", "/api/v1/matches/:id/block", "Flag the match as blocked, body {reason}", "bearer (participant)"},
	{"POST", "/api/v1/matches/:id/report", "Flag the match as reported, body {reason}", "bearer (participant)"},
	{"POST", "/api/v1/plans/weeks", "Create a plan week with its 7 days", "bearer (coach)"},
	{"GET", "/api/v1/plans/weeks", "Week view, ?match_id=&week_start=", "bearer (participant)"},
	{"PATCH", "/api/v1/plans/days/:dayId", "Update a day's note", "bearer (coach)"},
	{"POST", "/api/v1/plans/days/:dayId/items", "Add a plan item to a day", "bearer (coach)"},
	{"PATCH", "/api/v1/plans/items/:itemId", "Edit an unlocked plan item", "bearer (coach)"},
	{"POST", "/api/v1/plans/items/:itemId/status", "Mark completion, body {status_mark, lock}", "bearer (user)"},
	{"POST", "/api/v1/plans/items/:itemId/lock", "Lock or unlock an item, body {locked}", "bearer (coach)"},
	{"DELETE", "/api/v1/plans/items/:itemId", "Delete an unlocked plan item", "bearer (coach)"},
	{"POST", "/api/v1/ai/recommendations", "Generate a week through the AI coach", "bearer (user)"},
}

// registerDocsRoutes exposes the endpoint catalog in development only.
func registerDocsRoutes(app *fiber.App, cfg *config.Config) error {
	if !cfg.DocsEnabled() {
		return nil
	}

	app.Get("/docs", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":   "HealthMatchBack",
			"endpoints": docEndpoints,
		})
	})

	return nil
}
