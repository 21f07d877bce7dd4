package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/HealthMatchBack/internal/models"
	"github.com/saeid-a/HealthMatchBack/internal/services"
)

func parseAccountID(c *fiber.Ctx) (int64, error) {
	accountIDValue := c.Locals("user_id")
	accountIDStr, ok := accountIDValue.(string)
	if !ok {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(accountIDStr, 10, 64)
}

// resolveActor turns the token claims stashed by the auth middleware into the
// actor snapshot every service call takes.
func resolveActor(c *fiber.Ctx, resolver *services.ActorResolver) (models.ActorContext, error) {
	accountID, err := parseAccountID(c)
	if err != nil {
		return models.ActorContext{}, err
	}
	role, ok := c.Locals("role").(string)
	if !ok {
		return models.ActorContext{}, strconv.ErrSyntax
	}
	return resolver.Resolve(c.Context(), accountID, []string{role})
}
