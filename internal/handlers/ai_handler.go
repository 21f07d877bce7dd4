package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/HealthMatchBack/internal/models"
	"github.com/saeid-a/HealthMatchBack/internal/services"
)

type AiHandler struct {
	service  aiRecommendationService
	resolver *services.ActorResolver
}

type aiRecommendationService interface {
	CreateRecommendation(ctx context.Context, actor models.ActorContext, input services.AiRecommendationInput) (int64, error)
}

func NewAiHandler(service *services.AiPlanService, resolver *services.ActorResolver) *AiHandler {
	return &AiHandler{service: service, resolver: resolver}
}

type aiRecommendationRequest struct {
	WeekStart       string `json:"week_start"`
	Goal            string `json:"goal"`
	SpecialRequests string `json:"special_requests"`
}

func (h *AiHandler) CreateRecommendation(c *fiber.Ctx) error {
	actor, err := resolveActor(c, h.resolver)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req aiRecommendationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	weekStart, err := parseWeekStart(req.WeekStart)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "week_start must be a date in YYYY-MM-DD format"})
	}

	matchID, err := h.service.CreateRecommendation(c.Context(), actor, services.AiRecommendationInput{
		WeekStart:       weekStart,
		Goal:            strings.TrimSpace(req.Goal),
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
	})
	if err != nil {
		if errors.Is(err, services.ErrPlanGeneratorUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).
				JSON(fiber.Map{"error": "Plan recommendations are not available"})
		}
		return mapPlanError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"match_id": matchID})
}
