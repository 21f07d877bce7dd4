package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/HealthMatchBack/internal/models"
	"github.com/saeid-a/HealthMatchBack/internal/services"
)

type MatchHandler struct {
	service  matchApplicationService
	resolver *services.ActorResolver
}

type matchApplicationService interface {
	CreateRequest(ctx context.Context, actor models.ActorContext, input services.CreateMatchRequestInput) (*models.Match, error)
	Get(ctx context.Context, actor models.ActorContext, matchID int64) (*models.Match, error)
	Accept(ctx context.Context, actor models.ActorContext, matchID int64) (*models.Match, error)
	Start(ctx context.Context, actor models.ActorContext, matchID int64) (*models.Match, error)
	End(ctx context.Context, actor models.ActorContext, matchID int64, reason string) (*models.Match, error)
	Reject(ctx context.Context, actor models.ActorContext, matchID int64, reason string) (*models.Match, error)
	ForceEnd(ctx context.Context, actor models.ActorContext, matchID int64, reason string) (*models.Match, error)
	Block(ctx context.Context, actor models.ActorContext, matchID int64, reason string) (*models.Match, error)
	Report(ctx context.Context, actor models.ActorContext, matchID int64, reason string) (*models.Match, error)
	ListMine(ctx context.Context, actor models.ActorContext, status string) ([]models.Match, error)
}

func NewMatchHandler(service *services.MatchService, resolver *services.ActorResolver) *MatchHandler {
	return &MatchHandler{service: service, resolver: resolver}
}

type createMatchRequest struct {
	UserProfileID  int64 `json:"user_profile_id"`
	CoachProfileID int64 `json:"coach_profile_id"`
}

type matchReasonRequest struct {
	Reason string `json:"reason"`
}

func (h *MatchHandler) CreateRequest(c *fiber.Ctx) error {
	actor, err := resolveActor(c, h.resolver)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	match, err := h.service.CreateRequest(c.Context(), actor, services.CreateMatchRequestInput{
		UserProfileID:  req.UserProfileID,
		CoachProfileID: req.CoachProfileID,
	})
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"match": match})
}

func (h *MatchHandler) GetMatch(c *fiber.Ctx) error {
	actor, err := resolveActor(c, h.resolver)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	matchID, err := parseMatchID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid match id"})
	}

	match, err := h.service.Get(c.Context(), actor, matchID)
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.JSON(fiber.Map{"match": match})
}

func (h *MatchHandler) ListMatches(c *fiber.Ctx) error {
	actor, err := resolveActor(c, h.resolver)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	matches, err := h.service.ListMine(c.Context(), actor, strings.TrimSpace(c.Query("status")))
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.JSON(fiber.Map{"matches": matches})
}

func (h *MatchHandler) Accept(c *fiber.Ctx) error {
	return h.plainTransition(c, h.service.Accept)
}

func (h *MatchHandler) Start(c *fiber.Ctx) error {
	return h.plainTransition(c, h.service.Start)
}

func (h *MatchHandler) End(c *fiber.Ctx) error {
	return h.reasonTransition(c, h.service.End)
}

func (h *MatchHandler) Reject(c *fiber.Ctx) error {
	return h.reasonTransition(c, h.service.Reject)
}

func (h *MatchHandler) ForceEnd(c *fiber.Ctx) error {
	return h.reasonTransition(c, h.service.ForceEnd)
}

func (h *MatchHandler) Block(c *fiber.Ctx) error {
	return h.reasonTransition(c, h.service.Block)
}

func (h *MatchHandler) Report(c *fiber.Ctx) error {
	return h.reasonTransition(c, h.service.Report)
}

func (h *MatchHandler) plainTransition(
	c *fiber.Ctx,
	fn func(ctx context.Context, actor models.ActorContext, matchID int64) (*models.Match, error),
) error {
	actor, err := resolveActor(c, h.resolver)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	matchID, err := parseMatchID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid match id"})
	}

	match, err := fn(c.Context(), actor, matchID)
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.JSON(fiber.Map{"match": match})
}

func (h *MatchHandler) reasonTransition(
	c *fiber.Ctx,
	fn func(ctx context.Context, actor models.ActorContext, matchID int64, reason string) (*models.Match, error),
) error {
	actor, err := resolveActor(c, h.resolver)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	matchID, err := parseMatchID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid match id"})
	}

	var req matchReasonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	match, err := fn(c.Context(), actor, matchID, req.Reason)
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.JSON(fiber.Map{"match": match})
}

func parseMatchID(c *fiber.Ctx) (int64, error) {
	matchID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || matchID <= 0 {
		return 0, strconv.ErrSyntax
	}
	return matchID, nil
}

func mapMatchError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrMatchNotFound), errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Match not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process match request"})
	}
}
