package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/HealthMatchBack/internal/models"
	"github.com/saeid-a/HealthMatchBack/internal/services"
)

type PlanHandler struct {
	service  planApplicationService
	resolver *services.ActorResolver
}

type planApplicationService interface {
	CreateWeek(ctx context.Context, actor models.ActorContext, input services.CreateWeekInput) (*models.PlanWeek, error)
	GetWeekView(ctx context.Context, actor models.ActorContext, matchID int64, weekStart time.Time) (*models.WeekView, error)
	UpdateDayNote(ctx context.Context, actor models.ActorContext, dayID int64, note *string) (*models.PlanDay, error)
	CreateItem(ctx context.Context, actor models.ActorContext, dayID int64, input services.CreateItemInput) (*models.PlanItem, error)
	UpdateItem(ctx context.Context, actor models.ActorContext, itemID int64, input services.UpdateItemInput) (*models.PlanItem, error)
	ChangeItemStatus(ctx context.Context, actor models.ActorContext, itemID int64, mark string, lockAfterComplete bool) (*models.PlanItem, error)
	SetItemLock(ctx context.Context, actor models.ActorContext, itemID int64, locked bool) (*models.PlanItem, error)
	DeleteItem(ctx context.Context, actor models.ActorContext, itemID int64) error
}

func NewPlanHandler(service *services.PlanService, resolver *services.ActorResolver) *PlanHandler {
	return &PlanHandler{service: service, resolver: resolver}
}

type createWeekRequest struct {
	MatchID   int64   `json:"match_id"`
	WeekStart string  `json:"week_start"`
	Title     string  `json:"title"`
	Note      *string `json:"note"`
}

type updateDayRequest struct {
	Note *string `json:"note"`
}

type createItemRequest struct {
	ItemType    string  `json:"item_type"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	TargetKcal  *int    `json:"target_kcal"`
	TargetMin   *int    `json:"target_min"`
}

type updateItemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	TargetKcal  *int    `json:"target_kcal"`
	TargetMin   *int    `json:"target_min"`
}

type changeItemStatusRequest struct {
	StatusMark string `json:"status_mark"`
	Lock       bool   `json:"lock"`
}

type setItemLockRequest struct {
	Locked bool `json:"locked"`
}

func (h *PlanHandler) CreateWeek(c *fiber.Ctx) error {
	actor, err := resolveActor(c, h.resolver)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createWeekRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.MatchID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "match_id must be greater than 0"})
	}
	weekStart, err := parseWeekStart(req.WeekStart)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "week_start must be a date in YYYY-MM-DD format"})
	}

	week, err := h.service.CreateWeek(c.Context(), actor, services.CreateWeekInput{
		MatchID:   req.MatchID,
		WeekStart: weekStart,
		Title:     req.Title,
		Note:      req.Note,
	})
	if err != nil {
		return mapPlanError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"week": week})
}

func (h *PlanHandler) GetWeek(c *fiber.Ctx) error {
	actor, err := resolveActor(c, h.resolver)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	matchID, err := strconv.ParseInt(c.Query("match_id"), 10, 64)
	if err != nil || matchID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "match_id must be greater than 0"})
	}
	weekStart, err := parseWeekStart(c.Query("week_start"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "week_start must be a date in YYYY-MM-DD format"})
	}

	view, err := h.service.GetWeekView(c.Context(), actor, matchID, weekStart)
	if err != nil {
		return mapPlanError(c, err)
	}

	return c.JSON(fiber.Map{"week": view})
}

func (h *PlanHandler) UpdateDay(c *fiber.Ctx) error {
	actor, err := resolveActor(c, h.resolver)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	dayID, err := parsePlanID(c, "dayId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid day id"})
	}

	var req updateDayRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	day, err := h.service.UpdateDayNote(c.Context(), actor, dayID, req.Note)
	if err != nil {
		return mapPlanError(c, err)
	}

	return c.JSON(fiber.Map{"day": day})
}

func (h *PlanHandler) CreateItem(c *fiber.Ctx) error {
	actor, err := resolveActor(c, h.resolver)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	dayID, err := parsePlanID(c, "dayId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid day id"})
	}

	var req createItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	item, err := h.service.CreateItem(c.Context(), actor, dayID, services.CreateItemInput{
		ItemType:    req.ItemType,
		Title:       req.Title,
		Description: req.Description,
		TargetKcal:  req.TargetKcal,
		TargetMin:   req.TargetMin,
	})
	if err != nil {
		return mapPlanError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"item": item})
}

func (h *PlanHandler) UpdateItem(c *fiber.Ctx) error {
	actor, err := resolveActor(c, h.resolver)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	itemID, err := parsePlanID(c, "itemId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item id"})
	}

	var req updateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	item, err := h.service.UpdateItem(c.Context(), actor, itemID, services.UpdateItemInput{
		Title:       req.Title,
		Description: req.Description,
		TargetKcal:  req.TargetKcal,
		TargetMin:   req.TargetMin,
	})
	if err != nil {
		return mapPlanError(c, err)
	}

	return c.JSON(fiber.Map{"item": item})
}

func (h *PlanHandler) ChangeItemStatus(c *fiber.Ctx) error {
	actor, err := resolveActor(c, h.resolver)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	itemID, err := parsePlanID(c, "itemId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item id"})
	}

	var req changeItemStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	item, err := h.service.ChangeItemStatus(c.Context(), actor, itemID, req.StatusMark, req.Lock)
	if err != nil {
		return mapPlanError(c, err)
	}

	return c.JSON(fiber.Map{"item": item})
}

func (h *PlanHandler) SetItemLock(c *fiber.Ctx) error {
	actor, err := resolveActor(c, h.resolver)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	itemID, err := parsePlanID(c, "itemId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item id"})
	}

	var req setItemLockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	item, err := h.service.SetItemLock(c.Context(), actor, itemID, req.Locked)
	if err != nil {
		return mapPlanError(c, err)
	}

	return c.JSON(fiber.Map{"item": item})
}

func (h *PlanHandler) DeleteItem(c *fiber.Ctx) error {
	actor, err := resolveActor(c, h.resolver)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	itemID, err := parsePlanID(c, "itemId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item id"})
	}

	if err := h.service.DeleteItem(c.Context(), actor, itemID); err != nil {
		return mapPlanError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parsePlanID(c *fiber.Ctx, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}

func parseWeekStart(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(raw))
}

func mapPlanError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrItemLocked):
		return c.Status(fiber.StatusLocked).JSON(fiber.Map{"error": "Plan item is locked"})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrMatchNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Match not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process plan request"})
	}
}
