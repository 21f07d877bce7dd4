package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/HealthMatchBack/internal/models"
	"github.com/saeid-a/HealthMatchBack/internal/services"
)

type stubPlanService struct {
	weekResult   *models.PlanWeek
	weekErr      error
	viewResult   *models.WeekView
	viewErr      error
	dayResult    *models.PlanDay
	dayErr       error
	itemResult   *models.PlanItem
	itemErr      error
	deleteErr    error

	lastWeekInput   services.CreateWeekInput
	lastItemInput   services.CreateItemInput
	lastUpdateInput services.UpdateItemInput
	lastDayID       int64
	lastItemID      int64
	lastMatchID     int64
	lastWeekStart   time.Time
	lastMark        string
	lastLockAfter   bool
	lastLocked      bool
}

func (s *stubPlanService) CreateWeek(_ context.Context, _ models.ActorContext, input services.CreateWeekInput) (*models.PlanWeek, error) {
	s.lastWeekInput = input
	return s.weekResult, s.weekErr
}

func (s *stubPlanService) GetWeekView(_ context.Context, _ models.ActorContext, matchID int64, weekStart time.Time) (*models.WeekView, error) {
	s.lastMatchID = matchID
	s.lastWeekStart = weekStart
	return s.viewResult, s.viewErr
}

func (s *stubPlanService) UpdateDayNote(_ context.Context, _ models.ActorContext, dayID int64, _ *string) (*models.PlanDay, error) {
	s.lastDayID = dayID
	return s.dayResult, s.dayErr
}

func (s *stubPlanService) CreateItem(_ context.Context, _ models.ActorContext, dayID int64, input services.CreateItemInput) (*models.PlanItem, error) {
	s.lastDayID = dayID
	s.lastItemInput = input
	return s.itemResult, s.itemErr
}

func (s *stubPlanService) UpdateItem(_ context.Context, _ models.ActorContext, itemID int64, input services.UpdateItemInput) (*models.PlanItem, error) {
	s.lastItemID = itemID
	s.lastUpdateInput = input
	return s.itemResult, s.itemErr
}

func (s *stubPlanService) ChangeItemStatus(_ context.Context, _ models.ActorContext, itemID int64, mark string, lockAfterComplete bool) (*models.PlanItem, error) {
	s.lastItemID = itemID
	s.lastMark = mark
	s.lastLockAfter = lockAfterComplete
	return s.itemResult, s.itemErr
}

func (s *stubPlanService) SetItemLock(_ context.Context, _ models.ActorContext, itemID int64, locked bool) (*models.PlanItem, error) {
	s.lastItemID = itemID
	s.lastLocked = locked
	return s.itemResult, s.itemErr
}

func (s *stubPlanService) DeleteItem(_ context.Context, _ models.ActorContext, itemID int64) error {
	s.lastItemID = itemID
	return s.deleteErr
}

func newPlanTestApp(service *stubPlanService) *fiber.App {
	handler := &PlanHandler{service: service, resolver: userResolver()}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", "coach")
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Post("/api/v1/plans/weeks", handler.CreateWeek)
	app.Get("/api/v1/plans/weeks", handler.GetWeek)
	app.Patch("/api/v1/plans/days/:dayId", handler.UpdateDay)
	app.Post("/api/v1/plans/days/:dayId/items", handler.CreateItem)
	app.Patch("/api/v1/plans/items/:itemId", handler.UpdateItem)
	app.Post("/api/v1/plans/items/:itemId/status", handler.ChangeItemStatus)
	app.Post("/api/v1/plans/items/:itemId/lock", handler.SetItemLock)
	app.Delete("/api/v1/plans/items/:itemId", handler.DeleteItem)
	return app
}

func TestCreateWeekParsesDateAndReturnsCreated(t *testing.T) {
	service := &stubPlanService{
		weekResult: &models.PlanWeek{ID: 7, MatchID: 5, Title: "Base week"},
	}
	app := newPlanTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans/weeks", strings.NewReader(`{
		"match_id": 5,
		"week_start": "2026-08-31",
		"title": "Base week"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastWeekInput.MatchID != 5 {
		t.Fatalf("expected match 5, got %d", service.lastWeekInput.MatchID)
	}
	expected := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	if !service.lastWeekInput.WeekStart.Equal(expected) {
		t.Fatalf("expected week start %v, got %v", expected, service.lastWeekInput.WeekStart)
	}
}

func TestCreateWeekRejectsMalformedDate(t *testing.T) {
	app := newPlanTestApp(&stubPlanService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans/weeks", strings.NewReader(`{
		"match_id": 5,
		"week_start": "31/08/2026",
		"title": "Base week"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetWeekReadsQueryParams(t *testing.T) {
	service := &stubPlanService{
		viewResult: &models.WeekView{PlanWeek: models.PlanWeek{ID: 7}},
	}
	app := newPlanTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans/weeks?match_id=5&week_start=2026-08-31", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastMatchID != 5 {
		t.Fatalf("expected match 5, got %d", service.lastMatchID)
	}
}

func TestLockedItemMapsTo423(t *testing.T) {
	service := &stubPlanService{itemErr: services.ErrItemLocked}
	app := newPlanTestApp(service)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/plans/items/4", strings.NewReader(`{"title":"New"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusLocked {
		t.Fatalf("expected 423, got %d", resp.StatusCode)
	}
}

func TestChangeItemStatusForwardsMarkAndLock(t *testing.T) {
	service := &stubPlanService{itemResult: &models.PlanItem{ID: 4, StatusMark: "done", Locked: true}}
	app := newPlanTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans/items/4/status", strings.NewReader(`{
		"status_mark": "done",
		"lock": true
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastItemID != 4 || service.lastMark != "done" || !service.lastLockAfter {
		t.Fatalf("unexpected forwarding: id=%d mark=%q lock=%t", service.lastItemID, service.lastMark, service.lastLockAfter)
	}
}

func TestDeleteItemReturnsNoContent(t *testing.T) {
	service := &stubPlanService{}
	app := newPlanTestApp(service)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/plans/items/4", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if service.lastItemID != 4 {
		t.Fatalf("expected item 4 deleted, got %d", service.lastItemID)
	}
}
