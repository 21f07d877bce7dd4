package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/saeid-a/HealthMatchBack/internal/models"
	"github.com/saeid-a/HealthMatchBack/internal/repository"
)

const (
	maxPlanTitleLen       = 100
	maxPlanNoteLen        = 500
	maxPlanDescriptionLen = 1000
	maxTargetKcal         = 10000
	maxTargetMin          = 1440
)

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type planWeekStore interface {
	Create(ctx context.Context, input repository.CreatePlanWeekInput) (*models.PlanWeek, error)
	GetByMatchIDAndWeekStart(ctx context.Context, matchID int64, weekStart time.Time) (*models.PlanWeek, error)
}

type planDayStore interface {
	EnsureWeekDays(ctx context.Context, weekID int64) error
	GetByID(ctx context.Context, dayID int64) (*models.PlanDay, error)
	ListByWeekID(ctx context.Context, weekID int64) ([]models.PlanDay, error)
	UpdateNote(ctx context.Context, dayID int64, note *string) (*models.PlanDay, error)
	FindMatchIDByDayID(ctx context.Context, dayID int64) (int64, error)
}

type planItemStore interface {
	Create(ctx context.Context, input repository.CreatePlanItemInput) (*models.PlanItem, error)
	GetByID(ctx context.Context, itemID int64) (*models.PlanItem, error)
	ListByDayID(ctx context.Context, dayID int64) ([]models.PlanItem, error)
	UpdateContent(ctx context.Context, itemID int64, input repository.UpdatePlanItemContentInput) (*models.PlanItem, error)
	UpdateStatusMark(ctx context.Context, itemID int64, statusMark string, lockAfter bool) (*models.PlanItem, error)
	SetLocked(ctx context.Context, itemID int64, locked bool) (*models.PlanItem, error)
	Delete(ctx context.Context, itemID int64) error
	FindMatchIDByItemID(ctx context.Context, itemID int64) (int64, error)
}

// PlanService owns the week/day/item hierarchy of a match. Every mutation
// resolves the owning match first and passes exactly one ownership check
// before touching data.
type PlanService struct {
	db       txBeginner
	weekRepo planWeekStore
	dayRepo  planDayStore
	itemRepo planItemStore
	guard    *AccessGuard
}

func NewPlanService(
	db txBeginner,
	weekRepo *repository.PlanWeekRepository,
	dayRepo *repository.PlanDayRepository,
	itemRepo *repository.PlanItemRepository,
	guard *AccessGuard,
) *PlanService {
	return &PlanService{
		db:       db,
		weekRepo: weekRepo,
		dayRepo:  dayRepo,
		itemRepo: itemRepo,
		guard:    guard,
	}
}

type CreateWeekInput struct {
	MatchID   int64
	WeekStart time.Time
	Title     string
	Note      *string
}

// CreateWeek creates one week with its seven days, atomically. If the week
// already exists for (match, weekStart) it returns the existing row and
// guarantees its days exist, so retries and the bulk-generation path can call
// it blindly. A concurrent duplicate create loses on the uniqueness
// constraint and is converted into "return the winner's week".
func (s *PlanService) CreateWeek(
	ctx context.Context,
	actor models.ActorContext,
	input CreateWeekInput,
) (*models.PlanWeek, error) {
	if err := s.guard.RequireRole(actor, models.RoleCoach); err != nil {
		return nil, err
	}
	if err := s.guard.RequireCoachOwnsMatch(ctx, actor, input.MatchID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" || len(title) > maxPlanTitleLen {
		return nil, ErrInvalidInput
	}
	note, err := normalizeNote(input.Note)
	if err != nil {
		return nil, err
	}
	weekStart, err := normalizeWeekStart(input.WeekStart)
	if err != nil {
		return nil, err
	}

	if existing, err := s.weekRepo.GetByMatchIDAndWeekStart(ctx, input.MatchID, weekStart); err == nil {
		if err := s.dayRepo.EnsureWeekDays(ctx, existing.ID); err != nil {
			return nil, err
		}
		return existing, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txWeekRepo := repository.NewPlanWeekRepository(tx)
	txDayRepo := repository.NewPlanDayRepository(tx)

	week, err := txWeekRepo.Create(ctx, repository.CreatePlanWeekInput{
		MatchID:   input.MatchID,
		WeekStart: weekStart,
		Title:     title,
		Note:      note,
		CreatedBy: actor.AccountID,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return s.adoptExistingWeek(ctx, input.MatchID, weekStart)
		}
		return nil, err
	}
	if err := txDayRepo.EnsureWeekDays(ctx, week.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return week, nil
}

// adoptExistingWeek handles the loser of a concurrent duplicate create: fetch
// the winner's week and make sure its days are in place.
func (s *PlanService) adoptExistingWeek(ctx context.Context, matchID int64, weekStart time.Time) (*models.PlanWeek, error) {
	week, err := s.weekRepo.GetByMatchIDAndWeekStart(ctx, matchID, weekStart)
	if err != nil {
		return nil, err
	}
	if err := s.dayRepo.EnsureWeekDays(ctx, week.ID); err != nil {
		return nil, err
	}
	return week, nil
}

// GetWeekView assembles the full week tree, days ordered 0..6 and items in
// creation order. Either participant or an admin may read it.
func (s *PlanService) GetWeekView(
	ctx context.Context,
	actor models.ActorContext,
	matchID int64,
	weekStart time.Time,
) (*models.WeekView, error) {
	if err := s.guard.RequireMatchAccess(ctx, actor, matchID); err != nil {
		return nil, err
	}

	weekStart, err := normalizeWeekStart(weekStart)
	if err != nil {
		return nil, err
	}

	week, err := s.weekRepo.GetByMatchIDAndWeekStart(ctx, matchID, weekStart)
	if err != nil {
		return nil, err
	}
	days, err := s.dayRepo.ListByWeekID(ctx, week.ID)
	if err != nil {
		return nil, err
	}

	view := &models.WeekView{PlanWeek: *week, Days: make([]models.DayView, 0, len(days))}
	for _, day := range days {
		items, err := s.itemRepo.ListByDayID(ctx, day.ID)
		if err != nil {
			return nil, err
		}
		view.Days = append(view.Days, models.DayView{PlanDay: day, Items: items})
	}
	return view, nil
}

func (s *PlanService) UpdateDayNote(
	ctx context.Context,
	actor models.ActorContext,
	dayID int64,
	note *string,
) (*models.PlanDay, error) {
	if err := s.guard.RequireRole(actor, models.RoleCoach); err != nil {
		return nil, err
	}
	matchID, err := s.dayRepo.FindMatchIDByDayID(ctx, dayID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireCoachOwnsMatch(ctx, actor, matchID); err != nil {
		return nil, err
	}

	normalized, err := normalizeNote(note)
	if err != nil {
		return nil, err
	}
	return s.dayRepo.UpdateNote(ctx, dayID, normalized)
}

type CreateItemInput struct {
	ItemType    string
	Title       string
	Description *string
	TargetKcal  *int
	TargetMin   *int
}

func (s *PlanService) CreateItem(
	ctx context.Context,
	actor models.ActorContext,
	dayID int64,
	input CreateItemInput,
) (*models.PlanItem, error) {
	if err := s.guard.RequireRole(actor, models.RoleCoach); err != nil {
		return nil, err
	}
	matchID, err := s.dayRepo.FindMatchIDByDayID(ctx, dayID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireCoachOwnsMatch(ctx, actor, matchID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" || len(title) > maxPlanTitleLen {
		return nil, ErrInvalidInput
	}
	description, err := normalizeDescription(input.Description)
	if err != nil {
		return nil, err
	}
	target, err := itemTargetFor(input.ItemType, input.TargetKcal, input.TargetMin)
	if err != nil {
		return nil, err
	}

	return s.itemRepo.Create(ctx, repository.CreatePlanItemInput{
		DayID:       dayID,
		Target:      target,
		Title:       title,
		Description: description,
	})
}

type UpdateItemInput struct {
	Title       *string
	Description *string
	TargetKcal  *int
	TargetMin   *int
}

// UpdateItem applies a partial edit, then rebuilds the item's target from its
// type so a stray numeric field can never survive an update.
func (s *PlanService) UpdateItem(
	ctx context.Context,
	actor models.ActorContext,
	itemID int64,
	input UpdateItemInput,
) (*models.PlanItem, error) {
	if err := s.guard.RequireRole(actor, models.RoleCoach); err != nil {
		return nil, err
	}
	matchID, err := s.itemRepo.FindMatchIDByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireCoachOwnsMatch(ctx, actor, matchID); err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Locked {
		return nil, ErrItemLocked
	}

	title := item.Title
	if input.Title != nil {
		title = strings.TrimSpace(*input.Title)
		if title == "" || len(title) > maxPlanTitleLen {
			return nil, ErrInvalidInput
		}
	}
	description := item.Description
	if input.Description != nil {
		description, err = normalizeDescription(input.Description)
		if err != nil {
			return nil, err
		}
	}
	kcal := item.TargetKcal
	if input.TargetKcal != nil {
		kcal = input.TargetKcal
	}
	min := item.TargetMin
	if input.TargetMin != nil {
		min = input.TargetMin
	}
	target, err := itemTargetFor(item.ItemType, kcal, min)
	if err != nil {
		return nil, err
	}

	updated, err := s.itemRepo.UpdateContent(ctx, itemID, repository.UpdatePlanItemContentInput{
		Target:      target,
		Title:       title,
		Description: description,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Locked between our read and the write.
			return nil, ErrItemLocked
		}
		return nil, err
	}
	return updated, nil
}

// ChangeItemStatus is the user's side of the split: only the match's user may
// mark completion, and completed_at is stamped whatever mark is chosen.
func (s *PlanService) ChangeItemStatus(
	ctx context.Context,
	actor models.ActorContext,
	itemID int64,
	mark string,
	lockAfterComplete bool,
) (*models.PlanItem, error) {
	if err := s.guard.RequireRole(actor, models.RoleUser); err != nil {
		return nil, err
	}
	matchID, err := s.itemRepo.FindMatchIDByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireUserOwnsMatch(ctx, actor, matchID); err != nil {
		return nil, err
	}

	normalized, err := normalizeStatusMark(mark)
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Locked {
		return nil, ErrItemLocked
	}

	updated, err := s.itemRepo.UpdateStatusMark(ctx, itemID, normalized, lockAfterComplete)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemLocked
		}
		return nil, err
	}
	return updated, nil
}

// SetItemLock locks or unlocks regardless of the current lock state; it is
// the one item mutation a lock does not stop.
func (s *PlanService) SetItemLock(
	ctx context.Context,
	actor models.ActorContext,
	itemID int64,
	locked bool,
) (*models.PlanItem, error) {
	if err := s.guard.RequireRole(actor, models.RoleCoach); err != nil {
		return nil, err
	}
	matchID, err := s.itemRepo.FindMatchIDByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireCoachOwnsMatch(ctx, actor, matchID); err != nil {
		return nil, err
	}
	return s.itemRepo.SetLocked(ctx, itemID, locked)
}

func (s *PlanService) DeleteItem(ctx context.Context, actor models.ActorContext, itemID int64) error {
	if err := s.guard.RequireRole(actor, models.RoleCoach); err != nil {
		return err
	}
	matchID, err := s.itemRepo.FindMatchIDByItemID(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.guard.RequireCoachOwnsMatch(ctx, actor, matchID); err != nil {
		return err
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.Locked {
		return ErrItemLocked
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrItemLocked
		}
		return err
	}
	return nil
}

// itemTargetFor builds the typed target, dropping whichever numeric field the
// type does not carry.
func itemTargetFor(itemType string, kcal, min *int) (models.ItemTarget, error) {
	switch strings.ToLower(strings.TrimSpace(itemType)) {
	case models.ItemTypeWorkout:
		if min != nil && (*min < 0 || *min > maxTargetMin) {
			return models.ItemTarget{}, ErrInvalidInput
		}
		return models.WorkoutTarget(min), nil
	case models.ItemTypeDiet:
		if kcal != nil && (*kcal < 0 || *kcal > maxTargetKcal) {
			return models.ItemTarget{}, ErrInvalidInput
		}
		return models.DietTarget(kcal), nil
	case models.ItemTypeNote:
		return models.NoteTarget(), nil
	default:
		return models.ItemTarget{}, ErrInvalidInput
	}
}

func normalizeStatusMark(mark string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mark)) {
	case "done", "o":
		return models.StatusMarkDone, nil
	case "partial", "d":
		return models.StatusMarkPartial, nil
	case "not_done", "x":
		return models.StatusMarkNotDone, nil
	default:
		return "", ErrInvalidInput
	}
}

func normalizeNote(note *string) (*string, error) {
	if note == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > maxPlanNoteLen {
		return nil, ErrInvalidInput
	}
	return &trimmed, nil
}

func normalizeDescription(description *string) (*string, error) {
	if description == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > maxPlanDescriptionLen {
		return nil, ErrInvalidInput
	}
	return &trimmed, nil
}

// normalizeWeekStart truncates to a date and requires the deployment's week
// convention: weeks start on Monday.
func normalizeWeekStart(weekStart time.Time) (time.Time, error) {
	if weekStart.IsZero() {
		return time.Time{}, ErrInvalidInput
	}
	day := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, time.UTC)
	if day.Weekday() != time.Monday {
		return time.Time{}, ErrInvalidInput
	}
	return day, nil
}
