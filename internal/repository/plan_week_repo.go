package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/HealthMatchBack/internal/models"
)

type PlanWeekRepository struct {
	db DBTX
}

func NewPlanWeekRepository(db DBTX) *PlanWeekRepository {
	return &PlanWeekRepository{db: db}
}

func scanPlanWeek(row pgx.Row) (*models.PlanWeek, error) {
	var week models.PlanWeek
	err := row.Scan(
		&week.ID,
		&week.MatchID,
		&week.WeekStart,
		&week.Title,
		&week.Note,
		&week.CreatedBy,
		&week.CreatedAt,
		&week.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &week, nil
}

type CreatePlanWeekInput struct {
	MatchID   int64
	WeekStart time.Time
	Title     string
	Note      *string
	CreatedBy int64
}

func (r *PlanWeekRepository) Create(ctx context.Context, input CreatePlanWeekInput) (*models.PlanWeek, error) {
	query := `
		INSERT INTO plan_weeks (match_id, week_start, title, note, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, match_id, week_start, title, note, created_by, created_at, updated_at
	`
	return scanPlanWeek(r.db.QueryRow(
		ctx,
		query,
		input.MatchID,
		input.WeekStart,
		input.Title,
		input.Note,
		input.CreatedBy,
	))
}

func (r *PlanWeekRepository) GetByID(ctx context.Context, weekID int64) (*models.PlanWeek, error) {
	query := `
		SELECT id, match_id, week_start, title, note, created_by, created_at, updated_at
		FROM plan_weeks
		WHERE id = $1
	`
	return scanPlanWeek(r.db.QueryRow(ctx, query, weekID))
}

func (r *PlanWeekRepository) GetByMatchIDAndWeekStart(
	ctx context.Context,
	matchID int64,
	weekStart time.Time,
) (*models.PlanWeek, error) {
	query := `
		SELECT id, match_id, week_start, title, note, created_by, created_at, updated_at
		FROM plan_weeks
		WHERE match_id = $1 AND week_start = $2
	`
	return scanPlanWeek(r.db.QueryRow(ctx, query, matchID, weekStart))
}
