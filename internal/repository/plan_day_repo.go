package repository

import (
	"context"

	"github.com/saeid-a/HealthMatchBack/internal/models"
)

type PlanDayRepository struct {
	db DBTX
}

func NewPlanDayRepository(db DBTX) *PlanDayRepository {
	return &PlanDayRepository{db: db}
}

// EnsureWeekDays inserts the seven day rows of a week. The unique constraint
// on (week_id, day_index) plus DO NOTHING makes it safe to call again for a
// partially created week or under concurrent creation.
func (r *PlanDayRepository) EnsureWeekDays(ctx context.Context, weekID int64) error {
	query := `
		INSERT INTO plan_days (week_id, day_index)
		SELECT $1, idx FROM generate_series(0, 6) AS idx
		ON CONFLICT (week_id, day_index) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, weekID)
	return err
}

func (r *PlanDayRepository) GetByID(ctx context.Context, dayID int64) (*models.PlanDay, error) {
	query := `
		SELECT id, week_id, day_index, note
		FROM plan_days
		WHERE id = $1
	`
	var day models.PlanDay
	err := r.db.QueryRow(ctx, query, dayID).Scan(&day.ID, &day.WeekID, &day.DayIndex, &day.Note)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *PlanDayRepository) ListByWeekID(ctx context.Context, weekID int64) ([]models.PlanDay, error) {
	query := `
		SELECT id, week_id, day_index, note
		FROM plan_days
		WHERE week_id = $1
		ORDER BY day_index ASC
	`
	rows, err := r.db.Query(ctx, query, weekID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]models.PlanDay, 0, 7)
	for rows.Next() {
		var day models.PlanDay
		if err := rows.Scan(&day.ID, &day.WeekID, &day.DayIndex, &day.Note); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return days, nil
}

func (r *PlanDayRepository) UpdateNote(ctx context.Context, dayID int64, note *string) (*models.PlanDay, error) {
	query := `
		UPDATE plan_days
		SET note = $2
		WHERE id = $1
		RETURNING id, week_id, day_index, note
	`
	var day models.PlanDay
	err := r.db.QueryRow(ctx, query, dayID, note).Scan(&day.ID, &day.WeekID, &day.DayIndex, &day.Note)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// FindMatchIDByDayID resolves the match that owns a day (day -> week ->
// match). Read-only; the access guard runs it before any day mutation.
func (r *PlanDayRepository) FindMatchIDByDayID(ctx context.Context, dayID int64) (int64, error) {
	query := `
		SELECT w.match_id
		FROM plan_days d
		JOIN plan_weeks w ON w.id = d.week_id
		WHERE d.id = $1
	`
	var matchID int64
	if err := r.db.QueryRow(ctx, query, dayID).Scan(&matchID); err != nil {
		return 0, err
	}
	return matchID, nil
}
