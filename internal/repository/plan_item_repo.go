package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/HealthMatchBack/internal/models"
)

const planItemColumns = `id, day_id, item_type, title, description, target_kcal, target_min,
	status_mark, completed_at, locked, created_at, updated_at`

type PlanItemRepository struct {
	db DBTX
}

func NewPlanItemRepository(db DBTX) *PlanItemRepository {
	return &PlanItemRepository{db: db}
}

func scanPlanItem(row pgx.Row) (*models.PlanItem, error) {
	var item models.PlanItem
	err := row.Scan(
		&item.ID,
		&item.DayID,
		&item.ItemType,
		&item.Title,
		&item.Description,
		&item.TargetKcal,
		&item.TargetMin,
		&item.StatusMark,
		&item.CompletedAt,
		&item.Locked,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

type CreatePlanItemInput struct {
	DayID       int64
	Target      models.ItemTarget
	Title       string
	Description *string
}

func (r *PlanItemRepository) Create(ctx context.Context, input CreatePlanItemInput) (*models.PlanItem, error) {
	query := `
		INSERT INTO plan_items (day_id, item_type, title, description, target_kcal, target_min, status_mark)
		VALUES ($1, $2, $3, $4, $5, $6, 'not_done')
		RETURNING ` + planItemColumns
	return scanPlanItem(r.db.QueryRow(
		ctx,
		query,
		input.DayID,
		input.Target.ItemType(),
		input.Title,
		input.Description,
		input.Target.Kcal(),
		input.Target.Min(),
	))
}

func (r *PlanItemRepository) GetByID(ctx context.Context, itemID int64) (*models.PlanItem, error) {
	query := `SELECT ` + planItemColumns + ` FROM plan_items WHERE id = $1`
	return scanPlanItem(r.db.QueryRow(ctx, query, itemID))
}

func (r *PlanItemRepository) ListByDayID(ctx context.Context, dayID int64) ([]models.PlanItem, error) {
	query := `
		SELECT ` + planItemColumns + `
		FROM plan_items
		WHERE day_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, dayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.PlanItem, 0)
	for rows.Next() {
		item, err := scanPlanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type UpdatePlanItemContentInput struct {
	Target      models.ItemTarget
	Title       string
	Description *string
}

// UpdateContent rewrites the editable fields of an unlocked item. The full
// target is written on every update so the type's numeric invariant is
// re-applied even after a partial edit.
func (r *PlanItemRepository) UpdateContent(
	ctx context.Context,
	itemID int64,
	input UpdatePlanItemContentInput,
) (*models.PlanItem, error) {
	query := `
		UPDATE plan_items
		SET title = $2, description = $3, target_kcal = $4, target_min = $5, updated_at = NOW()
		WHERE id = $1 AND NOT locked
		RETURNING ` + planItemColumns
	return scanPlanItem(r.db.QueryRow(
		ctx,
		query,
		itemID,
		input.Title,
		input.Description,
		input.Target.Kcal(),
		input.Target.Min(),
	))
}

func (r *PlanItemRepository) UpdateStatusMark(
	ctx context.Context,
	itemID int64,
	statusMark string,
	lockAfter bool,
) (*models.PlanItem, error) {
	query := `
		UPDATE plan_items
		SET status_mark = $2, completed_at = NOW(), locked = locked OR $3, updated_at = NOW()
		WHERE id = $1 AND NOT locked
		RETURNING ` + planItemColumns
	return scanPlanItem(r.db.QueryRow(ctx, query, itemID, statusMark, lockAfter))
}

func (r *PlanItemRepository) SetLocked(ctx context.Context, itemID int64, locked bool) (*models.PlanItem, error) {
	query := `
		UPDATE plan_items
		SET locked = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + planItemColumns
	return scanPlanItem(r.db.QueryRow(ctx, query, itemID, locked))
}

func (r *PlanItemRepository) Delete(ctx context.Context, itemID int64) error {
	query := `DELETE FROM plan_items WHERE id = $1 AND NOT locked`
	tag, err := r.db.Exec(ctx, query, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// FindMatchIDByItemID resolves the match that owns an item (item -> day ->
// week -> match). Read-only; the access guard runs it before any item
// mutation.
func (r *PlanItemRepository) FindMatchIDByItemID(ctx context.Context, itemID int64) (int64, error) {
	query := `
		SELECT w.match_id
		FROM plan_items i
		JOIN plan_days d ON d.id = i.day_id
		JOIN plan_weeks w ON w.id = d.week_id
		WHERE i.id = $1
	`
	var matchID int64
	if err := r.db.QueryRow(ctx, query, itemID).Scan(&matchID); err != nil {
		return 0, err
	}
	return matchID, nil
}
