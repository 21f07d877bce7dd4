package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/HealthMatchBack/internal/models"
)

const matchColumns = `id, user_profile_id, coach_profile_id, status, requested_by, requested_at,
	accepted_at, ended_at, end_reason, is_blocked, block_reason, is_reported, report_reason,
	created_at, updated_at`

type MatchRepository struct {
	db DBTX
}

func NewMatchRepository(db DBTX) *MatchRepository {
	return &MatchRepository{db: db}
}

func scanMatch(row pgx.Row) (*models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID,
		&m.UserProfileID,
		&m.CoachProfileID,
		&m.Status,
		&m.RequestedBy,
		&m.RequestedAt,
		&m.AcceptedAt,
		&m.EndedAt,
		&m.EndReason,
		&m.Blocked,
		&m.BlockReason,
		&m.Reported,
		&m.ReportReason,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

type CreateMatchInput struct {
	UserProfileID  int64
	CoachProfileID int64
	RequestedBy    string
}

func (r *MatchRepository) Create(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	query := fmt.Sprintf(`
		INSERT INTO matches (user_profile_id, coach_profile_id, status, requested_by, requested_at)
		VALUES ($1, $2, 'requested', $3, NOW())
		RETURNING %s
	`, matchColumns)
	return scanMatch(r.db.QueryRow(ctx, query, input.UserProfileID, input.CoachProfileID, input.RequestedBy))
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID int64) (*models.Match, error) {
	query := fmt.Sprintf(`SELECT %s FROM matches WHERE id = $1`, matchColumns)
	return scanMatch(r.db.QueryRow(ctx, query, matchID))
}

// GetParticipants returns only the two profile ids of a match. The access
// guard depends on this lookup and nothing else about the row.
func (r *MatchRepository) GetParticipants(ctx context.Context, matchID int64) (userProfileID, coachProfileID int64, err error) {
	query := `SELECT user_profile_id, coach_profile_id FROM matches WHERE id = $1`
	err = r.db.QueryRow(ctx, query, matchID).Scan(&userProfileID, &coachProfileID)
	return userProfileID, coachProfileID, err
}

type TransitionMatchInput struct {
	MatchID       int64
	CurrentStatus string
	NextStatus    string
	SetAcceptedAt bool
	SetEndedAt    bool
	EndReason     *string
}

// Transition is a compare-and-set on the status column: it only applies when
// the row still holds CurrentStatus, so a concurrent transition loses with
// pgx.ErrNoRows instead of double-applying.
func (r *MatchRepository) Transition(ctx context.Context, input TransitionMatchInput) (*models.Match, error) {
	query := fmt.Sprintf(`
		UPDATE matches
		SET status = $3,
			accepted_at = CASE WHEN $4 THEN NOW() ELSE accepted_at END,
			ended_at = CASE WHEN $5 THEN NOW() ELSE ended_at END,
			end_reason = COALESCE($6, end_reason),
			updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING %s
	`, matchColumns)
	return scanMatch(r.db.QueryRow(
		ctx,
		query,
		input.MatchID,
		input.CurrentStatus,
		input.NextStatus,
		input.SetAcceptedAt,
		input.SetEndedAt,
		input.EndReason,
	))
}

func (r *MatchRepository) SetBlocked(ctx context.Context, matchID int64, reason string) (*models.Match, error) {
	query := fmt.Sprintf(`
		UPDATE matches
		SET is_blocked = TRUE, block_reason = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, matchColumns)
	return scanMatch(r.db.QueryRow(ctx, query, matchID, reason))
}

func (r *MatchRepository) SetReported(ctx context.Context, matchID int64, reason string) (*models.Match, error) {
	query := fmt.Sprintf(`
		UPDATE matches
		SET is_reported = TRUE, report_reason = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, matchColumns)
	return scanMatch(r.db.QueryRow(ctx, query, matchID, reason))
}

type MatchListFilter struct {
	UserProfileID  *int64
	CoachProfileID *int64
	Status         string
}

func (r *MatchRepository) List(ctx context.Context, filter MatchListFilter) ([]models.Match, error) {
	args := []any{}
	whereParts := []string{}

	if filter.UserProfileID != nil {
		args = append(args, *filter.UserProfileID)
		whereParts = append(whereParts, fmt.Sprintf("user_profile_id = $%d", len(args)))
	}
	if filter.CoachProfileID != nil {
		args = append(args, *filter.CoachProfileID)
		whereParts = append(whereParts, fmt.Sprintf("coach_profile_id = $%d", len(args)))
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(whereParts) == 0 {
		whereParts = append(whereParts, "TRUE")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM matches
		WHERE %s
		ORDER BY requested_at DESC, id DESC
	`, matchColumns, strings.Join(whereParts, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *match)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}
