package repository

import (
	"context"

	"github.com/saeid-a/HealthMatchBack/internal/models"
)

type CoachProfileRepository struct {
	db DBTX
}

func NewCoachProfileRepository(db DBTX) *CoachProfileRepository {
	return &CoachProfileRepository{db: db}
}

func (r *CoachProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO coach_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *CoachProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.CoachProfile, error) {
	query := `
		SELECT id, user_id, full_name, bio, specializations, experience_years, created_at, updated_at
		FROM coach_profiles
		WHERE user_id = $1
	`
	var profile models.CoachProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.Bio,
		&profile.Specializations,
		&profile.ExperienceYears,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

type UpdateCoachProfileInput struct {
	FullName        *string
	Bio             *string
	Specializations *[]string
	ExperienceYears *int
}

func (r *CoachProfileRepository) Update(
	ctx context.Context,
	userID int64,
	input UpdateCoachProfileInput,
) (*models.CoachProfile, error) {
	query := `
		UPDATE coach_profiles
		SET full_name = COALESCE($2, full_name),
			bio = COALESCE($3, bio),
			specializations = COALESCE($4, specializations),
			experience_years = COALESCE($5, experience_years),
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING id, user_id, full_name, bio, specializations, experience_years, created_at, updated_at
	`
	var profile models.CoachProfile
	err := r.db.QueryRow(
		ctx,
		query,
		userID,
		input.FullName,
		input.Bio,
		input.Specializations,
		input.ExperienceYears,
	).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.Bio,
		&profile.Specializations,
		&profile.ExperienceYears,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
