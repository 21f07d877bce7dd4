package repository

import (
	"context"

	"github.com/saeid-a/HealthMatchBack/internal/models"
)

type UserProfileRepository struct {
	db DBTX
}

func NewUserProfileRepository(db DBTX) *UserProfileRepository {
	return &UserProfileRepository{db: db}
}

func (r *UserProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO user_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *UserProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error) {
	query := `
		SELECT id, user_id, full_name, age, gender, height_cm, weight_kg, activity_level, goal, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`
	var profile models.UserProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.Age,
		&profile.Gender,
		&profile.HeightCM,
		&profile.WeightKG,
		&profile.ActivityLevel,
		&profile.Goal,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

type UpdateUserProfileInput struct {
	FullName      *string
	Age           *int
	Gender        *string
	HeightCM      *float64
	WeightKG      *float64
	ActivityLevel *string
	Goal          *string
}

func (r *UserProfileRepository) Update(
	ctx context.Context,
	userID int64,
	input UpdateUserProfileInput,
) (*models.UserProfile, error) {
	query := `
		UPDATE user_profiles
		SET full_name = COALESCE($2, full_name),
			age = COALESCE($3, age),
			gender = COALESCE($4, gender),
			height_cm = COALESCE($5, height_cm),
			weight_kg = COALESCE($6, weight_kg),
			activity_level = COALESCE($7, activity_level),
			goal = COALESCE($8, goal),
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING id, user_id, full_name, age, gender, height_cm, weight_kg, activity_level, goal, created_at, updated_at
	`
	var profile models.UserProfile
	err := r.db.QueryRow(
		ctx,
		query,
		userID,
		input.FullName,
		input.Age,
		input.Gender,
		input.HeightCM,
		input.WeightKG,
		input.ActivityLevel,
		input.Goal,
	).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.Age,
		&profile.Gender,
		&profile.HeightCM,
		&profile.WeightKG,
		&profile.ActivityLevel,
		&profile.Goal,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
