package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/HealthMatchBack/internal/models"
)

type userProfileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error)
}

type coachProfileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.CoachProfile, error)
}

// ActorResolver turns an authenticated account into the ActorContext every
// operation receives. Missing profile rows are not an error: an account can
// hold roles without having opened the matching profile yet.
type ActorResolver struct {
	userProfileRepo  userProfileReader
	coachProfileRepo coachProfileReader
}

func NewActorResolver(userProfileRepo userProfileReader, coachProfileRepo coachProfileReader) *ActorResolver {
	return &ActorResolver{
		userProfileRepo:  userProfileRepo,
		coachProfileRepo: coachProfileRepo,
	}
}

func (r *ActorResolver) Resolve(ctx context.Context, accountID int64, roles []string) (models.ActorContext, error) {
	actor := models.ActorContext{
		AccountID: accountID,
		Roles:     roles,
	}

	userProfile, err := r.userProfileRepo.GetByUserID(ctx, accountID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return models.ActorContext{}, err
	}
	if err == nil {
		actor.UserProfileID = &userProfile.ID
	}

	coachProfile, err := r.coachProfileRepo.GetByUserID(ctx, accountID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return models.ActorContext{}, err
	}
	if err == nil {
		actor.CoachProfileID = &coachProfile.ID
	}

	return actor, nil
}
