package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/HealthMatchBack/internal/models"
)

type stubUserProfileReader struct {
	profile *models.UserProfile
	err     error
}

func (s *stubUserProfileReader) GetByUserID(_ context.Context, _ int64) (*models.UserProfile, error) {
	return s.profile, s.err
}

type stubCoachProfileReader struct {
	profile *models.CoachProfile
	err     error
}

func (s *stubCoachProfileReader) GetByUserID(_ context.Context, _ int64) (*models.CoachProfile, error) {
	return s.profile, s.err
}

func TestResolveAttachesExistingProfiles(t *testing.T) {
	resolver := NewActorResolver(
		&stubUserProfileReader{profile: &models.UserProfile{ID: 11, UserID: 1}},
		&stubCoachProfileReader{err: pgx.ErrNoRows},
	)

	actor, err := resolver.Resolve(context.Background(), 1, []string{models.RoleUser})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if actor.AccountID != 1 {
		t.Fatalf("expected account id 1, got %d", actor.AccountID)
	}
	if actor.UserProfileID == nil || *actor.UserProfileID != 11 {
		t.Fatalf("expected user profile id 11, got %v", actor.UserProfileID)
	}
	if actor.CoachProfileID != nil {
		t.Fatalf("expected no coach profile, got %v", actor.CoachProfileID)
	}
	if !actor.IsUser() || actor.IsCoach() {
		t.Fatalf("unexpected roles: %v", actor.Roles)
	}
}

func TestResolveToleratesMissingProfiles(t *testing.T) {
	resolver := NewActorResolver(
		&stubUserProfileReader{err: pgx.ErrNoRows},
		&stubCoachProfileReader{err: pgx.ErrNoRows},
	)

	actor, err := resolver.Resolve(context.Background(), 7, []string{models.RoleAdmin})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if actor.UserProfileID != nil || actor.CoachProfileID != nil {
		t.Fatalf("expected no profiles, got %v / %v", actor.UserProfileID, actor.CoachProfileID)
	}
	if !actor.IsAdmin() {
		t.Fatalf("expected admin role, got %v", actor.Roles)
	}
}

func TestResolvePropagatesUnexpectedErrors(t *testing.T) {
	dbErr := errors.New("connection lost")
	resolver := NewActorResolver(
		&stubUserProfileReader{err: dbErr},
		&stubCoachProfileReader{err: pgx.ErrNoRows},
	)

	if _, err := resolver.Resolve(context.Background(), 1, []string{models.RoleUser}); !errors.Is(err, dbErr) {
		t.Fatalf("expected underlying error, got %v", err)
	}
}
