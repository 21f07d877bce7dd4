package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/HealthMatchBack/internal/models"
)

var (
	ErrForbidden              = errors.New("forbidden")
	ErrConflict               = errors.New("conflict")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInvalidInput           = errors.New("invalid input")
	ErrItemLocked             = errors.New("plan item is locked")
	ErrMatchNotFound          = errors.New("match not found")
)

type matchParticipantReader interface {
	GetParticipants(ctx context.Context, matchID int64) (userProfileID, coachProfileID int64, err error)
}

// AccessGuard is the only place ownership and role rules are encoded. It
// reads match participants and never mutates anything.
type AccessGuard struct {
	matchRepo matchParticipantReader
}

func NewAccessGuard(matchRepo matchParticipantReader) *AccessGuard {
	return &AccessGuard{matchRepo: matchRepo}
}

func (g *AccessGuard) RequireRole(actor models.ActorContext, role string) error {
	if !actor.HasRole(role) {
		return ErrForbidden
	}
	return nil
}

func (g *AccessGuard) participants(ctx context.Context, matchID int64) (int64, int64, error) {
	userProfileID, coachProfileID, err := g.matchRepo.GetParticipants(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, ErrMatchNotFound
		}
		return 0, 0, err
	}
	return userProfileID, coachProfileID, nil
}

// RequireMatchAccess admits admins unconditionally, otherwise either
// participant of the match.
func (g *AccessGuard) RequireMatchAccess(ctx context.Context, actor models.ActorContext, matchID int64) error {
	if actor.IsAdmin() {
		return nil
	}

	userProfileID, coachProfileID, err := g.participants(ctx, matchID)
	if err != nil {
		return err
	}

	if actor.UserProfileID != nil && *actor.UserProfileID == userProfileID {
		return nil
	}
	if actor.CoachProfileID != nil && *actor.CoachProfileID == coachProfileID {
		return nil
	}
	return ErrForbidden
}

// RequireCoachOwnsMatch admits only the coach side of the match. Plan content
// authoring and item locking are gated on this.
func (g *AccessGuard) RequireCoachOwnsMatch(ctx context.Context, actor models.ActorContext, matchID int64) error {
	if !actor.IsCoach() {
		return ErrForbidden
	}

	_, coachProfileID, err := g.participants(ctx, matchID)
	if err != nil {
		return err
	}
	if actor.CoachProfileID == nil || *actor.CoachProfileID != coachProfileID {
		return ErrForbidden
	}
	return nil
}

// RequireUserOwnsMatch admits only the user side of the match. Completion
// marking is gated on this.
func (g *AccessGuard) RequireUserOwnsMatch(ctx context.Context, actor models.ActorContext, matchID int64) error {
	if !actor.IsUser() {
		return ErrForbidden
	}

	userProfileID, _, err := g.participants(ctx, matchID)
	if err != nil {
		return err
	}
	if actor.UserProfileID == nil || *actor.UserProfileID != userProfileID {
		return ErrForbidden
	}
	return nil
}
