package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/saeid-a/HealthMatchBack/internal/models"
	"github.com/saeid-a/HealthMatchBack/internal/repository"
)

type matchStore interface {
	Create(ctx context.Context, input repository.CreateMatchInput) (*models.Match, error)
	GetByID(ctx context.Context, matchID int64) (*models.Match, error)
	Transition(ctx context.Context, input repository.TransitionMatchInput) (*models.Match, error)
	SetBlocked(ctx context.Context, matchID int64, reason string) (*models.Match, error)
	SetReported(ctx context.Context, matchID int64, reason string) (*models.Match, error)
	List(ctx context.Context, filter repository.MatchListFilter) ([]models.Match, error)
}

// MatchService owns the match lifecycle. Transitions are deliberately not
// idempotent: repeating one that already succeeded fails with
// ErrInvalidStateTransition so callers see exactly one winner.
type MatchService struct {
	matchRepo matchStore
	guard     *AccessGuard
}

func NewMatchService(matchRepo *repository.MatchRepository, guard *AccessGuard) *MatchService {
	return &MatchService{matchRepo: matchRepo, guard: guard}
}

type CreateMatchRequestInput struct {
	UserProfileID  int64
	CoachProfileID int64
}

func (s *MatchService) CreateRequest(
	ctx context.Context,
	actor models.ActorContext,
	input CreateMatchRequestInput,
) (*models.Match, error) {
	if input.UserProfileID <= 0 || input.CoachProfileID <= 0 {
		return nil, ErrInvalidInput
	}

	var requestedBy string
	switch {
	case actor.IsUser() && actor.UserProfileID != nil && *actor.UserProfileID == input.UserProfileID:
		requestedBy = models.MatchRequestedByUser
	case actor.IsCoach() && actor.CoachProfileID != nil && *actor.CoachProfileID == input.CoachProfileID:
		requestedBy = models.MatchRequestedByCoach
	default:
		return nil, ErrForbidden
	}

	match, err := s.matchRepo.Create(ctx, repository.CreateMatchInput{
		UserProfileID:  input.UserProfileID,
		CoachProfileID: input.CoachProfileID,
		RequestedBy:    requestedBy,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrInvalidInput
		}
		return nil, err
	}
	return match, nil
}

func (s *MatchService) Get(ctx context.Context, actor models.ActorContext, matchID int64) (*models.Match, error) {
	if err := s.guard.RequireMatchAccess(ctx, actor, matchID); err != nil {
		return nil, err
	}
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *MatchService) Accept(ctx context.Context, actor models.ActorContext, matchID int64) (*models.Match, error) {
	if err := s.guard.RequireMatchAccess(ctx, actor, matchID); err != nil {
		return nil, err
	}
	return s.transition(ctx, matchID, []string{models.MatchStatusRequested}, repository.TransitionMatchInput{
		NextStatus:    models.MatchStatusAccepted,
		SetAcceptedAt: true,
	})
}

func (s *MatchService) Start(ctx context.Context, actor models.ActorContext, matchID int64) (*models.Match, error) {
	if err := s.guard.RequireMatchAccess(ctx, actor, matchID); err != nil {
		return nil, err
	}
	return s.transition(ctx, matchID, []string{models.MatchStatusAccepted}, repository.TransitionMatchInput{
		NextStatus: models.MatchStatusInProgress,
	})
}

func (s *MatchService) End(ctx context.Context, actor models.ActorContext, matchID int64, reason string) (*models.Match, error) {
	if err := s.guard.RequireMatchAccess(ctx, actor, matchID); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrInvalidInput
	}
	return s.transition(
		ctx,
		matchID,
		[]string{models.MatchStatusAccepted, models.MatchStatusInProgress},
		repository.TransitionMatchInput{
			NextStatus: models.MatchStatusEnded,
			SetEndedAt: true,
			EndReason:  &reason,
		},
	)
}

func (s *MatchService) Reject(ctx context.Context, actor models.ActorContext, matchID int64, reason string) (*models.Match, error) {
	if err := s.guard.RequireMatchAccess(ctx, actor, matchID); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrInvalidInput
	}
	return s.transition(ctx, matchID, []string{models.MatchStatusRequested}, repository.TransitionMatchInput{
		NextStatus: models.MatchStatusRejected,
		SetEndedAt: true,
		EndReason:  &reason,
	})
}

// ForceEnd closes a match from any non-terminal state. Admin only.
func (s *MatchService) ForceEnd(ctx context.Context, actor models.ActorContext, matchID int64, reason string) (*models.Match, error) {
	if err := s.guard.RequireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrInvalidInput
	}
	return s.transition(
		ctx,
		matchID,
		[]string{models.MatchStatusRequested, models.MatchStatusAccepted, models.MatchStatusInProgress},
		repository.TransitionMatchInput{
			NextStatus: models.MatchStatusForceEnded,
			SetEndedAt: true,
			EndReason:  &reason,
		},
	)
}

// Block flags the match without touching its status.
func (s *MatchService) Block(ctx context.Context, actor models.ActorContext, matchID int64, reason string) (*models.Match, error) {
	if err := s.guard.RequireMatchAccess(ctx, actor, matchID); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrInvalidInput
	}
	match, err := s.matchRepo.SetBlocked(ctx, matchID, reason)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

// Report flags the match without touching its status.
func (s *MatchService) Report(ctx context.Context, actor models.ActorContext, matchID int64, reason string) (*models.Match, error) {
	if err := s.guard.RequireMatchAccess(ctx, actor, matchID); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrInvalidInput
	}
	match, err := s.matchRepo.SetReported(ctx, matchID, reason)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

// ListMine returns the actor's matches seen from its own side, optionally
// filtered by status.
func (s *MatchService) ListMine(ctx context.Context, actor models.ActorContext, status string) ([]models.Match, error) {
	status = strings.TrimSpace(status)
	if status != "" && !validMatchStatus(status) {
		return nil, ErrInvalidInput
	}

	filter := repository.MatchListFilter{Status: status}
	switch {
	case actor.IsUser() && actor.UserProfileID != nil:
		filter.UserProfileID = actor.UserProfileID
	case actor.IsCoach() && actor.CoachProfileID != nil:
		filter.CoachProfileID = actor.CoachProfileID
	default:
		return nil, ErrForbidden
	}
	return s.matchRepo.List(ctx, filter)
}

func (s *MatchService) transition(
	ctx context.Context,
	matchID int64,
	validFrom []string,
	input repository.TransitionMatchInput,
) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	allowed := false
	for _, from := range validFrom {
		if match.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrInvalidStateTransition
	}

	input.MatchID = matchID
	input.CurrentStatus = match.Status
	updated, err := s.matchRepo.Transition(ctx, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost a race: someone else moved the match first.
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	return updated, nil
}

func validMatchStatus(status string) bool {
	switch status {
	case models.MatchStatusRequested,
		models.MatchStatusAccepted,
		models.MatchStatusInProgress,
		models.MatchStatusEnded,
		models.MatchStatusRejected,
		models.MatchStatusForceEnded:
		return true
	default:
		return false
	}
}
