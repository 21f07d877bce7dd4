package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/HealthMatchBack/internal/models"
	"github.com/saeid-a/HealthMatchBack/internal/repository"
)

var ErrPlanGeneratorUnavailable = errors.New("plan generator is not configured")

type userReader interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type planWriter interface {
	CreateWeek(ctx context.Context, actor models.ActorContext, input CreateWeekInput) (*models.PlanWeek, error)
	GetWeekView(ctx context.Context, actor models.ActorContext, matchID int64, weekStart time.Time) (*models.WeekView, error)
	UpdateDayNote(ctx context.Context, actor models.ActorContext, dayID int64, note *string) (*models.PlanDay, error)
	CreateItem(ctx context.Context, actor models.ActorContext, dayID int64, input CreateItemInput) (*models.PlanItem, error)
}

// AiPlanService pairs a user with the built-in AI coach and fills one week
// with generated content. Insertion goes through PlanService under the AI
// coach's ActorContext, so generated content obeys exactly the same
// ownership and validation rules as hand-authored content.
type AiPlanService struct {
	generator        PlanGenerator
	planService      planWriter
	matchRepo        matchStore
	userRepo         userReader
	userProfileRepo  userProfileReader
	coachProfileRepo coachProfileReader
	aiCoachEmail     string
}

func NewAiPlanService(
	generator PlanGenerator,
	planService *PlanService,
	matchRepo *repository.MatchRepository,
	userRepo *repository.UserRepository,
	userProfileRepo *repository.UserProfileRepository,
	coachProfileRepo *repository.CoachProfileRepository,
	aiCoachEmail string,
) *AiPlanService {
	return &AiPlanService{
		generator:        generator,
		planService:      planService,
		matchRepo:        matchRepo,
		userRepo:         userRepo,
		userProfileRepo:  userProfileRepo,
		coachProfileRepo: coachProfileRepo,
		aiCoachEmail:     aiCoachEmail,
	}
}

type AiRecommendationInput struct {
	WeekStart       time.Time
	Goal            string
	SpecialRequests string
}

// CreateRecommendation returns the id of the match the generated week was
// attached to.
func (s *AiPlanService) CreateRecommendation(
	ctx context.Context,
	actor models.ActorContext,
	input AiRecommendationInput,
) (int64, error) {
	if s.generator == nil || s.aiCoachEmail == "" {
		return 0, ErrPlanGeneratorUnavailable
	}
	if !actor.IsUser() || actor.UserProfileID == nil {
		return 0, ErrForbidden
	}

	profile, err := s.userProfileRepo.GetByUserID(ctx, actor.AccountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrForbidden
		}
		return 0, err
	}

	coachAccount, err := s.userRepo.GetByEmail(ctx, s.aiCoachEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrPlanGeneratorUnavailable
		}
		return 0, err
	}
	coachProfile, err := s.coachProfileRepo.GetByUserID(ctx, coachAccount.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrPlanGeneratorUnavailable
		}
		return 0, err
	}

	match, err := s.ensureActiveMatch(ctx, *actor.UserProfileID, coachProfile.ID)
	if err != nil {
		return 0, err
	}

	coachActor := models.ActorContext{
		AccountID:      coachAccount.ID,
		CoachProfileID: &coachProfile.ID,
		Roles:          []string{models.RoleCoach},
	}

	plan, err := s.generator.GeneratePlan(ctx, profile, input.Goal, input.SpecialRequests, input.WeekStart)
	if err != nil {
		return 0, err
	}

	title := strings.TrimSpace(plan.Title)
	if title == "" {
		title = "AI weekly plan"
	}
	week, err := s.planService.CreateWeek(ctx, coachActor, CreateWeekInput{
		MatchID:   match.ID,
		WeekStart: input.WeekStart,
		Title:     title,
		Note:      plan.Note,
	})
	if err != nil {
		return 0, err
	}

	view, err := s.planService.GetWeekView(ctx, coachActor, match.ID, week.WeekStart)
	if err != nil {
		return 0, err
	}

	for _, genDay := range plan.Days {
		if genDay.DayIndex < 0 || genDay.DayIndex >= len(view.Days) {
			continue
		}
		day := view.Days[genDay.DayIndex]

		if genDay.Note != nil && strings.TrimSpace(*genDay.Note) != "" {
			if _, err := s.planService.UpdateDayNote(ctx, coachActor, day.ID, genDay.Note); err != nil {
				if errors.Is(err, ErrInvalidInput) {
					continue
				}
				return 0, err
			}
		}

		for _, genItem := range genDay.Items {
			itemTitle := strings.TrimSpace(genItem.Title)
			if itemTitle == "" {
				itemTitle = "Untitled"
			}
			_, err := s.planService.CreateItem(ctx, coachActor, day.ID, CreateItemInput{
				ItemType:    genItem.ItemType,
				Title:       itemTitle,
				Description: genItem.Description,
				TargetKcal:  genItem.TargetKcal,
				TargetMin:   genItem.TargetMin,
			})
			if err != nil {
				// Unknown types and out-of-range targets are skipped, not fatal.
				if errors.Is(err, ErrInvalidInput) {
					continue
				}
				return 0, err
			}
		}
	}

	return match.ID, nil
}

// ensureActiveMatch reuses an in-progress match with the AI coach or drives a
// new one through the regular requested -> accepted -> in_progress machine.
func (s *AiPlanService) ensureActiveMatch(
	ctx context.Context,
	userProfileID int64,
	coachProfileID int64,
) (*models.Match, error) {
	existing, err := s.matchRepo.List(ctx, repository.MatchListFilter{
		UserProfileID:  &userProfileID,
		CoachProfileID: &coachProfileID,
		Status:         models.MatchStatusInProgress,
	})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return &existing[0], nil
	}

	match, err := s.matchRepo.Create(ctx, repository.CreateMatchInput{
		UserProfileID:  userProfileID,
		CoachProfileID: coachProfileID,
		RequestedBy:    models.MatchRequestedByUser,
	})
	if err != nil {
		return nil, err
	}
	match, err = s.matchRepo.Transition(ctx, repository.TransitionMatchInput{
		MatchID:       match.ID,
		CurrentStatus: models.MatchStatusRequested,
		NextStatus:    models.MatchStatusAccepted,
		SetAcceptedAt: true,
	})
	if err != nil {
		return nil, err
	}
	match, err = s.matchRepo.Transition(ctx, repository.TransitionMatchInput{
		MatchID:       match.ID,
		CurrentStatus: models.MatchStatusAccepted,
		NextStatus:    models.MatchStatusInProgress,
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}
