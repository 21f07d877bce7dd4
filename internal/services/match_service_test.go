package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/saeid-a/HealthMatchBack/internal/models"
	"github.com/saeid-a/HealthMatchBack/internal/repository"
)

type stubMatchStore struct {
	createResult   *models.Match
	createErr      error
	getResult      *models.Match
	getErr         error
	transitionFn   func(input repository.TransitionMatchInput) (*models.Match, error)
	blockedResult  *models.Match
	blockedErr     error
	reportedResult *models.Match
	reportedErr    error
	listResult     []models.Match
	listErr        error

	lastCreate     repository.CreateMatchInput
	lastTransition repository.TransitionMatchInput
	lastListFilter repository.MatchListFilter
	transitions    int
}

func (s *stubMatchStore) Create(_ context.Context, input repository.CreateMatchInput) (*models.Match, error) {
	s.lastCreate = input
	return s.createResult, s.createErr
}

func (s *stubMatchStore) GetByID(_ context.Context, _ int64) (*models.Match, error) {
	return s.getResult, s.getErr
}

func (s *stubMatchStore) Transition(_ context.Context, input repository.TransitionMatchInput) (*models.Match, error) {
	s.lastTransition = input
	s.transitions++
	if s.transitionFn != nil {
		return s.transitionFn(input)
	}
	return nil, errors.New("unexpected transition")
}

func (s *stubMatchStore) SetBlocked(_ context.Context, _ int64, _ string) (*models.Match, error) {
	return s.blockedResult, s.blockedErr
}

func (s *stubMatchStore) SetReported(_ context.Context, _ int64, _ string) (*models.Match, error) {
	return s.reportedResult, s.reportedErr
}

func (s *stubMatchStore) List(_ context.Context, filter repository.MatchListFilter) ([]models.Match, error) {
	s.lastListFilter = filter
	return s.listResult, s.listErr
}

func newMatchServiceForTest(store *stubMatchStore, reader *stubParticipantReader) *MatchService {
	return &MatchService{matchRepo: store, guard: NewAccessGuard(reader)}
}

func participantUser() models.ActorContext {
	return models.ActorContext{AccountID: 1, UserProfileID: int64Ptr(10), Roles: []string{models.RoleUser}}
}

func participantCoach() models.ActorContext {
	return models.ActorContext{AccountID: 2, CoachProfileID: int64Ptr(20), Roles: []string{models.RoleCoach}}
}

func TestCreateRequestDerivesRequestedByFromActor(t *testing.T) {
	store := &stubMatchStore{
		createResult: &models.Match{ID: 5, UserProfileID: 10, CoachProfileID: 20, Status: models.MatchStatusRequested},
	}
	service := newMatchServiceForTest(store, &stubParticipantReader{})

	match, err := service.CreateRequest(context.Background(), participantUser(), CreateMatchRequestInput{
		UserProfileID:  10,
		CoachProfileID: 20,
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if match.ID != 5 {
		t.Fatalf("expected match 5, got %d", match.ID)
	}
	if store.lastCreate.RequestedBy != models.MatchRequestedByUser {
		t.Fatalf("expected requested_by user, got %q", store.lastCreate.RequestedBy)
	}
}

func TestCreateRequestRejectsActorOutsideThePair(t *testing.T) {
	store := &stubMatchStore{}
	service := newMatchServiceForTest(store, &stubParticipantReader{})

	_, err := service.CreateRequest(context.Background(), participantUser(), CreateMatchRequestInput{
		UserProfileID:  99,
		CoachProfileID: 20,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCreateRequestMapsMissingProfileToInvalidInput(t *testing.T) {
	store := &stubMatchStore{createErr: &pgconn.PgError{Code: "23503"}}
	service := newMatchServiceForTest(store, &stubParticipantReader{})

	_, err := service.CreateRequest(context.Background(), participantUser(), CreateMatchRequestInput{
		UserProfileID:  10,
		CoachProfileID: 20,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAcceptMovesRequestedMatch(t *testing.T) {
	store := &stubMatchStore{
		getResult: &models.Match{ID: 5, Status: models.MatchStatusRequested},
		transitionFn: func(input repository.TransitionMatchInput) (*models.Match, error) {
			return &models.Match{ID: input.MatchID, Status: input.NextStatus}, nil
		},
	}
	reader := &stubParticipantReader{userProfileID: 10, coachProfileID: 20}
	service := newMatchServiceForTest(store, reader)

	match, err := service.Accept(context.Background(), participantCoach(), 5)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if match.Status != models.MatchStatusAccepted {
		t.Fatalf("expected accepted, got %q", match.Status)
	}
	if store.lastTransition.CurrentStatus != models.MatchStatusRequested {
		t.Fatalf("expected compare against requested, got %q", store.lastTransition.CurrentStatus)
	}
	if !store.lastTransition.SetAcceptedAt {
		t.Fatal("expected accepted_at to be stamped")
	}
}

func TestEndingAnEndedMatchFails(t *testing.T) {
	store := &stubMatchStore{
		getResult: &models.Match{ID: 5, Status: models.MatchStatusEnded},
	}
	reader := &stubParticipantReader{userProfileID: 10, coachProfileID: 20}
	service := newMatchServiceForTest(store, reader)

	_, err := service.End(context.Background(), participantUser(), 5, "we are done")
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
	if store.transitions != 0 {
		t.Fatalf("expected no write for terminal match, got %d", store.transitions)
	}
}

func TestEndRequiresReason(t *testing.T) {
	store := &stubMatchStore{getResult: &models.Match{ID: 5, Status: models.MatchStatusInProgress}}
	reader := &stubParticipantReader{userProfileID: 10, coachProfileID: 20}
	service := newMatchServiceForTest(store, reader)

	_, err := service.End(context.Background(), participantUser(), 5, "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTransitionLosingRaceFails(t *testing.T) {
	store := &stubMatchStore{
		getResult: &models.Match{ID: 5, Status: models.MatchStatusInProgress},
		transitionFn: func(repository.TransitionMatchInput) (*models.Match, error) {
			// Another caller moved the row between read and write.
			return nil, pgx.ErrNoRows
		},
	}
	reader := &stubParticipantReader{userProfileID: 10, coachProfileID: 20}
	service := newMatchServiceForTest(store, reader)

	_, err := service.End(context.Background(), participantUser(), 5, "moving on")
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestForceEndIsAdminOnly(t *testing.T) {
	store := &stubMatchStore{
		getResult: &models.Match{ID: 5, Status: models.MatchStatusRequested},
		transitionFn: func(input repository.TransitionMatchInput) (*models.Match, error) {
			return &models.Match{ID: input.MatchID, Status: input.NextStatus}, nil
		},
	}
	reader := &stubParticipantReader{userProfileID: 10, coachProfileID: 20}
	service := newMatchServiceForTest(store, reader)

	if _, err := service.ForceEnd(context.Background(), participantUser(), 5, "abuse"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for participant, got %v", err)
	}

	admin := models.ActorContext{AccountID: 9, Roles: []string{models.RoleAdmin}}
	match, err := service.ForceEnd(context.Background(), admin, 5, "abuse")
	if err != nil {
		t.Fatalf("ForceEnd: %v", err)
	}
	if match.Status != models.MatchStatusForceEnded {
		t.Fatalf("expected force_ended, got %q", match.Status)
	}
}

func TestBlockFlagsWithoutTouchingStatus(t *testing.T) {
	store := &stubMatchStore{
		blockedResult: &models.Match{ID: 5, Status: models.MatchStatusInProgress, Blocked: true},
	}
	reader := &stubParticipantReader{userProfileID: 10, coachProfileID: 20}
	service := newMatchServiceForTest(store, reader)

	match, err := service.Block(context.Background(), participantUser(), 5, "spam")
	if err != nil {
		t.Fatalf("Block: %v", err)
	}
	if !match.Blocked {
		t.Fatal("expected blocked flag set")
	}
	if match.Status != models.MatchStatusInProgress {
		t.Fatalf("expected status untouched, got %q", match.Status)
	}
	if store.transitions != 0 {
		t.Fatalf("expected no status transition, got %d", store.transitions)
	}
}

func TestListMineFiltersByActorSide(t *testing.T) {
	store := &stubMatchStore{listResult: []models.Match{{ID: 1}, {ID: 2}}}
	service := newMatchServiceForTest(store, &stubParticipantReader{})

	matches, err := service.ListMine(context.Background(), participantCoach(), models.MatchStatusRequested)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if store.lastListFilter.CoachProfileID == nil || *store.lastListFilter.CoachProfileID != 20 {
		t.Fatalf("expected coach filter 20, got %v", store.lastListFilter.CoachProfileID)
	}
	if store.lastListFilter.UserProfileID != nil {
		t.Fatal("expected no user filter for coach actor")
	}
}

func TestListMineRejectsUnknownStatus(t *testing.T) {
	service := newMatchServiceForTest(&stubMatchStore{}, &stubParticipantReader{})

	if _, err := service.ListMine(context.Background(), participantUser(), "paused"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
