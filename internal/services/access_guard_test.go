package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/HealthMatchBack/internal/models"
)

type stubParticipantReader struct {
	userProfileID  int64
	coachProfileID int64
	err            error
	calls          int
}

func (s *stubParticipantReader) GetParticipants(_ context.Context, _ int64) (int64, int64, error) {
	s.calls++
	if s.err != nil {
		return 0, 0, s.err
	}
	return s.userProfileID, s.coachProfileID, nil
}

func int64Ptr(v int64) *int64 { return &v }

func TestRequireMatchAccessAdmitsAdminWithoutLookup(t *testing.T) {
	reader := &stubParticipantReader{err: pgx.ErrNoRows}
	guard := NewAccessGuard(reader)

	admin := models.ActorContext{AccountID: 1, Roles: []string{models.RoleAdmin}}
	if err := guard.RequireMatchAccess(context.Background(), admin, 99); err != nil {
		t.Fatalf("expected admin access, got %v", err)
	}
	if reader.calls != 0 {
		t.Fatalf("expected no participant lookup for admin, got %d", reader.calls)
	}
}

func TestRequireMatchAccessAdmitsBothParticipants(t *testing.T) {
	reader := &stubParticipantReader{userProfileID: 10, coachProfileID: 20}
	guard := NewAccessGuard(reader)

	user := models.ActorContext{AccountID: 1, UserProfileID: int64Ptr(10), Roles: []string{models.RoleUser}}
	if err := guard.RequireMatchAccess(context.Background(), user, 5); err != nil {
		t.Fatalf("expected user access, got %v", err)
	}

	coach := models.ActorContext{AccountID: 2, CoachProfileID: int64Ptr(20), Roles: []string{models.RoleCoach}}
	if err := guard.RequireMatchAccess(context.Background(), coach, 5); err != nil {
		t.Fatalf("expected coach access, got %v", err)
	}
}

func TestRequireMatchAccessRejectsOutsider(t *testing.T) {
	reader := &stubParticipantReader{userProfileID: 10, coachProfileID: 20}
	guard := NewAccessGuard(reader)

	outsider := models.ActorContext{AccountID: 3, UserProfileID: int64Ptr(11), Roles: []string{models.RoleUser}}
	if err := guard.RequireMatchAccess(context.Background(), outsider, 5); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireMatchAccessMapsMissingMatch(t *testing.T) {
	reader := &stubParticipantReader{err: pgx.ErrNoRows}
	guard := NewAccessGuard(reader)

	user := models.ActorContext{AccountID: 1, UserProfileID: int64Ptr(10), Roles: []string{models.RoleUser}}
	if err := guard.RequireMatchAccess(context.Background(), user, 404); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestRequireCoachOwnsMatch(t *testing.T) {
	reader := &stubParticipantReader{userProfileID: 10, coachProfileID: 20}
	guard := NewAccessGuard(reader)

	owner := models.ActorContext{AccountID: 2, CoachProfileID: int64Ptr(20), Roles: []string{models.RoleCoach}}
	if err := guard.RequireCoachOwnsMatch(context.Background(), owner, 5); err != nil {
		t.Fatalf("expected owning coach access, got %v", err)
	}

	otherCoach := models.ActorContext{AccountID: 4, CoachProfileID: int64Ptr(21), Roles: []string{models.RoleCoach}}
	if err := guard.RequireCoachOwnsMatch(context.Background(), otherCoach, 5); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other coach, got %v", err)
	}

	user := models.ActorContext{AccountID: 1, UserProfileID: int64Ptr(10), Roles: []string{models.RoleUser}}
	if err := guard.RequireCoachOwnsMatch(context.Background(), user, 5); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for user, got %v", err)
	}
}

func TestRequireCoachOwnsMatchRejectsNonCoachBeforeLookup(t *testing.T) {
	reader := &stubParticipantReader{userProfileID: 10, coachProfileID: 20}
	guard := NewAccessGuard(reader)

	user := models.ActorContext{AccountID: 1, UserProfileID: int64Ptr(10), Roles: []string{models.RoleUser}}
	if err := guard.RequireCoachOwnsMatch(context.Background(), user, 5); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if reader.calls != 0 {
		t.Fatalf("expected role check to fail before any lookup, got %d lookups", reader.calls)
	}
}

func TestRequireUserOwnsMatch(t *testing.T) {
	reader := &stubParticipantReader{userProfileID: 10, coachProfileID: 20}
	guard := NewAccessGuard(reader)

	owner := models.ActorContext{AccountID: 1, UserProfileID: int64Ptr(10), Roles: []string{models.RoleUser}}
	if err := guard.RequireUserOwnsMatch(context.Background(), owner, 5); err != nil {
		t.Fatalf("expected owning user access, got %v", err)
	}

	otherUser := models.ActorContext{AccountID: 3, UserProfileID: int64Ptr(11), Roles: []string{models.RoleUser}}
	if err := guard.RequireUserOwnsMatch(context.Background(), otherUser, 5); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other user, got %v", err)
	}

	coach := models.ActorContext{AccountID: 2, CoachProfileID: int64Ptr(20), Roles: []string{models.RoleCoach}}
	if err := guard.RequireUserOwnsMatch(context.Background(), coach, 5); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for coach, got %v", err)
	}
}
