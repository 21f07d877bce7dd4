package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saeid-a/HealthMatchBack/internal/models"
	"github.com/saeid-a/HealthMatchBack/internal/repository"
	"github.com/saeid-a/HealthMatchBack/pkg/utils"
)

type SeedAccount struct {
	Email    string
	Password string
	Role     string
	FullName string
}

// SeedService idempotently creates the configured bootstrap accounts: the
// admin and the AI coach the recommendation path pairs users with.
type SeedService struct {
	db       *pgxpool.Pool
	userRepo *repository.UserRepository
}

func NewSeedService(db *pgxpool.Pool, userRepo *repository.UserRepository) *SeedService {
	return &SeedService{db: db, userRepo: userRepo}
}

func (s *SeedService) EnsureAccounts(ctx context.Context, accounts []SeedAccount) error {
	for _, account := range accounts {
		if account.Email == "" || account.Password == "" {
			continue
		}
		if err := s.ensureAccount(ctx, account); err != nil {
			return err
		}
	}
	return nil
}

func (s *SeedService) ensureAccount(ctx context.Context, account SeedAccount) error {
	_, err := s.userRepo.GetByEmail(ctx, account.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hashed, err := utils.HashPassword(account.Password)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txUserRepo := repository.NewUserRepository(tx)
	user := &models.User{
		Email:        account.Email,
		PasswordHash: hashed,
		Role:         account.Role,
	}
	if err := txUserRepo.CreateUser(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Another instance seeded first.
			return nil
		}
		return err
	}

	switch account.Role {
	case models.RoleUser:
		if err := repository.NewUserProfileRepository(tx).CreateEmpty(ctx, user.ID); err != nil {
			return err
		}
	case models.RoleCoach:
		txCoachRepo := repository.NewCoachProfileRepository(tx)
		if err := txCoachRepo.CreateEmpty(ctx, user.ID); err != nil {
			return err
		}
		if account.FullName != "" {
			name := account.FullName
			if _, err := txCoachRepo.Update(ctx, user.ID, repository.UpdateCoachProfileInput{FullName: &name}); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}
