package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/peerlend/loan-tracker/internal/core/domain"
	"github.com/peerlend/loan-tracker/internal/core/ports"
)

// UserService implements user registration and lookup.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger

	now   func() time.Time
	newID func() string
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger, now: time.Now, newID: uuid.NewString}
}

// CreateUser registers a user. Name and email are required; role flags
// default to false.
func (s *UserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		s.logger.Warn().Str("email", in.Email).Msg("validation failed for user creation")
		return nil, domain.NewError(domain.ErrValidation, "Name and email are required")
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:        s.newID(),
		Name:      in.Name,
		Email:     in.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	user.SetCapabilities(domain.Capabilities{CanBorrow: in.IsBorrower, CanLend: in.IsLender})

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			s.logger.Warn().Str("email", in.Email).Msg("user already exists")
			return nil, domain.NewError(domain.ErrUserExists, "User with this email already exists")
		}
		s.logger.Error().Err(err).Str("email", in.Email).Msg("error creating user")
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("user created")
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewError(domain.ErrUserNotFound, "User not found")
		}
		s.logger.Error().Err(err).Str("user_id", id).Msg("error fetching user by id")
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return user, nil
}

// ListUsers returns all users ordered by name.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("error fetching users")
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	s.logger.Debug().Int("count", len(users)).Msg("fetched all users")
	return users, nil
}
