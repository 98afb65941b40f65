package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"
)

type UserService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewUserService(repo domain.Repository, logger *zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) Create(ctx context.Context, in models.NewUser) (*models.User, error) {
	user := &models.User{Name: strings.TrimSpace(in.Name), Email: strings.TrimSpace(in.Email)}
	if user.Name == "" || user.Email == "" {
		return nil, domain.Validation("Name and email must not be blank")
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return nil, domain.Conflict("User with email %s already exists", user.Email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("User created")
	return user, nil
}

// Update applies the non-nil patch fields.
func (s *UserService) Update(ctx context.Context, patch models.UserPatch, userID int64) (*models.User, error) {
	user, err := loadUser(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, domain.Validation("Nothing to update for user %d", userID)
	}

	if patch.Name != nil {
		user.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		user.Email = strings.TrimSpace(*patch.Email)
	}
	if user.Name == "" || user.Email == "" {
		return nil, domain.Validation("Name and email must not be blank")
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, database.ErrDuplicateEmail):
			return nil, domain.Conflict("User with email %s already exists", user.Email)
		case errors.Is(err, database.ErrNotFound):
			return nil, domain.NotFound("User with id %d not found", userID)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *UserService) FindByID(ctx context.Context, userID int64) (*models.User, error) {
	return loadUser(ctx, s.repo, userID)
}

func (s *UserService) GetAll(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Delete(ctx context.Context, userID int64) error {
	err := s.repo.DeleteUser(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return domain.NotFound("User with id %d not found", userID)
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.logger.Info().Int64("user_id", userID).Msg("User deleted")
	return nil
}
