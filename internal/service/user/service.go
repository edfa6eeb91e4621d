package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/internal/repository"
	"github.com/newsai/admin-api/pkg/errors"
	"github.com/newsai/admin-api/pkg/security"
)

type Servicer interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	ListUsers(ctx context.Context, filter *model.UserFilter) ([]*model.User, int, error)
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	BulkSetBlocked(ctx context.Context, ids []uuid.UUID, blocked bool) (int, error)
	Subscribe(ctx context.Context, userID, categoryID uuid.UUID) error
	Unsubscribe(ctx context.Context, userID, categoryID uuid.UUID) error
	ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]*model.Category, error)
}

type Service struct {
	repo repository.UserRepository
}

func NewService(repo repository.UserRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateUser(ctx context.Context, user *model.User) error {
	if user.Password == "" {
		return errors.BadRequest("password is required", nil)
	}

	hash, err := security.HashPassword(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = ""
	user.PasswordHash = hash

	if user.Role == "" {
		user.Role = model.UserRoleReader
	}
	user.Status = model.UserStatusActive

	if err := s.repo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("user", err)
	}
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, user *model.User) error {
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (s *Service) ListUsers(ctx context.Context, filter *model.UserFilter) ([]*model.User, int, error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

// SetBlocked blocks or unblocks a user; blocking also flips their status.
func (s *Service) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) (*model.User, error) {
	if err := s.repo.SetBlocked(ctx, id, blocked); err != nil {
		return nil, errors.NotFound("user", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return errors.NotFound("user", err)
	}
	return nil
}

func (s *Service) BulkSetBlocked(ctx context.Context, ids []uuid.UUID, blocked bool) (int, error) {
	n, err := s.repo.BulkSetBlocked(ctx, ids, blocked)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk set blocked: %w", err)
	}
	return n, nil
}

func (s *Service) Subscribe(ctx context.Context, userID, categoryID uuid.UUID) error {
	if err := s.repo.Subscribe(ctx, userID, categoryID); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	return nil
}

func (s *Service) Unsubscribe(ctx context.Context, userID, categoryID uuid.UUID) error {
	if err := s.repo.Unsubscribe(ctx, userID, categoryID); err != nil {
		return errors.NotFound("subscription", err)
	}
	return nil
}

func (s *Service) ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]*model.Category, error) {
	return s.repo.ListSubscriptions(ctx, userID)
}
