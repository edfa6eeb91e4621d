package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/internal/repository"
	"github.com/newsai/admin-api/internal/service/article"
	"github.com/newsai/admin-api/pkg/errors"
)

type Servicer interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error)
	UpdateCategory(ctx context.Context, category *model.Category) error
	ListCategories(ctx context.Context, filter *model.CategoryFilter) ([]*model.Category, int, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	BulkSetActive(ctx context.Context, ids []uuid.UUID, active bool) (int, error)
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error)
}

type Service struct {
	repo repository.CategoryRepository
}

func NewService(repo repository.CategoryRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateCategory(ctx context.Context, category *model.Category) error {
	if category.Name == "" {
		return errors.BadRequest("name is required", nil)
	}

	category.Slug = article.Slugify(category.Name)
	category.Active = true

	if err := s.repo.Create(ctx, category); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (s *Service) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("category", err)
	}
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, category *model.Category) error {
	if category.Name != "" {
		category.Slug = article.Slugify(category.Name)
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

func (s *Service) ListCategories(ctx context.Context, filter *model.CategoryFilter) ([]*model.Category, int, error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*model.Category, error) {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, errors.NotFound("category", err)
	}
	return s.repo.Get(ctx, id)
}

// DeleteCategory refuses to remove a category that still has articles.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.repo.Get(ctx, id)
	if err != nil {
		return errors.NotFound("category", err)
	}
	if category.ArticleCount > 0 {
		return errors.Conflict(
			fmt.Sprintf("category has %d articles; reassign them first", category.ArticleCount), nil)
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func (s *Service) BulkSetActive(ctx context.Context, ids []uuid.UUID, active bool) (int, error) {
	n, err := s.repo.BulkSetActive(ctx, ids, active)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk set active: %w", err)
	}
	return n, nil
}

func (s *Service) BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	n, err := s.repo.BulkSoftDelete(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk delete: %w", err)
	}
	return n, nil
}
