package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/internal/repository"
)

var categorySortColumns = map[string]string{
	"name":          "name",
	"article_count": "article_count",
	"created_at":    "created_at",
	"updated_at":    "updated_at",
}

type categoryRepository struct {
	BaseRepository
}

func NewCategoryRepository(base BaseRepository) repository.CategoryRepository {
	return &categoryRepository{base}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	query := `
		INSERT INTO categories (
			id, name, slug, description, color, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.Name,
		category.Slug,
		category.Description,
		category.Color,
		category.Active,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *categoryRepository) Get(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	query := `
		SELECT c.*,
		       (SELECT COUNT(*) FROM articles a WHERE a.category_id = c.id AND a.deleted_at IS NULL) AS article_count
		FROM categories c
		WHERE c.id = $1 AND c.deleted_at IS NULL
	`

	var category model.Category
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	query := `
		UPDATE categories SET
			name = $1,
			slug = $2,
			description = $3,
			color = $4,
			active = $5,
			updated_at = $6
		WHERE id = $7 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		category.Name,
		category.Slug,
		category.Description,
		category.Color,
		category.Active,
		time.Now(),
		category.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return requireRowsAffected(result, "category")
}

func (r *categoryRepository) List(ctx context.Context, filter *model.CategoryFilter) ([]*model.Category, int, error) {
	clause := newListClause()
	clause.addSearch(filter.Search, "name", "description")

	if filter.Active != nil {
		clause.add("active = $%d", *filter.Active)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM categories" + clause.where()
	if err := r.db.GetContext(ctx, &total, countQuery, clause.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	query := `SELECT c.*,
		(SELECT COUNT(*) FROM articles a WHERE a.category_id = c.id AND a.deleted_at IS NULL) AS article_count
		FROM categories c` + clause.where() +
		orderBy(filter.SortOrder, categorySortColumns) +
		paginate(filter.Pagination)

	var categories []*model.Category
	if err := r.db.SelectContext(ctx, &categories, query, clause.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, total, nil
}

func (r *categoryRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `
		UPDATE categories
		SET active = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to set category active: %w", err)
	}
	return requireRowsAffected(result, "category")
}

func (r *categoryRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE categories
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return requireRowsAffected(result, "category")
}

func (r *categoryRepository) BulkSetActive(ctx context.Context, ids []uuid.UUID, active bool) (int, error) {
	query := `
		UPDATE categories
		SET active = $2, updated_at = NOW()
		WHERE id = ANY($1) AND deleted_at IS NULL
	`
	n, err := r.bulkExec(ctx, query, ids, active)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk set category active: %w", err)
	}
	return n, nil
}

func (r *categoryRepository) BulkSoftDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	query := `
		UPDATE categories
		SET deleted_at = NOW()
		WHERE id = ANY($1) AND deleted_at IS NULL
	`
	n, err := r.bulkExec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk delete categories: %w", err)
	}
	return n, nil
}
