package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/internal/repository"
)

// Columns the operator may sort articles by, mapped to real columns.
var articleSortColumns = map[string]string{
	"title":        "title",
	"status":       "status",
	"views":        "views",
	"likes":        "likes",
	"published_at": "published_at",
	"created_at":   "created_at",
	"updated_at":   "updated_at",
}

// Flags the operator may toggle on an article.
var articleFlagColumns = map[string]bool{
	"featured": true,
	"breaking": true,
}

type articleRepository struct {
	BaseRepository
}

func NewArticleRepository(base BaseRepository) repository.ArticleRepository {
	return &articleRepository{base}
}

func (r *articleRepository) Create(ctx context.Context, article *model.Article) error {
	query := `
		INSERT INTO articles (
			id, title, slug, summary, content, category_id, author_id,
			status, featured, breaking, views, likes, published_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	article.CreatedAt = time.Now()
	article.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		article.ID,
		article.Title,
		article.Slug,
		article.Summary,
		article.Content,
		article.CategoryID,
		article.AuthorID,
		article.Status,
		article.Featured,
		article.Breaking,
		article.Views,
		article.Likes,
		article.PublishedAt,
		article.CreatedAt,
		article.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}

func (r *articleRepository) Get(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	query := `
		SELECT * FROM articles
		WHERE id = $1 AND deleted_at IS NULL
	`

	var article model.Article
	if err := r.db.GetContext(ctx, &article, query, id); err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return &article, nil
}

// GetDeleted fetches an article from the trash only.
func (r *articleRepository) GetDeleted(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	query := `
		SELECT * FROM articles
		WHERE id = $1 AND deleted_at IS NOT NULL
	`

	var article model.Article
	if err := r.db.GetContext(ctx, &article, query, id); err != nil {
		return nil, fmt.Errorf("failed to get deleted article: %w", err)
	}
	return &article, nil
}

func (r *articleRepository) Update(ctx context.Context, article *model.Article) error {
	query := `
		UPDATE articles SET
			title = $1,
			slug = $2,
			summary = $3,
			content = $4,
			category_id = $5,
			featured = $6,
			breaking = $7,
			updated_at = $8
		WHERE id = $9 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		article.Title,
		article.Slug,
		article.Summary,
		article.Content,
		article.CategoryID,
		article.Featured,
		article.Breaking,
		time.Now(),
		article.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}
	return requireRowsAffected(result, "article")
}

func (r *articleRepository) List(ctx context.Context, filter *model.ArticleFilter) ([]*model.Article, int, error) {
	clause := newListClause()
	clause.addSearch(filter.Search, "title", "summary")

	if filter.Status != "" && filter.Status != "all" {
		clause.add("status = $%d", filter.Status)
	}
	if filter.CategoryID != nil {
		clause.add("category_id = $%d", *filter.CategoryID)
	}
	if filter.AuthorID != nil {
		clause.add("author_id = $%d", *filter.AuthorID)
	}
	if filter.Featured != nil {
		clause.add("featured = $%d", *filter.Featured)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM articles" + clause.where()
	if err := r.db.GetContext(ctx, &total, countQuery, clause.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	query := "SELECT * FROM articles" + clause.where() +
		orderBy(filter.SortOrder, articleSortColumns) +
		paginate(filter.Pagination)

	var articles []*model.Article
	if err := r.db.SelectContext(ctx, &articles, query, clause.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, total, nil
}

func (r *articleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ArticleStatus, setPublishedAt bool) error {
	query := `
		UPDATE articles
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`
	if setPublishedAt {
		// Only stamp the first publication.
		query = `
			UPDATE articles
			SET status = $1, published_at = COALESCE(published_at, NOW()), updated_at = NOW()
			WHERE id = $2 AND deleted_at IS NULL
		`
	}

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update article status: %w", err)
	}
	return requireRowsAffected(result, "article")
}

func (r *articleRepository) SetFlag(ctx context.Context, id uuid.UUID, flag string, value bool) error {
	if !articleFlagColumns[flag] {
		return fmt.Errorf("unknown article flag %q", flag)
	}

	query := fmt.Sprintf(`
		UPDATE articles
		SET %s = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`, flag)

	result, err := r.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("failed to set article flag: %w", err)
	}
	return requireRowsAffected(result, "article")
}

func (r *articleRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE articles
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	return requireRowsAffected(result, "article")
}

func (r *articleRepository) Restore(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE articles
		SET deleted_at = NULL, status = 'draft', updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NOT NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to restore article: %w", err)
	}
	return requireRowsAffected(result, "article")
}

func (r *articleRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM articles
		WHERE id = $1 AND deleted_at IS NOT NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to permanently delete article: %w", err)
	}
	return requireRowsAffected(result, "article")
}

func (r *articleRepository) BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status model.ArticleStatus) (int, error) {
	query := `
		UPDATE articles
		SET status = $2,
		    published_at = CASE WHEN $2 = 'published' THEN COALESCE(published_at, NOW()) ELSE published_at END,
		    updated_at = NOW()
		WHERE id = ANY($1) AND deleted_at IS NULL
	`
	n, err := r.bulkExec(ctx, query, ids, status)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update article status: %w", err)
	}
	return n, nil
}

func (r *articleRepository) BulkSoftDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	query := `
		UPDATE articles
		SET deleted_at = NOW()
		WHERE id = ANY($1) AND deleted_at IS NULL
	`
	n, err := r.bulkExec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk delete articles: %w", err)
	}
	return n, nil
}

func (r *articleRepository) BulkRestore(ctx context.Context, ids []uuid.UUID) (int, error) {
	query := `
		UPDATE articles
		SET deleted_at = NULL, status = 'draft', updated_at = NOW()
		WHERE id = ANY($1) AND deleted_at IS NOT NULL
	`
	n, err := r.bulkExec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk restore articles: %w", err)
	}
	return n, nil
}

// requireRowsAffected converts a zero-row result into a not-found error
func requireRowsAffected(result sql.Result, resource string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s not found", resource)
	}
	return nil
}
