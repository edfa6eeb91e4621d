package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/internal/repository"
)

var adSortColumns = map[string]string{
	"name":        "name",
	"advertiser":  "advertiser",
	"status":      "status",
	"spend":       "spend",
	"impressions": "impressions",
	"clicks":      "clicks",
	"starts_at":   "starts_at",
	"created_at":  "created_at",
}

type adRepository struct {
	BaseRepository
}

func NewAdRepository(base BaseRepository) repository.AdRepository {
	return &adRepository{base}
}

func (r *adRepository) Create(ctx context.Context, ad *model.Advertisement) error {
	query := `
		INSERT INTO advertisements (
			id, name, advertiser, placement, target_url, image_url, status,
			spend, impressions, clicks, starts_at, ends_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	if ad.ID == uuid.Nil {
		ad.ID = uuid.New()
	}
	ad.CreatedAt = time.Now()
	ad.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		ad.ID,
		ad.Name,
		ad.Advertiser,
		ad.Placement,
		ad.TargetURL,
		ad.ImageURL,
		ad.Status,
		ad.Spend,
		ad.Impressions,
		ad.Clicks,
		ad.StartsAt,
		ad.EndsAt,
		ad.CreatedAt,
		ad.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create advertisement: %w", err)
	}
	return nil
}

func (r *adRepository) Get(ctx context.Context, id uuid.UUID) (*model.Advertisement, error) {
	query := `
		SELECT * FROM advertisements
		WHERE id = $1 AND deleted_at IS NULL
	`

	var ad model.Advertisement
	if err := r.db.GetContext(ctx, &ad, query, id); err != nil {
		return nil, fmt.Errorf("failed to get advertisement: %w", err)
	}
	return &ad, nil
}

func (r *adRepository) GetDeleted(ctx context.Context, id uuid.UUID) (*model.Advertisement, error) {
	query := `
		SELECT * FROM advertisements
		WHERE id = $1 AND deleted_at IS NOT NULL
	`

	var ad model.Advertisement
	if err := r.db.GetContext(ctx, &ad, query, id); err != nil {
		return nil, fmt.Errorf("failed to get deleted advertisement: %w", err)
	}
	return &ad, nil
}

func (r *adRepository) Update(ctx context.Context, ad *model.Advertisement) error {
	query := `
		UPDATE advertisements SET
			name = $1,
			advertiser = $2,
			placement = $3,
			target_url = $4,
			image_url = $5,
			starts_at = $6,
			ends_at = $7,
			updated_at = $8
		WHERE id = $9 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		ad.Name,
		ad.Advertiser,
		ad.Placement,
		ad.TargetURL,
		ad.ImageURL,
		ad.StartsAt,
		ad.EndsAt,
		time.Now(),
		ad.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update advertisement: %w", err)
	}
	return requireRowsAffected(result, "advertisement")
}

func (r *adRepository) List(ctx context.Context, filter *model.AdFilter) ([]*model.Advertisement, int, error) {
	clause := newListClause()
	clause.addSearch(filter.Search, "name", "advertiser")

	if filter.Status != "" && filter.Status != "all" {
		clause.add("status = $%d", filter.Status)
	}
	if filter.Placement != "" && filter.Placement != "all" {
		clause.add("placement = $%d", filter.Placement)
	}
	if filter.Advertiser != "" {
		clause.add("advertiser = $%d", filter.Advertiser)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM advertisements" + clause.where()
	if err := r.db.GetContext(ctx, &total, countQuery, clause.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count advertisements: %w", err)
	}

	query := "SELECT * FROM advertisements" + clause.where() +
		orderBy(filter.SortOrder, adSortColumns) +
		paginate(filter.Pagination)

	var ads []*model.Advertisement
	if err := r.db.SelectContext(ctx, &ads, query, clause.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list advertisements: %w", err)
	}
	return ads, total, nil
}

func (r *adRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AdStatus) error {
	query := `
		UPDATE advertisements
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update advertisement status: %w", err)
	}
	return requireRowsAffected(result, "advertisement")
}

func (r *adRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE advertisements
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete advertisement: %w", err)
	}
	return requireRowsAffected(result, "advertisement")
}

func (r *adRepository) Restore(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE advertisements
		SET deleted_at = NULL, status = 'pending', updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NOT NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to restore advertisement: %w", err)
	}
	return requireRowsAffected(result, "advertisement")
}

func (r *adRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM advertisements
		WHERE id = $1 AND deleted_at IS NOT NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to permanently delete advertisement: %w", err)
	}
	return requireRowsAffected(result, "advertisement")
}

func (r *adRepository) BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status model.AdStatus) (int, error) {
	query := `
		UPDATE advertisements
		SET status = $2, updated_at = NOW()
		WHERE id = ANY($1) AND deleted_at IS NULL
	`
	n, err := r.bulkExec(ctx, query, ids, status)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update advertisement status: %w", err)
	}
	return n, nil
}

func (r *adRepository) BulkSoftDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	query := `
		UPDATE advertisements
		SET deleted_at = NOW()
		WHERE id = ANY($1) AND deleted_at IS NULL
	`
	n, err := r.bulkExec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk delete advertisements: %w", err)
	}
	return n, nil
}
